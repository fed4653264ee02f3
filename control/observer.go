// control/observer.go
// Author: momentics <momentics@gmail.com>

package control

import "github.com/momentics/hioload-rx/api"

type teeObserver []api.SlotObserver

func (t teeObserver) OnSlotEvent(ev api.SlotEvent) {
	for _, o := range t {
		o.OnSlotEvent(ev)
	}
}

// Tee fans one event stream out to every non-nil observer.
func Tee(obs ...api.SlotObserver) api.SlotObserver {
	out := make(teeObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}
