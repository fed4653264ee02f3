package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/momentics/hioload-rx/api"
	"github.com/momentics/hioload-rx/socket"
)

var (
	busy = color.New(color.FgYellow, color.Bold).SprintFunc()
	free = color.New(color.FgGreen).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()
)

func status(occupied bool) string {
	if occupied {
		return busy("true")
	}
	return free("false")
}

func printHandle(w io.Writer, h *socket.Handle) {
	fmt.Fprintf(w, "idx: %d, status: %s, packet: %v\n", h.Index(), status(h.Occupied()), h.Bytes())
}

func printSlots(w io.Writer, slots []api.SlotInfo) {
	fmt.Fprintln(w, dim("slot  occupied  gen"))
	for _, s := range slots {
		fmt.Fprintf(w, "%4d  %-8s  %d\n", s.Index, status(s.Occupied), s.Generation)
	}
}

func printStats(w io.Writer, stats ...map[string]any) {
	merged := map[string]any{}
	for _, m := range stats {
		for k, v := range m {
			merged[k] = v
		}
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s %v\n", dim(k+":"), merged[k])
	}
}
