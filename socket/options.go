// File: socket/options.go
// Package socket defines functional options for the Socket facade.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package socket

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Option customizes socket initialization.
type Option func(*Socket)

// WithLogger replaces the logger built from Config.LogLevel.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Socket) {
		s.log = l
	}
}

// WithClock overrides time.Now for claim timestamps and staleness checks.
func WithClock(clock func() time.Time) Option {
	return func(s *Socket) {
		s.clock = clock
	}
}

// WithFiller overrides the default frame fill pattern.
func WithFiller(f Filler) Option {
	return func(s *Socket) {
		s.filler = f
	}
}
