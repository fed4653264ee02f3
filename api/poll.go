// Package api
// Author: momentics
//
// Poll-mode consumer contract over a receive ring.

package api

import "context"

// Poller drains a receive ring without blocking on an empty ring.
type Poller interface {
	// Poll receives up to maxEvents packets; returns number handled and error.
	Poll(maxEvents int) (handled int, err error)

	// Run polls until ctx is done.
	Run(ctx context.Context) error
}
