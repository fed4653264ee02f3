//go:build !linux
// +build !linux

// File: pool/arena_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub for platforms without an arena mapping; callers fall back to the heap.

package pool

import "github.com/momentics/hioload-rx/api"

func mapRegion(size int) ([]byte, error) {
	return nil, api.ErrNotSupported
}

func unmapRegion(b []byte) error {
	return nil
}
