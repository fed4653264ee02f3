//go:build linux
// +build linux

// File: pool/arena_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux arena mapping: anonymous, private, pre-faulted pages.

package pool

import (
	"golang.org/x/sys/unix"
)

// mapRegion maps at least size bytes rounded up to the page size.
func mapRegion(size int) ([]byte, error) {
	page := unix.Getpagesize()
	length := (size + page - 1) &^ (page - 1)
	return unix.Mmap(-1, 0, length,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANONYMOUS|unix.MAP_POPULATE)
}

func unmapRegion(b []byte) error {
	return unix.Munmap(b)
}
