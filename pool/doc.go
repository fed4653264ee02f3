// Package pool
// Author: momentics <momentics@gmail.com>
//
// Memory layer for hioload-rx.
// Provides the fixed-frame arena that backs every RX ring slot: one contiguous
// region, mmap'ed on Linux and heap-allocated elsewhere, carved into frames that
// are written in place and handed out as zero-copy views.
// See arena.go for the frame layout and arena_linux.go for the mapping.
package pool
