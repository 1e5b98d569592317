// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

// Modifications (c) 2017 The Memory Authors.
// Further modifications for the segregated-fit heap allocator.

//go:build unix

package segalloc

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mmapLayer is an alternative MemoryLayer grounded on the teacher
// package's mmap_unix.go: instead of mmap-ing one independent page per
// size class, it reserves a single large anonymous mapping up front
// (PROT_NONE, uncommitted) and commits pages into it with Mprotect as
// the heap grows. The reservation's base address is fixed for the
// layer's lifetime, which is exactly the stability the boundary-tag
// allocator needs, and the up-front reservation is what gives the
// 32-bit free-list offsets (spec §4.4, §9) their 4 GiB ceiling: the
// allocator core itself never calls into the OS, only this layer does.
type mmapLayer struct {
	region    []byte
	len       int
	committed int
	pageSize  int
}

// newMmapLayer reserves maxBytes of address space. No physical memory
// is committed until Grow is called.
func newMmapLayer(maxBytes int) (*mmapLayer, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("%w: maxBytes must be > 0, got %d", ErrInvalidArgument, maxBytes)
	}
	region, err := unix.Mmap(-1, 0, maxBytes, unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap reservation failed: %v", ErrOutOfMemory, err)
	}
	return &mmapLayer{region: region, pageSize: unix.Getpagesize()}, nil
}

func (l *mmapLayer) Grow(n int) (unsafe.Pointer, error) {
	needed := l.len + n
	if needed > len(l.region) {
		return nil, fmt.Errorf("%w: reserved %d bytes, have %d in use", ErrOutOfMemory, len(l.region), l.len)
	}
	if needed > l.committed {
		newCommitted := roundup(needed, l.pageSize)
		if newCommitted > len(l.region) {
			newCommitted = len(l.region)
		}
		if err := unix.Mprotect(l.region[:newCommitted], unix.PROT_READ|unix.PROT_WRITE); err != nil {
			return nil, fmt.Errorf("%w: mprotect commit failed: %v", ErrOutOfMemory, err)
		}
		l.committed = newCommitted
	}
	p := unsafe.Pointer(&l.region[l.len])
	l.len += n
	return p, nil
}

func (l *mmapLayer) Close() error {
	if l.region == nil {
		return nil
	}
	err := unix.Munmap(l.region)
	l.region = nil
	l.len = 0
	l.committed = 0
	return err
}

// NewMmapMemoryLayer constructs a MemoryLayer backed by a reserve/commit
// anonymous mmap region, for callers who want the heap to live outside
// the Go garbage collector's reach (e.g. to hand the region to another
// process, or to exercise the OS paging path in tests) instead of the
// default slice-backed layer.
func NewMmapMemoryLayer(maxBytes int) (MemoryLayer, error) {
	return newMmapLayer(maxBytes)
}
