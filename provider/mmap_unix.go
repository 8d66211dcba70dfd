// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

//go:build darwin || dragonfly || freebsd || linux || openbsd || solaris || netbsd

// Adapted (c) 2026 for the heap allocator's backing provider: instead of
// many small per-size-class pages, one large anonymous region is reserved up
// front and handed out via brk-style bump allocation.

package provider

import "golang.org/x/sys/unix"

func mapRegion(size int) ([]byte, error) {
	flags := unix.MAP_SHARED | unix.MAP_ANON
	prot := unix.PROT_READ | unix.PROT_WRITE
	return unix.Mmap(-1, 0, size, prot, flags)
}

func unmapRegion(b []byte) error {
	return unix.Munmap(b)
}
