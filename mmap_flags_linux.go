//go:build linux

package minhook

import "golang.org/x/sys/unix"

// MAP_FIXED_NOREPLACE fails instead of clobbering an existing mapping, so
// probing hint addresses near the target is safe.
//
// https://man7.org/linux/man-pages/man2/mmap.2.html
const _MAP_FIXED_NOREPLACE = unix.MAP_FIXED_NOREPLACE
