//go:build freebsd

package minhook

import "golang.org/x/sys/unix"

// FreeBSD has no MAP_FIXED_NOREPLACE; mmap(2) spells the same take-this-
// address-or-fail behavior as MAP_FIXED combined with MAP_EXCL.
const _MAP_FIXED_NOREPLACE = unix.MAP_FIXED | unix.MAP_EXCL
