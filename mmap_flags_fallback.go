//go:build unix && !linux && !freebsd

package minhook

// Darwin, NetBSD and OpenBSD don't have an equivalent to
// MAP_FIXED_NOREPLACE. We have to trust the OS to honor the hint, and
// mapBlock verifies the address it actually got.
//
// https://developer.apple.com/library/archive/documentation/System/Conceptual/ManPages_iPhoneOS/man2/mmap.2.html
// https://man.netbsd.org/mmap.2
// https://man.openbsd.org/mmap.2
const _MAP_FIXED_NOREPLACE = 0
