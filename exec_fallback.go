//go:build unix && !linux

package minhook

// No cheap way to inspect mapping permissions on these systems without
// mach/kvm calls. A non-executable target still fails later, at trampoline
// decode or at the patch write.
func isExecutable(addr uintptr) bool {
	return addr != 0
}
