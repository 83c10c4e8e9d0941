//go:build unix && !stw

package minhook

// Unix offers no supported way to suspend sibling threads from inside the
// process: there is no SuspendThread equivalent, and a signal-based rendezvous
// would need a handler the Go runtime owns. Stopping the runtime's world is
// possible through runtime.stopTheWorld, but that is a pull-only linkname the
// linker rejects since Go 1.23 unless built with -ldflags=-checklinkname=0.
//
// The default build therefore patches live, like every Go inline-patching
// library on this platform. Programs that accept the linker flag can build
// with the stw tag to park all goroutines during the rewrite; see
// freeze_unix_stw.go. The ip move table is only consulted on Windows, where
// thread contexts are reachable.

type frozen struct{}

func freezeThreads(_ []patchRegion) (frozen, error) {
	return frozen{}, nil
}

func (f frozen) thaw() {}
