//go:build unix && stw

package minhook

import (
	_ "unsafe" // for go:linkname
)

// This variant stops the runtime's world around each patch cycle: every other
// thread parks at a safepoint before stopTheWorld returns, so none of them can
// resume into the bytes being rewritten.
//
// runtime.stopTheWorld has no push linkname, so pulling it requires disabling
// the linker's linkname check:
//
//	go build -tags stw -ldflags=-checklinkname=0
//
// Without the flag the link fails, which is why this is opt-in rather than
// the unix default.

// stwReason matches runtime.stwReason. The value only feeds runtime tracing.
type stwReason uint8

// worldStop matches runtime.worldStop.
type worldStop struct {
	reason           stwReason
	startedStopping  int64
	finishedStopping int64
	stoppingCPUTime  int64
}

//go:linkname stopTheWorld runtime.stopTheWorld
func stopTheWorld(reason stwReason) worldStop

//go:linkname startTheWorld runtime.startTheWorld
func startTheWorld(w worldStop)

type frozen struct {
	w worldStop
}

func freezeThreads(_ []patchRegion) (frozen, error) {
	return frozen{w: stopTheWorld(0)}, nil
}

func (f frozen) thaw() {
	startTheWorld(f.w)
}
