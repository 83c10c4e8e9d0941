//go:build windows

package minhook

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

type frozen struct {
	threads []windows.Handle
}

// freezeThreads suspends every other thread of this process via a Toolhelp
// snapshot and moves any instruction pointer sitting inside a region being
// rewritten to its equivalent boundary. Threads that appear or exit between
// the snapshot and the suspend are tolerated: OpenThread simply fails and the
// thread cannot yet be executing the (not yet patched) region.
func freezeThreads(regions []patchRegion) (frozen, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPTHREAD, 0)
	if err != nil {
		return frozen{}, StatusUnknown
	}
	defer windows.CloseHandle(snap)

	pid := windows.GetCurrentProcessId()
	self := windows.GetCurrentThreadId()

	var fr frozen
	var entry windows.ThreadEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))
	for terr := windows.Thread32First(snap, &entry); terr == nil; terr = windows.Thread32Next(snap, &entry) {
		if entry.OwnerProcessID != pid || entry.ThreadID == self {
			continue
		}
		h, oerr := windows.OpenThread(
			windows.THREAD_SUSPEND_RESUME|windows.THREAD_GET_CONTEXT|windows.THREAD_SET_CONTEXT,
			false, entry.ThreadID)
		if oerr != nil {
			continue
		}
		if _, serr := windows.SuspendThread(h); serr != nil {
			windows.CloseHandle(h)
			continue
		}
		fr.threads = append(fr.threads, h)
		redirectThread(h, regions)
	}
	return fr, nil
}

// thaw resumes everything it suspended. Called on every exit path of a patch
// cycle, success or not.
func (f frozen) thaw() {
	for _, h := range f.threads {
		_, _ = windows.ResumeThread(h)
		windows.CloseHandle(h)
	}
}

func redirectThread(h windows.Handle, regions []patchRegion) {
	ip, err := threadIP(h)
	if err != nil {
		return
	}
	if moved := redirect(ip, regions); moved != ip {
		_ = setThreadIP(h, moved)
	}
}
