// Package minhook redirects calls to machine-code functions at runtime.
//
// A hook overwrites the first instructions of a target function with a jump
// to a caller-supplied detour. The overwritten instructions are preserved in
// a generated trampoline, so the detour can still invoke the original
// behavior.
//
// On Windows every patch happens inside a freeze-and-patch critical section:
// all other threads are suspended, any instruction pointer caught inside a
// rewritten range is moved to the equivalent surviving instruction, and the
// threads are resumed after the write. On Unix the default build patches
// live, because the platform has no way to suspend sibling threads from
// inside the process. Building with the stw tag parks all goroutines around
// each patch cycle instead; that build pulls runtime.stopTheWorld over a
// linkname and therefore needs
//
//	go build -tags stw -ldflags=-checklinkname=0
//
// Targets are raw code addresses. Use FuncAddr to obtain the address of a Go
// function and AsFunc to call a trampoline from Go.
//
// Limitations:
//   - Only supports x86 and x86-64
//   - Cannot hook functions shorter than the patch, or functions whose
//     leading instructions it cannot decode and relocate
//   - One hook per target; a second CreateHook on the same address fails
package minhook
