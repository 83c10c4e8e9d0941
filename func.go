package minhook

import (
	"reflect"
	"unsafe"
)

// funcval mirrors the runtime's closure header: a Go func value is a pointer
// to a struct whose first word is the code address.
type funcval struct {
	fn uintptr
}

// FuncAddr returns the entry address of fn's code. fn must be a func value.
// Method values and closures resolve to their wrapper's entry, which is
// usually not what a hook wants; pass package-level functions.
func FuncAddr(fn any) uintptr {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic("minhook: FuncAddr requires a func value")
	}
	return v.Pointer()
}

// AsFunc reinterprets a raw code address as a callable func of type T. It is
// the bridge for calling a trampoline returned by CreateHook from Go:
//
//	tramp := minhook.AsFunc[func(int, int) int](entry)
//
// T must match the target's signature exactly; nothing is checked.
func AsFunc[T any](addr uintptr) T {
	fv := &funcval{fn: addr}
	return *(*T)(unsafe.Pointer(&fv))
}
