//go:build amd64

package minhook_test

import (
	"fmt"

	"github.com/anowalinski/minhook"
)

//go:noinline
func versionNumber() string {
	return "1.0.0"
}

// version calls a helper so it carries a stack frame; the frame's stack-bound
// check makes its prologue wide enough to patch.
//
//go:noinline
func version() string {
	return versionNumber()
}

var versionTramp func() string

//go:noinline
func versionDetour() string {
	return versionTramp() + "-patched"
}

func Example() {
	engine := minhook.New()
	if err := engine.Initialize(); err != nil {
		panic(err)
	}
	defer engine.Uninitialize()

	target := minhook.FuncAddr(version)
	entry, err := engine.CreateHook(target, minhook.FuncAddr(versionDetour))
	if err != nil {
		panic(err)
	}
	versionTramp = minhook.AsFunc[func() string](entry)

	if err := engine.EnableHook(target); err != nil {
		panic(err)
	}
	fmt.Println(version())

	if err := engine.DisableHook(target); err != nil {
		panic(err)
	}
	fmt.Println(version())

	// Output:
	// 1.0.0-patched
	// 1.0.0
}
