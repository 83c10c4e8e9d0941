//go:build unix && !linux

package minhook

import "github.com/pkg/errors"

// Without a loader API or /proc, mapped modules cannot be enumerated here;
// hook by address instead.
func resolveSymbol(module, _ string) (uintptr, error) {
	return 0, errors.WithMessage(StatusModuleNotFound, module)
}
