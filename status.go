package minhook

// Status is the outcome of an engine operation. Every public operation
// returns exactly one value from this closed set; values other than StatusOK
// are returned as errors and compare with errors.Is.
type Status int

const (
	StatusOK Status = iota

	// Lifecycle preconditions.
	StatusAlreadyInitialized
	StatusNotInitialized

	// Per-hook preconditions. Detected before any mutation; state is left
	// untouched.
	StatusAlreadyCreated
	StatusNotCreated
	StatusEnabled
	StatusDisabled

	// Target shape. The target cannot be hooked at all; retrying the same
	// call cannot succeed.
	StatusNotExecutable
	StatusUnsupportedFunction
	StatusModuleNotFound
	StatusFunctionNotFound

	// OS resources. No partial state is committed, so the caller may retry
	// the same call.
	StatusMemoryAlloc
	StatusMemoryProtect

	// StatusUnknown should be unreachable; seeing it signals a bug in this
	// package, not a recoverable condition.
	StatusUnknown
)

func (s Status) Error() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusAlreadyInitialized:
		return "already initialized"
	case StatusNotInitialized:
		return "not initialized"
	case StatusAlreadyCreated:
		return "hook already created for this target"
	case StatusNotCreated:
		return "hook not created for this target"
	case StatusEnabled:
		return "hook already enabled"
	case StatusDisabled:
		return "hook already disabled"
	case StatusNotExecutable:
		return "target is not executable"
	case StatusUnsupportedFunction:
		return "target function cannot be hooked"
	case StatusModuleNotFound:
		return "module not found"
	case StatusFunctionNotFound:
		return "function not found"
	case StatusMemoryAlloc:
		return "failed to allocate executable memory"
	case StatusMemoryProtect:
		return "failed to change memory protection"
	}
	return "unknown error"
}

func (s Status) String() string {
	return s.Error()
}
