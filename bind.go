package minhook

// CreateHookByName resolves an exported symbol of a loaded module and hooks
// it. An empty module names the running executable. It returns the resolved
// target address alongside the trampoline, so the caller can disable or
// remove the hook later.
func (e *Engine) CreateHookByName(module, symbol string, detour uintptr) (target, trampoline uintptr, err error) {
	e.mu.Lock()
	initialized := e.initialized
	e.mu.Unlock()
	if !initialized {
		return 0, 0, StatusNotInitialized
	}

	target, err = resolveSymbol(module, symbol)
	if err != nil {
		return 0, 0, err
	}
	trampoline, err = e.CreateHook(target, detour)
	if err != nil {
		return 0, 0, err
	}
	return target, trampoline, nil
}
