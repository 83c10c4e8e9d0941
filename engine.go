package minhook

import "sync"

type hookState uint8

const (
	stateDisabled hookState = iota
	stateEnabled
	stateQueuedEnable  // disabled, enable pending ApplyQueued
	stateQueuedDisable // enabled, disable pending ApplyQueued
)

// hookEntry is the per-target record in the hook table. The slot (and with
// it the trampoline) is owned by the entry from creation until removal, when
// it returns to the allocator.
type hookEntry struct {
	target     uintptr
	detour     uintptr
	slot       *slot
	trampoline uintptr
	original   []byte
	patch      []byte
	oldOffs    []uint8
	newOffs    []uint8
	state      hookState
}

func (h *hookEntry) enabled() bool {
	return h.state == stateEnabled || h.state == stateQueuedDisable
}

// region describes the bytes a state flip rewrites, plus the
// instruction-boundary moves that keep a frozen thread out of them. Enabling
// rewrites the target prologue, so threads there move into the trampoline.
// Disabling restores the prologue and evacuates the trampoline instead, so
// that a subsequent RemoveHook can free the slot with no thread inside it.
func (h *hookEntry) region(enable bool) patchRegion {
	moves := make([]ipMove, len(h.oldOffs))
	if enable {
		for i := range h.oldOffs {
			moves[i] = ipMove{
				from: h.target + uintptr(h.oldOffs[i]),
				to:   h.trampoline + uintptr(h.newOffs[i]),
			}
		}
		return patchRegion{start: h.target, length: len(h.original), moves: moves}
	}
	for i := range h.newOffs {
		moves[i] = ipMove{
			from: h.trampoline + uintptr(h.newOffs[i]),
			to:   h.target + uintptr(h.oldOffs[i]),
		}
	}
	return patchRegion{start: h.slot.addr, length: slotSize, moves: moves}
}

// Engine is the process-state handle: the hook table, the executable-memory
// allocator and the lock that serializes every mutation, including the
// freeze-and-patch cycles. The zero value is uninitialized; call Initialize
// before anything else.
type Engine struct {
	mu          sync.Mutex
	initialized bool
	hooks       map[uintptr]*hookEntry
	alloc       *allocator
}

// New returns an uninitialized Engine.
func New() *Engine {
	return &Engine{}
}

// Initialize allocates the hook table and allocator state. It fails with
// StatusAlreadyInitialized on a second call.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return StatusAlreadyInitialized
	}
	e.hooks = make(map[uintptr]*hookEntry)
	e.alloc = &allocator{}
	e.initialized = true
	return nil
}

// Uninitialize disables and removes every live hook and unmaps all executable
// memory. It fails with StatusNotInitialized when not initialized, and with
// the underlying status when a hook cannot be disabled (in which case the
// engine stays initialized and the call can be retried).
func (e *Engine) Uninitialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return StatusNotInitialized
	}
	if err := e.removeAllLocked(); err != nil {
		return err
	}
	e.alloc.releaseAll()
	e.hooks = nil
	e.alloc = nil
	e.initialized = false
	return nil
}

// CreateHook builds a trampoline for target and records a disabled hook to
// detour. The target's bytes are untouched until EnableHook. On success it
// returns the trampoline entry address, through which the original function
// remains callable.
func (e *Engine) CreateHook(target, detour uintptr) (uintptr, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return 0, StatusNotInitialized
	}
	if _, ok := e.hooks[target]; ok {
		return 0, StatusAlreadyCreated
	}
	if !isExecutable(target) || !isExecutable(detour) {
		return 0, StatusNotExecutable
	}

	s, err := e.alloc.alloc(target)
	if err != nil {
		return 0, err
	}

	var tr *trampolineResult
	err = e.alloc.withWritable(s, func() error {
		var berr error
		tr, berr = buildTrampoline(target, detour, s, archMode)
		return berr
	})
	if err != nil {
		e.alloc.free(s)
		return 0, err
	}

	e.hooks[target] = &hookEntry{
		target:     target,
		detour:     detour,
		slot:       s,
		trampoline: tr.entry,
		original:   tr.original,
		patch:      tr.patch,
		oldOffs:    tr.oldOffs,
		newOffs:    tr.newOffs,
		state:      stateDisabled,
	}
	return tr.entry, nil
}

// EnableHook patches the target so calls land in the detour.
func (e *Engine) EnableHook(target uintptr) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, err := e.entryLocked(target)
	if err != nil {
		return err
	}
	if h.enabled() {
		return StatusEnabled
	}
	return e.applyLocked([]patchOp{{h, true}})
}

// DisableHook restores the target's original bytes.
func (e *Engine) DisableHook(target uintptr) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, err := e.entryLocked(target)
	if err != nil {
		return err
	}
	if !h.enabled() {
		return StatusDisabled
	}
	return e.applyLocked([]patchOp{{h, false}})
}

// EnableAllHooks enables every disabled hook in a single freeze cycle.
// Hooks already enabled are left alone.
func (e *Engine) EnableAllHooks() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return StatusNotInitialized
	}
	var ops []patchOp
	for _, h := range e.hooks {
		if !h.enabled() {
			ops = append(ops, patchOp{h, true})
		}
	}
	return e.applyLocked(ops)
}

// DisableAllHooks disables every enabled hook in a single freeze cycle.
func (e *Engine) DisableAllHooks() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return StatusNotInitialized
	}
	var ops []patchOp
	for _, h := range e.hooks {
		if h.enabled() {
			ops = append(ops, patchOp{h, false})
		}
	}
	return e.applyLocked(ops)
}

// QueueEnableHook marks the hook to be enabled by the next ApplyQueued
// without touching any code yet. Queueing the state the hook is already in
// cancels a pending opposite transition.
func (e *Engine) QueueEnableHook(target uintptr) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, err := e.entryLocked(target)
	if err != nil {
		return err
	}
	if h.enabled() {
		if h.state == stateQueuedDisable {
			h.state = stateEnabled
		}
	} else {
		h.state = stateQueuedEnable
	}
	return nil
}

// QueueDisableHook marks the hook to be disabled by the next ApplyQueued.
func (e *Engine) QueueDisableHook(target uintptr) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, err := e.entryLocked(target)
	if err != nil {
		return err
	}
	if h.enabled() {
		h.state = stateQueuedDisable
	} else if h.state == stateQueuedEnable {
		h.state = stateDisabled
	}
	return nil
}

// ApplyQueued flips every queued hook in one freeze cycle, so the batch
// becomes visible to other threads all at once. On failure no transition is
// committed and the queue marks survive, so the call can be retried.
func (e *Engine) ApplyQueued() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return StatusNotInitialized
	}
	var ops []patchOp
	for _, h := range e.hooks {
		switch h.state {
		case stateQueuedEnable:
			ops = append(ops, patchOp{h, true})
		case stateQueuedDisable:
			ops = append(ops, patchOp{h, false})
		}
	}
	return e.applyLocked(ops)
}

// RemoveHook disables the hook if necessary, releases its trampoline slot
// and deletes the table entry. The target can be hooked again afterwards.
func (e *Engine) RemoveHook(target uintptr) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, err := e.entryLocked(target)
	if err != nil {
		return err
	}
	return e.removeLocked(h)
}

// RemoveAllHooks removes every hook, disabling enabled ones first.
func (e *Engine) RemoveAllHooks() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return StatusNotInitialized
	}
	return e.removeAllLocked()
}

// Hooked reports whether target currently has a live hook entry.
func (e *Engine) Hooked(target uintptr) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.hooks[target]
	return ok
}

func (e *Engine) entryLocked(target uintptr) (*hookEntry, error) {
	if !e.initialized {
		return nil, StatusNotInitialized
	}
	h, ok := e.hooks[target]
	if !ok {
		return nil, StatusNotCreated
	}
	return h, nil
}

func (e *Engine) removeLocked(h *hookEntry) error {
	if h.enabled() {
		if err := e.applyLocked([]patchOp{{h, false}}); err != nil {
			return err
		}
	}
	e.alloc.free(h.slot)
	delete(e.hooks, h.target)
	return nil
}

func (e *Engine) removeAllLocked() error {
	var ops []patchOp
	for _, h := range e.hooks {
		if h.enabled() {
			ops = append(ops, patchOp{h, false})
		}
	}
	if err := e.applyLocked(ops); err != nil {
		return err
	}
	for _, h := range e.hooks {
		e.alloc.free(h.slot)
		delete(e.hooks, h.target)
	}
	return nil
}

type patchOp struct {
	entry  *hookEntry
	enable bool
}

// applyLocked performs one freeze-and-patch cycle covering every op. Page
// protections are flipped before the freeze and restored after the thaw:
// inside the critical section only plain memory copies happen, no syscalls,
// which a stop-the-world freeze cannot tolerate. Either every op commits or
// none does; the copies themselves cannot fail once the pages are writable.
func (e *Engine) applyLocked(ops []patchOp) error {
	if len(ops) == 0 {
		return nil
	}

	regions := make([]patchRegion, len(ops))
	for i, op := range ops {
		regions[i] = op.entry.region(op.enable)
	}

	var err error
	flipped := 0
	for _, op := range ops {
		if perr := mprotect(codeAt(op.entry.target, len(op.entry.original)), protReadWriteExec); perr != nil {
			err = StatusMemoryProtect
			break
		}
		flipped++
	}

	if err == nil {
		var fr frozen
		if fr, err = freezeThreads(regions); err == nil {
			for _, op := range ops {
				code := op.entry.patch
				if !op.enable {
					code = op.entry.original
				}
				copy(codeAt(op.entry.target, len(code)), code)
			}
			fr.thaw()
			for _, op := range ops {
				if op.enable {
					op.entry.state = stateEnabled
				} else {
					op.entry.state = stateDisabled
				}
			}
		}
	}

	for i := 0; i < flipped; i++ {
		_ = mprotect(codeAt(ops[i].entry.target, len(ops[i].entry.original)), protReadExec)
	}
	return err
}
