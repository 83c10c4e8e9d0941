package minhook

import (
	"math/bits"

	"github.com/pkg/errors"
)

const (
	// slotSize is large enough for the worst-case trampoline: the copied
	// prologue (up to 14 bytes of original instructions, each of which may
	// grow by a few bytes when a rel8 branch is widened), the jump back, and
	// the detour relay.
	slotSize = 64

	// blockSize matches the Windows allocation granularity and is a multiple
	// of the page size everywhere we run.
	blockSize = 0x10000

	slotsPerBlock = blockSize / slotSize

	// maxNearDistance is the rel32 reach minus one block, so that every slot
	// of a block that passes the check is itself reachable.
	maxNearDistance = 0x7FFF0000

	// maxProbes bounds the hint scan when looking for a mappable block near
	// the target. Past that we settle for a far block and the longer
	// absolute patch.
	maxProbes = 1024
)

// memoryBlock is a mapped executable region carved into fixed-size slots.
type memoryBlock struct {
	base   uintptr
	bitmap [slotsPerBlock / 64]uint64
	used   int
}

func (b *memoryBlock) take() (uintptr, bool) {
	for i := range b.bitmap {
		w := b.bitmap[i]
		if w == ^uint64(0) {
			continue
		}
		bit := bits.TrailingZeros64(^w)
		b.bitmap[i] = w | 1<<bit
		b.used++
		return b.base + uintptr((i*64+bit)*slotSize), true
	}
	return 0, false
}

func (b *memoryBlock) release(addr uintptr) {
	n := int(addr-b.base) / slotSize
	b.bitmap[n/64] &^= 1 << (n % 64)
	b.used--
}

func (b *memoryBlock) contains(addr uintptr) bool {
	return addr >= b.base && addr < b.base+blockSize
}

func (b *memoryBlock) mem() []byte {
	return codeAt(b.base, blockSize)
}

// slot is a fixed-size piece of executable memory handed to exactly one hook.
// far records that the slot was not reachable from the requested address by a
// rel32 jump, which changes the patch shape the trampoline builder emits.
type slot struct {
	addr  uintptr
	block *memoryBlock
	far   bool
}

func (s *slot) bytes() []byte {
	return codeAt(s.addr, slotSize)
}

// allocator owns every memory block. It is not internally locked: the engine
// serializes all calls behind its own mutex, so allocation can never race
// with a freeze-and-patch cycle.
type allocator struct {
	blocks []*memoryBlock
}

// alloc returns a free slot, preferring one within rel32 range of near.
func (a *allocator) alloc(near uintptr) (*slot, error) {
	b := a.findFree(near, true)
	if b == nil {
		if nb, err := mapBlock(near); err == nil {
			a.blocks = append(a.blocks, nb)
			b = nb
		} else if b = a.findFree(near, false); b == nil {
			nb, err := mapBlock(0)
			if err != nil {
				return nil, errors.WithMessage(StatusMemoryAlloc, err.Error())
			}
			a.blocks = append(a.blocks, nb)
			b = nb
		}
	}

	addr, ok := b.take()
	if !ok {
		return nil, StatusMemoryAlloc
	}
	return &slot{
		addr:  addr,
		block: b,
		far:   near != 0 && !within32(near, addr),
	}, nil
}

func (a *allocator) findFree(near uintptr, nearOnly bool) *memoryBlock {
	for _, b := range a.blocks {
		if b.used == slotsPerBlock {
			continue
		}
		// near == 0 means the caller has no reachability requirement, so any
		// block with a free slot will do.
		if nearOnly && near != 0 && !(within32(near, b.base) && within32(near, b.base+blockSize)) {
			continue
		}
		return b
	}
	return nil
}

// free returns the slot to its block and unmaps the block once it is empty.
func (a *allocator) free(s *slot) {
	b := s.block
	b.release(s.addr)
	if b.used > 0 {
		return
	}
	for i, other := range a.blocks {
		if other == b {
			a.blocks = append(a.blocks[:i], a.blocks[i+1:]...)
			break
		}
	}
	unmapBlock(b.base)
}

// releaseAll unmaps every block regardless of slot state. Used by engine
// teardown after all hooks have been removed.
func (a *allocator) releaseAll() {
	for _, b := range a.blocks {
		unmapBlock(b.base)
	}
	a.blocks = nil
}

// withWritable runs fn with the slot's block writable, restoring
// execute-only protection afterwards.
func (a *allocator) withWritable(s *slot, fn func() error) error {
	if err := mprotect(s.block.mem(), protReadWriteExec); err != nil {
		return StatusMemoryProtect
	}
	defer mprotect(s.block.mem(), protReadExec)
	return fn()
}
