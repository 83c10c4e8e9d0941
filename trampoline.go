package minhook

import (
	"encoding/binary"
	"fmt"
)

// maxScan bounds how far past the target entry the builder will decode. The
// longest patch is 14 bytes and the final instruction covering it can itself
// be up to 15 bytes.
const maxScan = 32

// trampolineResult is everything the hook table needs to record about a
// built trampoline.
type trampolineResult struct {
	entry    uintptr // address a caller jumps to for the original behavior
	original []byte  // bytes at the target before patching
	patch    []byte  // bytes to install at the target on enable
	oldOffs  []uint8 // instruction starts inside the patched region
	newOffs  []uint8 // matching instruction starts inside the trampoline
}

func unsupported(off int, format string, args ...any) error {
	return fmt.Errorf("target+%d: %s: %w", off, fmt.Sprintf(format, args...), StatusUnsupportedFunction)
}

// buildTrampoline decodes instructions at target until they cover the patch,
// copies them into the slot with every instruction-pointer-relative operand
// recomputed for the new address, and appends a jump back to the first
// unmodified byte of the target. The slot's block must be writable.
//
// The patch returned alongside is a rel32 jump into a detour relay placed in
// the same slot (near slot, 64-bit), a direct absolute jump to the detour
// (far slot, 64-bit), or a direct rel32 jump (32-bit, where rel32 reaches the
// whole address space).
func buildTrampoline(target, detour uintptr, s *slot, mode int) (*trampolineResult, error) {
	required := jmpRel32Len
	if mode == 64 && s.far {
		required = absJmpLen
	}

	src := codeAt(target, maxScan)
	buf := make([]byte, 0, slotSize)
	var (
		oldOffs, newOffs []uint8
		srcLen           int
		terminal         bool
	)

	for srcLen < required {
		inst, err := decode(src[srcLen:], mode)
		if err != nil {
			return nil, unsupported(srcLen, "%v", err)
		}

		oldOffs = append(oldOffs, uint8(srcLen))
		newOffs = append(newOffs, uint8(len(buf)))

		// Instruction-pointer value the relative operand is measured from,
		// at the original location.
		srcIP := target + uintptr(srcLen+inst.len)

		switch inst.kind {
		case kindRet:
			buf = append(buf, src[srcLen:srcLen+inst.len]...)
			srcLen += inst.len
			terminal = true

		case kindJump, kindCall, kindCondJump:
			if inst.kind == kindCondJump && rel8Only(inst.op) {
				return nil, unsupported(srcLen, "%v has no rel32 form", inst.op)
			}
			if inst.relSize == 2 {
				return nil, unsupported(srcLen, "rel16 branch")
			}
			dest := uintptr(int64(srcIP) + inst.rel)
			if dest >= target && dest < target+uintptr(required) {
				return nil, unsupported(srcLen, "branch into the patched region")
			}

			switch inst.kind {
			case kindCall:
				buf = append(buf, opCallRel32, 0, 0, 0, 0)
			case kindJump:
				buf = append(buf, opJmpRel32, 0, 0, 0, 0)
				terminal = true
			case kindCondJump:
				cc, ok := condCode(src[srcLen:])
				if !ok {
					return nil, unsupported(srcLen, "unrecognized %v encoding", inst.op)
				}
				buf = append(buf, opJccRel32, 0x80|cc, 0, 0, 0, 0)
			}
			newRel := int64(dest) - int64(s.addr+uintptr(len(buf)))
			if mode == 64 && !fitsInt32(newRel) {
				return nil, unsupported(srcLen, "%v displacement out of rel32 range", inst.op)
			}
			binary.LittleEndian.PutUint32(buf[len(buf)-4:], uint32(int32(newRel)))
			srcLen += inst.len

		case kindRIPRel:
			dest := uintptr(int64(srcIP) + inst.rel)
			buf = append(buf, src[srcLen:srcLen+inst.len]...)
			newDisp := int64(dest) - int64(s.addr+uintptr(len(buf)))
			if !fitsInt32(newDisp) {
				return nil, unsupported(srcLen, "RIP-relative displacement out of range")
			}
			binary.LittleEndian.PutUint32(buf[len(buf)-4:], uint32(int32(newDisp)))
			srcLen += inst.len

		default:
			buf = append(buf, src[srcLen:srcLen+inst.len]...)
			srcLen += inst.len
		}

		if terminal {
			break
		}
	}

	if srcLen < required {
		return nil, unsupported(srcLen, "function ends before the patch fits")
	}

	// Resume the original function after the last copied instruction. When
	// the copied region already ends in RET or JMP there is nothing to
	// resume.
	if !terminal {
		back := target + uintptr(srcLen)
		if mode == 64 && s.far {
			buf = append(buf, absJmp64(back)...)
		} else {
			buf = append(buf, 0, 0, 0, 0, 0)
			putJmpRel32(buf[len(buf)-jmpRel32Len:], s.addr+uintptr(len(buf)-jmpRel32Len), back)
		}
	}

	var patch []byte
	switch {
	case mode == 64 && !s.far:
		relayOff := len(buf)
		buf = append(buf, relay64(detour)...)
		patch = jmpRel32(target, s.addr+uintptr(relayOff))
	case mode == 64 && s.far:
		patch = absJmp64(detour)
	default:
		patch = jmpRel32(target, detour)
	}

	if len(buf) > slotSize {
		return nil, unsupported(0, "trampoline exceeds slot")
	}

	// The whole decoded region counts as replaced: bytes past the jump are
	// padded so no stale partial instruction is left behind.
	for len(patch) < srcLen {
		patch = append(patch, opInt3)
	}

	original := make([]byte, srcLen)
	copy(original, src[:srcLen])

	mem := s.bytes()
	n := copy(mem, buf)
	for i := n; i < len(mem); i++ {
		mem[i] = opInt3
	}

	return &trampolineResult{
		entry:    s.addr,
		original: original,
		patch:    patch,
		oldOffs:  oldOffs,
		newOffs:  newOffs,
	}, nil
}

// condCode extracts the x86 condition nibble from a Jcc encoding, for
// re-encoding as the rel32 form 0F 8x.
func condCode(src []byte) (byte, bool) {
	switch {
	case src[0]&0xF0 == 0x70:
		return src[0] & 0x0F, true
	case src[0] == 0x0F && len(src) > 1 && src[1]&0xF0 == 0x80:
		return src[1] & 0x0F, true
	}
	return 0, false
}
