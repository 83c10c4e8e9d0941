package minhook

import (
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

// instKind classifies the decoded instruction for the relocator. Anything it
// cannot classify is reported as a decode error, never silently passed
// through.
type instKind uint8

const (
	kindPlain    instKind = iota // no instruction-pointer-relative operand
	kindJump                     // unconditional JMP rel8/rel32
	kindCondJump                 // Jcc rel8/rel32
	kindCall                     // CALL rel32
	kindRet                      // RET/LRET, ends the function
	kindRIPRel                   // memory operand relative to RIP
)

// instruction describes a single decoded instruction at a patch site.
type instruction struct {
	op   x86asm.Op
	kind instKind
	len  int

	// For kinds with a relative operand: the operand's byte offset and size
	// within the encoding, and its sign-extended displacement. The
	// displacement is relative to the address of the next instruction.
	relOff  int
	relSize int
	rel     int64
}

// rel8Only are branches with no rel32 form; they cannot be widened when the
// trampoline moves them out of rel8 range.
func rel8Only(op x86asm.Op) bool {
	switch op {
	case x86asm.JCXZ, x86asm.JECXZ, x86asm.JRCXZ,
		x86asm.LOOP, x86asm.LOOPE, x86asm.LOOPNE:
		return true
	}
	return false
}

func isCondJump(op x86asm.Op) bool {
	switch op {
	case x86asm.JA, x86asm.JAE, x86asm.JB, x86asm.JBE, x86asm.JE, x86asm.JG,
		x86asm.JGE, x86asm.JL, x86asm.JLE, x86asm.JNE, x86asm.JNO, x86asm.JNP,
		x86asm.JNS, x86asm.JO, x86asm.JP, x86asm.JS,
		x86asm.JCXZ, x86asm.JECXZ, x86asm.JRCXZ,
		x86asm.LOOP, x86asm.LOOPE, x86asm.LOOPNE:
		return true
	}
	return false
}

// decode reports the length and relocation class of the single instruction at
// the start of code. mode is the instruction-pointer width, 32 or 64. It is a
// pure function: no memory outside code is touched.
func decode(code []byte, mode int) (instruction, error) {
	inst, err := x86asm.Decode(code, mode)
	if err != nil {
		return instruction{}, fmt.Errorf("undecodable instruction: %w", err)
	}
	// x86asm reports prefix-only and unrecognized encodings as Op==0 with a
	// nil error; copying such bytes blindly would corrupt the trampoline.
	if inst.Op == 0 {
		return instruction{}, fmt.Errorf("undecodable instruction %#02x", code[0])
	}

	out := instruction{op: inst.Op, kind: kindPlain, len: inst.Len}

	switch inst.Op {
	case x86asm.RET, x86asm.LRET:
		out.kind = kindRet
		return out, nil
	}

	for _, arg := range inst.Args {
		if arg == nil {
			break
		}
		switch a := arg.(type) {
		case x86asm.Rel:
			switch {
			case inst.Op == x86asm.JMP:
				out.kind = kindJump
			case inst.Op == x86asm.CALL:
				out.kind = kindCall
			case isCondJump(inst.Op):
				out.kind = kindCondJump
			default:
				return instruction{}, fmt.Errorf("unsupported relative instruction %v", inst.Op)
			}
			out.relOff = inst.PCRelOff
			out.relSize = inst.PCRel
			out.rel = int64(a)
			return out, nil
		case x86asm.Mem:
			if a.Base != x86asm.RIP {
				continue
			}
			// The supported RIP-relative shapes carry the disp32 in the
			// trailing four bytes. Encodings with a trailing immediate
			// (e.g. MOV [RIP+d], imm32) would break that assumption, so
			// they are rejected rather than mis-relocated.
			for _, other := range inst.Args {
				if _, imm := other.(x86asm.Imm); imm {
					return instruction{}, fmt.Errorf("unsupported RIP-relative encoding %v", inst.Op)
				}
			}
			out.kind = kindRIPRel
			out.relOff = inst.Len - 4
			out.relSize = 4
			out.rel = a.Disp
			return out, nil
		}
	}

	return out, nil
}
