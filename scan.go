package minhook

// MaxPrologue is how many leading bytes of a function PatchLength inspects,
// the same window the trampoline builder decodes.
const MaxPrologue = maxScan

// PatchLength reports how many bytes enabling a hook would rewrite at the
// start of code: the whole instructions covering a 5-byte jump. It applies
// the same prologue checks as hook creation but operates on plain bytes, so
// it can vet functions read out of an object file. mode is 32 or 64.
func PatchLength(code []byte, mode int) (int, error) {
	required := jmpRel32Len
	var (
		n        int
		terminal bool
	)
	for n < required {
		inst, err := decode(code[n:], mode)
		if err != nil {
			return 0, unsupported(n, "%v", err)
		}
		switch inst.kind {
		case kindRet:
			terminal = true
		case kindJump, kindCall, kindCondJump:
			if inst.kind == kindCondJump && rel8Only(inst.op) {
				return 0, unsupported(n, "%v has no rel32 form", inst.op)
			}
			if inst.relSize == 2 {
				return 0, unsupported(n, "rel16 branch")
			}
			dest := int64(n+inst.len) + inst.rel
			if dest >= 0 && dest < int64(required) {
				return 0, unsupported(n, "branch into the patched region")
			}
			if inst.kind == kindJump {
				terminal = true
			}
		}
		n += inst.len
		if terminal {
			break
		}
	}
	if n < required {
		return 0, unsupported(n, "function ends before the patch fits")
	}
	return n, nil
}
