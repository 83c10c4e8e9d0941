package minhook

// ipMove maps an instruction boundary inside a region being rewritten to the
// equivalent boundary in code that survives the rewrite, so a thread frozen
// on the boundary never resumes into half-written bytes.
type ipMove struct {
	from, to uintptr
}

// patchRegion describes one byte range rewritten during a freeze cycle.
type patchRegion struct {
	start  uintptr
	length int
	moves  []ipMove
}

// redirect returns the adjusted instruction pointer, or ip unchanged when it
// lies outside every region.
func redirect(ip uintptr, regions []patchRegion) uintptr {
	for _, r := range regions {
		if ip < r.start || ip >= r.start+uintptr(r.length) {
			continue
		}
		for _, m := range r.moves {
			if m.from == ip {
				return m.to
			}
		}
	}
	return ip
}
