//go:build linux

package minhook

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// isExecutable reports whether addr falls inside a mapping with the execute
// bit set, by walking /proc/self/maps.
func isExecutable(addr uintptr) bool {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		// "55f0a000-55f0b000 r-xp 00000000 fd:01 123 /usr/bin/prog"
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		lo, hi, ok := parseRange(fields[0])
		if !ok || addr < lo || addr >= hi {
			continue
		}
		return strings.Contains(fields[1], "x")
	}
	return false
}

func parseRange(s string) (lo, hi uintptr, ok bool) {
	dash := strings.IndexByte(s, '-')
	if dash < 0 {
		return 0, 0, false
	}
	l, err := strconv.ParseUint(s[:dash], 16, 64)
	if err != nil {
		return 0, 0, false
	}
	h, err := strconv.ParseUint(s[dash+1:], 16, 64)
	if err != nil {
		return 0, 0, false
	}
	return uintptr(l), uintptr(h), true
}
