// Package stacktrace trims runtime stack dumps down to frames from this module.
package stacktrace

import (
	"bufio"
	"bytes"
	"strings"
)

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" entries for every
// frame in stack that belongs to an internal package, outermost last.
func InternalPaths(stack []byte) []string {
	var paths []string

	sc := bufio.NewScanner(bytes.NewReader(stack))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())

		// file lines look like "/abs/path/internal/x/y.go:42 +0x1d"
		loc, _, _ := strings.Cut(line, " ")
		if !strings.Contains(loc, ".go:") {
			continue
		}
		_, rel, found := strings.Cut(loc, "/internal/")
		if !found {
			continue
		}
		paths = append(paths, "internal/"+rel)
	}

	return paths
}
