package graph

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DiffSnapshots returns a unified diff between two snapshots, or an empty
// string when they are identical.
func DiffSnapshots(a, b string) (string, error) {
	if a == b {
		return "", nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(terminate(a)),
		B:        difflib.SplitLines(terminate(b)),
		FromFile: "before",
		ToFile:   "after",
		Context:  2,
	}
	return difflib.GetUnifiedDiffString(ud)
}

func terminate(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
