package types

import (
	"path/filepath"
	"strings"
)

// SuffixFilter matches file names ending in one of its suffixes. Matching is case sensitive.
type SuffixFilter []string

func NewSuffixFilter(suffixes ...string) SuffixFilter {
	return suffixes
}

// Matches reports whether the base name of path ends in one of the suffixes.
// An empty filter matches everything.
func (f SuffixFilter) Matches(path string) bool {
	if len(f) == 0 {
		return true
	}
	name := filepath.Base(path)
	for _, s := range f {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
