package query

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
)

// fragments is an ordered list of optional SQL fragments joined by a fixed separator.
// Empty fragments are skipped and addUnique drops repeats, so predicates sharing a
// join contribute it once.
type fragments struct {
	sep   string
	parts []string
	seen  sets.Set[string]
}

func newFragments(sep string) *fragments {
	return &fragments{sep: sep, seen: sets.New[string]()}
}

func (f *fragments) add(parts ...string) *fragments {
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			f.parts = append(f.parts, p)
			f.seen.Insert(p)
		}
	}
	return f
}

func (f *fragments) addIf(cond bool, parts ...string) *fragments {
	if cond {
		f.add(parts...)
	}
	return f
}

func (f *fragments) addUnique(parts ...string) *fragments {
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" && !f.seen.Has(p) {
			f.add(p)
		}
	}
	return f
}

func (f *fragments) empty() bool {
	return len(f.parts) == 0
}

func (f *fragments) list() []string {
	return f.parts
}

func (f *fragments) String() string {
	return strings.Join(f.parts, f.sep)
}
