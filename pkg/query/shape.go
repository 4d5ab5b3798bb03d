package query

import (
	"strings"
)

// Shape is the canonical classification of a request: which predicates are active,
// in which variant, and the effective sort. Requests of equal shape share one
// compiled statement pair regardless of their values.
type Shape struct {
	Category string
	// Tokens are the active predicate tokens in declared order, suffixed with
	// ":variant" when the predicate has one.
	Tokens []string
	// Sort is the effective sort, tiebreaker included.
	Sort  []Order
	Paged bool

	variants map[string]string
}

// Has reports whether the predicate with token is active.
func (s Shape) Has(token string) bool {
	_, ok := s.variants[token]
	return ok
}

// Variant returns the active variant of the predicate with token.
func (s Shape) Variant(token string) string {
	return s.variants[token]
}

func (s Shape) HasText() bool {
	return s.Has("text")
}

func (s Shape) IsAdvanced() bool {
	return s.Variant("text") == "advanced"
}

// IsRecursive reports whether any hierarchy predicate descends.
func (s Shape) IsRecursive() bool {
	for _, v := range s.variants {
		if v == "recursive" {
			return true
		}
	}
	return false
}

// CountKey identifies the COUNT statement; it ignores the sort.
func (s Shape) CountKey() string {
	return s.Category + "|" + strings.Join(s.Tokens, ",") + "|#count"
}

// Key identifies the SELECT statement and the pair owning it.
func (s Shape) Key() string {
	sort := make([]string, 0, len(s.Sort))
	for _, o := range s.Sort {
		sort = append(sort, o.token())
	}
	return s.Category + "|" + strings.Join(s.Tokens, ",") + "|" + strings.Join(sort, ";")
}

func (s Shape) String() string {
	return s.Key()
}
