package search

import (
	"strings"
	"unicode"
)

// Operator is the boolean role of a term.
type Operator int

const (
	// Optional terms rank a record but are not required when a required term exists.
	Optional Operator = iota
	Required
	Excluded
)

func (o Operator) String() string {
	switch o {
	case Required:
		return "+"
	case Excluded:
		return "-"
	default:
		return ""
	}
}

// Term is a single word, prefix or phrase of a boolean query.
type Term struct {
	Op     Operator
	Text   string
	Phrase bool
	Prefix bool
}

func (t Term) String() string {
	switch {
	case t.Phrase:
		return t.Op.String() + `"` + t.Text + `"`
	case t.Prefix:
		return t.Op.String() + t.Text + "*"
	default:
		return t.Op.String() + t.Text
	}
}

// Query is a parsed boolean full-text query.
type Query struct {
	Terms []Term
}

func (q *Query) String() string {
	parts := make([]string, 0, len(q.Terms))
	for _, t := range q.Terms {
		parts = append(parts, "("+t.String()+")")
	}
	return strings.Join(parts, " ")
}

// Boolean renders the query in MySQL boolean mode syntax. Words holding characters
// the boolean parser treats as operators are quoted as phrases.
func (q *Query) Boolean() string {
	parts := make([]string, 0, len(q.Terms))
	for _, t := range q.Terms {
		if !t.Phrase && !t.Prefix && !isPlainWord(t.Text) {
			t.Phrase = true
		}
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " ")
}

// Normalized renders the query as a tab separated list of lower case terms, each
// prefixed by '+' (required), '-' (excluded) or '~' (optional). Prefix terms lose
// their wildcard since index content is matched by substring.
func (q *Query) Normalized() string {
	parts := make([]string, 0, len(q.Terms))
	for _, t := range q.Terms {
		op := "~"
		switch t.Op {
		case Required:
			op = "+"
		case Excluded:
			op = "-"
		}
		parts = append(parts, op+strings.ToLower(t.Text))
	}
	return strings.Join(parts, "\t")
}

// Plain returns the terms' text joined by spaces, without operators.
func (q *Query) Plain() string {
	parts := make([]string, 0, len(q.Terms))
	for _, t := range q.Terms {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

func isPlainWord(s string) bool {
	for _, r := range s {
		if !isWordChar(r) {
			return false
		}
	}
	return true
}

// collapse trims a phrase and folds inner whitespace runs into one space.
func collapse(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}
