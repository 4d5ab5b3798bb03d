package query

import (
	"strings"
	"unicode"
)

// SortColumn maps a sortable logical property onto a physical expression.
type SortColumn struct {
	Expr string
	// UserJoins marks properties resolved through the user table joins.
	UserJoins bool
	// Text marks character columns, the only ones a case-insensitive sort accepts.
	Text bool
}

// ColumnName translates a logical camelCase property into its snake_case column name.
// "createdByUserId" becomes "created_by_user_id".
func ColumnName(property string) string {
	var b strings.Builder
	b.Grow(len(property) + 4)
	for i, r := range property {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Sortable declares properties sortable by their translated column on alias.
func Sortable(alias string, properties ...string) map[string]SortColumn {
	m := make(map[string]SortColumn, len(properties))
	for _, p := range properties {
		m[p] = SortColumn{Expr: alias + "." + ColumnName(p)}
	}
	return m
}

// SortableText declares character properties, sortable ignoring case.
func SortableText(alias string, properties ...string) map[string]SortColumn {
	m := Sortable(alias, properties...)
	for p, col := range m {
		col.Text = true
		m[p] = col
	}
	return m
}

// Merge combines sortable property maps; later maps win.
func Merge(maps ...map[string]SortColumn) map[string]SortColumn {
	out := make(map[string]SortColumn)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
