package query

import (
	"fmt"
	"strings"
)

// Hierarchy describes a self referencing table traversed by a recursive CTE.
type Hierarchy struct {
	// CTE names the recursive relation, e.g. "sub_topic".
	CTE          string
	Table        string
	KeyColumn    string
	ParentColumn string
	// StatusJoin joins the status carrying table onto alias "h" when the traversal
	// is status restricted.
	StatusJoin string
	// StatusCondition restricts traversed rows, referencing the :status parameter.
	StatusCondition string
}

// render returns the CTE body seeded by children of the parent bound to param.
// UNION drops rows revisited at the same depth and maxDepth bounds a traversal
// caught in a cyclic hierarchy.
func (h Hierarchy) render(param string, statusFiltered bool, maxDepth int) string {
	seedWhere := newFragments(" AND ").
		add(fmt.Sprintf("h.%s = :%s", h.ParentColumn, param)).
		addIf(statusFiltered, h.StatusCondition)
	stepWhere := newFragments(" AND ").
		addIf(statusFiltered, h.StatusCondition).
		add(fmt.Sprintf("r.depth < %d", maxDepth))

	from := newFragments(" ").
		add(fmt.Sprintf("FROM %s h", h.Table)).
		addIf(statusFiltered, h.StatusJoin)

	var b strings.Builder
	fmt.Fprintf(&b, "%s (id, depth) AS (", h.CTE)
	fmt.Fprintf(&b, "SELECT h.%s, 1 %s WHERE %s", h.KeyColumn, from, seedWhere)
	fmt.Fprintf(&b, " UNION SELECT h.%s, r.depth + 1 %s JOIN %s r ON h.%s = r.id WHERE %s",
		h.KeyColumn, from, h.CTE, h.ParentColumn, stepWhere)
	b.WriteString(")")
	return b.String()
}
