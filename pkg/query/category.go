package query

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"k8s.io/apimachinery/pkg/util/sets"

	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
)

// Scanner is the row interface shared by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// ScanFunc reads one record from the current row.
type ScanFunc[T any] func(row Scanner) (T, error)

// Category configures the generic engine for one record category with filter F
// and record T.
type Category[F any, T any] struct {
	Name       string
	Descriptor Descriptor
	// Columns are projected by SELECT in the order Scan reads them.
	Columns []string
	// From is the base table with alias, e.g. "claim c".
	From string
	// Joins are the base joins every statement carries.
	Joins []string
	// UserJoins resolve the username sort properties; they are added to SELECT
	// only when such a property is sorted on.
	UserJoins []string
	// GroupBy turns SELECT into an aggregate; COUNT then counts groups.
	GroupBy []string
	// Predicates in declared order.
	Predicates []Predicate[F]
	// Sorts is the whitelist of sortable properties.
	Sorts map[string]SortColumn
	// KeyProperty is the logical primary key property used as tiebreaker, "id" when empty.
	KeyProperty string
	// Secured categories narrow anonymous callers to published records with Narrow.
	Secured bool
	Narrow  func(f *F)
	// Validate rejects filter combinations the category cannot serve.
	Validate func(f *F) error
	Scan     ScanFunc[T]
}

func (c *Category[F, T]) keyProperty() string {
	if c.KeyProperty == "" {
		return "id"
	}
	return c.KeyProperty
}

func (c *Category[F, T]) check() error {
	if !isIdentifier(c.Name) {
		return fmt.Errorf("invalid category name %q", c.Name)
	}
	if c.From == "" || len(c.Columns) == 0 || c.Scan == nil {
		return fmt.Errorf("category %s: from, columns and scan are required", c.Name)
	}
	if c.Secured && c.Narrow == nil {
		return fmt.Errorf("category %s: secured without narrowing", c.Name)
	}
	tokens := sets.New[string]()
	for _, p := range c.Predicates {
		if err := p.validate(); err != nil {
			return fmt.Errorf("category %s: %w", c.Name, err)
		}
		if tokens.Has(p.token) {
			return fmt.Errorf("category %s: duplicate predicate %q", c.Name, p.token)
		}
		tokens.Insert(p.token)
	}
	if _, ok := c.Sorts[c.keyProperty()]; !ok && len(c.GroupBy) == 0 {
		return fmt.Errorf("category %s: key property %q is not sortable", c.Name, c.keyProperty())
	}
	return nil
}

// sortColumn resolves a logical sort property through the whitelist.
func (c *Category[F, T]) sortColumn(property string) (SortColumn, error) {
	col, ok := c.Sorts[property]
	if !ok {
		return SortColumn{}, srvErrors.NewInvalidArgumentError("sort", fmt.Sprintf("unknown property %q for %s", property, c.Name))
	}
	return col, nil
}

// compose assembles the COUNT and SELECT statements of shape. Clauses are emitted in
// a fixed order:
//
//  1. recursive CTE over the hierarchy (recursive shapes)
//  2. base FROM and joins
//  3. association joins of link predicates
//  4. user joins for username sort (SELECT only)
//  5. full-text index join (index join strategy)
//  6. WHERE from active predicates, AND-joined in declared order
//  7. ORDER BY (SELECT only)
//
// COUNT carries the same clauses minus projection, user joins and ORDER BY.
func (c *Category[F, T]) compose(shape Shape, dialect Dialect, maxDepth int) (countSQL, selectSQL string, err error) {
	rc := renderContext{shape: shape, descriptor: c.Descriptor, dialect: dialect, maxDepth: maxDepth}

	ctes := newFragments(", ")
	links := newFragments(" ")
	ftJoins := newFragments(" ")
	where := newFragments(" AND ")

	for _, p := range c.Predicates {
		if !shape.Has(p.token) {
			continue
		}
		cl := p.render(rc, shape.Variant(p.token))
		ctes.addUnique(cl.cte)
		links.addUnique(cl.join)
		ftJoins.addUnique(cl.ftJoin)
		where.add(cl.where)
	}

	orderBy, userJoins, err := c.orderBy(shape.Sort)
	if err != nil {
		return "", "", err
	}

	base := func(columns ...string) sq.SelectBuilder {
		b := sq.Select(columns...).From(c.From)
		for _, j := range c.Joins {
			b = b.JoinClause(j)
		}
		for _, j := range links.list() {
			b = b.JoinClause(j)
		}
		return b
	}
	finish := func(b sq.SelectBuilder) sq.SelectBuilder {
		for _, j := range ftJoins.list() {
			b = b.JoinClause(j)
		}
		if !where.empty() {
			b = b.Where(where.String())
		}
		if len(c.GroupBy) > 0 {
			b = b.GroupBy(c.GroupBy...)
		}
		return b
	}
	with := func(b sq.SelectBuilder) sq.SelectBuilder {
		if ctes.empty() {
			return b
		}
		return b.Prefix("WITH RECURSIVE " + ctes.String())
	}

	sel := base(c.Columns...)
	if userJoins {
		for _, j := range c.UserJoins {
			sel = sel.JoinClause(j)
		}
	}
	sel = finish(sel)
	if len(orderBy) > 0 {
		sel = sel.OrderBy(orderBy...)
	}

	var count sq.SelectBuilder
	if len(c.GroupBy) > 0 {
		count = sq.Select("COUNT(*)").FromSelect(finish(base(c.GroupBy...)), "g")
	} else {
		count = finish(base("COUNT(*)"))
	}

	if selectSQL, _, err = with(sel).ToSql(); err != nil {
		return "", "", fmt.Errorf("composing select: %w", err)
	}
	if countSQL, _, err = with(count).ToSql(); err != nil {
		return "", "", fmt.Errorf("composing count: %w", err)
	}
	return countSQL, selectSQL, nil
}

// orderBy renders the sort terms. NULLS FIRST and NULLS LAST are emulated with a
// CASE term ahead of the column since not every store accepts the syntax.
func (c *Category[F, T]) orderBy(sort []Order) ([]string, bool, error) {
	terms := make([]string, 0, len(sort))
	userJoins := false
	for _, o := range sort {
		o = o.normalized()
		col, err := c.sortColumn(o.Property)
		if err != nil {
			return nil, false, err
		}
		userJoins = userJoins || col.UserJoins

		switch o.Nulls {
		case NullsFirst:
			terms = append(terms, fmt.Sprintf("CASE WHEN %s IS NULL THEN 0 ELSE 1 END", col.Expr))
		case NullsLast:
			terms = append(terms, fmt.Sprintf("CASE WHEN %s IS NULL THEN 1 ELSE 0 END", col.Expr))
		}

		expr := col.Expr
		if o.IgnoreCase {
			expr = "LOWER(" + expr + ")"
		}
		terms = append(terms, expr+" "+string(o.Direction))
	}
	return terms, userJoins, nil
}
