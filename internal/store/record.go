package store

import (
	"fmt"

	"github.com/evidentia/evidence-store/internal/models"
	"github.com/evidentia/evidence-store/pkg/query"
)

// recordTable describes the kind specific table of a record sharing the entity table.
type recordTable[T any] struct {
	category string
	kind     models.EntityKind
	table    string
	alias    string
	// columns are the table's own projected columns, in the order dest reads them.
	columns  []string
	fulltext []string
	// sorts are the table's own sortable properties, textSorts those of character type.
	sorts     []string
	textSorts []string
	// dest returns the scan destinations of entityColumns followed by columns.
	dest func(t *T) []any
}

func (r recordTable[T]) descriptor() query.Descriptor {
	return query.Descriptor{
		Name:            r.kind.Label(),
		Table:           r.table,
		Alias:           r.alias,
		FulltextColumns: r.fulltext,
	}
}

func (r recordTable[T]) key() string {
	return r.alias + ".id"
}

// newRecordCategory builds the category over r, narrowing anonymous callers with
// narrow. Every record category is secured.
func newRecordCategory[F any, T any](r recordTable[T], predicates []query.Predicate[F], narrow func(*F), validate func(*F) error) *query.Category[F, T] {
	columns := append([]string{}, entityColumns...)
	for _, c := range r.columns {
		columns = append(columns, r.alias+"."+c)
	}

	return &query.Category[F, T]{
		Name:       r.category,
		Descriptor: r.descriptor(),
		Columns:    columns,
		From:       fmt.Sprintf("%s %s", r.table, r.alias),
		Joins:      []string{fmt.Sprintf("JOIN entity e ON e.id = %s", r.key())},
		UserJoins:  userJoins,
		Predicates: predicates,
		Sorts:      query.Merge(entitySorts(), query.Sortable(r.alias, r.sorts...), query.SortableText(r.alias, r.textSorts...)),
		Secured:    true,
		Narrow:     narrow,
		Validate:   validate,
		Scan: func(row query.Scanner) (T, error) {
			var t T
			err := row.Scan(r.dest(&t)...)
			return t, err
		},
	}
}
