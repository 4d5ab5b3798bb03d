package store

import (
	"context"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/evidentia/evidence-store/internal/models"
	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
	"github.com/evidentia/evidence-store/pkg/query"
)

// CategoryStore serves the list operations of one category.
type CategoryStore[F any, T any] struct {
	db       QueryInterceptor
	dialect  query.Dialect
	identity query.IdentityProvider
	engine   *query.Engine[F, T]
	// byID builds the filter selecting a single record; nil when the category
	// has no record identity.
	byID func(id int64) *F
}

func newCategoryStore[F any, T any](db QueryInterceptor, dialect query.Dialect, category *query.Category[F, T], opts storeOptions, byID func(int64) *F) *CategoryStore[F, T] {
	engine, err := query.NewEngine(db, dialect, category, opts.engineOptions()...)
	if err != nil {
		panic(fmt.Sprintf("invalid category %s: %v", category.Name, err))
	}
	return &CategoryStore[F, T]{
		db:       db,
		dialect:  dialect,
		identity: opts.identity,
		engine:   engine,
		byID:     byID,
	}
}

// Name returns the category name.
func (s *CategoryStore[F, T]) Name() string {
	return s.engine.Category().Name
}

// Engine exposes the category engine, e.g. to explain composed statements.
func (s *CategoryStore[F, T]) Engine() *query.Engine[F, T] {
	return s.engine
}

// List returns the page of records matching filter.
func (s *CategoryStore[F, T]) List(ctx context.Context, filter *F, pageable query.Pageable) (query.Page[T], error) {
	return s.engine.FindByFilter(ctx, filter, pageable)
}

// Get returns the record with id, as visible to the caller.
func (s *CategoryStore[F, T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	if s.byID == nil {
		return zero, fmt.Errorf("%s records have no identity", s.Name())
	}

	page, err := s.engine.FindByFilter(ctx, s.byID(id), query.Unpaged())
	if err != nil {
		return zero, err
	}
	if len(page.Content) == 0 {
		return zero, srvErrors.NewResourceNotFoundError(s.Name(), strconv.FormatInt(id, 10))
	}
	return page.Content[0], nil
}

// FindByIDs returns the records with the given ids ordered by id. Ids that don't
// exist, or that the caller may not see, are skipped.
func (s *CategoryStore[F, T]) FindByIDs(ctx context.Context, ids []int64) ([]T, error) {
	if s.byID == nil {
		return nil, fmt.Errorf("%s records have no identity", s.Name())
	}
	if len(ids) == 0 {
		return []T{}, nil
	}

	cat := s.engine.Category()
	key := cat.Descriptor.Key()

	builder := sq.Select(cat.Columns...).From(cat.From)
	for _, j := range cat.Joins {
		builder = builder.JoinClause(j)
	}
	builder = builder.Where(sq.Eq{key: ids})
	if cat.Secured && s.identity.IsAnonymous(ctx) {
		builder = builder.Where(sq.Eq{"e.status": string(models.StatusPublished)})
	}

	q, args, err := builder.OrderBy(key).PlaceholderFormat(s.dialect.Placeholders).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building %s lookup: %w", cat.Name, err)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("finding %s by ids: %w", cat.Name, err)
	}
	defer rows.Close()

	out := make([]T, 0, len(ids))
	for rows.Next() {
		t, err := cat.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", cat.Name, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
