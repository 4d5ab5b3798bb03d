package query

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Querier is the subset of *sql.DB the engine runs statements through.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Preparer is implemented by queriers able to prepare statements for validation.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// execute runs COUNT then SELECT for pair and wraps the rows into a Page. Offset and
// limit apply to SELECT only, and only when paged. Any failure discards the
// partial result.
func execute[T any](ctx context.Context, db Querier, dialect Dialect, pair *Pair, params Params, pageable Pageable, scan ScanFunc[T]) (Page[T], error) {
	countSQL, countArgs, err := pair.Count.Bind(params)
	if err != nil {
		return Page[T]{}, fmt.Errorf("binding count %s: %w", pair.CountKey, err)
	}
	if countSQL, err = dialect.Placeholders.ReplacePlaceholders(countSQL); err != nil {
		return Page[T]{}, err
	}

	var total int64
	if err := db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return Page[T]{}, fmt.Errorf("counting: %w", err)
	}

	selectSQL, args, err := pair.Select.Bind(params)
	if err != nil {
		return Page[T]{}, fmt.Errorf("binding select %s: %w", pair.Key, err)
	}
	if pageable.IsPaged() {
		selectSQL += " LIMIT ? OFFSET ?"
		args = append(args, pageable.Size, pageable.Offset())
	}
	if selectSQL, err = dialect.Placeholders.ReplacePlaceholders(selectSQL); err != nil {
		return Page[T]{}, err
	}

	rows, err := db.QueryContext(ctx, selectSQL, args...)
	if err != nil {
		return Page[T]{}, fmt.Errorf("selecting: %w", err)
	}
	defer rows.Close()

	content := make([]T, 0, pageable.Size)
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return Page[T]{}, fmt.Errorf("scanning row: %w", err)
		}
		content = append(content, t)
	}
	if err := rows.Err(); err != nil {
		return Page[T]{}, fmt.Errorf("iterating rows: %w", err)
	}

	return NewPage(content, pageable, total), nil
}

// preparingValidator prepares every new statement once, rejecting what the store
// can't compile before it is cached.
func preparingValidator(ctx context.Context, p Preparer) ValidateFunc {
	return func(stmt *Statement) error {
		prepared, err := p.PrepareContext(ctx, stmt.Positional())
		if err != nil {
			return err
		}
		return prepared.Close()
	}
}

func observe(category string, start time.Time) {
	executionDuration.WithLabelValues(category).Observe(time.Since(start).Seconds())
}
