package test

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/evidentia/evidence-store/internal/store"
	"github.com/evidentia/evidence-store/internal/store/migrations"
	"github.com/evidentia/evidence-store/pkg/query"
)

// NewFixtureDB opens a migrated in-memory database holding the fixture records
// with a built search index.
func NewFixtureDB(ctx context.Context) (*sql.DB, error) {
	db, err := store.NewDB(":memory:")
	if err != nil {
		return nil, err
	}

	if err := migrations.Run(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating fixture db: %w", err)
	}
	if err := InsertRecords(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("inserting fixture records: %w", err)
	}
	if _, err := store.NewStore(db, query.DuckDB).SearchIndex().Rebuild(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("building fixture search index: %w", err)
	}
	return db, nil
}
