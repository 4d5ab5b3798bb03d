package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/evidentia/evidence-store/pkg/query"
)

// SearchIndexStore maintains fulltext_index for dialects whose text search joins it.
type SearchIndexStore struct {
	db          QueryInterceptor
	dialect     query.Dialect
	descriptors []query.Descriptor
	logger      *zap.SugaredLogger
}

func NewSearchIndexStore(db QueryInterceptor, dialect query.Dialect, descriptors ...query.Descriptor) *SearchIndexStore {
	searchable := make([]query.Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Searchable() {
			searchable = append(searchable, d)
		}
	}
	return &SearchIndexStore{
		db:          db,
		dialect:     dialect,
		descriptors: searchable,
		logger:      zap.S().Named("search_index"),
	}
}

// Enabled reports whether the dialect searches through the index.
func (s *SearchIndexStore) Enabled() bool {
	return s.dialect.Text.JoinsIndex()
}

// Rebuild replaces the indexed content of every searchable table in one transaction
// and returns the number of indexed rows. It does nothing when the dialect
// searches its tables directly.
func (s *SearchIndexStore) Rebuild(ctx context.Context) (int64, error) {
	if !s.Enabled() {
		s.logger.Debugw("search index not used by dialect", "dialect", s.dialect.Name)
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting index rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int64
	for _, d := range s.descriptors {
		del, args, err := sq.Delete("fulltext_index").
			Where(sq.Eq{"table_name": d.Table}).
			PlaceholderFormat(s.dialect.Placeholders).
			ToSql()
		if err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, del, args...); err != nil {
			return 0, fmt.Errorf("clearing index of %s: %w", d.Table, err)
		}

		ins, args, err := s.insert(d).ToSql()
		if err != nil {
			return 0, err
		}
		res, err := tx.ExecContext(ctx, ins, args...)
		if err != nil {
			return 0, fmt.Errorf("indexing %s: %w", d.Table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing index rebuild: %w", err)
	}
	s.logger.Infow("search index rebuilt", "tables", len(s.descriptors), "rows", total)
	return total, nil
}

// insert copies the lower-cased full-text columns of d into the index.
func (s *SearchIndexStore) insert(d query.Descriptor) sq.InsertBuilder {
	content := fmt.Sprintf("lower(concat_ws(' ', %s))", strings.Join(d.QualifiedFulltextColumns(), ", "))
	source := sq.Select().
		Column(fmt.Sprintf("'%s'", d.Table)).
		Column(d.Key()).
		Column(content).
		From(d.Table + " " + d.Alias)

	return sq.Insert("fulltext_index").
		Columns("table_name", "entity_id", "content").
		Select(source).
		PlaceholderFormat(s.dialect.Placeholders)
}
