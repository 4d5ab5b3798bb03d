package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/evidentia/evidence-store/pkg/query"
)

//go:embed sql/duckdb/*.sql sql/mysql/*.sql
var files embed.FS

const createSchemaMigrations = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

type migration struct {
	version int
	name    string
	file    string
}

// Run applies the pending DuckDB migrations.
func Run(ctx context.Context, db *sql.DB) error {
	return RunDialect(ctx, db, query.DuckDB)
}

// RunDialect applies the migrations of dialect not yet recorded in schema_migrations,
// each in its own transaction.
func RunDialect(ctx context.Context, db *sql.DB, dialect query.Dialect) error {
	logger := zap.S().Named("migrations").With("dialect", dialect.Name)

	all, err := load(dialect.Name)
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, createSchemaMigrations); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range all {
		if applied[m.version] {
			continue
		}
		if err := apply(ctx, db, dialect, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		logger.Infow("applied migration", "version", m.version, "name", m.name)
	}
	return nil
}

func load(dialect string) ([]migration, error) {
	dir := path.Join("sql", dialect)
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("no migrations for dialect %q: %w", dialect, err)
	}

	out := make([]migration, 0, len(entries))
	for _, e := range entries {
		prefix, name, ok := strings.Cut(strings.TrimSuffix(e.Name(), ".sql"), "_")
		if !ok {
			return nil, fmt.Errorf("malformed migration file name %q", e.Name())
		}
		v, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("malformed migration version %q: %w", e.Name(), err)
		}
		out = append(out, migration{version: v, name: name, file: path.Join(dir, e.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })

	for i, m := range out {
		if m.version != i+1 {
			return nil, fmt.Errorf("migration versions must be sequential from 1, found %d at position %d", m.version, i+1)
		}
	}
	return out, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	q, args, err := sq.Select("version").From("schema_migrations").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("reading schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func apply(ctx context.Context, db *sql.DB, dialect query.Dialect, m migration) error {
	content, err := files.ReadFile(m.file)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range statements(string(content)) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	q, args, err := sq.Insert("schema_migrations").
		Columns("version", "name").
		Values(m.version, m.name).
		PlaceholderFormat(dialect.Placeholders).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return err
	}
	return tx.Commit()
}

// statements splits a migration file on semicolons ending a line. Comment lines are dropped.
func statements(content string) []string {
	var (
		out []string
		cur strings.Builder
	)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
		if strings.HasSuffix(trimmed, ";") {
			if s := strings.TrimSuffix(strings.TrimSpace(cur.String()), ";"); s != "" {
				out = append(out, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		out = append(out, s)
	}
	return out
}
