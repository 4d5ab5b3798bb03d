package query

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
	"github.com/evidentia/evidence-store/pkg/search"
)

// TextSearch renders the full-text predicate for one store. Exactly one strategy is
// active per process, chosen with the Dialect at startup.
type TextSearch interface {
	Name() string
	// JoinsIndex reports whether matching joins an external index relation. Such
	// shapes get a primary key tiebreaker when paged.
	JoinsIndex() bool
	// Render returns the index join (composition slot 5) or the WHERE condition
	// matching descriptor d against the :text parameter.
	Render(d Descriptor, advanced bool) (join string, where string)
	// Value prepares the bound :text value.
	Value(text string, advanced bool) (any, error)
}

// IndexJoin matches records through a search index relation holding one
// lower-cased content row per (table_name, entity_id).
type IndexJoin struct {
	Relation string
	Alias    string
	// Matcher is the SQL macro evaluating a normalized boolean term list.
	Matcher string
}

func (IndexJoin) Name() string { return "index-join" }

func (IndexJoin) JoinsIndex() bool { return true }

func (s IndexJoin) Render(d Descriptor, advanced bool) (string, string) {
	match := fmt.Sprintf("contains(%s.content, lower(:text))", s.Alias)
	if advanced {
		match = fmt.Sprintf("%s(%s.content, :text)", s.Matcher, s.Alias)
	}
	join := fmt.Sprintf("JOIN %s %s ON %s.table_name = '%s' AND %s.entity_id = %s AND %s",
		s.Relation, s.Alias, s.Alias, d.Table, s.Alias, d.Key(), match)
	return join, ""
}

func (IndexJoin) Value(text string, advanced bool) (any, error) {
	if !advanced {
		return strings.TrimSpace(text), nil
	}
	q, err := parseAdvanced(text)
	if err != nil {
		return nil, err
	}
	return q.Normalized(), nil
}

// MatchAgainst matches records with an inline MATCH ... AGAINST condition over the
// descriptor's full-text columns.
type MatchAgainst struct{}

func (MatchAgainst) Name() string { return "match-against" }

func (MatchAgainst) JoinsIndex() bool { return false }

func (MatchAgainst) Render(d Descriptor, advanced bool) (string, string) {
	mode := "IN NATURAL LANGUAGE MODE"
	if advanced {
		mode = "IN BOOLEAN MODE"
	}
	return "", fmt.Sprintf("MATCH (%s) AGAINST (:text %s)", strings.Join(d.QualifiedFulltextColumns(), ", "), mode)
}

func (MatchAgainst) Value(text string, advanced bool) (any, error) {
	if !advanced {
		return strings.TrimSpace(text), nil
	}
	q, err := parseAdvanced(text)
	if err != nil {
		return nil, err
	}
	return q.Boolean(), nil
}

func parseAdvanced(text string) (*search.Query, error) {
	q, err := search.Parse(text)
	if err != nil {
		return nil, srvErrors.NewInvalidArgumentError("text", err.Error())
	}
	return q, nil
}

// Dialect bundles what differs between supported stores.
type Dialect struct {
	Name         string
	Driver       string
	Text         TextSearch
	Placeholders sq.PlaceholderFormat
}

var (
	DuckDB = Dialect{
		Name:         "duckdb",
		Driver:       "duckdb",
		Text:         IndexJoin{Relation: "fulltext_index", Alias: "ft", Matcher: "ft_boolean_match"},
		Placeholders: sq.Question,
	}

	MySQL = Dialect{
		Name:         "mysql",
		Driver:       "mysql",
		Text:         MatchAgainst{},
		Placeholders: sq.Question,
	}
)

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case DuckDB.Name:
		return DuckDB, nil
	case MySQL.Name:
		return MySQL, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported dialect %q", name)
	}
}
