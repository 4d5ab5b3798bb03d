package store

import (
	"github.com/evidentia/evidence-store/internal/models"
	"github.com/evidentia/evidence-store/pkg/query"
)

// statisticsCategory counts records per kind and status. Its COUNT statement
// counts groups.
func statisticsCategory() *query.Category[models.StatisticsFilter, models.Statistics] {
	return &query.Category[models.StatisticsFilter, models.Statistics]{
		Name:       "statistics",
		Descriptor: query.Descriptor{Name: "Statistics", Table: "entity", Alias: "e"},
		Columns:    []string{"e.dtype", "e.status", "COUNT(*) AS total"},
		From:       "entity e",
		GroupBy:    []string{"e.dtype", "e.status"},
		Predicates: []query.Predicate[models.StatisticsFilter]{
			statusPredicate("e.status", func(f *models.StatisticsFilter) []models.Status { return f.Status }),
			topicPredicate("e.id", func(f *models.StatisticsFilter) (*int64, bool) { return f.TopicID, f.Recursive }),
		},
		Sorts: map[string]query.SortColumn{
			"entityKind": {Expr: "e.dtype"},
			"status":     {Expr: "e.status"},
			"count":      {Expr: "COUNT(*)"},
		},
		Secured: true,
		Narrow: func(f *models.StatisticsFilter) {
			f.Status = models.Published()
		},
		Scan: func(row query.Scanner) (models.Statistics, error) {
			var s models.Statistics
			err := row.Scan(&s.EntityKind, &s.Status, &s.Count)
			return s, err
		},
	}
}
