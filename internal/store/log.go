package store

import (
	"github.com/evidentia/evidence-store/internal/models"
	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
	"github.com/evidentia/evidence-store/pkg/query"
)

// logCategory serves the audit log. It is not secured; callers must be authenticated
// before they reach it.
func logCategory() *query.Category[models.LogFilter, models.Log] {
	return &query.Category[models.LogFilter, models.Log]{
		Name: "log",
		Descriptor: query.Descriptor{
			Name:            "Log",
			Table:           "log",
			Alias:           "l",
			FulltextColumns: []string{"details"},
		},
		Columns: []string{
			"l.id", "l.timestamp", "l.user_id", "l.transaction_kind",
			"l.entity_id", "l.entity_kind", "l.linked_entity_id", "l.details",
		},
		From:      "log l",
		UserJoins: []string{"LEFT JOIN users lu ON lu.id = l.user_id"},
		Predicates: []query.Predicate[models.LogFilter]{
			idPredicate("l.id = :id", func(f *models.LogFilter) *int64 { return f.ID }),
			query.Where("entityKind", "l.entity_kind = :entityKind",
				func(f *models.LogFilter) bool { return f.EntityKind != nil },
				func(f *models.LogFilter, p query.Params) { p["entityKind"] = string(*f.EntityKind) }),
			int64Predicate("entityId", "l.entity_id", "entityId",
				func(f *models.LogFilter) *int64 { return f.EntityID }),
			int64Predicate("userId", "l.user_id", "userId",
				func(f *models.LogFilter) *int64 { return f.UserID }),
			query.Where("transactionKind", "l.transaction_kind IN (:transactionKind)",
				func(f *models.LogFilter) bool { return len(f.TransactionKind) > 0 },
				func(f *models.LogFilter, p query.Params) {
					p["transactionKind"] = models.TransactionKindValues(f.TransactionKind)
				}),
			query.Where("from", "l.timestamp >= :from",
				func(f *models.LogFilter) bool { return f.From != nil },
				func(f *models.LogFilter, p query.Params) { p["from"] = *f.From }),
			query.Where("to", "l.timestamp < :to",
				func(f *models.LogFilter) bool { return f.To != nil },
				func(f *models.LogFilter, p query.Params) { p["to"] = *f.To }),
			query.FullText(func(f *models.LogFilter) (string, bool) { return f.Text, f.Advanced }),
		},
		Sorts: query.Merge(
			query.Sortable("l", "id", "timestamp", "userId", "transactionKind", "entityId", "entityKind"),
			map[string]query.SortColumn{
				"username": {Expr: "lu.username", UserJoins: true, Text: true},
			},
		),
		Validate: func(f *models.LogFilter) error {
			if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
				return srvErrors.NewInvalidArgumentError("to", "must be after from")
			}
			return nil
		},
		Scan: func(row query.Scanner) (models.Log, error) {
			var l models.Log
			err := row.Scan(&l.ID, &l.Timestamp, &l.UserID, &l.TransactionKind,
				&l.EntityID, &l.EntityKind, &l.LinkedEntityID, &l.Details)
			return l, err
		},
	}
}
