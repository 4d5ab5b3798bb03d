package store

import (
	"github.com/evidentia/evidence-store/internal/models"
	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
	"github.com/evidentia/evidence-store/pkg/query"
)

// topicRefCategory serves topic references. Status filters the referencing record.
func topicRefCategory() *query.Category[models.TopicRefFilter, models.TopicRef] {
	return &query.Category[models.TopicRefFilter, models.TopicRef]{
		Name: "topicRef",
		Descriptor: query.Descriptor{
			Name:  "Topic reference",
			Table: "topic_ref",
			Alias: "r",
		},
		Columns: []string{"r.id", "r.topic_id", "r.entity_id", "r.entity_kind", "r.locations", "e.status"},
		From:    "topic_ref r",
		Joins:   []string{"JOIN entity e ON e.id = r.entity_id"},
		Predicates: []query.Predicate[models.TopicRefFilter]{
			idPredicate("r.id = :id", func(f *models.TopicRefFilter) *int64 { return f.ID }),
			statusPredicate("e.status", func(f *models.TopicRefFilter) []models.Status { return f.Status }),
			query.Tree("topic", "topicId", topicHierarchy,
				"r.topic_id = :topicId",
				"(r.topic_id = :topicId OR r.topic_id IN (SELECT id FROM sub_topic))",
				func(f *models.TopicRefFilter) (any, bool, bool) {
					if f.TopicID == nil {
						return nil, false, false
					}
					return *f.TopicID, true, f.Recursive
				}),
			query.Where("masterEntityKind", "r.entity_kind = :masterEntityKind",
				func(f *models.TopicRefFilter) bool { return f.MasterEntityKind != nil },
				func(f *models.TopicRefFilter, p query.Params) { p["masterEntityKind"] = string(*f.MasterEntityKind) }),
			int64Predicate("masterEntityId", "r.entity_id", "masterEntityId",
				func(f *models.TopicRefFilter) *int64 { return f.MasterEntityID }),
		},
		Sorts: query.Merge(
			query.Sortable("r", "id", "topicId", "entityId", "entityKind"),
			query.Sortable("e", "status", "created"),
		),
		Secured: true,
		Narrow: func(f *models.TopicRefFilter) {
			f.Status = models.Published()
		},
		Validate: func(f *models.TopicRefFilter) error {
			if f.MasterEntityID != nil && f.MasterEntityKind == nil {
				return srvErrors.NewInvalidArgumentError("masterEntityId", "requires masterEntityKind")
			}
			return nil
		},
		Scan: func(row query.Scanner) (models.TopicRef, error) {
			var r models.TopicRef
			err := row.Scan(&r.ID, &r.TopicID, &r.EntityID, &r.EntityKind, &r.Locations, &r.EntityStatus)
			return r, err
		},
	}
}
