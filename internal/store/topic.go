package store

import (
	"github.com/evidentia/evidence-store/internal/models"
	"github.com/evidentia/evidence-store/pkg/query"
)

var topicTable = recordTable[models.Topic]{
	category:  "topic",
	kind:      models.EntityKindTopic,
	table:     "topic",
	alias:     "t",
	columns:   []string{"parent_id", "label", "description"},
	fulltext:  []string{"label", "description"},
	sorts:     []string{"parentId"},
	textSorts: []string{"label"},
	dest: func(t *models.Topic) []any {
		return append(entityDest(&t.Entity), &t.ParentID, &t.Label, &t.Description)
	},
}

// topicCategory serves topics. Recursive without a parent id is ignored.
func topicCategory() *query.Category[models.TopicFilter, models.Topic] {
	predicates := []query.Predicate[models.TopicFilter]{
		idPredicate("t.id = :id", func(f *models.TopicFilter) *int64 { return f.ID }),
		statusPredicate("e.status", func(f *models.TopicFilter) []models.Status { return f.Status }),
		query.FullText(func(f *models.TopicFilter) (string, bool) { return f.Text, f.Advanced }),
		query.Tree("parent", "parentId", topicHierarchy,
			"t.parent_id = :parentId",
			"t.id IN (SELECT id FROM sub_topic)",
			func(f *models.TopicFilter) (any, bool, bool) {
				if f.ParentID == nil {
					return nil, false, false
				}
				return *f.ParentID, true, f.Recursive
			}),
	}
	return newRecordCategory(topicTable, predicates,
		func(f *models.TopicFilter) { f.Status = models.Published() },
		nil)
}
