package store

import (
	"github.com/evidentia/evidence-store/internal/models"
	"github.com/evidentia/evidence-store/pkg/query"
)

var entityLinkTable = recordTable[models.EntityLink]{
	category: "entityLink",
	kind:     models.EntityKindLink,
	table:    "entity_link",
	alias:    "l",
	columns:  []string{"from_entity_id", "from_entity_locations", "to_entity_id", "to_entity_locations"},
	fulltext: []string{"from_entity_locations", "to_entity_locations"},
	sorts:    []string{"fromEntityId", "toEntityId"},
	dest: func(l *models.EntityLink) []any {
		return append(entityDest(&l.Entity), &l.FromEntityID, &l.FromEntityLocations, &l.ToEntityID, &l.ToEntityLocations)
	},
}

// entityLinkCategory serves entity links. The linked entities are joined only
// when their kind is filtered on.
func entityLinkCategory() *query.Category[models.EntityLinkFilter, models.EntityLink] {
	predicates := []query.Predicate[models.EntityLinkFilter]{
		idPredicate("l.id = :id", func(f *models.EntityLinkFilter) *int64 { return f.ID }),
		statusPredicate("e.status", func(f *models.EntityLinkFilter) []models.Status { return f.Status }),
		query.FullText(func(f *models.EntityLinkFilter) (string, bool) { return f.Text, f.Advanced }),
		kindPredicate("fromEntityKind", "JOIN entity fe ON fe.id = l.from_entity_id", "fe.dtype", "fromEntityKind",
			func(f *models.EntityLinkFilter) *models.EntityKind { return f.FromEntityKind }),
		int64Predicate("fromEntityId", "l.from_entity_id", "fromEntityId",
			func(f *models.EntityLinkFilter) *int64 { return f.FromEntityID }),
		kindPredicate("toEntityKind", "JOIN entity te ON te.id = l.to_entity_id", "te.dtype", "toEntityKind",
			func(f *models.EntityLinkFilter) *models.EntityKind { return f.ToEntityKind }),
		int64Predicate("toEntityId", "l.to_entity_id", "toEntityId",
			func(f *models.EntityLinkFilter) *int64 { return f.ToEntityID }),
	}
	return newRecordCategory(entityLinkTable, predicates,
		func(f *models.EntityLinkFilter) { f.Status = models.Published() },
		nil)
}
