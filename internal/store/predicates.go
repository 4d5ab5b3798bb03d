package store

import (
	"fmt"

	"github.com/evidentia/evidence-store/internal/models"
	"github.com/evidentia/evidence-store/pkg/query"
)

// topicHierarchy walks topic.parent_id. A status restricted walk stops at topics
// outside the requested statuses.
var topicHierarchy = query.Hierarchy{
	CTE:             "sub_topic",
	Table:           "topic",
	KeyColumn:       "id",
	ParentColumn:    "parent_id",
	StatusJoin:      "JOIN entity he ON he.id = h.id",
	StatusCondition: "he.status IN (:status)",
}

var userJoins = []string{
	"LEFT JOIN users cu ON cu.id = e.created_by_user_id",
	"LEFT JOIN users uu ON uu.id = e.updated_by_user_id",
}

var entityColumns = []string{
	"e.id", "e.dtype", "e.status", "e.rating",
	"e.created", "e.created_by_user_id", "e.updated", "e.updated_by_user_id",
}

// entitySorts are the sortable properties every tracked record has.
func entitySorts() map[string]query.SortColumn {
	return query.Merge(
		query.Sortable("e", "id", "status", "rating", "created", "updated"),
		map[string]query.SortColumn{
			"createdByUsername": {Expr: "cu.username", UserJoins: true, Text: true},
			"updatedByUsername": {Expr: "uu.username", UserJoins: true, Text: true},
		},
	)
}

// entityDest returns the scan destinations matching entityColumns.
func entityDest(e *models.Entity) []any {
	return []any{
		&e.ID, &e.Kind, &e.Status, &e.Rating,
		&e.Created, &e.CreatedByUserID, &e.Updated, &e.UpdatedByUserID,
	}
}

func idPredicate[F any](cond string, id func(*F) *int64) query.Predicate[F] {
	return query.Exact("id", cond,
		func(f *F) bool { return id(f) != nil },
		func(f *F, p query.Params) { p["id"] = *id(f) })
}

func statusPredicate[F any](column string, status func(*F) []models.Status) query.Predicate[F] {
	return query.Where("status", column+" IN (:status)",
		func(f *F) bool { return len(status(f)) > 0 },
		func(f *F, p query.Params) { p["status"] = models.StatusValues(status(f)) })
}

// int64Predicate matches column against an optional id field bound to param.
func int64Predicate[F any](token, column, param string, value func(*F) *int64) query.Predicate[F] {
	return query.Where(token, fmt.Sprintf("%s = :%s", column, param),
		func(f *F) bool { return value(f) != nil },
		func(f *F, p query.Params) { p[param] = *value(f) })
}

// kindPredicate matches column against an optional entity kind bound to param.
func kindPredicate[F any](token, join, column, param string, value func(*F) *models.EntityKind) query.Predicate[F] {
	return query.Joined(token, join, fmt.Sprintf("%s = :%s", column, param),
		func(f *F) bool { return value(f) != nil },
		func(f *F, p query.Params) { p[param] = string(*value(f)) })
}

// topicPredicate restricts records to those referenced by a topic, or by any of
// its descendants when recursive. entityKey is the qualified id of the record.
func topicPredicate[F any](entityKey string, value func(*F) (*int64, bool)) query.Predicate[F] {
	return query.Tree("topic", "topicId", topicHierarchy,
		fmt.Sprintf("EXISTS (SELECT 1 FROM topic_ref tr WHERE tr.entity_id = %s AND tr.topic_id = :topicId)", entityKey),
		fmt.Sprintf("EXISTS (SELECT 1 FROM topic_ref tr WHERE tr.entity_id = %s AND (tr.topic_id = :topicId OR tr.topic_id IN (SELECT id FROM sub_topic)))", entityKey),
		func(f *F) (any, bool, bool) {
			id, recursive := value(f)
			if id == nil {
				return nil, false, false
			}
			return *id, true, recursive
		})
}

// linkSide describes one end of the entity links a tracked record takes part in.
type linkSide struct {
	token string
	// own is the link column referencing the filtered record, other the opposite end.
	own, other string
	kindParam  string
	idParam    string
}

var (
	linkedFrom = linkSide{token: "linkedFrom", own: "to_entity_id", other: "from_entity_id", kindParam: "fromEntityKind", idParam: "fromEntityId"}
	linkedTo   = linkSide{token: "linkedTo", own: "from_entity_id", other: "to_entity_id", kindParam: "toEntityKind", idParam: "toEntityId"}
)

// linkPredicate restricts records to those linked with an entity of the given kind
// and/or id on side.
func linkPredicate[F any](side linkSide, value func(*F) (*models.EntityKind, *int64)) query.Predicate[F] {
	exists := func(join, cond string) string {
		return fmt.Sprintf("EXISTS (SELECT 1 FROM entity_link lk%s WHERE lk.%s = e.id AND %s)", join, side.own, cond)
	}
	kindJoin := fmt.Sprintf(" JOIN entity le ON le.id = lk.%s", side.other)
	kindCond := fmt.Sprintf("le.dtype = :%s", side.kindParam)
	idCond := fmt.Sprintf("lk.%s = :%s", side.other, side.idParam)

	return query.Variants(side.token,
		map[string]query.Variant{
			"kind": {Where: exists(kindJoin, kindCond)},
			"id":   {Where: exists("", idCond)},
			"both": {Where: exists(kindJoin, kindCond+" AND "+idCond)},
		},
		func(f *F) (bool, string) {
			kind, id := value(f)
			switch {
			case kind != nil && id != nil:
				return true, "both"
			case kind != nil:
				return true, "kind"
			case id != nil:
				return true, "id"
			default:
				return false, ""
			}
		},
		func(f *F, variant string, p query.Params) {
			kind, id := value(f)
			if kind != nil {
				p[side.kindParam] = string(*kind)
			}
			if id != nil {
				p[side.idParam] = *id
			}
		})
}
