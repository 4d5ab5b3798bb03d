package models

import "time"

// TrackedFilter filters claims, declarations, persons, publications, quotations and users.
type TrackedFilter struct {
	ID       *int64
	Status   []Status
	Text     string
	Advanced bool
	// TopicID restricts to records referenced by the topic, or by any of its
	// descendants when Recursive is set.
	TopicID   *int64
	Recursive bool
	// FromEntityKind and FromEntityID restrict to records linked from such an entity.
	FromEntityKind *EntityKind
	FromEntityID   *int64
	ToEntityKind   *EntityKind
	ToEntityID     *int64
}

// ReferenceFilter filters journals and publishers.
type ReferenceFilter struct {
	ID          *int64
	Status      []Status
	Text        string
	Advanced    bool
	PublisherID *int64
}

type TopicFilter struct {
	ID        *int64
	Status    []Status
	Text      string
	Advanced  bool
	ParentID  *int64
	Recursive bool
}

type EntityLinkFilter struct {
	ID             *int64
	Status         []Status
	Text           string
	Advanced       bool
	FromEntityKind *EntityKind
	FromEntityID   *int64
	ToEntityKind   *EntityKind
	ToEntityID     *int64
}

type TopicRefFilter struct {
	ID        *int64
	Status    []Status
	TopicID   *int64
	Recursive bool
	// MasterEntityID requires MasterEntityKind.
	MasterEntityKind *EntityKind
	MasterEntityID   *int64
}

type LogFilter struct {
	ID              *int64
	EntityKind      *EntityKind
	EntityID        *int64
	UserID          *int64
	TransactionKind []TransactionKind
	// From is inclusive, To exclusive.
	From     *time.Time
	To       *time.Time
	Text     string
	Advanced bool
}

type StatisticsFilter struct {
	Status    []Status
	TopicID   *int64
	Recursive bool
}

// Published is the status set anonymous callers are restricted to.
func Published() []Status {
	return []Status{StatusPublished}
}
