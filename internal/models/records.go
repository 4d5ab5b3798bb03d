package models

import "time"

// Entity holds the columns every tracked record shares through the entity table.
type Entity struct {
	ID              int64
	Kind            EntityKind
	Status          Status
	Rating          int
	Created         time.Time
	CreatedByUserID *int64
	Updated         *time.Time
	UpdatedByUserID *int64
}

type Claim struct {
	Entity
	Text  string
	Date  *time.Time
	Notes *string
}

type Declaration struct {
	Entity
	Title string
	Date  *time.Time
	URL   *string
	Notes *string
}

type Person struct {
	Entity
	Title     *string
	FirstName *string
	LastName  string
	Alias     *string
	Notes     *string
}

type Publication struct {
	Entity
	Title     string
	Authors   *string
	JournalID *int64
	Year      *int
	DOI       *string
	URL       *string
	Abstract  *string
	Notes     *string
}

type Quotation struct {
	Entity
	Text   string
	Quotee string
	Quoted *time.Time
	Source *string
	URL    *string
	Notes  *string
}

type Topic struct {
	Entity
	ParentID    *int64
	Label       string
	Description *string
}

type Journal struct {
	Entity
	Title        string
	Abbreviation *string
	ISSN         *string
	PublisherID  *int64
	URL          *string
	Notes        *string
}

type Publisher struct {
	Entity
	Name     string
	Location *string
	Country  *string
	URL      *string
	Notes    *string
}

type User struct {
	Entity
	Username  string
	FirstName *string
	LastName  *string
	Email     *string
}

// EntityLink relates two tracked records; it is a tracked record itself.
type EntityLink struct {
	Entity
	FromEntityID        int64
	FromEntityLocations *string
	ToEntityID          int64
	ToEntityLocations   *string
}

// TopicRef assigns a tracked record to a topic.
type TopicRef struct {
	ID         int64
	TopicID    int64
	EntityID   int64
	EntityKind EntityKind
	Locations  *string
	// EntityStatus is the status of the referencing record.
	EntityStatus Status
}

// Log is an audit log entry.
type Log struct {
	ID              int64
	Timestamp       time.Time
	UserID          *int64
	TransactionKind TransactionKind
	EntityID        int64
	EntityKind      EntityKind
	LinkedEntityID  *int64
	Details         *string
}

// Statistics counts the records of one kind and status.
type Statistics struct {
	EntityKind EntityKind
	Status     Status
	Count      int64
}

// Record is implemented by every tracked record.
type Record interface {
	GetEntity() *Entity
}

func (e *Entity) GetEntity() *Entity {
	return e
}
