package test

import (
	"context"
	"database/sql"
	"time"
)

// Entity is a fixture row of the entity table.
type Entity struct {
	ID        int64
	Kind      string
	Status    string
	Rating    int
	Created   time.Time
	CreatedBy any
}

type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Email     string
}

type Topic struct {
	ID       int64
	ParentID any
	Label    string
}

type Publisher struct {
	ID       int64
	Name     string
	Location string
	Country  string
}

type Journal struct {
	ID          int64
	Title       string
	PublisherID int64
}

type Claim struct {
	ID    int64
	Text  string
	Notes any
}

type Person struct {
	ID        int64
	FirstName string
	LastName  string
}

type Publication struct {
	ID        int64
	Title     string
	JournalID int64
	Year      int
}

type Declaration struct {
	ID    int64
	Title string
}

type Quotation struct {
	ID     int64
	Text   string
	Quotee string
}

type EntityLink struct {
	ID           int64
	FromEntityID int64
	ToEntityID   int64
	Locations    string
}

type TopicRef struct {
	TopicID    int64
	EntityID   int64
	EntityKind string
}

type Log struct {
	Timestamp       time.Time
	UserID          any
	TransactionKind string
	EntityID        int64
	EntityKind      string
	LinkedEntityID  any
	Details         string
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 9, 0, 0, 0, time.UTC)
}

// Entities holds the entity rows of every record below. Topic tree:
//
//	10 Climate (PUB)
//	├── 11 Oceans (PUB)
//	│   └── 12 Coral reefs (DRA)
//	│       └── 13 Deep sea (PUB)
//	└── 14 Glaciers (PUB)
//	15 Economics (PUB)
var Entities = []Entity{
	{1, "USR", "PUB", 0, day(1), nil},
	{2, "USR", "PUB", 0, day(1), nil},
	{10, "TOP", "PUB", 0, day(2), int64(1)},
	{11, "TOP", "PUB", 0, day(2), int64(1)},
	{12, "TOP", "DRA", 0, day(2), int64(2)},
	{13, "TOP", "PUB", 0, day(2), int64(2)},
	{14, "TOP", "PUB", 0, day(2), int64(1)},
	{15, "TOP", "PUB", 0, day(2), int64(1)},
	{20, "PBR", "PUB", 0, day(3), int64(1)},
	{21, "PBR", "PUB", 0, day(3), int64(1)},
	{30, "JOU", "PUB", 0, day(3), int64(1)},
	{31, "JOU", "DRA", 0, day(3), int64(2)},
	{32, "JOU", "PUB", 0, day(3), int64(2)},
	{40, "CLA", "PUB", 5, day(4), int64(1)},
	{41, "CLA", "DRA", 2, day(5), int64(2)},
	{42, "CLA", "PUB", 1, day(6), int64(2)},
	{43, "CLA", "PUB", 4, day(7), nil},
	{44, "CLA", "SUS", 0, day(8), int64(1)},
	{50, "PER", "PUB", 3, day(4), int64(1)},
	{51, "PER", "PUB", 3, day(4), int64(1)},
	{52, "PER", "DRA", 0, day(4), int64(2)},
	{60, "PUB", "PUB", 4, day(5), int64(1)},
	{61, "PUB", "PUB", 2, day(5), int64(2)},
	{62, "PUB", "DRA", 0, day(5), int64(2)},
	{70, "DEC", "PUB", 5, day(6), int64(1)},
	{71, "DEC", "PUB", 4, day(6), int64(1)},
	{80, "QUO", "PUB", 3, day(7), int64(1)},
	{81, "QUO", "DRA", 1, day(7), int64(2)},
	{90, "LNK", "PUB", 0, day(8), int64(1)},
	{91, "LNK", "PUB", 0, day(8), int64(1)},
	{92, "LNK", "PUB", 0, day(8), int64(2)},
	{93, "LNK", "DRA", 0, day(8), int64(2)},
}

var Users = []User{
	{1, "alice", "Alice", "Smith", "alice@example.org"},
	{2, "bob", "Bob", "Jones", "bob@example.org"},
}

var Topics = []Topic{
	{10, nil, "Climate"},
	{11, int64(10), "Oceans"},
	{12, int64(11), "Coral reefs"},
	{13, int64(12), "Deep sea"},
	{14, int64(10), "Glaciers"},
	{15, nil, "Economics"},
}

var Publishers = []Publisher{
	{20, "Elsevier", "Amsterdam", "NL"},
	{21, "Nature Portfolio", "London", "GB"},
}

var Journals = []Journal{
	{30, "Nature", 21},
	{31, "Ocean Science", 20},
	{32, "Climate Dynamics", 20},
}

var Claims = []Claim{
	{40, "Sea levels are rising faster than predicted", nil},
	{41, "Coral bleaching is reversible", "disputed"},
	{42, "Glaciers are advancing worldwide", "contradicted by satellite data"},
	{43, "Deep sea mining harms ecosystems", nil},
	{44, "Carbon taxes reduce emissions", nil},
}

var Persons = []Person{
	{50, "James", "Hansen"},
	{51, "Michael", "Mann"},
	{52, "Judith", "Curry"},
}

var Publications = []Publication{
	{60, "Global sea level rise", 30, 2020},
	{61, "Coral reef decline", 31, 2018},
	{62, "Glacier mass balance", 32, 2021},
}

var Declarations = []Declaration{
	{70, "Paris Agreement"},
	{71, "Glasgow Climate Pact"},
}

var Quotations = []Quotation{
	{80, "The oceans are warming", "James Hansen"},
	{81, "Reefs will vanish", "Unknown"},
}

// EntityLinks: publication 60 and person 50 support claim 40, publication 61
// supports claim 41 and quotation 80 disputes claim 42.
var EntityLinks = []EntityLink{
	{90, 60, 40, "p. 3"},
	{91, 50, 40, "interview"},
	{92, 61, 41, "abstract"},
	{93, 80, 42, "speech"},
}

var TopicRefs = []TopicRef{
	{11, 40, "CLA"},
	{12, 41, "CLA"},
	{13, 43, "CLA"},
	{14, 42, "CLA"},
	{15, 44, "CLA"},
	{11, 60, "PUB"},
	{13, 80, "QUO"},
}

var Logs = []Log{
	{day(4), int64(1), "CRE", 40, "CLA", nil, "created claim"},
	{day(5), int64(2), "UPD", 40, "CLA", nil, "fixed typo in text"},
	{day(5), int64(2), "CRE", 41, "CLA", nil, "created claim"},
	{day(8), int64(1), "LNK", 60, "PUB", int64(40), "linked publication to claim"},
	{day(9), nil, "DEL", 44, "CLA", nil, "suspended after review"},
}

// InsertRecords inserts all fixture records into a migrated database.
func InsertRecords(ctx context.Context, db *sql.DB) error {
	type insert struct {
		query string
		args  []any
	}
	var inserts []insert
	add := func(query string, args ...any) {
		inserts = append(inserts, insert{query, args})
	}

	for _, e := range Entities {
		add(`INSERT INTO entity (id, dtype, status, rating, created, created_by_user_id) VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.Kind, e.Status, e.Rating, e.Created, e.CreatedBy)
	}
	for _, u := range Users {
		add(`INSERT INTO users (id, username, first_name, last_name, email) VALUES (?, ?, ?, ?, ?)`,
			u.ID, u.Username, u.FirstName, u.LastName, u.Email)
	}
	for _, t := range Topics {
		add(`INSERT INTO topic (id, parent_id, label) VALUES (?, ?, ?)`, t.ID, t.ParentID, t.Label)
	}
	for _, p := range Publishers {
		add(`INSERT INTO publisher (id, name, location, country) VALUES (?, ?, ?, ?)`, p.ID, p.Name, p.Location, p.Country)
	}
	for _, j := range Journals {
		add(`INSERT INTO journal (id, title, publisher_id) VALUES (?, ?, ?)`, j.ID, j.Title, j.PublisherID)
	}
	for _, c := range Claims {
		add(`INSERT INTO claim (id, text, notes) VALUES (?, ?, ?)`, c.ID, c.Text, c.Notes)
	}
	for _, p := range Persons {
		add(`INSERT INTO person (id, first_name, last_name) VALUES (?, ?, ?)`, p.ID, p.FirstName, p.LastName)
	}
	for _, p := range Publications {
		add(`INSERT INTO publication (id, title, journal_id, year) VALUES (?, ?, ?, ?)`, p.ID, p.Title, p.JournalID, p.Year)
	}
	for _, d := range Declarations {
		add(`INSERT INTO declaration (id, title) VALUES (?, ?)`, d.ID, d.Title)
	}
	for _, q := range Quotations {
		add(`INSERT INTO quotation (id, text, quotee) VALUES (?, ?, ?)`, q.ID, q.Text, q.Quotee)
	}
	for _, l := range EntityLinks {
		add(`INSERT INTO entity_link (id, from_entity_id, from_entity_locations, to_entity_id) VALUES (?, ?, ?, ?)`,
			l.ID, l.FromEntityID, l.Locations, l.ToEntityID)
	}
	for _, r := range TopicRefs {
		add(`INSERT INTO topic_ref (topic_id, entity_id, entity_kind) VALUES (?, ?, ?)`, r.TopicID, r.EntityID, r.EntityKind)
	}
	for _, l := range Logs {
		add(`INSERT INTO log (timestamp, user_id, transaction_kind, entity_id, entity_kind, linked_entity_id, details) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			l.Timestamp, l.UserID, l.TransactionKind, l.EntityID, l.EntityKind, l.LinkedEntityID, l.Details)
	}

	for _, i := range inserts {
		if _, err := db.ExecContext(ctx, i.query, i.args...); err != nil {
			return err
		}
	}
	return nil
}
