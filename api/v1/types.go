package v1

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/evidentia/evidence-store/internal/models"
)

// Entity holds the fields every tracked record shares.
type Entity struct {
	Id              int64      `json:"id"`
	EntityKind      string     `json:"entityKind"`
	Status          string     `json:"status"`
	Rating          int        `json:"rating"`
	Created         time.Time  `json:"created"`
	CreatedByUserId *int64     `json:"createdByUserId,omitempty"`
	Updated         *time.Time `json:"updated,omitempty"`
	UpdatedByUserId *int64     `json:"updatedByUserId,omitempty"`
}

type Claim struct {
	Entity
	Text  string              `json:"text"`
	Date  *openapi_types.Date `json:"date,omitempty"`
	Notes *string             `json:"notes,omitempty"`
}

type Declaration struct {
	Entity
	Title string              `json:"title"`
	Date  *openapi_types.Date `json:"date,omitempty"`
	Url   *string             `json:"url,omitempty"`
	Notes *string             `json:"notes,omitempty"`
}

type Person struct {
	Entity
	Title     *string `json:"title,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  string  `json:"lastName"`
	Alias     *string `json:"alias,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type Publication struct {
	Entity
	Title     string  `json:"title"`
	Authors   *string `json:"authors,omitempty"`
	JournalId *int64  `json:"journalId,omitempty"`
	Year      *int    `json:"year,omitempty"`
	Doi       *string `json:"doi,omitempty"`
	Url       *string `json:"url,omitempty"`
	Abstract  *string `json:"abstract,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

type Quotation struct {
	Entity
	Text   string              `json:"text"`
	Quotee string              `json:"quotee"`
	Quoted *openapi_types.Date `json:"quoted,omitempty"`
	Source *string             `json:"source,omitempty"`
	Url    *string             `json:"url,omitempty"`
	Notes  *string             `json:"notes,omitempty"`
}

type Topic struct {
	Entity
	ParentId    *int64  `json:"parentId,omitempty"`
	Label       string  `json:"label"`
	Description *string `json:"description,omitempty"`
}

type Journal struct {
	Entity
	Title        string  `json:"title"`
	Abbreviation *string `json:"abbreviation,omitempty"`
	Issn         *string `json:"issn,omitempty"`
	PublisherId  *int64  `json:"publisherId,omitempty"`
	Url          *string `json:"url,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

type Publisher struct {
	Entity
	Name     string  `json:"name"`
	Location *string `json:"location,omitempty"`
	Country  *string `json:"country,omitempty"`
	Url      *string `json:"url,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

type User struct {
	Entity
	Username  string  `json:"username"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

type EntityLink struct {
	Entity
	FromEntityId        int64   `json:"fromEntityId"`
	FromEntityLocations *string `json:"fromEntityLocations,omitempty"`
	ToEntityId          int64   `json:"toEntityId"`
	ToEntityLocations   *string `json:"toEntityLocations,omitempty"`
}

type TopicRef struct {
	Id           int64   `json:"id"`
	TopicId      int64   `json:"topicId"`
	EntityId     int64   `json:"entityId"`
	EntityKind   string  `json:"entityKind"`
	Locations    *string `json:"locations,omitempty"`
	EntityStatus string  `json:"entityStatus"`
}

type Log struct {
	Id              int64     `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	UserId          *int64    `json:"userId,omitempty"`
	TransactionKind string    `json:"transactionKind"`
	EntityId        int64     `json:"entityId"`
	EntityKind      string    `json:"entityKind"`
	LinkedEntityId  *int64    `json:"linkedEntityId,omitempty"`
	Details         *string   `json:"details,omitempty"`
}

type Statistics struct {
	EntityKind string `json:"entityKind"`
	Status     string `json:"status"`
	Count      int64  `json:"count"`
}

// Error is the body of every failed request.
type Error struct {
	Error string `json:"error"`
}

func newEntity(e models.Entity) Entity {
	return Entity{
		Id:              e.ID,
		EntityKind:      string(e.Kind),
		Status:          string(e.Status),
		Rating:          e.Rating,
		Created:         e.Created,
		CreatedByUserId: e.CreatedByUserID,
		Updated:         e.Updated,
		UpdatedByUserId: e.UpdatedByUserID,
	}
}

func newDate(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

func NewClaim(m models.Claim) Claim {
	return Claim{Entity: newEntity(m.Entity), Text: m.Text, Date: newDate(m.Date), Notes: m.Notes}
}

func NewDeclaration(m models.Declaration) Declaration {
	return Declaration{Entity: newEntity(m.Entity), Title: m.Title, Date: newDate(m.Date), Url: m.URL, Notes: m.Notes}
}

func NewPerson(m models.Person) Person {
	return Person{
		Entity:    newEntity(m.Entity),
		Title:     m.Title,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Alias:     m.Alias,
		Notes:     m.Notes,
	}
}

func NewPublication(m models.Publication) Publication {
	return Publication{
		Entity:    newEntity(m.Entity),
		Title:     m.Title,
		Authors:   m.Authors,
		JournalId: m.JournalID,
		Year:      m.Year,
		Doi:       m.DOI,
		Url:       m.URL,
		Abstract:  m.Abstract,
		Notes:     m.Notes,
	}
}

func NewQuotation(m models.Quotation) Quotation {
	return Quotation{
		Entity: newEntity(m.Entity),
		Text:   m.Text,
		Quotee: m.Quotee,
		Quoted: newDate(m.Quoted),
		Source: m.Source,
		Url:    m.URL,
		Notes:  m.Notes,
	}
}

func NewTopic(m models.Topic) Topic {
	return Topic{Entity: newEntity(m.Entity), ParentId: m.ParentID, Label: m.Label, Description: m.Description}
}

func NewJournal(m models.Journal) Journal {
	return Journal{
		Entity:       newEntity(m.Entity),
		Title:        m.Title,
		Abbreviation: m.Abbreviation,
		Issn:         m.ISSN,
		PublisherId:  m.PublisherID,
		Url:          m.URL,
		Notes:        m.Notes,
	}
}

func NewPublisher(m models.Publisher) Publisher {
	return Publisher{
		Entity:   newEntity(m.Entity),
		Name:     m.Name,
		Location: m.Location,
		Country:  m.Country,
		Url:      m.URL,
		Notes:    m.Notes,
	}
}

func NewUser(m models.User) User {
	return User{
		Entity:    newEntity(m.Entity),
		Username:  m.Username,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
	}
}

func NewEntityLink(m models.EntityLink) EntityLink {
	return EntityLink{
		Entity:              newEntity(m.Entity),
		FromEntityId:        m.FromEntityID,
		FromEntityLocations: m.FromEntityLocations,
		ToEntityId:          m.ToEntityID,
		ToEntityLocations:   m.ToEntityLocations,
	}
}

func NewTopicRef(m models.TopicRef) TopicRef {
	return TopicRef{
		Id:           m.ID,
		TopicId:      m.TopicID,
		EntityId:     m.EntityID,
		EntityKind:   string(m.EntityKind),
		Locations:    m.Locations,
		EntityStatus: string(m.EntityStatus),
	}
}

func NewLog(m models.Log) Log {
	return Log{
		Id:              m.ID,
		Timestamp:       m.Timestamp,
		UserId:          m.UserID,
		TransactionKind: string(m.TransactionKind),
		EntityId:        m.EntityID,
		EntityKind:      string(m.EntityKind),
		LinkedEntityId:  m.LinkedEntityID,
		Details:         m.Details,
	}
}

func NewStatistics(m models.Statistics) Statistics {
	return Statistics{EntityKind: string(m.EntityKind), Status: string(m.Status), Count: m.Count}
}

type IndexStatus struct {
	State       string     `json:"state"`
	Rows        int64      `json:"rows"`
	LastRebuild *time.Time `json:"lastRebuild,omitempty"`
	Error       *string    `json:"error,omitempty"`
}

func NewIndexStatus(m models.IndexStatus) IndexStatus {
	s := IndexStatus{State: string(m.State), Rows: m.Rows, LastRebuild: m.LastRebuild}
	if m.Error != nil {
		e := m.Error.Error()
		s.Error = &e
	}
	return s
}

type StatisticsSummary struct {
	Total    int64            `json:"total"`
	ByKind   map[string]int64 `json:"byKind"`
	ByStatus map[string]int64 `json:"byStatus"`
	Groups   []Statistics     `json:"groups"`
}

func NewStatisticsSummary(total int64, byKind map[models.EntityKind]int64, byStatus map[models.Status]int64, groups []models.Statistics) StatisticsSummary {
	s := StatisticsSummary{
		Total:    total,
		ByKind:   make(map[string]int64, len(byKind)),
		ByStatus: make(map[string]int64, len(byStatus)),
		Groups:   make([]Statistics, 0, len(groups)),
	}
	for k, n := range byKind {
		s.ByKind[string(k)] = n
	}
	for st, n := range byStatus {
		s.ByStatus[string(st)] = n
	}
	for _, g := range groups {
		s.Groups = append(s.Groups, NewStatistics(g))
	}
	return s
}

// Explanation is the statement pair composed for a request.
type Explanation struct {
	Category string         `json:"category"`
	Record   string         `json:"record"`
	Key      string         `json:"key"`
	CountKey string         `json:"countKey"`
	Count    string         `json:"count"`
	Select   string         `json:"select"`
	Params   map[string]any `json:"params"`
}
