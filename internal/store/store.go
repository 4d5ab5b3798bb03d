package store

import (
	"database/sql"

	"github.com/evidentia/evidence-store/internal/models"
	"github.com/evidentia/evidence-store/pkg/query"
)

type (
	ClaimStore       = CategoryStore[models.TrackedFilter, models.Claim]
	DeclarationStore = CategoryStore[models.TrackedFilter, models.Declaration]
	PersonStore      = CategoryStore[models.TrackedFilter, models.Person]
	PublicationStore = CategoryStore[models.TrackedFilter, models.Publication]
	QuotationStore   = CategoryStore[models.TrackedFilter, models.Quotation]
	UserStore        = CategoryStore[models.TrackedFilter, models.User]
	JournalStore     = CategoryStore[models.ReferenceFilter, models.Journal]
	PublisherStore   = CategoryStore[models.ReferenceFilter, models.Publisher]
	TopicStore       = CategoryStore[models.TopicFilter, models.Topic]
	EntityLinkStore  = CategoryStore[models.EntityLinkFilter, models.EntityLink]
	TopicRefStore    = CategoryStore[models.TopicRefFilter, models.TopicRef]
	LogStore         = CategoryStore[models.LogFilter, models.Log]
	StatisticsStore  = CategoryStore[models.StatisticsFilter, models.Statistics]
)

// Store provides access to all storage repositories.
type Store struct {
	db           *sql.DB
	dialect      query.Dialect
	claims       *ClaimStore
	declarations *DeclarationStore
	persons      *PersonStore
	publications *PublicationStore
	quotations   *QuotationStore
	users        *UserStore
	journals     *JournalStore
	publishers   *PublisherStore
	topics       *TopicStore
	entityLinks  *EntityLinkStore
	topicRefs    *TopicRefStore
	logs         *LogStore
	statistics   *StatisticsStore
	searchIndex  *SearchIndexStore
}

func NewStore(db *sql.DB, dialect query.Dialect, opts ...Option) *Store {
	o := storeOptions{identity: query.Authenticated, maxDepth: query.DefaultMaxRecursionDepth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.identity == nil {
		o.identity = query.Authenticated
	}

	qi := newQueryInterceptor(db)
	tracked := func(id int64) *models.TrackedFilter { return &models.TrackedFilter{ID: &id} }
	reference := func(id int64) *models.ReferenceFilter { return &models.ReferenceFilter{ID: &id} }

	s := &Store{
		db:           db,
		dialect:      dialect,
		claims:       newCategoryStore(qi, dialect, trackedCategory(claimTable), o, tracked),
		declarations: newCategoryStore(qi, dialect, trackedCategory(declarationTable), o, tracked),
		persons:      newCategoryStore(qi, dialect, trackedCategory(personTable), o, tracked),
		publications: newCategoryStore(qi, dialect, trackedCategory(publicationTable), o, tracked),
		quotations:   newCategoryStore(qi, dialect, trackedCategory(quotationTable), o, tracked),
		users:        newCategoryStore(qi, dialect, trackedCategory(userTable), o, tracked),
		journals:     newCategoryStore(qi, dialect, referenceCategory(journalTable), o, reference),
		publishers:   newCategoryStore(qi, dialect, referenceCategory(publisherTable), o, reference),
		topics: newCategoryStore(qi, dialect, topicCategory(), o,
			func(id int64) *models.TopicFilter { return &models.TopicFilter{ID: &id} }),
		entityLinks: newCategoryStore(qi, dialect, entityLinkCategory(), o,
			func(id int64) *models.EntityLinkFilter { return &models.EntityLinkFilter{ID: &id} }),
		topicRefs: newCategoryStore(qi, dialect, topicRefCategory(), o,
			func(id int64) *models.TopicRefFilter { return &models.TopicRefFilter{ID: &id} }),
		logs: newCategoryStore(qi, dialect, logCategory(), o,
			func(id int64) *models.LogFilter { return &models.LogFilter{ID: &id} }),
		statistics: newCategoryStore[models.StatisticsFilter, models.Statistics](qi, dialect, statisticsCategory(), o, nil),
	}

	s.searchIndex = NewSearchIndexStore(qi, dialect,
		s.claims.engine.Category().Descriptor,
		s.declarations.engine.Category().Descriptor,
		s.persons.engine.Category().Descriptor,
		s.publications.engine.Category().Descriptor,
		s.quotations.engine.Category().Descriptor,
		s.users.engine.Category().Descriptor,
		s.journals.engine.Category().Descriptor,
		s.publishers.engine.Category().Descriptor,
		s.topics.engine.Category().Descriptor,
		s.entityLinks.engine.Category().Descriptor,
		s.logs.engine.Category().Descriptor,
	)
	return s
}

func (s *Store) Dialect() query.Dialect {
	return s.dialect
}

func (s *Store) Claims() *ClaimStore {
	return s.claims
}

func (s *Store) Declarations() *DeclarationStore {
	return s.declarations
}

func (s *Store) Persons() *PersonStore {
	return s.persons
}

func (s *Store) Publications() *PublicationStore {
	return s.publications
}

func (s *Store) Quotations() *QuotationStore {
	return s.quotations
}

func (s *Store) Users() *UserStore {
	return s.users
}

func (s *Store) Journals() *JournalStore {
	return s.journals
}

func (s *Store) Publishers() *PublisherStore {
	return s.publishers
}

func (s *Store) Topics() *TopicStore {
	return s.topics
}

func (s *Store) EntityLinks() *EntityLinkStore {
	return s.entityLinks
}

func (s *Store) TopicRefs() *TopicRefStore {
	return s.topicRefs
}

func (s *Store) Logs() *LogStore {
	return s.logs
}

func (s *Store) Statistics() *StatisticsStore {
	return s.statistics
}

func (s *Store) SearchIndex() *SearchIndexStore {
	return s.searchIndex
}

func (s *Store) Close() error {
	return s.db.Close()
}
