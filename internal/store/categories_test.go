package store_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/evidentia/evidence-store/internal/models"
	"github.com/evidentia/evidence-store/internal/store"
	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
	"github.com/evidentia/evidence-store/pkg/query"
)

var _ = Describe("Categories", func() {
	var (
		ctx  context.Context
		db   *sql.DB
		s    *store.Store
		anon *store.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = newFixtureDB(ctx)
		s = store.NewStore(db, query.DuckDB)
		anon = store.NewStore(db, query.DuckDB, store.WithIdentity(anonymous))
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("JournalStore", func() {
		It("should filter journals by publisher", func() {
			page, err := s.Journals().List(ctx, &models.ReferenceFilter{PublisherID: ptr(int64(20))}, query.Unpaged(query.SortBy("id")))
			Expect(err).NotTo(HaveOccurred())
			Expect(recordIDs(page.Content)).To(Equal([]int64{31, 32}))
			Expect(page.Content[0].PublisherID).To(HaveValue(Equal(int64(20))))
		})

		It("should hide draft journals from anonymous callers", func() {
			page, err := anon.Journals().List(ctx, &models.ReferenceFilter{PublisherID: ptr(int64(20))}, query.Unpaged())
			Expect(err).NotTo(HaveOccurred())
			Expect(recordIDs(page.Content)).To(Equal([]int64{32}))
		})

		It("should search publishers by name and location", func() {
			page, err := s.Publishers().List(ctx, &models.ReferenceFilter{Text: "london"}, query.Unpaged())
			Expect(err).NotTo(HaveOccurred())
			Expect(recordIDs(page.Content)).To(Equal([]int64{21}))
			Expect(page.Content[0].Country).To(HaveValue(Equal("GB")))
		})
	})

	Describe("TopicStore", func() {
		listTopics := func(st *store.Store, f *models.TopicFilter) []int64 {
			page, err := st.Topics().List(ctx, f, query.Unpaged(query.SortBy("id")))
			Expect(err).NotTo(HaveOccurred())
			return recordIDs(page.Content)
		}

		It("should list the children of a topic", func() {
			Expect(listTopics(s, &models.TopicFilter{ParentID: ptr(int64(10))})).To(Equal([]int64{11, 14}))
		})

		It("should list all descendants when recursive", func() {
			f := &models.TopicFilter{ParentID: ptr(int64(10)), Recursive: true}
			Expect(listTopics(s, f)).To(Equal([]int64{11, 12, 13, 14}))
		})

		It("should stop at unpublished topics for anonymous callers", func() {
			f := &models.TopicFilter{ParentID: ptr(int64(10)), Recursive: true}
			Expect(listTopics(anon, f)).To(Equal([]int64{11, 14}))
		})

		It("should ignore recursive without a parent", func() {
			Expect(listTopics(s, &models.TopicFilter{Recursive: true})).To(Equal([]int64{10, 11, 12, 13, 14, 15}))
		})

		It("should sort by parent with roots first", func() {
			page, err := s.Topics().List(ctx, nil, query.Unpaged(query.SortBy("parentId").NullsFirst(), query.SortBy("id")))
			Expect(err).NotTo(HaveOccurred())
			Expect(recordIDs(page.Content)).To(Equal([]int64{10, 15, 11, 14, 12, 13}))
			Expect(page.Content[0].ParentID).To(BeNil())
		})

		It("should find topics by ids", func() {
			topics, err := s.Topics().FindByIDs(ctx, []int64{13, 12})
			Expect(err).NotTo(HaveOccurred())
			Expect(recordIDs(topics)).To(Equal([]int64{12, 13}))
			Expect(topics[1].Label).To(Equal("Deep sea"))
		})
	})

	Describe("EntityLinkStore", func() {
		listLinks := func(f *models.EntityLinkFilter) []int64 {
			page, err := s.EntityLinks().List(ctx, f, query.Unpaged(query.SortBy("id")))
			Expect(err).NotTo(HaveOccurred())
			return recordIDs(page.Content)
		}

		It("should filter by the kind of the linked from entity", func() {
			Expect(listLinks(&models.EntityLinkFilter{FromEntityKind: ptr(models.EntityKindPublication)})).To(Equal([]int64{90, 92}))
		})

		It("should filter by the linked to entity", func() {
			Expect(listLinks(&models.EntityLinkFilter{ToEntityID: ptr(int64(40))})).To(Equal([]int64{90, 91}))
		})

		It("should combine both sides", func() {
			f := &models.EntityLinkFilter{FromEntityKind: ptr(models.EntityKindQuotation), ToEntityKind: ptr(models.EntityKindClaim)}
			Expect(listLinks(f)).To(Equal([]int64{93}))
		})

		It("should search link locations", func() {
			Expect(listLinks(&models.EntityLinkFilter{Text: "interview"})).To(Equal([]int64{91}))
		})
	})

	Describe("TopicRefStore", func() {
		listRefs := func(st *store.Store, f *models.TopicRefFilter) []models.TopicRef {
			page, err := st.TopicRefs().List(ctx, f, query.Unpaged(query.SortBy("id")))
			Expect(err).NotTo(HaveOccurred())
			return page.Content
		}
		entityIDs := func(refs []models.TopicRef) []int64 {
			out := []int64{}
			for _, r := range refs {
				out = append(out, r.EntityID)
			}
			return out
		}

		It("should list references of a topic and its descendants", func() {
			refs := listRefs(s, &models.TopicRefFilter{TopicID: ptr(int64(11)), Recursive: true})
			Expect(entityIDs(refs)).To(Equal([]int64{40, 41, 43, 60, 80}))
		})

		It("should restrict anonymous callers to published records under published topics", func() {
			refs := listRefs(anon, &models.TopicRefFilter{TopicID: ptr(int64(11)), Recursive: true})
			Expect(entityIDs(refs)).To(Equal([]int64{40, 60}))
			Expect(refs[0].EntityStatus).To(Equal(models.StatusPublished))
		})

		It("should filter by master entity", func() {
			f := &models.TopicRefFilter{MasterEntityKind: ptr(models.EntityKindClaim), MasterEntityID: ptr(int64(42))}
			refs := listRefs(s, f)
			Expect(refs).To(HaveLen(1))
			Expect(refs[0].TopicID).To(Equal(int64(14)))
			Expect(refs[0].EntityKind).To(Equal(models.EntityKindClaim))
		})

		It("should reject a master entity id without its kind", func() {
			_, err := s.TopicRefs().List(ctx, &models.TopicRefFilter{MasterEntityID: ptr(int64(42))}, query.Unpaged())
			Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
		})
	})

	Describe("LogStore", func() {
		listLogs := func(f *models.LogFilter, sort ...query.Order) []int64 {
			page, err := s.Logs().List(ctx, f, query.Unpaged(sort...))
			Expect(err).NotTo(HaveOccurred())
			out := []int64{}
			for _, l := range page.Content {
				out = append(out, l.ID)
			}
			return out
		}

		It("should filter by user", func() {
			Expect(listLogs(&models.LogFilter{UserID: ptr(int64(2))}, query.SortBy("id"))).To(Equal([]int64{2, 3}))
		})

		It("should filter by transaction kinds", func() {
			f := &models.LogFilter{TransactionKind: []models.TransactionKind{models.TransactionCreated, models.TransactionLinked}}
			Expect(listLogs(f, query.SortBy("id"))).To(Equal([]int64{1, 3, 4}))
		})

		It("should treat from as inclusive and to as exclusive", func() {
			from := time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC)
			to := time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC)
			Expect(listLogs(&models.LogFilter{From: &from, To: &to}, query.SortBy("id"))).To(Equal([]int64{2, 3}))
		})

		It("should reject an empty time range", func() {
			at := time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC)
			_, err := s.Logs().List(ctx, &models.LogFilter{From: &at, To: &at}, query.Unpaged())
			Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
		})

		It("should sort by username through the user join", func() {
			Expect(listLogs(nil, query.SortBy("username").NullsFirst(), query.SortBy("id"))).To(Equal([]int64{5, 1, 4, 2, 3}))
		})

		It("should search details", func() {
			Expect(listLogs(&models.LogFilter{Text: "claim"}, query.SortBy("id"))).To(Equal([]int64{1, 3, 4}))
		})

		It("should not narrow anonymous callers", func() {
			page, err := anon.Logs().List(ctx, nil, query.Unpaged())
			Expect(err).NotTo(HaveOccurred())
			Expect(page.TotalElements).To(Equal(int64(5)))
		})
	})

	Describe("StatisticsStore", func() {
		It("should count records per kind and status", func() {
			page, err := s.Statistics().List(ctx, nil, query.PageOf(0, 5, query.SortBy("entityKind"), query.SortBy("status")))
			Expect(err).NotTo(HaveOccurred())

			Expect(page.TotalElements).To(Equal(int64(18)))
			Expect(page.Content).To(HaveLen(5))
			Expect(page.Content[0]).To(Equal(models.Statistics{EntityKind: models.EntityKindClaim, Status: models.StatusDraft, Count: 1}))
			Expect(page.Content[1]).To(Equal(models.Statistics{EntityKind: models.EntityKindClaim, Status: models.StatusPublished, Count: 3}))
		})

		It("should count records under a topic tree", func() {
			page, err := s.Statistics().List(ctx,
				&models.StatisticsFilter{TopicID: ptr(int64(10)), Recursive: true},
				query.Unpaged(query.SortBy("entityKind"), query.SortBy("status")))
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Content).To(Equal([]models.Statistics{
				{EntityKind: models.EntityKindClaim, Status: models.StatusDraft, Count: 1},
				{EntityKind: models.EntityKindClaim, Status: models.StatusPublished, Count: 3},
				{EntityKind: models.EntityKindPublication, Status: models.StatusPublished, Count: 1},
				{EntityKind: models.EntityKindQuotation, Status: models.StatusPublished, Count: 1},
			}))
		})

		It("should only count published records under published topics for anonymous callers", func() {
			page, err := anon.Statistics().List(ctx,
				&models.StatisticsFilter{TopicID: ptr(int64(10)), Recursive: true},
				query.Unpaged(query.SortBy("entityKind")))
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Content).To(Equal([]models.Statistics{
				{EntityKind: models.EntityKindClaim, Status: models.StatusPublished, Count: 2},
				{EntityKind: models.EntityKindPublication, Status: models.StatusPublished, Count: 1},
			}))
		})

		It("should not support lookups by id", func() {
			_, err := s.Statistics().Get(ctx, 1)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SearchIndexStore", func() {
		It("should index every searchable record", func() {
			n, err := s.SearchIndex().Rebuild(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(int64(37)))
		})

		It("should pick up new records on rebuild", func() {
			_, err := db.ExecContext(ctx, `INSERT INTO entity (id, dtype, status) VALUES (45, 'CLA', 'PUB')`)
			Expect(err).NotTo(HaveOccurred())
			_, err = db.ExecContext(ctx, `INSERT INTO claim (id, text) VALUES (45, 'Permafrost is thawing')`)
			Expect(err).NotTo(HaveOccurred())

			f := &models.TrackedFilter{Text: "permafrost"}
			page, err := s.Claims().List(ctx, f, query.Unpaged())
			Expect(err).NotTo(HaveOccurred())
			Expect(page.Content).To(BeEmpty())

			_, err = s.SearchIndex().Rebuild(ctx)
			Expect(err).NotTo(HaveOccurred())

			page, err = s.Claims().List(ctx, f, query.Unpaged())
			Expect(err).NotTo(HaveOccurred())
			Expect(recordIDs(page.Content)).To(Equal([]int64{45}))
		})

		It("should do nothing for dialects matching tables directly", func() {
			n, err := store.NewStore(db, query.MySQL).SearchIndex().Rebuild(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
		})
	})
})
