package query

import (
	"context"
	"database/sql"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
)

var anonymous = IdentityFunc(func(context.Context) bool { return true })

var _ = Describe("Classifier", func() {
	var (
		ctx    context.Context
		engine *Engine[topicFilter, topicRow]
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		engine, err = NewEngine[topicFilter, topicRow](nil, DuckDB, topicCategory())
		Expect(err).NotTo(HaveOccurred())
	})

	shapeOf := func(f *topicFilter, p Pageable) Shape {
		_, shape, err := engine.Classify(ctx, f, p)
		Expect(err).NotTo(HaveOccurred())
		return shape
	}

	It("should classify idempotently", func() {
		f := &topicFilter{Status: []string{"PUB"}, Text: "sea", ParentID: ptr(int64(1)), Recursive: true}
		p := PageOf(0, 10, SortBy("label"))

		Expect(shapeOf(f, p).Key()).To(Equal(shapeOf(f, p).Key()))
	})

	It("should ignore values when keying", func() {
		a := shapeOf(&topicFilter{Status: []string{"PUB"}, Text: "sea"}, Unpaged())
		b := shapeOf(&topicFilter{Status: []string{"DRA", "SUS"}, Text: "reef"}, Unpaged())

		Expect(a.Key()).To(Equal(b.Key()))
		Expect(a.Tokens).To(Equal([]string{"status", "text"}))
	})

	It("should give distinct shapes distinct keys", func() {
		filters := []*topicFilter{
			nil,
			{Status: []string{"PUB"}},
			{Text: "sea"},
			{Text: "sea", Advanced: true},
			{ParentID: ptr(int64(1))},
			{ParentID: ptr(int64(1)), Recursive: true},
			{Status: []string{"PUB"}, ParentID: ptr(int64(1)), Recursive: true},
			{ID: ptr(int64(1))},
		}
		sorts := []Pageable{
			Unpaged(),
			Unpaged(SortBy("label")),
			Unpaged(SortBy("label").Desc()),
			Unpaged(SortBy("label").NullsFirst()),
			Unpaged(SortBy("label").IgnoringCase()),
			Unpaged(SortBy("label"), SortBy("id")),
			Unpaged(SortBy("id"), SortBy("label")),
		}

		keys := map[string]bool{}
		for _, f := range filters {
			for _, p := range sorts {
				key := shapeOf(f, p).Key()
				Expect(keys).NotTo(HaveKey(key))
				keys[key] = true
			}
		}
	})

	It("should share the count key across sort variants", func() {
		a := shapeOf(&topicFilter{Status: []string{"PUB"}}, Unpaged(SortBy("label")))
		b := shapeOf(&topicFilter{Status: []string{"PUB"}}, Unpaged(SortBy("created").Desc()))

		Expect(a.CountKey()).To(Equal(b.CountKey()))
		Expect(a.Key()).NotTo(Equal(b.Key()))
	})

	It("should treat advanced without text as inactive", func() {
		shape := shapeOf(&topicFilter{Advanced: true, Text: "   "}, Unpaged())

		Expect(shape.HasText()).To(BeFalse())
		Expect(shape.IsAdvanced()).To(BeFalse())
	})

	Context("tiebreaker", func() {
		It("should append the primary key to paged index-joined shapes", func() {
			shape := shapeOf(&topicFilter{Text: "sea"}, PageOf(0, 5, SortBy("label")))

			Expect(shape.Sort).To(Equal([]Order{SortBy("label"), SortBy("id")}))
		})

		It("should not duplicate an existing primary key term", func() {
			shape := shapeOf(&topicFilter{Text: "sea"}, PageOf(0, 5, SortBy("id").Desc()))

			Expect(shape.Sort).To(Equal([]Order{SortBy("id").Desc()}))
		})

		It("should leave unpaged or text-less shapes alone", func() {
			Expect(shapeOf(&topicFilter{Text: "sea"}, Unpaged(SortBy("label"))).Sort).To(HaveLen(1))
			Expect(shapeOf(&topicFilter{}, PageOf(0, 5, SortBy("label"))).Sort).To(HaveLen(1))
		})

		It("should not inject with inline matching", func() {
			mysql, err := NewEngine[topicFilter, topicRow](nil, MySQL, topicCategory())
			Expect(err).NotTo(HaveOccurred())

			_, shape, err := mysql.Classify(ctx, &topicFilter{Text: "sea"}, PageOf(0, 5, SortBy("label")))
			Expect(err).NotTo(HaveOccurred())
			Expect(shape.Sort).To(HaveLen(1))
		})
	})

	Context("anonymous narrowing", func() {
		BeforeEach(func() {
			var err error
			engine, err = NewEngine[topicFilter, topicRow](nil, DuckDB, topicCategory(), WithIdentity(anonymous))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should synthesize a published-only filter when none is given", func() {
			f, shape, err := engine.Classify(ctx, nil, Unpaged())

			Expect(err).NotTo(HaveOccurred())
			Expect(f.Status).To(Equal([]string{"PUB"}))
			Expect(shape.Tokens).To(Equal([]string{"status"}))
		})

		It("should override requested statuses without touching the caller's filter", func() {
			requested := &topicFilter{Status: []string{"DRA", "PUB"}}

			f, _, err := engine.Classify(ctx, requested, Unpaged())

			Expect(err).NotTo(HaveOccurred())
			Expect(f.Status).To(Equal([]string{"PUB"}))
			Expect(requested.Status).To(Equal([]string{"DRA", "PUB"}))
		})

		It("should keep the status restriction on exact id lookups", func() {
			_, shape, err := engine.Classify(ctx, &topicFilter{ID: ptr(int64(3))}, Unpaged())

			Expect(err).NotTo(HaveOccurred())
			Expect(shape.Tokens).To(Equal([]string{"id", "status"}))
		})
	})

	It("should reject malformed advanced text before composing", func() {
		_, _, err := engine.Compile(ctx, &topicFilter{Text: `"unterminated`, Advanced: true}, Unpaged())

		Expect(srvErrors.IsInvalidArgumentError(err)).To(BeTrue())
		Expect(engine.Cache().Len()).To(Equal(0))
	})
})

var _ = Describe("Engine", func() {
	var (
		ctx    context.Context
		db     *sql.DB
		engine *Engine[topicFilter, topicRow]
	)

	BeforeEach(func() {
		ctx = context.Background()
		db = newTopicDB(ctx)

		var err error
		engine, err = NewEngine[topicFilter, topicRow](db, DuckDB, topicCategory(), WithStatementValidation(true))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	It("should list every topic unfiltered", func() {
		page, err := engine.FindByFilter(ctx, nil, Unpaged(SortBy("id")))

		Expect(err).NotTo(HaveOccurred())
		Expect(ids(page)).To(Equal([]int64{1, 2, 3, 4, 5, 6, 7}))
		Expect(page.TotalElements).To(Equal(int64(7)))
		Expect(page.TotalPages).To(Equal(1))
	})

	It("should page with a consistent envelope", func() {
		page, err := engine.FindByFilter(ctx, nil, PageOf(1, 3, SortBy("id")))

		Expect(err).NotTo(HaveOccurred())
		Expect(ids(page)).To(Equal([]int64{4, 5, 6}))
		Expect(page.TotalElements).To(Equal(int64(7)))
		Expect(page.TotalPages).To(Equal(3))
		Expect(page.HasNext).To(BeTrue())
		Expect(page.HasPrevious).To(BeTrue())
	})

	It("should return an empty last page past the end", func() {
		page, err := engine.FindByFilter(ctx, nil, PageOf(5, 3, SortBy("id")))

		Expect(err).NotTo(HaveOccurred())
		Expect(page.Empty).To(BeTrue())
		Expect(page.Last).To(BeTrue())
		Expect(page.TotalElements).To(Equal(int64(7)))
	})

	Context("hierarchy", func() {
		It("should list direct children", func() {
			page, err := engine.FindByFilter(ctx, &topicFilter{ParentID: ptr(int64(1))}, Unpaged(SortBy("id")))

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(page)).To(Equal([]int64{2, 5}))
		})

		It("should list every descendant", func() {
			page, err := engine.FindByFilter(ctx, &topicFilter{ParentID: ptr(int64(1)), Recursive: true}, Unpaged(SortBy("id")))

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(page)).To(Equal([]int64{2, 3, 4, 5, 6}))
		})

		It("should stop descending at topics outside the status filter", func() {
			// Given a draft topic between Oceans and Deep sea
			f := &topicFilter{ParentID: ptr(int64(1)), Recursive: true, Status: []string{"PUB"}}

			// When
			page, err := engine.FindByFilter(ctx, f, Unpaged(SortBy("id")))

			// Then Deep sea is unreachable
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(page)).To(Equal([]int64{2, 4, 5}))
		})

		It("should terminate on cyclic hierarchies", func() {
			// Arrange
			insertTopic(ctx, db, 8, 9, "Loop a", "PUB")
			insertTopic(ctx, db, 9, 8, "Loop b", "PUB")
			cyclic, err := NewEngine[topicFilter, topicRow](db, DuckDB, topicCategory(), WithMaxRecursionDepth(8))
			Expect(err).NotTo(HaveOccurred())

			// Act
			page, err := cyclic.FindByFilter(ctx, &topicFilter{ParentID: ptr(int64(8)), Recursive: true}, Unpaged(SortBy("id")))

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(ids(page)).To(Equal([]int64{8, 9}))
		})
	})

	Context("full-text", func() {
		It("should match plain text case-insensitively", func() {
			page, err := engine.FindByFilter(ctx, &topicFilter{Text: "SEA"}, Unpaged(SortBy("id")))

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(page)).To(Equal([]int64{4, 6}))
		})

		It("should evaluate advanced terms", func() {
			page, err := engine.FindByFilter(ctx, &topicFilter{Text: "+sea -deep", Advanced: true}, Unpaged(SortBy("id")))

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(page)).To(Equal([]int64{4}))
		})

		It("should require one optional term when nothing is required", func() {
			page, err := engine.FindByFilter(ctx, &topicFilter{Text: "glaciers economics", Advanced: true}, Unpaged(SortBy("id")))

			Expect(err).NotTo(HaveOccurred())
			Expect(ids(page)).To(Equal([]int64{5, 7}))
		})

		It("should reuse the cached pair for repeated advanced queries", func() {
			// Arrange
			hits := testutil.ToFloat64(CacheHits("topic"))
			f := &topicFilter{Text: "+sea", Advanced: true}

			// Act
			_, err := engine.FindByFilter(ctx, f, PageOf(0, 2, SortBy("label")))
			Expect(err).NotTo(HaveOccurred())
			_, err = engine.FindByFilter(ctx, &topicFilter{Text: "+coral", Advanced: true}, PageOf(0, 2, SortBy("label")))
			Expect(err).NotTo(HaveOccurred())

			// Assert
			Expect(engine.Cache().Len()).To(Equal(1))
			Expect(testutil.ToFloat64(CacheHits("topic")) - hits).To(Equal(1.0))
		})

		It("should serve concurrent first-time requests with one cache entry", func() {
			var wg sync.WaitGroup
			results := make([][]int64, 2)
			errs := make([]error, 2)
			for i, text := range []string{"sea", "reef"} {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					page, err := engine.FindByFilter(ctx, &topicFilter{Text: text}, Unpaged(SortBy("id")))
					results[i], errs[i] = ids(page), err
				}()
			}
			wg.Wait()

			Expect(errs).To(HaveEach(BeNil()))
			Expect(results[0]).To(Equal([]int64{4, 6}))
			Expect(results[1]).To(Equal([]int64{3}))
			Expect(engine.Cache().Len()).To(Equal(1))
		})

		It("should share one COUNT statement across sort variants", func() {
			f := &topicFilter{Status: []string{"PUB"}}

			byLabel, err := engine.FindByFilter(ctx, f, PageOf(0, 2, SortBy("label")))
			Expect(err).NotTo(HaveOccurred())
			byID, err := engine.FindByFilter(ctx, f, PageOf(0, 2, SortBy("id").Desc()))
			Expect(err).NotTo(HaveOccurred())

			Expect(byLabel.TotalElements).To(Equal(byID.TotalElements))
			Expect(engine.Cache().Len()).To(Equal(2))
			Expect(engine.Cache().CountLen()).To(Equal(1))
		})
	})

	It("should narrow anonymous callers to published topics", func() {
		anon, err := NewEngine[topicFilter, topicRow](db, DuckDB, topicCategory(), WithIdentity(anonymous))
		Expect(err).NotTo(HaveOccurred())

		page, err := anon.FindByFilter(ctx, nil, Unpaged(SortBy("id")))

		Expect(err).NotTo(HaveOccurred())
		Expect(ids(page)).NotTo(ContainElement(int64(3)))
		Expect(page.TotalElements).To(Equal(int64(6)))
	})

	It("should not cache statements the store rejects", func() {
		// Arrange
		category := topicCategory()
		category.Sorts["broken"] = SortColumn{Expr: "t.no_such_column"}
		broken, err := NewEngine[topicFilter, topicRow](db, DuckDB, category, WithStatementValidation(true))
		Expect(err).NotTo(HaveOccurred())
		failures := testutil.ToFloat64(CompileErrors("topic"))

		// Act
		_, err = broken.FindByFilter(ctx, nil, Unpaged(SortBy("broken")))

		// Assert
		Expect(srvErrors.IsQueryError(err)).To(BeTrue())
		Expect(broken.Cache().Len()).To(Equal(0))
		Expect(testutil.ToFloat64(CompileErrors("topic")) - failures).To(Equal(1.0))
	})
})
