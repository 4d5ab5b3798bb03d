package services_test

import (
	"context"
	"database/sql"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/evidentia/evidence-store/internal/models"
	"github.com/evidentia/evidence-store/internal/services"
	"github.com/evidentia/evidence-store/internal/store"
	"github.com/evidentia/evidence-store/pkg/query"
	"github.com/evidentia/evidence-store/pkg/scheduler"
	"github.com/evidentia/evidence-store/test"
)

var _ = Describe("IndexService", func() {
	var (
		ctx   context.Context
		db    *sql.DB
		st    *store.Store
		sched *scheduler.Scheduler
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = test.NewFixtureDB(ctx)
		Expect(err).NotTo(HaveOccurred())
		st = store.NewStore(db, query.DuckDB)
		sched = scheduler.NewScheduler(1)
	})

	AfterEach(func() {
		sched.Close()
		db.Close()
	})

	It("should rebuild on demand and report the outcome", func() {
		srv := services.NewIndexService(sched, st.SearchIndex(), 0)
		Expect(srv.GetStatus().State).To(Equal(models.IndexStateReady))

		rows, err := srv.Rebuild(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(Equal(int64(37)))

		status := srv.GetStatus()
		Expect(status.State).To(Equal(models.IndexStateReady))
		Expect(status.Rows).To(Equal(int64(37)))
		Expect(status.LastRebuild).NotTo(BeNil())
	})

	It("should pick up new records on the next refresh", func() {
		// Given a refresher running every few milliseconds
		srv := services.NewIndexService(sched, st.SearchIndex(), 20*time.Millisecond)
		srv.Start()
		defer srv.Stop()

		// When a claim is added behind the index's back
		_, err := db.ExecContext(ctx, "INSERT INTO entity (id, dtype, status) VALUES (45, 'CLA', 'PUB')")
		Expect(err).NotTo(HaveOccurred())
		_, err = db.ExecContext(ctx, "INSERT INTO claim (id, text) VALUES (45, 'Permafrost is thawing')")
		Expect(err).NotTo(HaveOccurred())

		// Then it becomes searchable
		Eventually(func() int64 {
			page, err := st.Claims().List(ctx, &models.TrackedFilter{Text: "permafrost"}, query.Unpaged())
			if err != nil {
				return -1
			}
			return page.TotalElements
		}).WithTimeout(2 * time.Second).Should(Equal(int64(1)))
		Expect(srv.GetStatus().Rows).To(BeNumerically(">=", 38))
	})

	It("should stay idle without an index relation", func() {
		srv := services.NewIndexService(sched, store.NewStore(db, query.MySQL).SearchIndex(), time.Millisecond)
		Expect(srv.GetStatus().State).To(Equal(models.IndexStateDisabled))

		srv.Start()
		srv.Stop()

		rows, err := srv.Rebuild(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeZero())
	})

	It("should report a failed rebuild", func() {
		srv := services.NewIndexService(sched, st.SearchIndex(), 0)
		_, err := db.ExecContext(ctx, "DROP TABLE fulltext_index")
		Expect(err).NotTo(HaveOccurred())

		_, err = srv.Rebuild(ctx)
		Expect(err).To(HaveOccurred())
		Expect(srv.GetStatus().State).To(Equal(models.IndexStateError))
	})
})
