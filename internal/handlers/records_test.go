package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	v1 "github.com/evidentia/evidence-store/api/v1"
	"github.com/evidentia/evidence-store/internal/auth"
	"github.com/evidentia/evidence-store/internal/handlers"
	"github.com/evidentia/evidence-store/internal/services"
	"github.com/evidentia/evidence-store/internal/store"
	"github.com/evidentia/evidence-store/pkg/query"
	"github.com/evidentia/evidence-store/test"
)

type page struct {
	Content       []json.RawMessage `json:"content"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
	Number        int               `json:"number"`
	Size          int               `json:"size"`
	HasNext       bool              `json:"hasNext"`
}

func ids(p page) []int64 {
	out := make([]int64, 0, len(p.Content))
	for _, raw := range p.Content {
		var e struct {
			Id int64 `json:"id"`
		}
		Expect(json.Unmarshal(raw, &e)).To(Succeed())
		out = append(out, e.Id)
	}
	return out
}

var _ = Describe("Record Handlers", func() {
	var (
		db      *sql.DB
		handler *handlers.Handler
	)

	newRouter := func(p *auth.Principal) *gin.Engine {
		router := gin.New()
		group := router.Group("/api/v1")
		if p != nil {
			group.Use(as(*p))
		}
		handler.RegisterRoutes(group)
		return router
	}

	get := func(router *gin.Engine, target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w
	}

	decode := func(w *httptest.ResponseRecorder) page {
		var p page
		Expect(json.Unmarshal(w.Body.Bytes(), &p)).To(Succeed())
		return p
	}

	alice := &auth.Principal{Username: "alice"}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		ctx := context.Background()

		var err error
		db, err = test.NewFixtureDB(ctx)
		Expect(err).NotTo(HaveOccurred())

		st := store.NewStore(db, query.DuckDB, store.WithIdentity(auth.Identity{}))
		handler = handlers.New(
			v1.PageDefaults{Size: 2, MaxSize: 3},
			services.NewRecordService(st),
			&MockStatisticsService{},
			&MockIndexService{},
		)
	})

	AfterEach(func() {
		db.Close()
	})

	Describe("ListRecords", func() {
		It("should page with the default size", func() {
			w := get(newRouter(alice), "/api/v1/claims?sort=id")

			Expect(w.Code).To(Equal(http.StatusOK))
			p := decode(w)
			Expect(ids(p)).To(Equal([]int64{40, 41}))
			Expect(p.TotalElements).To(Equal(int64(5)))
			Expect(p.TotalPages).To(Equal(3))
			Expect(p.HasNext).To(BeTrue())
		})

		It("should cap the page size", func() {
			w := get(newRouter(alice), "/api/v1/claims?size=50&page=1&sort=id")

			Expect(w.Code).To(Equal(http.StatusOK))
			p := decode(w)
			Expect(p.Size).To(Equal(3))
			Expect(ids(p)).To(Equal([]int64{43, 44}))
		})

		It("should only show published records to anonymous callers", func() {
			w := get(newRouter(nil), "/api/v1/claims?unpaged=true&sort=id")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(ids(decode(w))).To(Equal([]int64{40, 42, 43}))
		})

		It("should filter by topic subtree", func() {
			w := get(newRouter(alice), "/api/v1/claims?topicId=11&recursive=true&unpaged=true&sort=id")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(ids(decode(w))).To(Equal([]int64{40, 41, 43}))
		})

		It("should search text", func() {
			w := get(newRouter(alice), "/api/v1/publications?text=coral")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(ids(decode(w))).To(Equal([]int64{61}))
		})

		DescribeTable("should reject malformed requests with 400",
			func(target string) {
				w := get(newRouter(alice), target)
				Expect(w.Code).To(Equal(http.StatusBadRequest))

				var e v1.Error
				Expect(json.Unmarshal(w.Body.Bytes(), &e)).To(Succeed())
				Expect(e.Error).To(ContainSubstring("invalid argument"))
			},
			Entry("unknown sort property", "/api/v1/claims?sort=color"),
			Entry("bad direction", "/api/v1/claims?sort=id,up"),
			Entry("negative page", "/api/v1/claims?page=-1"),
			Entry("unknown status", "/api/v1/claims?status=LOST"),
			Entry("both link sides", "/api/v1/claims?fromEntityId=60&toEntityId=42"),
			Entry("ignoring case on a number", "/api/v1/claims?sort=rating,desc,ignoreCase"),
			Entry("ignoring case on a date", "/api/v1/logs?sort=timestamp,ignoreCase"),
			Entry("master id without kind", "/api/v1/topic-refs?masterEntityId=40"),
			Entry("malformed advanced search", "/api/v1/claims?text=%22open&advanced=true"),
		)

		It("should refuse anonymous callers on logs", func() {
			w := get(newRouter(nil), "/api/v1/logs")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should list logs for authenticated callers", func() {
			w := get(newRouter(alice), "/api/v1/logs?entityId=40&sort=id")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w).TotalElements).To(Equal(int64(2)))
		})

		It("should list statistics groups", func() {
			w := get(newRouter(nil), "/api/v1/statistics?unpaged=true")

			Expect(w.Code).To(Equal(http.StatusOK))
			var p struct {
				Content []v1.Statistics `json:"content"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &p)).To(Succeed())
			for _, g := range p.Content {
				Expect(g.Status).To(Equal("PUB"))
			}
		})
	})

	Describe("GetRecord", func() {
		It("should return the record", func() {
			w := get(newRouter(alice), "/api/v1/topics/12")

			Expect(w.Code).To(Equal(http.StatusOK))
			var t v1.Topic
			Expect(json.Unmarshal(w.Body.Bytes(), &t)).To(Succeed())
			Expect(t.Label).To(Equal("Coral reefs"))
			Expect(*t.ParentId).To(Equal(int64(11)))
		})

		It("should hide drafts from anonymous callers", func() {
			w := get(newRouter(nil), "/api/v1/topics/12")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should reject a non numeric id", func() {
			w := get(newRouter(alice), "/api/v1/topics/abc")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should not route statistics by id", func() {
			w := get(newRouter(alice), "/api/v1/statistics/1")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("LookupRecords", func() {
		It("should return the visible records among ids", func() {
			w := get(newRouter(nil), "/api/v1/persons/lookup?ids=52,50&ids=51")

			Expect(w.Code).To(Equal(http.StatusOK))
			var persons []v1.Person
			Expect(json.Unmarshal(w.Body.Bytes(), &persons)).To(Succeed())
			Expect(persons).To(HaveLen(2))
			Expect(persons[0].LastName).To(Equal("Hansen"))
			Expect(persons[1].LastName).To(Equal("Mann"))
		})

		It("should reject a malformed id", func() {
			w := get(newRouter(alice), "/api/v1/persons/lookup?ids=50,x")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Explain", func() {
		It("should return the composed statements", func() {
			w := get(newRouter(alice), "/api/v1/explain/topics?parentId=10&recursive=true&sort=label")

			Expect(w.Code).To(Equal(http.StatusOK))
			var e v1.Explanation
			Expect(json.Unmarshal(w.Body.Bytes(), &e)).To(Succeed())
			Expect(e.Category).To(Equal("topics"))
			Expect(e.Record).To(Equal("topic"))
			Expect(e.Select).To(HavePrefix("WITH RECURSIVE"))
			Expect(e.Count).To(ContainSubstring("COUNT(*)"))
			Expect(e.Params).To(HaveKey("parentId"))
		})

		It("should require authentication", func() {
			w := get(newRouter(nil), "/api/v1/explain/topics")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 404 for an unknown category", func() {
			w := get(newRouter(alice), "/api/v1/explain/widgets")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GetCategories", func() {
		It("should list the category names", func() {
			w := get(newRouter(nil), "/api/v1/categories")

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"topic-refs"`))
		})
	})
})
