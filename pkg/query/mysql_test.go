package query

import (
	"context"
	"database/sql"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Engine on MySQL", func() {
	var (
		ctx    context.Context
		db     *sql.DB
		mock   sqlmock.Sqlmock
		engine *Engine[topicFilter, topicRow]
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		db, mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		Expect(err).NotTo(HaveOccurred())

		engine, err = NewEngine[topicFilter, topicRow](db, MySQL, topicCategory())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		db.Close()
	})

	It("should bind exactly the referenced parameters, paging SELECT only", func() {
		// Arrange
		where := "FROM topic t JOIN entity e ON e.id = t.id WHERE e.status IN (?, ?) AND MATCH (t.label, t.description) AGAINST (? IN BOOLEAN MODE)"
		mock.ExpectQuery("SELECT COUNT(*) "+where).
			WithArgs("PUB", "DRA", `+sea -deep "sea level"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
		mock.ExpectQuery("SELECT t.id, t.parent_id, t.label, e.status "+where+" ORDER BY t.label ASC LIMIT ? OFFSET ?").
			WithArgs("PUB", "DRA", `+sea -deep "sea level"`, int64(2), int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "parent_id", "label", "status"}).
				AddRow(int64(4), int64(2), "Sea level", "PUB"))

		f := &topicFilter{Status: []string{"PUB", "DRA"}, Text: `+sea -deep "sea   level"`, Advanced: true}

		// Act
		page, err := engine.FindByFilter(ctx, f, PageOf(1, 2, SortBy("label")))

		// Assert
		Expect(err).NotTo(HaveOccurred())
		Expect(ids(page)).To(Equal([]int64{4}))
		Expect(page.TotalElements).To(Equal(int64(3)))
		Expect(page.HasNext).To(BeFalse())
		Expect(page.HasPrevious).To(BeTrue())
	})

	It("should bind the recursive parent and every status reference", func() {
		cte := "WITH RECURSIVE sub_topic (id, depth) AS (" +
			"SELECT h.id, 1 FROM topic h JOIN entity he ON he.id = h.id WHERE h.parent_id = ? AND he.status IN (?) " +
			"UNION SELECT h.id, r.depth + 1 FROM topic h JOIN entity he ON he.id = h.id JOIN sub_topic r ON h.parent_id = r.id " +
			"WHERE he.status IN (?) AND r.depth < 64) "
		where := "FROM topic t JOIN entity e ON e.id = t.id WHERE e.status IN (?) AND t.id IN (SELECT id FROM sub_topic)"

		mock.ExpectQuery(cte+"SELECT COUNT(*) "+where).
			WithArgs(int64(7), "PUB", "PUB", "PUB").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(cte+"SELECT t.id, t.parent_id, t.label, e.status "+where).
			WithArgs(int64(7), "PUB", "PUB", "PUB").
			WillReturnRows(sqlmock.NewRows([]string{"id", "parent_id", "label", "status"}))

		page, err := engine.FindByFilter(ctx, &topicFilter{ParentID: ptr(int64(7)), Recursive: true, Status: []string{"PUB"}}, Unpaged())

		Expect(err).NotTo(HaveOccurred())
		Expect(page.Empty).To(BeTrue())
		Expect(page.TotalPages).To(Equal(1))
	})

	It("should propagate execution failures and return no partial page", func() {
		mock.ExpectQuery("SELECT COUNT(*) FROM topic t JOIN entity e ON e.id = t.id").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("SELECT t.id, t.parent_id, t.label, e.status FROM topic t JOIN entity e ON e.id = t.id").
			WillReturnError(sql.ErrConnDone)

		page, err := engine.FindByFilter(ctx, nil, Unpaged())

		Expect(err).To(MatchError(sql.ErrConnDone))
		Expect(page.Content).To(BeNil())
	})
})
