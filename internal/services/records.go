package services

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	v1 "github.com/evidentia/evidence-store/api/v1"
	"github.com/evidentia/evidence-store/internal/store"
	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
	"github.com/evidentia/evidence-store/pkg/query"
)

// Explanation is the statement pair serving a request along with the parameters
// it would be bound to.
type Explanation struct {
	Category string
	// Record is the engine category the statements were composed for.
	Record   string
	Key      string
	CountKey string
	Count    string
	Select   string
	Params   query.Params
}

// Category serves one record category from request query parameters, returning
// API records.
type Category struct {
	Name string
	// Record names the records served, as the store knows them.
	Record string
	// Authenticated categories refuse anonymous callers.
	Authenticated bool

	list    func(ctx context.Context, q url.Values, p query.Pageable) (query.Page[any], error)
	compile func(ctx context.Context, q url.Values, p query.Pageable) (*query.Pair, query.Params, error)
	get     func(ctx context.Context, id int64) (any, error)
	lookup  func(ctx context.Context, ids []int64) ([]any, error)
}

func newCategory[F any, T any, D any](name string, st *store.CategoryStore[F, T], bind func(url.Values) (*F, error), convert func(T) D) *Category {
	toAPI := func(t T) any { return convert(t) }

	return &Category{
		Name:   name,
		Record: st.Name(),
		list: func(ctx context.Context, q url.Values, p query.Pageable) (query.Page[any], error) {
			f, err := bind(q)
			if err != nil {
				return query.Page[any]{}, err
			}
			page, err := st.List(ctx, f, p)
			if err != nil {
				return query.Page[any]{}, err
			}
			return query.MapPage(page, toAPI), nil
		},
		compile: func(ctx context.Context, q url.Values, p query.Pageable) (*query.Pair, query.Params, error) {
			f, err := bind(q)
			if err != nil {
				return nil, nil, err
			}
			return st.Engine().Compile(ctx, f, p)
		},
		get: func(ctx context.Context, id int64) (any, error) {
			t, err := st.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			return toAPI(t), nil
		},
		lookup: func(ctx context.Context, ids []int64) ([]any, error) {
			ts, err := st.FindByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			out := make([]any, 0, len(ts))
			for _, t := range ts {
				out = append(out, toAPI(t))
			}
			return out, nil
		},
	}
}

// withoutIdentity drops the single record operations of categories whose rows
// aren't addressed by id.
func (c *Category) withoutIdentity() *Category {
	c.get = nil
	c.lookup = nil
	return c
}

func (c *Category) authenticated() *Category {
	c.Authenticated = true
	return c
}

// HasIdentity reports whether records of the category can be fetched by id.
func (c *Category) HasIdentity() bool {
	return c.get != nil
}

// List returns the page of records matching the filter parameters in q.
func (c *Category) List(ctx context.Context, q url.Values, p query.Pageable) (query.Page[any], error) {
	return c.list(ctx, q, p)
}

// Get returns the record with id.
func (c *Category) Get(ctx context.Context, id int64) (any, error) {
	if c.get == nil {
		return nil, srvErrors.NewResourceNotFoundError(c.Name, fmt.Sprint(id))
	}
	return c.get(ctx, id)
}

// Lookup returns the visible records among ids, ordered by id.
func (c *Category) Lookup(ctx context.Context, ids []int64) ([]any, error) {
	if c.lookup == nil {
		return nil, srvErrors.NewInvalidArgumentError("ids", fmt.Sprintf("%s records have no identity", c.Name))
	}
	return c.lookup(ctx, ids)
}

// Explain compiles the statement pair for the request without executing it.
func (c *Category) Explain(ctx context.Context, q url.Values, p query.Pageable) (*Explanation, error) {
	pair, params, err := c.compile(ctx, q, p)
	if err != nil {
		return nil, err
	}
	return &Explanation{
		Category: c.Name,
		Record:   c.Record,
		Key:      pair.Key,
		CountKey: pair.CountKey,
		Count:    pair.Count.SQL,
		Select:   pair.Select.SQL,
		Params:   params,
	}, nil
}

// RecordService resolves categories by their API name.
type RecordService struct {
	categories map[string]*Category
	names      []string
	logger     *zap.SugaredLogger
}

func NewRecordService(st *store.Store) *RecordService {
	srv := &RecordService{
		categories: make(map[string]*Category),
		logger:     zap.S().Named("record_service"),
	}

	srv.register(
		newCategory("claims", st.Claims(), v1.BindTrackedFilter, v1.NewClaim),
		newCategory("declarations", st.Declarations(), v1.BindTrackedFilter, v1.NewDeclaration),
		newCategory("persons", st.Persons(), v1.BindTrackedFilter, v1.NewPerson),
		newCategory("publications", st.Publications(), v1.BindTrackedFilter, v1.NewPublication),
		newCategory("quotations", st.Quotations(), v1.BindTrackedFilter, v1.NewQuotation),
		newCategory("users", st.Users(), v1.BindTrackedFilter, v1.NewUser),
		newCategory("journals", st.Journals(), v1.BindReferenceFilter, v1.NewJournal),
		newCategory("publishers", st.Publishers(), v1.BindReferenceFilter, v1.NewPublisher),
		newCategory("topics", st.Topics(), v1.BindTopicFilter, v1.NewTopic),
		newCategory("links", st.EntityLinks(), v1.BindEntityLinkFilter, v1.NewEntityLink),
		newCategory("topic-refs", st.TopicRefs(), v1.BindTopicRefFilter, v1.NewTopicRef),
		newCategory("logs", st.Logs(), v1.BindLogFilter, v1.NewLog).authenticated(),
		newCategory("statistics", st.Statistics(), v1.BindStatisticsFilter, v1.NewStatistics).withoutIdentity(),
	)

	return srv
}

func (s *RecordService) register(categories ...*Category) {
	for _, c := range categories {
		s.categories[c.Name] = c
		s.names = append(s.names, c.Name)
	}
}

// Categories returns the categories in registration order.
func (s *RecordService) Categories() []*Category {
	out := make([]*Category, 0, len(s.names))
	for _, n := range s.names {
		out = append(out, s.categories[n])
	}
	return out
}

// Category returns the category served under name.
func (s *RecordService) Category(name string) (*Category, error) {
	c, ok := s.categories[name]
	if !ok {
		return nil, srvErrors.NewResourceNotFoundError("category", name)
	}
	return c, nil
}

// List is a shorthand for Category(name).List.
func (s *RecordService) List(ctx context.Context, name string, q url.Values, p query.Pageable) (query.Page[any], error) {
	c, err := s.Category(name)
	if err != nil {
		return query.Page[any]{}, err
	}

	page, err := c.List(ctx, q, p)
	if err != nil {
		return query.Page[any]{}, err
	}
	s.logger.Debugw("listed records", "category", name, "total", page.TotalElements, "page", p.Page, "size", p.Size)
	return page, nil
}
