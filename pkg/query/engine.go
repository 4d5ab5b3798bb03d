package query

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	srvErrors "github.com/evidentia/evidence-store/pkg/errors"
)

// DefaultMaxRecursionDepth bounds hierarchy traversal when not configured.
const DefaultMaxRecursionDepth = 64

// IdentityProvider tells whether the caller behind ctx is anonymous.
type IdentityProvider interface {
	IsAnonymous(ctx context.Context) bool
}

// IdentityFunc adapts a function to IdentityProvider.
type IdentityFunc func(ctx context.Context) bool

func (f IdentityFunc) IsAnonymous(ctx context.Context) bool {
	return f(ctx)
}

// Authenticated treats every caller as authenticated.
var Authenticated = IdentityFunc(func(context.Context) bool { return false })

type engineOptions struct {
	cache    *Cache
	identity IdentityProvider
	validate bool
	maxDepth int
}

type EngineOption func(*engineOptions)

// WithCache injects the compiled query cache; each engine gets its own otherwise.
func WithCache(c *Cache) EngineOption {
	return func(o *engineOptions) {
		o.cache = c
	}
}

func WithIdentity(p IdentityProvider) EngineOption {
	return func(o *engineOptions) {
		o.identity = p
	}
}

// WithStatementValidation prepares new statements against the store before caching them.
func WithStatementValidation(enabled bool) EngineOption {
	return func(o *engineOptions) {
		o.validate = enabled
	}
}

func WithMaxRecursionDepth(depth int) EngineOption {
	return func(o *engineOptions) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// Engine answers filtered, paged list requests for one category.
type Engine[F any, T any] struct {
	db       Querier
	dialect  Dialect
	category *Category[F, T]
	opts     engineOptions
	logger   *zap.SugaredLogger
}

func NewEngine[F any, T any](db Querier, dialect Dialect, category *Category[F, T], opts ...EngineOption) (*Engine[F, T], error) {
	if err := category.check(); err != nil {
		return nil, err
	}
	if dialect.Text == nil || dialect.Placeholders == nil {
		return nil, fmt.Errorf("dialect %q is incomplete", dialect.Name)
	}

	o := engineOptions{identity: Authenticated, maxDepth: DefaultMaxRecursionDepth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache == nil {
		o.cache = NewCache()
	}

	return &Engine[F, T]{
		db:       db,
		dialect:  dialect,
		category: category,
		opts:     o,
		logger:   zap.S().Named("query").With("category", category.Name),
	}, nil
}

func (e *Engine[F, T]) Category() *Category[F, T] {
	return e.category
}

func (e *Engine[F, T]) Cache() *Cache {
	return e.opts.cache
}

// FindByFilter returns the page of records matching filter. A nil filter matches
// everything the caller may see.
func (e *Engine[F, T]) FindByFilter(ctx context.Context, filter *F, pageable Pageable) (Page[T], error) {
	f, shape, err := e.Classify(ctx, filter, pageable)
	if err != nil {
		return Page[T]{}, err
	}

	params, err := e.bind(f, shape)
	if err != nil {
		return Page[T]{}, err
	}

	pair, err := e.compile(ctx, shape)
	if err != nil {
		return Page[T]{}, err
	}

	defer observe(e.category.Name, time.Now())
	return execute(ctx, e.db, e.dialect, pair, params, pageable, e.category.Scan)
}

// Compile returns the statement pair serving filter and pageable, compiling it on
// first use, along with the parameters it would be bound to.
func (e *Engine[F, T]) Compile(ctx context.Context, filter *F, pageable Pageable) (*Pair, Params, error) {
	f, shape, err := e.Classify(ctx, filter, pageable)
	if err != nil {
		return nil, nil, err
	}
	params, err := e.bind(f, shape)
	if err != nil {
		return nil, nil, err
	}
	pair, err := e.compile(ctx, shape)
	if err != nil {
		return nil, nil, err
	}
	return pair, params, nil
}

// Classify narrows and validates the request and derives its shape. The returned
// filter is the effective one; the caller's filter is never modified.
func (e *Engine[F, T]) Classify(ctx context.Context, filter *F, pageable Pageable) (*F, Shape, error) {
	var f F
	if filter != nil {
		f = *filter
	}

	narrowed := false
	if e.category.Secured && e.opts.identity.IsAnonymous(ctx) {
		e.category.Narrow(&f)
		narrowed = true
	}

	if err := pageable.Validate(); err != nil {
		return nil, Shape{}, err
	}
	if e.category.Validate != nil {
		if err := e.category.Validate(&f); err != nil {
			return nil, Shape{}, err
		}
	}

	shape, err := e.classify(&f, pageable, narrowed)
	if err != nil {
		return nil, Shape{}, err
	}
	return &f, shape, nil
}

// classify derives the shape of an effective filter. An active exclusive predicate
// suppresses the others, except for the status predicate of a narrowed request.
func (e *Engine[F, T]) classify(f *F, pageable Pageable, narrowed bool) (Shape, error) {
	shape := Shape{
		Category: e.category.Name,
		Paged:    pageable.IsPaged(),
		variants: make(map[string]string),
	}

	exclusive := false
	for _, p := range e.category.Predicates {
		if !p.exclusive {
			continue
		}
		if ok, _ := p.classify(f); ok {
			exclusive = true
			break
		}
	}

	for _, p := range e.category.Predicates {
		if exclusive && !p.exclusive && !(narrowed && p.token == "status") {
			continue
		}
		ok, variant := p.classify(f)
		if !ok {
			continue
		}
		shape.variants[p.token] = variant
		token := p.token
		if variant != "" {
			token += ":" + variant
		}
		shape.Tokens = append(shape.Tokens, token)
	}

	sort := make([]Order, 0, len(pageable.Sort)+1)
	for _, o := range pageable.Sort {
		col, err := e.category.sortColumn(o.Property)
		if err != nil {
			return Shape{}, err
		}
		if o.IgnoreCase && !col.Text {
			return Shape{}, srvErrors.NewInvalidArgumentError("sort",
				fmt.Sprintf("ignoreCase requires a text property, %q of %s is not", o.Property, e.category.Name))
		}
		sort = append(sort, o.normalized())
	}

	key := e.category.keyProperty()
	if shape.Paged && shape.HasText() && e.dialect.Text.JoinsIndex() && !pageable.sortsBy(key) {
		sort = append(sort, SortBy(key))
	}
	shape.Sort = sort

	return shape, nil
}

func (e *Engine[F, T]) bind(f *F, shape Shape) (Params, error) {
	params := make(Params)
	for _, p := range e.category.Predicates {
		if !shape.Has(p.token) {
			continue
		}
		if err := p.bind(f, e.dialect, shape.Variant(p.token), params); err != nil {
			return nil, err
		}
	}
	return params, nil
}

func (e *Engine[F, T]) compile(ctx context.Context, shape Shape) (*Pair, error) {
	var validate ValidateFunc
	if e.opts.validate {
		if p, ok := e.db.(Preparer); ok {
			validate = preparingValidator(ctx, p)
		}
	}

	key := shape.Key()
	pair, hit, err := e.opts.cache.GetOrCompile(key, shape.CountKey(), func() (string, string, error) {
		return e.category.compose(shape, e.dialect, e.opts.maxDepth)
	}, validate)
	if err != nil {
		CompileErrors(e.category.Name).Inc()
		if srvErrors.IsInvalidArgumentError(err) {
			return nil, err
		}
		return nil, srvErrors.NewQueryError(e.category.Name, key, err)
	}

	if hit {
		CacheHits(e.category.Name).Inc()
	} else {
		CacheMisses(e.category.Name).Inc()
		e.logger.Debugw("compiled statement pair", "key", key)
	}
	return pair, nil
}
