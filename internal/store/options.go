package store

import "github.com/evidentia/evidence-store/pkg/query"

type storeOptions struct {
	identity query.IdentityProvider
	validate bool
	maxDepth int
}

// Option configures the category engines of a Store.
type Option func(*storeOptions)

// WithIdentity sets how stores tell anonymous callers apart. Every caller is
// authenticated otherwise.
func WithIdentity(p query.IdentityProvider) Option {
	return func(o *storeOptions) {
		o.identity = p
	}
}

// WithStatementValidation prepares every newly composed statement once before it is cached.
func WithStatementValidation(enabled bool) Option {
	return func(o *storeOptions) {
		o.validate = enabled
	}
}

func WithMaxRecursionDepth(depth int) Option {
	return func(o *storeOptions) {
		o.maxDepth = depth
	}
}

func (o storeOptions) engineOptions() []query.EngineOption {
	return []query.EngineOption{
		query.WithIdentity(o.identity),
		query.WithStatementValidation(o.validate),
		query.WithMaxRecursionDepth(o.maxDepth),
	}
}
