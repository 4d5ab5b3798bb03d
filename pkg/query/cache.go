package query

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Pair is a compiled COUNT and SELECT sharing one WHERE clause.
type Pair struct {
	Key      string
	CountKey string
	Count    *Statement
	Select   *Statement
}

// ComposeFunc composes the COUNT and SELECT text of a shape.
type ComposeFunc func() (countSQL, selectSQL string, err error)

// ValidateFunc checks a freshly compiled statement against the store.
type ValidateFunc func(stmt *Statement) error

// Cache holds compiled statement pairs for the process lifetime. Lookups are lock
// free; check, compile and register run under the cache's mutex so a shape is
// composed once however many requests race for it. Entries are never evicted.
type Cache struct {
	mu     sync.Mutex
	pairs  sync.Map // select key -> *Pair
	counts sync.Map // count key -> *Statement
	size   atomic.Int64
	logger *zap.SugaredLogger
}

func NewCache() *Cache {
	return &Cache{logger: zap.S().Named("query_cache")}
}

// Lookup returns the pair registered under key.
func (c *Cache) Lookup(key string) (*Pair, bool) {
	v, ok := c.pairs.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*Pair), true
}

// GetOrCompile returns the pair registered under key, composing and registering it
// on first use. hit reports whether the pair was already registered. A failed
// composition or validation registers nothing.
func (c *Cache) GetOrCompile(key, countKey string, compose ComposeFunc, validate ValidateFunc) (pair *Pair, hit bool, err error) {
	if p, ok := c.Lookup(key); ok {
		return p, true, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.Lookup(key); ok {
		return p, true, nil
	}

	countSQL, selectSQL, err := compose()
	if err != nil {
		return nil, false, err
	}

	count, err := compileStatement(countSQL)
	if err != nil {
		return nil, false, err
	}
	sel, err := compileStatement(selectSQL)
	if err != nil {
		return nil, false, err
	}

	if validate != nil {
		if err := validate(count); err != nil {
			return nil, false, err
		}
		if err := validate(sel); err != nil {
			return nil, false, err
		}
	}

	// Sort variants of one predicate set share the COUNT entry; registering it
	// again replaces the previous statement.
	if prev, ok := c.counts.Load(countKey); ok && prev.(*Statement).SQL != countSQL {
		c.logger.Warnw("count statement redefined", "key", countKey)
	}
	c.counts.Store(countKey, count)

	pair = &Pair{Key: key, CountKey: countKey, Count: count, Select: sel}
	c.pairs.Store(key, pair)
	c.size.Add(1)

	return pair, false, nil
}

// Len returns the number of registered pairs.
func (c *Cache) Len() int {
	return int(c.size.Load())
}

// CountLen returns the number of registered COUNT statements.
func (c *Cache) CountLen() int {
	n := 0
	c.counts.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

