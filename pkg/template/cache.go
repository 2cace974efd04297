package template

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"weak"

	"golang.org/x/sync/singleflight"
)

// Source produces values by key.
type Source[T any] interface {
	TryGet(key string) (*T, bool)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[T any] func(key string) (*T, bool)

// TryGet calls f.
func (f SourceFunc[T]) TryGet(key string) (*T, bool) {
	return f(key)
}

// Cache memoizes a Source. Entries are held weakly and disappear once the
// garbage collector reclaims the value, so a later lookup may compute the
// value again. Concurrent misses for one key share a single computation.
// A Cache is safe for concurrent use.
type Cache[T any] struct {
	source  Source[T]
	entries sync.Map // string -> weak.Pointer[T]
	group   singleflight.Group

	hits, misses atomic.Int64
}

// NewCache creates a cache in front of source.
func NewCache[T any](source Source[T]) *Cache[T] {
	return &Cache[T]{source: source}
}

// TryGet returns the cached value for key, computing it on a miss.
func (c *Cache[T]) TryGet(key string) (*T, bool) {
	if v, ok := c.load(key); ok {
		c.hits.Add(1)
		return v, true
	}
	c.misses.Add(1)
	Logger().Debug("template cache miss", slog.String("key", key))

	v, _, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.load(key); ok {
			return v, nil
		}
		v, ok := c.source.TryGet(key)
		if !ok || v == nil {
			return (*T)(nil), nil
		}
		wp := weak.Make(v)
		c.entries.Store(key, wp)
		runtime.AddCleanup(v, func(key string) {
			c.entries.CompareAndDelete(key, wp)
		}, key)
		return v, nil
	})
	p := v.(*T)
	return p, p != nil
}

func (c *Cache[T]) load(key string) (*T, bool) {
	e, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	v := e.(weak.Pointer[T]).Value()
	return v, v != nil
}

// Stats returns the number of hits and misses so far.
func (c *Cache[T]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Cached wraps a grammar so that parsing the same text again returns the
// same breakdown while it is still referenced. Failed parses are not cached.
func Cached(g Grammar) Grammar {
	return &cachedGrammar{
		Grammar: g,
		cache: NewCache[Breakdown](SourceFunc[Breakdown](func(text string) (*Breakdown, bool) {
			b, err := g.Parse(text)
			return b, err == nil
		})),
	}
}

type cachedGrammar struct {
	Grammar
	cache *Cache[Breakdown]
}

func (c *cachedGrammar) Parse(text string) (*Breakdown, error) {
	if b, ok := c.cache.TryGet(text); ok {
		return b, nil
	}
	return c.Grammar.Parse(text)
}
