// Package appctx provides call-scoped memoization for orchestration services.
//
// RequestContext extends Go's context.Context with an in-memory cache so that
// one operation fetching the same data repeatedly (a feed resolving the same
// user for every action, for example) pays for it once:
//
//	rc := appctx.New(ctx)
//
//	user, err := appctx.GetOrFetch(rc, "user:u1", fetchUser)
//
// A new RequestContext is created per operation and must not be shared
// between concurrent callers.
package appctx

import (
	"context"
	"errors"
	"fmt"
)

// ErrTypeMismatch is returned by GetOrFetch when a cached value's type does
// not match the requested type T. This indicates a programming error where
// the same cache key is used with different types.
var ErrTypeMismatch = errors.New("appctx: cached value type mismatch")

// RequestContext is a call-scoped context wrapper providing in-memory
// caching. It embeds context.Context and adds memoization via GetOrFetch.
//
// It is NOT safe for concurrent use from multiple goroutines.
type RequestContext struct {
	context.Context
	cache  map[string]cacheEntry
	misses int
}

// cacheEntry stores the result of a GetOrFetch call, including any error.
// Both successful results and errors are cached to prevent redundant calls
// within the same operation.
type cacheEntry struct {
	value any
	err   error
}

// New creates a RequestContext wrapping the given context.Context.
func New(ctx context.Context) *RequestContext {
	return &RequestContext{
		Context: ctx,
		cache:   make(map[string]cacheEntry),
	}
}

// GetOrFetch returns a cached value for the given key, or calls fetchFn to
// fetch and cache it. Both successful results and errors are cached.
//
// The same key must always be used with the same type T. If a cached value
// exists but its type does not match T, GetOrFetch returns ErrTypeMismatch.
// Use DataProvider for type-safe, reusable fetch bindings that prevent this.
func GetOrFetch[T any](rc *RequestContext, key string, fetchFn func(ctx context.Context) (T, error)) (T, error) {
	if entry, ok := rc.cache[key]; ok {
		if entry.err != nil {
			var zero T
			return zero, entry.err
		}
		v, ok := entry.value.(T)
		if !ok {
			var zero T
			return zero, fmt.Errorf("%w: key %q holds %T, requested %T", ErrTypeMismatch, key, entry.value, zero)
		}
		return v, nil
	}

	rc.misses++
	val, err := fetchFn(rc.Context)
	rc.cache[key] = cacheEntry{value: val, err: err}
	return val, err
}

// Put stores value under key, replacing any cached entry. Later GetOrFetch
// calls for key return value without fetching.
func (rc *RequestContext) Put(key string, value any) {
	rc.cache[key] = cacheEntry{value: value}
}

// Fetches returns how many GetOrFetch calls missed the cache.
func (rc *RequestContext) Fetches() int {
	return rc.misses
}

// DataProvider is a type-safe wrapper around GetOrFetch for a specific data
// type. It binds a cache key and fetch function together.
type DataProvider[T any] struct {
	key     string
	fetchFn func(ctx context.Context) (T, error)
}

// NewDataProvider creates a DataProvider with the given cache key and fetch
// function.
func NewDataProvider[T any](key string, fetchFn func(ctx context.Context) (T, error)) *DataProvider[T] {
	return &DataProvider[T]{key: key, fetchFn: fetchFn}
}

// Get returns the cached value or fetches it using the provider's fetch
// function.
func (p *DataProvider[T]) Get(rc *RequestContext) (T, error) {
	return GetOrFetch(rc, p.key, p.fetchFn)
}
