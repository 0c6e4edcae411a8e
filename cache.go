package reform

import (
	"fmt"
	"sync"
)

// onceCache provides thread-safe, build-once caching of compiled values.
// The factory for a key runs at most once, even under concurrent access;
// every caller for that key observes the same fully built value or error.
type onceCache[K comparable, V any] struct {
	cache sync.Map // map[K]*cacheEntry[V]
}

// cacheEntry holds the cached value for a single key
type cacheEntry[V any] struct {
	once  sync.Once
	value V
	err   error
}

// newOnceCache creates a new thread-safe cache
func newOnceCache[K comparable, V any]() *onceCache[K, V] {
	return &onceCache[K, V]{}
}

// GetOrCreate returns the value for key, building it with factory if it
// doesn't exist. Concurrent callers for the same key wait for the first
// build to finish.
func (oc *onceCache[K, V]) GetOrCreate(key K, factory func() (V, error)) (V, error) {
	v, ok := oc.cache.Load(key)
	if !ok {
		// LoadOrStore returns the actual stored value
		v, _ = oc.cache.LoadOrStore(key, &cacheEntry[V]{})
	}
	entry := v.(*cacheEntry[V])

	entry.once.Do(func() {
		// A panicking factory still completes the Once; keep the panic as
		// the entry's error so later callers never see a zero value.
		defer func() {
			if r := recover(); r != nil {
				entry.err = fmt.Errorf("%w: %v", ErrCompilePanic, r)
			}
		}()
		entry.value, entry.err = factory()
	})
	return entry.value, entry.err
}

// Clear removes all cache entries
func (oc *onceCache[K, V]) Clear() {
	oc.cache.Range(func(key, _ any) bool {
		oc.cache.Delete(key)
		return true
	})
}

// Len returns the number of cached keys
func (oc *onceCache[K, V]) Len() int {
	n := 0
	oc.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
