// Package cache provides a small key-value cache with LRU eviction and TTL
// support, used by the actor runtime to remember recently terminated actors
// and their exit reason for a bounded window without growing without limit.
//
// The package defines two interfaces:
//
//   - [Cache]: Untyped cache storing values as any
//   - [TypedCache]: Generic type-safe wrapper via [NewTyped]
//
// # Implementations
//
// [LRU] provides an in-memory LRU cache that is safe for concurrent use.
// It runs a background goroutine for cache operations, ensuring thread safety
// without external locking.
//
//	c := cache.NewLRU(cache.LRUOpts{Size: 1000})
//	defer c.Close()
//
//	c.Put("key", value, cache.WithTTL(5*time.Minute))
//	if val, ok := c.Get("key"); ok {
//	    // Use val
//	}
//
// # Type-Safe Usage
//
// Use [NewTyped] for compile-time type safety:
//
//	diag := cache.NewTyped[string](lruCache)
//	diag.Put("actor:42", "isolation violation")
//	if reason, ok := diag.Get("actor:42"); ok {
//	    // reason is a string, no type assertion needed
//	}
//
// # TTL Support
//
// Use [WithTTL] to set per-entry expiration:
//
//	c.Put("actor:42", "isolation violation", cache.WithTTL(10*time.Minute))
//
// Expired entries are lazily evicted on access.
package cache
