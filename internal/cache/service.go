// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/qolzam/devflow/internal/pkg/log"
)

// ListingCache stores JSON-encoded listing pages under one namespace so a
// single mutation can drop every cached page of that namespace at once.
// A nil backend turns every method into a no-op.
type ListingCache struct {
	backend   Cache
	namespace string
	ttl       time.Duration

	hits   int64
	misses int64
	errors int64
}

// NewListingCache creates a listing cache whose keys all start with namespace.
func NewListingCache(backend Cache, namespace string, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ListingCache{
		backend:   backend,
		namespace: strings.TrimSuffix(namespace, ":"),
		ttl:       ttl,
	}
}

// Enabled reports whether a backend is attached.
func (l *ListingCache) Enabled() bool {
	return l != nil && l.backend != nil
}

// Key builds "<namespace>:<operation>:<hash>" where hash covers the sorted params.
func (l *ListingCache) Key(operation string, params map[string]interface{}) string {
	if l == nil {
		return ""
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s=%v;", name, params[name])
	}
	sum := sha256.Sum256([]byte(b.String()))

	return fmt.Sprintf("%s:%s:%x", l.namespace, operation, sum[:8])
}

// Get decodes a cached value into target. Backend failures count as misses.
func (l *ListingCache) Get(ctx context.Context, key string, target interface{}) bool {
	if !l.Enabled() {
		return false
	}

	data, err := l.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			atomic.AddInt64(&l.errors, 1)
			log.WarnWithContext(ctx, "cache get %s: %v", key, err)
		}
		atomic.AddInt64(&l.misses, 1)
		return false
	}

	if err := json.Unmarshal(data, target); err != nil {
		atomic.AddInt64(&l.errors, 1)
		log.WarnWithContext(ctx, "cache decode %s: %v", key, err)
		_ = l.backend.Delete(ctx, key)
		return false
	}

	atomic.AddInt64(&l.hits, 1)
	return true
}

// Put stores value under key with the namespace TTL.
func (l *ListingCache) Put(ctx context.Context, key string, value interface{}) {
	if !l.Enabled() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		atomic.AddInt64(&l.errors, 1)
		log.WarnWithContext(ctx, "cache encode %s: %v", key, err)
		return
	}

	if err := l.backend.Set(ctx, key, data, l.ttl); err != nil {
		atomic.AddInt64(&l.errors, 1)
		log.WarnWithContext(ctx, "cache set %s: %v", key, err)
	}
}

// Invalidate drops every key in the namespace.
func (l *ListingCache) Invalidate(ctx context.Context) {
	if !l.Enabled() {
		return
	}
	if err := l.backend.DeletePattern(ctx, l.namespace+":*"); err != nil {
		atomic.AddInt64(&l.errors, 1)
		log.WarnWithContext(ctx, "cache invalidate %s: %v", l.namespace, err)
	}
}

// InvalidateListings satisfies the shared listing invalidator contract.
func (l *ListingCache) InvalidateListings(ctx context.Context) {
	l.Invalidate(ctx)
}

// Stats returns the namespace counters.
func (l *ListingCache) Stats() CacheStats {
	hits := atomic.LoadInt64(&l.hits)
	misses := atomic.LoadInt64(&l.misses)
	return CacheStats{
		Hits:     hits,
		Misses:   misses,
		HitRatio: hitRatio(hits, misses),
	}
}

// Errors returns how many backend or codec failures were swallowed.
func (l *ListingCache) Errors() int64 {
	return atomic.LoadInt64(&l.errors)
}
