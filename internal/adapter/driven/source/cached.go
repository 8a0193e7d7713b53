// Package source holds the record source adapters and the wrappers
// composed around them (TTL cache, sample fallback).
package source

import (
	"context"
	"sync"
	"time"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/repository"
)

// DefaultCacheTTL matches the refresh interval of the hosted table.
const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	records   []entity.Record
	expiresAt time.Time
}

// CachedSource memoizes FetchRecords results per query signature for a TTL.
type CachedSource struct {
	inner   repository.RecordSource
	ttl     time.Duration
	now     func() time.Time
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCachedSource cria uma nova implementação com cache em memória.
func NewCachedSource(inner repository.RecordSource, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSource{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Name returns the wrapped source name.
func (c *CachedSource) Name() string {
	return c.inner.Name()
}

// FetchRecords returns a cached copy when the entry is still fresh.
// Errors are never cached.
func (c *CachedSource) FetchRecords(ctx context.Context, q entity.Query) ([]entity.Record, error) {
	key := q.Signature()

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if c.now().Before(e.expiresAt) {
			c.mu.Unlock()
			return cloneRecords(e.records), nil
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	records, err := c.inner.FetchRecords(ctx, q)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{records: cloneRecords(records), expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()

	return records, nil
}

// Invalidate drops every cached entry.
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

func cloneRecords(in []entity.Record) []entity.Record {
	if in == nil {
		return nil
	}
	return append([]entity.Record(nil), in...)
}
