// Package cache provides a small read-through query cache with prefix invalidation.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	redispkg "github.com/handywriterz/core/internal/pkg/redis"
)

// Cache stores JSON-encoded query results under string keys.
type Cache interface {
	// Get decodes the cached value into dest and reports whether it was present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// Invalidate drops every key starting with prefix.
	Invalidate(ctx context.Context, prefix string) error
}

// Fetch returns the cached value for key, or calls load and caches its result.
// Cache failures never fail the read.
func Fetch[T any](ctx context.Context, c Cache, key string, load func() (T, error)) (T, error) {
	var out T
	if c != nil {
		if ok, err := c.Get(ctx, key, &out); err == nil && ok {
			return out, nil
		}
	}
	out, err := load()
	if err != nil {
		return out, err
	}
	if c != nil {
		_ = c.Set(ctx, key, out)
	}
	return out, nil
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Nop) Set(context.Context, string, any) error         { return nil }
func (Nop) Invalidate(context.Context, string) error       { return nil }

// DefaultMaxEntries bounds a memory cache built without WithMaxEntries.
const DefaultMaxEntries = 4096

type entry struct {
	data    []byte
	expires time.Time
}

// Memory is an in-process LRU cache. Entries expire after the TTL measured
// against an injected clock and the entry count never exceeds the size cap.
type Memory struct {
	ttl time.Duration
	now func() time.Time
	lru *expirable.LRU[string, entry]

	mu        sync.Mutex
	nextSweep time.Time
}

// MemoryOption configures NewMemory.
type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	maxEntries int
}

// WithMaxEntries caps the number of cached entries. The least recently used
// entry is evicted first.
func WithMaxEntries(n int) MemoryOption {
	return func(o *memoryOptions) { o.maxEntries = n }
}

// NewMemory creates a memory cache. A nil clock uses time.Now.
func NewMemory(ttl time.Duration, now func() time.Time, opts ...MemoryOption) *Memory {
	if now == nil {
		now = time.Now
	}
	o := memoryOptions{maxEntries: DefaultMaxEntries}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxEntries <= 0 {
		o.maxEntries = DefaultMaxEntries
	}
	return &Memory{
		ttl: ttl,
		now: now,
		lru: expirable.NewLRU[string, entry](o.maxEntries, nil, ttl),
	}
}

func (m *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	e, ok := m.lru.Get(key)
	if !ok {
		return false, nil
	}
	if !m.now().Before(e.expires) {
		m.lru.Remove(key)
		return false, nil
	}
	return true, json.Unmarshal(e.data, dest)
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	now := m.now()
	m.sweep(now)
	m.lru.Add(key, entry{data: data, expires: now.Add(m.ttl)})
	return nil
}

func (m *Memory) Invalidate(_ context.Context, prefix string) error {
	for _, key := range m.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			m.lru.Remove(key)
		}
	}
	return nil
}

// Len returns the number of stored entries.
func (m *Memory) Len() int {
	return m.lru.Len()
}

// sweep drops expired entries at most twice per TTL.
func (m *Memory) sweep(now time.Time) {
	m.mu.Lock()
	if now.Before(m.nextSweep) {
		m.mu.Unlock()
		return
	}
	m.nextSweep = now.Add(m.ttl / 2)
	m.mu.Unlock()

	for _, key := range m.lru.Keys() {
		if e, ok := m.lru.Peek(key); ok && !now.Before(e.expires) {
			m.lru.Remove(key)
		}
	}
}

// Redis stores entries in redis under a namespace with a fixed TTL.
type Redis struct {
	client    *redispkg.Client
	namespace string
	ttl       time.Duration
}

// NewRedis creates a redis-backed cache. Keys are stored as namespace+key.
func NewRedis(client *redispkg.Client, namespace string, ttl time.Duration) *Redis {
	return &Redis{client: client, namespace: namespace, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, ok, err := r.client.Get(ctx, r.namespace+key)
	if err != nil || !ok {
		return false, err
	}
	return true, json.Unmarshal(data, dest)
}

func (r *Redis) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.namespace+key, data, r.ttl)
}

func (r *Redis) Invalidate(ctx context.Context, prefix string) error {
	return r.client.DelPrefix(ctx, r.namespace+prefix)
}
