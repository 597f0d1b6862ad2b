package identity

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/handywriterz/core/internal/models"
)

// maxCachedSessions bounds the session cache; the least recently used session
// is evicted first.
const maxCachedSessions = 10000

type cacheEntry struct {
	session *Session
	expires time.Time
}

// sessionCache holds validated sessions keyed by provider and token.
// Sessions are never stored without a prior server-side validation.
type sessionCache struct {
	ttl     time.Duration
	now     func() time.Time
	entries *expirable.LRU[string, cacheEntry]

	mu        sync.Mutex
	nextSweep time.Time
}

func newSessionCache(ttl time.Duration, now func() time.Time) *sessionCache {
	return newSessionCacheSize(ttl, now, maxCachedSessions)
}

func newSessionCacheSize(ttl time.Duration, now func() time.Time, size int) *sessionCache {
	if now == nil {
		now = time.Now
	}
	return &sessionCache{
		ttl:     ttl,
		now:     now,
		entries: expirable.NewLRU[string, cacheEntry](size, nil, ttl),
	}
}

func cacheKey(provider models.Provider, token string) string {
	return string(provider) + "\x00" + token
}

func (c *sessionCache) get(provider models.Provider, token string) (*Session, bool) {
	key := cacheKey(provider, token)
	e, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		c.entries.Remove(key)
		return nil, false
	}
	return e.session, true
}

func (c *sessionCache) put(provider models.Provider, token string, s *Session) {
	now := c.now()
	c.sweep(now)
	c.entries.Add(cacheKey(provider, token), cacheEntry{session: s, expires: now.Add(c.ttl)})
}

func (c *sessionCache) dropToken(provider models.Provider, token string) {
	c.entries.Remove(cacheKey(provider, token))
}

func (c *sessionCache) dropUser(provider models.Provider, userID string) {
	for _, key := range c.entries.Keys() {
		e, ok := c.entries.Peek(key)
		if ok && e.session.Provider == provider && e.session.User.ID == userID {
			c.entries.Remove(key)
		}
	}
}

// sweep drops expired sessions at most twice per TTL.
func (c *sessionCache) sweep(now time.Time) {
	c.mu.Lock()
	if now.Before(c.nextSweep) {
		c.mu.Unlock()
		return
	}
	c.nextSweep = now.Add(c.ttl / 2)
	c.mu.Unlock()

	for _, key := range c.entries.Keys() {
		if e, ok := c.entries.Peek(key); ok && !now.Before(e.expires) {
			c.entries.Remove(key)
		}
	}
}

func (c *sessionCache) len() int {
	return c.entries.Len()
}
