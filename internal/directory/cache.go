package directory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/mohit83k/radiusd/internal/model"
)

type cacheEntry[T any] struct {
	value   *T
	expires time.Time
}

// Cache memoises client and user lookups for ttl. Misses are cached too so
// that an unknown sender cannot hammer the backing store. Expired entries are
// pruned at most once per ttl, on insert.
type Cache struct {
	clients Clients
	users   Users
	ttl     time.Duration
	now     func() time.Time

	mu         sync.Mutex
	clientHits map[string]cacheEntry[model.Client]
	userHits   map[string]cacheEntry[model.User]
	nextPrune  time.Time
}

// NewCache wraps clients and users with a ttl cache.
func NewCache(clients Clients, users Users, ttl time.Duration) *Cache {
	return &Cache{
		clients:    clients,
		users:      users,
		ttl:        ttl,
		now:        time.Now,
		clientHits: make(map[string]cacheEntry[model.Client]),
		userHits:   make(map[string]cacheEntry[model.User]),
	}
}

// LookupClient implements Clients.
func (c *Cache) LookupClient(ctx context.Context, ip string) (*model.Client, error) {
	return lookup(c, c.clientHits, ip, func() (*model.Client, error) {
		return c.clients.LookupClient(ctx, ip)
	})
}

// LookupUser implements Users.
func (c *Cache) LookupUser(ctx context.Context, name string) (*model.User, error) {
	if name == "" {
		return nil, nil
	}
	return lookup(c, c.userHits, name, func() (*model.User, error) {
		return c.users.LookupUser(ctx, name)
	})
}

// Clear drops every cached entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.clientHits)
	clear(c.userHits)
}

// Len returns the number of cached clients and users.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clientHits) + len(c.userHits)
}

// lookup runs fetch outside the lock; errors are not cached.
func lookup[T any](c *Cache, hits map[string]cacheEntry[T], key string, fetch func() (*T, error)) (*T, error) {
	now := c.now()

	c.mu.Lock()
	e, ok := hits[key]
	c.mu.Unlock()
	if ok && now.Before(e.expires) {
		return e.value, nil
	}

	v, err := fetch()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if !now.Before(c.nextPrune) {
		c.pruneLocked(now)
	}
	hits[key] = cacheEntry[T]{value: v, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return v, nil
}

func (c *Cache) pruneLocked(now time.Time) {
	maps.DeleteFunc(c.clientHits, func(_ string, e cacheEntry[model.Client]) bool {
		return !now.Before(e.expires)
	})
	maps.DeleteFunc(c.userHits, func(_ string, e cacheEntry[model.User]) bool {
		return !now.Before(e.expires)
	})
	c.nextPrune = now.Add(c.ttl)
}
