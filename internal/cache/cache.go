// Package cache memoizes ACL decisions behind a bounded LRU.
//
// Every entry is tagged with the chain fingerprint observed when the
// authoritative answer was computed. A lookup is a hit only when the tag
// still matches the live fingerprint, so an invalidation (any chain
// mutation or reshape) racing a Put always wins: the stale entry is dead
// on arrival and evicted on its next touch.
package cache

import (
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/MrEthical07/goAuthz/acl"
	"github.com/MrEthical07/goAuthz/permission"
)

// Key identifies one cached decision.
type Key struct {
	Type      string
	ID        string
	Principal string
	Mask      permission.Mask
}

// KeyFor builds the cache key for a (resource, principal, mask) lookup.
func KeyFor(oid acl.ObjectIdentity, principalID string, mask permission.Mask) Key {
	return Key{Type: oid.Type, ID: oid.ID, Principal: principalID, Mask: mask}
}

type entry struct {
	granted bool
	tag     uint64
}

// Cache is a bounded, fingerprint-validated decision cache. Safe for
// concurrent use.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache[Key, entry]
}

// New creates a cache holding at most size decisions, evicting least
// recently used. Size must be positive: an unbounded decision cache is a
// correctness defect, not an option.
func New(size int) (*Cache, error) {
	if size <= 0 {
		return nil, errors.New("cache size must be positive")
	}
	l, err := lru.New[Key, entry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

// Get returns the cached decision for key if it is still tagged with the
// live chain fingerprint. Stale entries are evicted and reported as misses.
func (c *Cache) Get(key Key, tag uint64) (granted, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(key)
	if !ok {
		return false, false
	}
	if e.tag != tag {
		c.lru.Remove(key)
		return false, false
	}
	return e.granted, true
}

// Put stores a decision computed at the given fingerprint. A Put carrying an
// outdated tag is harmless: Get validates before serving.
func (c *Cache) Put(key Key, tag uint64, granted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, entry{granted: granted, tag: tag})
}

// Invalidate drops every cached decision for the resource. Descendants are
// covered by fingerprint validation; this exists for the node itself, whose
// fingerprint input disappears when the node is deleted.
func (c *Cache) Invalidate(oid acl.ObjectIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range c.lru.Keys() {
		if key.Type == oid.Type && key.ID == oid.ID {
			c.lru.Remove(key)
		}
	}
}

// Purge drops everything.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
