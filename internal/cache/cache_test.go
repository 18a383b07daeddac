package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/MrEthical07/goAuthz/acl"
	"github.com/MrEthical07/goAuthz/permission"
)

var doc = acl.ObjectIdentity{Type: "Document", ID: "1"}

func TestHitMissAndStaleness(t *testing.T) {
	c, err := New(16)
	if err != nil {
		t.Fatal(err)
	}
	key := KeyFor(doc, "user1", permission.Read)

	if _, ok := c.Get(key, 0); ok {
		t.Fatal("empty cache must miss")
	}

	c.Put(key, 3, true)
	granted, ok := c.Get(key, 3)
	if !ok || !granted {
		t.Fatalf("want hit granted=true, got ok=%v granted=%v", ok, granted)
	}

	// A tag change makes the entry stale and evicts it.
	if _, ok := c.Get(key, 4); ok {
		t.Fatal("stale tag must miss")
	}
	if c.Len() != 0 {
		t.Fatalf("stale entry should have been evicted, len=%d", c.Len())
	}
}

func TestStalePutCannotResurrect(t *testing.T) {
	c, err := New(16)
	if err != nil {
		t.Fatal(err)
	}
	key := KeyFor(doc, "user1", permission.Read)

	// A put that raced an invalidation carries the old tag and must
	// never be served against the new one.
	c.Put(key, 1, true)
	if _, ok := c.Get(key, 2); ok {
		t.Fatal("put with outdated tag was served")
	}
}

func TestInvalidateDropsOnlyResource(t *testing.T) {
	c, err := New(16)
	if err != nil {
		t.Fatal(err)
	}
	other := acl.ObjectIdentity{Type: "Document", ID: "2"}

	c.Put(KeyFor(doc, "user1", permission.Read), 0, true)
	c.Put(KeyFor(doc, "user2", permission.Write), 0, false)
	c.Put(KeyFor(other, "user1", permission.Read), 0, true)

	c.Invalidate(doc)

	if _, ok := c.Get(KeyFor(doc, "user1", permission.Read), 0); ok {
		t.Fatal("invalidated entry served")
	}
	if _, ok := c.Get(KeyFor(doc, "user2", permission.Write), 0); ok {
		t.Fatal("invalidated entry served")
	}
	if _, ok := c.Get(KeyFor(other, "user1", permission.Read), 0); !ok {
		t.Fatal("unrelated entry dropped")
	}
}

func TestBoundedEviction(t *testing.T) {
	c, err := New(8)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		oid := acl.ObjectIdentity{Type: "Document", ID: fmt.Sprintf("%d", i)}
		c.Put(KeyFor(oid, "user1", permission.Read), 0, true)
	}
	if c.Len() > 8 {
		t.Fatalf("cache exceeded its bound: %d", c.Len())
	}

	if _, err := New(0); err == nil {
		t.Fatal("zero-size cache must be rejected")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c, err := New(64)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				oid := acl.ObjectIdentity{Type: "Document", ID: fmt.Sprintf("%d", i%32)}
				key := KeyFor(oid, "user1", permission.Read)
				switch i % 3 {
				case 0:
					c.Put(key, uint64(i), i%2 == 0)
				case 1:
					c.Get(key, uint64(i))
				default:
					c.Invalidate(oid)
				}
			}
		}(w)
	}
	wg.Wait()
}
