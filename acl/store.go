package acl

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/MrEthical07/goAuthz/identity"
	"github.com/MrEthical07/goAuthz/permission"
)

// maxChainDepth bounds inheritance walks against malformed parent cycles in
// externally loaded data.
const maxChainDepth = 64

type node struct {
	record     Record
	generation uint64
}

// Store holds ACL nodes in memory as the authoritative state and writes
// every mutation through its [Storage] before publishing it to readers.
//
// Reads take a shared lock and see immutable entry snapshots. Mutations
// serialize on a dedicated mutex so storage round-trips never block readers.
type Store struct {
	storage Storage

	writeMu sync.Mutex   // serializes mutations, held across storage writes
	mu      sync.RWMutex // guards nodes map and node pointers
	nodes   map[ObjectIdentity]*node
}

// NewStore creates a store backed by the given storage. A nil storage means
// memory-only operation.
func NewStore(storage Storage) *Store {
	if storage == nil {
		storage = NopStorage{}
	}
	return &Store{
		storage: storage,
		nodes:   make(map[ObjectIdentity]*node),
	}
}

func storageFault(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

// getNode returns the live node for oid, loading it from storage on first
// sight. Returns ErrResourceNotFound when neither memory nor storage knows
// the identity.
func (s *Store) getNode(ctx context.Context, oid ObjectIdentity) (*node, error) {
	s.mu.RLock()
	n, ok := s.nodes[oid]
	s.mu.RUnlock()
	if ok {
		return n, nil
	}

	rec, err := s.storage.Load(ctx, oid)
	if err != nil {
		return nil, storageFault(err)
	}
	if rec == nil {
		return nil, ErrResourceNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.nodes[oid]; ok {
		return existing, nil
	}
	n = &node{record: rec.clone()}
	s.nodes[oid] = n
	return n, nil
}

// CreateResource registers a new ACL node and, atomically with it, a
// granting owner entry carrying the full permission mask.
func (s *Store) CreateResource(ctx context.Context, oid ObjectIdentity, owner string, parent *ObjectIdentity, inherit bool) error {
	if oid.Zero() {
		return fmt.Errorf("object identity required")
	}
	if owner == "" {
		return fmt.Errorf("owner required")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if _, err := s.getNode(ctx, oid); err == nil {
		return ErrResourceExists
	} else if !isNotFound(err) {
		return err
	}
	if parent != nil {
		if _, err := s.getNode(ctx, *parent); err != nil {
			return err
		}
	}

	rec := Record{
		Identity:   oid,
		Parent:     parent,
		Owner:      owner,
		Inheriting: inherit,
		Entries:    []Entry{{Sid: owner, Mask: permission.Full, Granting: true}},
	}
	if err := s.storage.Save(ctx, rec); err != nil {
		return storageFault(err)
	}

	s.mu.Lock()
	s.nodes[oid] = &node{record: rec.clone()}
	s.mu.Unlock()
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrResourceNotFound)
}

// Grant appends a granting entry for sid. Granting an entry that already
// exists with the same sid and mask is a no-op.
func (s *Store) Grant(ctx context.Context, oid ObjectIdentity, sid string, mask permission.Mask) error {
	return s.appendEntry(ctx, oid, Entry{Sid: sid, Mask: mask, Granting: true})
}

// Deny appends a non-granting entry for sid. Because evaluation is
// first-match, a deny appended after an equivalent grant does not override
// it; deny entries shadow only grants added later.
func (s *Store) Deny(ctx context.Context, oid ObjectIdentity, sid string, mask permission.Mask) error {
	return s.appendEntry(ctx, oid, Entry{Sid: sid, Mask: mask, Granting: false})
}

func (s *Store) appendEntry(ctx context.Context, oid ObjectIdentity, entry Entry) error {
	if entry.Sid == "" {
		return fmt.Errorf("sid required")
	}
	if entry.Mask == 0 {
		return fmt.Errorf("mask required")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.getNode(ctx, oid)
	if err != nil {
		return err
	}

	s.mu.RLock()
	rec := n.record
	s.mu.RUnlock()

	for _, e := range rec.Entries {
		if e == entry {
			return nil // idempotent
		}
	}

	next := rec.clone()
	next.Entries = append(next.Entries, entry)
	if err := s.storage.Save(ctx, next); err != nil {
		return storageFault(err)
	}
	s.publish(n, next)
	return nil
}

// Revoke removes every entry for sid on the resource. Revoking an absent
// grant is a no-op, not an error.
func (s *Store) Revoke(ctx context.Context, oid ObjectIdentity, sid string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.getNode(ctx, oid)
	if err != nil {
		return err
	}

	s.mu.RLock()
	rec := n.record
	s.mu.RUnlock()

	kept := make([]Entry, 0, len(rec.Entries))
	for _, e := range rec.Entries {
		if e.Sid != sid {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(rec.Entries) {
		return nil
	}

	next := rec.clone()
	next.Entries = kept
	if err := s.storage.Save(ctx, next); err != nil {
		return storageFault(err)
	}
	s.publish(n, next)
	return nil
}

// SetInheriting toggles whether the resource's effective ACL extends into
// its parent chain.
func (s *Store) SetInheriting(ctx context.Context, oid ObjectIdentity, inherit bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.getNode(ctx, oid)
	if err != nil {
		return err
	}

	s.mu.RLock()
	rec := n.record
	s.mu.RUnlock()

	if rec.Inheriting == inherit {
		return nil
	}

	next := rec.clone()
	next.Inheriting = inherit
	if err := s.storage.Save(ctx, next); err != nil {
		return storageFault(err)
	}
	s.publish(n, next)
	return nil
}

// DeleteResource removes the node and its entries. Children are detached:
// they keep their own entries, lose the parent link, and stop inheriting, so
// no permission survives through a deleted ancestor.
func (s *Store) DeleteResource(ctx context.Context, oid ObjectIdentity) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	n, err := s.getNode(ctx, oid)
	if err != nil {
		return err
	}

	s.mu.RLock()
	rec := n.record
	s.mu.RUnlock()

	children, err := s.childrenOf(ctx, oid)
	if err != nil {
		return err
	}
	for _, child := range children {
		next := child.record.clone()
		next.Parent = nil
		next.Inheriting = false
		if err := s.storage.Save(ctx, next); err != nil {
			return storageFault(err)
		}
		s.publish(child, next)
	}

	if err := s.storage.Delete(ctx, rec); err != nil {
		return storageFault(err)
	}

	// Descendant cache entries go stale through the detach above: the
	// children's generations move and their chains lose this node, so their
	// fingerprints change. Entries for the node itself are the engine's to
	// drop.
	s.mu.Lock()
	delete(s.nodes, oid)
	s.mu.Unlock()
	return nil
}

// childrenOf collects live child nodes of oid from memory and storage.
// Called with writeMu held.
func (s *Store) childrenOf(ctx context.Context, oid ObjectIdentity) ([]*node, error) {
	seen := make(map[ObjectIdentity]bool)
	var out []*node

	s.mu.RLock()
	for id, n := range s.nodes {
		if n.record.Parent != nil && *n.record.Parent == oid {
			seen[id] = true
			out = append(out, n)
		}
	}
	s.mu.RUnlock()

	stored, err := s.storage.Children(ctx, oid)
	if err != nil {
		return nil, storageFault(err)
	}
	for _, rec := range stored {
		if seen[rec.Identity] {
			continue
		}
		n, err := s.getNode(ctx, rec.Identity)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// publish swaps in the new record snapshot and bumps the node generation.
func (s *Store) publish(n *node, next Record) {
	s.mu.Lock()
	n.record = next
	n.generation++
	s.mu.Unlock()
}

// HasPermission resolves the effective decision for the principal on the
// resource. Entries are scanned in insertion order; the first matching entry
// decides; exhausted inheriting nodes defer to their parent; the default is
// deny. A missing target resource is an error, a missing ancestor ends the
// chain.
func (s *Store) HasPermission(ctx context.Context, oid ObjectIdentity, p identity.Principal, required permission.Mask) (bool, error) {
	if required == 0 {
		return true, nil
	}
	sids := p.Sids()
	if len(sids) == 0 {
		return false, nil
	}
	sidSet := make(map[string]bool, len(sids))
	for _, sid := range sids {
		sidSet[sid] = true
	}

	cur := oid
	for depth := 0; depth < maxChainDepth; depth++ {
		n, err := s.getNode(ctx, cur)
		if err != nil {
			if depth > 0 && isNotFound(err) {
				break // dangling parent link: chain ends, default deny
			}
			return false, err
		}

		s.mu.RLock()
		rec := n.record
		s.mu.RUnlock()

		for _, e := range rec.Entries {
			if sidSet[e.Sid] && e.Mask.Contains(required) {
				return e.Granting, nil
			}
		}

		if !rec.Inheriting || rec.Parent == nil {
			break
		}
		cur = *rec.Parent
	}
	return false, nil
}

// ChainFingerprint hashes the ordered (identity, generation) pairs along the
// resolved ancestor chain of oid. A mutation to any chain node changes its
// generation, and a mutation that reshapes the chain (detaching a parent,
// cutting inheritance) changes which identities are hashed, so the decision
// cache detects staleness in both cases. A plain generation sum would not:
// detaching bumps the child while removing the parent's contribution, and
// the two can cancel out.
func (s *Store) ChainFingerprint(ctx context.Context, oid ObjectIdentity) (uint64, error) {
	h := fnv.New64a()
	var buf [8]byte
	cur := oid
	for depth := 0; depth < maxChainDepth; depth++ {
		n, err := s.getNode(ctx, cur)
		if err != nil {
			if depth > 0 && isNotFound(err) {
				break
			}
			return 0, err
		}

		s.mu.RLock()
		gen := n.generation
		rec := n.record
		s.mu.RUnlock()

		h.Write([]byte(cur.Type))
		h.Write([]byte{0})
		h.Write([]byte(cur.ID))
		h.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], gen)
		h.Write(buf[:])

		if !rec.Inheriting || rec.Parent == nil {
			break
		}
		cur = *rec.Parent
	}
	return h.Sum64(), nil
}

// Record returns a snapshot of the node for introspection.
func (s *Store) Record(ctx context.Context, oid ObjectIdentity) (Record, error) {
	n, err := s.getNode(ctx, oid)
	if err != nil {
		return Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return n.record.clone(), nil
}
