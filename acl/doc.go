// Package acl is the authoritative source of per-resource access control
// lists and the object-identity inheritance tree.
//
// # Evaluation semantics
//
// Entries are scanned in insertion order. The first entry whose sid matches
// one of the caller's identities (principal ID or authority) and whose mask
// contains every required bit decides the outcome: a granting entry allows,
// a non-granting entry denies. When a node's entries are exhausted and the
// node inherits, evaluation continues at the parent; the default outcome is
// deny. Insertion order is part of the contract, not an implementation
// detail.
//
// # Concurrency
//
// Entry lists are copy-on-write: readers observe either the pre- or
// post-mutation list, never a partial one. Mutations are serialized by the
// store and bump a per-node generation counter; [Store.ChainFingerprint]
// folds the counters and identities of a resolved chain into the staleness
// tag callers (the decision cache) validate against.
//
// # Persistence
//
// The store writes through a [Storage] collaborator and loads unknown nodes
// from it lazily. Storage failures surface as [ErrStorageUnavailable] and
// never degrade into a grant.
package acl
