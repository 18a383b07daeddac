// Package goAuthz provides a layered authorization decision engine: static
// authority checks, typed business predicates, and per-instance ACLs with
// permission inheritance, combined into a single grant/deny decision with an
// audit event per outcome.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goAuthz is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Decision, Rule, AuditEvent, etc.). All internal
// coordination — decision flow ordering, decision caching, audit dispatch,
// metrics — lives under internal/ and is never exported. The permission
// vocabulary, ACL store, identity resolution, and method guards are public
// subpackages.
//
// # What this package must NOT do
//
//   - Authenticate callers. A [Principal] arrives already resolved; see the
//     identity subpackage for the Resolver contract.
//   - Expose storage clients, cache internals, or encoding details in its
//     public API.
//   - Treat a storage failure as a grant. Every ambiguity resolves to deny.
//
// # Performance contract
//
// Decide is the hot path. Coarse-grained rules (authority and predicate
// layers) complete without any storage round-trip; instance-scoped rules hit
// the bounded decision cache first and fall through to the ACL store only on
// miss or staleness.
package goAuthz
