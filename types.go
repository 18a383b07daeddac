package goAuthz

import (
	"io"

	"github.com/MrEthical07/goAuthz/acl"
	"github.com/MrEthical07/goAuthz/identity"
	internalaudit "github.com/MrEthical07/goAuthz/internal/audit"
	"github.com/MrEthical07/goAuthz/internal/flows"
	internalmetrics "github.com/MrEthical07/goAuthz/internal/metrics"
	"github.com/MrEthical07/goAuthz/internal/policy"
	"github.com/MrEthical07/goAuthz/permission"
)

// Principal is an authenticated actor: an identifier plus its authority
// tokens. Supplied by an external identity collaborator, immutable per
// request.
type Principal = identity.Principal

// ResourceIdentity identifies a protected resource instance as a stable
// (type, id) pair.
type ResourceIdentity = acl.ObjectIdentity

// Resource couples a resource identity with the attributes predicates may
// inspect (owner, classification, arbitrary key/values).
type Resource = acl.Resource

// AclEntry is a single ACL entry: sid, permission mask, granting flag.
type AclEntry = acl.Entry

// PermissionMask is the bit-flag permission set; see the permission
// subpackage for the vocabulary.
type PermissionMask = permission.Mask

// Decision is the immutable result of one authorization request.
type Decision = flows.Decision

// ReasonCode explains a decision outcome.
type ReasonCode = flows.ReasonCode

// Reason codes carried by [Decision] and audit events.
const (
	ReasonGrantedAuthority       = flows.ReasonGrantedAuthority
	ReasonGrantedPredicate       = flows.ReasonGrantedPredicate
	ReasonGrantedACL             = flows.ReasonGrantedACL
	ReasonDenied                 = flows.ReasonDenied
	ReasonDeniedAuthority        = flows.ReasonDeniedAuthority
	ReasonAuthenticationRequired = flows.ReasonAuthenticationRequired
	ReasonUnknownOperation       = flows.ReasonUnknownOperation
	ReasonResourceNotFound       = flows.ReasonResourceNotFound
	ReasonStorageUnavailable     = flows.ReasonStorageUnavailable
)

// Rule configures the authorization layers of one operation; see
// [Builder.WithRule].
type Rule = policy.Rule

// Predicate is a pure authorization check registered under a name via
// [Builder.WithPredicate]. It must not panic on absent data: absence reads
// as deny.
type Predicate = policy.Predicate

// Expr is a boolean combination of named predicates, built from [Named],
// [PredAnd], [PredOr], and [PredNot].
type Expr = policy.Expr

// Named references a registered predicate by name.
func Named(name string) Expr { return policy.Named(name) }

// PredAnd is true when every sub-expression is true.
func PredAnd(exprs ...Expr) Expr { return policy.And(exprs...) }

// PredOr is true when any sub-expression is true.
func PredOr(exprs ...Expr) Expr { return policy.Or(exprs...) }

// PredNot negates an expression.
func PredNot(expr Expr) Expr { return policy.Not(expr) }

// AuditEvent is the structured record emitted for every decision and ACL
// mutation.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit
// dispatcher. Listener failures never affect the decision already made.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events, one per
// line, to an [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// MultiSink fans each event out to several sinks, isolating panics.
type MultiSink = internalaudit.MultiSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// NewMultiSink creates a [MultiSink] over the given sinks; nil sinks are
// skipped.
func NewMultiSink(sinks ...AuditSink) *MultiSink {
	return internalaudit.NewMultiSink(sinks...)
}

// MetricID identifies a specific counter or histogram in the in-process
// metrics system.
type MetricID = internalmetrics.MetricID

const (
	MetricDecisionGranted        = internalmetrics.MetricDecisionGranted
	MetricDecisionDenied         = internalmetrics.MetricDecisionDenied
	MetricAuthenticationRequired = internalmetrics.MetricAuthenticationRequired
	MetricAuthorityBypass        = internalmetrics.MetricAuthorityBypass
	MetricPredicateGrant         = internalmetrics.MetricPredicateGrant
	MetricACLGrantDecision       = internalmetrics.MetricACLGrantDecision
	MetricCacheHit               = internalmetrics.MetricCacheHit
	MetricCacheMiss              = internalmetrics.MetricCacheMiss
	MetricStorageFailure         = internalmetrics.MetricStorageFailure
	MetricResourceNotFound       = internalmetrics.MetricResourceNotFound
	MetricGrantOps               = internalmetrics.MetricGrantOps
	MetricDenyOps                = internalmetrics.MetricDenyOps
	MetricRevokeOps              = internalmetrics.MetricRevokeOps
	MetricResourceCreated        = internalmetrics.MetricResourceCreated
	MetricResourceDeleted        = internalmetrics.MetricResourceDeleted
	MetricFilterEvaluated        = internalmetrics.MetricFilterEvaluated
	MetricFilterRemoved          = internalmetrics.MetricFilterRemoved
	MetricPostCheckDenied        = internalmetrics.MetricPostCheckDenied
	MetricDecideLatency          = internalmetrics.MetricDecideLatency

	metricIDCount = internalmetrics.MetricIDCount
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot
