package internaldefs

import (
	goAuthz "github.com/MrEthical07/goAuthz"
)

// CounterDef binds a core counter ID to its exported name.
type CounterDef struct {
	ID   goAuthz.MetricID
	Name string
	Help string
}

// HistogramDef binds a core histogram ID to its exported name.
type HistogramDef struct {
	ID   goAuthz.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: goAuthz.MetricDecisionGranted, Name: "goauthz_decision_granted_total", Help: "Authorization decisions that granted access."},
	{ID: goAuthz.MetricDecisionDenied, Name: "goauthz_decision_denied_total", Help: "Authorization decisions that denied access."},
	{ID: goAuthz.MetricAuthenticationRequired, Name: "goauthz_authentication_required_total", Help: "Decisions denied for missing principal identity."},
	{ID: goAuthz.MetricAuthorityBypass, Name: "goauthz_authority_grant_total", Help: "Decisions granted on the authority layer."},
	{ID: goAuthz.MetricPredicateGrant, Name: "goauthz_predicate_grant_total", Help: "Decisions granted by a predicate expression."},
	{ID: goAuthz.MetricACLGrantDecision, Name: "goauthz_acl_grant_total", Help: "Decisions granted by an ACL entry."},
	{ID: goAuthz.MetricCacheHit, Name: "goauthz_cache_hit_total", Help: "Decision cache hits."},
	{ID: goAuthz.MetricCacheMiss, Name: "goauthz_cache_miss_total", Help: "Decision cache misses."},
	{ID: goAuthz.MetricStorageFailure, Name: "goauthz_storage_failure_total", Help: "Decisions denied by ACL storage faults."},
	{ID: goAuthz.MetricResourceNotFound, Name: "goauthz_resource_not_found_total", Help: "Decisions against unregistered resources."},
	{ID: goAuthz.MetricGrantOps, Name: "goauthz_grant_ops_total", Help: "Successful ACL grant mutations."},
	{ID: goAuthz.MetricDenyOps, Name: "goauthz_deny_ops_total", Help: "Successful ACL deny mutations."},
	{ID: goAuthz.MetricRevokeOps, Name: "goauthz_revoke_ops_total", Help: "Successful ACL revoke mutations."},
	{ID: goAuthz.MetricResourceCreated, Name: "goauthz_resource_created_total", Help: "Created ACL resources."},
	{ID: goAuthz.MetricResourceDeleted, Name: "goauthz_resource_deleted_total", Help: "Deleted ACL resources."},
	{ID: goAuthz.MetricFilterEvaluated, Name: "goauthz_filter_evaluated_total", Help: "Collection elements evaluated by filters."},
	{ID: goAuthz.MetricFilterRemoved, Name: "goauthz_filter_removed_total", Help: "Collection elements removed by filters."},
	{ID: goAuthz.MetricPostCheckDenied, Name: "goauthz_post_check_denied_total", Help: "Post-invocation checks that withheld a result."},
}

// HistogramDefs lists every exported histogram in a stable order.
var HistogramDefs = []HistogramDef{
	{ID: goAuthz.MetricDecideLatency, Name: "goauthz_decide_latency_seconds", Help: "Decide latency histogram."},
}

// HistogramBounds are the bucket upper bounds in seconds, matching the core
// decade buckets starting at 100ns.
var HistogramBounds = []string{
	"0.0000001",
	"0.000001",
	"0.00001",
	"0.0001",
	"0.001",
	"0.01",
	"0.1",
	"+Inf",
}

// HistogramBoundSuffix are instrument-name-safe forms of HistogramBounds.
var HistogramBoundSuffix = []string{
	"100ns",
	"1us",
	"10us",
	"100us",
	"1ms",
	"10ms",
	"100ms",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form both
// exposition formats expect.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
