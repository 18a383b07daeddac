package goAuthz

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/goAuthz/acl"
	"github.com/MrEthical07/goAuthz/internal/audit"
	"github.com/MrEthical07/goAuthz/internal/cache"
	"github.com/MrEthical07/goAuthz/internal/flows"
	"github.com/MrEthical07/goAuthz/internal/metrics"
	"github.com/MrEthical07/goAuthz/internal/policy"
	"github.com/MrEthical07/goAuthz/permission"
)

// Engine is the authorization decision engine. Construct it with [Builder];
// the zero value is not usable. All methods are safe for concurrent use.
type Engine struct {
	config      Config
	permissions *permission.Registry
	predicates  *policy.Registry
	rules       *policy.RuleSet
	acl         *acl.Store
	cache       *cache.Cache
	audit       *audit.Dispatcher
	metrics     *metrics.Metrics
	flows       flows.Service
}

func (e *Engine) initFlows() {
	decide := flows.DecideDeps{
		RuleFor:       e.rules.Rule,
		EvalPredicate: e.predicates.Eval,
		ACLCheck:      e.aclCheck,
		Now:           time.Now,
		NewEventID:    uuid.NewString,
	}
	e.flows = flows.New(flows.Deps{
		Decide: decide,
		Mutate: flows.MutateDeps{
			AdminCheck: e.adminCheck,
			Grant:      e.acl.Grant,
			Deny:       e.acl.Deny,
			Revoke:     e.acl.Revoke,
			Create:     e.acl.CreateResource,
			Delete:     e.acl.DeleteResource,
		},
		Filter: flows.FilterDeps{
			// Raw decide, not Engine.Decide: filtering N elements must not
			// emit N decision audit events or N latency samples.
			Decide: func(ctx context.Context, p Principal, operation string, res *acl.Resource) Decision {
				return flows.RunDecide(ctx, p, operation, res, decide)
			},
		},
	})
}

func (e *Engine) ready() bool {
	return e != nil && e.flows.Initialized()
}

// aclCheck answers an instance-scoped permission check through the decision
// cache. The chain fingerprint is read before the authoritative evaluation so
// a concurrent invalidation makes the cached entry dead on arrival.
func (e *Engine) aclCheck(ctx context.Context, oid ResourceIdentity, p Principal, required PermissionMask) (bool, error) {
	tag, err := e.acl.ChainFingerprint(ctx, oid)
	if err != nil {
		return false, err
	}

	key := cache.KeyFor(oid, p.ID, required)
	if granted, ok := e.cache.Get(key, tag); ok {
		e.metrics.Inc(MetricCacheHit)
		return granted, nil
	}
	e.metrics.Inc(MetricCacheMiss)

	granted, err := e.acl.HasPermission(ctx, oid, p, required)
	if err != nil {
		return false, err
	}
	e.cache.Put(key, tag, granted)
	return granted, nil
}

// adminCheck reports whether the actor may administer the resource: holding
// a configured administrative authority, or the Admin bit on the resource.
func (e *Engine) adminCheck(ctx context.Context, actor Principal, oid ResourceIdentity) (bool, error) {
	if actor.HasAnyAuthority(e.config.Policy.AdministrativeAuthorities...) {
		return true, nil
	}
	return e.aclCheck(ctx, oid, actor, permission.Admin)
}

// Decide evaluates the authorization rule bound to operation for the given
// principal and optional target resource. Deny is a normal outcome carried in
// the Decision, not an error; Decision.Err is set only for faults.
func (e *Engine) Decide(ctx context.Context, p Principal, operation string, res *Resource) Decision {
	if !e.ready() {
		return Decision{
			Operation:   operation,
			PrincipalID: p.ID,
			Reason:      ReasonDenied,
			Timestamp:   time.Now().UTC(),
			Err:         ErrEngineNotReady,
		}
	}

	start := time.Now()
	d := e.flows.Decide(ctx, p, operation, res)
	e.metrics.Observe(MetricDecideLatency, time.Since(start))

	e.recordDecision(d)
	e.audit.Emit(ctx, e.decisionEvent(ctx, d))
	return d
}

func (e *Engine) recordDecision(d Decision) {
	if d.Granted {
		e.metrics.Inc(MetricDecisionGranted)
	} else {
		e.metrics.Inc(MetricDecisionDenied)
	}
	switch d.Reason {
	case ReasonGrantedAuthority:
		e.metrics.Inc(MetricAuthorityBypass)
	case ReasonGrantedPredicate:
		e.metrics.Inc(MetricPredicateGrant)
	case ReasonGrantedACL:
		e.metrics.Inc(MetricACLGrantDecision)
	case ReasonAuthenticationRequired:
		e.metrics.Inc(MetricAuthenticationRequired)
	case ReasonResourceNotFound:
		e.metrics.Inc(MetricResourceNotFound)
	case ReasonStorageUnavailable:
		e.metrics.Inc(MetricStorageFailure)
	}
}

func (e *Engine) decisionEvent(ctx context.Context, d Decision) AuditEvent {
	event := AuditEvent{
		EventID:     d.EventID,
		Timestamp:   d.Timestamp,
		EventType:   audit.TypeDecision,
		PrincipalID: d.PrincipalID,
		Operation:   d.Operation,
		Granted:     d.Granted,
		Reason:      string(d.Reason),
		ClientIP:    clientIPFrom(ctx),
		RequestID:   requestIDFrom(ctx),
	}
	if d.Resource != nil {
		event.ResourceType = d.Resource.Type
		event.ResourceID = d.Resource.ID
	}
	if d.RequiredMask != 0 {
		event.RequiredMask = e.maskNames(d.RequiredMask)
	}
	return event
}

func (e *Engine) maskNames(mask PermissionMask) string {
	return strings.Join(e.permissions.ToNames(mask), ",")
}

// PostCheck re-evaluates the operation against a value a call already
// produced, for guards that can only see the target after invocation. A
// denial here means the result must be withheld from the caller.
func (e *Engine) PostCheck(ctx context.Context, p Principal, operation string, res *Resource) Decision {
	d := e.Decide(ctx, p, operation, res)
	if !d.Granted {
		e.metrics.Inc(MetricPostCheckDenied)
	}
	return d
}

// HasPermission answers the effective ACL decision for the principal on the
// resource, through the decision cache. It bypasses the rule table; use
// Decide for operation-level authorization.
func (e *Engine) HasPermission(ctx context.Context, p Principal, oid ResourceIdentity, required PermissionMask) (bool, error) {
	if !e.ready() {
		return false, ErrEngineNotReady
	}
	return e.aclCheck(ctx, oid, p, required)
}

// FilterCollection returns the elements of items the principal may apply
// operation to, preserving input order. Elements whose evaluation faults are
// removed; a fault never widens the result.
func (e *Engine) FilterCollection(ctx context.Context, p Principal, operation string, items []Resource) []Resource {
	if !e.ready() {
		return nil
	}
	kept := e.flows.Filter(ctx, p, operation, items)
	e.metrics.Add(MetricFilterEvaluated, uint64(len(items)))
	e.metrics.Add(MetricFilterRemoved, uint64(len(items)-len(kept)))
	return kept
}

// GrantPermission appends a granting ACL entry for sid on the resource. The
// actor must hold administration rights on the resource. Granting an entry
// that already exists is a no-op.
func (e *Engine) GrantPermission(ctx context.Context, actor Principal, oid ResourceIdentity, sid string, mask PermissionMask) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if err := e.flows.Grant(ctx, actor, oid, sid, mask); err != nil {
		return err
	}
	e.metrics.Inc(MetricGrantOps)
	e.emitMutation(ctx, audit.TypeGrant, actor, oid, sid, mask)
	return nil
}

// DenyPermission appends a non-granting ACL entry for sid on the resource.
// Because evaluation is first-match, the deny shadows grants added later,
// not earlier ones.
func (e *Engine) DenyPermission(ctx context.Context, actor Principal, oid ResourceIdentity, sid string, mask PermissionMask) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if err := e.flows.Deny(ctx, actor, oid, sid, mask); err != nil {
		return err
	}
	e.metrics.Inc(MetricDenyOps)
	e.emitMutation(ctx, audit.TypeDeny, actor, oid, sid, mask)
	return nil
}

// RevokePermission removes every ACL entry for sid on the resource. Revoking
// an absent grant is a no-op, not an error.
func (e *Engine) RevokePermission(ctx context.Context, actor Principal, oid ResourceIdentity, sid string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if err := e.flows.Revoke(ctx, actor, oid, sid); err != nil {
		return err
	}
	e.metrics.Inc(MetricRevokeOps)
	e.emitMutation(ctx, audit.TypeRevoke, actor, oid, sid, 0)
	return nil
}

// CreateResource registers a new ACL node owned by the actor, optionally
// inheriting from a parent. Creating under a parent requires administration
// rights on the parent; root-level creation only requires authentication.
func (e *Engine) CreateResource(ctx context.Context, actor Principal, oid ResourceIdentity, parent *ResourceIdentity, inherit bool) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if err := e.flows.CreateResource(ctx, actor, oid, parent, inherit); err != nil {
		return err
	}
	e.metrics.Inc(MetricResourceCreated)
	e.emitMutation(ctx, audit.TypeResourceCreated, actor, oid, "", 0)
	return nil
}

// DeleteResource removes the resource's ACL node and detaches its children.
func (e *Engine) DeleteResource(ctx context.Context, actor Principal, oid ResourceIdentity) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if err := e.flows.DeleteResource(ctx, actor, oid); err != nil {
		return err
	}
	// The deleted node's fingerprint input is gone, so tag validation cannot
	// catch a later recreate under the same identity. Drop its entries
	// explicitly.
	e.cache.Invalidate(oid)
	e.metrics.Inc(MetricResourceDeleted)
	e.emitMutation(ctx, audit.TypeResourceDeleted, actor, oid, "", 0)
	return nil
}

// SetInheriting toggles whether the resource's effective ACL extends into
// its parent chain. Gated like the other mutations.
func (e *Engine) SetInheriting(ctx context.Context, actor Principal, oid ResourceIdentity, inherit bool) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if actor.Anonymous() {
		return ErrAuthenticationRequired
	}
	ok, err := e.adminCheck(ctx, actor, oid)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccessDenied
	}
	return e.acl.SetInheriting(ctx, oid, inherit)
}

func (e *Engine) emitMutation(ctx context.Context, eventType string, actor Principal, oid ResourceIdentity, sid string, mask PermissionMask) {
	event := AuditEvent{
		EventID:      uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		EventType:    eventType,
		PrincipalID:  actor.ID,
		ResourceType: oid.Type,
		ResourceID:   oid.ID,
		Granted:      true,
		ClientIP:     clientIPFrom(ctx),
		RequestID:    requestIDFrom(ctx),
	}
	if sid != "" {
		event.Metadata = map[string]string{"sid": sid}
	}
	if mask != 0 {
		event.RequiredMask = e.maskNames(mask)
	}
	e.audit.Emit(ctx, event)
}

// Resource returns a snapshot of the ACL record for introspection and
// administrative tooling.
func (e *Engine) Resource(ctx context.Context, oid ResourceIdentity) (acl.Record, error) {
	if !e.ready() {
		return acl.Record{}, ErrEngineNotReady
	}
	return e.acl.Record(ctx, oid)
}

// PermissionMaskFromNames resolves permission names (builtin or registered
// via [Builder.WithPermissions]) into a combined mask.
func (e *Engine) PermissionMaskFromNames(names ...string) (PermissionMask, error) {
	if !e.ready() {
		return 0, ErrEngineNotReady
	}
	return e.permissions.FromNames(names...)
}

// MetricsSnapshot returns a point-in-time copy of all counters and
// histograms. Empty when metrics are disabled.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if !e.ready() {
		return MetricsSnapshot{}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded under
// backpressure since startup.
func (e *Engine) AuditDropped() uint64 {
	if !e.ready() {
		return 0
	}
	return e.audit.Dropped()
}

// Close drains and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}
