package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goAuthz/acl"
	"github.com/MrEthical07/goAuthz/identity"
	"github.com/MrEthical07/goAuthz/internal/policy"
	"github.com/MrEthical07/goAuthz/permission"
)

// ReasonCode explains a decision outcome. Deny reasons are deliberately
// coarse on ordinary paths so callers cannot enumerate permissions; faults
// and configuration problems keep distinct codes.
type ReasonCode string

const (
	ReasonGrantedAuthority       ReasonCode = "granted_authority"
	ReasonGrantedPredicate       ReasonCode = "granted_predicate"
	ReasonGrantedACL             ReasonCode = "granted_acl"
	ReasonDenied                 ReasonCode = "access_denied"
	ReasonDeniedAuthority        ReasonCode = "denied_authority"
	ReasonAuthenticationRequired ReasonCode = "authentication_required"
	ReasonUnknownOperation       ReasonCode = "unknown_operation"
	ReasonResourceNotFound       ReasonCode = "resource_not_found"
	ReasonStorageUnavailable     ReasonCode = "storage_unavailable"
)

// Decision is the immutable result of one authorization request. Deny is a
// normal value, not an error; Err is set only for faults (storage outage,
// missing resource) that accompany a fail-closed deny.
type Decision struct {
	EventID      string
	Granted      bool
	Reason       ReasonCode
	PrincipalID  string
	Operation    string
	Resource     *acl.ObjectIdentity
	RequiredMask permission.Mask
	Timestamp    time.Time
	Err          error
}

// DecideDeps wires the decision flow. All fields are required.
type DecideDeps struct {
	RuleFor       func(operation string) (policy.Rule, bool)
	EvalPredicate func(ctx context.Context, expr policy.Expr, p identity.Principal, res *acl.Resource) bool
	ACLCheck      func(ctx context.Context, oid acl.ObjectIdentity, p identity.Principal, required permission.Mask) (bool, error)
	Now           func() time.Time
	NewEventID    func() string
}

// RunDecide evaluates the layered decision algorithm for one request:
// authentication presence, then the mandatory authority layer, then the
// configured grant paths (bypass authorities, predicate, ACL) combined with
// OR. The first conclusive layer short-circuits. Unknown operations and any
// ambiguity resolve to deny.
func RunDecide(ctx context.Context, p identity.Principal, operation string, res *acl.Resource, d DecideDeps) Decision {
	decision := Decision{
		EventID:     d.NewEventID(),
		PrincipalID: p.ID,
		Operation:   operation,
		Timestamp:   d.Now().UTC(),
	}
	if res != nil && !res.Identity.Zero() {
		oid := res.Identity
		decision.Resource = &oid
	}

	if p.Anonymous() {
		decision.Reason = ReasonAuthenticationRequired
		return decision
	}

	rule, ok := d.RuleFor(operation)
	if !ok {
		decision.Reason = ReasonUnknownOperation
		return decision
	}
	decision.RequiredMask = rule.RequiredMask

	// Mandatory layer: every required authority, or nothing else matters.
	if len(rule.RequireAuthorities) > 0 && !p.HasAllAuthorities(rule.RequireAuthorities...) {
		decision.Reason = ReasonDeniedAuthority
		return decision
	}

	pathConfigured := false

	if len(rule.BypassAuthorities) > 0 {
		pathConfigured = true
		if p.HasAnyAuthority(rule.BypassAuthorities...) {
			decision.Granted = true
			decision.Reason = ReasonGrantedAuthority
			return decision
		}
	}

	if rule.Predicate != nil {
		pathConfigured = true
		if d.EvalPredicate(ctx, rule.Predicate, p, res) {
			decision.Granted = true
			decision.Reason = ReasonGrantedPredicate
			return decision
		}
	}

	if rule.InstanceScoped() {
		pathConfigured = true
		switch {
		case decision.Resource == nil:
			// Instance-scoped operation without a target: deny.
		default:
			granted, err := d.ACLCheck(ctx, *decision.Resource, p, rule.RequiredMask)
			if err != nil {
				decision.Err = err
				if errors.Is(err, acl.ErrResourceNotFound) {
					decision.Reason = ReasonResourceNotFound
				} else {
					decision.Reason = ReasonStorageUnavailable
				}
				return decision
			}
			if granted {
				decision.Granted = true
				decision.Reason = ReasonGrantedACL
				return decision
			}
		}
	}

	if !pathConfigured {
		// Authority-only rule: the mandatory layer already passed.
		decision.Granted = true
		decision.Reason = ReasonGrantedAuthority
		return decision
	}

	decision.Reason = ReasonDenied
	return decision
}
