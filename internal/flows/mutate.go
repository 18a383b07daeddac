package flows

import (
	"context"

	"github.com/MrEthical07/goAuthz/acl"
	"github.com/MrEthical07/goAuthz/identity"
	"github.com/MrEthical07/goAuthz/permission"
)

// MutateDeps wires the admin-gated ACL mutation flows. AdminCheck decides
// whether the actor may administer the resource (Admin bit on the resource
// or an administering authority); the store callbacks perform the mutation
// itself, so decision and storage stay separated.
type MutateDeps struct {
	AdminCheck func(ctx context.Context, actor identity.Principal, oid acl.ObjectIdentity) (bool, error)
	Grant      func(ctx context.Context, oid acl.ObjectIdentity, sid string, mask permission.Mask) error
	Deny       func(ctx context.Context, oid acl.ObjectIdentity, sid string, mask permission.Mask) error
	Revoke     func(ctx context.Context, oid acl.ObjectIdentity, sid string) error
	Create     func(ctx context.Context, oid acl.ObjectIdentity, owner string, parent *acl.ObjectIdentity, inherit bool) error
	Delete     func(ctx context.Context, oid acl.ObjectIdentity) error
}

func gate(ctx context.Context, actor identity.Principal, oid acl.ObjectIdentity, d MutateDeps) error {
	if actor.Anonymous() {
		return ErrAuthenticationRequired
	}
	ok, err := d.AdminCheck(ctx, actor, oid)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccessDenied
	}
	return nil
}

// RunGrant appends a granting entry after the admin gate passes.
func RunGrant(ctx context.Context, actor identity.Principal, oid acl.ObjectIdentity, sid string, mask permission.Mask, d MutateDeps) error {
	if err := gate(ctx, actor, oid, d); err != nil {
		return err
	}
	return d.Grant(ctx, oid, sid, mask)
}

// RunDeny appends a non-granting entry after the admin gate passes.
func RunDeny(ctx context.Context, actor identity.Principal, oid acl.ObjectIdentity, sid string, mask permission.Mask, d MutateDeps) error {
	if err := gate(ctx, actor, oid, d); err != nil {
		return err
	}
	return d.Deny(ctx, oid, sid, mask)
}

// RunRevoke removes all entries for sid after the admin gate passes.
// Revoking an absent grant is a no-op.
func RunRevoke(ctx context.Context, actor identity.Principal, oid acl.ObjectIdentity, sid string, d MutateDeps) error {
	if err := gate(ctx, actor, oid, d); err != nil {
		return err
	}
	return d.Revoke(ctx, oid, sid)
}

// RunCreateResource registers a new ACL node owned by the actor. Creation
// under a parent requires administration rights on the parent; root-level
// creation only requires an authenticated actor.
func RunCreateResource(ctx context.Context, actor identity.Principal, oid acl.ObjectIdentity, parent *acl.ObjectIdentity, inherit bool, d MutateDeps) error {
	if actor.Anonymous() {
		return ErrAuthenticationRequired
	}
	if parent != nil {
		if err := gate(ctx, actor, *parent, d); err != nil {
			return err
		}
	}
	return d.Create(ctx, oid, actor.ID, parent, inherit)
}

// RunDeleteResource removes the node after the admin gate passes.
func RunDeleteResource(ctx context.Context, actor identity.Principal, oid acl.ObjectIdentity, d MutateDeps) error {
	if err := gate(ctx, actor, oid, d); err != nil {
		return err
	}
	return d.Delete(ctx, oid)
}
