package flows

import (
	"context"

	"github.com/MrEthical07/goAuthz/acl"
	"github.com/MrEthical07/goAuthz/identity"
	"github.com/MrEthical07/goAuthz/permission"
)

// Deps groups flow dependency sets. The root engine builds this once and
// delegates request methods to the matching flow implementation.
type Deps struct {
	Decide DecideDeps
	Mutate MutateDeps
	Filter FilterDeps
}

// Service is the centralized flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Decide.RuleFor != nil
}

func (s Service) Decide(ctx context.Context, p identity.Principal, operation string, res *acl.Resource) Decision {
	return RunDecide(ctx, p, operation, res, s.deps.Decide)
}

func (s Service) Grant(ctx context.Context, actor identity.Principal, oid acl.ObjectIdentity, sid string, mask permission.Mask) error {
	return RunGrant(ctx, actor, oid, sid, mask, s.deps.Mutate)
}

func (s Service) Deny(ctx context.Context, actor identity.Principal, oid acl.ObjectIdentity, sid string, mask permission.Mask) error {
	return RunDeny(ctx, actor, oid, sid, mask, s.deps.Mutate)
}

func (s Service) Revoke(ctx context.Context, actor identity.Principal, oid acl.ObjectIdentity, sid string) error {
	return RunRevoke(ctx, actor, oid, sid, s.deps.Mutate)
}

func (s Service) CreateResource(ctx context.Context, actor identity.Principal, oid acl.ObjectIdentity, parent *acl.ObjectIdentity, inherit bool) error {
	return RunCreateResource(ctx, actor, oid, parent, inherit, s.deps.Mutate)
}

func (s Service) DeleteResource(ctx context.Context, actor identity.Principal, oid acl.ObjectIdentity) error {
	return RunDeleteResource(ctx, actor, oid, s.deps.Mutate)
}

func (s Service) Filter(ctx context.Context, p identity.Principal, operation string, items []acl.Resource) []acl.Resource {
	return RunFilter(ctx, p, operation, items, s.deps.Filter)
}
