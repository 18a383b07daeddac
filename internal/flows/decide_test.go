package flows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrEthical07/goAuthz/acl"
	"github.com/MrEthical07/goAuthz/identity"
	"github.com/MrEthical07/goAuthz/internal/policy"
	"github.com/MrEthical07/goAuthz/permission"
)

type decideFixture struct {
	rules      map[string]policy.Rule
	registry   *policy.Registry
	aclGranted bool
	aclErr     error
	aclCalls   int
}

func (f *decideFixture) deps() DecideDeps {
	return DecideDeps{
		RuleFor: func(op string) (policy.Rule, bool) {
			rule, ok := f.rules[op]
			return rule, ok
		},
		EvalPredicate: func(ctx context.Context, expr policy.Expr, p identity.Principal, res *acl.Resource) bool {
			return f.registry.Eval(ctx, expr, p, res)
		},
		ACLCheck: func(context.Context, acl.ObjectIdentity, identity.Principal, permission.Mask) (bool, error) {
			f.aclCalls++
			return f.aclGranted, f.aclErr
		},
		Now:        time.Now,
		NewEventID: func() string { return "evt-1" },
	}
}

func newDecideFixture(t *testing.T) *decideFixture {
	t.Helper()
	reg := policy.NewRegistry()
	err := reg.Register("is-owner", func(_ context.Context, p identity.Principal, res *acl.Resource) bool {
		return res != nil && res.Owner == p.ID
	})
	if err != nil {
		t.Fatal(err)
	}
	return &decideFixture{
		rules:    make(map[string]policy.Rule),
		registry: reg,
	}
}

var (
	admin  = identity.Principal{ID: "root", Authorities: []string{"ROLE_ADMIN"}}
	member = identity.Principal{ID: "user1", Authorities: []string{"ROLE_USER"}}
	docRes = &acl.Resource{Identity: acl.ObjectIdentity{Type: "Document", ID: "1"}, Owner: "user1"}
)

func TestDecideAuthenticationRequired(t *testing.T) {
	f := newDecideFixture(t)
	f.rules["document.read"] = policy.Rule{RequiredMask: permission.Read}

	d := RunDecide(context.Background(), identity.Principal{}, "document.read", docRes, f.deps())
	if d.Granted || d.Reason != ReasonAuthenticationRequired {
		t.Fatalf("anonymous principal: %+v", d)
	}
}

func TestDecideUnknownOperationDenies(t *testing.T) {
	f := newDecideFixture(t)

	d := RunDecide(context.Background(), member, "no.such.op", nil, f.deps())
	if d.Granted || d.Reason != ReasonUnknownOperation {
		t.Fatalf("unknown operation must deny: %+v", d)
	}
}

func TestDecideMandatoryAuthorityLayer(t *testing.T) {
	f := newDecideFixture(t)
	f.rules["admin.panel"] = policy.Rule{RequireAuthorities: []string{"ROLE_ADMIN"}}

	d := RunDecide(context.Background(), member, "admin.panel", nil, f.deps())
	if d.Granted || d.Reason != ReasonDeniedAuthority {
		t.Fatalf("missing mandatory authority must deny: %+v", d)
	}

	d = RunDecide(context.Background(), admin, "admin.panel", nil, f.deps())
	if !d.Granted || d.Reason != ReasonGrantedAuthority {
		t.Fatalf("authority-only rule should grant: %+v", d)
	}
}

func TestDecideAdminBypassSkipsACL(t *testing.T) {
	f := newDecideFixture(t)
	f.aclGranted = false
	f.rules["document.delete"] = policy.Rule{
		BypassAuthorities: []string{"ROLE_ADMIN"},
		RequiredMask:      permission.Delete,
	}

	d := RunDecide(context.Background(), admin, "document.delete", docRes, f.deps())
	if !d.Granted || d.Reason != ReasonGrantedAuthority {
		t.Fatalf("admin bypass failed: %+v", d)
	}
	if f.aclCalls != 0 {
		t.Fatalf("ACL consulted despite bypass: %d calls", f.aclCalls)
	}
}

func TestDecidePredicatePath(t *testing.T) {
	f := newDecideFixture(t)
	f.rules["document.update"] = policy.Rule{Predicate: policy.Named("is-owner")}

	d := RunDecide(context.Background(), member, "document.update", docRes, f.deps())
	if !d.Granted || d.Reason != ReasonGrantedPredicate {
		t.Fatalf("owner predicate should grant: %+v", d)
	}

	stranger := identity.Principal{ID: "user9"}
	d = RunDecide(context.Background(), stranger, "document.update", docRes, f.deps())
	if d.Granted || d.Reason != ReasonDenied {
		t.Fatalf("non-owner should be denied with a coarse reason: %+v", d)
	}
}

func TestDecideACLPath(t *testing.T) {
	f := newDecideFixture(t)
	f.rules["document.read"] = policy.Rule{RequiredMask: permission.Read}

	f.aclGranted = true
	d := RunDecide(context.Background(), member, "document.read", docRes, f.deps())
	if !d.Granted || d.Reason != ReasonGrantedACL {
		t.Fatalf("acl grant: %+v", d)
	}
	if d.RequiredMask != permission.Read {
		t.Fatalf("decision must carry the required mask, got %v", d.RequiredMask)
	}

	f.aclGranted = false
	d = RunDecide(context.Background(), member, "document.read", docRes, f.deps())
	if d.Granted || d.Reason != ReasonDenied {
		t.Fatalf("acl deny: %+v", d)
	}
}

func TestDecideInstanceScopedWithoutResourceDenies(t *testing.T) {
	f := newDecideFixture(t)
	f.aclGranted = true
	f.rules["document.read"] = policy.Rule{RequiredMask: permission.Read}

	d := RunDecide(context.Background(), member, "document.read", nil, f.deps())
	if d.Granted {
		t.Fatalf("instance-scoped op without target must deny: %+v", d)
	}
	if f.aclCalls != 0 {
		t.Fatal("ACL must not be consulted without a target")
	}
}

func TestDecideFaultsFailClosed(t *testing.T) {
	f := newDecideFixture(t)
	f.rules["document.read"] = policy.Rule{RequiredMask: permission.Read}

	f.aclErr = acl.ErrResourceNotFound
	d := RunDecide(context.Background(), member, "document.read", docRes, f.deps())
	if d.Granted || d.Reason != ReasonResourceNotFound || !errors.Is(d.Err, acl.ErrResourceNotFound) {
		t.Fatalf("missing resource classification: %+v", d)
	}

	f.aclErr = acl.ErrStorageUnavailable
	d = RunDecide(context.Background(), member, "document.read", docRes, f.deps())
	if d.Granted || d.Reason != ReasonStorageUnavailable || !errors.Is(d.Err, acl.ErrStorageUnavailable) {
		t.Fatalf("storage fault must deny and surface the fault: %+v", d)
	}
}

func TestDecideAlternativePathsAreORed(t *testing.T) {
	f := newDecideFixture(t)
	f.aclGranted = false
	f.rules["document.update"] = policy.Rule{
		Predicate:    policy.Named("is-owner"),
		RequiredMask: permission.Write,
	}

	// Owner wins through the predicate even though the ACL denies.
	d := RunDecide(context.Background(), member, "document.update", docRes, f.deps())
	if !d.Granted || d.Reason != ReasonGrantedPredicate {
		t.Fatalf("predicate path should win: %+v", d)
	}

	// Non-owner falls through to the ACL, which grants.
	f.aclGranted = true
	stranger := identity.Principal{ID: "user9"}
	d = RunDecide(context.Background(), stranger, "document.update", docRes, f.deps())
	if !d.Granted || d.Reason != ReasonGrantedACL {
		t.Fatalf("acl path should win for non-owner: %+v", d)
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	granted := map[string]bool{"1": true, "4": true}
	deps := FilterDeps{
		Decide: func(_ context.Context, _ identity.Principal, _ string, res *acl.Resource) Decision {
			return Decision{Granted: granted[res.Identity.ID]}
		},
	}

	items := make([]acl.Resource, 0, 5)
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		items = append(items, acl.Resource{Identity: acl.ObjectIdentity{Type: "Document", ID: id}})
	}

	kept := RunFilter(context.Background(), member, "document.read", items, deps)
	if len(kept) != 2 || kept[0].Identity.ID != "1" || kept[1].Identity.ID != "4" {
		t.Fatalf("filter result wrong: %+v", kept)
	}

	if out := RunFilter(context.Background(), member, "document.read", nil, deps); out != nil {
		t.Fatalf("empty input should yield nil, got %v", out)
	}
}

func TestMutateGate(t *testing.T) {
	var granted bool
	var checkErr error
	deps := MutateDeps{
		AdminCheck: func(context.Context, identity.Principal, acl.ObjectIdentity) (bool, error) {
			return granted, checkErr
		},
		Grant: func(context.Context, acl.ObjectIdentity, string, permission.Mask) error {
			return nil
		},
		Revoke: func(context.Context, acl.ObjectIdentity, string) error { return nil },
	}
	oid := acl.ObjectIdentity{Type: "Document", ID: "1"}
	ctx := context.Background()

	if err := RunGrant(ctx, identity.Principal{}, oid, "user2", permission.Read, deps); !errors.Is(err, ErrAuthenticationRequired) {
		t.Fatalf("anonymous actor: %v", err)
	}

	granted = false
	if err := RunGrant(ctx, member, oid, "user2", permission.Read, deps); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("non-admin actor: %v", err)
	}

	granted = true
	if err := RunGrant(ctx, member, oid, "user2", permission.Read, deps); err != nil {
		t.Fatalf("admin actor: %v", err)
	}

	granted = false
	checkErr = acl.ErrStorageUnavailable
	if err := RunRevoke(ctx, member, oid, "user2", deps); !errors.Is(err, acl.ErrStorageUnavailable) {
		t.Fatalf("gate fault must propagate: %v", err)
	}
}
