package guard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	goAuthz "github.com/MrEthical07/goAuthz"
	"github.com/MrEthical07/goAuthz/identity"
	"github.com/MrEthical07/goAuthz/permission"
)

var (
	owner  = goAuthz.Principal{ID: "alice", Authorities: []string{"ROLE_USER"}}
	reader = goAuthz.Principal{ID: "bob", Authorities: []string{"ROLE_USER"}}
)

func testGuard(t *testing.T) (*Guard, *goAuthz.Engine) {
	t.Helper()

	engine, err := goAuthz.New().
		WithRule("document.read", goAuthz.Rule{RequiredMask: permission.Read}).
		WithRule("document.view", goAuthz.Rule{
			Predicate: goAuthz.Named("is-owner"),
		}).
		WithRule("api.access", goAuthz.Rule{RequireAuthorities: []string{"ROLE_USER"}}).
		WithPredicate("is-owner", func(_ context.Context, p goAuthz.Principal, res *goAuthz.Resource) bool {
			return res != nil && res.Owner == p.ID
		}).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(engine.Close)

	g, err := New(engine)
	if err != nil {
		t.Fatal(err)
	}
	return g, engine
}

func createDoc(t *testing.T, e *goAuthz.Engine, id string) *goAuthz.Resource {
	t.Helper()
	oid := goAuthz.ResourceIdentity{Type: "Document", ID: id}
	if err := e.CreateResource(context.Background(), owner, oid, nil, false); err != nil {
		t.Fatal(err)
	}
	return &goAuthz.Resource{Identity: oid, Owner: "alice"}
}

func TestPreCheck(t *testing.T) {
	g, e := testGuard(t)
	ctx := context.Background()
	res := createDoc(t, e, "1")

	if err := g.PreCheck(ctx, owner, "document.read", res); err != nil {
		t.Fatalf("owner pre-check: %v", err)
	}
	if err := g.PreCheck(ctx, reader, "document.read", res); !errors.Is(err, goAuthz.ErrAccessDenied) {
		t.Fatalf("reader pre-check: %v", err)
	}
	if err := g.PreCheck(ctx, goAuthz.Principal{}, "document.read", res); !errors.Is(err, goAuthz.ErrAuthenticationRequired) {
		t.Fatalf("anonymous pre-check: %v", err)
	}
}

func TestPostCheckWithholdsResult(t *testing.T) {
	g, e := testGuard(t)
	ctx := context.Background()
	res := createDoc(t, e, "1")

	if err := g.PostCheck(ctx, owner, "document.view", res); err != nil {
		t.Fatalf("owner post-check: %v", err)
	}
	// The call already ran; the non-owner just never sees the result.
	if err := g.PostCheck(ctx, reader, "document.view", res); !errors.Is(err, goAuthz.ErrAccessDenied) {
		t.Fatalf("reader post-check: %v", err)
	}
}

func TestAroundRunsPostCheckOnResult(t *testing.T) {
	g, e := testGuard(t)
	ctx := context.Background()
	mine := createDoc(t, e, "1")
	theirs := &goAuthz.Resource{
		Identity: goAuthz.ResourceIdentity{Type: "Document", ID: "2"},
		Owner:    "bob",
	}

	// The pre-check target is owned by alice, but the call resolves to a
	// resource owned by someone else: the post-check withholds it.
	calls := 0
	out, err := g.Around(ctx, owner, "document.view", mine, func(context.Context) (*goAuthz.Resource, error) {
		calls++
		return theirs, nil
	})
	if !errors.Is(err, goAuthz.ErrAccessDenied) || out != nil {
		t.Fatalf("invoke: %v %v", out, err)
	}
	if calls != 1 {
		t.Fatalf("fn calls: %d", calls)
	}

	out, err = g.Around(ctx, owner, "document.view", mine, func(context.Context) (*goAuthz.Resource, error) {
		return mine, nil
	})
	if err != nil || out != mine {
		t.Fatalf("owner invoke: %v %v", out, err)
	}
}

func TestAroundPreCheckShortCircuits(t *testing.T) {
	g, e := testGuard(t)
	res := createDoc(t, e, "1")

	called := false
	_, err := g.Around(context.Background(), reader, "document.read", res, func(context.Context) (*goAuthz.Resource, error) {
		called = true
		return nil, nil
	})
	if !errors.Is(err, goAuthz.ErrAccessDenied) {
		t.Fatalf("invoke: %v", err)
	}
	if called {
		t.Fatal("fn ran despite pre-check denial")
	}
}

func TestAroundPropagatesCallError(t *testing.T) {
	g, e := testGuard(t)
	res := createDoc(t, e, "1")

	boom := errors.New("boom")
	_, err := g.Around(context.Background(), owner, "document.read", res, func(context.Context) (*goAuthz.Resource, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("invoke: %v", err)
	}
}

func TestFilters(t *testing.T) {
	g, e := testGuard(t)
	ctx := context.Background()

	items := []goAuthz.Resource{*createDoc(t, e, "1"), *createDoc(t, e, "2")}
	if err := e.GrantPermission(ctx, owner, items[1].Identity, "bob", permission.Read); err != nil {
		t.Fatal(err)
	}

	kept := g.PreFilter(ctx, reader, "document.read", items)
	if len(kept) != 1 || kept[0].Identity.ID != "2" {
		t.Fatalf("pre-filter: %+v", kept)
	}
	kept = g.PostFilter(ctx, owner, "document.read", items)
	if len(kept) != 2 {
		t.Fatalf("post-filter: %+v", kept)
	}
}

func TestMiddleware(t *testing.T) {
	_, e := testGuard(t)
	resolver := identity.StaticResolver{
		"tok-bob": reader,
	}

	var gotPrincipal goAuthz.Principal
	handler := Middleware(e, resolver, "api.access")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPrincipal, _ = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer tok-bob", http.StatusNoContent},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Basic abc", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/docs", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status %d, want %d", rec.Code, tc.status)
			}
		})
	}
	if gotPrincipal.ID != "bob" {
		t.Fatalf("principal not injected: %+v", gotPrincipal)
	}
}

func TestMiddlewareForbidden(t *testing.T) {
	_, e := testGuard(t)
	stranger := goAuthz.Principal{ID: "eve", Authorities: []string{"ROLE_NOBODY"}}
	resolver := identity.StaticResolver{"tok-eve": stranger}

	handler := Middleware(e, resolver, "api.access")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached despite denial")
	}))

	req := httptest.NewRequest(http.MethodGet, "/docs", nil)
	req.Header.Set("Authorization", "Bearer tok-eve")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}
}
