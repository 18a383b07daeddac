//go:build integration
// +build integration

package test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	goAuthz "github.com/MrEthical07/goAuthz"
	"github.com/MrEthical07/goAuthz/permission"
)

var (
	itAdmin = goAuthz.Principal{ID: "root", Authorities: []string{"ROLE_ADMIN"}}
	itAlice = goAuthz.Principal{ID: "alice", Authorities: []string{"ROLE_USER"}}
	itBob   = goAuthz.Principal{ID: "bob", Authorities: []string{"ROLE_USER"}}
)

func newBackend(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

// newIntegrationEngine builds a Redis-backed engine with the shared rule
// table. Call it again with the same client to simulate a restart.
func newIntegrationEngine(t *testing.T, rdb *redis.Client) *goAuthz.Engine {
	t.Helper()

	engine, err := goAuthz.New().
		WithRedis(rdb).
		WithRule("doc.read", goAuthz.Rule{RequiredMask: permission.Read}).
		WithRule("doc.write", goAuthz.Rule{RequiredMask: permission.Write}).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func mustCreate(t *testing.T, e *goAuthz.Engine, actor goAuthz.Principal, oid goAuthz.ResourceIdentity, parent *goAuthz.ResourceIdentity, inherit bool) {
	t.Helper()
	if err := e.CreateResource(context.Background(), actor, oid, parent, inherit); err != nil {
		t.Fatalf("create %s failed: %v", oid, err)
	}
}
