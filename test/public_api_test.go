package test

import (
	"context"
	"net/http"
	"testing"

	goAuthz "github.com/MrEthical07/goAuthz"
	"github.com/MrEthical07/goAuthz/guard"
	"github.com/MrEthical07/goAuthz/identity"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = goAuthz.New
	_ = goAuthz.DefaultConfig

	var _ *goAuthz.Engine
	var _ goAuthz.Config
	var _ goAuthz.Principal
	var _ goAuthz.ResourceIdentity
	var _ goAuthz.Resource
	var _ goAuthz.Decision
	var _ goAuthz.Rule
	var _ goAuthz.Expr
	var _ goAuthz.Predicate
	var _ goAuthz.PermissionMask
	var _ goAuthz.AuditEvent
	var _ goAuthz.AuditSink

	var _ error = goAuthz.ErrAuthenticationRequired
	var _ error = goAuthz.ErrAccessDenied
	var _ error = goAuthz.ErrResourceNotFound
	var _ error = goAuthz.ErrResourceExists
	var _ error = goAuthz.ErrStorageUnavailable
	var _ error = goAuthz.ErrUnknownPermission
	var _ error = goAuthz.ErrEngineNotReady

	var _ func(string) goAuthz.Expr = goAuthz.Named
	var _ func(...goAuthz.Expr) goAuthz.Expr = goAuthz.PredAnd
	var _ func(...goAuthz.Expr) goAuthz.Expr = goAuthz.PredOr
	var _ func(goAuthz.Expr) goAuthz.Expr = goAuthz.PredNot

	var _ func(*goAuthz.Engine, identity.Resolver, string) func(http.Handler) http.Handler = guard.Middleware

	var _ func(*goAuthz.Engine, context.Context, goAuthz.Principal, string, *goAuthz.Resource) goAuthz.Decision = (*goAuthz.Engine).Decide
	var _ func(*goAuthz.Engine, context.Context, goAuthz.Principal, goAuthz.ResourceIdentity, string, goAuthz.PermissionMask) error = (*goAuthz.Engine).GrantPermission
	var _ func(*goAuthz.Engine, context.Context, goAuthz.Principal, goAuthz.ResourceIdentity, string) error = (*goAuthz.Engine).RevokePermission
	var _ func(*goAuthz.Engine, context.Context, goAuthz.Principal, string, []goAuthz.Resource) []goAuthz.Resource = (*goAuthz.Engine).FilterCollection
}
