// Package policy holds the typed predicate combinators and the per-operation
// rule table the evaluator runs against. It deliberately replaces
// string-expression authorization rules: expressions are composed from named,
// registered predicate functions at startup, not parsed at runtime.
package policy

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MrEthical07/goAuthz/acl"
	"github.com/MrEthical07/goAuthz/identity"
	"github.com/MrEthical07/goAuthz/permission"
)

// Predicate is a pure authorization check. It must not mutate anything and
// must not panic on absent data: absence reads as false.
type Predicate func(ctx context.Context, p identity.Principal, res *acl.Resource) bool

// Expr is a boolean combination of named predicates.
type Expr interface {
	eval(ctx context.Context, p identity.Principal, res *acl.Resource, reg *Registry) bool
	names() []string
}

type namedExpr struct{ name string }

func (e namedExpr) eval(ctx context.Context, p identity.Principal, res *acl.Resource, reg *Registry) bool {
	fn, ok := reg.predicate(e.name)
	if !ok {
		return false // unknown predicate at runtime reads as deny
	}
	return fn(ctx, p, res)
}

func (e namedExpr) names() []string { return []string{e.name} }

type andExpr struct{ exprs []Expr }

func (e andExpr) eval(ctx context.Context, p identity.Principal, res *acl.Resource, reg *Registry) bool {
	for _, sub := range e.exprs {
		if !sub.eval(ctx, p, res, reg) {
			return false
		}
	}
	return true
}

func (e andExpr) names() []string { return collectNames(e.exprs) }

type orExpr struct{ exprs []Expr }

func (e orExpr) eval(ctx context.Context, p identity.Principal, res *acl.Resource, reg *Registry) bool {
	for _, sub := range e.exprs {
		if sub.eval(ctx, p, res, reg) {
			return true
		}
	}
	return false
}

func (e orExpr) names() []string { return collectNames(e.exprs) }

type notExpr struct{ expr Expr }

func (e notExpr) eval(ctx context.Context, p identity.Principal, res *acl.Resource, reg *Registry) bool {
	return !e.expr.eval(ctx, p, res, reg)
}

func (e notExpr) names() []string { return e.expr.names() }

func collectNames(exprs []Expr) []string {
	var out []string
	for _, e := range exprs {
		out = append(out, e.names()...)
	}
	return out
}

// Named references a registered predicate by name.
func Named(name string) Expr { return namedExpr{name: name} }

// And is true when every sub-expression is true. And() is true.
func And(exprs ...Expr) Expr { return andExpr{exprs: exprs} }

// Or is true when any sub-expression is true. Or() is false.
func Or(exprs ...Expr) Expr { return orExpr{exprs: exprs} }

// Not negates an expression.
func Not(expr Expr) Expr { return notExpr{expr: expr} }

// Registry maps predicate names to functions. Populated during engine
// construction, frozen at build.
type Registry struct {
	mu         sync.RWMutex
	predicates map[string]Predicate
	frozen     bool
}

// ErrRegistryFrozen is returned by Register after Freeze. It is the same
// sentinel the permission registry uses, so one errors.Is covers every
// frozen-registry failure.
var ErrRegistryFrozen = permission.ErrRegistryFrozen

// NewRegistry creates an empty predicate registry.
func NewRegistry() *Registry {
	return &Registry{predicates: make(map[string]Predicate)}
}

// Register binds a predicate function to a name.
func (r *Registry) Register(name string, fn Predicate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRegistryFrozen
	}
	if name == "" {
		return errors.New("predicate name cannot be empty")
	}
	if fn == nil {
		return errors.New("predicate function cannot be nil")
	}
	if _, exists := r.predicates[name]; exists {
		return fmt.Errorf("predicate already registered: %s", name)
	}
	r.predicates[name] = fn
	return nil
}

func (r *Registry) predicate(name string) (Predicate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.predicates[name]
	return fn, ok
}

// Freeze prevents further registrations.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Eval evaluates expr against the registry. A nil expression is false.
func (r *Registry) Eval(ctx context.Context, expr Expr, p identity.Principal, res *acl.Resource) bool {
	if expr == nil {
		return false
	}
	return expr.eval(ctx, p, res, r)
}

// Validate reports the first predicate name referenced by expr that has no
// registration. Used at build time so misconfiguration is fatal at startup
// rather than a silent runtime deny.
func (r *Registry) Validate(expr Expr) error {
	if expr == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range expr.names() {
		if _, ok := r.predicates[name]; !ok {
			return fmt.Errorf("predicate not registered: %s", name)
		}
	}
	return nil
}
