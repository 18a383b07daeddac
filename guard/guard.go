package guard

import (
	"context"
	"errors"
	"fmt"

	goAuthz "github.com/MrEthical07/goAuthz"
)

// Guard enforces engine decisions at method boundaries. The zero value is
// unusable; construct with [New].
type Guard struct {
	engine *goAuthz.Engine
}

// New creates a guard over the given engine.
func New(engine *goAuthz.Engine) (*Guard, error) {
	if engine == nil {
		return nil, errors.New("engine required")
	}
	return &Guard{engine: engine}, nil
}

// denyError maps a denied decision to the public error taxonomy without
// leaking which layer denied.
func denyError(d goAuthz.Decision) error {
	if d.Reason == goAuthz.ReasonAuthenticationRequired {
		return goAuthz.ErrAuthenticationRequired
	}
	if d.Err != nil {
		return fmt.Errorf("%w: %w", goAuthz.ErrAccessDenied, d.Err)
	}
	return goAuthz.ErrAccessDenied
}

// PreCheck authorizes operation against target before the protected call
// runs. A nil return means proceed.
func (g *Guard) PreCheck(ctx context.Context, p goAuthz.Principal, operation string, target *goAuthz.Resource) error {
	d := g.engine.Decide(ctx, p, operation, target)
	if !d.Granted {
		return denyError(d)
	}
	return nil
}

// PostCheck authorizes the value a call produced. A non-nil return means the
// result must be withheld from the caller even though the call already ran.
func (g *Guard) PostCheck(ctx context.Context, p goAuthz.Principal, operation string, result *goAuthz.Resource) error {
	d := g.engine.PostCheck(ctx, p, operation, result)
	if !d.Granted {
		return denyError(d)
	}
	return nil
}

// PreFilter reduces the input collection to the elements the principal may
// apply operation to, preserving order.
func (g *Guard) PreFilter(ctx context.Context, p goAuthz.Principal, operation string, items []goAuthz.Resource) []goAuthz.Resource {
	return g.engine.FilterCollection(ctx, p, operation, items)
}

// PostFilter reduces a returned collection before it reaches the caller.
// Identical semantics to PreFilter; the split exists so call sites read as
// what they enforce.
func (g *Guard) PostFilter(ctx context.Context, p goAuthz.Principal, operation string, items []goAuthz.Resource) []goAuthz.Resource {
	return g.engine.FilterCollection(ctx, p, operation, items)
}

// Around wraps fn between a pre-check on target and a post-check on fn's
// result. The post-check runs only when fn succeeds and returns a value; a
// post-check denial discards that value.
func (g *Guard) Around(ctx context.Context, p goAuthz.Principal, operation string, target *goAuthz.Resource, fn func(context.Context) (*goAuthz.Resource, error)) (*goAuthz.Resource, error) {
	if err := g.PreCheck(ctx, p, operation, target); err != nil {
		return nil, err
	}
	result, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	if result != nil {
		if err := g.PostCheck(ctx, p, operation, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}
