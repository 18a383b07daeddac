package flows

import (
	"context"

	"github.com/MrEthical07/goAuthz/acl"
	"github.com/MrEthical07/goAuthz/identity"
)

// FilterDeps wires collection filtering to the decision flow.
type FilterDeps struct {
	Decide func(ctx context.Context, p identity.Principal, operation string, res *acl.Resource) Decision
}

// RunFilter keeps the items the principal may act on under the operation's
// rule, preserving the original order. Items whose decision is a fault-deny
// (storage outage, missing node) are removed like any other deny: filtering
// fails closed per element instead of failing the whole call.
func RunFilter(ctx context.Context, p identity.Principal, operation string, items []acl.Resource, d FilterDeps) []acl.Resource {
	if len(items) == 0 {
		return nil
	}
	kept := make([]acl.Resource, 0, len(items))
	for i := range items {
		decision := d.Decide(ctx, p, operation, &items[i])
		if decision.Granted {
			kept = append(kept, items[i])
		}
	}
	return kept
}
