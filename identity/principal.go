package identity

import "context"

// Principal is an authenticated actor: an identifier plus its authority
// tokens (for example ROLE_ADMIN or WRITE_DOCUMENTS). A Principal is
// immutable for the duration of a request.
type Principal struct {
	ID          string
	Authorities []string
}

// Anonymous reports whether the principal carries no identity. Anonymous
// principals fail every authenticated check.
func (p Principal) Anonymous() bool {
	return p.ID == ""
}

// HasAuthority reports whether the principal holds the given authority token.
func (p Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// HasAnyAuthority reports whether the principal holds at least one of the
// given authority tokens. An empty candidate list is false.
func (p Principal) HasAnyAuthority(authorities ...string) bool {
	for _, a := range authorities {
		if p.HasAuthority(a) {
			return true
		}
	}
	return false
}

// HasAllAuthorities reports whether the principal holds every one of the
// given authority tokens. An empty list is true.
func (p Principal) HasAllAuthorities(authorities ...string) bool {
	for _, a := range authorities {
		if !p.HasAuthority(a) {
			return false
		}
	}
	return true
}

// Sids returns the identifiers an ACL entry may match against: the principal
// ID first, then each authority in declared order.
func (p Principal) Sids() []string {
	sids := make([]string, 0, 1+len(p.Authorities))
	if p.ID != "" {
		sids = append(sids, p.ID)
	}
	return append(sids, p.Authorities...)
}

// Resolver turns an opaque credential token into a [Principal]. Implemented
// per identity source and injected explicitly.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Principal, error)
}
