package guard

import (
	"context"
	"net"
	"net/http"
	"strings"

	goAuthz "github.com/MrEthical07/goAuthz"
	"github.com/MrEthical07/goAuthz/identity"
)

type principalContextKey struct{}

// PrincipalFromContext returns the principal injected by [Middleware].
func PrincipalFromContext(ctx context.Context) (goAuthz.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(goAuthz.Principal)
	return p, ok
}

// Middleware authorizes every request against the named operation: bearer
// token extraction, identity resolution, then one engine decision. Resolution
// failures and authentication denials map to 401, everything else denied maps
// to 403. The resolved principal is injected into the request context.
func Middleware(engine *goAuthz.Engine, resolver identity.Resolver, operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil || resolver == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := requestContext(r)

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			p, err := resolver.Resolve(ctx, token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			d := engine.Decide(ctx, p, operation, nil)
			if !d.Granted {
				if d.Reason == goAuthz.ReasonAuthenticationRequired {
					http.Error(w, "unauthorized", http.StatusUnauthorized)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx = context.WithValue(ctx, principalContextKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestContext threads client IP and request ID into the context so audit
// events carry them.
func requestContext(r *http.Request) context.Context {
	ctx := r.Context()
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ctx = goAuthz.WithClientIP(ctx, host)
	} else if r.RemoteAddr != "" {
		ctx = goAuthz.WithClientIP(ctx, r.RemoteAddr)
	}
	if id := r.Header.Get("X-Request-ID"); id != "" {
		ctx = goAuthz.WithRequestID(ctx, id)
	}
	return ctx
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
