package goAuthz

import "context"

type contextKey int

const (
	clientIPKey contextKey = iota
	requestIDKey
)

// WithClientIP returns a context carrying the caller's IP. Audit events built
// from the returned context include it.
func WithClientIP(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, clientIPKey, ip)
}

// WithRequestID returns a context carrying a request correlation ID for audit
// events.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

func clientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
