package goGuard

import "context"

type originContextKey struct{}

// WithOrigin attaches a host-side origin tag (transaction hash, receipt id,
// request id) to ctx. The Engine copies it into every audit event emitted
// for that invocation so audit trails can be joined back to host logs.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originContextKey{}, origin)
}

func originFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	origin, _ := ctx.Value(originContextKey{}).(string)
	return origin
}
