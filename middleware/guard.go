package middleware

import (
	"context"
	"errors"
	"net/http"

	goGuard "github.com/MrEthical07/goGuard"
)

// CallerResolver extracts the acting account from a request. Returning
// an empty string rejects the request as unauthenticated.
type CallerResolver func(r *http.Request) string

type callerContextKey struct{}

type decisionContextKey struct{}

// CallerFromContext returns the caller injected by Guard.
func CallerFromContext(ctx context.Context) (string, bool) {
	caller, ok := ctx.Value(callerContextKey{}).(string)
	return caller, ok
}

// DecisionFromContext returns the decision injected by Guard.
func DecisionFromContext(ctx context.Context) (goGuard.Decision, bool) {
	d, ok := ctx.Value(decisionContextKey{}).(goGuard.Decision)
	return d, ok
}

// HeaderCaller resolves the caller from a request header.
func HeaderCaller(name string) CallerResolver {
	return func(r *http.Request) string {
		return r.Header.Get(name)
	}
}

// Guard enforces a Requirement on every request passing through it.
// Paused features answer 503 so clients can distinguish a temporary
// halt from a permission failure.
func Guard(engine *goGuard.Engine, resolve CallerResolver, req goGuard.Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil || resolve == nil {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			caller := resolve(r)
			if caller == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			decision, err := engine.Check(r.Context(), caller, req)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			if !decision.Allowed {
				if errors.Is(decision.Reason, goGuard.ErrPaused) {
					http.Error(w, "feature paused", http.StatusServiceUnavailable)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), callerContextKey{}, caller)
			ctx = context.WithValue(ctx, decisionContextKey{}, decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
