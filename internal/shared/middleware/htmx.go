// Package middleware holds HTTP middleware shared by the dashboard pages.
package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const htmxKey contextKey = "htmx"

// HTMX marks requests issued by htmx so pages can answer with a fragment
// instead of the full layout.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		isHTMX := r.Header.Get("HX-Request") == "true"
		next.ServeHTTP(w, r.WithContext(WithHTMX(r.Context(), isHTMX)))
	})
}

func WithHTMX(ctx context.Context, on bool) context.Context {
	return context.WithValue(ctx, htmxKey, on)
}

// IsHTMX reports whether ctx belongs to an htmx request.
func IsHTMX(ctx context.Context) bool {
	v, _ := ctx.Value(htmxKey).(bool)
	return v
}
