// Package contexthelpers stores and retrieves request-scoped values shared
// between middleware, handlers, and templates.
package contexthelpers

import (
	"context"
	"net/http"
)

type contextKey string

const CurrentPathContextKey = contextKey("currentPath")
const CspNonceContextKey = contextKey("cspNonce")

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(CurrentPathContextKey).(string)
	if !ok {
		return ""
	}
	return currentPath
}

func CSPNonce(ctx context.Context) string {
	cspNonce, ok := ctx.Value(CspNonceContextKey).(string)
	if !ok {
		return ""
	}
	return cspNonce
}

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := context.WithValue(r.Context(), CurrentPathContextKey, currentPath)
	return r.WithContext(ctx)
}

func SetCSPNonce(r *http.Request, cspNonce string) *http.Request {
	ctx := context.WithValue(r.Context(), CspNonceContextKey, cspNonce)
	return r.WithContext(ctx)
}
