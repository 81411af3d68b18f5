package daemon

import (
	"net/http"
	"strings"

	"convertx/internal/config"
)

// ownerFunc resolves a request to an owner identity, or "" when the
// request carries no valid token.
type ownerFunc func(r *http.Request) string

// ownerResolver builds an ownerFunc over the configured token table.
func ownerResolver(cfg *config.Config) ownerFunc {
	return func(r *http.Request) string {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			return ""
		}
		owner, ok := cfg.OwnerForToken(strings.TrimPrefix(auth, "Bearer "))
		if !ok {
			return ""
		}
		return owner
	}
}

// requireOwner wraps a handler so it only runs for authenticated callers,
// passing the resolved owner through.
func requireOwner(resolve ownerFunc, next func(w http.ResponseWriter, r *http.Request, owner string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := resolve(r)
		if owner == "" {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next(w, r, owner)
	}
}
