package httpx

import (
	"net/http"
	"slices"
)

// RequireAnyRole permits the request only when the authenticated role is one
// of the listed roles. It must run after AuthnMiddleware: a missing identity
// is an authentication failure (401), an identity with the wrong role an
// authorization failure (403).
//
// The check is a pure predicate over already-verified claims. No I/O.
func RequireAnyRole(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" {
				WriteError(w, http.StatusUnauthorized, CodeAuthentication, "user role not found in token")
				return
			}

			if !slices.Contains(required, role) {
				WriteError(w, http.StatusForbidden, CodeAuthorization, "access denied, insufficient permission")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
