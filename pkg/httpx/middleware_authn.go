package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

// AuthnMiddleware extracts a bearer access token from the Authorization
// header, verifies it and commits the identity claims to the request context
// before any downstream handler runs.
//
// The Authorization header is the only accepted transport. Query strings end
// up in access logs and browser history, and cookies are reserved for the
// refresh token, so neither is consulted.
//
// An expired token gets a distinct error code so clients know to attempt the
// refresh exchange instead of a full re-login. Every other verification
// failure collapses into one generic 401: the response must not reveal
// whether a token was tampered with, revoked, or never valid.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, CodeAuthentication, "access denied, no token provided")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
			if raw == "" {
				writeBearerError(w, CodeAuthentication, "access denied, no token provided")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				if errors.Is(err, jwtx.ErrExpired) {
					writeBearerError(w, CodeTokenExpired, "access token expired, request a new one with refresh token")
					return
				}

				// Never log the raw token, only the failure kind.
				log.Warn("access token verification failed", "err", err)
				writeBearerError(w, CodeAuthentication, "access token invalid")
				return
			}

			ctx = contextWithAuth(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeySubject, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// RFC 6750-style bearer challenge plus the standard JSON error envelope.
func writeBearerError(w http.ResponseWriter, code, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteError(w, http.StatusUnauthorized, code, message)
}
