package http

import (
	"net/http"
	"time"
)

// refreshCookieName carries the refresh token. The cookie is the ONLY
// transport the refresh endpoints accept; refresh tokens never appear in
// response bodies or headers.
const refreshCookieName = "refreshToken"

// refreshCookiePath scopes the cookie to the auth endpoints so the token is
// not attached to every API request.
const refreshCookiePath = "/api/v1/auth"

func setRefreshCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
