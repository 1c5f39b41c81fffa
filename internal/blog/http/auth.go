package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

const (
	minPasswordLength = 8
	maxUsernameLength = 20
)

// AuthHandler serves registration, login and the refresh-token lifecycle.
// Access tokens travel in response bodies; refresh tokens travel only in an
// HTTP-only cookie scoped to these endpoints.
type AuthHandler struct {
	AuthService  *service.AuthService
	TokenService *service.TokenService

	RefreshTTL    time.Duration
	SecureCookies bool
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"` // seconds
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "invalid JSON body")
		return
	}

	if msg := validateRegister(req); msg != "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, msg)
		return
	}

	u, pair, err := h.AuthService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.RefreshTTL, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, authResponse{
		User:        toUserResponse(u),
		AccessToken: pair.AccessToken,
		ExpiresIn:   int64(pair.ExpiresIn.Seconds()),
	})
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "invalid JSON body")
		return
	}

	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, httpx.CodeBadRequest, "email and password are required")
		return
	}

	u, pair, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.RefreshTTL, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, authResponse{
		User:        toUserResponse(u),
		AccessToken: pair.AccessToken,
		ExpiresIn:   int64(pair.ExpiresIn.Seconds()),
	})
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"` // seconds
}

// HandleRefresh exchanges the cookie's refresh token for a new pair. The old
// refresh token is rotated out; the cookie is replaced with the new one.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.CodeAuthentication, "refresh token required")
		return
	}

	pair, err := h.TokenService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		clearRefreshCookie(w, h.SecureCookies)
		writeServiceError(w, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, h.RefreshTTL, h.SecureCookies)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, refreshResponse{
		AccessToken: pair.AccessToken,
		ExpiresIn:   int64(pair.ExpiresIn.Seconds()),
	})
}

// HandleLogout revokes the cookie's refresh token and clears the cookie.
// Idempotent: logging out twice succeeds both times.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	if cookie, err := r.Cookie(refreshCookieName); err == nil && cookie.Value != "" {
		if err := h.TokenService.Logout(r.Context(), cookie.Value); err != nil {
			writeServiceError(w, err)
			return
		}
	}

	clearRefreshCookie(w, h.SecureCookies)
	l.Debug("user logged out", "subject", httpx.SubjectFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func validateRegister(req registerRequest) string {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	switch {
	case username == "":
		return "username is required"
	case len(username) > maxUsernameLength:
		return "username must be at most 20 characters"
	case email == "" || !strings.Contains(email, "@"):
		return "a valid email is required"
	case len(req.Password) < minPasswordLength:
		return "password must be at least 8 characters"
	default:
		return ""
	}
}
