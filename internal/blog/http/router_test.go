package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inkwellhq/inkwell/internal/blog/service"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/internal/blog/store/drivers/sqlite"
	"github.com/inkwellhq/inkwell/pkg/httpx"
	"github.com/inkwellhq/inkwell/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "inkwell-test"

var (
	testAccessSecret  = []byte("access-secret-0123456789abcdef01")
	testRefreshSecret = []byte("refresh-secret-0123456789abcdef0")
)

type testEnv struct {
	router *Router
	store  store.Store
	tokens *service.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	accessSigner, err := jwtx.NewSignerHMAC("HS256", testAccessSecret)
	require.NoError(t, err)
	refreshSigner, err := jwtx.NewSignerHMAC("HS256", testRefreshSecret)
	require.NoError(t, err)
	accessVerifier, err := jwtx.NewVerifierHMAC(testAccessSecret, []string{"HS256"}, testIssuer, []string{jwtx.AudienceAccess})
	require.NoError(t, err)
	refreshVerifier, err := jwtx.NewVerifierHMAC(testRefreshSecret, []string{"HS256"}, testIssuer, []string{jwtx.AudienceRefresh})
	require.NoError(t, err)

	tokens := &service.TokenService{
		Store:           st,
		AccessSigner:    accessSigner,
		AccessVerifier:  accessVerifier,
		RefreshSigner:   refreshSigner,
		RefreshVerifier: refreshVerifier,
		Issuer:          testIssuer,
		AccessTTL:       15 * time.Minute,
		RefreshTTL:      7 * 24 * time.Hour,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := NewRouter(accessVerifier, "test", tokens.RefreshTTL, false, st, logger)
	router.AuthService = &service.AuthService{
		Store:       st,
		Tokens:      tokens,
		AdminEmails: []string{"admin@example.com"},
	}
	router.TokenService = tokens
	router.UserService = &service.UserService{Store: st}
	router.BlogService = service.NewBlogService(st)
	router.CommentService = service.NewCommentService(st)
	router.ApplyRoutes()

	return &testEnv{router: router, store: st, tokens: tokens}
}

// do runs a request through the router and decodes the JSON body into out
// when out is non-nil.
func (e *testEnv) do(t *testing.T, method, path, body, accessToken string, cookies []*http.Cookie, out any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:1234"
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}
	return rec
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	t.Fatal("no refresh cookie in response")
	return nil
}

func (e *testEnv) register(t *testing.T, username, email, password string) (authResponse, *http.Cookie) {
	t.Helper()
	var resp authResponse
	rec := e.do(t, http.MethodPost, "/api/v1/auth/register",
		`{"username":"`+username+`","email":"`+email+`","password":"`+password+`"}`,
		"", nil, &resp)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return resp, refreshCookie(t, rec)
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, cookie := env.register(t, "alice", "alice@example.com", "super-secret-pw")
	require.Equal(t, "alice", resp.User.Username)
	require.Equal(t, "user", resp.User.Role)
	require.NotEmpty(t, resp.AccessToken)

	t.Run("refresh cookie is http-only and scoped to auth", func(t *testing.T) {
		require.True(t, cookie.HttpOnly)
		require.Equal(t, refreshCookiePath, cookie.Path)
		require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	})

	t.Run("refresh token never appears in the response body", func(t *testing.T) {
		var raw map[string]any
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login",
			`{"email":"alice@example.com","password":"super-secret-pw"}`, "", nil, &raw)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotContains(t, raw, "refreshToken")
	})

	t.Run("login with wrong password", func(t *testing.T) {
		var errResp httpx.ErrorResponse
		rec := env.do(t, http.MethodPost, "/api/v1/auth/login",
			`{"email":"alice@example.com","password":"wrong-password"}`, "", nil, &errResp)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.CodeAuthentication, errResp.Code)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		var errResp httpx.ErrorResponse
		rec := env.do(t, http.MethodPost, "/api/v1/auth/register",
			`{"username":"alice","email":"alice@example.com","password":"super-secret-pw"}`, "", nil, &errResp)
		require.Equal(t, http.StatusConflict, rec.Code)
		require.Equal(t, httpx.CodeConflict, errResp.Code)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/register",
			`{"username":"bob","email":"bob@example.com","password":"short"}`, "", nil, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRefreshFlow(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.register(t, "alice", "alice@example.com", "super-secret-pw")

	t.Run("exchange rotates the cookie", func(t *testing.T) {
		var resp refreshResponse
		rec := env.do(t, http.MethodPost, "/api/v1/auth/refresh-token", "", "", []*http.Cookie{cookie}, &resp)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.NotEmpty(t, resp.AccessToken)

		rotated := refreshCookie(t, rec)
		require.NotEqual(t, cookie.Value, rotated.Value)

		// The new access token works against a protected endpoint.
		me := env.do(t, http.MethodGet, "/api/v1/users/current", "", resp.AccessToken, nil, nil)
		require.Equal(t, http.StatusOK, me.Code)

		// The old cookie is spent.
		var errResp httpx.ErrorResponse
		rec = env.do(t, http.MethodPost, "/api/v1/auth/refresh-token", "", "", []*http.Cookie{cookie}, &errResp)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.CodeAuthentication, errResp.Code)

		cookie = rotated
	})

	t.Run("missing cookie", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/refresh-token", "", "", nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		bad := *cookie
		bad.Value = bad.Value[:len(bad.Value)-2] + "xx"
		rec := env.do(t, http.MethodPost, "/api/v1/auth/refresh-token", "", "", []*http.Cookie{&bad}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogoutFlow(t *testing.T) {
	env := newTestEnv(t)
	resp, cookie := env.register(t, "alice", "alice@example.com", "super-secret-pw")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/logout", "", resp.AccessToken, []*http.Cookie{cookie}, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	t.Run("cookie is cleared", func(t *testing.T) {
		cleared := refreshCookie(t, rec)
		require.Empty(t, cleared.Value)
		require.Negative(t, cleared.MaxAge)
	})

	t.Run("revoked refresh token cannot be exchanged", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/refresh-token", "", "", []*http.Cookie{cookie}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("second logout still succeeds", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/v1/auth/logout", "", resp.AccessToken, []*http.Cookie{cookie}, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestExpiredAccessTokenRecovery(t *testing.T) {
	env := newTestEnv(t)
	_, cookie := env.register(t, "alice", "alice@example.com", "super-secret-pw")

	signer, err := jwtx.NewSignerHMAC("HS256", testAccessSecret)
	require.NoError(t, err)
	expired, err := signer.Sign(jwtx.NewAccessClaims("whoever", "user", time.Minute, testIssuer, time.Now().Add(-time.Hour)))
	require.NoError(t, err)

	t.Run("expired token gets the distinct code", func(t *testing.T) {
		var errResp httpx.ErrorResponse
		rec := env.do(t, http.MethodGet, "/api/v1/users/current", "", expired, nil, &errResp)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, httpx.CodeTokenExpired, errResp.Code)
	})

	t.Run("refresh exchange recovers the session", func(t *testing.T) {
		var resp refreshResponse
		rec := env.do(t, http.MethodPost, "/api/v1/auth/refresh-token", "", "", []*http.Cookie{cookie}, &resp)
		require.Equal(t, http.StatusOK, rec.Code)

		me := env.do(t, http.MethodGet, "/api/v1/users/current", "", resp.AccessToken, nil, nil)
		require.Equal(t, http.StatusOK, me.Code)
	})
}

func TestRoleAndOwnershipRules(t *testing.T) {
	env := newTestEnv(t)

	admin, _ := env.register(t, "root", "admin@example.com", "super-secret-pw")
	require.Equal(t, "admin", admin.User.Role)
	user, _ := env.register(t, "bob", "bob@example.com", "super-secret-pw")

	t.Run("anonymous requests are rejected", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/blogs", "", "", nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("only admins create blogs", func(t *testing.T) {
		body := `{"title":"My post","content":"hello","status":"published"}`

		rec := env.do(t, http.MethodPost, "/api/v1/blogs", body, user.AccessToken, nil, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)

		var blog blogResponse
		rec = env.do(t, http.MethodPost, "/api/v1/blogs", body, admin.AccessToken, nil, &blog)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		require.Equal(t, "my-post", blog.Slug)
	})

	t.Run("only admins look up other users", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/v1/users/"+admin.User.ID, "", user.AccessToken, nil, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)

		var got userResponse
		rec = env.do(t, http.MethodGet, "/api/v1/users/"+user.User.ID, "", admin.AccessToken, nil, &got)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "bob", got.Username)
	})

	t.Run("drafts are hidden from non-owners", func(t *testing.T) {
		var draft blogResponse
		rec := env.do(t, http.MethodPost, "/api/v1/blogs",
			`{"title":"Secret draft","content":"wip","status":"draft"}`, admin.AccessToken, nil, &draft)
		require.Equal(t, http.StatusCreated, rec.Code)

		var listed []blogResponse
		rec = env.do(t, http.MethodGet, "/api/v1/blogs", "", user.AccessToken, nil, &listed)
		require.Equal(t, http.StatusOK, rec.Code)
		for _, b := range listed {
			require.NotEqual(t, draft.ID, b.ID)
		}

		rec = env.do(t, http.MethodGet, "/api/v1/blogs/slug/"+draft.Slug, "", user.AccessToken, nil, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/v1/blogs/slug/"+draft.Slug, "", admin.AccessToken, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("comment deletion is owner-or-admin", func(t *testing.T) {
		var blog blogResponse
		rec := env.do(t, http.MethodPost, "/api/v1/blogs",
			`{"title":"Discussion","content":"talk","status":"published"}`, admin.AccessToken, nil, &blog)
		require.Equal(t, http.StatusCreated, rec.Code)

		var comment commentResponse
		rec = env.do(t, http.MethodPost, "/api/v1/comments/blog/"+blog.ID,
			`{"content":"first!"}`, user.AccessToken, nil, &comment)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		// A second user cannot delete bob's comment.
		other, _ := env.register(t, "carol", "carol@example.com", "super-secret-pw")
		rec = env.do(t, http.MethodDelete, "/api/v1/comments/"+comment.ID, "", other.AccessToken, nil, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)

		// The owner can.
		rec = env.do(t, http.MethodDelete, "/api/v1/comments/"+comment.ID, "", user.AccessToken, nil, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("blog update is owner-or-admin", func(t *testing.T) {
		var blog blogResponse
		rec := env.do(t, http.MethodPost, "/api/v1/blogs",
			`{"title":"Editable","content":"v1","status":"published"}`, admin.AccessToken, nil, &blog)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = env.do(t, http.MethodPut, "/api/v1/blogs/"+blog.ID,
			`{"content":"hacked"}`, user.AccessToken, nil, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)

		var updated blogResponse
		rec = env.do(t, http.MethodPut, "/api/v1/blogs/"+blog.ID,
			`{"content":"v2"}`, admin.AccessToken, nil, &updated)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "v2", updated.Content)
	})
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("livez", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/livez", "", "", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz", func(t *testing.T) {
		var resp healthResponse
		rec := env.do(t, http.MethodGet, "/readyz", "", "", nil, &resp)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "ok", resp.Checks.Database)
	})
}
