package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	sharedauth "coverletter-backend/internal/shared/auth"
)

func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"bad_verification_code"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "gh-token", "token_type": "bearer"})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 42, "login": "octo", "name": ""})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"email": "old@example.com", "primary": false, "verified": true},
			{"email": "octo@example.com", "primary": true, "verified": true},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type loginLog []sharedauth.Authenticated

func (l *loginLog) RecordLogin(_ context.Context, id sharedauth.Authenticated) error {
	*l = append(*l, id)
	return nil
}

func newGitHubRouter(t *testing.T, srv *httptest.Server, secret []byte, users LoginRecorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := NewGitHubService(GitHubConfig{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://api.local/api/auth/github/callback",
		UIRedirect:   "http://ui.local/auth/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/login/oauth/authorize",
			TokenURL:  srv.URL + "/login/oauth/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		APIBaseURL: srv.URL,
		Users:      users,
	}, secret)
	r := gin.New()
	svc.RegisterRoutes(r.Group("/api"))
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
	return resp
}

func TestGitHubLoginIssuesSessionToken(t *testing.T) {
	srv := fakeGitHub(t)
	secret := []byte("test-secret")
	logins := &loginLog{}
	r := newGitHubRouter(t, srv, secret, logins)

	resp := get(r, "/api/auth/github/start")
	require.Equal(t, http.StatusFound, resp.Code)
	loc, err := url.Parse(resp.Header().Get("Location"))
	require.NoError(t, err)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	resp = get(r, "/api/auth/github/callback?state="+state+"&code=good-code")
	require.Equal(t, http.StatusFound, resp.Code)
	back, err := url.Parse(resp.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "ui.local", back.Host)

	id, err := sharedauth.NewHS256Verifier(secret).Verify(context.Background(), back.Query().Get("token"))
	require.NoError(t, err)
	require.Equal(t, "github:42", id.UserID)
	require.Equal(t, "octo", id.Name)
	require.Equal(t, "octo@example.com", id.Email)
	require.Equal(t, "github", id.Provider)
	require.Equal(t, loginLog{id}, *logins)

	resp = get(r, "/api/auth/github/callback?state="+state+"&code=good-code")
	require.Equal(t, http.StatusBadRequest, resp.Code, "state must be single use")
}

func TestGitHubCallbackRejectsBadCode(t *testing.T) {
	srv := fakeGitHub(t)
	r := newGitHubRouter(t, srv, []byte("s"), nil)

	resp := get(r, "/api/auth/github/start")
	loc, err := url.Parse(resp.Header().Get("Location"))
	require.NoError(t, err)

	resp = get(r, "/api/auth/github/callback?state="+loc.Query().Get("state")+"&code=nope")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = get(r, "/api/auth/github/callback?code=good-code")
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGitHubStartRequiresConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewGitHubService(GitHubConfig{}, []byte("s")).RegisterRoutes(r.Group("/api"))
	resp := get(r, "/api/auth/github/start")
	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestAppendToken(t *testing.T) {
	got, err := appendToken("http://ui.local/cb?x=1", "abc")
	require.NoError(t, err)
	require.Equal(t, "http://ui.local/cb?token=abc&x=1", got)

	_, err = appendToken("", "abc")
	require.Error(t, err)
}
