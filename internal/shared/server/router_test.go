package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"coverletter-backend/internal/shared/auth"
)

type tokenVerifier map[string]string

func (v tokenVerifier) Verify(_ context.Context, raw string) (auth.Authenticated, error) {
	id, ok := v[raw]
	if !ok {
		return auth.Authenticated{}, auth.ErrInvalidToken
	}
	return auth.Authenticated{UserID: id, Email: id + "@example.com", Provider: "github"}, nil
}

type pingHandler struct{}

func (pingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

func newTestRouter() *gin.Engine {
	return NewRouter(RouterDeps{
		Verifier: tokenVerifier{"tok": "user-1"},
		Handlers: []RouteRegistrar{pingHandler{}, nil},
	})
}

func serve(r http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestMeReturnsCaller(t *testing.T) {
	r := newTestRouter()

	resp := serve(r, http.MethodGet, "/api/me", "tok")
	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		User meUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, meUser{ID: "user-1", Email: "user-1@example.com", Provider: "github"}, body.User)
}

func TestMeAnonymous(t *testing.T) {
	r := newTestRouter()

	for _, token := range []string{"", "bogus"} {
		resp := serve(r, http.MethodGet, "/api/me", token)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
		require.JSONEq(t, `{"user":null}`, resp.Body.String())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter()

	resp := serve(r, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.JSONEq(t, `{"ok":true,"database":"memory"}`, resp.Body.String())

	require.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/ping", "").Code)

	resp = serve(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.Code)
	require.True(t, strings.Contains(resp.Body.String(), "http_requests_total"))
}

func TestAddr(t *testing.T) {
	require.Equal(t, ":8080", Addr(""))
	require.Equal(t, ":9000", Addr("9000"))
	require.Equal(t, ":9000", Addr(":9000"))
}
