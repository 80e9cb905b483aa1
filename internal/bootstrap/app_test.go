package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"coverletter-backend/internal/shared/auth"
	"coverletter-backend/internal/shared/config"
)

func devConfig(t *testing.T) config.Config {
	return config.Config{
		Env:                    "dev",
		ObjectStoreType:        "local",
		LocalStoreDir:          t.TempDir(),
		LLMProvider:            "echo",
		JWTSecret:              "test-secret",
		GenerateRateLimitBurst: 5,
	}
}

func TestBuildRequiresDatabaseOutsideDev(t *testing.T) {
	cfg := devConfig(t)
	cfg.Env = "production"
	_, err := Build(context.Background(), cfg)
	require.Error(t, err)
}

func TestBuildRejectsBadRedisURL(t *testing.T) {
	cfg := devConfig(t)
	cfg.RedisURL = "not a url"
	_, err := Build(context.Background(), cfg)
	require.Error(t, err)
}

func TestBuildServesGenerationEndToEnd(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := devConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()
	cfg.GenerateRateLimitRPS = 1

	app, err := Build(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	require.Nil(t, app.DB)

	token, err := auth.SignJWT([]byte("test-secret"), auth.Authenticated{UserID: "github:7", Provider: "github"}, 0)
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]string{
		"jobTitle":       "Engineer",
		"jobDescription": "Build APIs",
		"resumeText":     "Go developer",
		"promptOverride": "Apply for {jobTitle}",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/generate-cover-letter", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "Apply for Engineer", resp.Body.String())

	resp = httptest.NewRecorder()
	meReq := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	meReq.Header.Set("Authorization", "Bearer "+token)
	app.Router.ServeHTTP(resp, meReq)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"id":"github:7"`)
}

func TestBuildSeedsGlobalPromptInMemory(t *testing.T) {
	app, err := Build(context.Background(), devConfig(t))
	require.NoError(t, err)

	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/custom-prompts/default", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"is_default":true`)
}
