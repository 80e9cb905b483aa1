package resumes

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"coverletter-backend/internal/shared/auth"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/storage/object/local"
)

type tokenVerifier map[string]string

func (v tokenVerifier) Verify(_ context.Context, raw string) (auth.Authenticated, error) {
	if id, ok := v[raw]; ok {
		return auth.Authenticated{UserID: id}, nil
	}
	return auth.Authenticated{}, auth.ErrInvalidToken
}

func newTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api", middleware.Identify(tokenVerifier{"tok-u1": "u1"}))
	NewHandler(NewService(local.New(t.TempDir()), NewMemoryRepo(), time.Hour)).RegisterRoutes(api)
	return r
}

func send(r http.Handler, req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAnonymousUploadParsesInline(t *testing.T) {
	r := newTestRouter(t)
	content := base64.StdEncoding.EncodeToString(docxBytes(t, "Guest resume"))

	resp := send(r, jsonRequest(t, http.MethodPost, "/api/resumes", map[string]any{
		"file": map[string]any{"filename": "cv.docx", "original_filename": "cv.docx", "content": content},
	}), "")
	require.Equal(t, http.StatusOK, resp.Code)

	var parsed Parsed
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &parsed))
	require.Equal(t, "Guest resume", parsed.Text)

	resp = send(r, jsonRequest(t, http.MethodPost, "/api/resumes", map[string]any{
		"file": map[string]any{"filename": "cv.docx"},
	}), "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "File content is required for anonymous parsing")
}

func TestAuthenticatedMultipartUploadAndList(t *testing.T) {
	r := newTestRouter(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fw, err := writer.CreateFormFile("file", "cv.docx")
	require.NoError(t, err)
	_, err = fw.Write(docxBytes(t, "Jane"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("is_default", "true"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/resumes", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := send(r, req, "tok-u1")
	require.Equal(t, http.StatusCreated, resp.Code)

	var created Resume
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	require.True(t, created.IsDefault)
	require.Equal(t, "Jane", created.Text)

	resp = send(r, httptest.NewRequest(http.MethodGet, "/api/resumes?limit=500", nil), "tok-u1")
	require.Equal(t, http.StatusOK, resp.Code)
	var page Page
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &page))
	require.Equal(t, 1, page.Count)

	resp = send(r, httptest.NewRequest(http.MethodGet, "/api/resumes?id="+created.ID, nil), "tok-u1")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"download_url":null`)

	resp = send(r, jsonRequest(t, http.MethodPatch, "/api/resumes?id="+created.ID, map[string]any{}), "tok-u1")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, resp.Body.String(), "No update fields provided")

	resp = send(r, jsonRequest(t, http.MethodPatch, "/api/resumes?id="+created.ID, map[string]any{"resume_text": "fixed"}), "tok-u1")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"resume_text":"fixed"`)

	resp = send(r, httptest.NewRequest(http.MethodDelete, "/api/resumes?id="+created.ID, nil), "tok-u1")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = send(r, httptest.NewRequest(http.MethodDelete, "/api/resumes?id="+created.ID, nil), "tok-u1")
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestResumeReadsRequireAuth(t *testing.T) {
	r := newTestRouter(t)
	resp := send(r, httptest.NewRequest(http.MethodGet, "/api/resumes", nil), "")
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = send(r, jsonRequest(t, http.MethodPost, "/api/resumes/upload-url", map[string]string{"filename": "cv.pdf"}), "tok-u1")
	require.Equal(t, http.StatusNotImplemented, resp.Code)
}
