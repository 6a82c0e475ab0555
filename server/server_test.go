package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saurasai/pmv2/config"
	"github.com/Saurasai/pmv2/generator"
	"github.com/Saurasai/pmv2/logger"
	"github.com/Saurasai/pmv2/publisher"
	"github.com/Saurasai/pmv2/store"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	pipe, err := generator.NewPipeline(generator.MockLLM{}, generator.NewTemplates(nil), logger.NewNop())
	require.NoError(t, err)

	cipher, err := publisher.NewTokenCipher("test-secret")
	require.NoError(t, err)

	pub := publisher.New(nil, NewTokenSource(st, cipher), nil, logger.NewNop())

	cfg := config.Config{AdminSecret: "hunter2"}
	srv, err := New(cfg, st, pipe, pub, cipher, logger.NewNop())
	require.NoError(t, err)
	return srv.Routes()
}

func doJSON(t *testing.T, r *gin.Engine, method, path, apiKey string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, email string, admin bool) string {
	t.Helper()
	body := map[string]any{
		"email":            email,
		"password":         "pw123456",
		"confirm_password": "pw123456",
	}
	if admin {
		body["is_admin"] = true
		body["admin_secret"] = "hunter2"
	}
	w := doJSON(t, r, http.MethodPost, "/api/user", "", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["api_key"])
	return resp["api_key"]
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestServer(t)
	key := registerUser(t, r, "user@example.com", false)

	// Duplicate registration is rejected.
	w := doJSON(t, r, http.MethodPost, "/api/user", "", map[string]any{
		"email": "user@example.com", "password": "pw123456", "confirm_password": "pw123456",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Login returns the same api key.
	w = doJSON(t, r, http.MethodPost, "/api/login", "", map[string]any{
		"email": "user@example.com", "password": "pw123456",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, key, resp["api_key"])

	w = doJSON(t, r, http.MethodPost, "/api/login", "", map[string]any{
		"email": "user@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/user", "", map[string]any{
		"email": "not-an-email", "password": "a", "confirm_password": "a",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/user", "", map[string]any{
		"email": "a@b.com", "password": "a", "confirm_password": "b",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/user", "", map[string]any{
		"email": "a@b.com", "password": "a", "confirm_password": "a",
		"is_admin": true, "admin_secret": "wrong",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRequired(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/user", "bogus-key", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUser(t *testing.T) {
	r := newTestServer(t)
	key := registerUser(t, r, "admin@example.com", true)

	w := doJSON(t, r, http.MethodGet, "/api/user", key, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin@example.com", resp["email"])
	assert.Equal(t, "free", resp["tier"])
	assert.Equal(t, true, resp["is_admin"])
}

func TestGenerateDrafts(t *testing.T) {
	r := newTestServer(t)
	key := registerUser(t, r, "gen@example.com", false)

	w := doJSON(t, r, http.MethodPost, "/api/generate", key, map[string]any{
		"topic": "go testing", "tone": "casual", "hashtags": "#golang", "insight": "tests are docs",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Drafts map[string][]string `json:"drafts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Drafts, len(generator.DefaultPlatforms))
	for platform, drafts := range resp.Drafts {
		assert.Len(t, drafts, 3, platform)
		for _, d := range drafts {
			assert.NotRegexp(t, `^[0-9]+[.)]`, d, "markers are stripped from responses")
		}
	}
}

func TestGenerateUnknownPlatformYieldsEmptyList(t *testing.T) {
	r := newTestServer(t)
	key := registerUser(t, r, "gen2@example.com", false)

	w := doJSON(t, r, http.MethodPost, "/api/generate", key, map[string]any{
		"topic": "go", "tone": "casual", "hashtags": "#go", "insight": "x",
		"platforms": []string{"twitter", "myspace"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Drafts map[string][]string `json:"drafts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Drafts["twitter"], 3)
	assert.Empty(t, resp.Drafts["myspace"])
}

func TestDraftSaveListPreview(t *testing.T) {
	r := newTestServer(t)
	key := registerUser(t, r, "drafts@example.com", false)

	w := doJSON(t, r, http.MethodPost, "/api/draft", key, map[string]any{
		"content": "1. Check out **Post Muse**", "platform": "linkedin",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var saved map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	require.NotEmpty(t, saved["id"])

	w = doJSON(t, r, http.MethodGet, "/api/drafts", key, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var drafts []store.Draft
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &drafts))
	require.Len(t, drafts, 1)
	assert.Equal(t, "Check out **Post Muse**", drafts[0].Content,
		"leading marker is stripped before persistence")

	w = doJSON(t, r, http.MethodGet, "/api/drafts/"+saved["id"]+"/preview", key, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<strong>Post Muse</strong>")

	w = doJSON(t, r, http.MethodGet, "/api/drafts/nope/preview", key, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePost(t *testing.T) {
	r := newTestServer(t)
	key := registerUser(t, r, "poster@example.com", false)

	w := doJSON(t, r, http.MethodPost, "/api/post", key, map[string]any{
		"post": "hello world", "platforms": []string{"linkedin", "bluesky"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Status  string                 `json:"status"`
		ID      string                 `json:"id"`
		PostIDs []publisher.PostResult `json:"postIds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.PostIDs, 2)
	for _, res := range resp.PostIDs {
		assert.Equal(t, "success", res.Status)
	}

	// Delete it, then deleting again 404s.
	w = doJSON(t, r, http.MethodDelete, "/api/post/"+resp.ID, key, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/api/post/"+resp.ID, key, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreatePostValidation(t *testing.T) {
	r := newTestServer(t)
	key := registerUser(t, r, "poster2@example.com", false)

	w := doJSON(t, r, http.MethodPost, "/api/post", key, map[string]any{
		"post": "x", "platforms": []string{"myspace"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Twitter is admin-only.
	w = doJSON(t, r, http.MethodPost, "/api/post", key, map[string]any{
		"post": "x", "platforms": []string{"twitter"},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPostRequiresApproval(t *testing.T) {
	r := newTestServer(t)
	key := registerUser(t, r, "approval@example.com", false)

	w := doJSON(t, r, http.MethodPost, "/api/post", key, map[string]any{
		"post": "x", "platforms": []string{"telegram"}, "requiresApproval": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "awaiting_approval", resp["status"])
}

func TestStorePlatformToken(t *testing.T) {
	r := newTestServer(t)
	key := registerUser(t, r, "tokens@example.com", false)

	w := doJSON(t, r, http.MethodPost, "/api/platform/instagram/token", key, map[string]any{
		"access_token": "ig-secret", "expiry": 123,
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/platform/myspace/token", key, map[string]any{
		"access_token": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	r := newTestServer(t)
	w := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
