package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"certificate-generator/certificate-api/internal/config"
	"certificate-generator/certificate-api/pkg/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Server.Mode = "test"
	cfg.Server.Port = 0
	cfg.Storage.Dir = t.TempDir()
	cfg.Certificates.Compress = false
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, storage.Store) {
	t.Helper()
	store, err := OpenStore(context.Background(), cfg.Storage)
	require.NoError(t, err)
	s := New(cfg, store, zap.NewNop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s, store
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestOpenStore(t *testing.T) {
	store, err := OpenStore(context.Background(), config.StorageConfig{Backend: "local", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStore{}, store)

	_, err = OpenStore(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)
}

func TestServerGenerateAndDownload(t *testing.T) {
	s, store := newTestServer(t, testConfig(t))
	h := s.Handler()

	w := post(h, "/api/generate-certificate", `{"name":"Jane Doe","duration":10,"organization":"Red Cross"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success       bool   `json:"success"`
		Filename      string `json:"filename"`
		CertificateID string `json:"certificate_id"`
		Style         string `json:"style"`
		TemplateType  string `json:"template_type"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Regexp(t, `^certificates/advanced_certificate_[0-9a-f]{8}\.pdf$`, resp.Filename)
	assert.Regexp(t, `^[0-9A-F]{8}$`, resp.CertificateID)
	assert.Equal(t, "advanced", resp.Style)
	assert.Equal(t, "volunteer", resp.TemplateType)

	objects, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, objects, 1)

	w = get(h, "/api/download-certificate/"+resp.Filename)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
	assert.Contains(t, w.Body.String(), "Jane Doe")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
}

func TestServerValidationAndNotFound(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))
	h := s.Handler()

	w := post(h, "/api/generate-certificate", `{"duration":10}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing required field: name"}`, w.Body.String())

	w = post(h, "/api/generate-certificate", `{"name":"Jane","duration":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Missing required field: duration"}`, w.Body.String())

	w = get(h, "/api/download-certificate/certificate_00000000.pdf")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Certificate not found"}`, w.Body.String())
}

func TestServerRateLimitsGeneration(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.RequestsPerSecond = 0.001
	cfg.RateLimit.Burst = 1
	s, _ := newTestServer(t, cfg)
	h := s.Handler()

	w := post(h, "/api/generate-certificate", `{"name":"Jane","duration":1,"style":"minimal"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = post(h, "/api/generate-certificate", `{"name":"Jane","duration":1,"style":"minimal"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	assert.Equal(t, http.StatusOK, get(h, "/api/health").Code, "other routes are not limited")
}

func TestServerHealthAndTemplates(t *testing.T) {
	s, _ := newTestServer(t, testConfig(t))
	h := s.Handler()

	w := get(h, "/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","message":"Certificate Generator API is running"}`, w.Body.String())

	w = get(h, "/api/templates")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"default_style":"advanced"`)
}
