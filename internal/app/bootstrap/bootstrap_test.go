package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugomepuich/playafterlife-sub001/internal/config"
	applog "github.com/hugomepuich/playafterlife-sub001/internal/log"
	"github.com/hugomepuich/playafterlife-sub001/internal/upload"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	return &config.Config{
		DBDriver:       config.DriverSQLite,
		DBPath:         filepath.Join(dir, "afterlife.db"),
		SessionSecret:  "bootstrap-secret",
		SessionTTL:     time.Hour,
		PublicDir:      filepath.Join(dir, "public"),
		StorageBackend: config.StorageLocal,
		UploadMaxBytes: 1 << 20,
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             10,
			ClientTTL:         time.Minute,
		},
	}
}

func TestBuildServesHealthCheck(t *testing.T) {
	result, err := Build(context.Background(), Dependencies{
		Config:  testConfig(t),
		Logger:  applog.Discard(),
		Version: "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, result.Cleanup())
	})

	rec := httptest.NewRecorder()
	result.HTTPServer.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBuildRequiresConfig(t *testing.T) {
	_, err := Build(context.Background(), Dependencies{Logger: applog.Discard()})
	require.Error(t, err)
}

func TestNewUploadStoreSelectsBackend(t *testing.T) {
	cfg := testConfig(t)

	store, err := NewUploadStore(cfg)
	require.NoError(t, err)
	assert.IsType(t, &upload.LocalStore{}, store)

	cfg.StorageBackend = "ftp"
	_, err = NewUploadStore(cfg)
	require.Error(t, err)
}
