package remote

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexhub/hub-installer/internal/config"
)

// testConfig points all endpoints at the provided test server.
func testConfig(t *testing.T, serverURL string) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.APIBaseURL = serverURL + "/"
	cfg.DownloadBaseURL = serverURL
	cfg.RawBaseURL = serverURL
	cfg.Timeout = 2 * time.Second

	require.NoError(t, config.Validate(cfg))

	return cfg
}

// TestCheckConnectivity covers the reachable, erroring, and timed-out probe outcomes.
func TestCheckConnectivity(t *testing.T) {
	t.Parallel()

	reachable := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Keep it logically awesome."))
	}))
	defer reachable.Close()

	client, err := NewClient(testConfig(t, reachable.URL))
	require.NoError(t, err)
	require.True(t, client.CheckConnectivity(context.Background()))

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	client, err = NewClient(testConfig(t, failing.URL))
	require.NoError(t, err)
	require.False(t, client.CheckConnectivity(context.Background()))

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(time.Second)
		_, _ = w.Write([]byte("late"))
	}))
	defer slow.Close()

	cfg := testConfig(t, slow.URL)
	cfg.Timeout = 50 * time.Millisecond

	client, err = NewClient(cfg)
	require.NoError(t, err)
	require.False(t, client.CheckConnectivity(context.Background()))
}

// TestFetchManifest verifies the contents-API envelope is decoded and parsed.
func TestFetchManifest(t *testing.T) {
	t.Parallel()

	body := `{"version":"3.0.0","files":{"main_app.py":{"size":7,"hash":""}}}`
	encoded := base64.StdEncoding.EncodeToString([]byte(body))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/alexhub/personal-hub/contents/manifest.json", r.URL.Path)
		require.Equal(t, "main", r.URL.Query().Get("ref"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"type":"file","name":"manifest.json","path":"manifest.json","encoding":"base64","content":%q}`, encoded)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(t, server.URL))
	require.NoError(t, err)

	m, err := client.FetchManifest(context.Background())
	require.NoError(t, err)
	require.Equal(t, "3.0.0", m.Version)
	require.Equal(t, int64(7), m.Files["main_app.py"].Size)
}

// TestFetchManifestNotFound ensures a 404 surfaces as an error, not a panic.
func TestFetchManifestNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(t, server.URL))
	require.NoError(t, err)

	_, err = client.FetchManifest(context.Background())
	require.Error(t, err)
}

// TestDownloadArchive verifies the archive URL pattern and the streamed bytes.
func TestDownloadArchive(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/alexhub/personal-hub/archive/main.zip", r.URL.Path)
		_, _ = w.Write([]byte("zip-bytes"))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(t, server.URL))
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "bundle.zip")
	require.NoError(t, client.DownloadArchive(context.Background(), dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "zip-bytes", string(data))
}

// TestDownloadRaw verifies nested destination paths and the returned byte count.
func TestDownloadRaw(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/alexhub/personal-hub/main/assets/logo.png", r.URL.Path)
		_, _ = w.Write([]byte("png"))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(t, server.URL))
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "assets", "logo.png")

	written, err := client.DownloadRaw(context.Background(), "assets/logo.png", dest)
	require.NoError(t, err)
	require.Equal(t, int64(3), written)

	_, err = os.Stat(dest)
	require.NoError(t, err)
}

// TestDownloadRawBadStatus ensures non-200 answers become errors.
func TestDownloadRawBadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(t, server.URL))
	require.NoError(t, err)

	_, err = client.DownloadRaw(context.Background(), "missing.py", filepath.Join(t.TempDir(), "missing.py"))
	require.Error(t, err)
}
