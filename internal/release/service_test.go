package release

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/nimbus/internal/common"
)

func TestIsNewerVersion(t *testing.T) {
	tests := []struct {
		current   string
		candidate string
		want      bool
	}{
		{"1.2.3", "1.2.4", true},
		{"1.2.3", "1.2.3", false},
		{"1.2.4", "1.2.3", false},
		{"1.9.0", "2.0.0", true},
		{"2.0.0", "1.9.9", false},
		{"1.0", "1.0.0", false},
		{"1.0", "1.0.1", true},
		{"1.2.3", "1.10.0", true},
		{"dev", "0.0.1", true},
		{"dev", "0.0.0", false},
		{"1.2.3", "1.2.3-beta", false},
		{"1.2.3", "1.2.4.9", true},
	}

	for _, tt := range tests {
		t.Run(tt.current+" vs "+tt.candidate, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNewerVersion(tt.current, tt.candidate))
		})
	}
}

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)

	svc := NewService(common.GetLogger())
	svc.baseURL = base
	return svc
}

func TestCheckForUpdatesNewerRelease(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/ternarybob/nimbus/releases/latest", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"tag_name": "v99.0.0",
			"html_url": "https://github.com/ternarybob/nimbus/releases/tag/v99.0.0",
			"body": "Bug fixes"
		}`))
	}))

	info, err := svc.CheckForUpdates(context.Background(), "ternarybob", "nimbus", "")
	require.NoError(t, err)

	assert.Equal(t, common.GetVersion(), info.CurrentVersion)
	require.NotNil(t, info.LatestVersion)
	assert.Equal(t, "99.0.0", *info.LatestVersion)
	assert.True(t, info.UpdateAvailable)
	require.NotNil(t, info.ReleaseURL)
	assert.Equal(t, "https://github.com/ternarybob/nimbus/releases/tag/v99.0.0", *info.ReleaseURL)
	require.NotNil(t, info.ReleaseNotes)
	assert.Equal(t, "Bug fixes", *info.ReleaseNotes)
}

func TestCheckForUpdatesNoReleases(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Not Found"}`))
	}))

	info, err := svc.CheckForUpdates(context.Background(), "ternarybob", "empty", "")
	require.NoError(t, err)

	assert.False(t, info.UpdateAvailable)
	assert.Nil(t, info.LatestVersion)
	assert.Equal(t, common.GetVersion(), info.CurrentVersion)
}

func TestCheckForUpdatesAPIError(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "API rate limit exceeded"}`))
	}))

	_, err := svc.CheckForUpdates(context.Background(), "ternarybob", "nimbus", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
	assert.Contains(t, err.Error(), "API rate limit exceeded")
}

func TestCheckForUpdatesTokenSent(t *testing.T) {
	var authHeader string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tag_name": "v0.0.1"}`))
	}))

	_, err := svc.CheckForUpdates(context.Background(), "ternarybob", "private", "ghp_secret")
	require.NoError(t, err)
	assert.Equal(t, "Bearer ghp_secret", authHeader)
}
