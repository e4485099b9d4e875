package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/nimbus/internal/common"
)

func newTestClient() *Client {
	return New(5*time.Second, common.GetLogger())
}

func TestGetForcesJSONHeaders(t *testing.T) {
	var accept, contentType, userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		contentType = r.Header.Get("Content-Type")
		userAgent = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := newTestClient()
	_, err := c.Get(context.Background(), RequestOptions{URL: server.URL})
	require.NoError(t, err)

	assert.Equal(t, "application/json", accept)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, UserAgent, userAgent)
}

func TestGetCustomHeadersOverrideDefaults(t *testing.T) {
	var accept, custom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		custom = r.Header.Get("X-Report-Format")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := newTestClient()
	_, err := c.Get(context.Background(), RequestOptions{
		URL: server.URL,
		Headers: map[string]string{
			"Accept":          "application/xml",
			"X-Report-Format": "summary",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "application/xml", accept)
	assert.Equal(t, "summary", custom)
}

func TestGetAuthHeaders(t *testing.T) {
	var userID, auth, token string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID = r.Header.Get("UserID")
		auth = r.Header.Get("Authorization")
		token = r.Header.Get("AuthenticationToken")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	id := 7
	c := newTestClient()
	_, err := c.Get(context.Background(), RequestOptions{
		URL:       server.URL,
		UserID:    &id,
		AuthToken: "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "7", userID)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, "secret", token)
}

func TestGetInvalidHeaderFailsBeforeRequest(t *testing.T) {
	requested := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer server.Close()

	c := newTestClient()

	_, err := c.Get(context.Background(), RequestOptions{
		URL:     server.URL,
		Headers: map[string]string{"bad header": "v"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid header name")

	_, err = c.Get(context.Background(), RequestOptions{
		URL:     server.URL,
		Headers: map[string]string{"X-Thing": "bad\nvalue"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid header value")

	assert.False(t, requested)
}

func TestGetNonSuccessStatusReturnedAsData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("maintenance"))
	}))
	defer server.Close()

	c := newTestClient()
	resp, err := c.Get(context.Background(), RequestOptions{URL: server.URL})
	require.NoError(t, err)

	assert.Equal(t, http.StatusServiceUnavailable, resp.Status)
	assert.Equal(t, "maintenance", resp.Body)
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		name    string
		opts    RequestOptions
		want    string
		wantErr bool
	}{
		{"explicit url wins", RequestOptions{URL: "https://a.example.com/x", BaseURL: "https://b.example.com"}, "https://a.example.com/x", false},
		{"base with endpoint", RequestOptions{BaseURL: "https://a.example.com/", Endpoint: "/api/login"}, "https://a.example.com/api/login", false},
		{"base without trailing slash", RequestOptions{BaseURL: "https://a.example.com", Endpoint: "api/login"}, "https://a.example.com/api/login", false},
		{"base only", RequestOptions{BaseURL: "https://a.example.com"}, "https://a.example.com", false},
		{"endpoint only", RequestOptions{Endpoint: "https://a.example.com/direct"}, "https://a.example.com/direct", false},
		{"nothing", RequestOptions{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveURL(tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no URL provided")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPostSendsJSONBody(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"abc"}`))
	}))
	defer server.Close()

	c := newTestClient()
	resp, err := c.Post(context.Background(), RequestOptions{URL: server.URL}, map[string]string{
		"username": "reporter",
		"password": "pw",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "reporter", received["username"])
}

func TestCookiesPersistWithinSingleCall(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
		http.Redirect(w, r, "/end", http.StatusFound)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("session")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(cookie.Value))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient()
	resp, err := c.Get(context.Background(), RequestOptions{URL: server.URL + "/start"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "s1", resp.Body)
}

func TestResponseHeadersCaptured(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Total-Count", "120")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	c := newTestClient()
	resp, err := c.Get(context.Background(), RequestOptions{URL: server.URL})
	require.NoError(t, err)
	assert.Equal(t, "120", resp.Headers["X-Total-Count"])
}
