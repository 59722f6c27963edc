package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenServer(t *testing.T, expiresIn int64, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token-123",
			"token_type":   "Bearer",
			"expires_in":   expiresIn,
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewTokenClient_DefaultHTTPClient(t *testing.T) {
	tc, ok := NewTokenClient().(*tokenClient)
	require.True(t, ok)
	assert.Equal(t, defaultTimeout, tc.http.Timeout)
}

func TestNewTokenClient_Options(t *testing.T) {
	custom := &http.Client{Timeout: 3 * time.Second}
	tc := NewTokenClient(WithHTTPClient(custom)).(*tokenClient)
	assert.Same(t, custom, tc.http)

	tc = NewTokenClient(WithHTTPClient(nil), WithTimeout(5*time.Second)).(*tokenClient)
	assert.Equal(t, 5*time.Second, tc.http.Timeout)
}

func TestGetToken_Success(t *testing.T) {
	server := tokenServer(t, 3600, nil)

	token, err := NewTokenClient().GetToken(context.Background(), Credentials{
		TokenURL:     server.URL,
		ClientID:     "detector",
		ClientSecret: "s3cret",
		Scopes:       []string{"lm.read", "lm.infer"},
	})
	require.NoError(t, err)
	assert.Equal(t, "test-token-123", token.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)
}

func TestGetToken_FormFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "detector", r.Form.Get("client_id"))
		assert.Equal(t, "s3cret", r.Form.Get("client_secret"))
		assert.Equal(t, "lm.read lm.infer", r.Form.Get("scope"))
		assert.Equal(t, "https://lm.internal", r.Form.Get("audience"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "tok"})
	}))
	defer server.Close()

	token, err := NewTokenClient().GetToken(context.Background(), Credentials{
		TokenURL:     server.URL,
		ClientID:     "detector",
		ClientSecret: "s3cret",
		Scopes:       []string{"lm.read", "lm.infer"},
		Audience:     "https://lm.internal",
	})
	require.NoError(t, err)
	assert.True(t, token.ExpiresAt.IsZero())
}

func TestGetToken_WithBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "detector", user)
		assert.Equal(t, "s3cret", pass)
		assert.NoError(t, r.ParseForm())
		assert.Empty(t, r.Form.Get("client_id"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"access_token": "basic-token", "expires_in": 60})
	}))
	defer server.Close()

	token, err := NewTokenClient().GetToken(context.Background(), Credentials{
		TokenURL:     server.URL,
		ClientID:     "detector",
		ClientSecret: "s3cret",
		UseBasicAuth: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "basic-token", token.AccessToken)
}

func TestGetToken_Errors(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer failing.Close()
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"token_type": "Bearer"})
	}))
	defer empty.Close()

	tests := []struct {
		name    string
		creds   Credentials
		wantErr string
	}{
		{name: "no token url", creds: Credentials{ClientID: "c"}, wantErr: "token url is required"},
		{name: "no client id", creds: Credentials{TokenURL: failing.URL}, wantErr: "client id is required"},
		{name: "server error", creds: Credentials{TokenURL: failing.URL, ClientID: "c"}, wantErr: "token endpoint returned status 401"},
		{name: "empty access token", creds: Credentials{TokenURL: empty.URL, ClientID: "c"}, wantErr: "empty access_token in response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTokenClient().GetToken(context.Background(), tt.creds)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTokenSource_ReusesUntilExpiry(t *testing.T) {
	var calls atomic.Int32
	server := tokenServer(t, 120, &calls)

	source := NewTokenSource(NewTokenClient(), Credentials{TokenURL: server.URL, ClientID: "detector"})
	now := time.Now()
	source.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		token, err := source.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "test-token-123", token)
	}
	assert.Equal(t, int32(1), calls.Load())

	now = now.Add(100 * time.Second)
	_, err := source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())

	source.Invalidate()
	_, err = source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}
