package httpx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastHTTPClient_Do(t *testing.T) {
	payload := []byte(`{"input_ids":[1,2,3]}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "trustdetect-test", r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "zstd")

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"text":"hello"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "zstd")
		_, _ = w.Write(zstdCompress(payload))
	}))
	defer server.Close()

	client := NewFastHTTPClient(WithUserAgent("trustdetect-test"), WithTimeout(5*time.Second))

	req, err := http.NewRequest(http.MethodPost, server.URL+"/v1/tokenize", bytes.NewReader([]byte(`{"text":"hello"}`)))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer token")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, resp.Uncompressed)
	assert.Empty(t, resp.Header.Get("Content-Encoding"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, body)
}

func TestFastHTTPClient_Deadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	_, err = NewFastHTTPClient().Do(req)
	assert.Error(t, err)
}
