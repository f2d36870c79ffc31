package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"call-digest-go/internal/httpx"
	"call-digest-go/internal/logger"
	"call-digest-go/internal/types"
)

const callsJSON = `{
  "Calls": [
    {"Sid": "c-done", "Status": "completed", "RecordingUrl": "https://rec.example.test/c-done.mp3",
     "From": "+919800000001", "To": "+919631084471", "Duration": "125", "StartTime": "2024-01-01T10:00:00"},
    {"Sid": "c-live", "Status": "in-progress", "RecordingUrl": "",
     "From": "+919800000002", "To": "+919631084471", "Duration": 0, "StartTime": "2024-01-01 10:05:00"},
    {"Sid": "c-fail", "Status": "failed", "RecordingUrl": null,
     "From": "+919800000003", "To": "+919631084471", "Duration": null, "StartTime": "2024-01-01 10:06:00"},
    {"Sid": "c-norec", "Status": "completed", "RecordingUrl": "",
     "From": "+919800000004", "To": "+919631084471", "Duration": 40, "StartTime": "2024-01-01 10:07:00"}
  ]
}`

func newTestClient(baseURL string, hc *http.Client) *Client {
	return NewClient(Config{
		BaseURL:  baseURL,
		SID:      "acct1",
		APIKey:   "key",
		APIToken: "token",
	}, &httpx.Sender{HTTP: hc}, logger.NewNop())
}

func TestFetchRecentCallsFiltersEligible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Accounts/acct1/Calls.json", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("PageSize"))
		assert.Equal(t, "0", r.URL.Query().Get("Page"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "token", pass)
		_, _ = w.Write([]byte(callsJSON))
	}))
	defer srv.Close()

	calls, err := newTestClient(srv.URL, srv.Client()).FetchRecentCalls(context.Background())
	require.NoError(t, err)
	require.Len(t, calls, 1)

	c := calls[0]
	assert.Equal(t, "c-done", c.ID)
	assert.Equal(t, types.StatusCompleted, c.Status)
	assert.Equal(t, "https://rec.example.test/c-done.mp3", c.RecordingURL)
	assert.Equal(t, "+919800000001", c.From)
	assert.Equal(t, 125, c.DurationSeconds)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), c.StartTime)
	assert.Equal(t, "2024-01-01T10:00:00", c.StartTimeRaw)
}

func TestFetchRecentCallsProviderUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	calls, err := newTestClient(srv.URL, srv.Client()).FetchRecentCalls(context.Background())
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.NotNil(t, calls)
	assert.Empty(t, calls)
}

func TestFetchRecentCallsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>nope</html>`))
	}))
	defer srv.Close()

	calls, err := newTestClient(srv.URL, srv.Client()).FetchRecentCalls(context.Background())
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Empty(t, calls)
}

func TestFetchRecentCallsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	calls, err := newTestClient(url, http.DefaultClient).FetchRecentCalls(context.Background())
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Empty(t, calls)
}

func TestDownloadRecording(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		if !ok || user != "key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path == "/missing.mp3" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ID3-audio"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, srv.Client())

	audio, err := c.DownloadRecording(context.Background(), srv.URL+"/c1.mp3")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3-audio"), audio)

	_, err = c.DownloadRecording(context.Background(), srv.URL+"/missing.mp3")
	require.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "404")

	_, err = c.DownloadRecording(context.Background(), "")
	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestFlexDuration(t *testing.T) {
	tests := map[string]int{
		`{"Duration": 61}`:     61,
		`{"Duration": "61"}`:   61,
		`{"Duration": "61.0"}`: 61,
		`{"Duration": null}`:   0,
		`{"Duration": ""}`:     0,
		`{"Duration": "n/a"}`:  0,
		`{"Duration": -5}`:     0,
	}
	for in, want := range tests {
		var raw rawCall
		require.NoError(t, json.Unmarshal([]byte(in), &raw), in)
		assert.Equal(t, want, raw.normalize().DurationSeconds, in)
	}
}
