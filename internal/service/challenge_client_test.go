package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/challenge-schedule/pkg/config"
	appErrors "github.com/noah-isme/challenge-schedule/pkg/errors"
	"github.com/noah-isme/challenge-schedule/pkg/middleware/requestid"
)

func TestChallengeClientFetchSuccess(t *testing.T) {
	var gotMethod, gotRequestID, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotRequestID = r.Header.Get(requestid.HeaderKey)
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ch-1","calendar":[]}`))
	}))
	t.Cleanup(server.Close)

	client := NewChallengeClient(config.ChallengeConfig{URL: server.URL}, NewMetricsService())
	client.client = server.Client()

	ctx := requestid.WithValue(context.Background(), "req-42")
	body, err := client.Fetch(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"ch-1","calendar":[]}`, string(body))
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "req-42", gotRequestID)
	assert.Equal(t, "application/json", gotAccept)
}

func TestChallengeClientFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewChallengeClient(config.ChallengeConfig{URL: server.URL}, nil)
	client.client = server.Client()

	body, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.Nil(t, body)
	assert.ErrorIs(t, err, appErrors.ErrUpstreamStatus)
	assert.Contains(t, err.Error(), "Service Unavailable")
	assert.Equal(t, "UPSTREAM_STATUS", appErrors.FromError(err).Code)
}

func TestChallengeClientFetchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewChallengeClient(config.ChallengeConfig{URL: url, Timeout: time.Second}, nil)

	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUpstreamUnavailable)
}

func TestChallengeClientFetchMissingURL(t *testing.T) {
	client := NewChallengeClient(config.ChallengeConfig{}, nil)

	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUpstreamUnavailable)
}

func TestChallengeClientFetchOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"ch-1","calendar":[]}`))
	}))
	t.Cleanup(server.Close)

	client := NewChallengeClient(config.ChallengeConfig{URL: server.URL}, nil)
	client.maxBody = 10

	body, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.Nil(t, body)
	assert.ErrorIs(t, err, appErrors.ErrMalformedPayload)
	assert.Contains(t, err.Error(), "exceeds 10 bytes")

	client.maxBody = int64(len(`{"id":"ch-1","calendar":[]}`))
	body, err = client.Fetch(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"ch-1","calendar":[]}`, string(body))
}

func TestStatusTextFallsBack(t *testing.T) {
	assert.Equal(t, "Service Unavailable", statusText(&http.Response{StatusCode: 503, Status: "503 Service Unavailable"}))
	assert.Equal(t, "Maintenance", statusText(&http.Response{StatusCode: 503, Status: "503 Maintenance"}))
	assert.Equal(t, "Bad Gateway", statusText(&http.Response{StatusCode: 502, Status: "502"}))
	assert.Equal(t, "599", statusText(&http.Response{StatusCode: 599}))
}
