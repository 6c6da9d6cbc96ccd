package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/challenge-schedule/pkg/config"
	appErrors "github.com/noah-isme/challenge-schedule/pkg/errors"
	"github.com/noah-isme/challenge-schedule/pkg/middleware/requestid"
)

const maxChallengeBodyBytes = 8 << 20

// ChallengeClient performs the single GET against the challenge API.
type ChallengeClient struct {
	url     string
	client  *http.Client
	maxBody int64
	metrics *MetricsService
}

// NewChallengeClient builds a client for the configured endpoint. A zero
// timeout leaves requests bounded only by the caller's context.
func NewChallengeClient(cfg config.ChallengeConfig, metrics *MetricsService) *ChallengeClient {
	return &ChallengeClient{
		url:     cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		maxBody: maxChallengeBodyBytes,
		metrics: metrics,
	}
}

// Fetch returns the raw challenge body. Non-2xx answers fail with
// ErrUpstreamStatus carrying the status text; transport failures fail with
// ErrUpstreamUnavailable.
func (c *ChallengeClient) Fetch(ctx context.Context) ([]byte, error) {
	if c.url == "" {
		return nil, appErrors.Clone(appErrors.ErrUpstreamUnavailable, "challenge API URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrUpstreamUnavailable, err, "")
	}
	req.Header.Set("Accept", "application/json")
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.HeaderKey, id)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.metrics.ObserveUpstreamRequest(0, duration)
		return nil, appErrors.WrapAs(appErrors.ErrUpstreamUnavailable, err, "")
	}
	defer resp.Body.Close()
	c.metrics.ObserveUpstreamRequest(resp.StatusCode, duration)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := statusText(resp)
		return nil, appErrors.WrapAs(
			appErrors.ErrUpstreamStatus,
			fmt.Errorf("received status %d", resp.StatusCode),
			"challenge API response was not ok: "+text,
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrUpstreamUnavailable, err, "read challenge API response")
	}
	if int64(len(body)) > c.maxBody {
		return nil, appErrors.Clone(appErrors.ErrMalformedPayload,
			fmt.Sprintf("challenge API response exceeds %d bytes", c.maxBody))
	}
	return body, nil
}

// statusText prefers the reason phrase sent by the server.
func statusText(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason != "" {
		return reason
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return strconv.Itoa(resp.StatusCode)
}
