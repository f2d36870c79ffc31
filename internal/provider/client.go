// Package provider talks to the hosted telephony provider: it lists recent
// calls and downloads their recordings.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"call-digest-go/internal/httpx"
	"call-digest-go/internal/logger"
	"call-digest-go/internal/types"
)

const (
	listTimeout     = 30 * time.Second
	downloadTimeout = 30 * time.Second
	defaultPageSize = 10
)

// ErrProviderUnavailable wraps every failure to reach the provider.
var ErrProviderUnavailable = errors.New("provider unavailable")

type Config struct {
	BaseURL  string
	SID      string
	APIKey   string
	APIToken string
	PageSize int
}

type Client struct {
	cfg    Config
	sender *httpx.Sender
	log    *logger.Logger
}

func NewClient(cfg Config, sender *httpx.Sender, log *logger.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if sender == nil {
		sender = &httpx.Sender{HTTP: &http.Client{}}
	}
	return &Client{cfg: cfg, sender: sender, log: log.With("component", "provider")}
}

type callsResponse struct {
	Calls []rawCall `json:"Calls"`
}

// FetchRecentCalls returns the completed calls with a recording from the most
// recent page. On failure it returns an empty slice and an error wrapping
// ErrProviderUnavailable.
func (c *Client) FetchRecentCalls(ctx context.Context) ([]types.CallRecord, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", c.cfg.BaseURL, url.PathEscape(c.cfg.SID))
	q := url.Values{}
	q.Set("PageSize", strconv.Itoa(c.cfg.PageSize))
	q.Set("Page", "0")

	body, err := c.sender.Send(ctx, listTimeout, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.cfg.APIKey, c.cfg.APIToken)
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		c.log.WithError(err).Error("call list request failed")
		return []types.CallRecord{}, fmt.Errorf("%w: list calls: %v", ErrProviderUnavailable, err)
	}

	var parsed callsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.log.WithError(err).Error("call list decode failed")
		return []types.CallRecord{}, fmt.Errorf("%w: decode calls: %v", ErrProviderUnavailable, err)
	}

	calls := make([]types.CallRecord, 0, len(parsed.Calls))
	for _, raw := range parsed.Calls {
		rec := raw.normalize()
		if !rec.HasRecording() {
			c.log.WithField("call_id", rec.ID).WithField("status", rec.Status).Debug("skipping call without recording")
			continue
		}
		calls = append(calls, rec)
	}
	c.log.WithField("found", len(parsed.Calls)).WithField("eligible", len(calls)).Info("fetched recent calls")
	return calls, nil
}

// DownloadRecording fetches the raw audio behind a recording URL.
func (c *Client) DownloadRecording(ctx context.Context, recordingURL string) ([]byte, error) {
	if recordingURL == "" {
		return nil, fmt.Errorf("%w: empty recording url", ErrProviderUnavailable)
	}
	audio, err := c.sender.Send(ctx, downloadTimeout, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, recordingURL, nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.cfg.APIKey, c.cfg.APIToken)
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: download recording: %v", ErrProviderUnavailable, err)
	}
	c.log.WithField("bytes", len(audio)).Debug("downloaded recording")
	return audio, nil
}
