package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
)

type PostResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type webhookPayload struct {
	Text      string `json:"text"`
	Username  string `json:"username,omitempty"`
	IconEmoji string `json:"icon_emoji,omitempty"`
}

// PostSummary sends text to the incoming webhook. Any 2xx counts as delivered.
func (c *Client) PostSummary(ctx context.Context, text string) PostResult {
	log := c.logger()
	if c.Webhook == "" {
		return PostResult{Error: "missing slack webhook"}
	}
	payload, err := json.Marshal(webhookPayload{Text: text, Username: c.Username, IconEmoji: c.IconEmoji})
	if err != nil {
		return PostResult{Error: err.Error()}
	}

	_, err = c.sender().Send(ctx, apiTimeout, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Webhook, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		log.WithField("error", err.Error()).Error("slack post failed")
		return PostResult{Error: err.Error()}
	}
	log.Info("slack message posted")
	return PostResult{Success: true}
}
