package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"call-digest-go/internal/httpx"
	"call-digest-go/internal/logger"
)

const (
	// FailurePrefix starts every transcript produced by a failed request.
	FailurePrefix = "Transcription failed"
	// Unavailable is returned when the service answered with an empty transcript.
	Unavailable = "Transcription unavailable"

	requestTimeout = 60 * time.Second
	mockTranscript = "MOCK TRANSCRIPT: Hello, I have a question about my bill. Thank you."
)

// IsFailure reports whether transcript is the failure sentinel.
func IsFailure(transcript string) bool {
	return strings.Contains(transcript, FailurePrefix)
}

type Config struct {
	URL      string
	APIKey   string
	Model    string
	Language string
}

type Client struct {
	cfg    Config
	sender *httpx.Sender
	log    *logger.Logger
	mock   bool
}

func NewClient(cfg Config, sender *httpx.Sender, log *logger.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = "https://api.deepgram.com/v1/listen"
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if sender == nil {
		sender = &httpx.Sender{HTTP: &http.Client{}}
	}
	return &Client{
		cfg:    cfg,
		sender: sender,
		log:    log.With("module", "transcription"),
		mock:   os.Getenv("USE_MOCK_TRANSCRIBE") == "true",
	}
}

type listenRequest struct {
	URL         string `json:"url"`
	Model       string `json:"model"`
	Language    string `json:"language"`
	Punctuate   bool   `json:"punctuate"`
	SmartFormat bool   `json:"smart_format"`
}

type listenResponse struct {
	Results *struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe submits the recording URL and returns the top transcript. It never
// fails: errors come back as a transcript starting with FailurePrefix.
func (c *Client) Transcribe(ctx context.Context, recordingURL string) string {
	if c.mock {
		return mockTranscript
	}
	log := c.log.WithField("recording_url", recordingURL)

	payload, err := json.Marshal(listenRequest{
		URL:         recordingURL,
		Model:       c.cfg.Model,
		Language:    c.cfg.Language,
		Punctuate:   true,
		SmartFormat: true,
	})
	if err != nil {
		return failure(err.Error())
	}

	body, err := c.sender.Send(ctx, requestTimeout, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Token "+c.cfg.APIKey)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		log.WithField("error", err.Error()).Error("transcription request failed")
		var serr *httpx.StatusError
		if errors.As(err, &serr) {
			return failure(fmt.Sprintf("API error %d", serr.Code))
		}
		return failure(err.Error())
	}

	var resp listenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.WithField("error", err.Error()).Error("transcription decode failed")
		return failure("malformed response")
	}
	if resp.Results == nil || len(resp.Results.Channels) == 0 || len(resp.Results.Channels[0].Alternatives) == 0 {
		log.Error("transcription response has no alternatives")
		return failure("malformed response")
	}

	text := strings.TrimSpace(resp.Results.Channels[0].Alternatives[0].Transcript)
	if text == "" {
		log.Warn("empty transcript")
		return Unavailable
	}
	log.WithField("chars", len(text)).Info("transcription successful")
	return text
}

func failure(reason string) string {
	return FailurePrefix + " - " + reason
}
