package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"call-digest-go/internal/httpx"
	"call-digest-go/internal/logger"
)

const (
	defaultBaseURL = "https://slack.com/api"
	apiTimeout     = 30 * time.Second
	uploadTimeout  = 60 * time.Second
)

type Client struct {
	Token   string
	Channel string
	BaseURL string
	// Webhook is the incoming-webhook URL summaries are posted to.
	Webhook   string
	Username  string
	IconEmoji string

	Sender *httpx.Sender
	Log    *logger.Logger
}

// RecordingMeta describes the audio being attached.
type RecordingMeta struct {
	CallID          string
	From            string
	To              string
	DurationSeconds int
}

type UploadResult struct {
	Success bool   `json:"success"`
	FileID  string `json:"file_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type apiResponse struct {
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	UploadURL string `json:"upload_url,omitempty"`
	FileID    string `json:"file_id,omitempty"`
}

// UploadRecording runs the external upload hand-off: reserve an upload URL,
// push the bytes, then complete the upload into the channel. The first failing
// step ends the attempt.
func (c *Client) UploadRecording(ctx context.Context, audio []byte, meta RecordingMeta) UploadResult {
	log := c.logger().WithField("call_id", meta.CallID)
	if c.Token == "" {
		return UploadResult{Error: "missing slack token"}
	}
	if c.Channel == "" {
		return UploadResult{Error: "missing slack channel"}
	}
	if len(audio) == 0 {
		return UploadResult{Error: "empty recording"}
	}

	slot, err := c.call(ctx, "files.getUploadURLExternal", url.Values{
		"filename":     {fmt.Sprintf("call_%s.mp3", meta.CallID)},
		"length":       {strconv.Itoa(len(audio))},
		"alt_txt":      {"Call Recording - " + meta.CallID},
		"snippet_type": {"audio"},
	})
	if err != nil {
		log.WithField("error", err.Error()).Error("get upload url failed")
		return UploadResult{Error: "get upload url: " + err.Error()}
	}
	if slot.UploadURL == "" || slot.FileID == "" {
		return UploadResult{Error: "get upload url: missing upload_url or file_id"}
	}

	if err := c.push(ctx, slot.UploadURL, audio); err != nil {
		log.WithField("error", err.Error()).Error("upload bytes failed")
		return UploadResult{FileID: slot.FileID, Error: "upload bytes: " + err.Error()}
	}

	files, err := json.Marshal([]map[string]string{{
		"id":    slot.FileID,
		"title": "Call Recording - " + meta.CallID,
	}})
	if err != nil {
		return UploadResult{FileID: slot.FileID, Error: err.Error()}
	}
	if _, err := c.call(ctx, "files.completeUploadExternal", url.Values{
		"files":           {string(files)},
		"channel_id":      {c.Channel},
		"initial_comment": {Caption(meta)},
	}); err != nil {
		log.WithField("error", err.Error()).Error("complete upload failed")
		return UploadResult{FileID: slot.FileID, Error: "complete upload: " + err.Error()}
	}

	log.WithField("file_id", slot.FileID).Info("voice recording uploaded")
	return UploadResult{Success: true, FileID: slot.FileID}
}

// Caption is the comment attached to the uploaded recording.
func Caption(meta RecordingMeta) string {
	return fmt.Sprintf("🎧 *Call Recording - %s*\n📞 Duration: %s | From: %s to %s",
		meta.CallID, FormatDuration(meta.DurationSeconds), meta.From, meta.To)
}

// call POSTs a form to a Web API method and requires ok=true.
func (c *Client) call(ctx context.Context, method string, form url.Values) (apiResponse, error) {
	endpoint := c.baseURL() + "/" + method
	encoded := form.Encode()
	body, err := c.sender().Send(ctx, apiTimeout, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.Token)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
	if err != nil {
		return apiResponse{}, err
	}

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return apiResponse{}, fmt.Errorf("decode %s: %w", method, err)
	}
	if !resp.OK {
		if resp.Error == "" {
			resp.Error = "slack api error"
		}
		return apiResponse{}, fmt.Errorf("%s", resp.Error)
	}
	return resp, nil
}

func (c *Client) push(ctx context.Context, uploadURL string, audio []byte) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="call_recording.mp3"`)
	h.Set("Content-Type", "audio/mpeg")
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	if _, err := part.Write(audio); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	payload := buf.Bytes()
	contentType := w.FormDataContentType()

	_, err = c.sender().Send(ctx, uploadTimeout, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
	return err
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return defaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "/")
}

var (
	defaultSender = &httpx.Sender{HTTP: &http.Client{}}
	nopLog        = logger.NewNop()
)

func (c *Client) sender() *httpx.Sender {
	if c.Sender == nil {
		return defaultSender
	}
	return c.Sender
}

func (c *Client) logger() *logger.Logger {
	if c.Log == nil {
		return nopLog.With("component", "slack")
	}
	return c.Log.With("component", "slack")
}
