package provider

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"call-digest-go/internal/timeutil"
	"call-digest-go/internal/types"
)

type rawCall struct {
	Sid          string       `json:"Sid"`
	Status       string       `json:"Status"`
	RecordingURL *string      `json:"RecordingUrl"`
	From         string       `json:"From"`
	To           string       `json:"To"`
	Duration     flexDuration `json:"Duration"`
	StartTime    string       `json:"StartTime"`
}

// flexDuration accepts a JSON number, a numeric string, or null.
type flexDuration int

func (d *flexDuration) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = 0
		return nil
	}
	var s string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*d = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// unknown duration is reported as zero, not a decode failure
		*d = 0
		return nil
	}
	*d = flexDuration(f)
	return nil
}

func (r rawCall) normalize() types.CallRecord {
	rec := types.CallRecord{
		ID:              strings.TrimSpace(r.Sid),
		From:            orUnknown(r.From),
		To:              orUnknown(r.To),
		Status:          types.CallStatus(strings.ToLower(strings.TrimSpace(r.Status))),
		DurationSeconds: int(r.Duration),
		StartTimeRaw:    r.StartTime,
	}
	if r.RecordingURL != nil {
		rec.RecordingURL = strings.TrimSpace(*r.RecordingURL)
	}
	if rec.DurationSeconds < 0 {
		rec.DurationSeconds = 0
	}
	if t, ok := timeutil.ParseUTC(r.StartTime); ok {
		rec.StartTime = t
	}
	return rec
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "Unknown"
	}
	return s
}
