package types

import "time"

type CallStatus string

const (
	StatusInProgress CallStatus = "in-progress"
	StatusCompleted  CallStatus = "completed"
	StatusFailed     CallStatus = "failed"
	StatusNoAnswer   CallStatus = "no-answer"
	StatusBusy       CallStatus = "busy"
)

// CallRecord is one provider call, normalized. It is never mutated after the
// provider client builds it.
type CallRecord struct {
	ID              string     `json:"call_id"`
	From            string     `json:"from"`
	To              string     `json:"to"`
	Status          CallStatus `json:"status"`
	RecordingURL    string     `json:"recording_url,omitempty"`
	DurationSeconds int        `json:"duration_seconds"`
	StartTime       time.Time  `json:"start_time"`
	StartTimeRaw    string     `json:"start_time_raw,omitempty"`
}

// HasRecording reports whether the call is eligible for the pipeline.
func (c CallRecord) HasRecording() bool {
	return c.Status == StatusCompleted && c.RecordingURL != ""
}

type Concern string

const (
	ConcernBackgroundVerification Concern = "Background Verification"
	ConcernDocumentSubmission     Concern = "Document Submission"
	ConcernBillingIssue           Concern = "Billing Issue"
	ConcernTechnicalProblem       Concern = "Technical Problem"
	ConcernGeneralInquiry         Concern = "General Inquiry"
)

type Mood string

const (
	MoodFriendly Mood = "Friendly"
	MoodNegative Mood = "Negative"
	MoodNeutral  Mood = "Neutral"
)

type Priority string

const PriorityNormal Priority = "Normal"

type ConcernAnalysis struct {
	Concern  Concern  `json:"concern"`
	Mood     Mood     `json:"mood"`
	Priority Priority `json:"priority"`
}

// DefaultAnalysis is used whenever a transcript cannot be classified.
func DefaultAnalysis() ConcernAnalysis {
	return ConcernAnalysis{Concern: ConcernGeneralInquiry, Mood: MoodNeutral, Priority: PriorityNormal}
}

type Direction string

const (
	DirectionInbound  Direction = "INBOUND"
	DirectionOutbound Direction = "OUTBOUND"
)

type Agent struct {
	Name        string `json:"name" yaml:"name"`
	FullName    string `json:"full_name,omitempty" yaml:"full_name"`
	SlackHandle string `json:"slack_handle,omitempty" yaml:"slack_handle"`
	Department  string `json:"department,omitempty" yaml:"department"`
	Phone       string `json:"phone" yaml:"phone"`
}

// Mention returns the chat handle, falling back to the display name.
func (a Agent) Mention() string {
	if a.SlackHandle != "" {
		return a.SlackHandle
	}
	return a.Name
}

// CallOutcome is the per-call entry of a cycle result.
type CallOutcome struct {
	CallID         string    `json:"call_id"`
	Direction      Direction `json:"direction,omitempty"`
	SupportNumber  string    `json:"support_number,omitempty"`
	CustomerNumber string    `json:"customer_number,omitempty"`
	Transcript     string    `json:"transcript,omitempty"`
	Concern        Concern   `json:"concern,omitempty"`
	Mood           Mood      `json:"mood,omitempty"`
	Priority       Priority  `json:"priority,omitempty"`
	VoiceUploaded  bool      `json:"voice_uploaded"`
	FileID         string    `json:"file_id,omitempty"`
	SlackPosted    bool      `json:"slack_posted"`
	RecordingError string    `json:"recording_error,omitempty"`
	UploadError    string    `json:"upload_error,omitempty"`
	PostError      string    `json:"post_error,omitempty"`
	Error          string    `json:"error,omitempty"`
	DurationMs     int64     `json:"duration_ms"`
}

// CycleSummary rolls up the outcomes of one cycle.
type CycleSummary struct {
	ConcernCounts map[Concern]int `json:"concern_counts"`
	MoodCounts    map[Mood]int    `json:"mood_counts"`
	Uploaded      int             `json:"uploaded"`
	Posted        int             `json:"posted"`
	Failed        int             `json:"failed"`
}

// ActionCard is an operator follow-up raised by a cycle.
type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

type CycleResult struct {
	CycleID        string        `json:"cycle_id"`
	Success        bool          `json:"success"`
	Message        string        `json:"message"`
	CallsFetched   int           `json:"calls_fetched"`
	CallsProcessed int           `json:"calls_processed"`
	Results        []CallOutcome `json:"results,omitempty"`
	Summary        CycleSummary  `json:"summary"`
	Attention      *ActionCard   `json:"attention,omitempty"`
	ProviderError  string        `json:"provider_error,omitempty"`
	StartedAt      time.Time     `json:"started_at"`
	DurationMs     int64         `json:"duration_ms"`
}
