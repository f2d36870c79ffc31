// Package pipeline runs the per-call stages: attribution, recording fetch,
// transcription, classification, upload and summary post.
package pipeline

import (
	"context"
	"time"

	"call-digest-go/internal/classifier"
	"call-digest-go/internal/directory"
	"call-digest-go/internal/logger"
	"call-digest-go/internal/slack"
	"call-digest-go/internal/timeutil"
	"call-digest-go/internal/types"
)

type RecordingFetcher interface {
	DownloadRecording(ctx context.Context, recordingURL string) ([]byte, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, recordingURL string) string
}

type Publisher interface {
	UploadRecording(ctx context.Context, audio []byte, meta slack.RecordingMeta) slack.UploadResult
	PostSummary(ctx context.Context, text string) slack.PostResult
}

// Labels are the static strings printed in every summary.
type Labels struct {
	Exophone    string
	FlowName    string
	CompanyName string
}

type Pipeline struct {
	fetcher     RecordingFetcher
	transcriber Transcriber
	publisher   Publisher
	directory   *directory.Directory
	labels      Labels
	log         *logger.Logger
}

func New(fetcher RecordingFetcher, transcriber Transcriber, publisher Publisher, dir *directory.Directory, labels Labels, log *logger.Logger) *Pipeline {
	return &Pipeline{
		fetcher:     fetcher,
		transcriber: transcriber,
		publisher:   publisher,
		directory:   dir,
		labels:      labels,
		log:         log.With("component", "pipeline"),
	}
}

// Process runs every stage for one call in order. Stage failures are
// recorded on the outcome and never stop the later stages.
func (p *Pipeline) Process(ctx context.Context, call types.CallRecord) types.CallOutcome {
	start := time.Now()
	log := p.log.WithField("call_id", call.ID)
	out := types.CallOutcome{CallID: call.ID}

	log.Info("processing call")
	who := p.directory.Resolve(call.From, call.To)
	out.Direction = who.Direction
	out.SupportNumber = who.SupportNumber
	out.CustomerNumber = who.CustomerNumber

	// recording
	audio, err := p.fetcher.DownloadRecording(ctx, call.RecordingURL)
	if err != nil {
		log.WithField("error", err.Error()).Warn("recording unavailable")
		out.RecordingError = err.Error()
	}

	// transcription is submitted by URL, so it does not depend on the download
	out.Transcript = p.transcriber.Transcribe(ctx, call.RecordingURL)

	analysis := classifier.Classify(out.Transcript)
	out.Concern = analysis.Concern
	out.Mood = analysis.Mood
	out.Priority = analysis.Priority

	if out.RecordingError == "" {
		up := p.publisher.UploadRecording(ctx, audio, slack.RecordingMeta{
			CallID:          call.ID,
			From:            call.From,
			To:              call.To,
			DurationSeconds: call.DurationSeconds,
		})
		out.VoiceUploaded = up.Success
		out.FileID = up.FileID
		out.UploadError = up.Error
	} else {
		out.UploadError = "recording unavailable: " + out.RecordingError
	}

	text := slack.BuildSummary(slack.SummaryInput{
		CallID:          call.ID,
		DurationSeconds: call.DurationSeconds,
		StartTimeIST:    displayTime(call),
		Direction:       who.Direction,
		SupportNumber:   who.SupportNumber,
		CustomerNumber:  who.CustomerNumber,
		Agent:           who.Agent,
		Analysis:        analysis,
		Transcript:      out.Transcript,
		VoiceUploaded:   out.VoiceUploaded,
		Exophone:        p.labels.Exophone,
		FlowName:        p.labels.FlowName,
		CompanyName:     p.labels.CompanyName,
	})
	post := p.publisher.PostSummary(ctx, text)
	out.SlackPosted = post.Success
	out.PostError = post.Error

	log.WithField("concern", out.Concern).
		WithField("mood", out.Mood).
		WithField("voice_uploaded", out.VoiceUploaded).
		WithField("slack_posted", out.SlackPosted).
		Info("call processed")
	out.DurationMs = time.Since(start).Milliseconds()
	return out
}

func displayTime(call types.CallRecord) string {
	if !call.StartTime.IsZero() {
		return timeutil.FormatIST(call.StartTime)
	}
	return timeutil.DisplayIST(call.StartTimeRaw)
}
