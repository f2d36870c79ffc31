package slack

import (
	"fmt"
	"strings"

	"call-digest-go/internal/types"
)

// SummaryInput carries everything the summary template prints.
type SummaryInput struct {
	CallID          string
	DurationSeconds int
	StartTimeIST    string
	Direction       types.Direction
	SupportNumber   string
	CustomerNumber  string
	Agent           types.Agent
	Analysis        types.ConcernAnalysis
	Transcript      string
	VoiceUploaded   bool

	Exophone    string
	FlowName    string
	CompanyName string
}

// FormatDuration renders seconds as "Xm Ys".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

// BuildSummary renders the plain-text summary posted for one call.
func BuildSummary(in SummaryInput) string {
	var b strings.Builder
	gap := "                    "

	fmt.Fprintf(&b, "🆕 NEW Call Summary - Customer (%s)\n\n", in.CustomerNumber)
	fmt.Fprintf(&b, "📞 Support Number: %s%s📱 Customer Number: %s\n\n", in.SupportNumber, gap, in.CustomerNumber)

	if in.Exophone != "" || in.FlowName != "" {
		fmt.Fprintf(&b, "📞 EXOPHONE: %s%s⚡ Flow: %s\n\n", orDash(in.Exophone), gap, orDash(in.FlowName))
	}

	concern := string(in.Analysis.Concern)
	if in.CompanyName != "" {
		concern += " from " + in.CompanyName
	}
	fmt.Fprintf(&b, "🎯 Concern: %s (Tone: %s)%s👤 CS Agent: %s <%s>\n\n",
		concern, in.Analysis.Mood, gap, in.Agent.Mention(), in.SupportNumber)
	fmt.Fprintf(&b, "🏢 Department: %s%s🕐 Timestamp: %s\n\n", orDash(in.Agent.Department), gap, in.StartTimeIST)
	fmt.Fprintf(&b, "👤 Assigned To: %s%s📋 Status: Open\n\n", in.Agent.Name, gap)

	b.WriteString("📊 Call Metadata:\n")
	fmt.Fprintf(&b, "• Call ID: %s\n", in.CallID)
	fmt.Fprintf(&b, "• Duration: %s\n", FormatDuration(in.DurationSeconds))
	fmt.Fprintf(&b, "• Direction: %s\n", in.Direction)
	if in.Exophone != "" {
		fmt.Fprintf(&b, "• EXOPHONE: %s\n", in.Exophone)
	}
	fmt.Fprintf(&b, "• Priority: %s\n", in.Analysis.Priority)
	b.WriteString("• Status: Completed\n\n")

	fmt.Fprintf(&b, "📝 Full Transcription:\n%s\n\n", in.Transcript)

	b.WriteString("🎧 Recording/Voice Note:\n")
	if in.VoiceUploaded {
		b.WriteString("Voice message posted above\n\n")
	} else {
		b.WriteString("Recording upload failed\n\n")
	}

	fmt.Fprintf(&b, "👤 Agent: %s", in.Agent.Mention())
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
