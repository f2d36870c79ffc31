// Package classifier maps a call transcript to a concern category and a mood
// with fixed keyword rules.
package classifier

import (
	"strings"

	"call-digest-go/internal/transcription"
	"call-digest-go/internal/types"
)

type rule struct {
	concern  types.Concern
	keywords []string
}

// Order matters: the first category with a matching keyword wins, even if a
// later one matches more keywords.
var rules = []rule{
	{types.ConcernBackgroundVerification, []string{"background verification", "background check", "verification", "documents"}},
	{types.ConcernDocumentSubmission, []string{"document submission", "documents", "submit", "requirements"}},
	{types.ConcernBillingIssue, []string{"bill", "payment", "charge", "invoice", "amount", "cost"}},
	{types.ConcernTechnicalProblem, []string{"not working", "error", "broken", "issue", "problem"}},
	{types.ConcernGeneralInquiry, []string{"hello", "thank you", "time", "call"}},
}

var negativeWords = []string{"angry", "frustrated", "upset"}

// Classify never inspects an empty or failed transcript.
func Classify(transcript string) types.ConcernAnalysis {
	if strings.TrimSpace(transcript) == "" || transcription.IsFailure(transcript) {
		return types.DefaultAnalysis()
	}
	lower := strings.ToLower(transcript)

	out := types.DefaultAnalysis()
	for _, r := range rules {
		if containsAny(lower, r.keywords) {
			out.Concern = r.concern
			break
		}
	}
	out.Mood = mood(lower)
	return out
}

// mood checks Friendly before Negative, so a transcript with both is Friendly.
func mood(lower string) types.Mood {
	switch {
	case strings.Contains(lower, "thank you"):
		return types.MoodFriendly
	case containsAny(lower, negativeWords):
		return types.MoodNegative
	default:
		return types.MoodNeutral
	}
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
