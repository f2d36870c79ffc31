package aggregator

import "call-digest-go/internal/types"

// Aggregate rolls per-call outcomes into a cycle summary. Outcomes that
// ended in an unexpected error carry no classification and only count as
// failed.
func Aggregate(outcomes []types.CallOutcome) types.CycleSummary {
	concerns := map[types.Concern]int{}
	moods := map[types.Mood]int{}
	sum := types.CycleSummary{ConcernCounts: concerns, MoodCounts: moods}
	for _, o := range outcomes {
		if o.Error != "" {
			sum.Failed++
			continue
		}
		if o.Concern != "" {
			concerns[o.Concern]++
		}
		if o.Mood != "" {
			moods[o.Mood]++
		}
		if o.VoiceUploaded {
			sum.Uploaded++
		}
		if o.SlackPosted {
			sum.Posted++
		} else {
			sum.Failed++
		}
	}
	return sum
}
