// Package actionable turns a cycle summary into a short note for the
// operator when something in the cycle needs a human.
package actionable

import (
	"fmt"

	"call-digest-go/internal/types"
)

// negativeShare is the fraction of Negative-mood calls that raises a card.
const negativeShare = 0.35

// Generate returns nil when the cycle needs no follow-up. Delivery failures
// take precedence over mood.
func Generate(sum types.CycleSummary) *types.ActionCard {
	if sum.Failed > 0 {
		return &types.ActionCard{
			Insight: fmt.Sprintf("%d call(s) were not posted to Slack", sum.Failed),
			Action:  "Check the webhook and bot token, then review the per-call errors",
			Impact:  "Those calls will not be retried after this cycle",
		}
	}

	total := 0
	for _, n := range sum.MoodCounts {
		total += n
	}
	if total == 0 {
		return nil
	}
	share := float64(sum.MoodCounts[types.MoodNegative]) / float64(total)
	if share >= negativeShare {
		return &types.ActionCard{
			Insight: fmt.Sprintf("High share of negative calls (%.0f%%)", share*100),
			Action:  "Ask the team lead to follow up on this cycle's negative calls",
			Impact:  "Reduce repeat escalations",
		}
	}
	return nil
}
