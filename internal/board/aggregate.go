package board

import (
	"fmt"

	"finance-board/internal/errors"
	"finance-board/internal/models"
	"finance-board/pkg/format"
)

// Tally is the aggregated outcome of a deliberation's successful votes.
type Tally struct {
	Votes         []models.VoteOutput
	ApproveCount  int
	RejectCount   int
	FinalDecision models.VoteDecision
	IsUnanimous   bool
	Summary       string
}

// Aggregate tallies the votes of the successful members. Failed members are
// excluded before this point. Ties resolve to reject; unanimity is computed
// over the successful subset only. An empty input means no quorum.
func Aggregate(results []models.MemberResult, affordability models.AffordabilityAnalysis) (*Tally, error) {
	if len(results) == 0 {
		return nil, errors.ErrNoQuorum
	}

	t := &Tally{Votes: make([]models.VoteOutput, 0, len(results))}
	for _, r := range results {
		t.Votes = append(t.Votes, r.Vote)
		if r.Vote.Decision == models.DecisionApprove {
			t.ApproveCount++
		} else {
			t.RejectCount++
		}
	}

	// Conservative tie-break: approve requires a strict majority.
	if t.ApproveCount > t.RejectCount {
		t.FinalDecision = models.DecisionApprove
	} else {
		t.FinalDecision = models.DecisionReject
	}
	t.IsUnanimous = t.ApproveCount == len(results) || t.RejectCount == len(results)

	t.Summary = fmt.Sprintf("The board voted %d-%d to %s (%s of monthly income, affordability: %s).",
		t.ApproveCount, t.RejectCount, t.FinalDecision,
		format.Percent(affordability.PercentageOfIncome), affordability.Recommendation)
	if t.IsUnanimous {
		t.Summary = "Unanimous: " + t.Summary
	}

	return t, nil
}
