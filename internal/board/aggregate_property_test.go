package board

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"finance-board/internal/models"
)

func resultsFromBools(approves []bool) []models.MemberResult {
	results := make([]models.MemberResult, len(approves))
	for i, approve := range approves {
		decision := models.DecisionReject
		if approve {
			decision = models.DecisionApprove
		}
		results[i] = models.MemberResult{
			PersonaID:   fmt.Sprintf("p%d", i),
			PersonaName: fmt.Sprintf("Persona %d", i),
			Vote: models.VoteOutput{
				Decision:   decision,
				Reasoning:  "because",
				Confidence: 50,
			},
		}
	}
	return results
}

// Property: for any non-empty vote set, the tally counts partition the votes,
// approval requires a strict majority, and unanimity holds iff one side got
// every vote.
func TestProperty_TallyInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	affordability := models.AffordabilityAnalysis{
		PercentageOfIncome: 10,
		Recommendation:     models.Affordable,
		CanAfford:          true,
	}

	properties.Property("counts partition the votes and the majority rule holds", prop.ForAll(
		func(approves []bool) bool {
			tally, err := Aggregate(resultsFromBools(approves), affordability)
			if err != nil {
				return false
			}
			if tally.ApproveCount+tally.RejectCount != len(approves) {
				return false
			}
			if len(tally.Votes) != len(approves) {
				return false
			}

			wantApprove := tally.ApproveCount > tally.RejectCount
			if (tally.FinalDecision == models.DecisionApprove) != wantApprove {
				return false
			}

			wantUnanimous := tally.ApproveCount == len(approves) || tally.RejectCount == len(approves)
			return tally.IsUnanimous == wantUnanimous
		},
		gen.SliceOf(gen.Bool()).SuchThat(func(v []bool) bool { return len(v) > 0 }),
	))

	properties.Property("ties always resolve to reject", prop.ForAll(
		func(n int) bool {
			approves := make([]bool, 2*n)
			for i := 0; i < n; i++ {
				approves[i] = true
			}
			tally, err := Aggregate(resultsFromBools(approves), affordability)
			if err != nil {
				return false
			}
			return tally.FinalDecision == models.DecisionReject
		},
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}
