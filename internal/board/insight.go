package board

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finance-board/internal/models"
	"finance-board/pkg/format"
)

// InsightGenerator produces a short narrative reading of the user's finances
// relative to the purchase. It is optional enrichment: when the provider
// call fails, a deterministic fallback built purely from the affordability
// analysis is substituted and the deliberation continues.
type InsightGenerator struct {
	client  CompletionClient
	enabled bool
	timeout time.Duration
}

// NewInsightGenerator creates an insight generator. The timeout bounds the
// provider call on its own so a hung call falls back instead of eating the
// deliberation deadline.
func NewInsightGenerator(client CompletionClient, enabled bool, timeout time.Duration) *InsightGenerator {
	return &InsightGenerator{client: client, enabled: enabled, timeout: timeout}
}

// Generate returns a narrative insight, falling back to a deterministic one
// on any provider failure. It never returns an error.
func (g *InsightGenerator) Generate(ctx context.Context, purchase *models.PurchaseRequest, fc *models.FinancialContext, a models.AffordabilityAnalysis) string {
	if !g.enabled || g.client == nil {
		return fallbackInsight(purchase, a)
	}

	var sb strings.Builder
	sb.WriteString("In two or three sentences, give a plain-spoken read of this purchase against these finances.\n")
	sb.WriteString(fmt.Sprintf("Purchase: %s at %s (urgency %s).\n", purchase.Item, format.Money(purchase.Price), purchase.Urgency))
	sb.WriteString(fmt.Sprintf("Monthly income %s, discretionary budget %s, savings %s, debt %s.\n",
		format.Money(fc.MonthlyIncome), format.Money(fc.DiscretionaryBudget),
		format.Money(fc.TotalSavings), format.Money(fc.TotalDebt)))
	sb.WriteString(fmt.Sprintf("Affordability verdict: %s (%s of income, %s of savings).",
		a.Recommendation, format.Percent(a.PercentageOfIncome), format.Percent(a.PercentageOfSavings)))

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	insight, err := g.client.Complete(callCtx, sb.String())
	if err != nil || strings.TrimSpace(insight) == "" {
		return fallbackInsight(purchase, a)
	}
	return strings.TrimSpace(insight)
}

func fallbackInsight(purchase *models.PurchaseRequest, a models.AffordabilityAnalysis) string {
	base := fmt.Sprintf("%s at %s would take %s of monthly income and %s of savings.",
		purchase.Item, format.Money(purchase.Price),
		format.Percent(a.PercentageOfIncome), format.Percent(a.PercentageOfSavings))

	switch a.Recommendation {
	case models.EasilyAffordable:
		return base + " This fits comfortably within the budget."
	case models.Affordable:
		return base + " This is affordable with room to spare."
	case models.Stretch:
		return base + " This is a stretch; it fits, but leaves little slack this month."
	case models.NotRecommended:
		return base + " This is not recommended at the current savings level."
	default:
		return base + " This is unaffordable right now."
	}
}
