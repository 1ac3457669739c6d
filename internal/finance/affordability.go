package finance

import "finance-board/internal/models"

// zeroDenominatorSentinel is reported for a ratio whose denominator is zero.
// It exceeds every tier threshold, forcing the bottom tiers.
const zeroDenominatorSentinel = 999

// Analyze relates a candidate price to a financial context. Pure function;
// the predicate order is significant and must not be rearranged.
func Analyze(price float64, fc *models.FinancialContext) models.AffordabilityAnalysis {
	a := models.AffordabilityAnalysis{
		PercentageOfIncome:     ratio(price, fc.MonthlyIncome),
		PercentageOfDisposable: ratio(price, fc.DiscretionaryBudget),
		PercentageOfSavings:    ratio(price, fc.TotalSavings),
	}

	switch {
	case a.PercentageOfIncome <= 5 && a.PercentageOfSavings <= 2:
		a.Recommendation = models.EasilyAffordable
	case a.PercentageOfIncome <= 15 && a.PercentageOfSavings <= 10:
		a.Recommendation = models.Affordable
	case a.PercentageOfIncome <= 30 && a.PercentageOfDisposable <= 100:
		a.Recommendation = models.Stretch
	case a.PercentageOfSavings <= 30:
		a.Recommendation = models.NotRecommended
	default:
		a.Recommendation = models.Unaffordable
	}

	a.CanAfford = a.Recommendation == models.EasilyAffordable ||
		a.Recommendation == models.Affordable ||
		a.Recommendation == models.Stretch

	return a
}

func ratio(price, denominator float64) float64 {
	if denominator == 0 {
		return zeroDenominatorSentinel
	}
	return price / denominator * 100
}
