package board

import (
	"encoding/json"
	"fmt"
	"strings"

	"finance-board/internal/models"
	"finance-board/internal/personas"
	"finance-board/pkg/format"
)

// PromptContext is the accumulated context one advisor reasons over. Each
// pipeline owns its own copy; nothing here is shared between goroutines.
type PromptContext struct {
	Purchase      *models.PurchaseRequest
	Financial     *models.FinancialContext
	Affordability models.AffordabilityAnalysis

	Research  *models.ResearchOutput
	Reasoning *models.ReasoningOutput
	Critique  *models.CritiqueOutput
}

// systemPrompt renders the persona identity shared by all four stages.
func systemPrompt(p personas.Persona) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are %s, %q, one member of a purchase advisory board.\n", p.Name, p.Title))
	sb.WriteString(fmt.Sprintf("Risk tolerance: %s.\n", p.Traits.RiskTolerance))
	if len(p.Traits.FavoriteMetrics) > 0 {
		sb.WriteString(fmt.Sprintf("Metrics you care about most: %s.\n", strings.Join(p.Traits.FavoriteMetrics, ", ")))
	}
	if len(p.Traits.Biases) > 0 {
		sb.WriteString(fmt.Sprintf("Known biases you lean into: %s.\n", strings.Join(p.Traits.Biases, ", ")))
	}
	if len(p.Traits.Catchphrases) > 0 {
		sb.WriteString(fmt.Sprintf("Catchphrases: %s\n", strings.Join(p.Traits.Catchphrases, " | ")))
	}
	sb.WriteString(fmt.Sprintf("Decision framework: %s\n", p.DecisionFramework))
	sb.WriteString(fmt.Sprintf("Voice: %s\n", p.VoiceDescription))
	sb.WriteString("Stay in character. Respond with a single JSON object and nothing else.")
	return sb.String()
}

// stagePrompt renders the user prompt for one stage, including the purchase,
// the financial snapshot and every prior stage's output verbatim.
func stagePrompt(stage models.Stage, pc PromptContext) string {
	var sb strings.Builder

	sb.WriteString("PURCHASE UNDER DELIBERATION\n")
	sb.WriteString(fmt.Sprintf("Item: %s\n", pc.Purchase.Item))
	sb.WriteString(fmt.Sprintf("Price: %s\n", format.Money(pc.Purchase.Price)))
	if pc.Purchase.Category != "" {
		sb.WriteString(fmt.Sprintf("Category: %s\n", pc.Purchase.Category))
	}
	sb.WriteString(fmt.Sprintf("Urgency: %s\n", pc.Purchase.Urgency))
	if pc.Purchase.Description != "" {
		sb.WriteString(fmt.Sprintf("Description: %s\n", pc.Purchase.Description))
	}
	if pc.Purchase.Context != "" {
		sb.WriteString(fmt.Sprintf("User context: %s\n", pc.Purchase.Context))
	}

	sb.WriteString("\nFINANCIAL SNAPSHOT (monthly)\n")
	sb.WriteString(fmt.Sprintf("Income: %s\n", format.Money(pc.Financial.MonthlyIncome)))
	sb.WriteString(fmt.Sprintf("Fixed expenses: %s\n", format.Money(pc.Financial.MonthlyExpenses)))
	sb.WriteString(fmt.Sprintf("Bills: %s\n", format.Money(pc.Financial.MonthlyBills)))
	sb.WriteString(fmt.Sprintf("Discretionary budget: %s\n", format.Money(pc.Financial.DiscretionaryBudget)))
	sb.WriteString(fmt.Sprintf("Total savings: %s\n", format.Money(pc.Financial.TotalSavings)))
	sb.WriteString(fmt.Sprintf("Total debt: %s\n", format.Money(pc.Financial.TotalDebt)))

	sb.WriteString("\nAFFORDABILITY ANALYSIS\n")
	sb.WriteString(fmt.Sprintf("Share of monthly income: %s\n", format.Percent(pc.Affordability.PercentageOfIncome)))
	sb.WriteString(fmt.Sprintf("Share of discretionary budget: %s\n", format.Percent(pc.Affordability.PercentageOfDisposable)))
	sb.WriteString(fmt.Sprintf("Share of savings: %s\n", format.Percent(pc.Affordability.PercentageOfSavings)))
	sb.WriteString(fmt.Sprintf("Verdict: %s\n", pc.Affordability.Recommendation))

	if pc.Research != nil {
		writePriorStage(&sb, "RESEARCH", pc.Research)
	}
	if pc.Reasoning != nil {
		writePriorStage(&sb, "REASONING", pc.Reasoning)
	}
	if pc.Critique != nil {
		writePriorStage(&sb, "CRITIQUE", pc.Critique)
	}

	sb.WriteString("\nYOUR TASK\n")
	sb.WriteString(stageInstructions(stage))
	return sb.String()
}

func writePriorStage(sb *strings.Builder, label string, output interface{}) {
	raw, err := json.Marshal(output)
	if err != nil {
		return
	}
	sb.WriteString(fmt.Sprintf("\nYOUR PRIOR %s STAGE\n%s\n", label, string(raw)))
}

func stageInstructions(stage models.Stage) string {
	switch stage {
	case models.StageResearch:
		return `Research this purchase: market landscape, whether the price is fair, cheaper or better alternatives, and what to weigh.
Respond with JSON: {"market_context": string, "price_analysis": string, "alternatives": [string], "key_considerations": [string]}`
	case models.StageReasoning:
		return `Reason about this purchase through your persona's framework, building on your research.
Respond with JSON: {"pros": [string], "cons": [string], "alignment": string, "initial_leaning": "approve"|"reject"|"unsure", "confidence": number 0-100}`
	case models.StageCritique:
		return `Critique your own reasoning: what are you missing, what would a rival advisor say, and where do you land now?
Respond with JSON: {"blind_spots": [string], "counter_arguments": [string], "revised_position": "approve"|"reject", "final_confidence": number 0-100}`
	case models.StageVote:
		return `Cast your final vote, consistent with your critique, and sign off with one of your catchphrases.
Respond with JSON: {"decision": "approve"|"reject", "reasoning": string, "confidence": number 0-100, "key_factors": [string], "catchphrase": string}`
	default:
		return ""
	}
}
