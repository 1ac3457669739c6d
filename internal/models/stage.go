package models

import "fmt"

// Stage identifies one of the four reasoning stages every advisor passes
// through, in order.
type Stage string

const (
	StageResearch  Stage = "research"
	StageReasoning Stage = "reasoning"
	StageCritique  Stage = "critique"
	StageVote      Stage = "vote"
)

// Leaning is an advisor's provisional position after the reasoning stage.
type Leaning string

const (
	LeanApprove Leaning = "approve"
	LeanReject  Leaning = "reject"
	LeanUnsure  Leaning = "unsure"
)

// VoteDecision is a final approve/reject position.
type VoteDecision string

const (
	DecisionApprove VoteDecision = "approve"
	DecisionReject  VoteDecision = "reject"
)

// ResearchOutput is the structured result of the research stage.
type ResearchOutput struct {
	MarketContext     string   `json:"market_context"`
	PriceAnalysis     string   `json:"price_analysis"`
	Alternatives      []string `json:"alternatives"`
	KeyConsiderations []string `json:"key_considerations"`
}

// Validate checks the research output for structural completeness.
func (o *ResearchOutput) Validate() error {
	if o.MarketContext == "" {
		return fmt.Errorf("market_context is required")
	}
	if o.PriceAnalysis == "" {
		return fmt.Errorf("price_analysis is required")
	}
	return nil
}

// ReasoningOutput is the structured result of the reasoning stage.
type ReasoningOutput struct {
	Pros           []string `json:"pros"`
	Cons           []string `json:"cons"`
	Alignment      string   `json:"alignment"`
	InitialLeaning Leaning  `json:"initial_leaning"`
	Confidence     float64  `json:"confidence"`
}

// Validate checks the reasoning output for structural completeness.
func (o *ReasoningOutput) Validate() error {
	if len(o.Pros) == 0 && len(o.Cons) == 0 {
		return fmt.Errorf("at least one pro or con is required")
	}
	switch o.InitialLeaning {
	case LeanApprove, LeanReject, LeanUnsure:
	default:
		return fmt.Errorf("invalid initial_leaning: %q", o.InitialLeaning)
	}
	if o.Confidence < 0 || o.Confidence > 100 {
		return fmt.Errorf("confidence must be between 0 and 100, got %f", o.Confidence)
	}
	return nil
}

// CritiqueOutput is the structured result of the self-critique stage.
type CritiqueOutput struct {
	BlindSpots       []string     `json:"blind_spots"`
	CounterArguments []string     `json:"counter_arguments"`
	RevisedPosition  VoteDecision `json:"revised_position"`
	FinalConfidence  float64      `json:"final_confidence"`
}

// Validate checks the critique output for structural completeness.
func (o *CritiqueOutput) Validate() error {
	switch o.RevisedPosition {
	case DecisionApprove, DecisionReject:
	default:
		return fmt.Errorf("invalid revised_position: %q", o.RevisedPosition)
	}
	if o.FinalConfidence < 0 || o.FinalConfidence > 100 {
		return fmt.Errorf("final_confidence must be between 0 and 100, got %f", o.FinalConfidence)
	}
	return nil
}

// VoteOutput is the structured result of the vote stage.
type VoteOutput struct {
	Decision    VoteDecision `json:"decision"`
	Reasoning   string       `json:"reasoning"`
	Confidence  float64      `json:"confidence"`
	KeyFactors  []string     `json:"key_factors"`
	Catchphrase string       `json:"catchphrase"`
}

// Validate checks the vote output for structural completeness.
func (o *VoteOutput) Validate() error {
	switch o.Decision {
	case DecisionApprove, DecisionReject:
	default:
		return fmt.Errorf("invalid decision: %q", o.Decision)
	}
	if o.Reasoning == "" {
		return fmt.Errorf("reasoning is required")
	}
	if o.Confidence < 0 || o.Confidence > 100 {
		return fmt.Errorf("confidence must be between 0 and 100, got %f", o.Confidence)
	}
	return nil
}
