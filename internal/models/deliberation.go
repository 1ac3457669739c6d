package models

import "time"

// MemberResult is the complete output of one advisor pipeline that ran all
// four stages to completion.
type MemberResult struct {
	PersonaID   string          `json:"persona_id"`
	PersonaName string          `json:"persona_name"`
	Research    ResearchOutput  `json:"research"`
	Reasoning   ReasoningOutput `json:"reasoning"`
	Critique    CritiqueOutput  `json:"critique"`
	Vote        VoteOutput      `json:"vote"`
}

// MemberFailure records an advisor pipeline that failed before producing a
// vote. Failures are excluded from tallying but retained for reporting.
type MemberFailure struct {
	PersonaID   string `json:"persona_id"`
	PersonaName string `json:"persona_name"`
	Stage       Stage  `json:"stage"`
	Reason      string `json:"reason"`
}

// BoardDeliberation is the record of one complete deliberation run.
type BoardDeliberation struct {
	ID                    string
	PurchaseID            string
	Votes                 []VoteOutput
	Failures              []MemberFailure
	ApproveCount          int
	RejectCount           int
	FinalDecision         VoteDecision
	IsUnanimous           bool
	Summary               string
	Insight               string
	StartedAt             time.Time
	CompletedAt           time.Time
	TotalProcessingTimeMs int64
	FinancialContext      FinancialContext
	Affordability         AffordabilityAnalysis
}
