package board

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"finance-board/internal/logging"
	"finance-board/internal/models"
	"finance-board/internal/personas"
)

// MemberOutcome is the terminal state of one advisor pipeline: exactly one
// of Result or Failure is set.
type MemberOutcome struct {
	Result  *models.MemberResult
	Failure *models.MemberFailure
	// Abort carries a deliberation-level cancellation (overall deadline);
	// it is not a member failure.
	Abort error
}

// MemberPipeline runs one persona through the fixed four-stage sequence
// Research -> Reasoning -> Critique -> Vote. The pipeline is linear with no
// branching; a failure at any stage stops it immediately.
type MemberPipeline struct {
	executor *StageExecutor
	persona  personas.Persona
	logger   zerolog.Logger
	progress ProgressFunc
}

// NewMemberPipeline creates a pipeline for one persona.
func NewMemberPipeline(executor *StageExecutor, persona personas.Persona, logger zerolog.Logger, progress ProgressFunc) *MemberPipeline {
	return &MemberPipeline{
		executor: executor,
		persona:  persona,
		logger:   logging.WithPersona(logger, persona.ID),
		progress: progress,
	}
}

// Run executes the pipeline and returns exactly one result or failure. Each
// stage's prompt carries the full accumulated context, so the vote stage
// sees research, reasoning and critique verbatim.
func (p *MemberPipeline) Run(ctx context.Context, pc PromptContext) MemberOutcome {
	system := systemPrompt(p.persona)

	var research models.ResearchOutput
	if err := p.runStage(ctx, models.StageResearch, system, pc, &research); err != nil {
		return p.fail(ctx, models.StageResearch, err)
	}
	pc.Research = &research

	var reasoning models.ReasoningOutput
	if err := p.runStage(ctx, models.StageReasoning, system, pc, &reasoning); err != nil {
		return p.fail(ctx, models.StageReasoning, err)
	}
	pc.Reasoning = &reasoning

	var critique models.CritiqueOutput
	if err := p.runStage(ctx, models.StageCritique, system, pc, &critique); err != nil {
		return p.fail(ctx, models.StageCritique, err)
	}
	pc.Critique = &critique

	var vote models.VoteOutput
	if err := p.runStage(ctx, models.StageVote, system, pc, &vote); err != nil {
		return p.fail(ctx, models.StageVote, err)
	}

	logging.LogVote(p.logger, p.persona.ID, string(vote.Decision), vote.Confidence)

	return MemberOutcome{
		Result: &models.MemberResult{
			PersonaID:   p.persona.ID,
			PersonaName: p.persona.Name,
			Research:    research,
			Reasoning:   reasoning,
			Critique:    critique,
			Vote:        vote,
		},
	}
}

func (p *MemberPipeline) runStage(ctx context.Context, stage models.Stage, system string, pc PromptContext, out stageResult) error {
	start := time.Now()
	err := p.executor.Execute(ctx, p.persona.ID, stage, system, stagePrompt(stage, pc), out)
	logging.LogStage(p.logger, p.persona.ID, string(stage), time.Since(start), err)
	p.progress.emit(ProgressEvent{
		PersonaID:   p.persona.ID,
		PersonaName: p.persona.Name,
		Stage:       stage,
		Err:         err,
	})
	return err
}

// fail decides between a member failure and a deliberation abort. Only the
// parent context says whether the whole run is dead: a hung provider call
// surfaces context.DeadlineExceeded from the per-stage timeout too, and that
// is fatal to this member alone.
func (p *MemberPipeline) fail(ctx context.Context, stage models.Stage, err error) MemberOutcome {
	if ctx.Err() != nil {
		return MemberOutcome{Abort: ctx.Err()}
	}
	return MemberOutcome{
		Failure: &models.MemberFailure{
			PersonaID:   p.persona.ID,
			PersonaName: p.persona.Name,
			Stage:       stage,
			Reason:      err.Error(),
		},
	}
}
