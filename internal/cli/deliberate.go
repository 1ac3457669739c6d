package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"finance-board/internal/board"
	"finance-board/internal/resilience"
	"finance-board/pkg/format"
)

func newDeliberateCmd(app *App) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "deliberate <purchase-id>",
		Short: "Convene the board on a purchase request",
		Long: `Runs the full deliberation: builds the user's financial snapshot, sends
every advisor through research, reasoning, critique and vote, tallies the
result, and records the verdict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			if err := app.requireClient(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			var progress board.ProgressFunc
			if !quiet && !output.IsJSON() {
				progress = func(ev board.ProgressEvent) {
					if ev.Err != nil {
						output.Warning("  ✗ %s failed at %s: %v", ev.PersonaName, ev.Stage, ev.Err)
						return
					}
					output.Dim("  · %s completed %s", ev.PersonaName, ev.Stage)
				}
			}

			if !output.IsJSON() {
				output.Info("Convening the board on %s (%d advisors, batches of %d)...",
					args[0], len(app.Roster), app.Config.Board.BatchSize)
			}

			coordinator := board.NewCoordinator(app.Store, app.Client, app.Roster,
				app.Config.Board, app.Logger, progress)
			deliberation, err := coordinator.Deliberate(cmd.Context(), args[0])
			if err != nil {
				if bc, ok := app.Client.(*board.BreakerClient); ok {
					if st := bc.BreakerStats(); st.State != resilience.StateClosed {
						output.Warning("Provider circuit breaker is %s (%d/%d calls failed); retry after the cool-off.",
							st.State, st.TotalFailures, st.TotalCalls)
					}
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(deliberation)
			}

			output.Println()
			output.Printf("%s %s\n", output.BoldText("Verdict:"), output.Decision(deliberation.FinalDecision))
			output.Printf("  %s\n", deliberation.Summary)
			if deliberation.Insight != "" {
				output.Printf("  Insight: %s\n", deliberation.Insight)
			}
			output.Println()

			table := NewTable(output, "ADVISOR", "VOTE", "CONFIDENCE", "CATCHPHRASE")
			results, err := app.Store.GetMemberResults(cmd.Context(), deliberation.ID)
			if err != nil {
				return err
			}
			for _, r := range results {
				table.AddRow(
					r.PersonaName,
					output.Decision(r.Vote.Decision),
					format.Confidence(r.Vote.Confidence),
					format.Truncate(r.Vote.Catchphrase, 50),
				)
			}
			for _, f := range deliberation.Failures {
				table.AddRow(f.PersonaName, output.Yellow("— failed"), "-", format.Truncate(f.Reason, 50))
			}
			table.Render()

			output.Println()
			output.Dim("Completed in %dms.", deliberation.TotalProcessingTimeMs)
			return nil
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress per-stage progress output")

	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <purchase-id>",
		Short: "Show past deliberations for a purchase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			deliberations, err := app.Store.GetDeliberations(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(deliberations)
			}
			if len(deliberations) == 0 {
				output.Dim("No deliberations recorded for %s.", args[0])
				return nil
			}

			table := NewTable(output, "ID", "WHEN", "DECISION", "TALLY", "FAILED", "AFFORDABILITY")
			for _, d := range deliberations {
				table.AddRow(
					d.ID,
					d.StartedAt.Format("2006-01-02 15:04"),
					output.Decision(d.FinalDecision),
					fmt.Sprintf("%d-%d", d.ApproveCount, d.RejectCount),
					fmt.Sprintf("%d", len(d.Failures)),
					output.Tier(d.Affordability.Recommendation),
				)
			}
			table.Render()
			return nil
		},
	}

	return cmd
}
