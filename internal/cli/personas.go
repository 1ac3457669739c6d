package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"finance-board/pkg/format"
)

func newPersonasCmd(app *App) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "personas",
		Short: "Show the advisor roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if output.IsJSON() {
				return output.JSON(app.Roster)
			}

			if !verbose {
				table := NewTable(output, "ID", "NAME", "TITLE", "RISK TOLERANCE")
				for _, p := range app.Roster {
					table.AddRow(p.ID, p.Name, p.Title, p.Traits.RiskTolerance)
				}
				table.Render()
				output.Println()
				output.Dim("Use --verbose for decision frameworks and catchphrases.")
				return nil
			}

			for i, p := range app.Roster {
				if i > 0 {
					output.Println()
				}
				output.Bold("%s — %s (%s)", p.Name, p.Title, p.ID)
				output.Printf("  Risk tolerance: %s\n", p.Traits.RiskTolerance)
				if len(p.Traits.FavoriteMetrics) > 0 {
					output.Printf("  Watches:        %s\n", strings.Join(p.Traits.FavoriteMetrics, ", "))
				}
				if len(p.Traits.Biases) > 0 {
					output.Printf("  Biases:         %s\n", strings.Join(p.Traits.Biases, ", "))
				}
				output.Printf("  Framework:      %s\n", format.Truncate(p.DecisionFramework, 100))
				if len(p.Traits.Catchphrases) > 0 {
					output.Printf("  Catchphrase:    %q\n", p.Traits.Catchphrases[0])
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "show full persona details")

	return cmd
}
