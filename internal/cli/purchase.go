package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finance-board/internal/models"
	"finance-board/internal/store"
	"finance-board/pkg/format"
)

func newPurchaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Manage purchase requests",
		Long:  "Submit, list, and inspect purchase requests awaiting board deliberation.",
	}

	cmd.AddCommand(newPurchaseAddCmd(app))
	cmd.AddCommand(newPurchaseListCmd(app))
	cmd.AddCommand(newPurchaseShowCmd(app))

	return cmd
}

func newPurchaseAddCmd(app *App) *cobra.Command {
	var (
		userID      string
		item        string
		price       float64
		category    string
		urgency     string
		description string
		userContext string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Submit a new purchase request",
		Example: `  board purchase add --user alice --item "espresso machine" --price 499.99
  board purchase add --user alice --item "laptop" --price 1800 --urgency high --category work`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			purchase := &models.PurchaseRequest{
				ID:          generatePurchaseID(),
				UserID:      userID,
				Item:        item,
				Price:       price,
				Category:    category,
				Urgency:     models.Urgency(urgency),
				Description: description,
				Context:     userContext,
				Status:      models.StatusPending,
				CreatedAt:   time.Now(),
			}
			if err := purchase.Validate(); err != nil {
				return err
			}

			if err := app.Store.SavePurchase(cmd.Context(), purchase); err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(purchase)
			}
			output.Success("✓ Purchase request %s submitted", purchase.ID)
			output.Printf("  %s at %s (urgency: %s)\n", purchase.Item, format.Money(purchase.Price), purchase.Urgency)
			output.Dim("Run 'board deliberate %s' to convene the board.", purchase.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&item, "item", "", "item name (required)")
	cmd.Flags().Float64Var(&price, "price", 0, "price in dollars (required)")
	cmd.Flags().StringVar(&category, "category", "", "purchase category")
	cmd.Flags().StringVar(&urgency, "urgency", "medium", "urgency: low, medium, or high")
	cmd.Flags().StringVar(&description, "description", "", "item description")
	cmd.Flags().StringVar(&userContext, "context", "", "extra context for the board")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("item")
	cmd.MarkFlagRequired("price")

	return cmd
}

func newPurchaseListCmd(app *App) *cobra.Command {
	var (
		userID string
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List purchase requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			purchases, err := app.Store.ListPurchases(cmd.Context(), store.PurchaseFilter{
				UserID: userID,
				Status: models.PurchaseStatus(status),
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(purchases)
			}
			if len(purchases) == 0 {
				output.Dim("No purchase requests found.")
				return nil
			}

			table := NewTable(output, "ID", "USER", "ITEM", "PRICE", "URGENCY", "STATUS", "CREATED")
			for _, p := range purchases {
				table.AddRow(
					p.ID,
					p.UserID,
					format.Truncate(p.Item, 30),
					format.Money(p.Price),
					string(p.Urgency),
					output.Status(p.Status),
					p.CreatedAt.Format("2006-01-02 15:04"),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "filter by user id")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().IntVar(&limit, "limit", 0, "limit number of results")

	return cmd
}

func newPurchaseShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <purchase-id>",
		Short: "Show a purchase request and its latest verdict",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			purchase, err := app.Store.GetPurchase(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			deliberations, err := app.Store.GetDeliberations(cmd.Context(), purchase.ID)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"purchase":      purchase,
					"deliberations": deliberations,
				})
			}

			output.Bold("%s — %s", purchase.ID, purchase.Item)
			output.Printf("  User:     %s\n", purchase.UserID)
			output.Printf("  Price:    %s\n", format.Money(purchase.Price))
			if purchase.Category != "" {
				output.Printf("  Category: %s\n", purchase.Category)
			}
			output.Printf("  Urgency:  %s\n", purchase.Urgency)
			output.Printf("  Status:   %s\n", output.Status(purchase.Status))
			if purchase.Description != "" {
				output.Printf("  About:    %s\n", purchase.Description)
			}
			if purchase.Context != "" {
				output.Printf("  Context:  %s\n", purchase.Context)
			}

			if len(deliberations) == 0 {
				output.Dim("No deliberations yet.")
				return nil
			}

			latest := deliberations[0]
			output.Println()
			output.Bold("Latest deliberation (%s)", latest.ID)
			output.Printf("  Decision: %s\n", output.Decision(latest.FinalDecision))
			output.Printf("  Tally:    %d approve / %d reject", latest.ApproveCount, latest.RejectCount)
			if len(latest.Failures) > 0 {
				output.Printf(" (%d member(s) failed)", len(latest.Failures))
			}
			output.Println()
			output.Printf("  Summary:  %s\n", latest.Summary)
			if latest.Insight != "" {
				output.Printf("  Insight:  %s\n", latest.Insight)
			}
			return nil
		},
	}

	return cmd
}

func generatePurchaseID() string {
	return fmt.Sprintf("PUR-%d", time.Now().UnixNano())
}
