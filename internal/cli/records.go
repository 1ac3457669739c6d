package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"finance-board/internal/finance"
	"finance-board/internal/models"
	"finance-board/pkg/format"
)

func generateRecordID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func newIncomeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Manage income sources",
	}

	var (
		userID    string
		name      string
		amount    float64
		frequency string
		inactive  bool
	)

	add := &cobra.Command{
		Use:     "add",
		Short:   "Add an income source",
		Example: `  board income add --user alice --name salary --amount 5200 --frequency monthly`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			income := &models.IncomeSource{
				ID:        generateRecordID("INC"),
				UserID:    userID,
				Name:      name,
				Amount:    amount,
				Frequency: models.Frequency(frequency),
				Active:    !inactive,
			}
			if err := app.Store.SaveIncomeSource(cmd.Context(), income); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(income)
			}
			output.Success("✓ Income source %s added (%s %s)", income.ID, format.Money(amount), frequency)
			return nil
		},
	}
	add.Flags().StringVar(&userID, "user", "", "user id (required)")
	add.Flags().StringVar(&name, "name", "", "source name (required)")
	add.Flags().Float64Var(&amount, "amount", 0, "amount per period (required)")
	add.Flags().StringVar(&frequency, "frequency", "monthly", "weekly, biweekly, monthly, quarterly, annually, or one_time")
	add.Flags().BoolVar(&inactive, "inactive", false, "mark the source inactive")
	add.MarkFlagRequired("user")
	add.MarkFlagRequired("name")
	add.MarkFlagRequired("amount")

	var listUser string
	list := &cobra.Command{
		Use:   "list",
		Short: "List income sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			incomes, err := app.Store.GetIncomeSources(cmd.Context(), listUser, false)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(incomes)
			}
			if len(incomes) == 0 {
				output.Dim("No income sources for %s.", listUser)
				return nil
			}
			table := NewTable(output, "ID", "NAME", "AMOUNT", "FREQUENCY", "MONTHLY", "ACTIVE")
			for _, in := range incomes {
				table.AddRow(
					in.ID,
					in.Name,
					format.Money(in.Amount),
					string(in.Frequency),
					format.Money(in.Amount*in.Frequency.MonthlyMultiplier()),
					fmt.Sprintf("%v", in.Active),
				)
			}
			table.Render()
			return nil
		},
	}
	list.Flags().StringVar(&listUser, "user", "", "user id (required)")
	list.MarkFlagRequired("user")

	cmd.AddCommand(add, list)
	return cmd
}

func newExpenseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Manage budgeted expenses",
	}

	var (
		userID    string
		name      string
		amount    float64
		frequency string
		recurring bool
		fixed     bool
	)

	add := &cobra.Command{
		Use:     "add",
		Short:   "Add a budgeted expense",
		Example: `  board expense add --user alice --name rent --amount 1800 --recurring --fixed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			expense := &models.ExpenseRecord{
				ID:        generateRecordID("EXP"),
				UserID:    userID,
				Name:      name,
				Amount:    amount,
				Frequency: models.Frequency(frequency),
				Recurring: recurring,
				Fixed:     fixed,
			}
			if err := app.Store.SaveExpense(cmd.Context(), expense); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(expense)
			}
			output.Success("✓ Expense %s added", expense.ID)
			if !recurring || !fixed {
				output.Dim("Note: only recurring fixed expenses count toward the monthly obligation total.")
			}
			return nil
		},
	}
	add.Flags().StringVar(&userID, "user", "", "user id (required)")
	add.Flags().StringVar(&name, "name", "", "expense name (required)")
	add.Flags().Float64Var(&amount, "amount", 0, "amount per period (required)")
	add.Flags().StringVar(&frequency, "frequency", "monthly", "recurrence frequency")
	add.Flags().BoolVar(&recurring, "recurring", false, "expense recurs every period")
	add.Flags().BoolVar(&fixed, "fixed", false, "amount is fixed rather than variable")
	add.MarkFlagRequired("user")
	add.MarkFlagRequired("name")
	add.MarkFlagRequired("amount")

	var listUser string
	list := &cobra.Command{
		Use:   "list",
		Short: "List budgeted expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			expenses, err := app.Store.GetExpenses(cmd.Context(), listUser)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(expenses)
			}
			if len(expenses) == 0 {
				output.Dim("No expenses for %s.", listUser)
				return nil
			}
			table := NewTable(output, "ID", "NAME", "AMOUNT", "FREQUENCY", "RECURRING", "FIXED")
			for _, e := range expenses {
				table.AddRow(e.ID, e.Name, format.Money(e.Amount), string(e.Frequency),
					fmt.Sprintf("%v", e.Recurring), fmt.Sprintf("%v", e.Fixed))
			}
			table.Render()
			return nil
		},
	}
	list.Flags().StringVar(&listUser, "user", "", "user id (required)")
	list.MarkFlagRequired("user")

	cmd.AddCommand(add, list)
	return cmd
}

func newBillCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bill",
		Short: "Manage recurring bills",
	}

	var (
		userID    string
		name      string
		amount    float64
		frequency string
		dueDay    int
	)

	add := &cobra.Command{
		Use:     "add",
		Short:   "Add a recurring bill",
		Example: `  board bill add --user alice --name electricity --amount 120 --due-day 15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			bill := &models.Bill{
				ID:        generateRecordID("BIL"),
				UserID:    userID,
				Name:      name,
				Amount:    amount,
				Frequency: models.Frequency(frequency),
				DueDay:    dueDay,
			}
			if err := app.Store.SaveBill(cmd.Context(), bill); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(bill)
			}
			output.Success("✓ Bill %s added", bill.ID)
			return nil
		},
	}
	add.Flags().StringVar(&userID, "user", "", "user id (required)")
	add.Flags().StringVar(&name, "name", "", "bill name (required)")
	add.Flags().Float64Var(&amount, "amount", 0, "amount per period (required)")
	add.Flags().StringVar(&frequency, "frequency", "monthly", "recurrence frequency")
	add.Flags().IntVar(&dueDay, "due-day", 1, "day of month the bill is due")
	add.MarkFlagRequired("user")
	add.MarkFlagRequired("name")
	add.MarkFlagRequired("amount")

	var listUser string
	list := &cobra.Command{
		Use:   "list",
		Short: "List bills",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			bills, err := app.Store.GetBills(cmd.Context(), listUser)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(bills)
			}
			if len(bills) == 0 {
				output.Dim("No bills for %s.", listUser)
				return nil
			}
			table := NewTable(output, "ID", "NAME", "AMOUNT", "FREQUENCY", "DUE DAY")
			for _, b := range bills {
				table.AddRow(b.ID, b.Name, format.Money(b.Amount), string(b.Frequency), fmt.Sprintf("%d", b.DueDay))
			}
			table.Render()
			return nil
		},
	}
	list.Flags().StringVar(&listUser, "user", "", "user id (required)")
	list.MarkFlagRequired("user")

	cmd.AddCommand(add, list)
	return cmd
}

func newGoalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage savings goals",
	}

	var (
		userID  string
		name    string
		target  float64
		balance float64
	)

	add := &cobra.Command{
		Use:     "add",
		Short:   "Add a savings goal",
		Example: `  board goal add --user alice --name vacation --target 3000 --balance 1200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			goal := &models.SavingsGoal{
				ID:             generateRecordID("GOA"),
				UserID:         userID,
				Name:           name,
				TargetAmount:   target,
				CurrentBalance: balance,
			}
			if err := app.Store.SaveSavingsGoal(cmd.Context(), goal); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(goal)
			}
			output.Success("✓ Savings goal %s added", goal.ID)
			return nil
		},
	}
	add.Flags().StringVar(&userID, "user", "", "user id (required)")
	add.Flags().StringVar(&name, "name", "", "goal name (required)")
	add.Flags().Float64Var(&target, "target", 0, "target amount (required)")
	add.Flags().Float64Var(&balance, "balance", 0, "current balance")
	add.MarkFlagRequired("user")
	add.MarkFlagRequired("name")
	add.MarkFlagRequired("target")

	var listUser string
	list := &cobra.Command{
		Use:   "list",
		Short: "List savings goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			goals, err := app.Store.GetSavingsGoals(cmd.Context(), listUser)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(goals)
			}
			if len(goals) == 0 {
				output.Dim("No savings goals for %s.", listUser)
				return nil
			}
			table := NewTable(output, "ID", "NAME", "BALANCE", "TARGET", "PROGRESS")
			for _, g := range goals {
				progress := "-"
				if g.TargetAmount > 0 {
					progress = format.Percent(g.CurrentBalance / g.TargetAmount * 100)
				}
				table.AddRow(g.ID, g.Name, format.Money(g.CurrentBalance), format.Money(g.TargetAmount), progress)
			}
			table.Render()
			return nil
		},
	}
	list.Flags().StringVar(&listUser, "user", "", "user id (required)")
	list.MarkFlagRequired("user")

	cmd.AddCommand(add, list)
	return cmd
}

func newAccountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage financial accounts",
	}

	var (
		userID   string
		name     string
		acctType string
		balance  float64
	)

	add := &cobra.Command{
		Use:     "add",
		Short:   "Add a financial account",
		Example: `  board account add --user alice --name "emergency fund" --type savings --balance 8000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			account := &models.Account{
				ID:      generateRecordID("ACC"),
				UserID:  userID,
				Name:    name,
				Type:    models.AccountType(acctType),
				Balance: balance,
			}
			if err := app.Store.SaveAccount(cmd.Context(), account); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(account)
			}
			output.Success("✓ Account %s added", account.ID)
			return nil
		},
	}
	add.Flags().StringVar(&userID, "user", "", "user id (required)")
	add.Flags().StringVar(&name, "name", "", "account name (required)")
	add.Flags().StringVar(&acctType, "type", "checking", "savings, checking, credit, or loan")
	add.Flags().Float64Var(&balance, "balance", 0, "current balance")
	add.MarkFlagRequired("user")
	add.MarkFlagRequired("name")

	var listUser string
	list := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			accounts, err := app.Store.GetAccounts(cmd.Context(), listUser)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(accounts)
			}
			if len(accounts) == 0 {
				output.Dim("No accounts for %s.", listUser)
				return nil
			}
			table := NewTable(output, "ID", "NAME", "TYPE", "BALANCE")
			for _, a := range accounts {
				table.AddRow(a.ID, a.Name, string(a.Type), format.Money(a.Balance))
			}
			table.Render()
			return nil
		},
	}
	list.Flags().StringVar(&listUser, "user", "", "user id (required)")
	list.MarkFlagRequired("user")

	cmd.AddCommand(add, list)
	return cmd
}

func newSnapshotCmd(app *App) *cobra.Command {
	var (
		userID string
		price  float64
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Show a user's monthly financial snapshot",
		Long: `Builds the same monthly-normalized financial context the board uses,
optionally checking a candidate price against it.`,
		Example: `  board snapshot --user alice
  board snapshot --user alice --price 1500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := NewOutput(cmd)

			builder := finance.NewBuilder(app.Store)
			fc, err := builder.Build(cmd.Context(), userID)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				payload := map[string]interface{}{"financial_context": fc}
				if price > 0 {
					payload["affordability"] = finance.Analyze(price, fc)
				}
				return output.JSON(payload)
			}

			output.Bold("Monthly snapshot for %s", userID)
			output.Printf("  Income:         %s\n", format.Money(fc.MonthlyIncome))
			output.Printf("  Fixed expenses: %s\n", format.Money(fc.MonthlyExpenses))
			output.Printf("  Bills:          %s\n", format.Money(fc.MonthlyBills))
			output.Printf("  Discretionary:  %s\n", format.Money(fc.DiscretionaryBudget))
			output.Printf("  Total savings:  %s\n", format.Money(fc.TotalSavings))
			output.Printf("  Total debt:     %s\n", format.Money(fc.TotalDebt))

			if len(fc.IncomeBreakdown) > 0 {
				output.Println()
				output.Bold("Income breakdown")
				for _, line := range fc.IncomeBreakdown {
					output.Printf("  %-24s %s\n", line.Name, format.Money(line.Monthly))
				}
			}

			if price > 0 {
				a := finance.Analyze(price, fc)
				output.Println()
				output.Bold("Affordability check: %s", format.Money(price))
				output.Printf("  Of income:        %s\n", format.Percent(a.PercentageOfIncome))
				output.Printf("  Of discretionary: %s\n", format.Percent(a.PercentageOfDisposable))
				output.Printf("  Of savings:       %s\n", format.Percent(a.PercentageOfSavings))
				output.Printf("  Verdict:          %s\n", output.Tier(a.Recommendation))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().Float64Var(&price, "price", 0, "candidate price to check")
	cmd.MarkFlagRequired("user")

	return cmd
}
