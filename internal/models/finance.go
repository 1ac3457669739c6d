package models

// Frequency represents how often a financial record recurs.
type Frequency string

const (
	Weekly    Frequency = "weekly"
	Biweekly  Frequency = "biweekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Annually  Frequency = "annually"
	OneTime   Frequency = "one_time"
)

// MonthlyMultiplier returns the factor that converts an amount at this
// frequency into a monthly-equivalent amount. One-time amounts do not
// contribute to monthly figures.
func (f Frequency) MonthlyMultiplier() float64 {
	switch f {
	case Weekly:
		return 4.33
	case Biweekly:
		return 2.17
	case Monthly:
		return 1
	case Quarterly:
		return 0.33
	case Annually:
		return 0.083
	case OneTime:
		return 0
	default:
		return 0
	}
}

// IncomeSource represents a source of income for a user.
type IncomeSource struct {
	ID        string
	UserID    string
	Name      string
	Amount    float64
	Frequency Frequency
	Active    bool
}

// ExpenseRecord represents a budgeted expense. Only expenses that are both
// recurring and fixed count as monthly obligations; variable allocations are
// budget plans, not commitments.
type ExpenseRecord struct {
	ID        string
	UserID    string
	Name      string
	Amount    float64
	Frequency Frequency
	Recurring bool
	Fixed     bool
}

// Bill represents a recurring bill with a due day.
type Bill struct {
	ID        string
	UserID    string
	Name      string
	Amount    float64
	Frequency Frequency
	DueDay    int
}

// SavingsGoal represents a savings goal with a running balance.
type SavingsGoal struct {
	ID             string
	UserID         string
	Name           string
	TargetAmount   float64
	CurrentBalance float64
}

// AccountType categorizes a financial account.
type AccountType string

const (
	AccountSavings  AccountType = "savings"
	AccountChecking AccountType = "checking"
	AccountCredit   AccountType = "credit"
	AccountLoan     AccountType = "loan"
)

// Account represents a financial account. Savings and checking balances count
// toward total savings; credit and loan balances count toward total debt.
type Account struct {
	ID      string
	UserID  string
	Name    string
	Type    AccountType
	Balance float64
}

// AmountBreakdown is one line of an income or expense breakdown.
type AmountBreakdown struct {
	Name    string  `json:"name"`
	Monthly float64 `json:"monthly"`
}

// FinancialContext is a monthly-normalized snapshot of a user's finances,
// recomputed from source records at the start of every deliberation.
// DiscretionaryBudget may be negative when the user is over budget; it is
// never clamped.
type FinancialContext struct {
	MonthlyIncome       float64           `json:"monthly_income"`
	MonthlyExpenses     float64           `json:"monthly_expenses"`
	MonthlyBills        float64           `json:"monthly_bills"`
	DiscretionaryBudget float64           `json:"discretionary_budget"`
	TotalSavings        float64           `json:"total_savings"`
	TotalDebt           float64           `json:"total_debt"`
	SavingsGoals        []SavingsGoal     `json:"savings_goals,omitempty"`
	IncomeBreakdown     []AmountBreakdown `json:"income_breakdown,omitempty"`
	ExpenseBreakdown    []AmountBreakdown `json:"expense_breakdown,omitempty"`
}

// AffordabilityTier is the verdict of the affordability analysis.
type AffordabilityTier string

const (
	EasilyAffordable AffordabilityTier = "easily_affordable"
	Affordable       AffordabilityTier = "affordable"
	Stretch          AffordabilityTier = "stretch"
	NotRecommended   AffordabilityTier = "not_recommended"
	Unaffordable     AffordabilityTier = "unaffordable"
)

// AffordabilityAnalysis relates a candidate price to a financial context.
type AffordabilityAnalysis struct {
	PercentageOfIncome     float64           `json:"percentage_of_income"`
	PercentageOfDisposable float64           `json:"percentage_of_disposable"`
	PercentageOfSavings    float64           `json:"percentage_of_savings"`
	Recommendation         AffordabilityTier `json:"recommendation"`
	CanAfford              bool              `json:"can_afford"`
}
