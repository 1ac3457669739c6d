// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"finance-board/internal/errors"
	"finance-board/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabaseError, "failed to open database: %v", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabaseError, "failed to initialize schema: %v", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Purchase requests
	CREATE TABLE IF NOT EXISTS purchases (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		item TEXT NOT NULL,
		price REAL NOT NULL,
		category TEXT,
		urgency TEXT NOT NULL,
		description TEXT,
		context TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Income sources
	CREATE TABLE IF NOT EXISTS income_sources (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		amount REAL NOT NULL,
		frequency TEXT NOT NULL,
		active INTEGER DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Budgeted expenses
	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		amount REAL NOT NULL,
		frequency TEXT NOT NULL,
		recurring INTEGER DEFAULT 0,
		fixed INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Bills
	CREATE TABLE IF NOT EXISTS bills (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		amount REAL NOT NULL,
		frequency TEXT NOT NULL,
		due_day INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Savings goals
	CREATE TABLE IF NOT EXISTS savings_goals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		target_amount REAL NOT NULL,
		current_balance REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Accounts
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		balance REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Board deliberations
	CREATE TABLE IF NOT EXISTS deliberations (
		id TEXT PRIMARY KEY,
		purchase_id TEXT NOT NULL,
		votes TEXT,
		failures TEXT,
		approve_count INTEGER NOT NULL,
		reject_count INTEGER NOT NULL,
		final_decision TEXT NOT NULL,
		is_unanimous INTEGER DEFAULT 0,
		summary TEXT,
		insight TEXT,
		started_at DATETIME NOT NULL,
		completed_at DATETIME NOT NULL,
		processing_time_ms INTEGER,
		financial_context TEXT,
		affordability TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (purchase_id) REFERENCES purchases(id)
	);

	-- Per-member results, one row per successful advisor
	CREATE TABLE IF NOT EXISTS member_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		deliberation_id TEXT NOT NULL,
		persona_id TEXT NOT NULL,
		persona_name TEXT NOT NULL,
		research TEXT,
		reasoning TEXT,
		critique TEXT,
		vote TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (deliberation_id) REFERENCES deliberations(id)
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_purchases_user ON purchases(user_id);
	CREATE INDEX IF NOT EXISTS idx_purchases_status ON purchases(status);
	CREATE INDEX IF NOT EXISTS idx_income_user ON income_sources(user_id);
	CREATE INDEX IF NOT EXISTS idx_expenses_user ON expenses(user_id);
	CREATE INDEX IF NOT EXISTS idx_bills_user ON bills(user_id);
	CREATE INDEX IF NOT EXISTS idx_goals_user ON savings_goals(user_id);
	CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts(user_id);
	CREATE INDEX IF NOT EXISTS idx_deliberations_purchase ON deliberations(purchase_id);
	CREATE INDEX IF NOT EXISTS idx_member_results_deliberation ON member_results(deliberation_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SavePurchase saves a purchase request to the database.
func (s *SQLiteStore) SavePurchase(ctx context.Context, purchase *models.PurchaseRequest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO purchases (id, user_id, item, price, category, urgency, description, context, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, purchase.ID, purchase.UserID, purchase.Item, purchase.Price, purchase.Category,
		string(purchase.Urgency), purchase.Description, purchase.Context, string(purchase.Status), purchase.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save purchase: %w", err)
	}
	return nil
}

// GetPurchase retrieves a purchase by ID.
func (s *SQLiteStore) GetPurchase(ctx context.Context, id string) (*models.PurchaseRequest, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, item, price, COALESCE(category, ''), urgency,
		       COALESCE(description, ''), COALESCE(context, ''), status, created_at
		FROM purchases WHERE id = ?
	`, id)

	var p models.PurchaseRequest
	var urgency, status string
	err := row.Scan(&p.ID, &p.UserID, &p.Item, &p.Price, &p.Category, &urgency,
		&p.Description, &p.Context, &status, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.ErrPurchaseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}
	p.Urgency = models.Urgency(urgency)
	p.Status = models.PurchaseStatus(status)
	return &p, nil
}

// ListPurchases retrieves purchases matching the filter.
func (s *SQLiteStore) ListPurchases(ctx context.Context, filter PurchaseFilter) ([]models.PurchaseRequest, error) {
	query := `SELECT id, user_id, item, price, COALESCE(category, ''), urgency,
		COALESCE(description, ''), COALESCE(context, ''), status, created_at
		FROM purchases WHERE 1=1`
	args := []interface{}{}

	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if !filter.StartDate.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []models.PurchaseRequest
	for rows.Next() {
		var p models.PurchaseRequest
		var urgency, status string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Item, &p.Price, &p.Category, &urgency,
			&p.Description, &p.Context, &status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		p.Urgency = models.Urgency(urgency)
		p.Status = models.PurchaseStatus(status)
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// UpdatePurchaseStatus updates a purchase's status.
func (s *SQLiteStore) UpdatePurchaseStatus(ctx context.Context, id string, status models.PurchaseStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE purchases SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update purchase status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update purchase status: %w", err)
	}
	if affected == 0 {
		return errors.ErrPurchaseNotFound
	}
	return nil
}

// SaveIncomeSource saves an income source.
func (s *SQLiteStore) SaveIncomeSource(ctx context.Context, income *models.IncomeSource) error {
	active := 0
	if income.Active {
		active = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO income_sources (id, user_id, name, amount, frequency, active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, income.ID, income.UserID, income.Name, income.Amount, string(income.Frequency), active)
	if err != nil {
		return fmt.Errorf("failed to save income source: %w", err)
	}
	return nil
}

// GetIncomeSources retrieves a user's income sources.
func (s *SQLiteStore) GetIncomeSources(ctx context.Context, userID string, activeOnly bool) ([]models.IncomeSource, error) {
	query := `SELECT id, user_id, name, amount, frequency, active FROM income_sources WHERE user_id = ?`
	if activeOnly {
		query += " AND active = 1"
	}

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query income sources: %w", err)
	}
	defer rows.Close()

	var incomes []models.IncomeSource
	for rows.Next() {
		var inc models.IncomeSource
		var freq string
		var active int
		if err := rows.Scan(&inc.ID, &inc.UserID, &inc.Name, &inc.Amount, &freq, &active); err != nil {
			return nil, fmt.Errorf("failed to scan income source: %w", err)
		}
		inc.Frequency = models.Frequency(freq)
		inc.Active = active == 1
		incomes = append(incomes, inc)
	}
	return incomes, rows.Err()
}

// SaveExpense saves an expense record.
func (s *SQLiteStore) SaveExpense(ctx context.Context, expense *models.ExpenseRecord) error {
	recurring, fixed := 0, 0
	if expense.Recurring {
		recurring = 1
	}
	if expense.Fixed {
		fixed = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO expenses (id, user_id, name, amount, frequency, recurring, fixed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, expense.ID, expense.UserID, expense.Name, expense.Amount, string(expense.Frequency), recurring, fixed)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

// GetExpenses retrieves a user's expense records.
func (s *SQLiteStore) GetExpenses(ctx context.Context, userID string) ([]models.ExpenseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, amount, frequency, recurring, fixed FROM expenses WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.ExpenseRecord
	for rows.Next() {
		var exp models.ExpenseRecord
		var freq string
		var recurring, fixed int
		if err := rows.Scan(&exp.ID, &exp.UserID, &exp.Name, &exp.Amount, &freq, &recurring, &fixed); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		exp.Frequency = models.Frequency(freq)
		exp.Recurring = recurring == 1
		exp.Fixed = fixed == 1
		expenses = append(expenses, exp)
	}
	return expenses, rows.Err()
}

// SaveBill saves a bill.
func (s *SQLiteStore) SaveBill(ctx context.Context, bill *models.Bill) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO bills (id, user_id, name, amount, frequency, due_day)
		VALUES (?, ?, ?, ?, ?, ?)
	`, bill.ID, bill.UserID, bill.Name, bill.Amount, string(bill.Frequency), bill.DueDay)
	if err != nil {
		return fmt.Errorf("failed to save bill: %w", err)
	}
	return nil
}

// GetBills retrieves a user's bills.
func (s *SQLiteStore) GetBills(ctx context.Context, userID string) ([]models.Bill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, amount, frequency, COALESCE(due_day, 0) FROM bills WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var bill models.Bill
		var freq string
		if err := rows.Scan(&bill.ID, &bill.UserID, &bill.Name, &bill.Amount, &freq, &bill.DueDay); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bill.Frequency = models.Frequency(freq)
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

// SaveSavingsGoal saves a savings goal.
func (s *SQLiteStore) SaveSavingsGoal(ctx context.Context, goal *models.SavingsGoal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO savings_goals (id, user_id, name, target_amount, current_balance)
		VALUES (?, ?, ?, ?, ?)
	`, goal.ID, goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentBalance)
	if err != nil {
		return fmt.Errorf("failed to save savings goal: %w", err)
	}
	return nil
}

// GetSavingsGoals retrieves a user's savings goals.
func (s *SQLiteStore) GetSavingsGoals(ctx context.Context, userID string) ([]models.SavingsGoal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, target_amount, current_balance FROM savings_goals WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query savings goals: %w", err)
	}
	defer rows.Close()

	var goals []models.SavingsGoal
	for rows.Next() {
		var goal models.SavingsGoal
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Name, &goal.TargetAmount, &goal.CurrentBalance); err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// SaveAccount saves a financial account.
func (s *SQLiteStore) SaveAccount(ctx context.Context, account *models.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO accounts (id, user_id, name, type, balance)
		VALUES (?, ?, ?, ?, ?)
	`, account.ID, account.UserID, account.Name, string(account.Type), account.Balance)
	if err != nil {
		return fmt.Errorf("failed to save account: %w", err)
	}
	return nil
}

// GetAccounts retrieves a user's accounts.
func (s *SQLiteStore) GetAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, balance FROM accounts WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var acct models.Account
		var acctType string
		if err := rows.Scan(&acct.ID, &acct.UserID, &acct.Name, &acctType, &acct.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		acct.Type = models.AccountType(acctType)
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

// SaveDeliberation saves a board deliberation to the database.
func (s *SQLiteStore) SaveDeliberation(ctx context.Context, d *models.BoardDeliberation) error {
	votes, _ := json.Marshal(d.Votes)
	failures, _ := json.Marshal(d.Failures)
	fc, _ := json.Marshal(d.FinancialContext)
	affordability, _ := json.Marshal(d.Affordability)
	unanimous := 0
	if d.IsUnanimous {
		unanimous = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO deliberations (id, purchase_id, votes, failures, approve_count, reject_count,
			final_decision, is_unanimous, summary, insight, started_at, completed_at, processing_time_ms,
			financial_context, affordability)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.PurchaseID, string(votes), string(failures), d.ApproveCount, d.RejectCount,
		string(d.FinalDecision), unanimous, d.Summary, d.Insight, d.StartedAt, d.CompletedAt,
		d.TotalProcessingTimeMs, string(fc), string(affordability))
	if err != nil {
		return fmt.Errorf("failed to save deliberation: %w", err)
	}
	return nil
}

// GetDeliberations retrieves deliberations for a purchase, newest first.
func (s *SQLiteStore) GetDeliberations(ctx context.Context, purchaseID string) ([]models.BoardDeliberation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, purchase_id, COALESCE(votes, '[]'), COALESCE(failures, '[]'), approve_count, reject_count,
			final_decision, is_unanimous, COALESCE(summary, ''), COALESCE(insight, ''), started_at, completed_at,
			COALESCE(processing_time_ms, 0), COALESCE(financial_context, '{}'), COALESCE(affordability, '{}')
		FROM deliberations WHERE purchase_id = ? ORDER BY started_at DESC
	`, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deliberations: %w", err)
	}
	defer rows.Close()

	var deliberations []models.BoardDeliberation
	for rows.Next() {
		var d models.BoardDeliberation
		var votes, failures, fc, affordability, decision string
		var unanimous int
		if err := rows.Scan(&d.ID, &d.PurchaseID, &votes, &failures, &d.ApproveCount, &d.RejectCount,
			&decision, &unanimous, &d.Summary, &d.Insight, &d.StartedAt, &d.CompletedAt,
			&d.TotalProcessingTimeMs, &fc, &affordability); err != nil {
			return nil, fmt.Errorf("failed to scan deliberation: %w", err)
		}
		d.FinalDecision = models.VoteDecision(decision)
		d.IsUnanimous = unanimous == 1
		json.Unmarshal([]byte(votes), &d.Votes)
		json.Unmarshal([]byte(failures), &d.Failures)
		json.Unmarshal([]byte(fc), &d.FinancialContext)
		json.Unmarshal([]byte(affordability), &d.Affordability)
		deliberations = append(deliberations, d)
	}
	return deliberations, rows.Err()
}

// SaveMemberResult saves one advisor's result for a deliberation.
func (s *SQLiteStore) SaveMemberResult(ctx context.Context, deliberationID string, result *models.MemberResult) error {
	research, _ := json.Marshal(result.Research)
	reasoning, _ := json.Marshal(result.Reasoning)
	critique, _ := json.Marshal(result.Critique)
	vote, _ := json.Marshal(result.Vote)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO member_results (deliberation_id, persona_id, persona_name, research, reasoning, critique, vote)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, deliberationID, result.PersonaID, result.PersonaName,
		string(research), string(reasoning), string(critique), string(vote))
	if err != nil {
		return fmt.Errorf("failed to save member result: %w", err)
	}
	return nil
}

// GetMemberResults retrieves the member results for a deliberation.
func (s *SQLiteStore) GetMemberResults(ctx context.Context, deliberationID string) ([]models.MemberResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT persona_id, persona_name, COALESCE(research, '{}'), COALESCE(reasoning, '{}'),
			COALESCE(critique, '{}'), COALESCE(vote, '{}')
		FROM member_results WHERE deliberation_id = ? ORDER BY id
	`, deliberationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query member results: %w", err)
	}
	defer rows.Close()

	var results []models.MemberResult
	for rows.Next() {
		var r models.MemberResult
		var research, reasoning, critique, vote string
		if err := rows.Scan(&r.PersonaID, &r.PersonaName, &research, &reasoning, &critique, &vote); err != nil {
			return nil, fmt.Errorf("failed to scan member result: %w", err)
		}
		json.Unmarshal([]byte(research), &r.Research)
		json.Unmarshal([]byte(reasoning), &r.Reasoning)
		json.Unmarshal([]byte(critique), &r.Critique)
		json.Unmarshal([]byte(vote), &r.Vote)
		results = append(results, r)
	}
	return results, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
