package smart_budget

import (
	"regexp"
	"time"
)

// DefaultCategories is the expense category set every new ledger starts with.
// Users can extend or prune it; removing a category scrubs it from all months.
var DefaultCategories = []string{
	"Rent/Mortgage", "Utilities", "Groceries", "Transport",
	"Entertainment", "Healthcare", "Insurance", "Savings",
	"Debt Repayment", "Dining Out", "Shopping", "Other",
}

// monthKeyPattern validates YYYY-MM keys; lexicographic order of valid keys
// equals chronological order.
var monthKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidMonthKey reports whether s is a well-formed YYYY-MM month key.
func ValidMonthKey(s string) bool {
	return monthKeyPattern.MatchString(s)
}

// CurrentMonthKey returns the month key for the current UTC month.
func CurrentMonthKey() string {
	return time.Now().UTC().Format("2006-01")
}

// BudgetRecord is one month's income/expenses/debt snapshot.
type BudgetRecord struct {
	Income   float64            `json:"income"`
	Expenses map[string]float64 `json:"expenses"`
	Debt     float64            `json:"debt"`
}

// TotalExpenses sums every expense entry of the record.
func (r BudgetRecord) TotalExpenses() float64 {
	var total float64
	for _, v := range r.Expenses {
		total += v
	}
	return total
}

// Savings is income minus total expenses. May be negative.
func (r BudgetRecord) Savings() float64 {
	return r.Income - r.TotalExpenses()
}

// SavingsRate is savings divided by income, defined as 0 when income is 0
// so zero-income months never divide by zero.
func (r BudgetRecord) SavingsRate() float64 {
	if r.Income == 0 {
		return 0
	}
	return r.Savings() / r.Income
}

// Ledger is the full per-user budget document: the user's category list plus
// a mapping of month key to record. It is persisted wholesale as one JSON
// document per user.
type Ledger struct {
	Categories []string                `json:"categories"`
	Months     map[string]BudgetRecord `json:"months"`
}

// NewLedger returns an empty ledger seeded with the default categories.
func NewLedger() Ledger {
	cats := make([]string, len(DefaultCategories))
	copy(cats, DefaultCategories)
	return Ledger{
		Categories: cats,
		Months:     map[string]BudgetRecord{},
	}
}

// User is one account record. The hash is bcrypt; the raw password is never
// stored.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// MonthSummary is the per-month derived view used by listings, insights and
// the live stream.
type MonthSummary struct {
	Month         string  `json:"month"`
	Income        float64 `json:"income"`
	TotalExpenses float64 `json:"total_expenses"`
	Savings       float64 `json:"savings"`
	SavingsRate   float64 `json:"savings_rate"`
	Debt          float64 `json:"debt"`
}

// Trend is the month-over-month delta of the derived metrics, absolute and
// as a fraction of the previous month's value (0 when the base is 0).
type Trend struct {
	Month         string  `json:"month"`
	PrevMonth     string  `json:"prev_month"`
	SavingsDelta  float64 `json:"savings_delta"`
	SavingsPct    float64 `json:"savings_pct"`
	ExpensesDelta float64 `json:"expenses_delta"`
	ExpensesPct   float64 `json:"expenses_pct"`
	DebtDelta     float64 `json:"debt_delta"`
	DebtPct       float64 `json:"debt_pct"`
}

// Insight severity levels.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeveritySuccess = "success"
)

// Insight is one rule-based advisory message.
type Insight struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Activity event types.
const (
	ActivitySignUp         = "SIGNUP"
	ActivitySignIn         = "SIGNIN"
	ActivitySave           = "SAVE"
	ActivityCategoryAdd    = "CATEGORY_ADD"
	ActivityCategoryRemove = "CATEGORY_REMOVE"
	ActivityExport         = "EXPORT"
)

// ActivityEvent is a single entry of the per-user activity log.
type ActivityEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Username    string    `json:"username"`
	Type        string    `json:"type"`        // SIGNUP | SIGNIN | SAVE | CATEGORY_ADD | CATEGORY_REMOVE | EXPORT
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
