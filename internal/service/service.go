package service

import (
	"context"
	"time"

	sb "smart_budget"
	"smart_budget/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password, email string) error
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Budget exposes the ledger operations: month read/write, category
// management and export. Every mutation runs a full reload-mutate-save
// cycle against the user's document.
type Budget interface {
	ListMonths(ctx context.Context, username string) ([]sb.MonthSummary, error)
	GetMonth(ctx context.Context, username, month string) (sb.BudgetRecord, error)
	SaveMonth(ctx context.Context, username, month string, rec sb.BudgetRecord) error
	Categories(ctx context.Context, username string) ([]string, error)
	AddCategory(ctx context.Context, username, name string) error
	RemoveCategory(ctx context.Context, username, name string) error
	Export(ctx context.Context, username string) ([]byte, error)
}

// Insights exposes the derived read-only views: per-month summaries,
// month-over-month trends and the rule-based advice.
type Insights interface {
	Summaries(ctx context.Context, username string) ([]sb.MonthSummary, error)
	Trends(ctx context.Context, username string) ([]sb.Trend, error)
	Advise(ctx context.Context, username, month string) ([]sb.Insight, error)
	MonthSummary(ctx context.Context, username, month string) (sb.MonthSummary, error)
}

// ActivityFilter narrows an activity listing.
type ActivityFilter struct {
	From time.Time
	To   time.Time
	Type string
}

// Activity exposes the per-user activity log.
type Activity interface {
	List(ctx context.Context, username string, f ActivityFilter) ([]sb.ActivityEvent, error)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Budget
	Insights
	Activity
}

// AuthConfig carries token signing parameters.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// Thresholds are the insight rule knobs. Zero values fall back to the
// defaults the rules were designed around.
type Thresholds struct {
	LowSavingsRate     float64 // warn below this savings rate
	GoodSavingsRate    float64 // praise at or above this savings rate
	ExpenseRisePct     float64 // warn when expenses rise more than this vs previous month
	ConcentrationShare float64 // note when one category exceeds this share of expenses
}

// Config groups everything the service layer reads from configuration.
type Config struct {
	Auth       AuthConfig
	Thresholds Thresholds
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Accounts, repos.Ledgers, repos.Activity, cfg.Auth),
		Budget:        NewBudgetService(repos.Ledgers, repos.Activity),
		Insights:      NewInsightService(repos.Ledgers, cfg.Thresholds),
		Activity:      NewActivityService(repos.Activity),
	}
}
