package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	sb "smart_budget"
	"smart_budget/internal/repository"
)

var (
	ErrInvalidMonthKey   = errors.New("invalid month key: expected YYYY-MM")
	ErrNegativeAmount    = errors.New("amounts must be non-negative")
	ErrCategoryExists    = errors.New("category already exists")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrEmptyCategoryName = errors.New("category name is empty")
)

// BudgetService implements the ledger operations over the per-user JSON
// documents. Every call is a full reload-mutate-save cycle; nothing is
// cached between calls.
type BudgetService struct {
	ledgers  repository.LedgerStore
	activity repository.ActivityRepo
}

func NewBudgetService(ledgers repository.LedgerStore, activity repository.ActivityRepo) *BudgetService {
	return &BudgetService{ledgers: ledgers, activity: activity}
}

// ListMonths returns a summary per recorded month, ascending by month key.
func (s *BudgetService) ListMonths(ctx context.Context, username string) ([]sb.MonthSummary, error) {
	l, err := s.ledgers.Load(username)
	if err != nil {
		return nil, err
	}
	return summarize(l), nil
}

// GetMonth returns the month's record with every user category zero-filled.
// A not-yet-existing month yields a default record; it is not persisted
// until saved.
func (s *BudgetService) GetMonth(ctx context.Context, username, month string) (sb.BudgetRecord, error) {
	if !sb.ValidMonthKey(month) {
		return sb.BudgetRecord{}, ErrInvalidMonthKey
	}
	l, err := s.ledgers.Load(username)
	if err != nil {
		return sb.BudgetRecord{}, err
	}
	rec := l.Months[month]
	rec.Expenses = fillCategories(rec.Expenses, l.Categories)
	return rec, nil
}

// SaveMonth validates and stores the record, then rewrites the whole
// document. Expense keys outside the category list are kept as one-time
// custom expenses for that month only.
func (s *BudgetService) SaveMonth(ctx context.Context, username, month string, rec sb.BudgetRecord) error {
	if !sb.ValidMonthKey(month) {
		return ErrInvalidMonthKey
	}
	if err := validateAmounts(rec); err != nil {
		return err
	}

	l, err := s.ledgers.Load(username)
	if err != nil {
		return err
	}
	rec.Expenses = fillCategories(rec.Expenses, l.Categories)
	l.Months[month] = rec

	if err := s.ledgers.Save(username, l); err != nil {
		return err
	}

	return s.activity.Append(ctx, sb.ActivityEvent{
		Username:    username,
		Type:        sb.ActivitySave,
		Description: fmt.Sprintf("Saved budget for %s", month),
		Metadata:    map[string]any{"month": month},
	})
}

// Categories returns the user's category list.
func (s *BudgetService) Categories(ctx context.Context, username string) ([]string, error) {
	l, err := s.ledgers.Load(username)
	if err != nil {
		return nil, err
	}
	return l.Categories, nil
}

// AddCategory appends a new expense category.
func (s *BudgetService) AddCategory(ctx context.Context, username, name string) error {
	if name == "" {
		return ErrEmptyCategoryName
	}
	l, err := s.ledgers.Load(username)
	if err != nil {
		return err
	}
	for _, c := range l.Categories {
		if c == name {
			return ErrCategoryExists
		}
	}
	l.Categories = append(l.Categories, name)

	if err := s.ledgers.Save(username, l); err != nil {
		return err
	}
	return s.activity.Append(ctx, sb.ActivityEvent{
		Username:    username,
		Type:        sb.ActivityCategoryAdd,
		Description: fmt.Sprintf("Added category %q", name),
	})
}

// RemoveCategory drops a category from the list and scrubs it from every
// month's expenses.
func (s *BudgetService) RemoveCategory(ctx context.Context, username, name string) error {
	l, err := s.ledgers.Load(username)
	if err != nil {
		return err
	}

	idx := -1
	for i, c := range l.Categories {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrCategoryNotFound
	}
	l.Categories = append(l.Categories[:idx], l.Categories[idx+1:]...)

	for month, rec := range l.Months {
		if _, ok := rec.Expenses[name]; ok {
			delete(rec.Expenses, name)
			l.Months[month] = rec
		}
	}

	if err := s.ledgers.Save(username, l); err != nil {
		return err
	}
	return s.activity.Append(ctx, sb.ActivityEvent{
		Username:    username,
		Type:        sb.ActivityCategoryRemove,
		Description: fmt.Sprintf("Removed category %q from all months", name),
	})
}

// Export returns the user's document exactly as stored on disk.
func (s *BudgetService) Export(ctx context.Context, username string) ([]byte, error) {
	b, err := s.ledgers.Export(username)
	if err != nil {
		return nil, err
	}
	_ = s.activity.Append(ctx, sb.ActivityEvent{
		Username:    username,
		Type:        sb.ActivityExport,
		Description: "Exported budget data",
	})
	return b, nil
}

// validateAmounts enforces the non-negativity the record model expects.
func validateAmounts(rec sb.BudgetRecord) error {
	if rec.Income < 0 || rec.Debt < 0 {
		return ErrNegativeAmount
	}
	for _, v := range rec.Expenses {
		if v < 0 {
			return ErrNegativeAmount
		}
	}
	return nil
}

// fillCategories returns a copy of expenses with every category present,
// zero-valued when absent. Extra keys (one-time custom expenses) survive.
func fillCategories(expenses map[string]float64, categories []string) map[string]float64 {
	out := make(map[string]float64, len(categories)+len(expenses))
	for k, v := range expenses {
		out[k] = v
	}
	for _, c := range categories {
		if _, ok := out[c]; !ok {
			out[c] = 0
		}
	}
	return out
}

// sortedMonths returns the ledger's month keys in chronological order.
func sortedMonths(l sb.Ledger) []string {
	keys := make([]string, 0, len(l.Months))
	for k := range l.Months {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// summarize derives the per-month metrics, ascending by month key.
func summarize(l sb.Ledger) []sb.MonthSummary {
	out := make([]sb.MonthSummary, 0, len(l.Months))
	for _, m := range sortedMonths(l) {
		rec := l.Months[m]
		out = append(out, sb.MonthSummary{
			Month:         m,
			Income:        rec.Income,
			TotalExpenses: rec.TotalExpenses(),
			Savings:       rec.Savings(),
			SavingsRate:   rec.SavingsRate(),
			Debt:          rec.Debt,
		})
	}
	return out
}
