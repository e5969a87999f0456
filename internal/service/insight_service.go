package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	sb "smart_budget"
	"smart_budget/internal/repository"
)

// Default insight rule thresholds, used where a knob is left unset.
const (
	defaultLowSavingsRate     = 0.10
	defaultGoodSavingsRate    = 0.20
	defaultExpenseRisePct     = 0.10
	defaultConcentrationShare = 0.40
)

// ErrNotEnoughData is returned when a trend view needs at least two
// recorded months.
var ErrNotEnoughData = errors.New("at least 2 months of data required")

// InsightService computes the derived read-only views over a user's ledger.
// All rules are pure functions of the chronologically sorted records.
type InsightService struct {
	ledgers    repository.LedgerStore
	thresholds Thresholds
}

func NewInsightService(ledgers repository.LedgerStore, t Thresholds) *InsightService {
	if t.LowSavingsRate <= 0 {
		t.LowSavingsRate = defaultLowSavingsRate
	}
	if t.GoodSavingsRate <= 0 {
		t.GoodSavingsRate = defaultGoodSavingsRate
	}
	if t.ExpenseRisePct <= 0 {
		t.ExpenseRisePct = defaultExpenseRisePct
	}
	if t.ConcentrationShare <= 0 {
		t.ConcentrationShare = defaultConcentrationShare
	}
	return &InsightService{ledgers: ledgers, thresholds: t}
}

// Summaries returns per-month derived metrics, ascending by month.
func (s *InsightService) Summaries(ctx context.Context, username string) ([]sb.MonthSummary, error) {
	l, err := s.ledgers.Load(username)
	if err != nil {
		return nil, err
	}
	return summarize(l), nil
}

// MonthSummary returns the derived metrics for a single month.
func (s *InsightService) MonthSummary(ctx context.Context, username, month string) (sb.MonthSummary, error) {
	if !sb.ValidMonthKey(month) {
		return sb.MonthSummary{}, ErrInvalidMonthKey
	}
	l, err := s.ledgers.Load(username)
	if err != nil {
		return sb.MonthSummary{}, err
	}
	rec := l.Months[month]
	return sb.MonthSummary{
		Month:         month,
		Income:        rec.Income,
		TotalExpenses: rec.TotalExpenses(),
		Savings:       rec.Savings(),
		SavingsRate:   rec.SavingsRate(),
		Debt:          rec.Debt,
	}, nil
}

// Trends compares each month to its predecessor. Requires at least two
// recorded months.
func (s *InsightService) Trends(ctx context.Context, username string) ([]sb.Trend, error) {
	l, err := s.ledgers.Load(username)
	if err != nil {
		return nil, err
	}
	months := sortedMonths(l)
	if len(months) < 2 {
		return nil, ErrNotEnoughData
	}

	out := make([]sb.Trend, 0, len(months)-1)
	for i := 1; i < len(months); i++ {
		prev, cur := l.Months[months[i-1]], l.Months[months[i]]
		out = append(out, sb.Trend{
			Month:         months[i],
			PrevMonth:     months[i-1],
			SavingsDelta:  cur.Savings() - prev.Savings(),
			SavingsPct:    pctChange(prev.Savings(), cur.Savings()),
			ExpensesDelta: cur.TotalExpenses() - prev.TotalExpenses(),
			ExpensesPct:   pctChange(prev.TotalExpenses(), cur.TotalExpenses()),
			DebtDelta:     cur.Debt - prev.Debt,
			DebtPct:       pctChange(prev.Debt, cur.Debt),
		})
	}
	return out, nil
}

// Advise evaluates every insight rule for the given month against the
// user's history. Rules are independent; all applicable ones are returned.
func (s *InsightService) Advise(ctx context.Context, username, month string) ([]sb.Insight, error) {
	if !sb.ValidMonthKey(month) {
		return nil, ErrInvalidMonthKey
	}
	l, err := s.ledgers.Load(username)
	if err != nil {
		return nil, err
	}

	rec := l.Months[month]
	insights := make([]sb.Insight, 0, 6)

	insights = append(insights, s.savingsRateInsights(rec)...)
	insights = append(insights, s.topExpenseInsight(rec)...)
	insights = append(insights, s.payoffInsight(l, rec)...)
	insights = append(insights, s.expenseRiseInsights(l, month, rec)...)
	insights = append(insights, s.concentrationInsights(rec)...)

	return insights, nil
}

// savingsRateInsights warns below the low threshold and praises at or above
// the good one. Zero-income months rate as 0 and therefore warn.
func (s *InsightService) savingsRateInsights(rec sb.BudgetRecord) []sb.Insight {
	rate := rec.SavingsRate()
	switch {
	case rate >= s.thresholds.GoodSavingsRate:
		return []sb.Insight{{
			Severity: sb.SeveritySuccess,
			Message:  fmt.Sprintf("Great job! You're saving %.1f%% of your income.", rate*100),
		}}
	case rate < s.thresholds.LowSavingsRate:
		return []sb.Insight{{
			Severity: sb.SeverityWarning,
			Message: fmt.Sprintf("You're only saving %.1f%%. Aim for at least %.0f-%.0f%%.",
				rate*100, s.thresholds.LowSavingsRate*100, s.thresholds.GoodSavingsRate*100),
		}}
	default:
		return []sb.Insight{{
			Severity: sb.SeverityInfo,
			Message: fmt.Sprintf("Good! You're saving %.1f%%. Try to reach %.0f%%.",
				rate*100, s.thresholds.GoodSavingsRate*100),
		}}
	}
}

// topExpenseInsight names the month's largest expense category.
func (s *InsightService) topExpenseInsight(rec sb.BudgetRecord) []sb.Insight {
	cat, amount := largestExpense(rec.Expenses)
	if cat == "" || amount <= 0 {
		return nil
	}
	return []sb.Insight{{
		Severity: sb.SeverityInfo,
		Message:  fmt.Sprintf("Your highest expense is %s at $%.2f", cat, amount),
	}}
}

// payoffInsight estimates months to clear the debt at the mean savings
// across all recorded months, ceiling division.
func (s *InsightService) payoffInsight(l sb.Ledger, rec sb.BudgetRecord) []sb.Insight {
	if rec.Debt <= 0 {
		return nil
	}
	avg := averageSavings(l)
	if avg <= 0 {
		return nil
	}
	months := int(math.Ceil(rec.Debt / avg))
	return []sb.Insight{{
		Severity: sb.SeverityInfo,
		Message:  fmt.Sprintf("At your average savings rate, you can clear your debt in %d months", months),
	}}
}

// expenseRiseInsights warns when total expenses rose beyond the threshold
// against the previous recorded month, naming the category that grew most.
func (s *InsightService) expenseRiseInsights(l sb.Ledger, month string, rec sb.BudgetRecord) []sb.Insight {
	prev, ok := previousMonth(l, month)
	if !ok {
		return nil
	}
	prevRec := l.Months[prev]
	prevTotal := prevRec.TotalExpenses()
	if prevTotal <= 0 {
		return nil
	}
	rise := (rec.TotalExpenses() - prevTotal) / prevTotal
	if rise <= s.thresholds.ExpenseRisePct {
		return nil
	}
	driver := largestIncrease(prevRec.Expenses, rec.Expenses)
	msg := fmt.Sprintf("Expenses increased by %.1f%% from last month", rise*100)
	if driver != "" {
		msg += fmt.Sprintf(", driven mostly by %s", driver)
	}
	return []sb.Insight{{Severity: sb.SeverityWarning, Message: msg}}
}

// concentrationInsights flags a single category dominating the month's
// spending.
func (s *InsightService) concentrationInsights(rec sb.BudgetRecord) []sb.Insight {
	total := rec.TotalExpenses()
	if total <= 0 {
		return nil
	}
	cat, amount := largestExpense(rec.Expenses)
	if share := amount / total; share > s.thresholds.ConcentrationShare {
		return []sb.Insight{{
			Severity: sb.SeverityInfo,
			Message:  fmt.Sprintf("%s makes up %.0f%% of your expenses this month", cat, share*100),
		}}
	}
	return nil
}

// pctChange is the fractional change from prev to cur, 0 when prev is 0
// (same convention as the zero-income savings rate).
func pctChange(prev, cur float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev
}

// averageSavings is the mean savings over all recorded months.
func averageSavings(l sb.Ledger) float64 {
	if len(l.Months) == 0 {
		return 0
	}
	var total float64
	for _, rec := range l.Months {
		total += rec.Savings()
	}
	return total / float64(len(l.Months))
}

// previousMonth returns the recorded month immediately before the given one.
func previousMonth(l sb.Ledger, month string) (string, bool) {
	prev := ""
	for m := range l.Months {
		if m < month && m > prev {
			prev = m
		}
	}
	return prev, prev != ""
}

// largestExpense returns the category with the highest amount. Ties break
// towards the lexicographically smaller name so the result is stable.
func largestExpense(expenses map[string]float64) (string, float64) {
	var (
		cat    string
		amount float64
	)
	for c, v := range expenses {
		if v > amount || (v == amount && v > 0 && (cat == "" || c < cat)) {
			cat, amount = c, v
		}
	}
	return cat, amount
}

// largestIncrease returns the category whose amount grew most vs prev.
func largestIncrease(prev, cur map[string]float64) string {
	var (
		cat  string
		best float64
	)
	for c, v := range cur {
		if delta := v - prev[c]; delta > best || (delta == best && delta > 0 && c < cat) {
			cat, best = c, delta
		}
	}
	return cat
}
