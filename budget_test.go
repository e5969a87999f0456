package smart_budget

import "testing"

func TestValidMonthKey(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{"2024-01", true},
		{"2024-12", true},
		{"1999-06", true},
		{"2024-13", false},
		{"2024-00", false},
		{"2024-1", false},
		{"24-01", false},
		{"2024/01", false},
		{"", false},
		{"october", false},
	}
	for _, tc := range cases {
		if got := ValidMonthKey(tc.key); got != tc.want {
			t.Errorf("ValidMonthKey(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestBudgetRecordDerivedMetrics(t *testing.T) {
	rec := BudgetRecord{
		Income:   5000,
		Expenses: map[string]float64{"Rent/Mortgage": 3000, "Groceries": 1000},
		Debt:     2000,
	}
	if got := rec.TotalExpenses(); got != 4000 {
		t.Fatalf("TotalExpenses = %v, want 4000", got)
	}
	if got := rec.Savings(); got != 1000 {
		t.Fatalf("Savings = %v, want 1000", got)
	}
	if got := rec.SavingsRate(); got != 0.2 {
		t.Fatalf("SavingsRate = %v, want 0.2", got)
	}
}

func TestBudgetRecordZeroIncomeRateIsZero(t *testing.T) {
	rec := BudgetRecord{}
	if got := rec.SavingsRate(); got != 0 {
		t.Fatalf("SavingsRate for zero income = %v, want 0", got)
	}
}

func TestNewLedgerCopiesDefaultCategories(t *testing.T) {
	l := NewLedger()
	if len(l.Categories) != 12 {
		t.Fatalf("expected 12 default categories, got %d", len(l.Categories))
	}
	l.Categories[0] = "changed"
	if DefaultCategories[0] == "changed" {
		t.Fatal("NewLedger must not alias DefaultCategories")
	}
}
