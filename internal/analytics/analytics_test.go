package analytics

import (
	"testing"
	"time"

	"expensewise/internal/core"
)

func expense(id int64, cents int64, category core.Category, date core.Date) core.Expense {
	return core.Expense{
		ID:          id,
		Description: "e",
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Date:        date,
	}
}

func TestCategoryTotals(t *testing.T) {
	expenses := []core.Expense{
		expense(1, 500, core.Food, core.NewDate(2026, 8, 1)),
		expense(2, 300, core.Transport, core.NewDate(2026, 8, 2)),
		expense(3, 250, core.Food, core.NewDate(2026, 8, 3)),
	}

	totals := CategoryTotals(expenses)
	if len(totals) != 2 {
		t.Fatalf("got %d totals, want 2", len(totals))
	}
	// First-seen order: food before transport.
	if totals[0].Category != core.Food || totals[0].Total.Cents != 750 {
		t.Fatalf("totals[0] = %+v", totals[0])
	}
	if totals[0].Label != "Food" {
		t.Fatalf("label = %q, want Food", totals[0].Label)
	}
	if totals[1].Category != core.Transport || totals[1].Total.Cents != 300 {
		t.Fatalf("totals[1] = %+v", totals[1])
	}

	if got := CategoryTotals(nil); len(got) != 0 {
		t.Fatalf("empty input should yield no totals, got %+v", got)
	}
}

func TestDailySeries(t *testing.T) {
	now := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense(1, 100, core.Food, core.NewDate(2026, 2, 1)),
		expense(2, 200, core.Food, core.NewDate(2026, 2, 1)),
		expense(3, 300, core.Other, core.NewDate(2026, 2, 28)),
		// Records outside the month are ignored.
		expense(4, 999, core.Food, core.NewDate(2026, 1, 31)),
	}

	series := DailySeries(expenses, now)
	if len(series) != 28 {
		t.Fatalf("February 2026 has 28 days, got %d entries", len(series))
	}
	if series[0].Total.Cents != 300 {
		t.Fatalf("day 1 total = %d cents, want 300", series[0].Total.Cents)
	}
	if series[1].Total.Cents != 0 {
		t.Fatalf("day 2 total = %d cents, want 0", series[1].Total.Cents)
	}
	if series[27].Total.Cents != 300 {
		t.Fatalf("day 28 total = %d cents, want 300", series[27].Total.Cents)
	}
}

func TestMonthlyTotals(t *testing.T) {
	expenses := []core.Expense{
		expense(1, 100, core.Food, core.NewDate(2026, 8, 1)),
		expense(2, 200, core.Food, core.NewDate(2026, 7, 15)),
		expense(3, 300, core.Other, core.NewDate(2026, 8, 20)),
	}

	totals := MonthlyTotals(expenses)
	if len(totals) != 2 {
		t.Fatalf("got %d totals, want 2", len(totals))
	}
	if totals[0].Month != "Aug 2026" || totals[0].Total.Cents != 400 {
		t.Fatalf("totals[0] = %+v", totals[0])
	}
	if totals[1].Month != "Jul 2026" || totals[1].Total.Cents != 200 {
		t.Fatalf("totals[1] = %+v", totals[1])
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)
	expenses := []core.Expense{
		expense(1, 400, core.Food, core.NewDate(2026, 8, 30)),
		expense(2, 400, core.Transport, core.NewDate(2026, 8, 29)),
		expense(3, 200, core.Other, core.NewDate(2026, 8, 28)),
	}

	s := Summarize(expenses, now)
	if s.TotalSpent.Cents != 1000 {
		t.Fatalf("total = %d cents, want 1000", s.TotalSpent.Cents)
	}
	if s.TodaySpent.Cents != 400 {
		t.Fatalf("today = %d cents, want 400", s.TodaySpent.Cents)
	}
	// Tie between food and transport breaks toward the first seen.
	if s.TopCategory != core.Food || s.TopCategoryTotal.Cents != 400 {
		t.Fatalf("top = %s (%d cents)", s.TopCategory, s.TopCategoryTotal.Cents)
	}
	if s.AveragePerRecord.Cents != 333 {
		t.Fatalf("average = %d cents, want 333", s.AveragePerRecord.Cents)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	if s.TotalSpent.Cents != 0 || s.TodaySpent.Cents != 0 {
		t.Fatalf("summary = %+v", s)
	}
	if s.TopCategory != "" {
		t.Fatalf("top category = %q, want empty", s.TopCategory)
	}
	// The empty list divides by one, yielding a zero average instead of
	// a panic.
	if s.AveragePerRecord.Cents != 0 {
		t.Fatalf("average = %d cents, want 0", s.AveragePerRecord.Cents)
	}
}
