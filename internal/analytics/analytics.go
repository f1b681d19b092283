// Package analytics derives presentation aggregates from the current
// expense list. Everything here is a pure function of its inputs and is
// recomputed on demand; nothing is cached or persisted.
package analytics

import (
	"time"

	"expensewise/internal/core"
)

// CategoryTotal is the summed spend for one category, labeled for
// display.
type CategoryTotal struct {
	Category core.Category `json:"category"`
	Label    string        `json:"label"`
	Total    core.Money    `json:"total"`
}

// DailyTotal is the summed spend for a single calendar day.
type DailyTotal struct {
	Date  core.Date  `json:"date"`
	Total core.Money `json:"total"`
}

// MonthlyTotal is the summed spend for one month-year label.
type MonthlyTotal struct {
	Month string     `json:"month"`
	Total core.Money `json:"total"`
}

// Summary holds the headline statistics for the current record list.
type Summary struct {
	TotalSpent       core.Money    `json:"total_spent"`
	TodaySpent       core.Money    `json:"today_spent"`
	TopCategory      core.Category `json:"top_category"`
	TopCategoryTotal core.Money    `json:"top_category_total"`
	AveragePerRecord core.Money    `json:"average_per_record"`
}

// CategoryTotals sums amounts grouped by category, in first-seen order.
func CategoryTotals(expenses []core.Expense) []CategoryTotal {
	sums := make(map[core.Category]int64)
	var order []core.Category
	for _, e := range expenses {
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount.Cents
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryTotal{
			Category: c,
			Label:    c.Label(),
			Total:    core.Money{Cents: sums[c]},
		})
	}
	return out
}

// DailySeries returns one entry per calendar day of now's month, from
// the first to the last day, summing amounts of records dated that day.
// Days without records carry a zero total.
func DailySeries(expenses []core.Expense, now time.Time) []DailyTotal {
	year, month := now.Year(), now.Month()
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	out := make([]DailyTotal, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := core.NewDate(year, int(month), day)
		var sum int64
		for _, e := range expenses {
			if e.Date.Equal(date) {
				sum += e.Amount.Cents
			}
		}
		out = append(out, DailyTotal{Date: date, Total: core.Money{Cents: sum}})
	}
	return out
}

// MonthlyTotals sums amounts grouped by month-year label ("Jan 2006"),
// in first-seen order.
func MonthlyTotals(expenses []core.Expense) []MonthlyTotal {
	sums := make(map[string]int64)
	var order []string
	for _, e := range expenses {
		label := e.Date.Format("Jan 2006")
		if _, seen := sums[label]; !seen {
			order = append(order, label)
		}
		sums[label] += e.Amount.Cents
	}

	out := make([]MonthlyTotal, 0, len(order))
	for _, label := range order {
		out = append(out, MonthlyTotal{Month: label, Total: core.Money{Cents: sums[label]}})
	}
	return out
}

// Summarize computes the headline statistics. The top category is the
// one with the largest total, ties broken by first encounter during
// traversal. The average divides by the record count, or by 1 for an
// empty list; that degenerate policy is deliberate.
func Summarize(expenses []core.Expense, now time.Time) Summary {
	today := core.DateOf(now)

	var total, todayTotal int64
	sums := make(map[core.Category]int64)
	var order []core.Category
	for _, e := range expenses {
		total += e.Amount.Cents
		if e.Date.Equal(today) {
			todayTotal += e.Amount.Cents
		}
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount.Cents
	}

	var top core.Category
	var topCents int64
	for _, c := range order {
		if sums[c] > topCents {
			topCents = sums[c]
			top = c
		}
	}

	divisor := int64(len(expenses))
	if divisor == 0 {
		divisor = 1
	}

	return Summary{
		TotalSpent:       core.Money{Cents: total},
		TodaySpent:       core.Money{Cents: todayTotal},
		TopCategory:      top,
		TopCategoryTotal: core.Money{Cents: topCents},
		AveragePerRecord: core.Money{Cents: total / divisor},
	}
}
