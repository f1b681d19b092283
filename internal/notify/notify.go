// Package notify derives transient budget and spending alerts from the
// current records and budget map. Notifications are never persisted;
// dismissal only lasts until the next data change.
package notify

import (
	"fmt"
	"sync"
	"time"

	"expensewise/internal/core"
)

type Kind string

const (
	KindWarning Kind = "warning"
	KindAlert   Kind = "alert"
	KindInfo    Kind = "info"
)

// WeeklySpendThresholdCents is the fixed trailing-7-day spend above
// which the high-spending notification fires (1000 whole units).
const WeeklySpendThresholdCents int64 = 100_000

const weeklyWindowDays = 7

// Notification is a single alert keyed by a stable identifier so the
// same condition maps to the same ID across recomputations.
type Notification struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Derive recomputes the full notification list. Per category it emits
// a warning at [90%, 100%) of budget or an alert at >= 100%, never
// both; separately it emits an info notification when trailing-7-day
// spend exceeds the fixed threshold.
func Derive(expenses []core.Expense, budgets core.Budgets, now time.Time) []Notification {
	var out []Notification

	spending := make(map[core.Category]int64)
	for _, e := range expenses {
		spending[e.Category] += e.Amount.Cents
	}

	for _, category := range core.Categories() {
		budget := budgets[category]
		if budget.Cents <= 0 {
			continue
		}
		spent := spending[category]
		percentage := float64(spent) / float64(budget.Cents) * 100

		switch {
		case percentage >= 100:
			out = append(out, Notification{
				ID:      "budget-exceeded-" + string(category),
				Kind:    KindAlert,
				Message: fmt.Sprintf("You've exceeded your %s budget!", category),
			})
		case percentage >= 90:
			out = append(out, Notification{
				ID:      "budget-warning-" + string(category),
				Kind:    KindWarning,
				Message: fmt.Sprintf("You've used %.1f%% of your %s budget", percentage, category),
			})
		}
	}

	var weeklyCents int64
	for _, e := range expenses {
		days := now.Sub(e.Date.Time).Hours() / 24
		if days <= weeklyWindowDays {
			weeklyCents += e.Amount.Cents
		}
	}
	if weeklyCents > WeeklySpendThresholdCents {
		out = append(out, Notification{
			ID:      "high-weekly-spending",
			Kind:    KindInfo,
			Message: fmt.Sprintf("High spending detected: %.2f in the past week", core.Money{Cents: weeklyCents}.Units()),
		})
	}

	return out
}

// Center tracks per-session dismissals on top of the pure derivation.
// Dismissing hides a notification until the next Invalidate; if the
// triggering condition still holds afterwards, the notification
// reappears.
type Center struct {
	mu        sync.Mutex
	dismissed map[string]struct{}
}

func NewCenter() *Center {
	return &Center{dismissed: make(map[string]struct{})}
}

// Active derives the current notifications minus any dismissed since
// the last data change.
func (c *Center) Active(expenses []core.Expense, budgets core.Budgets, now time.Time) []Notification {
	derived := Derive(expenses, budgets, now)

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, 0, len(derived))
	for _, n := range derived {
		if _, hidden := c.dismissed[n.ID]; hidden {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Dismiss hides the notification with the given ID until the next
// Invalidate.
func (c *Center) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dismissed[id] = struct{}{}
}

// Invalidate clears all dismissals. Called on every change to records
// or budgets so dismissal never suppresses recurrence.
func (c *Center) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dismissed = make(map[string]struct{})
}
