package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Food          Category = "food"
	Transport     Category = "transport"
	Utilities     Category = "utilities"
	Entertainment Category = "entertainment"
	Other         Category = "other"
)

type (
	// Category is one of the fixed spending classifications used for
	// budgeting and aggregation.
	Category string

	// Date is a calendar date with no time component. The zero value
	// represents an absent date (optional goal deadlines).
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is a single recorded spending entry. Immutable once
	// created except for deletion by ID.
	Expense struct {
		ID          int64    `json:"id"`
		Description string   `json:"description"`
		Amount      Money    `json:"amount"`
		Category    Category `json:"category"`
		Date        Date     `json:"date"`
	}

	// SavingsGoal is a savings target with tracked progress. Current
	// may exceed Target.
	SavingsGoal struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Target   Money  `json:"target"`
		Current  Money  `json:"current"`
		Deadline Date   `json:"deadline"`
	}

	// Budgets maps every known category to a positive spending limit.
	Budgets map[Category]Money
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrEmptyName          = errors.New("empty name")
	ErrNameTooLong        = errors.New("name too long (max 200 characters)")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrInvalidDate        = errors.New("invalid date")
)

// Categories returns all known categories in declaration order.
func Categories() []Category {
	return []Category{Food, Transport, Utilities, Entertainment, Other}
}

// ParseCategory validates a raw category string against the closed set.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// Label returns the category name capitalized for display.
func (c Category) Label() string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// DefaultBudgets returns the budget map used when no budgets were
// persisted: food 500, transport 200, utilities 300, entertainment 150,
// other 200 (whole units, stored as cents).
func DefaultBudgets() Budgets {
	return Budgets{
		Food:          {Cents: 50000},
		Transport:     {Cents: 20000},
		Utilities:     {Cents: 30000},
		Entertainment: {Cents: 15000},
		Other:         {Cents: 20000},
	}
}

// Clone returns an independent copy of the budget map.
func (b Budgets) Clone() Budgets {
	out := make(Budgets, len(b))
	for c, m := range b {
		out[c] = m
	}
	return out
}

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses an ISO calendar date (2006-01-02). An empty string
// yields the zero (absent) date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// IsEmpty reports whether the date is absent.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Equal compares two dates by calendar day.
func (d Date) Equal(other Date) bool {
	return d.Year() == other.Year() && d.Month() == other.Month() && d.Day() == other.Day()
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate requires a strictly positive amount. Used where zero makes
// no sense (budget limits, goal targets).
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if e.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if _, err := ParseCategory(string(e.Category)); err != nil {
		return err
	}
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if len(g.Name) > 200 {
		return ErrNameTooLong
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Progress returns the goal completion as a percentage of the target.
// May exceed 100 when Current exceeds Target.
func (g SavingsGoal) Progress() float64 {
	if g.Target.Cents <= 0 {
		return 0
	}
	return float64(g.Current.Cents) / float64(g.Target.Cents) * 100
}
