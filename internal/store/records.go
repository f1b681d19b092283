package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"expensewise/internal/core"
	applog "expensewise/internal/log"
)

// ExpenseInput carries raw user input for a new expense. Amount arrives
// as text and must parse as a non-negative number; Date is optional and
// defaults to today.
type ExpenseInput struct {
	Description string
	Amount      string
	Category    string
	Date        string
}

// RecordStore owns the canonical expense list (most-recent-first) and
// the category budget map. Every mutation re-serializes the affected
// collection to the KV port; a failed write rolls the in-memory change
// back so state and storage never diverge silently.
type RecordStore struct {
	mu       sync.Mutex
	kv       KV
	expenses []core.Expense
	budgets  core.Budgets
	lastID   int64
	now      func() time.Time
}

// NewRecordStore loads persisted expenses and budgets. Missing or
// corrupt entries fall back to an empty list and the default budget map.
func NewRecordStore(ctx context.Context, kv KV) (*RecordStore, error) {
	s := &RecordStore{
		kv:      kv,
		budgets: core.DefaultBudgets(),
		now:     time.Now,
	}

	if data, found, err := kv.Get(ctx, KeyExpenses); err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	} else if found {
		var expenses []core.Expense
		if err := json.Unmarshal(data, &expenses); err != nil {
			slog.WarnContext(ctx, "Corrupt expenses entry, starting empty",
				applog.NewFields().WithComponent(applog.ComponentExpense).WithError(err).ToSlice()...)
		} else {
			s.expenses = expenses
		}
	}

	if data, found, err := kv.Get(ctx, KeyBudgets); err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	} else if found {
		budgets := core.Budgets{}
		if err := json.Unmarshal(data, &budgets); err != nil {
			slog.WarnContext(ctx, "Corrupt budgets entry, using defaults",
				applog.NewFields().WithComponent(applog.ComponentExpense).WithError(err).ToSlice()...)
		} else {
			// Defaults fill in any category missing from storage.
			for c, m := range budgets {
				if _, err := core.ParseCategory(string(c)); err == nil {
					s.budgets[c] = m
				}
			}
		}
	}

	for _, e := range s.expenses {
		if e.ID > s.lastID {
			s.lastID = e.ID
		}
	}

	return s, nil
}

// WithClock overrides the store's clock. Test helper.
func (s *RecordStore) WithClock(now func() time.Time) *RecordStore {
	s.now = now
	return s
}

// AddExpense validates the input, assigns a fresh time-derived ID and
// prepends the record so the list stays most-recent-first.
func (s *RecordStore) AddExpense(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	cents, err := core.ParseCents(in.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	category, err := core.ParseCategory(in.Category)
	if err != nil {
		return core.Expense{}, err
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if date.IsEmpty() {
		date = core.DateOf(s.now())
	}

	expense := core.Expense{
		ID:          s.nextID(),
		Description: in.Description,
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Date:        date,
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.expenses = append([]core.Expense{expense}, s.expenses...)
	if err := s.persistExpenses(ctx); err != nil {
		s.expenses = s.expenses[1:]
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense recorded", append(applog.NewFields().
		WithComponent(applog.ComponentExpense).
		WithOperation(applog.OpCreate).
		WithExpense(expense.Description, expense.Amount.Cents, string(expense.Category)).
		ToSlice(), "id", expense.ID)...)

	return expense, nil
}

// DeleteExpense removes the record with the matching ID. No-op when
// absent.
func (s *RecordStore) DeleteExpense(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.expenses {
		if e.ID != id {
			continue
		}
		removed := e
		s.expenses = append(s.expenses[:i:i], s.expenses[i+1:]...)
		if err := s.persistExpenses(ctx); err != nil {
			rest := s.expenses[i:]
			s.expenses = append(append(s.expenses[:i:i], removed), rest...)
			return err
		}
		slog.InfoContext(ctx, "Expense deleted", append(applog.NewFields().
			WithComponent(applog.ComponentExpense).
			WithOperation(applog.OpDelete).
			ToSlice(), "id", id)...)
		return nil
	}
	return nil
}

// SetBudget overwrites the limit for one category. The value must
// parse as a positive number or the update is rejected.
func (s *RecordStore) SetBudget(ctx context.Context, category core.Category, value string) error {
	cat, err := core.ParseCategory(string(category))
	if err != nil {
		return err
	}
	cents, err := core.ParsePositiveCents(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.budgets[cat]
	s.budgets[cat] = core.Money{Cents: cents}
	if err := s.persistBudgets(ctx); err != nil {
		s.budgets[cat] = previous
		return err
	}

	slog.InfoContext(ctx, "Budget updated", append(applog.NewFields().
		WithComponent(applog.ComponentExpense).
		WithOperation(applog.OpUpdate).
		ToSlice(), "category", cat, "limit_cents", cents)...)
	return nil
}

// Expenses returns a copy of the record list, most-recent-first.
func (s *RecordStore) Expenses() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

// Budgets returns a copy of the budget map.
func (s *RecordStore) Budgets() core.Budgets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budgets.Clone()
}

// nextID derives an identifier from the current wall clock in
// milliseconds, bumping past the last issued ID so identifiers stay
// unique within the session even for same-millisecond inserts.
// Callers must hold s.mu.
func (s *RecordStore) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *RecordStore) persistExpenses(ctx context.Context) error {
	data, err := json.Marshal(s.expenses)
	if err != nil {
		return fmt.Errorf("marshal expenses: %w", err)
	}
	if err := s.kv.Set(ctx, KeyExpenses, data); err != nil {
		return fmt.Errorf("persist expenses: %w", err)
	}
	return nil
}

func (s *RecordStore) persistBudgets(ctx context.Context) error {
	data, err := json.Marshal(s.budgets)
	if err != nil {
		return fmt.Errorf("marshal budgets: %w", err)
	}
	if err := s.kv.Set(ctx, KeyBudgets, data); err != nil {
		return fmt.Errorf("persist budgets: %w", err)
	}
	return nil
}
