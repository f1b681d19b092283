package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"expensewise/internal/core"
	applog "expensewise/internal/log"
)

// ErrGoalNotFound is returned when a progress update names an unknown
// goal. Deletion of an unknown goal stays a no-op.
var ErrGoalNotFound = errors.New("goal not found")

// GoalInput carries raw user input for a new savings goal. Name and
// target are mandatory; an absent or unparseable current amount
// defaults to zero; deadline is optional.
type GoalInput struct {
	Name     string
	Target   string
	Current  string
	Deadline string
}

// GoalStore owns the savings-goal list in insertion order (unlike
// expenses, which prepend) and persists it on every mutation.
type GoalStore struct {
	mu     sync.Mutex
	kv     KV
	goals  []core.SavingsGoal
	lastID int64
	now    func() time.Time
}

// NewGoalStore loads persisted goals; a missing or corrupt entry
// falls back to an empty list.
func NewGoalStore(ctx context.Context, kv KV) (*GoalStore, error) {
	s := &GoalStore{kv: kv, now: time.Now}

	if data, found, err := kv.Get(ctx, KeySavingsGoals); err != nil {
		return nil, fmt.Errorf("load savings goals: %w", err)
	} else if found {
		var goals []core.SavingsGoal
		if err := json.Unmarshal(data, &goals); err != nil {
			slog.WarnContext(ctx, "Corrupt savings goals entry, starting empty",
				applog.NewFields().WithComponent(applog.ComponentGoal).WithError(err).ToSlice()...)
		} else {
			s.goals = goals
		}
	}

	for _, g := range s.goals {
		if g.ID > s.lastID {
			s.lastID = g.ID
		}
	}

	return s, nil
}

// WithClock overrides the store's clock. Test helper.
func (s *GoalStore) WithClock(now func() time.Time) *GoalStore {
	s.now = now
	return s
}

// AddGoal validates the input, assigns a fresh identifier and appends
// the goal.
func (s *GoalStore) AddGoal(ctx context.Context, in GoalInput) (core.SavingsGoal, error) {
	target, err := core.ParsePositiveCents(in.Target)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	// Absent or unparseable current amount defaults to zero.
	current, err := core.ParseCents(in.Current)
	if err != nil {
		current = 0
	}
	deadline, err := core.ParseDate(in.Deadline)
	if err != nil {
		return core.SavingsGoal{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	goal := core.SavingsGoal{
		ID:       s.nextID(),
		Name:     in.Name,
		Target:   core.Money{Cents: target},
		Current:  core.Money{Cents: current},
		Deadline: deadline,
	}
	if err := goal.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}

	s.goals = append(s.goals, goal)
	if err := s.persist(ctx); err != nil {
		s.goals = s.goals[:len(s.goals)-1]
		return core.SavingsGoal{}, err
	}

	slog.InfoContext(ctx, "Savings goal created", append(applog.NewFields().
		WithComponent(applog.ComponentGoal).
		WithOperation(applog.OpCreate).
		WithGoal(goal.Name, goal.Target.Cents).
		ToSlice(), "id", goal.ID)...)

	return goal, nil
}

// UpdateProgress overwrites the current amount for the matching goal.
// Unparseable input is treated as zero.
func (s *GoalStore) UpdateProgress(ctx context.Context, id int64, amount string) (core.SavingsGoal, error) {
	cents, err := core.ParseCents(amount)
	if err != nil {
		cents = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.goals {
		if g.ID != id {
			continue
		}
		previous := s.goals[i].Current
		s.goals[i].Current = core.Money{Cents: cents}
		if err := s.persist(ctx); err != nil {
			s.goals[i].Current = previous
			return core.SavingsGoal{}, err
		}
		slog.InfoContext(ctx, "Savings goal progress updated", append(applog.NewFields().
			WithComponent(applog.ComponentGoal).
			WithOperation(applog.OpUpdate).
			ToSlice(), "id", id, "current_cents", cents)...)
		return s.goals[i], nil
	}
	return core.SavingsGoal{}, ErrGoalNotFound
}

// DeleteGoal removes the goal with the matching ID. No-op when absent.
func (s *GoalStore) DeleteGoal(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, g := range s.goals {
		if g.ID != id {
			continue
		}
		removed := g
		s.goals = append(s.goals[:i:i], s.goals[i+1:]...)
		if err := s.persist(ctx); err != nil {
			rest := s.goals[i:]
			s.goals = append(append(s.goals[:i:i], removed), rest...)
			return err
		}
		slog.InfoContext(ctx, "Savings goal deleted", append(applog.NewFields().
			WithComponent(applog.ComponentGoal).
			WithOperation(applog.OpDelete).
			ToSlice(), "id", id)...)
		return nil
	}
	return nil
}

// Goals returns a copy of the goal list in insertion order.
func (s *GoalStore) Goals() []core.SavingsGoal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SavingsGoal, len(s.goals))
	copy(out, s.goals)
	return out
}

func (s *GoalStore) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *GoalStore) persist(ctx context.Context) error {
	data, err := json.Marshal(s.goals)
	if err != nil {
		return fmt.Errorf("marshal savings goals: %w", err)
	}
	if err := s.kv.Set(ctx, KeySavingsGoals, data); err != nil {
		return fmt.Errorf("persist savings goals: %w", err)
	}
	return nil
}
