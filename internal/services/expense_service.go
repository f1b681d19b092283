package services

import (
	"context"
	"fmt"
	"log/slog"

	"expensewise/internal/core"
	"expensewise/internal/events"
	"expensewise/internal/gamify"
	applog "expensewise/internal/log"
	"expensewise/internal/notify"
	"expensewise/internal/store"
)

// ExpenseService orchestrates expense and budget mutations: store
// write, notification invalidation, gamification re-evaluation and
// event publishing happen synchronously on every change.
type ExpenseService struct {
	records *store.RecordStore
	goals   *store.GoalStore
	engine  *gamify.Engine
	alerts  *notify.Center
	events  *events.Client
}

func NewExpenseService(records *store.RecordStore, goals *store.GoalStore, engine *gamify.Engine, alerts *notify.Center, eventsClient *events.Client) *ExpenseService {
	return &ExpenseService{
		records: records,
		goals:   goals,
		engine:  engine,
		alerts:  alerts,
		events:  eventsClient,
	}
}

// AddExpense records a new expense and refreshes all derived state.
func (s *ExpenseService) AddExpense(ctx context.Context, in store.ExpenseInput) (core.Expense, error) {
	expense, err := s.records.AddExpense(ctx, in)
	if err != nil {
		return core.Expense{}, err
	}

	s.alerts.Invalidate()
	s.evaluateAwards(ctx)
	s.publishRecordEvent(ctx, events.TypeExpenseCreated, expense.ID)

	return expense, nil
}

// DeleteExpense removes an expense by ID. Deleting an absent ID is a
// no-op but still refreshes derived state.
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.records.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.alerts.Invalidate()
	s.evaluateAwards(ctx)
	s.publishRecordEvent(ctx, events.TypeExpenseDeleted, id)

	return nil
}

// SetBudget overwrites one category limit.
func (s *ExpenseService) SetBudget(ctx context.Context, category core.Category, value string) error {
	if err := s.records.SetBudget(ctx, category, value); err != nil {
		return err
	}

	s.alerts.Invalidate()
	return nil
}

// evaluateAwards re-runs the gamification catalog and publishes any
// newly granted awards. Evaluation failure never fails the request.
func (s *ExpenseService) evaluateAwards(ctx context.Context) {
	awards, err := s.engine.Evaluate(ctx, s.records.Expenses(), s.goals.Goals())
	if err != nil {
		slog.ErrorContext(ctx, "Gamification evaluation failed", applog.NewFields().
			WithComponent(applog.ComponentGamify).
			WithOperation(applog.OpEvaluate).
			WithError(err).
			ToSlice()...)
		return
	}
	for _, a := range awards {
		s.publishAward(ctx, a)
	}
}

func (s *ExpenseService) publishRecordEvent(ctx context.Context, eventType string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRecordEvent(ctx, eventType, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event", append(applog.NewFields().
			WithComponent(applog.ComponentEvents).
			WithError(err).
			ToSlice(), "type", eventType, "id", id)...)
		// Don't fail the request - the mutation is persisted locally
	}
}

func (s *ExpenseService) publishAward(ctx context.Context, a gamify.Award) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishAward(ctx, a.Kind, a.ID, a.Reward); err != nil {
		slog.ErrorContext(ctx, "Failed to publish award event", applog.NewFields().
			WithComponent(applog.ComponentEvents).
			WithAward(a.ID, a.Reward).
			WithError(err).
			ToSlice()...)
	}
}

// Close releases the event stream connection.
func (s *ExpenseService) Close() error {
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			return fmt.Errorf("close events client: %w", err)
		}
	}
	return nil
}
