package services

import (
	"context"
	"log/slog"

	"expensewise/internal/core"
	"expensewise/internal/events"
	"expensewise/internal/gamify"
	applog "expensewise/internal/log"
	"expensewise/internal/store"
)

// GoalService orchestrates savings-goal mutations. Goal changes feed
// the gamification predicates (savings_champion), so every mutation
// re-evaluates the catalog.
type GoalService struct {
	goals   *store.GoalStore
	records *store.RecordStore
	engine  *gamify.Engine
	events  *events.Client
}

func NewGoalService(goals *store.GoalStore, records *store.RecordStore, engine *gamify.Engine, eventsClient *events.Client) *GoalService {
	return &GoalService{
		goals:   goals,
		records: records,
		engine:  engine,
		events:  eventsClient,
	}
}

// AddGoal creates a new savings goal.
func (s *GoalService) AddGoal(ctx context.Context, in store.GoalInput) (core.SavingsGoal, error) {
	goal, err := s.goals.AddGoal(ctx, in)
	if err != nil {
		return core.SavingsGoal{}, err
	}

	s.evaluateAwards(ctx)
	s.publishRecordEvent(ctx, events.TypeGoalCreated, goal.ID)

	return goal, nil
}

// UpdateProgress overwrites the current amount of one goal.
func (s *GoalService) UpdateProgress(ctx context.Context, id int64, amount string) (core.SavingsGoal, error) {
	goal, err := s.goals.UpdateProgress(ctx, id, amount)
	if err != nil {
		return core.SavingsGoal{}, err
	}

	s.evaluateAwards(ctx)
	s.publishRecordEvent(ctx, events.TypeGoalProgress, goal.ID)

	return goal, nil
}

// DeleteGoal removes a goal by ID. No-op when absent.
func (s *GoalService) DeleteGoal(ctx context.Context, id int64) error {
	if err := s.goals.DeleteGoal(ctx, id); err != nil {
		return err
	}

	s.evaluateAwards(ctx)
	s.publishRecordEvent(ctx, events.TypeGoalDeleted, id)

	return nil
}

func (s *GoalService) evaluateAwards(ctx context.Context) {
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
		if s.events == nil {
			continue
		}
		if err := s.events.PublishAward(ctx, a.Kind, a.ID, a.Reward); err != nil {
			slog.ErrorContext(ctx, "Failed to publish award event", applog.NewFields().
				WithComponent(applog.ComponentEvents).
				WithAward(a.ID, a.Reward).
				WithError(err).
				ToSlice()...)
		}
	}
}

func (s *GoalService) publishRecordEvent(ctx context.Context, eventType string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRecordEvent(ctx, eventType, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event", append(applog.NewFields().
			WithComponent(applog.ComponentEvents).
			WithError(err).
			ToSlice(), "type", eventType, "id", id)...)
	}
}
