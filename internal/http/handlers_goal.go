package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensewise/internal/core"
	"expensewise/internal/store"
)

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	in := store.GoalInput{
		Name:     parser.Get("name"),
		Target:   parser.Get("target"),
		Current:  parser.Get("current"),
		Deadline: parser.Get("deadline"),
	}

	goal, err := s.goals.AddGoal(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err, "Goal create rejected")
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(goal).Write(w)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals := s.goalList.Goals()
	if goals == nil {
		goals = []core.SavingsGoal{}
	}
	NewResponse().JSON(goals).Write(w)
}

func (s *Server) handleUpdateGoalProgress(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		BadRequestError("invalid goal id").Write(w)
		return
	}

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	goal, err := s.goals.UpdateProgress(r.Context(), id, parser.Get("current"))
	if err != nil {
		if errors.Is(err, store.ErrGoalNotFound) {
			NotFoundError("goal not found").Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Goal progress update error", "error", err, "id", id)
		InternalServerError("failed to update goal").Write(w)
		return
	}

	NewResponse().JSON(goal).Write(w)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		BadRequestError("invalid goal id").Write(w)
		return
	}

	if err := s.goals.DeleteGoal(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Goal delete error", "error", err, "id", id)
		InternalServerError("failed to delete goal").Write(w)
		return
	}

	NewResponse().Status(http.StatusNoContent).Write(w)
}
