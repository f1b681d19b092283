package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensewise/internal/core"
	"expensewise/internal/store"
)

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		slog.ErrorContext(r.Context(), "Parse body error", "error", err, "url", r.URL.Path)
		BadRequestError("invalid request body").Write(w)
		return
	}

	in := store.ExpenseInput{
		Description: parser.Get("description"),
		Amount:      parser.Get("amount"),
		Category:    parser.Get("category"),
		Date:        parser.Get("date"),
	}
	if in.Category == "" {
		in.Category = string(core.Other)
	}

	expense, err := s.expenses.AddExpense(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, err, "Expense create rejected")
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(expense).Write(w)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses := s.records.Expenses()
	if expenses == nil {
		expenses = []core.Expense{}
	}
	NewResponse().JSON(expenses).Write(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		BadRequestError("invalid expense id").Write(w)
		return
	}

	if err := s.expenses.DeleteExpense(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Expense delete error", "error", err, "id", id)
		InternalServerError("failed to delete expense").Write(w)
		return
	}

	// Deleting an absent ID is a no-op, not an error.
	NewResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(s.records.Budgets()).Write(w)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("invalid request body").Write(w)
		return
	}

	if err := s.expenses.SetBudget(r.Context(), core.Category(category), parser.Get("limit")); err != nil {
		writeDomainError(w, r, err, "Budget update rejected")
		return
	}

	NewResponse().JSON(s.records.Budgets()).Write(w)
}

// writeDomainError maps validation failures to 422 and everything else
// to 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	switch {
	case errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrDescriptionTooLong),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrNameTooLong),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrInvalidDate):
		slog.WarnContext(r.Context(), logMsg, "error", err)
		UnprocessableEntityError(err.Error()).Write(w)
	default:
		slog.ErrorContext(r.Context(), logMsg, "error", err)
		InternalServerError("internal error").Write(w)
	}
}
