package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"expensewise/internal/analytics"
	"expensewise/internal/gamify"
	applog "expensewise/internal/log"
	"expensewise/internal/notify"
)

// Analytics and notifications are derived fresh on every request; the
// stores are the only state.

func (s *Server) handleCategoryTotals(w http.ResponseWriter, r *http.Request) {
	totals := analytics.CategoryTotals(s.records.Expenses())
	if totals == nil {
		totals = []analytics.CategoryTotal{}
	}
	NewResponse().JSON(totals).Write(w)
}

func (s *Server) handleDailySeries(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(analytics.DailySeries(s.records.Expenses(), s.now())).Write(w)
}

func (s *Server) handleMonthlyTotals(w http.ResponseWriter, r *http.Request) {
	totals := analytics.MonthlyTotals(s.records.Expenses())
	if totals == nil {
		totals = []analytics.MonthlyTotal{}
	}
	NewResponse().JSON(totals).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(analytics.Summarize(s.records.Expenses(), s.now())).Write(w)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	active := s.alerts.Active(s.records.Expenses(), s.records.Budgets(), s.now())
	if active == nil {
		active = []notify.Notification{}
	}
	NewResponse().JSON(active).Write(w)
}

func (s *Server) handleDismissNotification(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		BadRequestError("missing notification id").Write(w)
		return
	}
	s.alerts.Dismiss(id)
	slog.InfoContext(r.Context(), "Notification dismissed", append(applog.NewFields().
		WithComponent(applog.ComponentNotify).
		WithOperation(applog.OpDismiss).
		ToSlice(), "id", id)...)
	NewResponse().Status(http.StatusNoContent).Write(w)
}

type challengeStatus struct {
	gamify.Challenge
	Completed bool `json:"completed"`
}

type achievementStatus struct {
	gamify.Achievement
	Unlocked bool `json:"unlocked"`
}

type gamificationView struct {
	Points       int64               `json:"points"`
	Challenges   []challengeStatus   `json:"challenges"`
	Achievements []achievementStatus `json:"achievements"`
}

func (s *Server) handleGamification(w http.ResponseWriter, r *http.Request) {
	state := s.engine.Snapshot()

	view := gamificationView{Points: state.Points}
	for _, c := range gamify.Challenges() {
		view.Challenges = append(view.Challenges, challengeStatus{
			Challenge: c,
			Completed: containsID(state.Completed, c.ID),
		})
	}
	for _, a := range gamify.Achievements() {
		view.Achievements = append(view.Achievements, achievementStatus{
			Achievement: a,
			Unlocked:    containsID(state.Unlocked, a.ID),
		})
	}

	NewResponse().JSON(view).Write(w)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
