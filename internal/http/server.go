package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"expensewise/internal/gamify"
	applog "expensewise/internal/log"
	"expensewise/internal/notify"
	"expensewise/internal/services"
	"expensewise/internal/store"
)

type Server struct {
	http.Server

	expenses *services.ExpenseService
	goals    *services.GoalService
	records  *store.RecordStore
	goalList *store.GoalStore
	engine   *gamify.Engine
	alerts   *notify.Center

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once

	// now is the clock used by derivation handlers; injectable for tests.
	now func() time.Time
}

// NewServer configures routes and middleware, returning a
// ready-to-run server.
func NewServer(addr string, logger *applog.Logger, expenses *services.ExpenseService, goals *services.GoalService, records *store.RecordStore, goalList *store.GoalStore, engine *gamify.Engine, alerts *notify.Center) *Server {
	s := &Server{
		expenses:    expenses,
		goals:       goals,
		records:     records,
		goalList:    goalList,
		engine:      engine,
		alerts:      alerts,
		rateLimiter: newRateLimiter(),
		now:         time.Now,
	}

	r := chi.NewRouter()
	r.Use(applog.RequestID)
	r.Use(applog.Requests(logger.WithComponent(applog.ComponentHTTP)))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(s.securityHeaders)
	r.Use(s.rateLimit)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleReady)

	r.Route("/api", func(api chi.Router) {
		api.Post("/expenses", s.handleCreateExpense)
		api.Get("/expenses", s.handleListExpenses)
		api.Delete("/expenses/{id}", s.handleDeleteExpense)

		api.Get("/budgets", s.handleListBudgets)
		api.Put("/budgets/{category}", s.handleSetBudget)

		api.Post("/goals", s.handleCreateGoal)
		api.Get("/goals", s.handleListGoals)
		api.Patch("/goals/{id}/progress", s.handleUpdateGoalProgress)
		api.Delete("/goals/{id}", s.handleDeleteGoal)

		api.Get("/analytics/categories", s.handleCategoryTotals)
		api.Get("/analytics/daily", s.handleDailySeries)
		api.Get("/analytics/monthly", s.handleMonthlyTotals)
		api.Get("/analytics/summary", s.handleSummary)

		api.Get("/notifications", s.handleListNotifications)
		api.Post("/notifications/{id}/dismiss", s.handleDismissNotification)

		api.Get("/gamification", s.handleGamification)
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: r,
	}

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// securityHeaders adds standard security headers to every response.
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// rateLimit applies the per-IP limiter to mutating requests.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			if ip := applog.ClientIP(r); !s.rateLimiter.allow(ip) {
				slog.WarnContext(r.Context(), "Rate limit exceeded", applog.NewFields().
					WithComponent(applog.ComponentRateLimit).
					WithClientIP(ip).
					ToSlice()...)
				w.Header().Set("Retry-After", "60")
				ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").Write(w)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
