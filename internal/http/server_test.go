package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"expensewise/internal/core"
	"expensewise/internal/gamify"
	applog "expensewise/internal/log"
	"expensewise/internal/notify"
	"expensewise/internal/services"
	"expensewise/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()

	kv := store.NewMemoryKV()
	records, err := store.NewRecordStore(ctx, kv)
	if err != nil {
		t.Fatalf("NewRecordStore: %v", err)
	}
	goals, err := store.NewGoalStore(ctx, kv)
	if err != nil {
		t.Fatalf("NewGoalStore: %v", err)
	}
	engine, err := gamify.NewEngine(ctx, kv)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	alerts := notify.NewCenter()

	expenseService := services.NewExpenseService(records, goals, engine, alerts, nil)
	goalService := services.NewGoalService(goals, records, engine, nil)

	s := NewServer(":0", applog.New(applog.DefaultConfig()), expenseService, goalService, records, goals, engine, alerts)
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
	})
	return s
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	if rec := doJSON(t, s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("/healthz = %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("/readyz = %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/expenses", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
}

func TestCreateAndListExpenses(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"lunch","amount":"12.50","category":"food","date":"2026-08-10"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, body %s", rec.Code, rec.Body)
	}
	created := decodeBody[core.Expense](t, rec)
	if created.Amount.Cents != 1250 || created.Category != core.Food {
		t.Fatalf("created = %+v", created)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/expenses", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	list := decodeBody[[]core.Expense](t, rec)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list = %+v", list)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed JSON", `{"description":`, http.StatusBadRequest},
		{"bad amount", `{"description":"x","amount":"abc","category":"food"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"description":"x","amount":"-5","category":"food"}`, http.StatusUnprocessableEntity},
		{"unknown category", `{"description":"x","amount":"5","category":"misc"}`, http.StatusUnprocessableEntity},
		{"blank description", `{"description":"  ","amount":"5","category":"food"}`, http.StatusUnprocessableEntity},
		{"overlong description", `{"description":"` + strings.Repeat("a", 201) + `","amount":"5","category":"food"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, s, http.MethodPost, "/api/expenses", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

func TestCreateExpenseDefaultsCategory(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"mystery","amount":"5"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, body %s", rec.Code, rec.Body)
	}
	created := decodeBody[core.Expense](t, rec)
	if created.Category != core.Other {
		t.Fatalf("category = %s, want other", created.Category)
	}
}

func TestDeleteExpense(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"lunch","amount":"5","category":"food"}`)
	created := decodeBody[core.Expense](t, rec)

	rec = doJSON(t, s, http.MethodDelete, "/api/expenses/"+strconv.FormatInt(created.ID, 10), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}

	// Absent ID still answers 204.
	rec = doJSON(t, s, http.MethodDelete, "/api/expenses/999999", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete absent = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/expenses/not-a-number", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("delete bad id = %d", rec.Code)
	}
}

func TestBudgetEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/budgets", "")
	budgets := decodeBody[map[string]int64](t, rec)
	if budgets["food"] != 50000 {
		t.Fatalf("default food budget = %d cents", budgets["food"])
	}

	rec = doJSON(t, s, http.MethodPut, "/api/budgets/food", `{"limit":"750"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set budget = %d, body %s", rec.Code, rec.Body)
	}
	budgets = decodeBody[map[string]int64](t, rec)
	if budgets["food"] != 75000 {
		t.Fatalf("updated food budget = %d cents", budgets["food"])
	}

	if rec := doJSON(t, s, http.MethodPut, "/api/budgets/misc", `{"limit":"100"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown category = %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodPut, "/api/budgets/food", `{"limit":"0"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("zero limit = %d", rec.Code)
	}
}

func TestGoalEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/goals",
		`{"name":"vacation","target":"1000","current":"100","deadline":"2026-12-31"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d, body %s", rec.Code, rec.Body)
	}
	created := decodeBody[core.SavingsGoal](t, rec)
	if created.Target.Cents != 100000 || created.Current.Cents != 10000 {
		t.Fatalf("created = %+v", created)
	}

	id := strconv.FormatInt(created.ID, 10)
	rec = doJSON(t, s, http.MethodPatch, "/api/goals/"+id+"/progress", `{"current":"400"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("progress = %d, body %s", rec.Code, rec.Body)
	}
	updated := decodeBody[core.SavingsGoal](t, rec)
	if updated.Current.Cents != 40000 {
		t.Fatalf("updated = %+v", updated)
	}

	if rec := doJSON(t, s, http.MethodPatch, "/api/goals/999999/progress", `{"current":"1"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown goal = %d", rec.Code)
	}

	if rec := doJSON(t, s, http.MethodPost, "/api/goals", `{"name":"","target":"100"}`); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty name = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodDelete, "/api/goals/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/goals", "")
	if goals := decodeBody[[]core.SavingsGoal](t, rec); len(goals) != 0 {
		t.Fatalf("goals = %+v", goals)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	s := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"a","amount":"10","category":"food","date":"2026-08-10"}`)
	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"b","amount":"4","category":"transport","date":"2026-08-11"}`)

	rec := doJSON(t, s, http.MethodGet, "/api/analytics/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("categories = %d", rec.Code)
	}
	categories := decodeBody[[]map[string]any](t, rec)
	if len(categories) != 2 {
		t.Fatalf("categories = %+v", categories)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/analytics/summary", "")
	summary := decodeBody[map[string]any](t, rec)
	if summary["total_spent"].(float64) != 1400 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary["top_category"].(string) != "food" {
		t.Fatalf("summary = %+v", summary)
	}

	if rec := doJSON(t, s, http.MethodGet, "/api/analytics/daily", ""); rec.Code != http.StatusOK {
		t.Fatalf("daily = %d", rec.Code)
	}
	if rec := doJSON(t, s, http.MethodGet, "/api/analytics/monthly", ""); rec.Code != http.StatusOK {
		t.Fatalf("monthly = %d", rec.Code)
	}
}

func TestNotificationFlow(t *testing.T) {
	s := newTestServer(t)

	// Budget 100, spend 95: warning territory.
	doJSON(t, s, http.MethodPut, "/api/budgets/food", `{"limit":"100"}`)
	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"groceries","amount":"95","category":"food","date":"2026-01-01"}`)

	rec := doJSON(t, s, http.MethodGet, "/api/notifications", "")
	notifications := decodeBody[[]map[string]string](t, rec)
	if len(notifications) != 1 || notifications[0]["id"] != "budget-warning-food" {
		t.Fatalf("notifications = %+v", notifications)
	}

	// Dismissal hides it until the next data change.
	rec = doJSON(t, s, http.MethodPost, "/api/notifications/budget-warning-food/dismiss", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("dismiss = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/api/notifications", "")
	if got := decodeBody[[]map[string]string](t, rec); len(got) != 0 {
		t.Fatalf("dismissed notification still listed: %+v", got)
	}

	// Crossing the limit escalates the warning to an alert and clears
	// the dismissal.
	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"more","amount":"10","category":"food","date":"2026-01-01"}`)
	rec = doJSON(t, s, http.MethodGet, "/api/notifications", "")
	notifications = decodeBody[[]map[string]string](t, rec)
	if len(notifications) != 1 || notifications[0]["id"] != "budget-exceeded-food" {
		t.Fatalf("notifications = %+v", notifications)
	}
	if notifications[0]["kind"] != "alert" {
		t.Fatalf("kind = %s, want alert", notifications[0]["kind"])
	}
}

func TestGamificationEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/gamification", "")
	view := decodeBody[gamificationView](t, rec)
	if view.Points != 0 {
		t.Fatalf("fresh points = %d", view.Points)
	}
	if len(view.Challenges) != 4 || len(view.Achievements) != 2 {
		t.Fatalf("catalog sizes = %d challenges, %d achievements", len(view.Challenges), len(view.Achievements))
	}

	doJSON(t, s, http.MethodPost, "/api/expenses",
		`{"description":"first","amount":"5","category":"food"}`)

	rec = doJSON(t, s, http.MethodGet, "/api/gamification", "")
	view = decodeBody[gamificationView](t, rec)
	if view.Points != 25 {
		t.Fatalf("points after first expense = %d, want 25", view.Points)
	}
	var firstExpense *achievementStatus
	for i := range view.Achievements {
		if view.Achievements[i].ID == "first_expense" {
			firstExpense = &view.Achievements[i]
		}
	}
	if firstExpense == nil || !firstExpense.Unlocked {
		t.Fatalf("first_expense not unlocked: %+v", view.Achievements)
	}
}

func TestFormEncodedBodyAccepted(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/expenses",
		strings.NewReader("description=coffee&amount=3.50&category=food&date=2026-08-10"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("form create = %d, body %s", rec.Code, rec.Body)
	}
	created := decodeBody[core.Expense](t, rec)
	if created.Amount.Cents != 350 {
		t.Fatalf("created = %+v", created)
	}
}
