package gamify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"expensewise/internal/core"
	applog "expensewise/internal/log"
	"expensewise/internal/store"
)

// Award describes a newly granted challenge or achievement.
type Award struct {
	Kind   string `json:"kind"` // "challenge" or "achievement"
	ID     string `json:"id"`
	Reward int64  `json:"reward"`
}

// State is a read-only snapshot of the gamification state.
type State struct {
	Points    int64    `json:"points"`
	Completed []string `json:"completed_challenges"`
	Unlocked  []string `json:"unlocked_achievements"`
}

// Engine owns the accumulated point total and the append-only sets of
// completed challenges and unlocked achievements. Each of the three is
// persisted independently under its own key.
type Engine struct {
	mu        sync.Mutex
	kv        store.KV
	points    int64
	completed []string
	unlocked  []string
}

// NewEngine loads the persisted gamification state. Missing or corrupt
// entries fall back to zero points and empty sets.
func NewEngine(ctx context.Context, kv store.KV) (*Engine, error) {
	e := &Engine{kv: kv}

	if data, found, err := kv.Get(ctx, store.KeyUserPoints); err != nil {
		return nil, fmt.Errorf("load points: %w", err)
	} else if found {
		points, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
		if err != nil || points < 0 {
			slog.WarnContext(ctx, "Corrupt points entry, resetting to zero", append(applog.NewFields().
				WithComponent(applog.ComponentGamify).
				ToSlice(), "value", string(data))...)
		} else {
			e.points = points
		}
	}

	e.completed = loadIDList(ctx, kv, store.KeyCompletedChallenges)
	e.unlocked = loadIDList(ctx, kv, store.KeyUnlockedAchievements)

	return e, nil
}

func loadIDList(ctx context.Context, kv store.KV, key string) []string {
	data, found, err := kv.Get(ctx, key)
	if err != nil || !found {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		slog.WarnContext(ctx, "Corrupt ID list entry, starting empty", append(applog.NewFields().
			WithComponent(applog.ComponentGamify).
			WithError(err).
			ToSlice(), "key", key)...)
		return nil
	}
	return ids
}

// Evaluate runs the catalog in declaration order against the current
// records and goals. Every newly satisfied predicate awards its points
// exactly once; repeated evaluation with the same input changes
// nothing. A failed persist rolls the pass back entirely so awards
// never exist only in memory. Returns the awards granted by this pass.
func (e *Engine) Evaluate(ctx context.Context, expenses []core.Expense, goals []core.SavingsGoal) ([]Award, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prevPoints := e.points
	prevCompleted := e.completed
	prevUnlocked := e.unlocked

	var awards []Award

	for _, challenge := range Challenges() {
		if contains(e.completed, challenge.ID) {
			continue
		}
		if !challengeCompleted(challenge.ID, expenses, goals) {
			continue
		}
		e.completed = append(e.completed, challenge.ID)
		e.points += challenge.Reward
		awards = append(awards, Award{Kind: "challenge", ID: challenge.ID, Reward: challenge.Reward})
	}

	for _, achievement := range Achievements() {
		if contains(e.unlocked, achievement.ID) {
			continue
		}
		if !achievementUnlocked(achievement.ID, expenses, e.completed) {
			continue
		}
		e.unlocked = append(e.unlocked, achievement.ID)
		e.points += achievement.Reward
		awards = append(awards, Award{Kind: "achievement", ID: achievement.ID, Reward: achievement.Reward})
	}

	if len(awards) == 0 {
		return nil, nil
	}

	if err := e.persist(ctx); err != nil {
		e.points = prevPoints
		e.completed = prevCompleted
		e.unlocked = prevUnlocked
		return nil, err
	}

	for _, a := range awards {
		slog.InfoContext(ctx, "Award granted", append(applog.NewFields().
			WithComponent(applog.ComponentGamify).
			WithOperation(applog.OpEvaluate).
			WithAward(a.ID, a.Reward).
			ToSlice(), "kind", a.Kind)...)
	}

	return awards, nil
}

// challengeCompleted evaluates a challenge predicate. daily_tracking
// checks the distinct expense date count, not true consecutiveness;
// that looser semantics is intentional and must be preserved.
func challengeCompleted(id string, expenses []core.Expense, goals []core.SavingsGoal) bool {
	switch id {
	case "daily_tracking":
		dates := make(map[string]struct{})
		for _, e := range expenses {
			dates[e.Date.String()] = struct{}{}
		}
		return len(dates) >= 7
	case "savings_champion":
		var total int64
		for _, g := range goals {
			total += g.Current.Cents
		}
		return total > 0
	default:
		// budget_master and expense_reducer are unattainable
		// placeholders.
		return false
	}
}

func achievementUnlocked(id string, expenses []core.Expense, completed []string) bool {
	switch id {
	case "first_expense":
		return len(expenses) > 0
	case "monthly_budget_pro":
		return len(completed) >= 3
	default:
		return false
	}
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Points:    e.points,
		Completed: append([]string(nil), e.completed...),
		Unlocked:  append([]string(nil), e.unlocked...),
	}
}

// persist writes each of the three entries independently.
// Callers must hold e.mu.
func (e *Engine) persist(ctx context.Context) error {
	if err := e.kv.Set(ctx, store.KeyUserPoints, []byte(strconv.FormatInt(e.points, 10))); err != nil {
		return fmt.Errorf("persist points: %w", err)
	}
	if err := setIDList(ctx, e.kv, store.KeyCompletedChallenges, e.completed); err != nil {
		return err
	}
	return setIDList(ctx, e.kv, store.KeyUnlockedAchievements, e.unlocked)
}

func setIDList(ctx context.Context, kv store.KV, key string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
