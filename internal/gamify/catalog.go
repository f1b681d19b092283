// Package gamify evaluates a static catalog of challenges and
// achievements against the current records and goals, awarding points
// exactly once per satisfied condition.
package gamify

// Challenge is a statically defined condition with a point reward.
type Challenge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Reward      int64  `json:"reward"`
}

// Achievement is a statically defined milestone with a point reward.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Reward      int64  `json:"reward"`
}

// Challenges returns the challenge catalog in evaluation order.
// budget_master and expense_reducer are placeholders whose predicates
// never fire; they stay in the catalog for display.
func Challenges() []Challenge {
	return []Challenge{
		{
			ID:          "daily_tracking",
			Title:       "Daily Expense Tracker",
			Description: "Log expenses for 7 consecutive days",
			Reward:      50,
		},
		{
			ID:          "budget_master",
			Title:       "Budget Master",
			Description: "Stay under budget in 3 categories for a month",
			Reward:      100,
		},
		{
			ID:          "savings_champion",
			Title:       "Savings Champion",
			Description: "Save 20% of your income this month",
			Reward:      150,
		},
		{
			ID:          "expense_reducer",
			Title:       "Expense Reducer",
			Description: "Reduce spending by 10% compared to last month",
			Reward:      75,
		},
	}
}

// Achievements returns the achievement catalog in evaluation order.
func Achievements() []Achievement {
	return []Achievement{
		{
			ID:          "first_expense",
			Title:       "First Step",
			Description: "Log your first expense",
			Reward:      25,
		},
		{
			ID:          "monthly_budget_pro",
			Title:       "Budget Pro",
			Description: "Complete 3 monthly challenges",
			Reward:      100,
		},
	}
}
