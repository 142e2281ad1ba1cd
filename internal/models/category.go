package models

// Category labels bias how the backend routes and interprets a request.
// The set is closed; anything else is treated as no selection.
type Category string

const (
	CategoryNutrition Category = "nutrition"
	CategoryFitness   Category = "fitness"
	CategorySchedule  Category = "schedule"
	CategoryWellness  Category = "wellness"
	CategoryGoals     Category = "goals"
	CategoryAnalytics Category = "analytics"
)

// Categories lists the closed category set in display order.
func Categories() []Category {
	return []Category{
		CategoryNutrition,
		CategoryFitness,
		CategorySchedule,
		CategoryWellness,
		CategoryGoals,
		CategoryAnalytics,
	}
}

// Valid reports whether c belongs to the closed set.
func (c Category) Valid() bool {
	switch c {
	case CategoryNutrition, CategoryFitness, CategorySchedule,
		CategoryWellness, CategoryGoals, CategoryAnalytics:
		return true
	}
	return false
}

// QuickAction pairs a canned prompt with the category it implies. Quick
// actions are offered by front-ends while the conversation is still fresh.
type QuickAction struct {
	Text     string
	Category Category
}

// QuickActions returns the suggested starters in display order.
func QuickActions() []QuickAction {
	return []QuickAction{
		{Text: "Create today's meal plan", Category: CategoryNutrition},
		{Text: "Design my 30-min workout", Category: CategoryFitness},
		{Text: "Show my weekly progress", Category: CategoryAnalytics},
		{Text: "Set a weight loss goal", Category: CategoryGoals},
		{Text: "Improve my sleep quality", Category: CategoryWellness},
		{Text: "Plan this week's schedule", Category: CategorySchedule},
	}
}
