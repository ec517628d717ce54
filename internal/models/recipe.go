// Package models defines the domain types for the cookbook catalog.
package models

// Ingredient is a named component that any number of recipes may reference.
type Ingredient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Recipe is a dish with its resolved ingredient list.
type Recipe struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	CookingTime int          `json:"cooking_time"`
	Description string       `json:"description"`
	ViewsCount  int          `json:"views_count"`
	Ingredients []Ingredient `json:"ingredients"`
}

// RecipeSummary is the lightweight projection returned by list operations.
type RecipeSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	CookingTime int    `json:"cooking_time"`
	ViewsCount  int    `json:"views_count"`
}

// NewRecipe carries the fields needed to persist a recipe.
// ViewsCount is the initial counter value; recipes created through the API leave it at zero.
type NewRecipe struct {
	Title         string
	CookingTime   int
	Description   string
	IngredientIDs []int64
	ViewsCount    int
}

// Summary projects r onto its list representation.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		CookingTime: r.CookingTime,
		ViewsCount:  r.ViewsCount,
	}
}
