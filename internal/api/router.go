package api

import (
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/starford/cookbook/internal/catalog"
)

// NewRouter creates a chi router with all catalog routes mounted.
// limiter, if non-nil, throttles every catalog route.
func NewRouter(svc *catalog.Service, limiter *rate.Limiter) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	if limiter != nil {
		r.Use(RateLimit(limiter))
	}

	r.Get("/", h.Root)

	// Recipes.
	r.Get("/recipes", h.ListRecipes)
	r.Post("/recipes", h.CreateRecipe)
	r.Get("/recipes/{id}", h.GetRecipe)

	// Ingredients.
	r.Get("/ingredients", h.ListIngredients)

	return r
}
