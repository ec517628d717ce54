// Package catalog implements the recipe and ingredient business logic shared
// by the HTTP and MCP front ends.
package catalog

import (
	"context"

	"github.com/starford/cookbook/internal/models"
	"github.com/starford/cookbook/internal/store"
)

// Version is reported by the root endpoint and the MCP server.
const Version = "1.0.0"

// RecipeSummary is a lightweight item in a list response.
type RecipeSummary = models.RecipeSummary

// Ingredient is the response representation of an ingredient.
type Ingredient = models.Ingredient

// RecipeDetail is the full representation of a recipe.
type RecipeDetail = models.Recipe

// CreateRecipeInput holds validated fields for a new recipe.
type CreateRecipeInput struct {
	Title         string
	CookingTime   int
	Description   string
	IngredientIDs []int64
}

// RootInfo is the payload of the welcome endpoint.
type RootInfo struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

// Service coordinates catalog operations on the store.
type Service struct {
	db store.Catalog
}

// NewService creates a new catalog service.
func NewService(db store.Catalog) *Service {
	return &Service{db: db}
}

// Info returns the welcome message and API version.
func (s *Service) Info() RootInfo {
	return RootInfo{
		Message: "Welcome to the CookBook API!",
		Version: Version,
		Docs:    "/recipes, /ingredients",
	}
}

// ListRecipes returns every recipe, most viewed first and quickest first among equals.
func (s *Service) ListRecipes(ctx context.Context) ([]RecipeSummary, error) {
	items, err := s.db.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(items), nil
}

// GetRecipe counts a view and returns the recipe with the updated counter.
// A missing recipe yields an apperr.NotFoundError and no counter changes.
func (s *Service) GetRecipe(ctx context.Context, id int64) (*RecipeDetail, error) {
	r, err := s.db.ViewRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	recipeViews.Inc()
	r.Ingredients = nonNilSlice(r.Ingredients)
	return r, nil
}

// CreateRecipe stores a new recipe linked to existing ingredients.
// Repeated ingredient ids are collapsed, keeping first-seen order.
func (s *Service) CreateRecipe(ctx context.Context, in CreateRecipeInput) (*RecipeDetail, error) {
	r, err := s.db.CreateRecipe(ctx, models.NewRecipe{
		Title:         in.Title,
		CookingTime:   in.CookingTime,
		Description:   in.Description,
		IngredientIDs: dedupe(in.IngredientIDs),
	})
	if err != nil {
		return nil, err
	}
	recipesCreated.Inc()
	r.Ingredients = nonNilSlice(r.Ingredients)
	return r, nil
}

// ListIngredients returns every ingredient.
func (s *Service) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	items, err := s.db.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	return nonNilSlice(items), nil
}

// Ready reports whether the backing store is reachable.
func (s *Service) Ready(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
