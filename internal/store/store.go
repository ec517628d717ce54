package store

import (
	"context"

	"github.com/starford/cookbook/internal/models"
)

// Catalog is the subset of *DB the service layer calls.
type Catalog interface {
	ListRecipes(ctx context.Context) ([]models.RecipeSummary, error)
	ViewRecipe(ctx context.Context, id int64) (*models.Recipe, error)
	CreateRecipe(ctx context.Context, r models.NewRecipe) (*models.Recipe, error)
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	Ping(ctx context.Context) error
}

// Verify *DB satisfies Catalog at compile time.
var _ Catalog = (*DB)(nil)
