// Package testutil provides shared test helpers for setting up catalog databases.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/starford/cookbook/internal/models"
	"github.com/starford/cookbook/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "cookbook-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() {
		os.Remove(dbFile.Name())
		os.Remove(dbFile.Name() + "-wal")
		os.Remove(dbFile.Name() + "-shm")
	})

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Fixture holds the ids created by Populate.
type Fixture struct {
	Ingredients []models.Ingredient
	Carbonara   *models.Recipe
	ApplePie    *models.Recipe
}

// Populate inserts six ingredients and two recipes viewed 5 and 3 times.
// Carbonara uses the first four ingredients and ApplePie the last two.
func Populate(t *testing.T, db *store.DB) Fixture {
	t.Helper()
	ctx := context.Background()
	var fx Fixture
	err := db.InTx(ctx, func(tx *store.Tx) error {
		for _, name := range []string{"Spaghetti", "Bacon", "Eggs", "Parmesan", "Flour", "Sugar"} {
			ing, err := tx.CreateIngredient(ctx, name)
			if err != nil {
				return err
			}
			fx.Ingredients = append(fx.Ingredients, *ing)
		}
		var err error
		fx.Carbonara, err = tx.CreateRecipe(ctx, models.NewRecipe{
			Title:         "Spaghetti Carbonara",
			CookingTime:   20,
			Description:   "Classic Italian pasta.",
			IngredientIDs: ids(fx.Ingredients[:4]),
			ViewsCount:    5,
		})
		if err != nil {
			return err
		}
		fx.ApplePie, err = tx.CreateRecipe(ctx, models.NewRecipe{
			Title:         "Apple Pie",
			CookingTime:   45,
			Description:   "Homemade pie.",
			IngredientIDs: ids(fx.Ingredients[4:]),
			ViewsCount:    3,
		})
		return err
	})
	if err != nil {
		t.Fatalf("populate: %v", err)
	}
	return fx
}

func ids(ings []models.Ingredient) []int64 {
	out := make([]int64, len(ings))
	for i, ing := range ings {
		out[i] = ing.ID
	}
	return out
}
