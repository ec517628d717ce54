package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/cookbook/internal/apperr"
	"github.com/starford/cookbook/internal/models"
)

// ListRecipes returns all recipes ordered by popularity: views descending,
// then cooking time ascending. Ties on both fall back to id.
func (db *DB) ListRecipes(ctx context.Context) ([]models.RecipeSummary, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, title, cooking_time, views_count
		FROM recipes
		ORDER BY views_count DESC, cooking_time ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list recipes: %w", err)
	}
	defer rows.Close()

	out := []models.RecipeSummary{}
	for rows.Next() {
		var r models.RecipeSummary
		if err := rows.Scan(&r.ID, &r.Title, &r.CookingTime, &r.ViewsCount); err != nil {
			return nil, fmt.Errorf("store: scan recipe: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRecipe returns a recipe with its ingredients resolved.
func (db *DB) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	return getRecipe(ctx, db.conn, id)
}

// GetRecipe returns a recipe with its ingredients resolved within the transaction.
func (t *Tx) GetRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	return getRecipe(ctx, t.tx, id)
}

// IncrementViews atomically adds one to the recipe's view counter.
func (db *DB) IncrementViews(ctx context.Context, id int64) error {
	return incrementViews(ctx, db.conn, id)
}

// IncrementViews atomically adds one to the recipe's view counter within the transaction.
func (t *Tx) IncrementViews(ctx context.Context, id int64) error {
	return incrementViews(ctx, t.tx, id)
}

// ViewRecipe increments the view counter and reads the recipe back in a
// single transaction. The returned recipe carries the post-increment count.
// A missing recipe leaves every counter untouched.
func (db *DB) ViewRecipe(ctx context.Context, id int64) (*models.Recipe, error) {
	var out *models.Recipe
	err := db.InTx(ctx, func(tx *Tx) error {
		if err := tx.IncrementViews(ctx, id); err != nil {
			return err
		}
		var err error
		out, err = tx.GetRecipe(ctx, id)
		return err
	})
	return out, err
}

// CreateRecipe persists a recipe and its ingredient links in one transaction.
func (db *DB) CreateRecipe(ctx context.Context, r models.NewRecipe) (*models.Recipe, error) {
	var out *models.Recipe
	err := db.InTx(ctx, func(tx *Tx) error {
		var err error
		out, err = tx.CreateRecipe(ctx, r)
		return err
	})
	return out, err
}

// CreateRecipe resolves every referenced ingredient before writing anything,
// then inserts the recipe row and one association row per ingredient.
// The first unresolved id aborts with an apperr.NotFoundError.
func (t *Tx) CreateRecipe(ctx context.Context, r models.NewRecipe) (*models.Recipe, error) {
	ingredients := make([]models.Ingredient, 0, len(r.IngredientIDs))
	for _, id := range r.IngredientIDs {
		ing, err := t.GetIngredient(ctx, id)
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, *ing)
	}

	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO recipes (title, cooking_time, description, views_count)
		VALUES (?, ?, ?, ?)
	`, r.Title, r.CookingTime, r.Description, r.ViewsCount)
	if err != nil {
		return nil, fmt.Errorf("store: insert recipe: %w", err)
	}
	recipeID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: recipe id: %w", err)
	}

	if len(ingredients) > 0 {
		stmt, err := t.tx.PrepareContext(ctx, `INSERT OR IGNORE INTO recipe_ingredient (recipe_id, ingredient_id) VALUES (?, ?)`)
		if err != nil {
			return nil, fmt.Errorf("store: prepare link insert: %w", err)
		}
		defer stmt.Close()
		for _, ing := range ingredients {
			if _, err := stmt.ExecContext(ctx, recipeID, ing.ID); err != nil {
				return nil, fmt.Errorf("store: insert link: %w", err)
			}
		}
	}

	return t.GetRecipe(ctx, recipeID)
}

// CountRecipes returns the number of stored recipes.
func (db *DB) CountRecipes(ctx context.Context) (int, error) {
	return countRecipes(ctx, db.conn)
}

// CountRecipes returns the number of stored recipes within the transaction.
func (t *Tx) CountRecipes(ctx context.Context) (int, error) {
	return countRecipes(ctx, t.tx)
}

func getRecipe(ctx context.Context, q querier, id int64) (*models.Recipe, error) {
	var r models.Recipe
	err := q.QueryRowContext(ctx, `
		SELECT id, title, cooking_time, description, views_count
		FROM recipes
		WHERE id = ?
	`, id).Scan(&r.ID, &r.Title, &r.CookingTime, &r.Description, &r.ViewsCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NewNotFound(apperr.EntityRecipe, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get recipe: %w", err)
	}
	r.Ingredients, err = ingredientsFor(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func incrementViews(ctx context.Context, q querier, id int64) error {
	res, err := q.ExecContext(ctx, `UPDATE recipes SET views_count = views_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: increment views: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: increment views: %w", err)
	}
	if n == 0 {
		return apperr.NewNotFound(apperr.EntityRecipe, id)
	}
	return nil
}

func countRecipes(ctx context.Context, q querier) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM recipes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count recipes: %w", err)
	}
	return n, nil
}
