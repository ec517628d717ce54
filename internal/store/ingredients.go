package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/cookbook/internal/apperr"
	"github.com/starford/cookbook/internal/models"
)

// ListIngredients returns every ingredient ordered by id.
func (db *DB) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name FROM ingredients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list ingredients: %w", err)
	}
	defer rows.Close()

	out := []models.Ingredient{}
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name); err != nil {
			return nil, fmt.Errorf("store: scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// GetIngredient returns the ingredient with the given id.
func (db *DB) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	return getIngredient(ctx, db.conn, id)
}

// GetIngredient returns the ingredient with the given id within the transaction.
func (t *Tx) GetIngredient(ctx context.Context, id int64) (*models.Ingredient, error) {
	return getIngredient(ctx, t.tx, id)
}

// CreateIngredient inserts a new ingredient. A duplicate name yields apperr.ErrAlreadyExists.
func (t *Tx) CreateIngredient(ctx context.Context, name string) (*models.Ingredient, error) {
	res, err := t.tx.ExecContext(ctx, `INSERT INTO ingredients (name) VALUES (?)`, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("store: ingredient %q: %w", name, apperr.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("store: insert ingredient: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("store: ingredient id: %w", err)
	}
	return &models.Ingredient{ID: id, Name: name}, nil
}

// CreateIngredient inserts a new ingredient in its own transaction.
func (db *DB) CreateIngredient(ctx context.Context, name string) (*models.Ingredient, error) {
	var out *models.Ingredient
	err := db.InTx(ctx, func(tx *Tx) error {
		var err error
		out, err = tx.CreateIngredient(ctx, name)
		return err
	})
	return out, err
}

func getIngredient(ctx context.Context, q querier, id int64) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := q.QueryRowContext(ctx, `SELECT id, name FROM ingredients WHERE id = ?`, id).Scan(&ing.ID, &ing.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NewNotFound(apperr.EntityIngredient, id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get ingredient: %w", err)
	}
	return &ing, nil
}

// ingredientsFor resolves the ingredients linked to a recipe through the join table.
func ingredientsFor(ctx context.Context, q querier, recipeID int64) ([]models.Ingredient, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT i.id, i.name
		FROM ingredients i
		JOIN recipe_ingredient ri ON ri.ingredient_id = i.id
		WHERE ri.recipe_id = ?
		ORDER BY i.id
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("store: recipe ingredients: %w", err)
	}
	defer rows.Close()

	out := []models.Ingredient{}
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name); err != nil {
			return nil, fmt.Errorf("store: scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}
