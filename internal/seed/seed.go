// Package seed populates an empty catalog with a demonstration dataset.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/cookbook/internal/models"
	"github.com/starford/cookbook/internal/store"
)

//go:embed dataset.yaml
var defaultDataset []byte

// Dataset is a set of ingredients and recipes referencing them by name.
type Dataset struct {
	Ingredients []string `yaml:"ingredients"`
	Recipes     []Recipe `yaml:"recipes"`
}

// Recipe is a dataset recipe. Ingredients are ingredient names.
type Recipe struct {
	Title       string   `yaml:"title"`
	CookingTime int      `yaml:"cooking_time"`
	Description string   `yaml:"description"`
	ViewsCount  int      `yaml:"views_count"`
	Ingredients []string `yaml:"ingredients"`
}

// Validate checks the recipe fields against the catalog constraints.
func (r Recipe) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&r.CookingTime, validation.Required, validation.Min(1)),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.ViewsCount, validation.Min(0)),
	)
}

// Validate checks every recipe and that each recipe ingredient is declared.
func (d *Dataset) Validate() error {
	if err := validation.ValidateStruct(d,
		validation.Field(&d.Ingredients, validation.Each(validation.Required, validation.RuneLength(1, 100))),
		validation.Field(&d.Recipes),
	); err != nil {
		return err
	}
	declared := make(map[string]struct{}, len(d.Ingredients))
	for _, name := range d.Ingredients {
		if _, dup := declared[name]; dup {
			return fmt.Errorf("seed: duplicate ingredient %q", name)
		}
		declared[name] = struct{}{}
	}
	for _, r := range d.Recipes {
		for _, name := range r.Ingredients {
			if _, ok := declared[name]; !ok {
				return fmt.Errorf("seed: recipe %q uses undeclared ingredient %q", r.Title, name)
			}
		}
	}
	return nil
}

// Default returns the embedded demonstration dataset.
func Default() (*Dataset, error) {
	return parse(defaultDataset)
}

// LoadFile reads a dataset from a YAML file.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Dataset, error) {
	var d Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("seed: parse dataset: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("seed: invalid dataset: %w", err)
	}
	return &d, nil
}

// Run inserts the dataset unless the catalog already holds a recipe.
// Everything is written in one transaction. It reports whether data was inserted.
func Run(ctx context.Context, db *store.DB, d *Dataset, logger *slog.Logger) (bool, error) {
	inserted := false
	err := db.InTx(ctx, func(tx *store.Tx) error {
		n, err := tx.CountRecipes(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("seed: catalog already has recipes, skipping", slog.Int("recipes", n))
			return nil
		}

		ids := make(map[string]int64, len(d.Ingredients))
		for _, name := range d.Ingredients {
			ing, err := tx.CreateIngredient(ctx, name)
			if err != nil {
				return err
			}
			ids[name] = ing.ID
		}

		for _, r := range d.Recipes {
			ingIDs := make([]int64, 0, len(r.Ingredients))
			for _, name := range r.Ingredients {
				ingIDs = append(ingIDs, ids[name])
			}
			created, err := tx.CreateRecipe(ctx, models.NewRecipe{
				Title:         r.Title,
				CookingTime:   r.CookingTime,
				Description:   r.Description,
				IngredientIDs: ingIDs,
				ViewsCount:    r.ViewsCount,
			})
			if err != nil {
				return fmt.Errorf("seed: recipe %q: %w", r.Title, err)
			}
			logger.Debug("seed: recipe created", slog.Int64("id", created.ID), slog.String("title", created.Title))
		}
		inserted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if inserted {
		logger.Info("seed: catalog populated",
			slog.Int("ingredients", len(d.Ingredients)),
			slog.Int("recipes", len(d.Recipes)))
	}
	return inserted, nil
}
