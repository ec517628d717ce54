// Package apperr holds the error taxonomy shared by the store, service and transport layers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// Entity names used in NotFoundError messages.
const (
	EntityRecipe     = "Recipe"
	EntityIngredient = "Ingredient"
)

// NotFoundError reports a missing recipe or ingredient by id.
// It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Entity string
	ID     int64
}

// NewNotFound returns a NotFoundError for the given entity and id.
func NewNotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Entity, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
