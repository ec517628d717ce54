package mcpserver

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/cookbook/internal/catalog"
)

// validateInput applies the same field rules as the HTTP API.
// rawCookingTime is checked separately so fractional minutes are rejected.
func validateInput(in catalog.CreateRecipeInput, rawCookingTime float64) error {
	if rawCookingTime != float64(int64(rawCookingTime)) {
		return validation.Errors{"cooking_time": validation.NewError("validation_integer", "must be an integer")}
	}
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&in.CookingTime, validation.Required.Error("must be greater than 0"), validation.Min(1).Error("must be greater than 0")),
		validation.Field(&in.Description, validation.Required),
	)
}
