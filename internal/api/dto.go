package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/cookbook/internal/catalog"
)

const (
	maxTitleLen  = 200
	maxBodyBytes = 1 << 20
)

// CreateRecipeRequest is the request body for creating a recipe.
// Fields are pointers so that a missing field can be told apart from a zero value.
type CreateRecipeRequest struct {
	Title         *string   `json:"title" example:"Spaghetti Carbonara" validate:"required"`
	CookingTime   *int      `json:"cooking_time" example:"20" validate:"required"`
	Description   *string   `json:"description" example:"Boil pasta, fry bacon, mix with eggs." validate:"required"`
	IngredientIDs *[]*int64 `json:"ingredient_ids" example:"1,2,3" validate:"required"`
}

// Validate checks field presence and ranges.
func (r *CreateRecipeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Title,
			validation.NotNil.Error("field required"),
			validation.Required.Error("must not be empty"),
			validation.RuneLength(1, maxTitleLen).Error(fmt.Sprintf("must be at most %d characters", maxTitleLen)),
		),
		validation.Field(&r.CookingTime,
			validation.NotNil.Error("field required"),
			validation.Required.Error("must be greater than 0"),
			validation.Min(1).Error("must be greater than 0"),
		),
		validation.Field(&r.Description,
			validation.NotNil.Error("field required"),
			validation.Required.Error("must not be empty"),
		),
		validation.Field(&r.IngredientIDs,
			validation.NotNil.Error("field required"),
			validation.By(eachIngredientID),
		),
	)
}

// eachIngredientID rejects null entries, which encoding/json would otherwise decode as 0.
func eachIngredientID(value any) error {
	ids, _ := value.(*[]*int64)
	if ids == nil {
		return nil
	}
	return validation.Validate(*ids, validation.Each(
		validation.NotNil.Error("must be an integer"),
	))
}

// Input converts a validated request into service input.
func (r *CreateRecipeRequest) Input() catalog.CreateRecipeInput {
	return catalog.CreateRecipeInput{
		Title:         *r.Title,
		CookingTime:   *r.CookingTime,
		Description:   *r.Description,
		IngredientIDs: derefIDs(*r.IngredientIDs),
	}
}

func derefIDs(ids []*int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != nil {
			out = append(out, *id)
		}
	}
	return out
}

// FieldError describes one offending field in a 422 response.
type FieldError struct {
	Loc  []string `json:"loc" example:"body,cooking_time" validate:"required"`
	Msg  string   `json:"msg" example:"must be greater than 0" validate:"required"`
	Type string   `json:"type" example:"validation_min_greater_equal_than_required" validate:"required"`
}

// RecipeSummary is a lightweight item in the recipe list (aliased from the domain layer).
type RecipeSummary = catalog.RecipeSummary

// RecipeDetail is the full recipe response type (aliased from the domain layer).
type RecipeDetail = catalog.RecipeDetail

// Ingredient is an item in the ingredient list (aliased from the domain layer).
type Ingredient = catalog.Ingredient

// decodeCreateRecipe reads and validates the request body. The returned
// field errors are non-empty when the payload must be rejected.
func decodeCreateRecipe(w http.ResponseWriter, r *http.Request) (*CreateRecipeRequest, []FieldError) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	var req CreateRecipeRequest
	if err := dec.Decode(&req); err != nil {
		return nil, []FieldError{decodeError(err)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, []FieldError{{Loc: []string{"body"}, Msg: "unexpected data after JSON object", Type: "json_invalid"}}
	}
	if err := req.Validate(); err != nil {
		return nil, fieldErrors([]string{"body"}, err)
	}
	return &req, nil
}

func decodeError(err error) FieldError {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return FieldError{
			Loc:  append([]string{"body"}, strings.Split(typeErr.Field, ".")...),
			Msg:  fmt.Sprintf("must be of type %s", jsonType(typeErr.Type.Kind().String())),
			Type: "type_error",
		}
	case errors.As(err, &maxErr):
		return FieldError{Loc: []string{"body"}, Msg: "request body too large", Type: "body_too_large"}
	case errors.Is(err, io.EOF):
		return FieldError{Loc: []string{"body"}, Msg: "field required", Type: "missing"}
	default:
		return FieldError{Loc: []string{"body"}, Msg: "invalid JSON body", Type: "json_invalid"}
	}
}

func jsonType(kind string) string {
	switch {
	case strings.HasPrefix(kind, "int"), strings.HasPrefix(kind, "uint"):
		return "integer"
	case kind == "slice":
		return "array"
	default:
		return kind
	}
}

// fieldErrors flattens nested ozzo validation errors into a stable, sorted list.
func fieldErrors(loc []string, err error) []FieldError {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		fe := FieldError{Loc: loc, Msg: err.Error(), Type: "value_error"}
		var ve validation.Error
		if errors.As(err, &ve) {
			fe.Type = ve.Code()
		}
		return []FieldError{fe}
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []FieldError
	for _, k := range keys {
		sub := append(append([]string{}, loc...), k)
		out = append(out, fieldErrors(sub, errs[k])...)
	}
	return out
}
