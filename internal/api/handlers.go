package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/cookbook/internal/apperr"
	"github.com/starford/cookbook/internal/catalog"
)

// Handler holds API route handlers.
type Handler struct {
	svc *catalog.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

// recipeID extracts the positive integer id from the URL.
func recipeID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Root handles GET /.
//
//	@Summary		Welcome message and API version
//	@Tags			meta
//	@Produce		json
//	@Success		200	{object}	catalog.RootInfo
//	@Router			/ [get]
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Info())
}

// ListRecipes handles GET /recipes.
//
//	@Summary		List all recipes, most viewed first
//	@Description	Ties on views are broken by cooking time, quickest first.
//	@Tags			recipes
//	@Produce		json
//	@Success		200	{array}	RecipeSummary
//	@Router			/recipes [get]
func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListRecipes(r.Context())
	if err != nil {
		h.fail(w, r, "list recipes", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetRecipe handles GET /recipes/{id}.
//
//	@Summary		Get a recipe and count the view
//	@Tags			recipes
//	@Produce		json
//	@Param			id	path		int	true	"Recipe ID"
//	@Success		200	{object}	RecipeDetail
//	@Failure		404	{object}	errResponse
//	@Failure		422	{object}	validationResponse
//	@Router			/recipes/{id} [get]
func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := recipeID(r)
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: []FieldError{{
			Loc:  []string{"path", "id"},
			Msg:  "must be a positive integer",
			Type: "int_parsing",
		}}})
		return
	}
	recipe, err := h.svc.GetRecipe(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get recipe", err)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// CreateRecipe handles POST /recipes.
//
//	@Summary		Create a recipe from existing ingredients
//	@Tags			recipes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CreateRecipeRequest	true	"Recipe to create"
//	@Success		201		{object}	RecipeDetail
//	@Failure		404		{object}	errResponse
//	@Failure		422		{object}	validationResponse
//	@Router			/recipes [post]
func (h *Handler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	req, fieldErrs := decodeCreateRecipe(w, r)
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: fieldErrs})
		return
	}
	recipe, err := h.svc.CreateRecipe(r.Context(), req.Input())
	if err != nil {
		h.fail(w, r, "create recipe", err)
		return
	}
	writeJSON(w, http.StatusCreated, recipe)
}

// ListIngredients handles GET /ingredients.
//
//	@Summary		List all ingredients
//	@Tags			ingredients
//	@Produce		json
//	@Success		200	{array}	Ingredient
//	@Router			/ingredients [get]
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListIngredients(r.Context())
	if err != nil {
		h.fail(w, r, "list ingredients", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// fail maps domain errors to 404 and everything else to an opaque 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	var nf *apperr.NotFoundError
	switch {
	case errors.As(err, &nf):
		writeJSON(w, http.StatusNotFound, errorBody(nf.Error()))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	default:
		slog.Error(op+" failed",
			slog.String("request_id", RequestIDFrom(r.Context())),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
