package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/cookbook/internal/apperr"
	"github.com/starford/cookbook/internal/models"
	"github.com/starford/cookbook/internal/store"
	"github.com/starford/cookbook/internal/testutil"
)

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	path := t.TempDir() + "/twice.db"
	db, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = store.Open(path)
	require.NoError(t, err)
	defer db.Close()

	n, err := db.CountRecipes(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListRecipes_Order(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()
	fx := testutil.Populate(t, db)

	// Same views as ApplePie but quicker: must come before it.
	quick, err := db.CreateRecipe(ctx, models.NewRecipe{
		Title: "Quick Salad", CookingTime: 5, Description: "Toss.", ViewsCount: 3,
	})
	require.NoError(t, err)

	list, err := db.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, fx.Carbonara.ID, list[0].ID)
	assert.Equal(t, quick.ID, list[1].ID)
	assert.Equal(t, fx.ApplePie.ID, list[2].ID)

	for i := 1; i < len(list); i++ {
		prev, cur := list[i-1], list[i]
		ordered := prev.ViewsCount > cur.ViewsCount ||
			(prev.ViewsCount == cur.ViewsCount && prev.CookingTime <= cur.CookingTime)
		assert.Truef(t, ordered, "%+v precedes %+v", prev, cur)
	}
}

func TestListRecipes_Empty(t *testing.T) {
	db := testutil.TestDB(t)
	list, err := db.ListRecipes(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestGetRecipe_ResolvesIngredients(t *testing.T) {
	db := testutil.TestDB(t)
	fx := testutil.Populate(t, db)

	r, err := db.GetRecipe(context.Background(), fx.Carbonara.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spaghetti Carbonara", r.Title)
	assert.Equal(t, 5, r.ViewsCount)
	require.Len(t, r.Ingredients, 4)
	assert.Equal(t, fx.Ingredients[:4], r.Ingredients)
}

func TestGetRecipe_NotFound(t *testing.T) {
	db := testutil.TestDB(t)
	_, err := db.GetRecipe(context.Background(), 9999)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Contains(t, err.Error(), "9999")
}

func TestViewRecipe_IncrementsByOne(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()
	fx := testutil.Populate(t, db)

	r, err := db.ViewRecipe(ctx, fx.Carbonara.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, r.ViewsCount)

	r, err = db.ViewRecipe(ctx, fx.Carbonara.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, r.ViewsCount)

	other, err := db.GetRecipe(ctx, fx.ApplePie.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, other.ViewsCount, "other recipes are untouched")
}

func TestViewRecipe_MissingLeavesCountersAlone(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()
	fx := testutil.Populate(t, db)

	_, err := db.ViewRecipe(ctx, 4242)
	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, apperr.EntityRecipe, nf.Entity)

	r, err := db.GetRecipe(ctx, fx.Carbonara.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, r.ViewsCount)
}

func TestIncrementViews_ConcurrentUpdatesAreNotLost(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()
	fx := testutil.Populate(t, db)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- db.IncrementViews(ctx, fx.ApplePie.ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	r, err := db.GetRecipe(ctx, fx.ApplePie.ID)
	require.NoError(t, err)
	assert.Equal(t, 3+n, r.ViewsCount)
}

func TestCreateRecipe_PersistsLinks(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()
	fx := testutil.Populate(t, db)

	r, err := db.CreateRecipe(ctx, models.NewRecipe{
		Title:         "Pancakes",
		CookingTime:   15,
		Description:   "Mix and fry.",
		IngredientIDs: []int64{fx.Ingredients[2].ID, fx.Ingredients[4].ID, fx.Ingredients[5].ID},
	})
	require.NoError(t, err)
	assert.NotZero(t, r.ID)
	assert.Zero(t, r.ViewsCount)
	assert.Len(t, r.Ingredients, 3)

	got, err := db.GetRecipe(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestCreateRecipe_NoIngredients(t *testing.T) {
	db := testutil.TestDB(t)
	r, err := db.CreateRecipe(context.Background(), models.NewRecipe{
		Title: "Boiled Water", CookingTime: 3, Description: "Boil.", IngredientIDs: nil,
	})
	require.NoError(t, err)
	assert.NotNil(t, r.Ingredients)
	assert.Empty(t, r.Ingredients)
}

func TestCreateRecipe_MissingIngredientRollsBack(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()
	fx := testutil.Populate(t, db)

	_, err := db.CreateRecipe(ctx, models.NewRecipe{
		Title:         "Broken",
		CookingTime:   10,
		Description:   "Never stored.",
		IngredientIDs: []int64{fx.Ingredients[0].ID, 999, 1000},
	})
	var nf *apperr.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, apperr.EntityIngredient, nf.Entity)
	assert.Equal(t, int64(999), nf.ID)

	n, err := db.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCreateIngredient_DuplicateName(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()

	_, err := db.CreateIngredient(ctx, "Salt")
	require.NoError(t, err)
	_, err = db.CreateIngredient(ctx, "Salt")
	require.ErrorIs(t, err, apperr.ErrAlreadyExists)
}

func TestGetIngredient(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()
	fx := testutil.Populate(t, db)

	ing, err := db.GetIngredient(ctx, fx.Ingredients[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Bacon", ing.Name)

	_, err = db.GetIngredient(ctx, 31337)
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListIngredients(t *testing.T) {
	db := testutil.TestDB(t)
	fx := testutil.Populate(t, db)

	list, err := db.ListIngredients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fx.Ingredients, list)
}

func TestInTx_RollbackOnError(t *testing.T) {
	db := testutil.TestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.InTx(ctx, func(tx *store.Tx) error {
		if _, err := tx.CreateIngredient(ctx, "Ghost"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := db.ListIngredients(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
