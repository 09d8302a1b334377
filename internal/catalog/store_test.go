package catalog_test

import (
	"context"
	"testing"

	"github.com/mauv0809/racquet-stats/internal/catalog"
	"github.com/mauv0809/racquet-stats/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (catalog.Catalog, func()) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	return catalog.New(db), teardown
}

func TestCatalog(t *testing.T) {
	c, teardown := setupTestDB(t)
	defer teardown()
	ctx := context.Background()

	t.Run("badminton is seeded", func(t *testing.T) {
		ok, err := c.IsValidSport(ctx, "badminton")
		require.NoError(t, err)
		assert.True(t, ok)

		categories, err := c.GetCategoriesForSport(ctx, "badminton")
		require.NoError(t, err)
		assert.Equal(t, []catalog.Category{{Name: "singles"}, {Name: "doubles", IsDoubles: true}}, categories)
	})

	t.Run("unknown sport", func(t *testing.T) {
		ok, err := c.IsValidSport(ctx, "squash")
		require.NoError(t, err)
		assert.False(t, ok)

		categories, err := c.GetCategoriesForSport(ctx, "squash")
		require.NoError(t, err)
		assert.Empty(t, categories)
	})

	t.Run("list sports", func(t *testing.T) {
		sports, err := c.ListSports(ctx)
		require.NoError(t, err)
		assert.Equal(t, []catalog.Sport{{ID: "badminton", Name: "Badminton"}}, sports)
	})
}
