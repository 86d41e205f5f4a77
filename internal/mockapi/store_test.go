// internal/mockapi/store_test.go
package mockapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuscatalog/storefront-go/internal/models"
)

func seededStore() *Store {
	s := NewStore()
	s.AddCategory(models.Category{ID: 1, Title: "Books", Slug: "books"})
	s.AddCategory(models.Category{ID: 2, Title: "Outdoors", Slug: "outdoors"})
	s.CreateProduct(models.ProductCreate{Name: "Atlas", Description: "maps", Price: 30, Category: 1, IsAvailable: true})
	s.CreateProduct(models.ProductCreate{Name: "Tent", Description: "shelter", Price: 120, Category: 2, IsAvailable: true})
	s.CreateProduct(models.ProductCreate{Name: "Compass", Description: "navigation", Price: 15, Category: 2, IsAvailable: false})
	return s
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestListProductsFiltersByCategorySlug(t *testing.T) {
	s := seededStore()
	results, count := s.ListProducts(ProductFilter{CategorySlug: "outdoors"}, 20, 0)
	assert.Equal(t, 2, count)
	assert.ElementsMatch(t, []string{"Tent", "Compass"}, names(results))
}

func TestListProductsFiltersByAvailabilityAndPrice(t *testing.T) {
	s := seededStore()
	available := true
	min := 20.0
	results, count := s.ListProducts(ProductFilter{Available: &available, MinPrice: &min}, 20, 0)
	assert.Equal(t, 2, count)
	assert.ElementsMatch(t, []string{"Atlas", "Tent"}, names(results))

	max := 50.0
	results, count = s.ListProducts(ProductFilter{Available: &available, MinPrice: &min, MaxPrice: &max}, 20, 0)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"Atlas"}, names(results))
}

func TestListProductsSearchIsCaseInsensitive(t *testing.T) {
	s := seededStore()
	results, count := s.ListProducts(ProductFilter{Search: "NAVIG"}, 20, 0)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"Compass"}, names(results))
}

func TestListProductsOrdering(t *testing.T) {
	s := seededStore()

	results, _ := s.ListProducts(ProductFilter{Ordering: "price"}, 20, 0)
	assert.Equal(t, []string{"Compass", "Atlas", "Tent"}, names(results))

	results, _ = s.ListProducts(ProductFilter{Ordering: "-price"}, 20, 0)
	assert.Equal(t, []string{"Tent", "Atlas", "Compass"}, names(results))

	results, _ = s.ListProducts(ProductFilter{Ordering: "name"}, 20, 0)
	assert.Equal(t, []string{"Atlas", "Compass", "Tent"}, names(results))
}

func TestListProductsPagination(t *testing.T) {
	s := seededStore()

	results, count := s.ListProducts(ProductFilter{Ordering: "name"}, 2, 0)
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"Atlas", "Compass"}, names(results))

	results, count = s.ListProducts(ProductFilter{Ordering: "name"}, 2, 2)
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"Tent"}, names(results))

	results, count = s.ListProducts(ProductFilter{}, 2, 10)
	assert.Equal(t, 3, count)
	assert.Empty(t, results)
}

func TestListResultsOmitReviews(t *testing.T) {
	s := seededStore()
	_, ok := s.AddReview(1, models.ReviewCreate{Name: "Dana", Rating: 5, Comment: "great"})
	require.True(t, ok)

	results, _ := s.ListProducts(ProductFilter{}, 20, 0)
	for _, p := range results {
		assert.Nil(t, p.Reviews)
	}

	detail, ok := s.GetProduct(1)
	require.True(t, ok)
	assert.Len(t, detail.Reviews, 1)
}

func TestAddReviewRecomputesAverage(t *testing.T) {
	s := seededStore()
	s.AddReview(1, models.ReviewCreate{Name: "a", Rating: 5, Comment: "x"})
	s.AddReview(1, models.ReviewCreate{Name: "b", Rating: 2, Comment: "y"})

	p, ok := s.GetProduct(1)
	require.True(t, ok)
	assert.InDelta(t, 3.5, p.AverageRating, 1e-9)
	// Newest review first, mirroring the backend's -created_at ordering.
	assert.Equal(t, "b", p.Reviews[0].Name)
}

func TestAddReviewUnknownProduct(t *testing.T) {
	s := seededStore()
	_, ok := s.AddReview(999, models.ReviewCreate{Name: "a", Rating: 5, Comment: "x"})
	assert.False(t, ok)
}

func TestUpdateProductAppliesOnlyProvidedFields(t *testing.T) {
	s := seededStore()
	price := models.Decimal(25)
	updated, ok := s.UpdateProduct(1, models.ProductUpdate{Price: &price})
	require.True(t, ok)

	assert.Equal(t, models.Decimal(25), updated.Price)
	assert.Equal(t, "Atlas", updated.Name)
	assert.NotEmpty(t, updated.UpdatedAt)

	_, ok = s.UpdateProduct(999, models.ProductUpdate{Price: &price})
	assert.False(t, ok)
}

func TestCreateProductDenormalizesCategoryTitle(t *testing.T) {
	s := seededStore()
	p := s.CreateProduct(models.ProductCreate{Name: "Novel", Description: "d", Price: 10, Category: 1, IsAvailable: true})
	assert.Equal(t, "Books", p.CategoryTitle)
	assert.NotZero(t, p.ID)
}

func TestAdminAccounts(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.CreateAdmin("admin_1", "hunter2hunter2"))

	assert.True(t, s.HasAdmin("admin_1"))
	assert.True(t, s.Authenticate("admin_1", "hunter2hunter2"))
	assert.False(t, s.Authenticate("admin_1", "wrong"))
	assert.False(t, s.Authenticate("ghost", "hunter2hunter2"))
}
