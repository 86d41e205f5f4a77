// internal/catalog/reviews.go
package catalog

import (
	"context"

	"github.com/nexuscatalog/storefront-go/internal/cache"
	"github.com/nexuscatalog/storefront-go/internal/forms"
	"github.com/nexuscatalog/storefront-go/internal/models"
)

// SubmitReview validates and posts a review, then invalidates the
// product's detail entry and every list entry so the new rating shows up
// on the next access.
func (v *View) SubmitReview(ctx context.Context, productID int, review models.ReviewCreate) (*models.Review, error) {
	if err := forms.Validate(review); err != nil {
		return nil, err
	}
	tags := []cache.Tag{cache.ProductTag(productID), cache.ProductList}
	result, err := v.cache.Mutate(ctx, tags, func(ctx context.Context) (interface{}, error) {
		return v.client.SubmitReview(ctx, productID, review)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Review), nil
}
