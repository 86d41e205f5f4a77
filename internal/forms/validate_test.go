// internal/forms/validate_test.go
package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexuscatalog/storefront-go/internal/api"
	"github.com/nexuscatalog/storefront-go/internal/models"
)

func TestValidateAcceptsWellFormedReview(t *testing.T) {
	err := Validate(models.ReviewCreate{Name: "Dana", Rating: 5, Comment: "Great"})
	assert.NoError(t, err)
}

func TestValidateRejectsOutOfRangeRating(t *testing.T) {
	err := Validate(models.ReviewCreate{Name: "Dana", Rating: 6, Comment: "Great"})

	require.True(t, api.IsValidation(err))
	var ve *api.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"must be at most 5"}, ve.Fields["rating"])
}

func TestValidateCollectsAllFailures(t *testing.T) {
	err := Validate(models.ReviewCreate{})

	var ve *api.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
	assert.Contains(t, ve.Fields, "rating")
	assert.Contains(t, ve.Fields, "comment")
	assert.Equal(t, []string{"this field is required"}, ve.Fields["name"])
}

func TestValidateProductCreate(t *testing.T) {
	err := Validate(models.ProductCreate{
		Name:        "Lamp",
		Description: "A lamp",
		Price:       0,
		Category:    1,
		ImageURL:    "not a url",
	})

	var ve *api.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "price")
	assert.Equal(t, []string{"must be a valid URL"}, ve.Fields["imageurl"])
}

func TestValidateProductUpdateSkipsNilFields(t *testing.T) {
	err := Validate(models.ProductUpdate{})
	assert.NoError(t, err)

	bad := -1
	err = Validate(models.ProductUpdate{StockQuantity: &bad})
	var ve *api.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"must be at least 0"}, ve.Fields["stockquantity"])
}
