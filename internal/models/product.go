// internal/models/product.go
package models

type Product struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         Decimal `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	ImageURL      string  `json:"image_url,omitempty"`
	IsAvailable   bool    `json:"is_available"`
	CreatedAt     string  `json:"created_at,omitempty"`
	UpdatedAt     string  `json:"updated_at,omitempty"`

	// Denormalized/computed fields from the serializer
	Category      int     `json:"category"`
	CategoryTitle string  `json:"category_title,omitempty"`
	AverageRating float64 `json:"average_rating"`

	// Only populated by the detail endpoint
	Reviews []Review `json:"reviews,omitempty"`
}

// ProductCreate is the body for POST /products.
type ProductCreate struct {
	Name          string  `json:"name" validate:"required,max=255"`
	Description   string  `json:"description" validate:"required"`
	Price         Decimal `json:"price" validate:"required,gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	ImageURL      string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Category      int     `json:"category" validate:"required,gt=0"`
	IsAvailable   bool    `json:"is_available"`
}

// ProductUpdate is the body for PATCH /products/{id}. Nil fields are
// left untouched by the backend.
type ProductUpdate struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=255"`
	Description   *string  `json:"description,omitempty"`
	Price         *Decimal `json:"price,omitempty" validate:"omitempty,gt=0"`
	StockQuantity *int     `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	ImageURL      *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Category      *int     `json:"category,omitempty" validate:"omitempty,gt=0"`
	IsAvailable   *bool    `json:"is_available,omitempty"`
}
