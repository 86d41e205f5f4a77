// internal/models/review.go
package models

type Review struct {
	ID        int    `json:"id"`
	Product   int    `json:"product"`
	Name      string `json:"name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ReviewCreate is the body for POST /products/{id}/reviews/.
type ReviewCreate struct {
	Name    string `json:"name" validate:"required,max=100"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"required"`
}
