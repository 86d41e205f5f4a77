// internal/models/category.go
package models

type Category struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at,omitempty"`
}
