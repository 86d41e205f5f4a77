// internal/cache/tags.go
package cache

import "fmt"

// Tag labels a cached query result so mutations can declare which
// entries they invalidate.
type Tag string

const (
	// ProductList covers every cached product list query.
	ProductList Tag = "Product:LIST"
	// CategoryList covers the cached category collection.
	CategoryList Tag = "Category:LIST"
)

// ProductTag returns the tag for a single product.
func ProductTag(id int) Tag {
	return Tag(fmt.Sprintf("Product:%d", id))
}

// CategoryTag returns the tag for a single category.
func CategoryTag(id int) Tag {
	return Tag(fmt.Sprintf("Category:%d", id))
}
