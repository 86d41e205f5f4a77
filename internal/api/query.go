// internal/api/query.go
package api

import (
	"net/url"
	"strconv"
)

// SortKey is one of the orderings the products endpoint accepts.
type SortKey string

const (
	SortNewest     SortKey = "-created_at"
	SortPriceAsc   SortKey = "price"
	SortPriceDesc  SortKey = "-price"
	SortRatingDesc SortKey = "-average_rating"
	SortNameAsc    SortKey = "name"
)

// SortKeys lists the valid orderings in display order.
var SortKeys = []SortKey{SortNewest, SortPriceAsc, SortPriceDesc, SortRatingDesc, SortNameAsc}

// Valid reports whether k is one of the enumerated sort keys.
func (k SortKey) Valid() bool {
	for _, s := range SortKeys {
		if s == k {
			return true
		}
	}
	return false
}

// Filters is the committed filter selection driving the catalog query.
// The zero value means "no filter".
type Filters struct {
	CategorySlug string
	MinPrice     *float64
	MaxPrice     *float64
}

// IsZero reports whether no filter is applied.
func (f Filters) IsZero() bool {
	return f.CategorySlug == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// Equal compares two filter sets by value.
func (f Filters) Equal(other Filters) bool {
	if f.CategorySlug != other.CategorySlug {
		return false
	}
	if !floatPtrEqual(f.MinPrice, other.MinPrice) {
		return false
	}
	return floatPtrEqual(f.MaxPrice, other.MaxPrice)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ProductsKey is the canonical cache key for a product list query.
// url.Values.Encode sorts parameter names, so equal parameter sets map
// to equal keys.
func ProductsKey(q ProductQuery) string {
	return "/products?" + q.Values().Encode()
}

// ProductKey is the cache key for a product detail fetch.
func ProductKey(id int) string {
	return "/products/" + strconv.Itoa(id)
}

// CategoriesKey is the cache key for the category collection.
const CategoriesKey = "/categories"

// ProductQuery is the full parameter set for GET /products.
type ProductQuery struct {
	Limit     int
	Offset    int
	Search    string
	Ordering  SortKey
	Filters   Filters
	Available *bool
}

// Values serializes the query into URL parameters. Encoding sorts keys,
// so the result doubles as a canonical cache key component.
func (q ProductQuery) Values() url.Values {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Ordering != "" {
		v.Set("ordering", string(q.Ordering))
	}
	if q.Filters.CategorySlug != "" {
		v.Set("category_slug", q.Filters.CategorySlug)
	}
	if q.Filters.MinPrice != nil {
		v.Set("min_price", strconv.FormatFloat(*q.Filters.MinPrice, 'f', -1, 64))
	}
	if q.Filters.MaxPrice != nil {
		v.Set("max_price", strconv.FormatFloat(*q.Filters.MaxPrice, 'f', -1, 64))
	}
	if q.Available != nil {
		v.Set("is_available", strconv.FormatBool(*q.Available))
	}
	return v
}
