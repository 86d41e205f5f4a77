// internal/catalog/view.go
package catalog

import (
	"context"

	"github.com/nexuscatalog/storefront-go/internal/api"
	"github.com/nexuscatalog/storefront-go/internal/cache"
	"github.com/nexuscatalog/storefront-go/internal/models"
	"github.com/nexuscatalog/storefront-go/internal/store"
)

// View composes the entity cache and the UI-local state into a
// paginated, filtered, sorted product grid. It owns the pagination
// offset; sort and filters live in the shared prefs, and every write to
// them goes through this view so the offset-reset invariant holds: a
// stale offset must never survive a change of sort key, filter set or
// search term.
type View struct {
	client   *api.Client
	cache    *cache.Store
	prefs    *store.Prefs
	pageSize int
	offset   int
	search   string
}

// PageView is the render state for one catalog page.
type PageView struct {
	Products       []models.Product
	TotalCount     int
	CurrentPage    int
	TotalPages     int
	PageStrip      []int
	ShowPagination bool
	Empty          bool
}

// NewView creates a catalog view starting at the first page.
func NewView(client *api.Client, cacheStore *cache.Store, prefs *store.Prefs, pageSize int) *View {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &View{
		client:   client,
		cache:    cacheStore,
		prefs:    prefs,
		pageSize: pageSize,
	}
}

// Offset returns the current zero-based item offset.
func (v *View) Offset() int { return v.offset }

// PageSize returns the fixed page size.
func (v *View) PageSize() int { return v.pageSize }

// SetSort changes the sort key and resets to the first page. Offset
// never survives a sort change.
func (v *View) SetSort(key api.SortKey) {
	v.offset = 0
	v.prefs.SetSort(key)
}

// ApplyFilters commits a new filter selection and resets to the first
// page.
func (v *View) ApplyFilters(filters api.Filters) {
	v.offset = 0
	v.prefs.SetFilters(filters)
}

// ClearFilters drops every filter and returns to the first page. This is
// the empty-state "clear filters" action.
func (v *View) ClearFilters() {
	v.offset = 0
	v.prefs.SetFilters(api.Filters{})
}

// SelectCategory filters to one category slug without touching the price
// bounds, and resets to the first page.
func (v *View) SelectCategory(slug string) {
	filters := v.prefs.Filters()
	filters.CategorySlug = slug
	v.ApplyFilters(filters)
}

// SelectAllProducts clears the category filter only; price bounds stay.
func (v *View) SelectAllProducts() {
	v.SelectCategory("")
}

// SetSearch changes the search term and resets to the first page.
func (v *View) SetSearch(term string) {
	v.offset = 0
	v.search = term
}

// SetOffset moves within the current result set. It never touches
// filters or sort. Negative offsets clamp to 0.
func (v *View) SetOffset(offset int) {
	if offset < 0 {
		offset = 0
	}
	v.offset = offset
}

// NextPage advances one page.
func (v *View) NextPage() { v.SetOffset(v.offset + v.pageSize) }

// PrevPage goes back one page.
func (v *View) PrevPage() { v.SetOffset(v.offset - v.pageSize) }

// GoToPage jumps to a one-based page number.
func (v *View) GoToPage(page int) {
	if page < 1 {
		page = 1
	}
	v.SetOffset((page - 1) * v.pageSize)
}

// Query is the full parameter set the next fetch will use. The public
// catalog only ever shows available products.
func (v *View) Query() api.ProductQuery {
	available := true
	return api.ProductQuery{
		Limit:     v.pageSize,
		Offset:    v.offset,
		Search:    v.search,
		Ordering:  v.prefs.Sort(),
		Filters:   v.prefs.Filters(),
		Available: &available,
	}
}

// CacheKey is the canonical cache key for the current parameter set.
func (v *View) CacheKey() string {
	return api.ProductsKey(v.Query())
}

// Load fetches (or serves from cache) the current page and derives the
// render state.
func (v *View) Load(ctx context.Context) (*PageView, error) {
	q := v.Query()
	page, err := cache.QueryAs(ctx, v.cache, api.ProductsKey(q), func(ctx context.Context) (*models.Page[models.Product], []cache.Tag, error) {
		result, err := v.client.ListProducts(ctx, q)
		if err != nil {
			return nil, nil, err
		}
		tags := make([]cache.Tag, 0, len(result.Results)+1)
		tags = append(tags, cache.ProductList)
		for _, product := range result.Results {
			tags = append(tags, cache.ProductTag(product.ID))
		}
		return result, tags, nil
	})
	if err != nil {
		return nil, err
	}

	current := CurrentPage(v.offset, v.pageSize)
	total := TotalPages(page.Count, v.pageSize)
	return &PageView{
		Products:       page.Results,
		TotalCount:     page.Count,
		CurrentPage:    current,
		TotalPages:     total,
		PageStrip:      PageStrip(current, total),
		ShowPagination: ShowPagination(page.Count, v.pageSize),
		Empty:          page.Count == 0,
	}, nil
}

// Subscribe registers an observer for the current parameter set, so the
// view hears about background refetches after invalidation. The returned
// function removes the registration.
func (v *View) Subscribe(fn cache.Observer) func() {
	return v.cache.Subscribe(v.CacheKey(), fn)
}

// Product fetches one product (with reviews) through the cache.
func (v *View) Product(ctx context.Context, id int) (*models.Product, error) {
	return productByID(ctx, v.cache, v.client, id)
}

func productByID(ctx context.Context, cacheStore *cache.Store, client *api.Client, id int) (*models.Product, error) {
	return cache.QueryAs(ctx, cacheStore, api.ProductKey(id), func(ctx context.Context) (*models.Product, []cache.Tag, error) {
		product, err := client.GetProduct(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		return product, []cache.Tag{cache.ProductTag(id)}, nil
	})
}
