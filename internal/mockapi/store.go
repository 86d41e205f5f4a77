// internal/mockapi/store.go
package mockapi

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nexuscatalog/storefront-go/internal/models"
)

// Store is the in-memory dataset behind the mock API. It mirrors the
// behavior of the real backend closely enough for development and tests:
// filtering, ordering, offset pagination, review aggregation and
// bcrypt-checked admin accounts.
type Store struct {
	mu            sync.Mutex
	products      []models.Product
	categories    []models.Category
	reviews       map[int][]models.Review
	admins        map[string][]byte
	nextProductID int
	nextReviewID  int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		reviews:       make(map[int][]models.Review),
		admins:        make(map[string][]byte),
		nextProductID: 1,
		nextReviewID:  1,
	}
}

// ProductFilter is the parsed query of GET /products.
type ProductFilter struct {
	Search       string
	Ordering     string
	CategorySlug string
	MinPrice     *float64
	MaxPrice     *float64
	Available    *bool
}

// ListProducts applies filters and ordering, then slices [offset,
// offset+limit). The returned count is the filtered total.
func (s *Store) ListProducts(filter ProductFilter, limit, offset int) (results []models.Product, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if !s.matches(p, filter) {
			continue
		}
		matched = append(matched, p)
	}
	orderProducts(matched, filter.Ordering)

	count = len(matched)
	if offset >= count {
		return []models.Product{}, count
	}
	end := offset + limit
	if limit <= 0 || end > count {
		end = count
	}
	// Strip nested reviews from list results; only the detail endpoint
	// includes them.
	page := make([]models.Product, end-offset)
	copy(page, matched[offset:end])
	for i := range page {
		page[i].Reviews = nil
	}
	return page, count
}

func (s *Store) matches(p models.Product, filter ProductFilter) bool {
	if filter.Available != nil && p.IsAvailable != *filter.Available {
		return false
	}
	if filter.CategorySlug != "" {
		if slug, ok := s.slugOf(p.Category); !ok || slug != filter.CategorySlug {
			return false
		}
	}
	if filter.MinPrice != nil && float64(p.Price) < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && float64(p.Price) > *filter.MaxPrice {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) &&
			!strings.Contains(strings.ToLower(p.CategoryTitle), needle) {
			return false
		}
	}
	return true
}

func (s *Store) slugOf(categoryID int) (string, bool) {
	for _, c := range s.categories {
		if c.ID == categoryID {
			return c.Slug, true
		}
	}
	return "", false
}

func orderProducts(products []models.Product, ordering string) {
	if ordering == "" {
		ordering = "-created_at"
	}
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")

	less := func(a, b models.Product) bool { return a.CreatedAt < b.CreatedAt }
	switch field {
	case "price":
		less = func(a, b models.Product) bool { return a.Price < b.Price }
	case "name":
		less = func(a, b models.Product) bool { return a.Name < b.Name }
	case "average_rating":
		less = func(a, b models.Product) bool { return a.AverageRating < b.AverageRating }
	case "stock_quantity":
		less = func(a, b models.Product) bool { return a.StockQuantity < b.StockQuantity }
	case "created_at":
	default:
	}
	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

// GetProduct returns the product with its reviews attached.
func (s *Store) GetProduct(id int) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			reviews := s.reviews[id]
			p.Reviews = make([]models.Review, len(reviews))
			copy(p.Reviews, reviews)
			return p, true
		}
	}
	return models.Product{}, false
}

// CreateProduct inserts a product and returns the stored record.
func (s *Store) CreateProduct(input models.ProductCreate) models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC().Format(time.RFC3339)
	product := models.Product{
		ID:            s.nextProductID,
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		ImageURL:      input.ImageURL,
		IsAvailable:   input.IsAvailable,
		Category:      input.Category,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if title, ok := s.titleOf(input.Category); ok {
		product.CategoryTitle = title
	}
	s.nextProductID++
	s.products = append(s.products, product)
	return product
}

// UpdateProduct applies a partial update. It returns false when the
// product does not exist.
func (s *Store) UpdateProduct(id int, patch models.ProductUpdate) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p := &s.products[i]
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Price != nil {
			p.Price = *patch.Price
		}
		if patch.StockQuantity != nil {
			p.StockQuantity = *patch.StockQuantity
		}
		if patch.ImageURL != nil {
			p.ImageURL = *patch.ImageURL
		}
		if patch.Category != nil {
			p.Category = *patch.Category
			if title, ok := s.titleOf(*patch.Category); ok {
				p.CategoryTitle = title
			}
		}
		if patch.IsAvailable != nil {
			p.IsAvailable = *patch.IsAvailable
		}
		p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		return *p, true
	}
	return models.Product{}, false
}

func (s *Store) titleOf(categoryID int) (string, bool) {
	for _, c := range s.categories {
		if c.ID == categoryID {
			return c.Title, true
		}
	}
	return "", false
}

// Categories returns all categories in insertion order.
func (s *Store) Categories() []models.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	categories := make([]models.Category, len(s.categories))
	copy(categories, s.categories)
	return categories
}

// AddCategory inserts a category.
func (s *Store) AddCategory(category models.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, category)
}

// AddReview stores a review and recomputes the product's average rating.
// It returns false when the product does not exist.
func (s *Store) AddReview(productID int, input models.ReviewCreate) (models.Review, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *models.Product
	for i := range s.products {
		if s.products[i].ID == productID {
			target = &s.products[i]
			break
		}
	}
	if target == nil {
		return models.Review{}, false
	}

	review := models.Review{
		ID:        s.nextReviewID,
		Product:   productID,
		Name:      input.Name,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	s.nextReviewID++
	s.reviews[productID] = append([]models.Review{review}, s.reviews[productID]...)

	sum := 0
	for _, r := range s.reviews[productID] {
		sum += r.Rating
	}
	target.AverageRating = float64(sum) / float64(len(s.reviews[productID]))
	return review, true
}

// CreateAdmin stores an admin account with a bcrypt-hashed password.
func (s *Store) CreateAdmin(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[username] = hash
	return nil
}

// HasAdmin reports whether the username is taken.
func (s *Store) HasAdmin(username string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.admins[username]
	return ok
}

// Authenticate checks a username/password pair.
func (s *Store) Authenticate(username, password string) bool {
	s.mu.Lock()
	hash, ok := s.admins[username]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
