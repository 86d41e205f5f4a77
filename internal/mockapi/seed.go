// internal/mockapi/seed.go
package mockapi

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/nexuscatalog/storefront-go/internal/models"
)

var seedProductNames = []string{
	"Wireless Mechanical Keyboard", "1TB NVMe SSD", "Noise Cancelling Headphones",
	"4K Curved Monitor", "Ergonomic Office Chair", "Smart Home Hub",
	"High-Speed Blender", "Stainless Steel Water Bottle", "Portable Power Bank",
	"Digital Drawing Tablet", "Professional DSLR Camera", "Hiking Backpack 50L",
	"Organic Cotton T-Shirt", "Minimalist Leather Wallet", "Bluetooth Speaker",
}

var seedCategories = []string{"Electronics", "Home & Kitchen", "Fashion", "Outdoors"}

// Seed fills the store with development data: the fixed category set and
// count pseudo-random products. The generator is seeded deterministically
// so repeated runs produce the same catalog.
func (s *Store) Seed(count int) {
	rng := rand.New(rand.NewSource(1))

	for i, title := range seedCategories {
		s.AddCategory(models.Category{
			ID:        i + 1,
			Title:     title,
			Slug:      slugify(title),
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s #%d", seedProductNames[rng.Intn(len(seedProductNames))], i+1)
		price := 9.99 + rng.Float64()*990
		created := s.CreateProduct(models.ProductCreate{
			Name:          name,
			Description:   fmt.Sprintf("Experience the ultimate performance with the new %s. Featuring cutting-edge technology and a sleek, durable design.", name),
			Price:         models.Decimal(float64(int(price*100)) / 100),
			StockQuantity: rng.Intn(500),
			ImageURL:      fmt.Sprintf("https://placehold.co/400x300?text=%s", strings.ReplaceAll(name, " ", "+")),
			Category:      rng.Intn(len(seedCategories)) + 1,
			IsAvailable:   rng.Intn(10) > 0,
		})
		for r := rng.Intn(4); r > 0; r-- {
			s.AddReview(created.ID, models.ReviewCreate{
				Name:    fmt.Sprintf("shopper%d", rng.Intn(1000)),
				Rating:  rng.Intn(5) + 1,
				Comment: "Does what it says on the tin.",
			})
		}
	}
}

func slugify(title string) string {
	slug := strings.ToLower(title)
	slug = strings.ReplaceAll(slug, "&", "and")
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
