// internal/catalog/sidebar.go
package catalog

import (
	"context"
	"sort"
	"unicode"

	"github.com/nexuscatalog/storefront-go/internal/api"
	"github.com/nexuscatalog/storefront-go/internal/cache"
	"github.com/nexuscatalog/storefront-go/internal/models"
)

// CategoryGroup is one sidebar section: all categories whose title
// starts with the same letter.
type CategoryGroup struct {
	Letter     string
	Categories []models.Category
}

// Categories fetches the category collection through the cache.
func (v *View) Categories(ctx context.Context) ([]models.Category, error) {
	return FetchCategories(ctx, v.cache, v.client)
}

// FetchCategories loads the category collection through the cache. The
// admin view shares this entry so both sides see the same cached data.
func FetchCategories(ctx context.Context, cacheStore *cache.Store, client *api.Client) ([]models.Category, error) {
	return cache.QueryAs(ctx, cacheStore, api.CategoriesKey, func(ctx context.Context) ([]models.Category, []cache.Tag, error) {
		categories, err := client.ListCategories(ctx)
		if err != nil {
			return nil, nil, err
		}
		tags := make([]cache.Tag, 0, len(categories)+1)
		tags = append(tags, cache.CategoryList)
		for _, category := range categories {
			tags = append(tags, cache.CategoryTag(category.ID))
		}
		return categories, tags, nil
	})
}

// CategoryGroups fetches categories and groups them for the sidebar.
func (v *View) CategoryGroups(ctx context.Context) ([]CategoryGroup, error) {
	categories, err := v.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return GroupCategories(categories), nil
}

// GroupCategories groups categories by the uppercased first character of
// their title. Groups are ordered lexicographically by letter; within a
// group the input order is preserved. Titles that do not start with a
// letter or digit land in a "#" group.
func GroupCategories(categories []models.Category) []CategoryGroup {
	grouped := make(map[string][]models.Category)
	for _, category := range categories {
		letter := groupLetter(category.Title)
		grouped[letter] = append(grouped[letter], category)
	}

	letters := make([]string, 0, len(grouped))
	for letter := range grouped {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	groups := make([]CategoryGroup, 0, len(letters))
	for _, letter := range letters {
		groups = append(groups, CategoryGroup{Letter: letter, Categories: grouped[letter]})
	}
	return groups
}

func groupLetter(title string) string {
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return string(unicode.ToUpper(r))
		}
		break
	}
	return "#"
}
