// internal/admin/admin.go
package admin

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/nexuscatalog/storefront-go/internal/api"
	"github.com/nexuscatalog/storefront-go/internal/cache"
	"github.com/nexuscatalog/storefront-go/internal/catalog"
	"github.com/nexuscatalog/storefront-go/internal/forms"
	"github.com/nexuscatalog/storefront-go/internal/models"
	"github.com/nexuscatalog/storefront-go/internal/store"
)

// View drives the authenticated admin flows: login, signup and product
// create/update. Mutations go through the cache so catalog entries
// refetch after a successful write.
type View struct {
	client  *api.Client
	cache   *cache.Store
	session *store.Session
	log     *logrus.Entry
}

// NewView wires the admin view.
func NewView(client *api.Client, cacheStore *cache.Store, session *store.Session) *View {
	return &View{
		client:  client,
		cache:   cacheStore,
		session: session,
		log:     logrus.WithField("component", "admin"),
	}
}

// LoginForm is the admin login input.
type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Login exchanges credentials for a token pair and stores it in the
// session. On failure nothing is stored and the session stays anonymous;
// an invalid-credentials response comes back as an AuthenticationError
// for the form to render inline.
func (v *View) Login(ctx context.Context, form LoginForm) error {
	if err := forms.Validate(form); err != nil {
		return err
	}
	pair, err := v.client.Login(ctx, form.Username, form.Password)
	if err != nil {
		return err
	}
	if err := v.session.SetCredentials(pair.Access, pair.Refresh, form.Username); err != nil {
		v.log.WithError(err).Warn("Failed to persist credentials")
	}
	return nil
}

// Logout clears the session.
func (v *View) Logout() {
	v.session.Logout()
}

// Signup creates an admin account and returns the generated credentials
// for display. It does not log in.
func (v *View) Signup(ctx context.Context) (*api.SignupResult, error) {
	return v.client.AdminSignup(ctx)
}

// CreateProduct validates the form, creates the product and invalidates
// every cached list so the catalog refetches.
func (v *View) CreateProduct(ctx context.Context, product models.ProductCreate) (*models.Product, error) {
	if err := forms.Validate(product); err != nil {
		return nil, err
	}
	result, err := v.cache.Mutate(ctx, []cache.Tag{cache.ProductList}, func(ctx context.Context) (interface{}, error) {
		return v.client.CreateProduct(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Product), nil
}

// UpdateProduct validates the patch, applies it and invalidates the
// product's detail entry plus every cached list.
func (v *View) UpdateProduct(ctx context.Context, id int, patch models.ProductUpdate) (*models.Product, error) {
	if err := forms.Validate(patch); err != nil {
		return nil, err
	}
	tags := []cache.Tag{cache.ProductTag(id), cache.ProductList}
	result, err := v.cache.Mutate(ctx, tags, func(ctx context.Context) (interface{}, error) {
		return v.client.UpdateProduct(ctx, id, patch)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Product), nil
}

// Categories serves the category options for the product form from the
// same cache entry the sidebar uses.
func (v *View) Categories(ctx context.Context) ([]models.Category, error) {
	return catalog.FetchCategories(ctx, v.cache, v.client)
}
