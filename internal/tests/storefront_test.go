// internal/tests/storefront_test.go
package tests

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/nexuscatalog/storefront-go/internal/admin"
	"github.com/nexuscatalog/storefront-go/internal/api"
	"github.com/nexuscatalog/storefront-go/internal/cache"
	"github.com/nexuscatalog/storefront-go/internal/catalog"
	"github.com/nexuscatalog/storefront-go/internal/config"
	"github.com/nexuscatalog/storefront-go/internal/mockapi"
	"github.com/nexuscatalog/storefront-go/internal/models"
	"github.com/nexuscatalog/storefront-go/internal/store"
)

// StorefrontTestSuite exercises the whole client stack end to end: the
// REST client, the tag-invalidated cache, the session and the catalog
// and admin views, all against the in-memory API server.
type StorefrontTestSuite struct {
	suite.Suite
	backend *httptest.Server
	data    *mockapi.Store
	session *store.Session
	cache   *cache.Store
	client  *api.Client
	catalog *catalog.View
	admin   *admin.View
}

func (s *StorefrontTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.data = mockapi.NewStore()
	s.data.AddCategory(models.Category{ID: 1, Title: "Books", Slug: "books"})
	s.data.AddCategory(models.Category{ID: 2, Title: "Outdoors", Slug: "outdoors"})
	s.data.CreateProduct(models.ProductCreate{Name: "Atlas", Description: "maps", Price: 30, Category: 1, IsAvailable: true})
	s.data.CreateProduct(models.ProductCreate{Name: "Tent", Description: "shelter", Price: 120, Category: 2, IsAvailable: true})

	server := mockapi.New(config.MockAPIConfig{JWTSecret: "test-secret", AccessTTL: 1, RefreshTTL: 1}, s.data)
	s.backend = httptest.NewServer(server.Handler())

	s.session = store.NewSession(s.T().TempDir())
	s.client = api.New(s.backend.URL+"/api", api.WithTokenProvider(s.session))
	s.cache = cache.New(cache.WithAuthErrorHook(func(error) { s.session.Logout() }))
	s.catalog = catalog.NewView(s.client, s.cache, store.NewPrefs(), 20)
	s.admin = admin.NewView(s.client, s.cache, s.session)
}

func (s *StorefrontTestSuite) TearDownTest() {
	s.cache.Close()
	s.backend.Close()
}

func (s *StorefrontTestSuite) signupAndLogin() {
	result, err := s.admin.Signup(context.Background())
	require.NoError(s.T(), err)
	err = s.admin.Login(context.Background(), admin.LoginForm{Username: result.Username, Password: result.Password})
	require.NoError(s.T(), err)
}

func (s *StorefrontTestSuite) TestCatalogFirstPage() {
	page, err := s.catalog.Load(context.Background())
	require.NoError(s.T(), err)

	assert.Equal(s.T(), 2, page.TotalCount)
	assert.Equal(s.T(), 1, page.CurrentPage)
	assert.False(s.T(), page.ShowPagination)
	assert.False(s.T(), page.Empty)
}

func (s *StorefrontTestSuite) TestCategoryFilterNarrowsResults() {
	s.catalog.SelectCategory("outdoors")

	page, err := s.catalog.Load(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), page.Products, 1)
	assert.Equal(s.T(), "Tent", page.Products[0].Name)
}

func (s *StorefrontTestSuite) TestEmptyStateAndClearFilters() {
	s.catalog.SetSearch("no such product")
	page, err := s.catalog.Load(context.Background())
	require.NoError(s.T(), err)
	assert.True(s.T(), page.Empty)

	s.catalog.SetSearch("")
	s.catalog.ClearFilters()
	page, err = s.catalog.Load(context.Background())
	require.NoError(s.T(), err)
	assert.False(s.T(), page.Empty)
}

func (s *StorefrontTestSuite) TestLoginFailureLeavesSessionAnonymous() {
	err := s.admin.Login(context.Background(), admin.LoginForm{Username: "ghost", Password: "nope"})

	require.True(s.T(), api.IsAuthentication(err))
	assert.False(s.T(), s.session.Authenticated())
	assert.Empty(s.T(), s.session.AccessToken())
}

func (s *StorefrontTestSuite) TestSignupThenLogin() {
	s.signupAndLogin()

	assert.True(s.T(), s.session.Authenticated())
	assert.NotEmpty(s.T(), s.session.AccessToken())

	s.admin.Logout()
	assert.False(s.T(), s.session.Authenticated())
}

func (s *StorefrontTestSuite) TestCreateProductRefreshesCatalog() {
	page, err := s.catalog.Load(context.Background())
	require.NoError(s.T(), err)
	require.Equal(s.T(), 2, page.TotalCount)

	refetched := make(chan struct{}, 1)
	unsubscribe := s.catalog.Subscribe(func(value interface{}, err error) {
		refetched <- struct{}{}
	})
	defer unsubscribe()

	s.signupAndLogin()
	_, err = s.admin.CreateProduct(context.Background(), models.ProductCreate{
		Name: "Lamp", Description: "light", Price: 10, Category: 1, IsAvailable: true,
	})
	require.NoError(s.T(), err)

	select {
	case <-refetched:
	case <-time.After(2 * time.Second):
		s.T().Fatal("subscribed catalog page was not refetched after the mutation")
	}

	page, err = s.catalog.Load(context.Background())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 3, page.TotalCount)
}

func (s *StorefrontTestSuite) TestUpdateProductInvalidatesDetail() {
	product, err := s.catalog.Product(context.Background(), 1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), models.Decimal(30), product.Price)

	s.signupAndLogin()
	price := models.Decimal(25)
	_, err = s.admin.UpdateProduct(context.Background(), 1, models.ProductUpdate{Price: &price})
	require.NoError(s.T(), err)

	assert.True(s.T(), s.cache.Stale(api.ProductKey(1)))

	product, err = s.catalog.Product(context.Background(), 1)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), models.Decimal(25), product.Price)
}

func (s *StorefrontTestSuite) TestCreateProductRequiresLogin() {
	_, err := s.admin.CreateProduct(context.Background(), models.ProductCreate{
		Name: "Lamp", Description: "light", Price: 10, Category: 1, IsAvailable: true,
	})

	assert.True(s.T(), api.IsAuthentication(err))

	page, err := s.catalog.Load(context.Background())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, page.TotalCount, "a failed mutation must not invalidate anything")
}

func (s *StorefrontTestSuite) TestInvalidFormNeverReachesBackend() {
	s.signupAndLogin()
	_, err := s.admin.CreateProduct(context.Background(), models.ProductCreate{Name: "", Price: 0})

	require.True(s.T(), api.IsValidation(err))

	var ve *api.ValidationError
	require.ErrorAs(s.T(), err, &ve)
	assert.Contains(s.T(), ve.Fields, "name")
}

func (s *StorefrontTestSuite) TestSubmitReviewUpdatesRating() {
	product, err := s.catalog.Product(context.Background(), 1)
	require.NoError(s.T(), err)
	require.Zero(s.T(), product.AverageRating)

	_, err = s.catalog.SubmitReview(context.Background(), 1, models.ReviewCreate{
		Name: "Dana", Rating: 4, Comment: "solid",
	})
	require.NoError(s.T(), err)

	product, err = s.catalog.Product(context.Background(), 1)
	require.NoError(s.T(), err)
	assert.InDelta(s.T(), 4.0, product.AverageRating, 1e-9)
	require.Len(s.T(), product.Reviews, 1)
}

func (s *StorefrontTestSuite) TestExpiredTokenClearsSession() {
	s.signupAndLogin()
	require.True(s.T(), s.session.Authenticated())

	// Corrupt the stored token so the next authenticated call fails.
	require.NoError(s.T(), s.session.SetCredentials("garbage", "garbage", s.session.Username()))

	_, err := s.admin.CreateProduct(context.Background(), models.ProductCreate{
		Name: "Lamp", Description: "light", Price: 10, Category: 1, IsAvailable: true,
	})

	require.True(s.T(), api.IsAuthentication(err))
	assert.False(s.T(), s.session.Authenticated(), "an authentication failure logs the session out")
}

func (s *StorefrontTestSuite) TestSidebarGroupsFromBackend() {
	groups, err := s.catalog.CategoryGroups(context.Background())
	require.NoError(s.T(), err)
	require.Len(s.T(), groups, 2)
	assert.Equal(s.T(), "B", groups[0].Letter)
	assert.Equal(s.T(), "O", groups[1].Letter)
}

func TestStorefrontTestSuite(t *testing.T) {
	suite.Run(t, new(StorefrontTestSuite))
}
