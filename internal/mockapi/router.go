// internal/mockapi/router.go
package mockapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nexuscatalog/storefront-go/internal/config"
)

// Server is the in-memory storefront API used for development and as a
// test fixture. It implements the same REST contract the production
// backend exposes.
type Server struct {
	engine *gin.Engine
	store  *Store
	issuer *TokenIssuer
}

// New builds a server around an existing store, so tests can seed
// whatever they need.
func New(cfg config.MockAPIConfig, store *Store) *Server {
	issuer := NewTokenIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	handler := NewHandler(store, issuer)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(NewRateLimiter(rate.Every(time.Second/100), 200).Middleware())

	r.GET("/health", handler.Health)

	api := r.Group("/api")
	{
		api.GET("/products", handler.ListProducts)
		api.GET("/products/:id", handler.GetProduct)
		api.GET("/categories", handler.ListCategories)
		api.POST("/products/:id/reviews/", handler.CreateReview)

		auth := api.Group("/auth")
		auth.Use(NewRateLimiter(rate.Every(time.Second), 20).Middleware())
		{
			auth.POST("/login/", handler.Login)
			auth.POST("/admin/signup/", handler.AdminSignup)
		}

		protected := api.Group("")
		protected.Use(AuthRequired(issuer))
		{
			protected.POST("/products", handler.CreateProduct)
			protected.PATCH("/products/:id", handler.UpdateProduct)
		}
	}

	return &Server{engine: r, store: store, issuer: issuer}
}

// Handler exposes the router for httptest servers.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Store exposes the backing store, mainly for tests.
func (s *Server) Store() *Store {
	return s.store
}
