// internal/mockapi/handlers.go
package mockapi

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexuscatalog/storefront-go/internal/api"
	"github.com/nexuscatalog/storefront-go/internal/forms"
	"github.com/nexuscatalog/storefront-go/internal/models"
)

// Handler bundles the endpoint implementations over the in-memory store.
type Handler struct {
	store  *Store
	issuer *TokenIssuer
}

// NewHandler wires a handler.
func NewHandler(store *Store, issuer *TokenIssuer) *Handler {
	return &Handler{store: store, issuer: issuer}
}

const defaultPageSize = 20

func (h *Handler) ListProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	filter := ProductFilter{
		Search:       c.Query("search"),
		Ordering:     c.Query("ordering"),
		CategorySlug: c.Query("category_slug"),
	}
	if v := c.Query("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}
	if v := c.Query("is_available"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.Available = &b
		}
	}

	results, count := h.store.ListProducts(filter, limit, offset)
	c.JSON(http.StatusOK, models.Page[models.Product]{
		Count:    count,
		Next:     pageLink(c, limit, offset+limit, count),
		Previous: pageLink(c, limit, offset-limit, count),
		Results:  results,
	})
}

func pageLink(c *gin.Context, limit, offset, count int) *string {
	if offset < 0 || offset >= count {
		return nil
	}
	link := fmt.Sprintf("%s?limit=%d&offset=%d", c.Request.URL.Path, limit, offset)
	return &link
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	product, ok := h.store.GetProduct(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var input models.ProductCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}
	if err := forms.Validate(input); err != nil {
		writeValidationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.store.CreateProduct(input))
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	var patch models.ProductUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}
	if err := forms.Validate(patch); err != nil {
		writeValidationError(c, err)
		return
	}
	product, ok := h.store.UpdateProduct(id, patch)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) ListCategories(c *gin.Context) {
	categories := h.store.Categories()
	c.JSON(http.StatusOK, models.Page[models.Category]{
		Count:   len(categories),
		Results: categories,
	})
}

func (h *Handler) CreateReview(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	var input models.ReviewCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}
	if err := forms.Validate(input); err != nil {
		writeValidationError(c, err)
		return
	}
	review, ok := h.store.AddReview(id, input)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.JSON(http.StatusCreated, review)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return
	}
	if !h.store.Authenticate(req.Username, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "No active account found with the given credentials"})
		return
	}
	access, refresh, err := h.issuer.IssuePair(req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to issue tokens."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh})
}

func (h *Handler) AdminSignup(c *gin.Context) {
	username := "admin_" + uuid.NewString()[:8]
	for h.store.HasAdmin(username) {
		username = "admin_" + uuid.NewString()[:8]
	}
	password, err := randomString(16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to generate credentials."})
		return
	}
	if err := h.store.CreateAdmin(username, password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create account."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"username": username,
		"password": password,
		"message":  "Admin account created. Use these credentials to sign in at /auth/login/.",
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "version": "1.0.0"})
}

func writeValidationError(c *gin.Context, err error) {
	// forms.Validate produces the field map shape the client parses;
	// anything else becomes a bare detail message.
	var ve *api.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, ve.Fields)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}

func randomString(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		b[i] = charset[n.Int64()]
	}
	return string(b), nil
}
