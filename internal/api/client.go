// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/nexuscatalog/storefront-go/internal/models"
)

// TokenProvider supplies the current access token, or "" when the
// session is anonymous.
type TokenProvider interface {
	AccessToken() string
}

// Client issues REST calls against the storefront API. It normalizes the
// base URL, attaches the bearer credential when one is present and maps
// failures onto the error taxonomy in errors.go.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	limiter *rate.Limiter
	log     *logrus.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenProvider wires the session's access token into every request.
func WithTokenProvider(tp TokenProvider) Option {
	return func(c *Client) { c.tokens = tp }
}

// WithRateLimit caps outgoing requests. rps <= 0 disables the limiter.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithLogger replaces the default logrus entry.
func WithLogger(entry *logrus.Entry) Option {
	return func(c *Client) { c.log = entry }
}

// New creates a Client for the given base URL. A trailing slash on the
// base URL is tolerated and trimmed.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		log:     logrus.WithField("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TokenPair is the response of POST /auth/login/.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// SignupResult is the response of POST /auth/admin/signup/.
type SignupResult struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Message  string `json:"message,omitempty"`
}

// ListProducts fetches a catalog page.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*models.Page[models.Product], error) {
	var page models.Page[models.Product]
	if err := c.do(ctx, http.MethodGet, "/products", q.Values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct fetches one product including its reviews.
func (c *Client) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListCategories fetches all categories. The endpoint may answer with a
// bare array or the paginated envelope; both are accepted.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var categories []models.Category
		if err := json.Unmarshal(trimmed, &categories); err != nil {
			return nil, err
		}
		return categories, nil
	}
	var page models.Page[models.Category]
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// SubmitReview posts a review for a product.
func (c *Client) SubmitReview(ctx context.Context, productID int, review models.ReviewCreate) (*models.Review, error) {
	var created models.Review
	path := fmt.Sprintf("/products/%d/reviews/", productID)
	if err := c.do(ctx, http.MethodPost, path, nil, review, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	body := map[string]string{"username": username, "password": password}
	var pair TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/login/", nil, body, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

// AdminSignup creates an admin account with generated credentials.
func (c *Client) AdminSignup(ctx context.Context) (*SignupResult, error) {
	var result SignupResult
	if err := c.do(ctx, http.MethodPost, "/auth/admin/signup/", nil, struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateProduct creates a product. Requires an authenticated session.
func (c *Client) CreateProduct(ctx context.Context, product models.ProductCreate) (*models.Product, error) {
	var created models.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct partially updates a product. Requires an authenticated
// session.
func (c *Client) UpdateProduct(ctx context.Context, id int, patch models.ProductUpdate) (*models.Product, error) {
	var updated models.Product
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/products/%d", id), nil, patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &NetworkError{URL: fullURL, Err: err}
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"method": method,
			"url":    fullURL,
		}).WithError(err).Warn("Request failed")
		return &NetworkError{URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{URL: fullURL, Err: err}
	}

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"url":      fullURL,
		"status":   resp.StatusCode,
		"duration": time.Since(start).Milliseconds(),
	}).Debug("Request processed")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(respBody) == 0 {
			return nil
		}
		return json.Unmarshal(respBody, out)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthenticationError{Status: resp.StatusCode, Message: errorDetail(respBody)}
	case http.StatusBadRequest:
		if fields := fieldErrors(respBody); len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
	}
	return &HTTPError{Status: resp.StatusCode, Body: string(respBody)}
}

// errorDetail pulls the "detail" or "error" message out of an error body.
func errorDetail(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"detail", "error", "message"} {
		if msg, ok := payload[key].(string); ok {
			return msg
		}
	}
	return ""
}

// fieldErrors parses the DRF-style {"field": ["msg", ...]} error shape.
func fieldErrors(body []byte) map[string][]string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	fields := make(map[string][]string)
	for name, value := range payload {
		switch v := value.(type) {
		case string:
			fields[name] = []string{v}
		case []interface{}:
			for _, item := range v {
				if msg, ok := item.(string); ok {
					fields[name] = append(fields[name], msg)
				}
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
