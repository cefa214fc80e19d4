// Package remote is the read-only client for the upstream product catalog.
// The upstream supports pagination, a single-category filter, free-text
// search, and server-side sorting; every other filter dimension is applied
// locally by the caller.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/utafrali/LotusGo/internal/domain"
	apperrors "github.com/utafrali/LotusGo/pkg/errors"
)

// HTTPDoer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// PageRequest selects one page of the upstream catalog. Category wins over
// Search for endpoint selection: when Category is set the category endpoint
// is used and Search is NOT sent upstream, so the caller must re-apply the
// search filter to the returned products.
type PageRequest struct {
	Skip     int
	Limit    int
	Search   string
	Category string
	Sort     domain.Sort
}

// Page is one page of upstream products together with the upstream's total
// count for the selected endpoint.
type Page struct {
	Products []domain.Product
	Total    int
}

// Category is an upstream product category.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Client fetches products from the upstream catalog API.
type Client struct {
	baseURL string
	http    HTTPDoer
	logger  *slog.Logger
}

// NewClient creates an upstream catalog client. baseURL must not end with a
// slash.
func NewClient(baseURL string, doer HTTPDoer, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    doer,
		logger:  logger,
	}
}

// FetchPage retrieves one page of products using the most specific endpoint
// the upstream offers for the request: category, then search, then the plain
// listing.
func (c *Client) FetchPage(ctx context.Context, req PageRequest) (Page, error) {
	endpoint := c.baseURL + "/products"
	query := url.Values{}
	switch {
	case req.Category != "":
		endpoint = c.baseURL + "/products/category/" + url.PathEscape(req.Category)
	case req.Search != "":
		endpoint = c.baseURL + "/products/search"
		query.Set("q", req.Search)
	}

	query.Set("limit", strconv.Itoa(req.Limit))
	query.Set("skip", strconv.Itoa(req.Skip))
	if !req.Sort.IsZero() {
		query.Set("sortBy", req.Sort.UpstreamField())
		query.Set("order", req.Sort.Order)
	}

	var page wirePage
	if err := c.getJSON(ctx, endpoint+"?"+query.Encode(), &page); err != nil {
		return Page{}, fmt.Errorf("fetch products: %w", err)
	}

	products := make([]domain.Product, len(page.Products))
	for i, wp := range page.Products {
		products[i] = toDomain(wp)
	}

	return Page{Products: products, Total: page.Total}, nil
}

// FetchByID retrieves a single product.
func (c *Client) FetchByID(ctx context.Context, id int64) (domain.Product, error) {
	endpoint := fmt.Sprintf("%s/products/%d", c.baseURL, id)

	var wp wireProduct
	if err := c.getJSON(ctx, endpoint, &wp); err != nil {
		return domain.Product{}, fmt.Errorf("fetch product %d: %w", id, err)
	}

	return toDomain(wp), nil
}

// FetchCategories retrieves the upstream category slugs.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	var wire []wireCategory
	if err := c.getJSON(ctx, c.baseURL+"/products/categories", &wire); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	categories := make([]Category, len(wire))
	for i, wc := range wire {
		categories[i] = Category{Slug: wc.Slug, Name: wc.Name}
	}
	return categories, nil
}

// FetchAll retrieves the complete upstream catalog. It first reads the total
// from a minimal page, then requests the whole set in one call.
func (c *Client) FetchAll(ctx context.Context) ([]domain.Product, error) {
	probe, err := c.FetchPage(ctx, PageRequest{Limit: 1})
	if err != nil {
		return nil, err
	}
	if probe.Total <= len(probe.Products) {
		return probe.Products, nil
	}

	full, err := c.FetchPage(ctx, PageRequest{Limit: probe.Total})
	if err != nil {
		return nil, err
	}
	return full.Products, nil
}

// getJSON performs a GET and decodes the JSON response body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("call catalog api: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFound("resource", rawURL)
	case resp.StatusCode != http.StatusOK:
		return apperrors.Upstream(resp.StatusCode, "catalog api returned an error")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func toDomain(wp wireProduct) domain.Product {
	return domain.Product{
		ID:                 wp.ID,
		Title:              wp.Title,
		Description:        wp.Description,
		Price:              wp.Price,
		DiscountPercentage: wp.DiscountPercentage,
		Rating:             wp.Rating,
		Stock:              wp.Stock,
		Brand:              wp.Brand,
		Category:           wp.Category,
		Thumbnail:          wp.Thumbnail,
		Images:             wp.Images,
		CreatedAt:          derivedCreatedAt(wp.ID),
	}
}

// derivedCreatedAt synthesizes a stable creation timestamp for an upstream
// product, spread over the past year by product ID. The upstream carries no
// timestamps; without a stable stand-in, createdAt sorting would reshuffle
// on every fetch.
func derivedCreatedAt(id int64) time.Time {
	dayOfYear := id % 365
	if dayOfYear < 0 {
		dayOfYear = -dayOfYear
	}
	base := time.Now().UTC().Truncate(24 * time.Hour)
	return base.AddDate(0, 0, -int(dayOfYear))
}
