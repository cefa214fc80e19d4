package domain

import (
	"sync"
	"time"
)

// StockStatus classifies a product's availability band.
type StockStatus string

const (
	StockStatusIn  StockStatus = "in-stock"
	StockStatusLow StockStatus = "low-stock"
	StockStatusOut StockStatus = "out-of-stock"
)

// lowStockThreshold is the stock level below which a product counts as low-stock.
const lowStockThreshold = 10

// ValidStockStatuses returns the set of valid stock status values.
func ValidStockStatuses() []StockStatus {
	return []StockStatus{StockStatusIn, StockStatusLow, StockStatusOut}
}

// IsValidStockStatus checks whether s is a valid stock status.
func IsValidStockStatus(s StockStatus) bool {
	for _, v := range ValidStockStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

// Product is a catalog product. Field names follow the upstream catalog wire
// format so remote products pass through unchanged. A product is immutable
// once created; locally-owned products can only be removed or patched through
// the local store.
type Product struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Price              float64   `json:"price"`
	DiscountPercentage float64   `json:"discountPercentage"`
	Rating             float64   `json:"rating"`
	Stock              int       `json:"stock"`
	Brand              string    `json:"brand"`
	Category           string    `json:"category"`
	Thumbnail          string    `json:"thumbnail"`
	Images             []string  `json:"images"`
	CreatedAt          time.Time `json:"createdAt"`
}

// DiscountedPrice returns the price after the discount percentage is applied.
// Always <= Price, with equality iff DiscountPercentage is zero.
func (p Product) DiscountedPrice() float64 {
	if p.DiscountPercentage <= 0 {
		return p.Price
	}
	return p.Price * (1 - p.DiscountPercentage/100)
}

// StockStatus classifies the product by its stock level:
// 0 = out-of-stock, 1-9 = low-stock, >=10 = in-stock.
func (p Product) StockStatus() StockStatus {
	switch {
	case p.Stock <= 0:
		return StockStatusOut
	case p.Stock < lowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// ProductPatch holds partial updates for a locally-owned product.
// Nil fields are left unchanged.
type ProductPatch struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Brand       *string  `json:"brand,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Thumbnail   *string  `json:"thumbnail,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// Apply merges the patch into the product and returns the result.
func (patch ProductPatch) Apply(p Product) Product {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Brand != nil {
		p.Brand = *patch.Brand
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Thumbnail != nil {
		p.Thumbnail = *patch.Thumbnail
	}
	if len(patch.Images) > 0 {
		p.Images = patch.Images
	}
	return p
}

// IDGenerator issues IDs for locally-created products. IDs are derived from
// the wall clock in milliseconds and forced strictly monotonic, so they are
// always far above the small sequential IDs the remote catalog uses and never
// collide with each other even within the same millisecond.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
}

// NewIDGenerator creates a new local product ID generator.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Next returns the next local product ID.
func (g *IDGenerator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := time.Now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
