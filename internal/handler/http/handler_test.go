package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/LotusGo/internal/cart"
	"github.com/utafrali/LotusGo/internal/catalog"
	"github.com/utafrali/LotusGo/internal/domain"
	"github.com/utafrali/LotusGo/internal/event"
	"github.com/utafrali/LotusGo/internal/localstore"
	"github.com/utafrali/LotusGo/internal/remote"
	"github.com/utafrali/LotusGo/internal/repository/memory"
	"github.com/utafrali/LotusGo/internal/wishlist"
	apperrors "github.com/utafrali/LotusGo/pkg/errors"
	"github.com/utafrali/LotusGo/pkg/health"
	pkgkafka "github.com/utafrali/LotusGo/pkg/kafka"
)

// ============================================================================
// Stub upstream catalog
// ============================================================================

type stubRemote struct {
	products []domain.Product
	total    int
}

func (s *stubRemote) FetchPage(_ context.Context, req remote.PageRequest) (remote.Page, error) {
	start := req.Skip
	if start > len(s.products) {
		start = len(s.products)
	}
	end := start + req.Limit
	if end > len(s.products) {
		end = len(s.products)
	}
	return remote.Page{Products: s.products[start:end], Total: s.total}, nil
}

func (s *stubRemote) FetchByID(_ context.Context, id int64) (domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, apperrors.NotFound("product", "unknown")
}

func (s *stubRemote) FetchCategories(context.Context) ([]remote.Category, error) {
	return []remote.Category{{Slug: "lighting", Name: "Lighting"}}, nil
}

func (s *stubRemote) FetchAll(context.Context) ([]domain.Product, error) {
	return s.products, nil
}

// ============================================================================
// Test helpers
// ============================================================================

type testEnv struct {
	router http.Handler
	local  *localstore.Store
}

func newTestEnv(t *testing.T, upstream *stubRemote) testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kv := memory.NewKV()
	local := localstore.New(kv, logger)

	// No broker is running; publish failures are logged and swallowed.
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:19092"}), logger)
	producer := event.NewProducer(kafkaProducer, logger)

	catalogSvc := catalog.NewService(local, upstream, producer, logger, 0)
	cartStore := cart.NewStore(kv, producer, logger)
	wishlistStore := wishlist.NewStore(kv, producer, logger)

	router := NewRouter(catalogSvc, cartStore, wishlistStore, health.NewHandler(), logger)
	return testEnv{router: router, local: local}
}

func defaultUpstream() *stubRemote {
	products := make([]domain.Product, 30)
	for i := range products {
		products[i] = domain.Product{ID: int64(i + 1), Title: "Remote", Price: 10, Stock: 50, Brand: "Lux", Category: "lighting"}
	}
	return &stubRemote{products: products, total: 194}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

var userHeader = map[string]string{"X-User-ID": "user-1"}

// ============================================================================
// Product endpoints
// ============================================================================

func TestListProducts_ReturnsPagedEnvelope(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/products?limit=10", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Data          []domain.Product `json:"data"`
		Total         int              `json:"total"`
		FilteredTotal int              `json:"filtered_total"`
		Page          int              `json:"page"`
		PerPage       int              `json:"per_page"`
		HasNext       bool             `json:"has_next"`
	}
	decodeData(t, rec, &page)

	assert.Len(t, page.Data, 10)
	assert.Equal(t, 194, page.Total)
	assert.Equal(t, 194, page.FilteredTotal)
	assert.Equal(t, 1, page.Page)
	assert.True(t, page.HasNext)
}

func TestListProducts_LocalProductsLeadFirstPage(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())
	ctx := context.Background()

	env.local.Save(ctx, domain.Product{ID: 5001, Title: "Local Shelf", Stock: 3, Brand: "Atelier"})

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/products?limit=10", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Data  []domain.Product `json:"data"`
		Total int              `json:"total"`
	}
	decodeData(t, rec, &page)

	require.Len(t, page.Data, 10)
	assert.Equal(t, "Local Shelf", page.Data[0].Title)
	assert.Equal(t, 195, page.Total)
}

func TestListProducts_BadParams(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	for _, path := range []string{
		"/api/v1/products?page=0",
		"/api/v1/products?limit=500",
		"/api/v1/products?price_min=abc",
		"/api/v1/products?price_min=50&price_max=10",
		"/api/v1/products?status=gone",
		"/api/v1/products?sort=price-up",
	} {
		rec := doJSON(t, env.router, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "expected 400 for %s", path)
	}
}

func TestGetProduct_RemoteAndNotFound(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/products/3", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var p domain.Product
	decodeData(t, rec, &p)
	assert.Equal(t, int64(3), p.ID)

	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/products/99999", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/products/abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProduct_Success(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/products", map[string]any{
		"title":    "Walnut Shelf",
		"price":    129.5,
		"stock":    8,
		"brand":    "Atelier",
		"category": "storage",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var p domain.Product
	decodeData(t, rec, &p)
	assert.Greater(t, p.ID, int64(0))
	assert.Equal(t, "Walnut Shelf", p.Title)

	stored, ok := env.local.Get(context.Background(), p.ID)
	require.True(t, ok)
	assert.Equal(t, "Walnut Shelf", stored.Title)
}

func TestCreateProduct_ValidationFails(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/products", map[string]any{
		"title": "No Price",
		"brand": "Atelier",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAndDeleteProduct_LocalOnly(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())
	ctx := context.Background()

	env.local.Save(ctx, domain.Product{ID: 5001, Title: "Lamp", Price: 20, Stock: 4})

	rec := doJSON(t, env.router, http.MethodPatch, "/api/v1/products/5001", map[string]any{
		"price": 25.0,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var p domain.Product
	decodeData(t, rec, &p)
	assert.Equal(t, 25.0, p.Price)

	// remote products are not writable
	rec = doJSON(t, env.router, http.MethodPatch, "/api/v1/products/3", map[string]any{"price": 1.0}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, env.router, http.MethodDelete, "/api/v1/products/5001", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, ok := env.local.Get(ctx, 5001)
	assert.False(t, ok)
}

func TestListCategoriesAndBrands(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/categories", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var categories []string
	decodeData(t, rec, &categories)
	assert.Equal(t, []string{"lighting"}, categories)

	rec = doJSON(t, env.router, http.MethodGet, "/api/v1/brands", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var brands []string
	decodeData(t, rec, &brands)
	assert.Equal(t, []string{"Lux"}, brands)
}

// ============================================================================
// Cart endpoints
// ============================================================================

func TestCart_RequiresUserHeader(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/cart", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCart_AddUpdateRemoveFlow(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product_id": 3,
		"quantity":   2,
	}, userHeader)
	require.Equal(t, http.StatusOK, rec.Code)

	var state domain.CartState
	decodeData(t, rec, &state)
	require.Len(t, state.Items, 1)
	assert.Equal(t, 2, state.ItemCount)
	assert.Equal(t, 20.0, state.Subtotal)

	rec = doJSON(t, env.router, http.MethodPut, "/api/v1/cart/items/3", map[string]any{
		"quantity": 5,
	}, userHeader)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &state)
	assert.Equal(t, 5, state.Items[0].Quantity)

	rec = doJSON(t, env.router, http.MethodDelete, "/api/v1/cart/items/3", nil, userHeader)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &state)
	assert.Empty(t, state.Items)
}

func TestCart_AddUnknownProduct(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product_id": 99999,
	}, userHeader)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCart_AddOutOfStockRejected(t *testing.T) {
	upstream := defaultUpstream()
	upstream.products[0].Stock = 0
	env := newTestEnv(t, upstream)

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"product_id": 1,
	}, userHeader)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCart_VisibilityEndpoints(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/cart/toggle", nil, userHeader)
	require.Equal(t, http.StatusOK, rec.Code)
	var state domain.CartState
	decodeData(t, rec, &state)
	assert.True(t, state.IsOpen)

	rec = doJSON(t, env.router, http.MethodPost, "/api/v1/cart/close", nil, userHeader)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &state)
	assert.False(t, state.IsOpen)

	rec = doJSON(t, env.router, http.MethodPost, "/api/v1/cart/open", nil, userHeader)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &state)
	assert.True(t, state.IsOpen)
}

func TestCart_Clear(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	doJSON(t, env.router, http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": 2}, userHeader)

	rec := doJSON(t, env.router, http.MethodDelete, "/api/v1/cart", nil, userHeader)
	require.Equal(t, http.StatusOK, rec.Code)

	var state domain.CartState
	decodeData(t, rec, &state)
	assert.Empty(t, state.Items)
}

// ============================================================================
// Wishlist endpoints
// ============================================================================

func TestWishlist_ToggleFlow(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	rec := doJSON(t, env.router, http.MethodPost, "/api/v1/wishlist/items/4/toggle", nil, userHeader)
	require.Equal(t, http.StatusOK, rec.Code)

	var state domain.WishlistState
	decodeData(t, rec, &state)
	assert.True(t, state.Contains(4))

	rec = doJSON(t, env.router, http.MethodPost, "/api/v1/wishlist/items/4/toggle", nil, userHeader)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &state)
	assert.False(t, state.Contains(4))
}

func TestWishlist_AddRemoveClear(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	rec := doJSON(t, env.router, http.MethodPut, "/api/v1/wishlist/items/7", nil, userHeader)
	require.Equal(t, http.StatusOK, rec.Code)
	var state domain.WishlistState
	decodeData(t, rec, &state)
	assert.Equal(t, 1, state.ItemCount)

	rec = doJSON(t, env.router, http.MethodDelete, "/api/v1/wishlist/items/7", nil, userHeader)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &state)
	assert.Equal(t, 0, state.ItemCount)

	doJSON(t, env.router, http.MethodPut, "/api/v1/wishlist/items/8", nil, userHeader)
	rec = doJSON(t, env.router, http.MethodDelete, "/api/v1/wishlist", nil, userHeader)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &state)
	assert.Empty(t, state.Items)
}

func TestWishlist_RequiresUserHeader(t *testing.T) {
	env := newTestEnv(t, defaultUpstream())

	rec := doJSON(t, env.router, http.MethodGet, "/api/v1/wishlist", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
