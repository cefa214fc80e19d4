package remote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/LotusGo/internal/domain"
	apperrors "github.com/utafrali/LotusGo/pkg/errors"
	"github.com/utafrali/LotusGo/pkg/httpclient"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(srv.URL, httpclient.New(httpclient.DefaultConfig()), logger)
}

// ----------------------------------------------------------------------------
// FetchPage
// ----------------------------------------------------------------------------

func TestFetchPage_GeneralEndpoint(t *testing.T) {
	var gotPath, gotQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"id":1,"title":"Lamp","price":25.5,"stock":4}],"total":194,"skip":10,"limit":5}`))
	}))

	page, err := client.FetchPage(context.Background(), PageRequest{Skip: 10, Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, "/products", gotPath)
	assert.Contains(t, gotQuery, "limit=5")
	assert.Contains(t, gotQuery, "skip=10")
	assert.Equal(t, 194, page.Total)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Lamp", page.Products[0].Title)
	assert.False(t, page.Products[0].CreatedAt.IsZero())
}

func TestFetchPage_CategoryEndpointWinsOverSearch(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"products":[],"total":0}`))
	}))

	_, err := client.FetchPage(context.Background(), PageRequest{
		Limit:    20,
		Search:   "lamp",
		Category: "lighting",
	})
	require.NoError(t, err)

	assert.Equal(t, "/products/category/lighting", gotPath)
	assert.NotContains(t, gotQuery, "q")
}

func TestFetchPage_SearchEndpoint(t *testing.T) {
	var gotPath, gotQ string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQ = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"products":[],"total":0}`))
	}))

	_, err := client.FetchPage(context.Background(), PageRequest{Limit: 20, Search: "oak table"})
	require.NoError(t, err)

	assert.Equal(t, "/products/search", gotPath)
	assert.Equal(t, "oak table", gotQ)
}

func TestFetchPage_SortMapping(t *testing.T) {
	var gotSortBy, gotOrder string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSortBy = r.URL.Query().Get("sortBy")
		gotOrder = r.URL.Query().Get("order")
		_, _ = w.Write([]byte(`{"products":[],"total":0}`))
	}))

	_, err := client.FetchPage(context.Background(), PageRequest{
		Limit: 20,
		Sort:  domain.Sort{Field: domain.SortFieldCreatedAt, Order: domain.SortOrderDesc},
	})
	require.NoError(t, err)

	assert.Equal(t, "id", gotSortBy)
	assert.Equal(t, "desc", gotOrder)
}

func TestFetchPage_UpstreamError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.FetchPage(context.Background(), PageRequest{Limit: 20})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
}

// ----------------------------------------------------------------------------
// FetchByID
// ----------------------------------------------------------------------------

func TestFetchByID_Success(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":42,"title":"Sofa","price":899.99,"stock":12,"brand":"Nordic"}`))
	}))

	p, err := client.FetchByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.ID)
	assert.Equal(t, "Sofa", p.Title)
	assert.Equal(t, "Nordic", p.Brand)
}

func TestFetchByID_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FetchByID(context.Background(), 9999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

// ----------------------------------------------------------------------------
// FetchCategories / FetchAll
// ----------------------------------------------------------------------------

func TestFetchCategories(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/categories", r.URL.Path)
		_, _ = w.Write([]byte(`[{"slug":"lighting","name":"Lighting","url":"https://x/products/category/lighting"},{"slug":"sofas","name":"Sofas"}]`))
	}))

	cats, err := client.FetchCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, Category{Slug: "lighting", Name: "Lighting"}, cats[0])
}

func TestFetchAll_UsesProbedTotal(t *testing.T) {
	var limits []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := r.URL.Query().Get("limit")
		limits = append(limits, limit)
		if limit == "1" {
			_, _ = w.Write([]byte(`{"products":[{"id":1}],"total":3}`))
			return
		}
		_, _ = w.Write([]byte(`{"products":[{"id":1},{"id":2},{"id":3}],"total":3}`))
	}))

	products, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, limits)
	assert.Len(t, products, 3)
}

// ----------------------------------------------------------------------------
// derivedCreatedAt
// ----------------------------------------------------------------------------

func TestDerivedCreatedAt_StableAndWithinPastYear(t *testing.T) {
	first := derivedCreatedAt(17)
	second := derivedCreatedAt(17)
	assert.Equal(t, first, second)

	other := derivedCreatedAt(18)
	assert.NotEqual(t, first, other)
}
