package integration

import (
	"net/http"
	"testing"
)

const catalogPort = 8004

// TestHealthEndpoints verifies liveness and readiness probes respond.
func TestHealthEndpoints(t *testing.T) {
	skipIfNotRunning(t, catalogPort)

	status, _ := doRequest(t, http.MethodGet, baseURL(catalogPort)+"/health/live", nil, nil)
	requireStatus(t, status, 200)
}

// TestListProducts verifies the merged catalog page is served with
// pagination metadata.
func TestListProducts(t *testing.T) {
	skipIfNotRunning(t, catalogPort)

	status, body := doRequest(t, http.MethodGet, baseURL(catalogPort)+"/api/v1/products?limit=12", nil, nil)
	requireStatus(t, status, 200)

	page, ok := extractField(body, "data").(map[string]interface{})
	if !ok {
		t.Fatal("expected paged data in products response")
	}
	items, ok := page["data"].([]interface{})
	if !ok || len(items) == 0 {
		t.Fatal("expected a non-empty product page")
	}
	if page["total"] == nil || page["filtered_total"] == nil {
		t.Fatal("expected total and filtered_total in page metadata")
	}
	t.Logf("page 1: %d products, total %v", len(items), page["total"])
}

// TestSearchAndFilter verifies client-side filters narrow the result set.
func TestSearchAndFilter(t *testing.T) {
	skipIfNotRunning(t, catalogPort)

	status, body := doRequest(t, http.MethodGet,
		baseURL(catalogPort)+"/api/v1/products?status=in-stock&sort=price-asc&limit=12", nil, nil)
	requireStatus(t, status, 200)

	page, ok := extractField(body, "data").(map[string]interface{})
	if !ok {
		t.Fatal("expected paged data in products response")
	}
	t.Logf("filtered page: total %v, filtered_total %v", page["total"], page["filtered_total"])
}

// TestCreateAndFetchProduct verifies a merchant product round-trips through
// the local store and is retrievable by ID.
func TestCreateAndFetchProduct(t *testing.T) {
	skipIfNotRunning(t, catalogPort)

	createBody := map[string]interface{}{
		"title":    "Integration Test Lamp",
		"price":    49.99,
		"stock":    5,
		"brand":    "Testcraft",
		"category": "lighting",
	}

	status, body := doRequest(t, http.MethodPost, baseURL(catalogPort)+"/api/v1/products", createBody, nil)
	requireStatus(t, status, 201)

	product, ok := extractField(body, "data").(map[string]interface{})
	if !ok {
		t.Fatal("expected product data in create response")
	}
	id, ok := product["id"].(float64)
	if !ok || id <= 0 {
		t.Fatalf("expected a positive product id, got %v", product["id"])
	}

	getStatus, getBody := doRequest(t, http.MethodGet,
		baseURL(catalogPort)+"/api/v1/products/"+jsonNumber(id), nil, nil)
	requireStatus(t, getStatus, 200)

	fetched, _ := extractField(getBody, "data").(map[string]interface{})
	if fetched == nil || fetched["title"] != "Integration Test Lamp" {
		t.Fatalf("expected created product back, got %v", fetched)
	}

	// Clean up so repeated runs do not accumulate products.
	delStatus, _ := doRequest(t, http.MethodDelete,
		baseURL(catalogPort)+"/api/v1/products/"+jsonNumber(id), nil, nil)
	requireStatus(t, delStatus, 200)
}

// TestCartFlow verifies the add/update/remove cart cycle for a user.
func TestCartFlow(t *testing.T) {
	skipIfNotRunning(t, catalogPort)

	userID := uniqueUserID("cart")
	headers := map[string]string{"X-User-ID": userID}

	addBody := map[string]interface{}{
		"product_id": 1,
		"quantity":   2,
	}
	status, body := doRequest(t, http.MethodPost, baseURL(catalogPort)+"/api/v1/cart/items", addBody, headers)
	requireStatus(t, status, 200)

	state, ok := extractField(body, "data").(map[string]interface{})
	if !ok {
		t.Fatal("expected cart state in add response")
	}
	if state["itemCount"] == nil {
		t.Fatal("expected itemCount in cart state")
	}

	status, body = doRequest(t, http.MethodGet, baseURL(catalogPort)+"/api/v1/cart", nil, headers)
	requireStatus(t, status, 200)
	state, _ = extractField(body, "data").(map[string]interface{})
	items, _ := state["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("expected 1 cart item, got %d", len(items))
	}

	status, _ = doRequest(t, http.MethodDelete, baseURL(catalogPort)+"/api/v1/cart", nil, headers)
	requireStatus(t, status, 200)
}

// TestCartRequiresUser verifies the user header is enforced.
func TestCartRequiresUser(t *testing.T) {
	skipIfNotRunning(t, catalogPort)

	status, _ := doRequest(t, http.MethodGet, baseURL(catalogPort)+"/api/v1/cart", nil, nil)
	requireStatus(t, status, 401)
}

// TestWishlistToggle verifies the wishlist toggle cycle for a user.
func TestWishlistToggle(t *testing.T) {
	skipIfNotRunning(t, catalogPort)

	userID := uniqueUserID("wishlist")
	headers := map[string]string{"X-User-ID": userID}
	url := baseURL(catalogPort) + "/api/v1/wishlist/items/2/toggle"

	status, body := doRequest(t, http.MethodPost, url, nil, headers)
	requireStatus(t, status, 200)
	state, _ := extractField(body, "data").(map[string]interface{})
	if count, _ := state["itemCount"].(float64); count != 1 {
		t.Fatalf("expected 1 wishlist item after toggle, got %v", state["itemCount"])
	}

	status, body = doRequest(t, http.MethodPost, url, nil, headers)
	requireStatus(t, status, 200)
	state, _ = extractField(body, "data").(map[string]interface{})
	if count, _ := state["itemCount"].(float64); count != 0 {
		t.Fatalf("expected empty wishlist after second toggle, got %v", state["itemCount"])
	}
}
