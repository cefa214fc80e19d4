package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/LotusGo/internal/catalog"
	"github.com/utafrali/LotusGo/internal/domain"
	"github.com/utafrali/LotusGo/pkg/httputil"
	"github.com/utafrali/LotusGo/pkg/validator"
)

// ProductHandler handles HTTP requests for catalog endpoints.
type ProductHandler struct {
	service *catalog.Service
	logger  *slog.Logger
}

// NewProductHandler creates a new catalog HTTP handler.
func NewProductHandler(svc *catalog.Service, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a local product.
type CreateProductRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Brand       string  `json:"brand" validate:"required,min=1,max=100"`
	Category    string  `json:"category" validate:"required,min=1,max=100"`
	Thumbnail   string  `json:"thumbnail" validate:"omitempty,url"`
}

// UpdateProductRequest is the JSON request body for patching a local product.
type UpdateProductRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
	Brand       *string  `json:"brand" validate:"omitempty,min=1,max=100"`
	Category    *string  `json:"category" validate:"omitempty,min=1,max=100"`
	Thumbnail   *string  `json:"thumbnail" validate:"omitempty,url"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	page, err := h.service.Query(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: httputil.NewPagedResponse(page.Products, page.Total, page.FilteredTotal, page.Page, page.PerPage),
	})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.AddProduct(r.Context(), catalog.AddProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Brand:       req.Brand,
		Category:    req.Category,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PATCH /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, domain.ProductPatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Brand:       req.Brand,
		Category:    req.Category,
		Thumbnail:   req.Thumbnail,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.RemoveProduct(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "deleted"}})
}

// ListCategories handles GET /api/v1/categories
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}

// ListBrands handles GET /api/v1/brands
func (h *ProductHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.ListBrands(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: brands})
}

// --- Query parsing ---

// parseQuery builds a CatalogQuery from request query parameters. Multi-value
// filters accept both repeated keys and comma-separated lists. On a bad
// parameter it writes a 400 response and returns false.
func (h *ProductHandler) parseQuery(w http.ResponseWriter, r *http.Request) (domain.CatalogQuery, bool) {
	values := r.URL.Query()

	query := domain.CatalogQuery{
		Search:     strings.TrimSpace(values.Get("q")),
		Category:   strings.TrimSpace(values.Get("category")),
		Brand:      strings.TrimSpace(values.Get("brand")),
		Categories: parseList(values["categories"]),
		Brands:     parseList(values["brands"]),
	}

	if v := values.Get("price_min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			writeBadParam(w, "price_min must be a non-negative number")
			return domain.CatalogQuery{}, false
		}
		query.PriceMin = &f
	}
	if v := values.Get("price_max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			writeBadParam(w, "price_max must be a non-negative number")
			return domain.CatalogQuery{}, false
		}
		query.PriceMax = &f
	}
	if query.PriceMin != nil && query.PriceMax != nil && *query.PriceMin > *query.PriceMax {
		writeBadParam(w, "price_min must not exceed price_max")
		return domain.CatalogQuery{}, false
	}

	if v := values.Get("status"); v != "" {
		status := domain.StockStatus(v)
		if !domain.IsValidStockStatus(status) {
			writeBadParam(w, "status must be one of: in-stock, low-stock, out-of-stock")
			return domain.CatalogQuery{}, false
		}
		query.Status = status
	}

	sortSpec, err := domain.ParseSort(values.Get("sort"))
	if err != nil {
		writeBadParam(w, "sort must be a field-order pair such as price-desc")
		return domain.CatalogQuery{}, false
	}
	query.Sort = sortSpec

	if v := values.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			writeBadParam(w, "page must be a positive integer")
			return domain.CatalogQuery{}, false
		}
		query.Page = page
	}
	if v := values.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > domain.MaxPerPage {
			writeBadParam(w, "limit must be an integer between 1 and 100")
			return domain.CatalogQuery{}, false
		}
		query.PerPage = limit
	}

	return query, true
}

// parseList flattens repeated query keys and comma-separated values into one
// trimmed list.
func parseList(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func writeBadParam(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: message},
	})
}
