package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/LotusGo/internal/cart"
	"github.com/utafrali/LotusGo/internal/catalog"
	"github.com/utafrali/LotusGo/internal/domain"
	"github.com/utafrali/LotusGo/pkg/httputil"
	"github.com/utafrali/LotusGo/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints. Products referenced
// by ID are resolved through the catalog before being added, so the reducer
// always sees current stock.
type CartHandler struct {
	store   *cart.Store
	catalog *catalog.Service
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(store *cart.Store, catalogSvc *catalog.Service, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		store:   store,
		catalog: catalogSvc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding an item to the cart.
type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"omitempty,gte=1"`
}

// UpdateQuantityRequest is the JSON request body for updating an item's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeMissingUser(w)
		return
	}

	state, err := h.store.Get(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeMissingUser(w)
		return
	}

	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	state, err := h.store.Dispatch(r.Context(), userID, domain.AddItem{
		Product:  product,
		Quantity: req.Quantity,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeMissingUser(w)
		return
	}

	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	state, err := h.store.Dispatch(r.Context(), userID, domain.UpdateQuantity{
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeMissingUser(w)
		return
	}

	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	state, err := h.store.Dispatch(r.Context(), userID, domain.RemoveItem{ProductID: productID})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.dispatchSimple(w, r, domain.ClearCart{})
}

// OpenCart handles POST /api/v1/cart/open
func (h *CartHandler) OpenCart(w http.ResponseWriter, r *http.Request) {
	h.dispatchSimple(w, r, domain.OpenCart{})
}

// CloseCart handles POST /api/v1/cart/close
func (h *CartHandler) CloseCart(w http.ResponseWriter, r *http.Request) {
	h.dispatchSimple(w, r, domain.CloseCart{})
}

// ToggleCart handles POST /api/v1/cart/toggle
func (h *CartHandler) ToggleCart(w http.ResponseWriter, r *http.Request) {
	h.dispatchSimple(w, r, domain.ToggleCart{})
}

func (h *CartHandler) dispatchSimple(w http.ResponseWriter, r *http.Request, action domain.CartAction) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeMissingUser(w)
		return
	}

	state, err := h.store.Dispatch(r.Context(), userID, action)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

func writeMissingUser(w http.ResponseWriter) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
		Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "authentication required"},
	})
}
