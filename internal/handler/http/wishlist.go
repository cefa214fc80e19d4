package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/LotusGo/internal/catalog"
	"github.com/utafrali/LotusGo/internal/domain"
	"github.com/utafrali/LotusGo/internal/wishlist"
	"github.com/utafrali/LotusGo/pkg/httputil"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	store   *wishlist.Store
	catalog *catalog.Service
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(store *wishlist.Store, catalogSvc *catalog.Service, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		store:   store,
		catalog: catalogSvc,
		logger:  logger,
	}
}

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
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

// AddItem handles PUT /api/v1/wishlist/items/{productId}
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.dispatchWithProduct(w, r, func(p domain.Product) domain.WishlistAction {
		return domain.AddToWishlist{Product: p}
	})
}

// ToggleItem handles POST /api/v1/wishlist/items/{productId}/toggle
func (h *WishlistHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	h.dispatchWithProduct(w, r, func(p domain.Product) domain.WishlistAction {
		return domain.ToggleWishlist{Product: p}
	})
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{productId}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeMissingUser(w)
		return
	}

	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	state, err := h.store.Dispatch(r.Context(), userID, domain.RemoveFromWishlist{ProductID: productID})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// ClearWishlist handles DELETE /api/v1/wishlist
func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeMissingUser(w)
		return
	}

	state, err := h.store.Dispatch(r.Context(), userID, domain.ClearWishlist{})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// dispatchWithProduct resolves the product from the path, builds the action,
// and dispatches it for the authenticated user.
func (h *WishlistHandler) dispatchWithProduct(w http.ResponseWriter, r *http.Request, build func(domain.Product) domain.WishlistAction) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		writeMissingUser(w)
		return
	}

	productID, ok := httputil.ParseID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	state, err := h.store.Dispatch(r.Context(), userID, build(product))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}
