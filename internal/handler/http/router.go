package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/LotusGo/internal/cart"
	"github.com/utafrali/LotusGo/internal/catalog"
	"github.com/utafrali/LotusGo/internal/wishlist"
	"github.com/utafrali/LotusGo/pkg/health"
	"github.com/utafrali/LotusGo/pkg/middleware"
)

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(
	catalogService *catalog.Service,
	cartStore *cart.Store,
	wishlistStore *wishlist.Store,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("lotus-catalog"))
	r.Use(middleware.Tracing("lotus-catalog"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	productHandler := NewProductHandler(catalogService, logger)
	cartHandler := NewCartHandler(cartStore, catalogService, logger)
	wishlistHandler := NewWishlistHandler(wishlistStore, catalogService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.ListProducts)
			r.Post("/", productHandler.CreateProduct)
			r.Get("/{id}", productHandler.GetProduct)
			r.Patch("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
		})

		r.Get("/categories", productHandler.ListCategories)
		r.Get("/brands", productHandler.ListBrands)

		r.Route("/cart", func(r chi.Router) {
			r.Use(UserIDFromHeader)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
			r.Post("/open", cartHandler.OpenCart)
			r.Post("/close", cartHandler.CloseCart)
			r.Post("/toggle", cartHandler.ToggleCart)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(UserIDFromHeader)

			r.Get("/", wishlistHandler.GetWishlist)
			r.Delete("/", wishlistHandler.ClearWishlist)
			r.Put("/items/{productId}", wishlistHandler.AddItem)
			r.Delete("/items/{productId}", wishlistHandler.RemoveItem)
			r.Post("/items/{productId}/toggle", wishlistHandler.ToggleItem)
		})
	})

	return r
}
