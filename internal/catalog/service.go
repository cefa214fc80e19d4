// Package catalog merges the local product store with the remote upstream
// catalog into one continuously paginated view. Local products always rank
// ahead of remote ones, so the remote request window is shifted by the number
// of matching local products.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/utafrali/LotusGo/internal/domain"
	"github.com/utafrali/LotusGo/internal/event"
	"github.com/utafrali/LotusGo/internal/localstore"
	"github.com/utafrali/LotusGo/internal/remote"
	apperrors "github.com/utafrali/LotusGo/pkg/errors"
)

var queriesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_queries_total",
		Help: "Total catalog queries by upstream endpoint used.",
	},
	[]string{"endpoint"},
)

func init() {
	prometheus.MustRegister(queriesTotal)
}

// RemoteCatalog is the upstream client surface the merge engine consumes.
// *remote.Client satisfies this.
type RemoteCatalog interface {
	FetchPage(ctx context.Context, req remote.PageRequest) (remote.Page, error)
	FetchByID(ctx context.Context, id int64) (domain.Product, error)
	FetchCategories(ctx context.Context) ([]remote.Category, error)
	FetchAll(ctx context.Context) ([]domain.Product, error)
}

// Page is one merged catalog page. Total counts the whole merged catalog;
// FilteredTotal is the filtered count when client-side filters are active,
// otherwise it equals Total. Signature identifies the originating query so
// callers can discard results that no longer match their current query.
type Page struct {
	Products      []domain.Product
	Total         int
	FilteredTotal int
	Page          int
	PerPage       int
	Signature     string
}

// AddProductInput holds the parameters for creating a local product.
type AddProductInput struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Brand       string  `json:"brand" validate:"required,min=1,max=100"`
	Category    string  `json:"category" validate:"required,min=1,max=100"`
	Thumbnail   string  `json:"thumbnail" validate:"omitempty,url"`
}

// defaultThumbnail is used when a created product carries no image.
const defaultThumbnail = "https://placehold.co/400x400?text=No+Image"

// Service implements the catalog merge engine.
type Service struct {
	local    *localstore.Store
	remote   RemoteCatalog
	producer *event.Producer
	logger   *slog.Logger
	idGen    *domain.IDGenerator

	// addDelay simulates upstream write latency on product creation.
	// Zero disables it.
	addDelay time.Duration

	brandsGroup singleflight.Group
}

// NewService creates the catalog merge engine.
func NewService(local *localstore.Store, remoteClient RemoteCatalog, producer *event.Producer, logger *slog.Logger, addDelay time.Duration) *Service {
	return &Service{
		local:    local,
		remote:   remoteClient,
		producer: producer,
		logger:   logger,
		idGen:    &domain.IDGenerator{},
		addDelay: addDelay,
	}
}

// Query produces one merged catalog page.
//
// Local products matching the query occupy the leading positions of the
// merged sequence; pages slice that sequence without gaps or duplicates, so
// when local matches outnumber a page they continue onto the next one. The
// remote window is the remainder of the page after the local run.
func (s *Service) Query(ctx context.Context, q domain.CatalogQuery) (Page, error) {
	q = q.Normalize()

	localMatches := q.Filter(s.local.List(ctx))
	localCount := len(localMatches)

	pageStart := (q.Page - 1) * q.PerPage
	pageEnd := pageStart + q.PerPage
	localOnPage := localMatches[min(localCount, pageStart):min(localCount, pageEnd)]

	req := remote.PageRequest{
		Skip:     max(0, pageStart-localCount),
		Limit:    q.PerPage - len(localOnPage),
		Category: q.SingleCategory(),
		Sort:     q.Sort,
	}
	if req.Category == "" {
		req.Search = q.Search
	}
	queriesTotal.WithLabelValues(endpointLabel(req)).Inc()

	remotePage, err := s.fetchWindow(ctx, req)
	if err != nil {
		return Page{}, fmt.Errorf("query catalog: %w", err)
	}

	// Re-apply whatever the chosen endpoint could not enforce. The category
	// endpoint ignores the search term, so search is re-checked here when
	// category scoping won the endpoint selection.
	residual := q
	if req.Search != "" {
		residual.Search = ""
	}
	remoteMatches := residual.Filter(remotePage.Products)

	combined := make([]domain.Product, 0, len(localOnPage)+len(remoteMatches))
	combined = append(combined, localOnPage...)
	combined = append(combined, remoteMatches...)

	// The remote sort cannot order across sources, so the first page, which
	// mixes both, is re-sorted as a whole.
	if q.Page == 1 && !q.Sort.IsZero() {
		domain.SortProducts(combined, q.Sort)
	}

	total := remotePage.Total + localCount
	filteredTotal := total
	if q.HasClientOnlyFilters() && q.Page == 1 {
		filteredTotal = len(combined)
	}

	if len(combined) > q.PerPage {
		combined = combined[:q.PerPage]
	}

	s.logger.DebugContext(ctx, "catalog query served",
		slog.String("signature", q.Signature()),
		slog.Int("local_matches", localCount),
		slog.Int("returned", len(combined)),
		slog.Int("total", total),
	)

	return Page{
		Products:      combined,
		Total:         total,
		FilteredTotal: filteredTotal,
		Page:          q.Page,
		PerPage:       q.PerPage,
		Signature:     q.Signature(),
	}, nil
}

// fetchWindow fetches the remote window. A zero-width window still needs the
// upstream total, so it degrades to a one-item probe whose products are
// discarded.
func (s *Service) fetchWindow(ctx context.Context, req remote.PageRequest) (remote.Page, error) {
	if req.Limit > 0 {
		return s.remote.FetchPage(ctx, req)
	}

	probe := req
	probe.Limit = 1
	page, err := s.remote.FetchPage(ctx, probe)
	if err != nil {
		return remote.Page{}, err
	}
	return remote.Page{Total: page.Total}, nil
}

// GetProduct returns a single product, preferring the local store.
func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	if p, ok := s.local.Get(ctx, id); ok {
		return p, nil
	}

	p, err := s.remote.FetchByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Product{}, apperrors.NotFound("product", fmt.Sprintf("%d", id))
		}
		return domain.Product{}, fmt.Errorf("get product %d: %w", id, err)
	}
	return p, nil
}

// ListCategories returns the upstream category slugs in upstream order.
func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.remote.FetchCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	slugs := make([]string, len(categories))
	for i, c := range categories {
		slugs[i] = c.Slug
	}
	return slugs, nil
}

// ListBrands returns the deduplicated, sorted set of brands across the full
// upstream catalog and the local store. The upstream has no brand listing,
// so this scans the whole catalog; concurrent calls collapse into a single
// upstream fetch.
func (s *Service) ListBrands(ctx context.Context) ([]string, error) {
	v, err, _ := s.brandsGroup.Do("brands", func() (any, error) {
		return s.remote.FetchAll(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	remoteProducts := v.([]domain.Product)

	seen := make(map[string]string)
	for _, p := range remoteProducts {
		if p.Brand != "" {
			seen[strings.ToLower(p.Brand)] = p.Brand
		}
	}
	for _, p := range s.local.List(ctx) {
		if p.Brand != "" {
			seen[strings.ToLower(p.Brand)] = p.Brand
		}
	}

	brands := make([]string, 0, len(seen))
	for _, brand := range seen {
		brands = append(brands, brand)
	}
	sort.Slice(brands, func(i, j int) bool {
		return strings.ToLower(brands[i]) < strings.ToLower(brands[j])
	})
	return brands, nil
}

// AddProduct creates a product in the local store. The product never reaches
// the upstream catalog; it surfaces in merged queries ahead of remote
// results.
func (s *Service) AddProduct(ctx context.Context, input AddProductInput) (domain.Product, error) {
	if input.Title == "" {
		return domain.Product{}, apperrors.InvalidInput("title is required")
	}
	if input.Price <= 0 {
		return domain.Product{}, apperrors.InvalidInput("price must be greater than 0")
	}
	if input.Stock < 0 {
		return domain.Product{}, apperrors.InvalidInput("stock must not be negative")
	}
	if input.Brand == "" {
		return domain.Product{}, apperrors.InvalidInput("brand is required")
	}
	if input.Category == "" {
		return domain.Product{}, apperrors.InvalidInput("category is required")
	}

	if s.addDelay > 0 {
		select {
		case <-time.After(s.addDelay):
		case <-ctx.Done():
			return domain.Product{}, ctx.Err()
		}
	}

	thumbnail := input.Thumbnail
	if thumbnail == "" {
		thumbnail = defaultThumbnail
	}

	product := domain.Product{
		ID:          s.idGen.Next(),
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Brand:       input.Brand,
		Category:    input.Category,
		Thumbnail:   thumbnail,
		Images:      []string{thumbnail},
		CreatedAt:   time.Now().UTC(),
	}

	s.local.Save(ctx, product)

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.Int64("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	return product, nil
}

// UpdateProduct patches a locally created product. Remote products are not
// writable; patching one returns not found.
func (s *Service) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (domain.Product, error) {
	updated, ok := s.local.Update(ctx, id, patch)
	if !ok {
		return domain.Product{}, apperrors.NotFound("product", fmt.Sprintf("%d", id))
	}

	if err := s.producer.PublishProductUpdated(ctx, updated); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	return updated, nil
}

// RemoveProduct deletes a locally created product. Remote products are not
// deletable; removing one returns not found.
func (s *Service) RemoveProduct(ctx context.Context, id int64) error {
	product, ok := s.local.Get(ctx, id)
	if !ok {
		return apperrors.NotFound("product", fmt.Sprintf("%d", id))
	}

	s.local.Remove(ctx, id)

	if err := s.producer.PublishProductDeleted(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

func endpointLabel(req remote.PageRequest) string {
	switch {
	case req.Category != "":
		return "category"
	case req.Search != "":
		return "search"
	default:
		return "general"
	}
}
