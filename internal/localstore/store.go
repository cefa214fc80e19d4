// Package localstore keeps the products created through this service. The
// working copy lives in memory and is written through to durable storage as
// a single JSON document; the remote catalog never sees these products.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/utafrali/LotusGo/internal/domain"
	"github.com/utafrali/LotusGo/internal/repository"
	apperrors "github.com/utafrali/LotusGo/pkg/errors"
)

// StorageKey is the durable storage key holding the local product list.
const StorageKey = "lotus_local_products"

// Store holds locally created products, most recent first.
//
// The in-memory copy is authoritative for the life of the process: reads
// never touch storage after the first hydration, and persistence failures
// are logged but do not fail the mutation.
type Store struct {
	kv     repository.KV
	logger *slog.Logger

	mu       sync.RWMutex
	loaded   bool
	products []domain.Product
}

// New creates a local product store backed by kv.
func New(kv repository.KV, logger *slog.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
	}
}

// hydrate loads the persisted product list on first use. A missing key means
// an empty store; a corrupt document is discarded and logged.
func (s *Store) hydrate(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true

	data, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "failed to load local products, starting empty",
				slog.String("error", err.Error()))
		}
		return
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		s.logger.WarnContext(ctx, "corrupt local product document, starting empty",
			slog.String("error", err.Error()))
		return
	}

	s.products = products
}

// persist writes the full working copy through to storage. Failures are
// logged and swallowed; the in-memory copy stays authoritative.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.products)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal local products",
			slog.String("error", err.Error()))
		return
	}

	if err := s.kv.Set(ctx, StorageKey, data); err != nil {
		s.logger.WarnContext(ctx, "failed to persist local products",
			slog.String("error", err.Error()))
	}
}

// List returns a copy of all local products, most recent first.
func (s *Store) List(ctx context.Context) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx)

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get returns the local product with the given ID.
func (s *Store) Get(ctx context.Context, id int64) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx)

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Save prepends a product so newly created products list first.
func (s *Store) Save(ctx context.Context, p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx)

	s.products = append([]domain.Product{p}, s.products...)
	s.persist(ctx)
}

// Remove deletes the product with the given ID and reports whether it was
// present.
func (s *Store) Remove(ctx context.Context, id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx)

	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i:i], s.products[i+1:]...)
			s.persist(ctx)
			return true
		}
	}
	return false
}

// Update applies a partial patch to the product with the given ID. Updating
// an absent product is a no-op.
func (s *Store) Update(ctx context.Context, id int64, patch domain.ProductPatch) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx)

	for i, p := range s.products {
		if p.ID == id {
			updated := patch.Apply(p)
			s.products[i] = updated
			s.persist(ctx)
			return updated, true
		}
	}
	return domain.Product{}, false
}

// Clear removes every local product, including the persisted document.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(ctx)

	s.products = nil
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		s.logger.WarnContext(ctx, "failed to clear local products",
			slog.String("error", err.Error()))
	}
}
