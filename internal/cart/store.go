// Package cart holds per-user cart state. All mutations flow through a
// single dispatch entry point, so read-modify-write races are impossible
// within one process; cross-instance writers are last-write-wins.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/LotusGo/internal/domain"
	"github.com/utafrali/LotusGo/internal/event"
	"github.com/utafrali/LotusGo/internal/repository"
	apperrors "github.com/utafrali/LotusGo/pkg/errors"
)

// KeyPrefix is the durable storage key prefix for per-user cart items.
const KeyPrefix = "lotus-cart:"

// Store manages cart state per user, hydrated lazily from durable storage
// and written back after every item-list mutation. Persistence failures are
// logged, never surfaced; the in-memory state is authoritative.
type Store struct {
	kv       repository.KV
	producer *event.Producer
	logger   *slog.Logger

	mu     sync.Mutex
	states map[string]domain.CartState
}

// NewStore creates a cart store backed by kv.
func NewStore(kv repository.KV, producer *event.Producer, logger *slog.Logger) *Store {
	return &Store{
		kv:       kv,
		producer: producer,
		logger:   logger,
		states:   make(map[string]domain.CartState),
	}
}

// Get returns the user's current cart state, hydrating it on first access.
func (s *Store) Get(ctx context.Context, userID string) (domain.CartState, error) {
	if userID == "" {
		return domain.CartState{}, apperrors.InvalidInput("user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(ctx, userID), nil
}

// Dispatch applies one cart action and returns the resulting state. Item
// mutations are persisted and published; visibility changes are not.
func (s *Store) Dispatch(ctx context.Context, userID string, action domain.CartAction) (domain.CartState, error) {
	if userID == "" {
		return domain.CartState{}, apperrors.InvalidInput("user id is required")
	}

	if add, ok := action.(domain.AddItem); ok && add.Product.Stock <= 0 {
		return domain.CartState{}, apperrors.InvalidInput("product is out of stock")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.state(ctx, userID)
	next := domain.ReduceCart(current, action, time.Now().UTC())
	s.states[userID] = next

	if domain.MutatesItems(action) {
		s.persist(ctx, userID, next)

		if err := s.producer.PublishCartUpdated(ctx, userID, next); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	return next, nil
}

// state returns the in-memory state for userID, loading persisted items the
// first time the user is seen. Missing or corrupt documents hydrate empty.
func (s *Store) state(ctx context.Context, userID string) domain.CartState {
	if st, ok := s.states[userID]; ok {
		return st
	}

	st := domain.CartState{}
	data, err := s.kv.Get(ctx, KeyPrefix+userID)
	switch {
	case err == nil:
		var items []domain.CartItem
		if jsonErr := json.Unmarshal(data, &items); jsonErr != nil {
			s.logger.WarnContext(ctx, "corrupt cart document, starting empty",
				slog.String("user_id", userID),
				slog.String("error", jsonErr.Error()),
			)
		} else {
			st = domain.ReduceCart(st, domain.LoadCart{Items: items}, time.Now().UTC())
		}
	case !errors.Is(err, apperrors.ErrNotFound):
		s.logger.WarnContext(ctx, "failed to load cart, starting empty",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.states[userID] = st
	return st
}

func (s *Store) persist(ctx context.Context, userID string, st domain.CartState) {
	data, err := json.Marshal(st.Items)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal cart items",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.kv.Set(ctx, KeyPrefix+userID, data); err != nil {
		s.logger.WarnContext(ctx, "failed to persist cart",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}
