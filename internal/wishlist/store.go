// Package wishlist holds per-user saved-product state with the same
// dispatch and persistence contract as the cart store.
package wishlist

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

// KeyPrefix is the durable storage key prefix for per-user wishlist items.
const KeyPrefix = "lotus-wishlist:"

// Store manages wishlist state per user. In-memory state is authoritative;
// every mutation writes through to durable storage and persistence failures
// are logged, never surfaced.
type Store struct {
	kv       repository.KV
	producer *event.Producer
	logger   *slog.Logger

	mu     sync.Mutex
	states map[string]domain.WishlistState
}

// NewStore creates a wishlist store backed by kv.
func NewStore(kv repository.KV, producer *event.Producer, logger *slog.Logger) *Store {
	return &Store{
		kv:       kv,
		producer: producer,
		logger:   logger,
		states:   make(map[string]domain.WishlistState),
	}
}

// Get returns the user's current wishlist, hydrating it on first access.
func (s *Store) Get(ctx context.Context, userID string) (domain.WishlistState, error) {
	if userID == "" {
		return domain.WishlistState{}, apperrors.InvalidInput("user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state(ctx, userID), nil
}

// Dispatch applies one wishlist action and returns the resulting state.
func (s *Store) Dispatch(ctx context.Context, userID string, action domain.WishlistAction) (domain.WishlistState, error) {
	if userID == "" {
		return domain.WishlistState{}, apperrors.InvalidInput("user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.state(ctx, userID)
	next := domain.ReduceWishlist(current, action, time.Now().UTC())
	s.states[userID] = next

	s.persist(ctx, userID, next)

	if err := s.producer.PublishWishlistUpdated(ctx, userID, next); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	return next, nil
}

func (s *Store) state(ctx context.Context, userID string) domain.WishlistState {
	if st, ok := s.states[userID]; ok {
		return st
	}

	st := domain.WishlistState{}
	data, err := s.kv.Get(ctx, KeyPrefix+userID)
	switch {
	case err == nil:
		var items []domain.WishlistItem
		if jsonErr := json.Unmarshal(data, &items); jsonErr != nil {
			s.logger.WarnContext(ctx, "corrupt wishlist document, starting empty",
				slog.String("user_id", userID),
				slog.String("error", jsonErr.Error()),
			)
		} else {
			st = domain.ReduceWishlist(st, domain.LoadWishlist{Items: items}, time.Now().UTC())
		}
	case !errors.Is(err, apperrors.ErrNotFound):
		s.logger.WarnContext(ctx, "failed to load wishlist, starting empty",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	s.states[userID] = st
	return st
}

func (s *Store) persist(ctx context.Context, userID string, st domain.WishlistState) {
	data, err := json.Marshal(st.Items)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal wishlist items",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.kv.Set(ctx, KeyPrefix+userID, data); err != nil {
		s.logger.WarnContext(ctx, "failed to persist wishlist",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}
