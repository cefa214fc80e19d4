package domain

import "time"

// WishlistItem is a saved product. Quantity is not tracked; the wishlist is a
// set keyed by product ID.
type WishlistItem struct {
	Product Product   `json:"product"`
	AddedAt time.Time `json:"addedAt"`
}

// WishlistState is the saved-product set in insertion order with a derived
// count. ItemCount is recomputed on every transition.
type WishlistState struct {
	Items     []WishlistItem `json:"items"`
	ItemCount int            `json:"itemCount"`
}

// Contains reports whether a product is in the wishlist.
func (s WishlistState) Contains(productID int64) bool {
	for i := range s.Items {
		if s.Items[i].Product.ID == productID {
			return true
		}
	}
	return false
}

// WishlistAction is a wishlist state transition.
type WishlistAction interface {
	isWishlistAction()
}

// AddToWishlist saves a product; no-op if already saved.
type AddToWishlist struct {
	Product Product
}

// RemoveFromWishlist deletes a saved product; no-op if absent.
type RemoveFromWishlist struct {
	ProductID int64
}

// ToggleWishlist removes a saved product or saves it when absent.
type ToggleWishlist struct {
	Product Product
}

// ClearWishlist empties the set.
type ClearWishlist struct{}

// LoadWishlist replaces the entire set; used once per user when hydrating
// from persisted storage. Duplicate product IDs in the input are dropped,
// keeping the first occurrence.
type LoadWishlist struct {
	Items []WishlistItem
}

func (AddToWishlist) isWishlistAction()      {}
func (RemoveFromWishlist) isWishlistAction() {}
func (ToggleWishlist) isWishlistAction()     {}
func (ClearWishlist) isWishlistAction()      {}
func (LoadWishlist) isWishlistAction()       {}

// ReduceWishlist is the pure wishlist transition function. It never mutates
// the input state.
func ReduceWishlist(state WishlistState, action WishlistAction, now time.Time) WishlistState {
	switch a := action.(type) {
	case AddToWishlist:
		if state.Contains(a.Product.ID) {
			return state
		}
		items := cloneWishlistItems(state.Items)
		items = append(items, WishlistItem{Product: a.Product, AddedAt: now})
		return withWishlistItems(state, items)

	case RemoveFromWishlist:
		return withWishlistItems(state, removeWishlistItem(state.Items, a.ProductID))

	case ToggleWishlist:
		if state.Contains(a.Product.ID) {
			return withWishlistItems(state, removeWishlistItem(state.Items, a.Product.ID))
		}
		items := cloneWishlistItems(state.Items)
		items = append(items, WishlistItem{Product: a.Product, AddedAt: now})
		return withWishlistItems(state, items)

	case ClearWishlist:
		return withWishlistItems(state, []WishlistItem{})

	case LoadWishlist:
		seen := make(map[int64]struct{}, len(a.Items))
		items := make([]WishlistItem, 0, len(a.Items))
		for _, item := range a.Items {
			if _, ok := seen[item.Product.ID]; ok {
				continue
			}
			seen[item.Product.ID] = struct{}{}
			items = append(items, item)
		}
		return withWishlistItems(state, items)

	default:
		return state
	}
}

func withWishlistItems(state WishlistState, items []WishlistItem) WishlistState {
	state.Items = items
	state.ItemCount = len(items)
	return state
}

func cloneWishlistItems(items []WishlistItem) []WishlistItem {
	out := make([]WishlistItem, len(items))
	copy(out, items)
	return out
}

func removeWishlistItem(items []WishlistItem, productID int64) []WishlistItem {
	out := make([]WishlistItem, 0, len(items))
	for _, item := range items {
		if item.Product.ID != productID {
			out = append(out, item)
		}
	}
	return out
}
