package domain

import "time"

// CartItem is a product selected into the cart with a quantity.
type CartItem struct {
	Product  Product   `json:"product"`
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

// CartState is the full cart: the item list in insertion order, a visibility
// flag for the cart sidebar, and totals derived from the item list. Derived
// fields are recomputed from scratch on every transition rather than adjusted
// incrementally, so they can never drift from the items.
type CartState struct {
	Items       []CartItem `json:"items"`
	IsOpen      bool       `json:"isOpen"`
	ItemCount   int        `json:"itemCount"`
	Subtotal    float64    `json:"subtotal"`
	Savings     float64    `json:"savings"`
	TotalAmount float64    `json:"totalAmount"`
}

// FindItem returns the index of the cart item for the given product ID, or -1.
func (s CartState) FindItem(productID int64) int {
	for i := range s.Items {
		if s.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// CartAction is a cart state transition. Exactly one of the concrete action
// types below is dispatched per transition.
type CartAction interface {
	isCartAction()
}

// AddItem inserts a product or merges quantity into an existing line.
// Quantity is clamped so it never exceeds the product's stock.
type AddItem struct {
	Product  Product
	Quantity int
}

// RemoveItem deletes the line for a product; no-op if absent.
type RemoveItem struct {
	ProductID int64
}

// UpdateQuantity sets a line's quantity, clamped to stock.
// A quantity <= 0 removes the line.
type UpdateQuantity struct {
	ProductID int64
	Quantity  int
}

// ClearCart empties the item list.
type ClearCart struct{}

// OpenCart, CloseCart, and ToggleCart change only the visibility flag.
type OpenCart struct{}
type CloseCart struct{}
type ToggleCart struct{}

// LoadCart replaces the entire item list; used once per user when hydrating
// from persisted storage.
type LoadCart struct {
	Items []CartItem
}

func (AddItem) isCartAction()        {}
func (RemoveItem) isCartAction()     {}
func (UpdateQuantity) isCartAction() {}
func (ClearCart) isCartAction()      {}
func (OpenCart) isCartAction()       {}
func (CloseCart) isCartAction()      {}
func (ToggleCart) isCartAction()     {}
func (LoadCart) isCartAction()       {}

// MutatesItems reports whether the action can change the item list, i.e.
// whether the resulting state must be persisted.
func MutatesItems(a CartAction) bool {
	switch a.(type) {
	case OpenCart, CloseCart, ToggleCart:
		return false
	default:
		return true
	}
}

// ReduceCart is the pure cart transition function. It never mutates the input
// state; the item slice is copied before modification. The now argument stamps
// AddedAt on new lines so the reducer stays deterministic under test.
func ReduceCart(state CartState, action CartAction, now time.Time) CartState {
	switch a := action.(type) {
	case AddItem:
		if a.Product.Stock <= 0 {
			return state
		}
		qty := a.Quantity
		if qty <= 0 {
			qty = 1
		}

		items := cloneCartItems(state.Items)
		if i := state.FindItem(a.Product.ID); i >= 0 {
			items[i].Quantity = clampToStock(items[i].Quantity+qty, a.Product.Stock)
		} else {
			items = append(items, CartItem{
				Product:  a.Product,
				Quantity: clampToStock(qty, a.Product.Stock),
				AddedAt:  now,
			})
		}
		return withCartItems(state, items)

	case RemoveItem:
		return withCartItems(state, removeCartItem(state.Items, a.ProductID))

	case UpdateQuantity:
		if a.Quantity <= 0 {
			return withCartItems(state, removeCartItem(state.Items, a.ProductID))
		}

		items := cloneCartItems(state.Items)
		if i := state.FindItem(a.ProductID); i >= 0 {
			items[i].Quantity = clampToStock(a.Quantity, items[i].Product.Stock)
		}
		return withCartItems(state, items)

	case ClearCart:
		return withCartItems(state, []CartItem{})

	case OpenCart:
		state.IsOpen = true
		return state

	case CloseCart:
		state.IsOpen = false
		return state

	case ToggleCart:
		state.IsOpen = !state.IsOpen
		return state

	case LoadCart:
		return withCartItems(state, cloneCartItems(a.Items))

	default:
		return state
	}
}

// withCartItems swaps in the item list and recomputes every derived field.
func withCartItems(state CartState, items []CartItem) CartState {
	state.Items = items

	var itemCount int
	var subtotal, savings float64
	for _, item := range items {
		itemCount += item.Quantity
		qty := float64(item.Quantity)
		subtotal += item.Product.Price * qty
		savings += (item.Product.Price - item.Product.DiscountedPrice()) * qty
	}

	state.ItemCount = itemCount
	state.Subtotal = subtotal
	state.Savings = savings
	state.TotalAmount = subtotal - savings
	return state
}

func clampToStock(qty, stock int) int {
	if stock < 0 {
		stock = 0
	}
	if qty > stock {
		return stock
	}
	return qty
}

func cloneCartItems(items []CartItem) []CartItem {
	out := make([]CartItem, len(items))
	copy(out, items)
	return out
}

func removeCartItem(items []CartItem, productID int64) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, item := range items {
		if item.Product.ID != productID {
			out = append(out, item)
		}
	}
	return out
}
