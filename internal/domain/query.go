package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Sort field and order values accepted by catalog queries.
const (
	SortFieldCreatedAt = "createdAt"
	SortFieldPrice     = "price"
	SortFieldRating    = "rating"
	SortFieldTitle     = "title"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// Sort is a catalog sort specification. The zero value means "no sort".
type Sort struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// IsZero reports whether no sort was requested.
func (s Sort) IsZero() bool {
	return s.Field == ""
}

// ParseSort parses a "field-order" sort key such as "price-desc".
func ParseSort(key string) (Sort, error) {
	if key == "" {
		return Sort{}, nil
	}

	field, order, ok := strings.Cut(key, "-")
	if !ok {
		return Sort{}, fmt.Errorf("malformed sort key %q", key)
	}

	switch field {
	case SortFieldCreatedAt, SortFieldPrice, SortFieldRating, SortFieldTitle:
	default:
		return Sort{}, fmt.Errorf("unsupported sort field %q", field)
	}

	switch order {
	case SortOrderAsc, SortOrderDesc:
	default:
		return Sort{}, fmt.Errorf("unsupported sort order %q", order)
	}

	return Sort{Field: field, Order: order}, nil
}

// UpstreamField maps the sort field to one the remote catalog supports.
// The upstream has no createdAt; its sequential id is the closest proxy.
func (s Sort) UpstreamField() string {
	if s.Field == SortFieldCreatedAt {
		return "id"
	}
	return s.Field
}

// CatalogQuery is the filter/sort/page specification for a catalog lookup.
//
// A filter field is inactive when it holds its zero value: empty string, nil
// slice, or nil pointer all mean "no filter", uniformly. The single-value
// Category/Brand fields are the legacy form; the multi-value sets take
// precedence when both are present.
type CatalogQuery struct {
	Search     string
	Category   string
	Brand      string
	Categories []string
	Brands     []string
	PriceMin   *float64
	PriceMax   *float64
	Status     StockStatus
	Sort       Sort
	Page       int
	PerPage    int
}

// Pagination defaults and bounds.
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Normalize returns a copy with pagination defaults applied.
func (q CatalogQuery) Normalize() CatalogQuery {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	return q
}

// SelectedCategories resolves the active category filter set.
// Multi-value takes precedence over the legacy single value.
func (q CatalogQuery) SelectedCategories() []string {
	if len(q.Categories) > 0 {
		return q.Categories
	}
	if q.Category != "" {
		return []string{q.Category}
	}
	return nil
}

// SelectedBrands resolves the active brand filter set.
func (q CatalogQuery) SelectedBrands() []string {
	if len(q.Brands) > 0 {
		return q.Brands
	}
	if q.Brand != "" {
		return []string{q.Brand}
	}
	return nil
}

// SingleCategory returns the category slug to request server-side, or "" when
// the category filter is absent or multi-valued.
func (q CatalogQuery) SingleCategory() string {
	if len(q.Categories) > 0 {
		return ""
	}
	return q.Category
}

// HasClientOnlyFilters reports whether any filter dimension is active that
// the remote catalog cannot enforce server-side: brand filters, multi-value
// category sets, price bounds, and stock status.
func (q CatalogQuery) HasClientOnlyFilters() bool {
	return len(q.SelectedBrands()) > 0 ||
		len(q.Categories) > 0 ||
		q.PriceMin != nil ||
		q.PriceMax != nil ||
		q.Status != ""
}

// HasAnyFilter reports whether any filter dimension at all is active.
func (q CatalogQuery) HasAnyFilter() bool {
	return q.Search != "" || q.SelectedCategories() != nil || q.HasClientOnlyFilters()
}

// Matches applies every active filter to the product, case-insensitively.
func (q CatalogQuery) Matches(p Product) bool {
	return q.MatchesSearch(p) &&
		q.MatchesCategory(p) &&
		q.MatchesBrand(p) &&
		q.MatchesPrice(p) &&
		q.MatchesStatus(p)
}

// MatchesSearch checks the free-text filter as a case-insensitive substring
// of title, description, or brand. An empty search matches everything.
func (q CatalogQuery) MatchesSearch(p Product) bool {
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(p.Title), needle) ||
		strings.Contains(strings.ToLower(p.Description), needle) ||
		strings.Contains(strings.ToLower(p.Brand), needle)
}

// MatchesCategory checks exact (case-insensitive) membership in the selected
// category set.
func (q CatalogQuery) MatchesCategory(p Product) bool {
	selected := q.SelectedCategories()
	if selected == nil {
		return true
	}
	for _, cat := range selected {
		if strings.EqualFold(p.Category, cat) {
			return true
		}
	}
	return false
}

// MatchesBrand checks case-insensitive substring membership in the selected
// brand set.
func (q CatalogQuery) MatchesBrand(p Product) bool {
	selected := q.SelectedBrands()
	if selected == nil {
		return true
	}
	brand := strings.ToLower(p.Brand)
	for _, b := range selected {
		if strings.Contains(brand, strings.ToLower(b)) {
			return true
		}
	}
	return false
}

// MatchesPrice checks the price range; missing bounds mean "no bound".
func (q CatalogQuery) MatchesPrice(p Product) bool {
	if q.PriceMin != nil && p.Price < *q.PriceMin {
		return false
	}
	if q.PriceMax != nil && p.Price > *q.PriceMax {
		return false
	}
	return true
}

// MatchesStatus checks the stock-status filter.
func (q CatalogQuery) MatchesStatus(p Product) bool {
	if q.Status == "" {
		return true
	}
	return p.StockStatus() == q.Status
}

// Filter returns the products matching every active filter, preserving order.
func (q CatalogQuery) Filter(products []Product) []Product {
	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if q.Matches(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Signature returns a canonical representation of the query, used to tell
// whether a late-arriving result still belongs to the caller's current query.
func (q CatalogQuery) Signature() string {
	var b strings.Builder
	fmt.Fprintf(&b, "q=%s|cat=%s|brand=%s", q.Search, q.Category, q.Brand)
	fmt.Fprintf(&b, "|cats=%s|brands=%s", strings.Join(q.Categories, ","), strings.Join(q.Brands, ","))
	if q.PriceMin != nil {
		fmt.Fprintf(&b, "|min=%g", *q.PriceMin)
	}
	if q.PriceMax != nil {
		fmt.Fprintf(&b, "|max=%g", *q.PriceMax)
	}
	fmt.Fprintf(&b, "|status=%s|sort=%s-%s|page=%d|per=%d", q.Status, q.Sort.Field, q.Sort.Order, q.Page, q.PerPage)
	return b.String()
}

// SortProducts orders products in place by the given sort spec. The sort is
// stable: ties preserve prior relative order. String comparison is
// case-insensitive.
func SortProducts(products []Product, s Sort) {
	if s.IsZero() {
		return
	}

	desc := s.Order == SortOrderDesc
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		var less bool
		switch s.Field {
		case SortFieldPrice:
			less = a.Price < b.Price
		case SortFieldRating:
			less = a.Rating < b.Rating
		case SortFieldTitle:
			less = strings.ToLower(a.Title) < strings.ToLower(b.Title)
		case SortFieldCreatedAt:
			less = a.CreatedAt.Before(b.CreatedAt)
		default:
			return false
		}
		if desc {
			return !less && !equalOn(a, b, s.Field)
		}
		return less
	})
}

// equalOn reports whether two products compare equal on the sort field, so a
// descending sort stays stable on ties.
func equalOn(a, b Product, field string) bool {
	switch field {
	case SortFieldPrice:
		return a.Price == b.Price
	case SortFieldRating:
		return a.Rating == b.Rating
	case SortFieldTitle:
		return strings.EqualFold(a.Title, b.Title)
	case SortFieldCreatedAt:
		return a.CreatedAt.Equal(b.CreatedAt)
	default:
		return true
	}
}
