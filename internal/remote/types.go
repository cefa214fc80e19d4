package remote

// wireProduct is the upstream catalog's product representation. The upstream
// has no creation timestamp; one is derived locally after decoding.
type wireProduct struct {
	ID                 int64    `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

// wirePage is the upstream's paginated product list envelope.
type wirePage struct {
	Products []wireProduct `json:"products"`
	Total    int           `json:"total"`
	Skip     int           `json:"skip"`
	Limit    int           `json:"limit"`
}

// wireCategory is an entry of the upstream's category listing.
type wireCategory struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
