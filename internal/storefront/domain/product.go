package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an affiliate product listed in the storefront.
// Products are immutable once fetched from the backend.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ImageURL      string          `json:"image_url"`
	Price         decimal.Decimal `json:"price"`
	AffiliateLink string          `json:"affiliate_link"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

// DisplayPrice formats the price the way the storefront shows it
func (p Product) DisplayPrice() string {
	return "$" + p.Price.StringFixed(2)
}

// SortKey selects the ordering applied to the product grid
type SortKey string

// Sort keys
const (
	SortDefault   SortKey = "default"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

// SortKeys lists every sort key in the order the grid cycles through them
var SortKeys = []SortKey{SortDefault, SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc}

// ParseSortKey converts a raw string into a SortKey
func ParseSortKey(raw string) (SortKey, error) {
	for _, k := range SortKeys {
		if string(k) == raw {
			return k, nil
		}
	}
	return SortDefault, &Error{Kind: KindValidation, Op: "parse sort key", Message: "unknown sort key: " + raw}
}

// Label returns the human readable name of the sort key
func (k SortKey) Label() string {
	switch k {
	case SortPriceAsc:
		return "Price: Low to High"
	case SortPriceDesc:
		return "Price: High to Low"
	case SortNameAsc:
		return "Name: A-Z"
	case SortNameDesc:
		return "Name: Z-A"
	default:
		return "Default"
	}
}

// Next returns the sort key following k in SortKeys, wrapping around
func (k SortKey) Next() SortKey {
	for i, candidate := range SortKeys {
		if candidate == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortDefault
}
