package state

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// View filters products by a case-insensitive substring of the name and
// orders them by key. Ties keep their input order. The input is never modified.
func View(products []domain.Product, search string, key domain.SortKey) []domain.Product {
	fold := cases.Fold()
	needle := fold.String(search)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if needle == "" || strings.Contains(fold.String(p.Name), needle) {
			out = append(out, p)
		}
	}

	switch key {
	case domain.SortPriceAsc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case domain.SortPriceDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		})
	case domain.SortNameAsc, domain.SortNameDesc:
		// Collator is not safe for concurrent use
		c := collate.New(language.English)
		sign := 1
		if key == domain.SortNameDesc {
			sign = -1
		}
		slices.SortStableFunc(out, func(a, b domain.Product) int {
			return sign * c.CompareString(a.Name, b.Name)
		})
	}

	return out
}
