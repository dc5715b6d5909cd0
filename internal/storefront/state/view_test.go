package state

import (
	"fmt"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

func product(id, name, price string) domain.Product {
	return domain.Product{ID: id, Name: name, Price: decimal.RequireFromString(price)}
}

func names(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestView_PriceDescending(t *testing.T) {
	catalog := []domain.Product{product("1", "Mouse", "80"), product("2", "Keyboard", "150")}

	assert.Equal(t, []string{"Keyboard", "Mouse"}, names(View(catalog, "", domain.SortPriceDesc)))
	assert.Equal(t, []string{"Mouse", "Keyboard"}, names(View(catalog, "", domain.SortPriceAsc)))
}

func TestView_Filter(t *testing.T) {
	catalog := []domain.Product{
		product("1", "Mechanical Keyboard", "150"),
		product("2", "Wireless Mouse", "80"),
		product("3", "KEYCAP set", "25"),
		product("4", "Straße Runner", "60"),
	}

	tests := []struct {
		search string
		want   []string
	}{
		{"", []string{"1", "2", "3", "4"}},
		{"key", []string{"1", "3"}},
		{"KEY", []string{"1", "3"}},
		{"mouse", []string{"2"}},
		{"strasse", []string{"4"}},
		{"nothing", []string{}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("search=%q", tt.search), func(t *testing.T) {
			for _, key := range domain.SortKeys {
				got := ids(View(catalog, tt.search, key))
				assert.ElementsMatch(t, tt.want, got, "sort key %s", key)
			}
		})
	}
}

func TestView_Permutation(t *testing.T) {
	catalog := []domain.Product{
		product("1", "b", "10"),
		product("2", "a", "10"),
		product("3", "c", "5"),
		product("4", "a", "20"),
		product("5", "B", "10"),
	}

	for _, key := range domain.SortKeys {
		got := View(catalog, "", key)
		require.Len(t, got, len(catalog), "sort key %s", key)
		assert.ElementsMatch(t, ids(catalog), ids(got), "sort key %s", key)
		assert.Equal(t, ids(got), ids(View(catalog, "", key)), "repeated calls agree for %s", key)
	}
}

func TestView_StableTies(t *testing.T) {
	catalog := []domain.Product{
		product("1", "Same", "10"),
		product("2", "Same", "10"),
		product("3", "Cheap", "5"),
		product("4", "Same", "10"),
	}

	assert.Equal(t, []string{"3", "1", "2", "4"}, ids(View(catalog, "", domain.SortPriceAsc)))
	assert.Equal(t, []string{"1", "2", "4", "3"}, ids(View(catalog, "", domain.SortPriceDesc)))
	assert.Equal(t, []string{"3", "1", "2", "4"}, ids(View(catalog, "", domain.SortNameAsc)))
	assert.Equal(t, []string{"1", "2", "4", "3"}, ids(View(catalog, "", domain.SortNameDesc)))
}

func TestView_NameCollation(t *testing.T) {
	catalog := []domain.Product{
		product("1", "cherry", "1"),
		product("2", "Banana", "1"),
		product("3", "apple", "1"),
	}

	assert.Equal(t, []string{"apple", "Banana", "cherry"}, names(View(catalog, "", domain.SortNameAsc)))
	assert.Equal(t, []string{"cherry", "Banana", "apple"}, names(View(catalog, "", domain.SortNameDesc)))
}

func TestView_DecimalPrices(t *testing.T) {
	catalog := []domain.Product{product("1", "a", "9.99"), product("2", "b", "10.00"), product("3", "c", "100")}

	assert.Equal(t, []string{"3", "2", "1"}, ids(View(catalog, "", domain.SortPriceDesc)))
}

func TestView_DoesNotMutateInput(t *testing.T) {
	catalog := []domain.Product{product("1", "b", "2"), product("2", "a", "1")}
	before := slices.Clone(catalog)

	got := View(catalog, "", domain.SortNameAsc)
	assert.Equal(t, before, catalog)

	got[0].Name = "changed"
	assert.Equal(t, before, catalog)

	def := View(catalog, "", domain.SortDefault)
	assert.Equal(t, ids(catalog), ids(def))
	def[0] = product("x", "x", "0")
	assert.Equal(t, before, catalog)
}
