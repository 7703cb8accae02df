package catalog

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	OrderPriceAsc  = "price-asc"
	OrderPriceDesc = "price-desc"
	OrderNameAsc   = "name-asc"
	OrderNameDesc  = "name-desc"
)

// Sort returns a new list ordered by the given key: numeric on price,
// locale-aware collation on brand. The sort is stable, so equal keys keep
// their incoming relative order and sorting twice is a fixed point.
// Unknown keys return an unmodified copy.
func Sort(products []Product, key string) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	switch key {
	case OrderPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case OrderPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case OrderNameAsc:
		cl := collate.New(language.Spanish)
		sort.SliceStable(out, func(i, j int) bool { return cl.CompareString(out[i].Brand, out[j].Brand) < 0 })
	case OrderNameDesc:
		cl := collate.New(language.Spanish)
		sort.SliceStable(out, func(i, j int) bool { return cl.CompareString(out[i].Brand, out[j].Brand) > 0 })
	}
	return out
}

// ValidOrder reports whether key is one of the supported sort orders.
func ValidOrder(key string) bool {
	switch key {
	case OrderPriceAsc, OrderPriceDesc, OrderNameAsc, OrderNameDesc:
		return true
	}
	return false
}
