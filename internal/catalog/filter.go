package catalog

import "github.com/spf13/cast"

// Selection carries the storefront filter panel state. Empty sets impose
// no constraint. Weights are the raw presentation labels ("3", "7.5");
// they are compared against the product weight by decimal value.
type Selection struct {
	Brands  []string `json:"brands"`
	Weights []string `json:"weights"`
}

func (s Selection) matchBrand(brand string) bool {
	if len(s.Brands) == 0 {
		return true
	}
	for _, b := range s.Brands {
		if b == brand {
			return true
		}
	}
	return false
}

func (s Selection) matchWeight(weight *float64) bool {
	if len(s.Weights) == 0 {
		return true
	}
	if weight == nil {
		return false
	}
	for _, w := range s.Weights {
		if v, err := cast.ToFloat64E(w); err == nil && v == *weight {
			return true
		}
	}
	return false
}

// Filter returns the order-preserving subset of products matching the
// category, subcategory and selection. An empty result is valid.
func Filter(products []Product, category, subcategory string, sel Selection) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category != category || p.Subcategory != subcategory {
			continue
		}
		if !sel.matchBrand(p.Brand) {
			continue
		}
		if !sel.matchWeight(p.Weight) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Brands returns the distinct brand labels of products, in first-seen order.
func Brands(products []Product) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range products {
		if !seen[p.Brand] {
			seen[p.Brand] = true
			out = append(out, p.Brand)
		}
	}
	return out
}

// Weights returns the distinct weight labels of products, in first-seen order.
func Weights(products []Product) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range products {
		if p.Weight == nil {
			continue
		}
		label := cast.ToString(*p.Weight)
		if !seen[label] {
			seen[label] = true
			out = append(out, label)
		}
	}
	return out
}
