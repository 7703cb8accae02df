package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kg(v float64) *float64 { return &v }

func sampleProducts() []Product {
	return []Product{
		{ID: 1, Brand: "Royal Canin", Price: 120, Weight: kg(3), Category: "perro", Subcategory: "alimento"},
		{ID: 2, Brand: "Pedigree", Price: 80, Weight: kg(7.5), Category: "perro", Subcategory: "alimento"},
		{ID: 3, Brand: "Royal Canin", Price: 200, Weight: kg(15), Category: "perro", Subcategory: "alimento"},
		{ID: 4, Brand: "Whiskas", Price: 60, Weight: kg(3), Category: "gato", Subcategory: "alimento"},
		{ID: 5, Brand: "Kong", Price: 45, Weight: nil, Category: "perro", Subcategory: "juguete"},
	}
}

func TestFilterByCategoryAndSubcategory(t *testing.T) {
	got := Filter(sampleProducts(), "perro", "alimento", Selection{})
	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
}

func TestFilterByBrand(t *testing.T) {
	sel := Selection{Brands: []string{"Royal Canin"}}
	got := Filter(sampleProducts(), "perro", "alimento", sel)
	assert.Equal(t, []int64{1, 3}, ids(got))
	for _, p := range got {
		assert.Equal(t, "Royal Canin", p.Brand)
	}
}

func TestFilterByWeightLabel(t *testing.T) {
	// Labels are compared by decimal value, not string equality.
	sel := Selection{Weights: []string{"3.0"}}
	got := Filter(sampleProducts(), "perro", "alimento", sel)
	assert.Equal(t, []int64{1}, ids(got))
}

func TestFilterWeightExcludesNil(t *testing.T) {
	sel := Selection{Weights: []string{"3"}}
	got := Filter(sampleProducts(), "perro", "juguete", sel)
	assert.Empty(t, got)
}

func TestFilterEmptyResultIsValid(t *testing.T) {
	sel := Selection{Brands: []string{"NoSuchBrand"}}
	got := Filter(sampleProducts(), "perro", "alimento", sel)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilterPreservesOrder(t *testing.T) {
	got := Filter(sampleProducts(), "perro", "alimento", Selection{Brands: []string{"Royal Canin", "Pedigree"}})
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
}

func TestBrandFacetsFirstSeenOrder(t *testing.T) {
	subset := Filter(sampleProducts(), "perro", "alimento", Selection{})
	assert.Equal(t, []string{"Royal Canin", "Pedigree"}, Brands(subset))
	assert.Equal(t, []string{"3", "7.5", "15"}, Weights(subset))
}

func ids(products []Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
