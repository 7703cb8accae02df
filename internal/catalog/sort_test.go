package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortPriceAsc(t *testing.T) {
	got := Sort(sampleProducts(), OrderPriceAsc)
	assert.Equal(t, []int64{5, 4, 2, 1, 3}, ids(got))
}

func TestSortPriceDesc(t *testing.T) {
	got := Sort(sampleProducts(), OrderPriceDesc)
	assert.Equal(t, []int64{3, 1, 2, 4, 5}, ids(got))
}

func TestSortNameAsc(t *testing.T) {
	got := Sort(sampleProducts(), OrderNameAsc)
	assert.Equal(t, []string{"Kong", "Pedigree", "Royal Canin", "Royal Canin", "Whiskas"},
		brandsOf(got))
}

func TestSortStableOnEqualKeys(t *testing.T) {
	in := []Product{
		{ID: 1, Brand: "A", Price: 10},
		{ID: 2, Brand: "A", Price: 10},
		{ID: 3, Brand: "A", Price: 10},
	}
	got := Sort(in, OrderPriceAsc)
	assert.Equal(t, []int64{1, 2, 3}, ids(got))
}

func TestSortIdempotent(t *testing.T) {
	for _, key := range []string{OrderPriceAsc, OrderPriceDesc, OrderNameAsc, OrderNameDesc} {
		once := Sort(sampleProducts(), key)
		twice := Sort(once, key)
		assert.Equal(t, once, twice, key)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := sampleProducts()
	Sort(in, OrderPriceAsc)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(in))
}

func TestSortUnknownKeyReturnsCopy(t *testing.T) {
	in := sampleProducts()
	got := Sort(in, "shuffle")
	assert.Equal(t, ids(in), ids(got))
}

func TestValidOrder(t *testing.T) {
	assert.True(t, ValidOrder(OrderPriceAsc))
	assert.True(t, ValidOrder(OrderNameDesc))
	assert.False(t, ValidOrder(""))
	assert.False(t, ValidOrder("price"))
}

func brandsOf(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Brand)
	}
	return out
}
