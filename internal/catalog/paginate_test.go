package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeProducts(n int) []Product {
	out := make([]Product, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Product{ID: int64(i), Description: fmt.Sprintf("item %d", i)})
	}
	return out
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 8))
	assert.Equal(t, 1, TotalPages(8, 8))
	assert.Equal(t, 2, TotalPages(9, 8))
	assert.Equal(t, 3, TotalPages(21, 8))
	assert.Equal(t, 1, TotalPages(5, 0))
}

func TestPageLastPartialPage(t *testing.T) {
	products := makeProducts(21)
	require.Equal(t, 3, TotalPages(len(products), 8))

	last := Page(products, 8, 3)
	require.Len(t, last, 5)
	assert.Equal(t, int64(17), last[0].ID)
	assert.Equal(t, int64(21), last[4].ID)
}

func TestPagePartitionIsExact(t *testing.T) {
	products := makeProducts(21)
	size := 8
	var seen []int64
	for p := 1; p <= TotalPages(len(products), size); p++ {
		page := Page(products, size, p)
		assert.LessOrEqual(t, len(page), size)
		seen = append(seen, ids(page)...)
	}
	assert.Equal(t, ids(products), seen)
}

func TestPageOutOfBoundsIsEmpty(t *testing.T) {
	products := makeProducts(10)
	assert.Empty(t, Page(products, 8, 0))
	assert.Empty(t, Page(products, 8, 5))
	assert.Empty(t, Page(products, 0, 1))
	assert.Empty(t, Page(nil, 8, 1))
}

func TestPageLabelsShort(t *testing.T) {
	assert.Equal(t, []string{"1"}, PageLabels(1, 1))
	assert.Equal(t, []string{"1", "2", "3"}, PageLabels(3, 2))
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, PageLabels(5, 5))
}

func TestPageLabelsTruncated(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3", "4", "...", "9"}, PageLabels(9, 1))
	assert.Equal(t, []string{"1", "2", "3", "4", "...", "9"}, PageLabels(9, 3))
	assert.Equal(t, []string{"1", "...", "4", "5", "6", "...", "9"}, PageLabels(9, 5))
	assert.Equal(t, []string{"1", "...", "6", "7", "8", "9"}, PageLabels(9, 7))
	assert.Equal(t, []string{"1", "...", "6", "7", "8", "9"}, PageLabels(9, 9))
}

func TestPageLabelsAlwaysBracketed(t *testing.T) {
	for total := 6; total <= 12; total++ {
		for current := 1; current <= total; current++ {
			labels := PageLabels(total, current)
			require.NotEmpty(t, labels)
			assert.Equal(t, "1", labels[0])
			assert.Equal(t, fmt.Sprint(total), labels[len(labels)-1])
		}
	}
}
