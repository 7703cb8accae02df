package catalog

import "strconv"

// Ellipsis is the truncation marker used in page label lists.
const Ellipsis = "..."

// TotalPages returns ceil(total/size), never less than 1.
func TotalPages(total, size int) int {
	if size <= 0 {
		return 1
	}
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Page slices the ordered list for a 1-based page number. Pages outside
// [1, TotalPages] are the caller's contract to reject; this function only
// clips the slice bounds so it never panics.
func Page(products []Product, size, page int) []Product {
	if size <= 0 || page < 1 {
		return []Product{}
	}
	start := (page - 1) * size
	if start >= len(products) {
		return []Product{}
	}
	end := start + size
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

// PageLabels builds the pager label row. Up to 5 pages every number is
// shown; beyond that the list is truncated with ellipsis markers, keeping
// the current page centered where possible and always showing the first
// and last page.
func PageLabels(totalPages, current int) []string {
	if totalPages <= 5 {
		labels := make([]string, 0, totalPages)
		for i := 1; i <= totalPages; i++ {
			labels = append(labels, strconv.Itoa(i))
		}
		return labels
	}

	switch {
	case current <= 3:
		// 1 2 3 4 ... N
		return []string{"1", "2", "3", "4", Ellipsis, strconv.Itoa(totalPages)}
	case current >= totalPages-2:
		// 1 ... N-3 N-2 N-1 N
		return []string{
			"1", Ellipsis,
			strconv.Itoa(totalPages - 3), strconv.Itoa(totalPages - 2), strconv.Itoa(totalPages - 1), strconv.Itoa(totalPages),
		}
	default:
		// 1 ... c-1 c c+1 ... N
		return []string{
			"1", Ellipsis,
			strconv.Itoa(current - 1), strconv.Itoa(current), strconv.Itoa(current + 1),
			Ellipsis, strconv.Itoa(totalPages),
		}
	}
}
