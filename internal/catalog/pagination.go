// internal/catalog/pagination.go
package catalog

// Ellipsis is the marker placed in a page strip where a gap exists
// between the contiguous window and the first or last page.
const Ellipsis = -1

// CurrentPage converts a zero-based item offset into a one-based page
// number.
func CurrentPage(offset, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	return offset/pageSize + 1
}

// TotalPages is the number of pages needed for count items.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// ShowPagination reports whether a pagination control should render at
// all: it is suppressed whenever the results fit on one page.
func ShowPagination(count, pageSize int) bool {
	return count > pageSize
}

// PageStrip returns up to 5 contiguous page numbers centered on current
// and clamped to [1, total], with the first and last page prepended or
// appended when they fall outside the window and an Ellipsis marker
// wherever the window does not reach them directly.
func PageStrip(current, total int) []int {
	if total <= 0 {
		return nil
	}

	start := current - 2
	end := current + 2
	if current <= 3 {
		start = 1
		end = 5
	} else if current > total-3 {
		start = total - 4
		end = total
	}
	if start < 1 {
		start = 1
	}
	if end > total {
		end = total
	}

	strip := make([]int, 0, end-start+5)
	if start > 1 {
		strip = append(strip, 1)
		if start > 2 {
			strip = append(strip, Ellipsis)
		}
	}
	for page := start; page <= end; page++ {
		strip = append(strip, page)
	}
	if end < total {
		if end < total-1 {
			strip = append(strip, Ellipsis)
		}
		strip = append(strip, total)
	}
	return strip
}
