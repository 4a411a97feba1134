package listing

// Gap marks elided pages in a PageWindow.
const Gap = 0

// maxFullWindow is the largest page count shown without gaps.
const maxFullWindow = 5

// TotalPages returns how many pages of size hold total rows.
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// PageWindow returns the page numbers to offer for navigation, with Gap
// standing in for skipped runs. Up to five pages are listed in full. Beyond
// that the window is 1 2 3 4 … N near the start, 1 … N-3 N-2 N-1 N near the
// end and 1 … p-1 p p+1 … N in between.
func PageWindow(page, totalPages int) []int {
	if totalPages <= 0 {
		return []int{}
	}
	if totalPages <= maxFullWindow {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	switch {
	case page <= 3:
		return []int{1, 2, 3, 4, Gap, totalPages}
	case page >= totalPages-2:
		return []int{1, Gap, totalPages - 3, totalPages - 2, totalPages - 1, totalPages}
	default:
		return []int{1, Gap, page - 1, page, page + 1, Gap, totalPages}
	}
}
