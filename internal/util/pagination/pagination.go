package pagination

// DefaultMaxVisible is the number of page buttons a window shows when the
// caller does not ask for a different width.
const DefaultMaxVisible = 5

// NormalizeTotal maps a reported page count onto the range the window math
// expects. An empty collection still has one (empty) page.
func NormalizeTotal(total int) int {
	if total < 1 {
		return 1
	}
	return total
}

// Clamp keeps page inside [1, total].
func Clamp(page, total int) int {
	total = NormalizeTotal(total)
	switch {
	case page < 1:
		return 1
	case page > total:
		return total
	default:
		return page
	}
}

// Offset returns the zero based index of the first item on page.
func Offset(page, size int) int {
	if page < 1 || size < 1 {
		return 0
	}
	return (page - 1) * size
}

// Window returns the ascending, contiguous page numbers to display for the
// current page. When total fits inside maxVisible every page is returned.
// Otherwise the window is maxVisible wide, centred on current and anchored
// to the first or last page when current is close to either end.
func Window(current, total, maxVisible int) []int {
	if maxVisible < 1 {
		maxVisible = DefaultMaxVisible
	}
	total = NormalizeTotal(total)
	current = Clamp(current, total)

	if total <= maxVisible {
		return pageRange(1, total)
	}

	half := maxVisible / 2
	var start int
	switch {
	case current <= half+1:
		start = 1
	case current >= total-half:
		start = total - maxVisible + 1
	default:
		start = current - half
	}
	return pageRange(start, start+maxVisible-1)
}

func pageRange(from, to int) []int {
	rv := make([]int, 0, to-from+1)
	for p := from; p <= to; p++ {
		rv = append(rv, p)
	}
	return rv
}
