package ui

import (
	"fmt"
	"strings"
)

// maxVisiblePages is how many numbered page buttons the bar shows at once.
const maxVisiblePages = 5

// PageWindow returns the zero-based page numbers the bar should display: a
// window of up to maxVisible pages centered on current and clamped to the
// valid range.
func PageWindow(current, totalPages, maxVisible int) []int {
	if totalPages <= 0 || maxVisible <= 0 {
		return nil
	}

	start := current - maxVisible/2
	if start < 0 {
		start = 0
	}
	end := start + maxVisible - 1
	if end > totalPages-1 {
		end = totalPages - 1
		if end-maxVisible+1 > 0 {
			start = end - maxVisible + 1
		} else {
			start = 0
		}
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// PaginationView renders the bar: total count on the left, the page window
// in the middle (only when there is more than one page), and "page X / Y"
// on the right.
func PaginationView(styles Styles, current, totalPages, totalElements int) string {
	var b strings.Builder
	b.WriteString(styles.Muted.Render(fmt.Sprintf("%d items", totalElements)))

	if totalPages > 1 {
		b.WriteString("   ")
		b.WriteString(styles.Muted.Render("«‹"))
		for _, p := range PageWindow(current, totalPages, maxVisiblePages) {
			label := fmt.Sprintf(" %d ", p+1)
			if p == current {
				b.WriteString(styles.Selected.Render(label))
			} else {
				b.WriteString(styles.Body.Render(label))
			}
		}
		b.WriteString(styles.Muted.Render("›»"))
	}

	if totalPages > 0 {
		b.WriteString("   ")
		b.WriteString(styles.Muted.Render(fmt.Sprintf("page %d / %d", current+1, totalPages)))
	}
	return b.String()
}
