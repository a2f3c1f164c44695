package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LoadingView renders the blocking full-screen loading indicator. A single
// boolean drives it; in-flight requests are never counted or stacked.
func LoadingView(styles Styles, spinnerView string, width, height int) string {
	body := styles.Modal.Render(spinnerView + " Loading...")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// ErrorModalView renders the blocking error modal used for failed data
// loads. danger switches to the high-severity frame used for data-loss
// failures.
func ErrorModalView(styles Styles, message string, danger bool, width, height int) string {
	frame := styles.Modal
	title := styles.Error.Render("Something went wrong")
	if danger {
		frame = styles.ModalDanger
		title = styles.Error.Render("Data was lost")
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		styles.Body.Render(message),
		"",
		styles.Muted.Render("[r] retry  [esc] dismiss"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// ConfirmView renders the yes/no confirmation prompt used before deletes
// and future-dated entries.
func ConfirmView(styles Styles, question string, width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.Bold.Render(question),
		"",
		styles.Muted.Render("[y] yes  [n] no"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, styles.Modal.Render(body))
}

// HeaderView renders the top bar with the app name, the active page title
// and the signed-in user's name.
func HeaderView(styles Styles, title, userName string, width int) string {
	left := "Life Manager"
	if title != "" {
		left += " · " + title
	}
	right := userName
	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	return styles.Header.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
