package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"lifedeck/internal/api"
)

// pageID identifies the active screen.
type pageID int

const (
	pageLogin pageID = iota
	pageDashboard
	pageSchedules
	pageTransactions
	pageProfile
)

// navigateMsg switches the active page.
type navigateMsg struct {
	to pageID
}

// unauthorizedMsg forces the app back to the login screen. By the time it
// is emitted the API client has already cleared the session.
type unauthorizedMsg struct{}

func navigate(to pageID) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

// authFailed converts a 401 from any request into the app-level
// unauthorized signal. Pages call it first on every error path.
func authFailed(err error) (tea.Cmd, bool) {
	if errors.Is(err, api.ErrUnauthorized) {
		return func() tea.Msg { return unauthorizedMsg{} }, true
	}
	return nil, false
}
