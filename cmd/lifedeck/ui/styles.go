// Package ui provides the visual styling and stateless widgets for the
// lifedeck terminal interface.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. The accent colors follow the Life Manager web app:
// blue for primary actions, green for income, red for expense.
var (
	// Light mode
	LightForeground = lipgloss.Color("#1F2937")
	LightMuted      = lipgloss.Color("#6B7280")
	LightBorder     = lipgloss.Color("#D1D5DB")
	LightCard       = lipgloss.Color("#FFFFFF")

	// Dark mode
	DarkForeground = lipgloss.Color("#F3F4F6")
	DarkMuted      = lipgloss.Color("#9CA3AF")
	DarkBorder     = lipgloss.Color("#374151")
	DarkCard       = lipgloss.Color("#1F2937")

	// Semantic colors (same in both modes)
	Primary = lipgloss.Color("#3B82F6") // blue
	Income  = lipgloss.Color("#16A34A") // green
	Expense = lipgloss.Color("#DC2626") // red
	Warn    = lipgloss.Color("#F59E0B") // amber
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// DetectTheme picks dark mode when LIFEDECK_DARK_MODE=1, light otherwise.
func DetectTheme() Theme {
	if os.Getenv("LIFEDECK_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style
	Card    lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Domain
	IncomeAmount  lipgloss.Style
	ExpenseAmount lipgloss.Style
	CategoryTag   lipgloss.Style

	// Interactive
	Selected lipgloss.Style
	Prompt   lipgloss.Style

	// Overlays
	Modal       lipgloss.Style
	ModalDanger lipgloss.Style
	Spinner     lipgloss.Style
}

// NewStyles creates a Styles instance for the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(Primary).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Income).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Expense).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warn).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Primary),

		IncomeAmount: lipgloss.NewStyle().
			Foreground(Income),

		ExpenseAmount: lipgloss.NewStyle().
			Foreground(Expense),

		CategoryTag: lipgloss.NewStyle().
			Background(theme.Border).
			Foreground(theme.Foreground).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Background(Primary).
			Foreground(lipgloss.Color("#FFFFFF")),

		Prompt: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 3),

		ModalDanger: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(Expense).
			Padding(1, 3),

		Spinner: lipgloss.NewStyle().
			Foreground(Primary),
	}
}

// DefaultStyles creates styles with the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
