package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastKind selects the toast's severity styling.
type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastWarning
	ToastError
)

// toastDuration is how long a toast stays up before auto-dismissing.
const toastDuration = 3 * time.Second

// toastExpiredMsg dismisses the toast identified by seq. The sequence
// number keeps an old timer from killing a newer toast.
type toastExpiredMsg struct {
	seq int
}

// Toast is the transient notification shown after one-shot actions. It is
// distinct from the blocking error modal, which is reserved for failed
// data loads.
type Toast struct {
	kind    ToastKind
	message string
	visible bool
	seq     int
}

// Show replaces the current toast and arms its auto-dismiss timer.
func (t *Toast) Show(kind ToastKind, message string) tea.Cmd {
	t.kind = kind
	t.message = message
	t.visible = true
	t.seq++

	seq := t.seq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// Update handles the expiry message. Other messages pass through untouched.
func (t *Toast) Update(msg tea.Msg) {
	if expired, ok := msg.(toastExpiredMsg); ok && expired.seq == t.seq {
		t.visible = false
	}
}

// Dismiss hides the toast immediately.
func (t *Toast) Dismiss() {
	t.visible = false
}

// Visible reports whether the toast should be rendered.
func (t *Toast) Visible() bool { return t.visible }

// View renders the toast, empty when hidden.
func (t *Toast) View(styles Styles) string {
	if !t.visible {
		return ""
	}
	switch t.kind {
	case ToastSuccess:
		return styles.Success.Render("✓ " + t.message)
	case ToastWarning:
		return styles.Warning.Render("! " + t.message)
	default:
		return styles.Error.Render("✗ " + t.message)
	}
}
