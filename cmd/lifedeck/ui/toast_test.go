package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToastLifecycle(t *testing.T) {
	styles := NewStyles(LightTheme())

	var toast Toast
	assert.False(t, toast.Visible())
	assert.Empty(t, toast.View(styles))

	cmd := toast.Show(ToastSuccess, "schedule created")
	require.NotNil(t, cmd)
	assert.True(t, toast.Visible())
	assert.Contains(t, toast.View(styles), "schedule created")

	// The timer for the current toast fires and hides it.
	toast.Update(toastExpiredMsg{seq: toast.seq})
	assert.False(t, toast.Visible())
}

func TestStaleExpiryDoesNotKillNewerToast(t *testing.T) {
	var toast Toast
	_ = toast.Show(ToastSuccess, "first")
	firstSeq := toast.seq
	_ = toast.Show(ToastWarning, "second")

	toast.Update(toastExpiredMsg{seq: firstSeq})
	assert.True(t, toast.Visible(), "the first toast's timer must not dismiss the second")

	toast.Update(toastExpiredMsg{seq: toast.seq})
	assert.False(t, toast.Visible())
}

func TestDismiss(t *testing.T) {
	var toast Toast
	_ = toast.Show(ToastError, "save failed")
	toast.Dismiss()
	assert.False(t, toast.Visible())
}

func TestToastKindsRenderDistinctly(t *testing.T) {
	styles := NewStyles(LightTheme())

	var toast Toast
	_ = toast.Show(ToastSuccess, "done")
	assert.Contains(t, toast.View(styles), "✓")
	_ = toast.Show(ToastWarning, "careful")
	assert.Contains(t, toast.View(styles), "!")
	_ = toast.Show(ToastError, "broken")
	assert.Contains(t, toast.View(styles), "✗")
}
