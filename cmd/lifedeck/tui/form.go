package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lifedeck/cmd/lifedeck/ui"
	"lifedeck/internal/core"
)

// FieldKind distinguishes text fields from boolean toggles.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldBool
)

// Field describes one form field.
type Field struct {
	Name        string
	Label       string
	Kind        FieldKind
	Placeholder string
	Secret      bool
}

// Form is the generic field-state holder behind every create/edit form:
// ordered fields, per-field values, focus cycling, reset. Boolean fields
// toggle with space; ToggleHook lets a page special-case a toggle's side
// effects.
type Form struct {
	fields  []Field
	inputs  []textinput.Model
	bools   map[string]bool
	focus   int
	initial map[string]string

	// ToggleHook runs after a boolean field changes, with the new state.
	ToggleHook func(f *Form, name string, on bool)
}

// NewForm builds a form over the given fields, focusing the first one.
func NewForm(fields []Field) *Form {
	f := &Form{
		fields:  fields,
		inputs:  make([]textinput.Model, len(fields)),
		bools:   make(map[string]bool),
		initial: make(map[string]string),
	}
	for i, field := range fields {
		in := textinput.New()
		in.Placeholder = field.Placeholder
		in.CharLimit = 256
		if field.Secret {
			in.EchoMode = textinput.EchoPassword
		}
		f.inputs[i] = in
	}
	if len(f.inputs) > 0 && fields[0].Kind == FieldText {
		f.inputs[0].Focus()
	}
	return f
}

// Value returns a text field's trimmed value.
func (f *Form) Value(name string) string {
	for i, field := range f.fields {
		if field.Name == name {
			return strings.TrimSpace(f.inputs[i].Value())
		}
	}
	return ""
}

// BoolValue returns a boolean field's state.
func (f *Form) BoolValue(name string) bool {
	return f.bools[name]
}

// SetValue sets a text field.
func (f *Form) SetValue(name, value string) {
	for i, field := range f.fields {
		if field.Name == name {
			f.inputs[i].SetValue(value)
			return
		}
	}
}

// SetBool sets a boolean field without running the toggle hook.
func (f *Form) SetBool(name string, on bool) {
	f.bools[name] = on
}

// SetValues fills several text fields at once, e.g. when editing.
func (f *Form) SetValues(values map[string]string) {
	for name, v := range values {
		f.SetValue(name, v)
	}
}

// Reset clears every field and returns focus to the first one.
func (f *Form) Reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.bools = make(map[string]bool)
	f.focus = 0
	if len(f.fields) > 0 && f.fields[0].Kind == FieldText {
		f.inputs[0].Focus()
	}
}

// Next moves focus to the following field, wrapping around.
func (f *Form) Next() { f.moveFocus(1) }

// Prev moves focus to the preceding field, wrapping around.
func (f *Form) Prev() { f.moveFocus(-1) }

func (f *Form) moveFocus(delta int) {
	if len(f.fields) == 0 {
		return
	}
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	if f.fields[f.focus].Kind == FieldText {
		f.inputs[f.focus].Focus()
	}
}

// Toggle flips the focused boolean field and runs the toggle hook.
func (f *Form) Toggle() {
	field := f.fields[f.focus]
	if field.Kind != FieldBool {
		return
	}
	f.bools[field.Name] = !f.bools[field.Name]
	if f.ToggleHook != nil {
		f.ToggleHook(f, field.Name, f.bools[field.Name])
	}
}

// Update routes key events: tab/shift+tab cycle focus, space toggles
// booleans, everything else feeds the focused text input.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.Next()
			return nil
		case "shift+tab", "up":
			f.Prev()
			return nil
		case " ":
			if f.fields[f.focus].Kind == FieldBool {
				f.Toggle()
				return nil
			}
		}
	}
	if f.fields[f.focus].Kind != FieldText {
		return nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// View renders labels and inputs stacked vertically.
func (f *Form) View(styles ui.Styles) string {
	rows := make([]string, 0, len(f.fields))
	for i, field := range f.fields {
		label := styles.Muted.Render(field.Label)
		if i == f.focus {
			label = styles.Prompt.Render(field.Label)
		}
		var value string
		if field.Kind == FieldBool {
			box := "[ ]"
			if f.bools[field.Name] {
				box = "[x]"
			}
			value = styles.Body.Render(box)
		} else {
			value = f.inputs[i].View()
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, label+" ", value))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// AllDayHook returns the toggle hook for the schedule form's "all day"
// switch: turning it on rewrites the start/end fields to span the whole
// day already selected in startField, defaulting to today.
func AllDayHook(startField, endField string, now func() time.Time) func(*Form, string, bool) {
	return func(f *Form, name string, on bool) {
		if !on {
			return
		}
		day := now()
		if v := f.Value(startField); v != "" {
			if t, err := time.Parse(core.DatetimeLayout, v); err == nil {
				day = t
			}
		}
		start, end := core.AllDaySpan(day)
		f.SetValue(startField, start)
		f.SetValue(endField, end)
	}
}
