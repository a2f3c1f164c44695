package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"lifedeck/cmd/lifedeck/ui"
	"lifedeck/internal/api"
	"lifedeck/internal/core"
)

type profileLoadedMsg struct {
	user core.User
	err  error
}

type profileSavedMsg struct {
	user core.User
	err  error
}

type passwordChangedMsg struct {
	err error
}

type profileMode int

const (
	profView profileMode = iota
	profEditName
	profEditPassword
)

// ProfileModel shows the signed-in account and lets the user rename it or
// change the password.
type ProfileModel struct {
	deps deps

	mode    profileMode
	user    core.User
	loading bool
	errText string

	nameForm *Form
	passForm *Form

	spin  spinner.Model
	toast ui.Toast

	width  int
	height int
}

func NewProfileModel(d deps) ProfileModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = d.styles.Spinner
	return ProfileModel{
		deps: d,
		nameForm: NewForm([]Field{
			{Name: "name", Label: "Name", Placeholder: "display name"},
		}),
		passForm: NewForm([]Field{
			{Name: "current", Label: "Current password", Secret: true},
			{Name: "new", Label: "New password    ", Secret: true},
			{Name: "confirm", Label: "Confirm         ", Secret: true},
		}),
		spin: sp,
	}
}

func (m *ProfileModel) SetSize(w, h int) { m.width, m.height = w, h }

func (m *ProfileModel) Activate() tea.Cmd {
	m.mode = profView
	m.loading = true
	m.errText = ""
	return tea.Batch(m.loadCmd(), m.spin.Tick)
}

func (m ProfileModel) loadCmd() tea.Cmd {
	client := m.deps.client
	userID := m.deps.session.Get().UserID
	timeout := m.deps.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		user, err := client.Me(ctx, userID)
		return profileLoadedMsg{user: user, err: err}
	}
}

func (m ProfileModel) renameCmd(name string) tea.Cmd {
	client := m.deps.client
	userID := m.deps.session.Get().UserID
	timeout := m.deps.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		user, err := client.UpdateMe(ctx, userID, name)
		return profileSavedMsg{user: user, err: err}
	}
}

func (m ProfileModel) changePasswordCmd(current, next string) tea.Cmd {
	client := m.deps.client
	userID := m.deps.session.Get().UserID
	timeout := m.deps.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return passwordChangedMsg{err: client.ChangePassword(ctx, userID, current, next)}
	}
}

func (m ProfileModel) Update(msg tea.Msg) (ProfileModel, tea.Cmd) {
	m.toast.Update(msg)

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if cmd, ok := authFailed(msg.err); ok {
				return m, cmd
			}
			m.errText = api.UserMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.user = msg.user
		return m, nil

	case profileSavedMsg:
		if msg.err != nil {
			if cmd, ok := authFailed(msg.err); ok {
				return m, cmd
			}
			return m, m.toast.Show(ui.ToastError, api.UserMessage(msg.err))
		}
		m.user = msg.user
		m.mode = profView
		// Keep the header and the persisted session in step with the
		// rename.
		sess := m.deps.session.Get()
		if err := m.deps.session.Login(sess.Token, sess.UserID, msg.user.Name); err != nil {
			m.deps.log.Warn("session not persisted", zap.Error(err))
		}
		return m, m.toast.Show(ui.ToastSuccess, "Profile updated.")

	case passwordChangedMsg:
		if msg.err != nil {
			if cmd, ok := authFailed(msg.err); ok {
				return m, cmd
			}
			return m, m.toast.Show(ui.ToastError, api.UserMessage(msg.err))
		}
		m.mode = profView
		m.passForm.Reset()
		return m, m.toast.Show(ui.ToastSuccess, "Password changed.")

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m ProfileModel) handleKey(msg tea.KeyMsg) (ProfileModel, tea.Cmd) {
	switch m.mode {
	case profEditName:
		switch msg.String() {
		case "esc":
			m.mode = profView
			return m, nil
		case "enter":
			name := m.nameForm.Value("name")
			if name == "" {
				return m, m.toast.Show(ui.ToastWarning, "Name is required.")
			}
			return m, m.renameCmd(name)
		}
		return m, m.nameForm.Update(msg)

	case profEditPassword:
		switch msg.String() {
		case "esc":
			m.mode = profView
			m.passForm.Reset()
			return m, nil
		case "enter":
			current := m.passForm.Value("current")
			next := m.passForm.Value("new")
			confirm := m.passForm.Value("confirm")
			if current == "" || next == "" {
				return m, m.toast.Show(ui.ToastWarning, "All password fields are required.")
			}
			if next != confirm {
				return m, m.toast.Show(ui.ToastWarning, "Passwords do not match.")
			}
			return m, m.changePasswordCmd(current, next)
		}
		return m, m.passForm.Update(msg)
	}

	if m.errText != "" {
		switch msg.String() {
		case "r":
			return m, m.Activate()
		case "esc", "b":
			return m, navigate(pageDashboard)
		}
		return m, nil
	}

	switch msg.String() {
	case "n":
		m.nameForm.Reset()
		m.nameForm.SetValue("name", m.user.Name)
		m.mode = profEditName
	case "p":
		m.passForm.Reset()
		m.mode = profEditPassword
	case "r":
		return m, m.Activate()
	case "esc", "b":
		return m, navigate(pageDashboard)
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m ProfileModel) View() string {
	s := m.deps.styles
	header := ui.HeaderView(s, "Profile", m.deps.session.Get().UserName, m.width)

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			ui.LoadingView(s, m.spin.View(), m.width, m.height-1))
	}
	if m.errText != "" {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			ui.ErrorModalView(s, m.errText, false, m.width, m.height-1))
	}

	switch m.mode {
	case profEditName:
		body := lipgloss.JoinVertical(lipgloss.Left,
			s.Subtitle.Render("Rename account"),
			"",
			m.nameForm.View(s),
			"",
			s.Muted.Render("[enter] save  [esc] cancel"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, s.Modal.Render(body)),
			m.toast.View(s))
	case profEditPassword:
		body := lipgloss.JoinVertical(lipgloss.Left,
			s.Subtitle.Render("Change password"),
			"",
			m.passForm.View(s),
			"",
			s.Muted.Render("[enter] save  [esc] cancel  [tab] next field"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, s.Modal.Render(body)),
			m.toast.View(s))
	}

	card := s.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.Subtitle.Render("Account"),
		s.Body.Render("Name   "+m.user.Name),
		s.Body.Render("Email  "+m.user.Email),
	))
	footer := s.Footer.Render("[n] rename  [p] change password  [r] refresh  [b] back  [q] quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, card, m.toast.View(s), footer)
}
