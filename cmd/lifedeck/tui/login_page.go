package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"lifedeck/internal/api"
)

type authResultMsg struct {
	creds api.Credentials
	err   error
}

// LoginModel is the combined login/signup screen. Tab switches fields,
// ctrl+t switches between the two modes, enter submits.
type LoginModel struct {
	deps deps

	signup  bool
	login   *Form
	signupF *Form
	spin    spinner.Model
	busy    bool
	errText string
	notice  string

	width  int
	height int
}

func NewLoginModel(d deps) LoginModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = d.styles.Spinner
	return LoginModel{
		deps: d,
		login: NewForm([]Field{
			{Name: "email", Label: "Email   ", Placeholder: "you@example.com"},
			{Name: "password", Label: "Password", Secret: true},
		}),
		signupF: NewForm([]Field{
			{Name: "email", Label: "Email   ", Placeholder: "you@example.com"},
			{Name: "name", Label: "Name    "},
			{Name: "password", Label: "Password", Secret: true},
			{Name: "confirm", Label: "Confirm ", Secret: true},
		}),
		spin: sp,
	}
}

func (m *LoginModel) SetSize(w, h int) { m.width, m.height = w, h }

func (m LoginModel) Activate() tea.Cmd {
	return textinput.Blink
}

func (m *LoginModel) form() *Form {
	if m.signup {
		return m.signupF
	}
	return m.login
}

// validate runs the client-side checks before any request goes out.
func (m *LoginModel) validate() string {
	f := m.form()
	if f.Value("email") == "" || f.Value("password") == "" {
		return "Email and password are required."
	}
	if m.signup {
		if f.Value("name") == "" {
			return "Name is required."
		}
		if f.Value("password") != f.Value("confirm") {
			return "Passwords do not match."
		}
	}
	return ""
}

func (m LoginModel) submitCmd() tea.Cmd {
	f := m.form()
	email, password, name := f.Value("email"), f.Value("password"), f.Value("name")
	signup := m.signup
	client := m.deps.client
	timeout := m.deps.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var (
			creds api.Credentials
			err   error
		)
		if signup {
			creds, err = client.Signup(ctx, email, password, name)
		} else {
			creds, err = client.Login(ctx, email, password)
		}
		return authResultMsg{creds: creds, err: err}
	}
}

func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = api.UserMessage(msg.err)
			return m, nil
		}
		if err := m.deps.session.Login(msg.creds.Token, msg.creds.UserID, msg.creds.Name); err != nil {
			m.deps.log.Warn("session not persisted", zap.Error(err))
		}
		return m, navigate(pageDashboard)

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+t":
			m.signup = !m.signup
			m.errText = ""
			return m, nil
		case "enter":
			if problem := m.validate(); problem != "" {
				m.errText = problem
				return m, nil
			}
			m.busy = true
			m.errText = ""
			m.notice = ""
			return m, tea.Batch(m.submitCmd(), m.spin.Tick)
		}
	}

	return m, m.form().Update(msg)
}

func (m LoginModel) View() string {
	s := m.deps.styles
	title := "Sign in"
	hint := "[enter] sign in  [ctrl+t] create an account  [ctrl+c] quit"
	if m.signup {
		title = "Create account"
		hint = "[enter] sign up  [ctrl+t] back to sign in  [ctrl+c] quit"
	}

	rows := []string{
		s.Title.Render("Life Manager"),
		s.Subtitle.Render(title),
		"",
		m.form().View(s),
		"",
	}
	if m.busy {
		rows = append(rows, m.spin.View()+" working...")
	}
	if m.errText != "" {
		rows = append(rows, s.Error.Render(m.errText))
	}
	if m.notice != "" {
		rows = append(rows, s.Warning.Render(m.notice))
	}
	rows = append(rows, "", s.Muted.Render(hint))

	card := s.Card.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
