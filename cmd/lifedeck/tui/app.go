// Package tui is the interactive terminal interface: one bubbletea model
// per page (login, dashboard, schedules, transactions, profile) behind an
// app-level router that owns navigation, the session guard and the global
// 401 handling.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"lifedeck/cmd/lifedeck/ui"
	"lifedeck/internal/api"
	"lifedeck/internal/config"
	"lifedeck/internal/session"
)

// deps bundles what every page needs.
type deps struct {
	cfg     *config.Config
	client  *api.Client
	session *session.Store
	styles  ui.Styles
	log     *zap.Logger
	now     func() time.Time
}

// App is the root model routing between pages.
type App struct {
	deps   deps
	active pageID

	login        LoginModel
	dashboard    DashboardModel
	schedules    SchedulesModel
	transactions TransactionsModel
	profile      ProfileModel

	width  int
	height int
}

// NewApp wires the pages. The starting page depends on whether a session
// is already persisted.
func NewApp(cfg *config.Config, client *api.Client, store *session.Store, log *zap.Logger) App {
	d := deps{
		cfg:     cfg,
		client:  client,
		session: store,
		styles:  ui.DefaultStyles(),
		log:     log,
		now:     time.Now,
	}
	app := App{
		deps:         d,
		active:       pageLogin,
		login:        NewLoginModel(d),
		dashboard:    NewDashboardModel(d),
		schedules:    NewSchedulesModel(d),
		transactions: NewTransactionsModel(d),
		profile:      NewProfileModel(d),
	}
	if store.IsAuthenticated() {
		app.active = pageDashboard
	}
	return app
}

// Init starts the first page.
func (a App) Init() tea.Cmd {
	if a.active == pageDashboard {
		return a.dashboard.Activate()
	}
	return a.login.Activate()
}

// checkAuth is the synchronous mount guard for protected pages: no fetch
// is issued, and the login page takes over, when the session is gone.
func (a *App) checkAuth() bool {
	if a.deps.session.IsAuthenticated() {
		return true
	}
	a.active = pageLogin
	return false
}

// Update routes messages. Navigation and session-level messages are
// handled here; everything else goes to the active page.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.login.SetSize(msg.Width, msg.Height)
		a.dashboard.SetSize(msg.Width, msg.Height)
		a.schedules.SetSize(msg.Width, msg.Height)
		a.transactions.SetSize(msg.Width, msg.Height)
		a.profile.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case navigateMsg:
		a.active = msg.to
		switch msg.to {
		case pageLogin:
			a.login = NewLoginModel(a.deps)
			a.login.SetSize(a.width, a.height)
			return a, a.login.Activate()
		case pageDashboard:
			if !a.checkAuth() {
				return a, nil
			}
			return a, a.dashboard.Activate()
		case pageSchedules:
			if !a.checkAuth() {
				return a, nil
			}
			return a, a.schedules.Activate()
		case pageTransactions:
			if !a.checkAuth() {
				return a, nil
			}
			return a, a.transactions.Activate()
		case pageProfile:
			if !a.checkAuth() {
				return a, nil
			}
			return a, a.profile.Activate()
		}
		return a, nil

	case unauthorizedMsg:
		// Session already cleared by the client; back to login no matter
		// which page or request tripped the 401.
		a.active = pageLogin
		a.login = NewLoginModel(a.deps)
		a.login.SetSize(a.width, a.height)
		a.login.notice = "Your session has expired. Please log in again."
		return a, a.login.Activate()
	}

	var cmd tea.Cmd
	switch a.active {
	case pageLogin:
		a.login, cmd = a.login.Update(msg)
	case pageDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case pageSchedules:
		a.schedules, cmd = a.schedules.Update(msg)
	case pageTransactions:
		a.transactions, cmd = a.transactions.Update(msg)
	case pageProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a, cmd
}

// View renders the active page.
func (a App) View() string {
	switch a.active {
	case pageDashboard:
		return a.dashboard.View()
	case pageSchedules:
		return a.schedules.View()
	case pageTransactions:
		return a.transactions.View()
	case pageProfile:
		return a.profile.View()
	default:
		return a.login.View()
	}
}
