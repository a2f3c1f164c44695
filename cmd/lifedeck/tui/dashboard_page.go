package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lifedeck/cmd/lifedeck/ui"
	"lifedeck/internal/api"
	"lifedeck/internal/core"
)

// upcomingLimit caps the schedule preview on the dashboard.
const upcomingLimit = 5

type dashboardDataMsg struct {
	schedules []core.Schedule
	summary   core.Summary
	err       error
}

// DashboardModel is the landing page after login: the next few schedules
// and the running month's financial summary, fetched in parallel.
type DashboardModel struct {
	deps deps

	spin    spinner.Model
	loading bool
	errText string

	upcoming []core.Schedule
	summary  core.Summary

	width  int
	height int
}

func NewDashboardModel(d deps) DashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = d.styles.Spinner
	return DashboardModel{deps: d, spin: sp}
}

func (m *DashboardModel) SetSize(w, h int) { m.width, m.height = w, h }

func (m *DashboardModel) Activate() tea.Cmd {
	m.loading = true
	m.errText = ""
	return tea.Batch(m.fetchCmd(), m.spin.Tick)
}

func (m DashboardModel) fetchCmd() tea.Cmd {
	client := m.deps.client
	userID := m.deps.session.Get().UserID
	timeout := m.deps.cfg.RequestTimeout
	now := m.deps.now
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var (
			page    api.Page[core.Schedule]
			summary core.Summary
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			page, err = client.ListSchedules(gctx, userID, api.ListQuery{
				Page:          0,
				Size:          20,
				SortBy:        "startDatetime",
				SortDirection: "asc",
			})
			return err
		})
		g.Go(func() error {
			var err error
			summary, err = client.TransactionSummary(gctx, userID, core.CurrentMonth(now()))
			return err
		})
		if err := g.Wait(); err != nil {
			return dashboardDataMsg{err: err}
		}
		return dashboardDataMsg{schedules: page.Content, summary: summary}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case dashboardDataMsg:
		m.loading = false
		if msg.err != nil {
			if cmd, ok := authFailed(msg.err); ok {
				return m, cmd
			}
			m.errText = api.UserMessage(msg.err)
			return m, nil
		}
		m.errText = ""
		m.upcoming = upcomingSchedules(msg.schedules, m.deps.now(), upcomingLimit)
		m.summary = msg.summary
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s":
			return m, navigate(pageSchedules)
		case "t":
			return m, navigate(pageTransactions)
		case "p":
			return m, navigate(pageProfile)
		case "r":
			if !m.loading {
				return m, m.Activate()
			}
		case "l":
			if err := m.deps.session.Logout(); err != nil {
				m.deps.log.Warn("logout cleanup failed", zap.Error(err))
			}
			return m, navigate(pageLogin)
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

// upcomingSchedules keeps entries that have not finished yet, in start
// order, up to limit.
func upcomingSchedules(all []core.Schedule, now time.Time, limit int) []core.Schedule {
	out := make([]core.Schedule, 0, limit)
	for _, s := range all {
		end := s.End()
		if end.IsZero() || !end.After(now) {
			continue
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (m DashboardModel) View() string {
	s := m.deps.styles
	header := ui.HeaderView(s, "Dashboard", m.deps.session.Get().UserName, m.width)

	if m.loading {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			ui.LoadingView(s, m.spin.View(), m.width, m.height-1))
	}
	if m.errText != "" {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			ui.ErrorModalView(s, m.errText, false, m.width, m.height-1))
	}

	schedRows := []string{s.Subtitle.Render("Upcoming schedules")}
	if len(m.upcoming) == 0 {
		schedRows = append(schedRows, s.Muted.Render("Nothing coming up."))
	}
	for _, sc := range m.upcoming {
		line := fmt.Sprintf("%s  %s", sc.StartDatetime, sc.Title)
		if sc.IsAllDay {
			line = fmt.Sprintf("%s  %s (all day)", sc.Start().Format(core.DateLayout), sc.Title)
		}
		schedRows = append(schedRows, s.Body.Render(line))
	}
	schedCard := s.Card.Render(lipgloss.JoinVertical(lipgloss.Left, schedRows...))

	sumCard := s.Card.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.Subtitle.Render("This month"),
		s.IncomeAmount.Render(fmt.Sprintf("Income   %12.2f", m.summary.TotalIncome)),
		s.ExpenseAmount.Render(fmt.Sprintf("Expense  %12.2f", m.summary.TotalExpense)),
		s.Bold.Render(fmt.Sprintf("Balance  %12.2f", m.summary.Balance)),
	))

	body := lipgloss.JoinVertical(lipgloss.Left, schedCard, sumCard)
	footer := s.Footer.Render("[s] schedules  [t] transactions  [p] profile  [r] refresh  [l] log out  [q] quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
