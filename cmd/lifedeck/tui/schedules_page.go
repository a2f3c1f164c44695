package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lifedeck/cmd/lifedeck/ui"
	"lifedeck/internal/api"
	"lifedeck/internal/core"
	"lifedeck/internal/listview"
)

// scheduleSortOrder is the cycle the sort key moves through.
var scheduleSortOrder = []string{"date-desc", "date-asc", "title-asc", "title-desc"}

type schedulesPageMsg struct {
	seq  int
	page api.Page[core.Schedule]
	err  error
}

type scheduleMutatedMsg struct {
	verb string
	err  error
}

type schedulesMode int

const (
	schedBrowse schedulesMode = iota
	schedSearch
	schedForm
	schedConfirm
)

// SchedulesModel is the calendar listing page: a paginated schedule list
// with local search, compound sorting, and a modal form for creating and
// editing entries.
type SchedulesModel struct {
	deps deps

	ctrl   *listview.Controller[core.Schedule]
	mode   schedulesMode
	cursor int

	search    textinput.Model
	form      *Form
	editingID string
	deleteID  string

	spin  spinner.Model
	toast ui.Toast

	width  int
	height int
}

func NewSchedulesModel(d deps) SchedulesModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = d.styles.Spinner

	search := textinput.New()
	search.Placeholder = "search title, description, category"
	search.CharLimit = 64

	form := NewForm([]Field{
		{Name: "title", Label: "Title      ", Placeholder: "required"},
		{Name: "description", Label: "Description"},
		{Name: "start", Label: "Start      ", Placeholder: "2024-01-31T09:00"},
		{Name: "end", Label: "End        ", Placeholder: "2024-01-31T10:00"},
		{Name: "allday", Label: "All day    ", Kind: FieldBool},
		{Name: "category", Label: "Category   "},
		{Name: "color", Label: "Color      ", Placeholder: core.DefaultScheduleColor},
	})
	form.ToggleHook = AllDayHook("start", "end", d.now)

	return SchedulesModel{
		deps: d,
		ctrl: listview.New(listview.Config[core.Schedule]{
			PageSize: d.cfg.PageSize,
			Sorts: map[string]listview.SortSpec{
				"date-desc":  {Field: "startDatetime", Direction: "desc"},
				"date-asc":   {Field: "startDatetime", Direction: "asc"},
				"title-asc":  {Field: "title", Direction: "asc"},
				"title-desc": {Field: "title", Direction: "desc"},
			},
			DefaultSort: "date-desc",
			Matches:     core.Schedule.MatchesKeyword,
		}),
		search: search,
		form:   form,
		spin:   sp,
	}
}

func (m *SchedulesModel) SetSize(w, h int) { m.width, m.height = w, h }

func (m *SchedulesModel) Activate() tea.Cmd {
	m.mode = schedBrowse
	m.cursor = 0
	return tea.Batch(m.fetchCmd(m.ctrl.StartLoad()), m.spin.Tick)
}

func (m SchedulesModel) fetchCmd(req listview.LoadRequest) tea.Cmd {
	client := m.deps.client
	userID := m.deps.session.Get().UserID
	timeout := m.deps.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := client.ListSchedules(ctx, userID, req.Query)
		return schedulesPageMsg{seq: req.Seq, page: page, err: err}
	}
}

func (m SchedulesModel) saveCmd(s core.Schedule, editingID string) tea.Cmd {
	client := m.deps.client
	userID := m.deps.session.Get().UserID
	timeout := m.deps.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if editingID == "" {
			_, err := client.CreateSchedule(ctx, userID, s)
			return scheduleMutatedMsg{verb: "created", err: err}
		}
		_, err := client.UpdateSchedule(ctx, userID, editingID, s)
		return scheduleMutatedMsg{verb: "updated", err: err}
	}
}

func (m SchedulesModel) deleteCmd(id string) tea.Cmd {
	client := m.deps.client
	userID := m.deps.session.Get().UserID
	timeout := m.deps.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return scheduleMutatedMsg{verb: "deleted", err: client.DeleteSchedule(ctx, userID, id)}
	}
}

// formSchedule assembles the schedule from the current form values.
func (m *SchedulesModel) formSchedule() core.Schedule {
	color := m.form.Value("color")
	if color == "" {
		color = core.DefaultScheduleColor
	}
	return core.Schedule{
		Title:         m.form.Value("title"),
		Description:   m.form.Value("description"),
		StartDatetime: m.form.Value("start"),
		EndDatetime:   m.form.Value("end"),
		IsAllDay:      m.form.BoolValue("allday"),
		Category:      m.form.Value("category"),
		Color:         color,
	}
}

func (m *SchedulesModel) openCreate() {
	m.form.Reset()
	m.editingID = ""
	m.mode = schedForm
}

func (m *SchedulesModel) openEdit(s core.Schedule) {
	m.form.Reset()
	m.form.SetValues(map[string]string{
		"title":       s.Title,
		"description": s.Description,
		"start":       s.StartDatetime,
		"end":         s.EndDatetime,
		"category":    s.Category,
		"color":       s.Color,
	})
	m.form.SetBool("allday", s.IsAllDay)
	m.editingID = s.ID
	m.mode = schedForm
}

func (m *SchedulesModel) selected() (core.Schedule, bool) {
	items := m.ctrl.Visible()
	if m.cursor < 0 || m.cursor >= len(items) {
		return core.Schedule{}, false
	}
	return items[m.cursor], true
}

func (m *SchedulesModel) clampCursor() {
	if n := len(m.ctrl.Visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m SchedulesModel) Update(msg tea.Msg) (SchedulesModel, tea.Cmd) {
	m.toast.Update(msg)

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.ctrl.State() != listview.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case schedulesPageMsg:
		if msg.err != nil {
			if cmd, ok := authFailed(msg.err); ok {
				return m, cmd
			}
			m.ctrl.ApplyError(msg.seq, api.UserMessage(msg.err))
			return m, nil
		}
		if refetch, ok := m.ctrl.ApplyPage(msg.seq, msg.page); ok {
			return m, tea.Batch(m.fetchCmd(refetch), m.spin.Tick)
		}
		m.clampCursor()
		return m, nil

	case scheduleMutatedMsg:
		if msg.err != nil {
			if cmd, ok := authFailed(msg.err); ok {
				return m, cmd
			}
			return m, m.toast.Show(ui.ToastError, api.UserMessage(msg.err))
		}
		m.mode = schedBrowse
		return m, tea.Batch(
			m.toast.Show(ui.ToastSuccess, "Schedule "+msg.verb+"."),
			m.fetchCmd(m.ctrl.AfterMutation()),
			m.spin.Tick,
		)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m SchedulesModel) handleKey(msg tea.KeyMsg) (SchedulesModel, tea.Cmd) {
	switch m.mode {
	case schedSearch:
		switch msg.String() {
		case "esc":
			m.search.SetValue("")
			m.search.Blur()
			m.ctrl.SetSearchKeyword("")
			m.mode = schedBrowse
			m.clampCursor()
			return m, nil
		case "enter":
			m.search.Blur()
			m.mode = schedBrowse
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.ctrl.SetSearchKeyword(m.search.Value())
		m.clampCursor()
		return m, cmd

	case schedForm:
		switch msg.String() {
		case "esc":
			m.mode = schedBrowse
			return m, nil
		case "enter":
			s := m.formSchedule()
			if err := s.Validate(); err != nil {
				return m, m.toast.Show(ui.ToastWarning, err.Error())
			}
			return m, m.saveCmd(s, m.editingID)
		}
		return m, m.form.Update(msg)

	case schedConfirm:
		switch msg.String() {
		case "y":
			m.mode = schedBrowse
			return m, m.deleteCmd(m.deleteID)
		case "n", "esc":
			m.mode = schedBrowse
			return m, nil
		}
		return m, nil
	}

	// Browsing. The failed state only answers retry and back.
	if m.ctrl.State() == listview.Failed {
		switch msg.String() {
		case "r":
			return m, tea.Batch(m.fetchCmd(m.ctrl.Retry()), m.spin.Tick)
		case "esc", "b":
			return m, navigate(pageDashboard)
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.ctrl.Visible())-1 {
			m.cursor++
		}
	case "left", "h":
		if req, ok := m.ctrl.SetPage(m.ctrl.Page() - 1); ok {
			m.cursor = 0
			return m, tea.Batch(m.fetchCmd(req), m.spin.Tick)
		}
	case "right", "l":
		if req, ok := m.ctrl.SetPage(m.ctrl.Page() + 1); ok {
			m.cursor = 0
			return m, tea.Batch(m.fetchCmd(req), m.spin.Tick)
		}
	case "home":
		if req, ok := m.ctrl.SetPage(0); ok {
			m.cursor = 0
			return m, tea.Batch(m.fetchCmd(req), m.spin.Tick)
		}
	case "end":
		if req, ok := m.ctrl.SetPage(m.ctrl.TotalPages() - 1); ok {
			m.cursor = 0
			return m, tea.Batch(m.fetchCmd(req), m.spin.Tick)
		}
	case "o":
		next := nextInCycle(scheduleSortOrder, m.ctrl.SortKey())
		if req, ok := m.ctrl.SetSortKey(next); ok {
			m.cursor = 0
			return m, tea.Batch(m.fetchCmd(req), m.spin.Tick)
		}
	case "/":
		m.mode = schedSearch
		m.search.Focus()
		return m, textinput.Blink
	case "a":
		m.openCreate()
	case "e":
		if s, ok := m.selected(); ok {
			m.openEdit(s)
		}
	case "d":
		if s, ok := m.selected(); ok {
			m.deleteID = s.ID
			m.mode = schedConfirm
		}
	case "r":
		return m, tea.Batch(m.fetchCmd(m.ctrl.StartLoad()), m.spin.Tick)
	case "esc", "b":
		return m, navigate(pageDashboard)
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

// nextInCycle returns the entry after current, wrapping, or the first one
// when current is unknown.
func nextInCycle(order []string, current string) string {
	for i, key := range order {
		if key == current {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

func (m SchedulesModel) View() string {
	s := m.deps.styles
	header := ui.HeaderView(s, "Schedules", m.deps.session.Get().UserName, m.width)

	switch {
	case m.ctrl.State() == listview.Loading, m.ctrl.State() == listview.Idle:
		return lipgloss.JoinVertical(lipgloss.Left, header,
			ui.LoadingView(s, m.spin.View(), m.width, m.height-1))
	case m.ctrl.State() == listview.Failed:
		return lipgloss.JoinVertical(lipgloss.Left, header,
			ui.ErrorModalView(s, m.ctrl.Err(), false, m.width, m.height-1))
	case m.mode == schedForm:
		title := "New schedule"
		if m.editingID != "" {
			title = "Edit schedule"
		}
		body := lipgloss.JoinVertical(lipgloss.Left,
			s.Subtitle.Render(title),
			"",
			m.form.View(s),
			"",
			s.Muted.Render("[enter] save  [esc] cancel  [tab] next field"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, s.Modal.Render(body)),
			m.toast.View(s))
	case m.mode == schedConfirm:
		return lipgloss.JoinVertical(lipgloss.Left, header,
			ui.ConfirmView(s, "Delete this schedule?", m.width, m.height-1))
	}

	rows := []string{}
	items := m.ctrl.Visible()
	if m.mode == schedSearch || m.ctrl.SearchActive() {
		rows = append(rows,
			s.Prompt.Render("/ ")+m.search.View(),
			s.Muted.Render(fmt.Sprintf("%d matching", len(items))))
	}

	if len(items) == 0 {
		if m.ctrl.SearchActive() {
			rows = append(rows, s.Muted.Render("Nothing matches the search."))
		} else {
			rows = append(rows, s.Muted.Render("No schedules."))
		}
	}
	for i, sc := range items {
		when := sc.StartDatetime + " → " + sc.EndDatetime
		if sc.IsAllDay {
			when = sc.Start().Format(core.DateLayout) + " (all day)"
		}
		line := fmt.Sprintf("%s  %s", when, sc.Title)
		if sc.Category != "" {
			line += "  " + s.CategoryTag.Render(sc.Category)
		}
		if i == m.cursor {
			rows = append(rows, s.Selected.Render("> "+line))
		} else {
			rows = append(rows, s.Body.Render("  "+line))
		}
	}

	if m.ctrl.PaginationVisible() {
		rows = append(rows, "", ui.PaginationView(s, m.ctrl.Page(), m.ctrl.TotalPages(), m.ctrl.TotalElements()))
	}

	footer := s.Footer.Render(fmt.Sprintf(
		"[a] add  [e] edit  [d] delete  [/] search  [o] sort: %s  [←/→] page  [b] back  [q] quit",
		m.ctrl.SortKey()))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		s.Content.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)),
		m.toast.View(s),
		footer,
	)
}
