package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"lifedeck/cmd/lifedeck/ui"
	"lifedeck/internal/api"
	"lifedeck/internal/core"
	"lifedeck/internal/listview"
)

var (
	txSortOrder   = []string{"date-desc", "date-asc", "amount-desc", "amount-asc"}
	txFilterOrder = []string{"all", string(core.TypeIncome), string(core.TypeExpense)}
)

type txPageMsg struct {
	seq     int
	page    api.Page[core.Transaction]
	summary core.Summary
	err     error
}

type txMutatedMsg struct {
	verb     string
	err      error
	dataLoss bool
}

type txMode int

const (
	txBrowse txMode = iota
	txSearch
	txForm
	txConfirmDelete
	txConfirmFuture
	txDataLoss
)

// TransactionsModel is the ledger page: a month-scoped, paginated table
// with a range summary, local search and type filtering, and the
// delete-then-create edit flow the server's missing update endpoint
// forces.
type TransactionsModel struct {
	deps deps

	ctrl    *listview.Controller[core.Transaction]
	mode    txMode
	anchor  time.Time // first day of the shown month
	summary core.Summary

	tbl    table.Model
	search textinput.Model
	form   *Form

	editingID string
	deleteID  string
	pending   core.Transaction // awaiting future-date confirmation
	lossText  string

	spin  spinner.Model
	toast ui.Toast

	width  int
	height int
}

func NewTransactionsModel(d deps) TransactionsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = d.styles.Spinner

	search := textinput.New()
	search.Placeholder = "search category, description"
	search.CharLimit = 64

	form := NewForm([]Field{
		{Name: "expense", Label: "Expense    ", Kind: FieldBool},
		{Name: "amount", Label: "Amount     ", Placeholder: "0.00"},
		{Name: "category", Label: "Category   "},
		{Name: "description", Label: "Description"},
		{Name: "date", Label: "Date       ", Placeholder: "2024-01-31"},
	})

	cols := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 9},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 14},
		{Title: "Description", Width: 28},
	}
	tbl := table.New(table.WithColumns(cols), table.WithFocused(true), table.WithHeight(12))

	now := d.now()
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	ctrl := listview.New(listview.Config[core.Transaction]{
		PageSize: d.cfg.PageSize,
		Sorts: map[string]listview.SortSpec{
			"date-desc":   {Field: "transactionDate", Direction: "desc"},
			"date-asc":    {Field: "transactionDate", Direction: "asc"},
			"amount-desc": {Field: "amount", Direction: "desc"},
			"amount-asc":  {Field: "amount", Direction: "asc"},
		},
		DefaultSort: "date-desc",
		Matches:     core.Transaction.MatchesKeyword,
		TypeOf:      func(t core.Transaction) string { return string(t.Type) },
	})
	ctrl.SetDateRange(core.FullMonth(now))

	return TransactionsModel{
		deps:   d,
		ctrl:   ctrl,
		anchor: anchor,
		tbl:    tbl,
		search: search,
		form:   form,
		spin:   sp,
	}
}

func (m *TransactionsModel) SetSize(w, h int) { m.width, m.height = w, h }

func (m *TransactionsModel) Activate() tea.Cmd {
	m.mode = txBrowse
	return tea.Batch(m.fetchCmd(m.ctrl.StartLoad()), m.spin.Tick)
}

// fetchCmd loads one page and the range summary in parallel. Both carry
// the request's sequence number so a stale pair is dropped together.
func (m TransactionsModel) fetchCmd(req listview.LoadRequest) tea.Cmd {
	client := m.deps.client
	userID := m.deps.session.Get().UserID
	timeout := m.deps.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var (
			page    api.Page[core.Transaction]
			summary core.Summary
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			page, err = client.ListTransactions(gctx, userID, req.Range, req.Query)
			return err
		})
		g.Go(func() error {
			var err error
			summary, err = client.TransactionSummary(gctx, userID, req.Range)
			return err
		})
		if err := g.Wait(); err != nil {
			return txPageMsg{seq: req.Seq, err: err}
		}
		return txPageMsg{seq: req.Seq, page: page, summary: summary}
	}
}

func (m TransactionsModel) createCmd(t core.Transaction) tea.Cmd {
	client := m.deps.client
	userID := m.deps.session.Get().UserID
	timeout := m.deps.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := client.CreateTransaction(ctx, userID, t)
		return txMutatedMsg{verb: "recorded", err: err}
	}
}

func (m TransactionsModel) replaceCmd(oldID string, t core.Transaction) tea.Cmd {
	client := m.deps.client
	userID := m.deps.session.Get().UserID
	timeout := m.deps.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := client.ReplaceTransaction(ctx, userID, oldID, t)
		var lost *api.ReplaceLostError
		if errors.As(err, &lost) {
			return txMutatedMsg{verb: "updated", err: err, dataLoss: true}
		}
		return txMutatedMsg{verb: "updated", err: err}
	}
}

func (m TransactionsModel) deleteCmd(id string) tea.Cmd {
	client := m.deps.client
	userID := m.deps.session.Get().UserID
	timeout := m.deps.cfg.RequestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return txMutatedMsg{verb: "deleted", err: client.DeleteTransaction(ctx, userID, id)}
	}
}

// formTransaction assembles a transaction from the form. A malformed
// amount comes back as zero and fails Validate.
func (m *TransactionsModel) formTransaction() core.Transaction {
	amount, _ := strconv.ParseFloat(m.form.Value("amount"), 64)
	kind := core.TypeIncome
	if m.form.BoolValue("expense") {
		kind = core.TypeExpense
	}
	return core.Transaction{
		Type:            kind,
		Amount:          amount,
		Category:        m.form.Value("category"),
		Description:     m.form.Value("description"),
		TransactionDate: m.form.Value("date"),
	}
}

func (m *TransactionsModel) openCreate() {
	m.form.Reset()
	m.form.SetValue("date", m.deps.now().Format(core.DateLayout))
	m.editingID = ""
	m.mode = txForm
}

func (m *TransactionsModel) openEdit(t core.Transaction) {
	m.form.Reset()
	m.form.SetValues(map[string]string{
		"amount":      strconv.FormatFloat(t.Amount, 'f', -1, 64),
		"category":    t.Category,
		"description": t.Description,
		"date":        t.TransactionDate,
	})
	m.form.SetBool("expense", t.Type == core.TypeExpense)
	m.editingID = t.ID
	m.mode = txForm
}

func (m *TransactionsModel) selected() (core.Transaction, bool) {
	items := m.ctrl.Visible()
	i := m.tbl.Cursor()
	if i < 0 || i >= len(items) {
		return core.Transaction{}, false
	}
	return items[i], true
}

// syncTable rebuilds the table rows from the controller's visible slice.
func (m *TransactionsModel) syncTable() {
	items := m.ctrl.Visible()
	rows := make([]table.Row, len(items))
	for i, t := range items {
		rows[i] = table.Row{
			t.TransactionDate,
			string(t.Type),
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
			t.Category,
			t.Description,
		}
	}
	m.tbl.SetRows(rows)
	if m.tbl.Cursor() >= len(rows) && len(rows) > 0 {
		m.tbl.SetCursor(len(rows) - 1)
	}
}

// submit validates the form and routes through the future-date
// confirmation when needed.
func (m TransactionsModel) submit() (TransactionsModel, tea.Cmd) {
	t := m.formTransaction()
	if err := t.Validate(); err != nil {
		return m, m.toast.Show(ui.ToastWarning, err.Error())
	}
	if t.IsFutureDated(m.deps.now()) {
		m.pending = t
		m.mode = txConfirmFuture
		return m, nil
	}
	m.mode = txBrowse
	return m, m.sendCmd(t)
}

func (m TransactionsModel) sendCmd(t core.Transaction) tea.Cmd {
	if m.editingID == "" {
		return m.createCmd(t)
	}
	return m.replaceCmd(m.editingID, t)
}

func (m TransactionsModel) Update(msg tea.Msg) (TransactionsModel, tea.Cmd) {
	m.toast.Update(msg)

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.ctrl.State() != listview.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case txPageMsg:
		if msg.err != nil {
			if cmd, ok := authFailed(msg.err); ok {
				return m, cmd
			}
			m.ctrl.ApplyError(msg.seq, api.UserMessage(msg.err))
			return m, nil
		}
		// The summary rides along with the page; a stale pair is dropped
		// together. Compared before ApplyPage, which bumps the sequence
		// when it issues a clamp refetch.
		if msg.seq == m.ctrl.Seq() {
			m.summary = msg.summary
		}
		refetch, ok := m.ctrl.ApplyPage(msg.seq, msg.page)
		if ok {
			return m, tea.Batch(m.fetchCmd(refetch), m.spin.Tick)
		}
		m.syncTable()
		return m, nil

	case txMutatedMsg:
		if msg.err != nil {
			if cmd, ok := authFailed(msg.err); ok {
				return m, cmd
			}
			if msg.dataLoss {
				m.mode = txDataLoss
				m.lossText = api.UserMessage(msg.err) + " The original entry was already removed."
				return m, nil
			}
			return m, m.toast.Show(ui.ToastError, api.UserMessage(msg.err))
		}
		m.mode = txBrowse
		return m, tea.Batch(
			m.toast.Show(ui.ToastSuccess, "Transaction "+msg.verb+"."),
			m.fetchCmd(m.ctrl.AfterMutation()),
			m.spin.Tick,
		)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m TransactionsModel) handleKey(msg tea.KeyMsg) (TransactionsModel, tea.Cmd) {
	switch m.mode {
	case txSearch:
		switch msg.String() {
		case "esc":
			m.search.SetValue("")
			m.search.Blur()
			m.ctrl.SetSearchKeyword("")
			m.mode = txBrowse
			m.syncTable()
			return m, nil
		case "enter":
			m.search.Blur()
			m.mode = txBrowse
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.ctrl.SetSearchKeyword(m.search.Value())
		m.syncTable()
		return m, cmd

	case txForm:
		switch msg.String() {
		case "esc":
			m.mode = txBrowse
			return m, nil
		case "enter":
			return m.submit()
		}
		return m, m.form.Update(msg)

	case txConfirmDelete:
		switch msg.String() {
		case "y":
			m.mode = txBrowse
			return m, m.deleteCmd(m.deleteID)
		case "n", "esc":
			m.mode = txBrowse
			return m, nil
		}
		return m, nil

	case txConfirmFuture:
		switch msg.String() {
		case "y":
			m.mode = txBrowse
			return m, m.sendCmd(m.pending)
		case "n", "esc":
			m.mode = txForm
			return m, nil
		}
		return m, nil

	case txDataLoss:
		switch msg.String() {
		case "r", "esc":
			// Nothing to retry with; reload so the list reflects reality.
			m.mode = txBrowse
			return m, tea.Batch(m.fetchCmd(m.ctrl.AfterMutation()), m.spin.Tick)
		}
		return m, nil
	}

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
	case "left":
		if req, ok := m.ctrl.SetPage(m.ctrl.Page() - 1); ok {
			return m, tea.Batch(m.fetchCmd(req), m.spin.Tick)
		}
		return m, nil
	case "right":
		if req, ok := m.ctrl.SetPage(m.ctrl.Page() + 1); ok {
			return m, tea.Batch(m.fetchCmd(req), m.spin.Tick)
		}
		return m, nil
	case "home":
		if req, ok := m.ctrl.SetPage(0); ok {
			return m, tea.Batch(m.fetchCmd(req), m.spin.Tick)
		}
		return m, nil
	case "end":
		if req, ok := m.ctrl.SetPage(m.ctrl.TotalPages() - 1); ok {
			return m, tea.Batch(m.fetchCmd(req), m.spin.Tick)
		}
		return m, nil
	case "[":
		return m.shiftMonth(-1)
	case "]":
		return m.shiftMonth(1)
	case "o":
		next := nextInCycle(txSortOrder, m.ctrl.SortKey())
		if req, ok := m.ctrl.SetSortKey(next); ok {
			return m, tea.Batch(m.fetchCmd(req), m.spin.Tick)
		}
		return m, nil
	case "f":
		current := m.ctrl.FilterType()
		if current == "" {
			current = "all"
		}
		m.ctrl.SetFilterType(nextInCycle(txFilterOrder, current))
		m.syncTable()
		return m, nil
	case "/":
		m.mode = txSearch
		m.search.Focus()
		return m, textinput.Blink
	case "a":
		m.openCreate()
		return m, nil
	case "e":
		if t, ok := m.selected(); ok {
			m.openEdit(t)
		}
		return m, nil
	case "d":
		if t, ok := m.selected(); ok {
			m.deleteID = t.ID
			m.mode = txConfirmDelete
		}
		return m, nil
	case "r":
		return m, tea.Batch(m.fetchCmd(m.ctrl.StartLoad()), m.spin.Tick)
	case "esc", "b":
		return m, navigate(pageDashboard)
	case "q":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

// shiftMonth moves the anchor month and reloads the range.
func (m TransactionsModel) shiftMonth(months int) (TransactionsModel, tea.Cmd) {
	m.anchor = m.anchor.AddDate(0, months, 0)
	req := m.ctrl.SetDateRange(core.FullMonth(m.anchor))
	return m, tea.Batch(m.fetchCmd(req), m.spin.Tick)
}

func (m TransactionsModel) View() string {
	s := m.deps.styles
	header := ui.HeaderView(s, "Transactions", m.deps.session.Get().UserName, m.width)

	switch {
	case m.ctrl.State() == listview.Loading, m.ctrl.State() == listview.Idle:
		return lipgloss.JoinVertical(lipgloss.Left, header,
			ui.LoadingView(s, m.spin.View(), m.width, m.height-1))
	case m.ctrl.State() == listview.Failed:
		return lipgloss.JoinVertical(lipgloss.Left, header,
			ui.ErrorModalView(s, m.ctrl.Err(), false, m.width, m.height-1))
	case m.mode == txDataLoss:
		return lipgloss.JoinVertical(lipgloss.Left, header,
			ui.ErrorModalView(s, m.lossText, true, m.width, m.height-1))
	case m.mode == txForm:
		title := "New transaction"
		if m.editingID != "" {
			title = "Edit transaction"
		}
		body := lipgloss.JoinVertical(lipgloss.Left,
			s.Subtitle.Render(title),
			"",
			m.form.View(s),
			"",
			s.Muted.Render("[enter] save  [esc] cancel  [space] toggle expense"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, header,
			lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, s.Modal.Render(body)),
			m.toast.View(s))
	case m.mode == txConfirmDelete:
		return lipgloss.JoinVertical(lipgloss.Left, header,
			ui.ConfirmView(s, "Delete this transaction?", m.width, m.height-1))
	case m.mode == txConfirmFuture:
		return lipgloss.JoinVertical(lipgloss.Left, header,
			ui.ConfirmView(s, "This entry is dated in the future. Save anyway?", m.width, m.height-1))
	}

	rows := []string{
		s.Subtitle.Render(m.anchor.Format("January 2006")) + "  " +
			s.IncomeAmount.Render(fmt.Sprintf("in %.2f", m.summary.TotalIncome)) + "  " +
			s.ExpenseAmount.Render(fmt.Sprintf("out %.2f", m.summary.TotalExpense)) + "  " +
			s.Bold.Render(fmt.Sprintf("net %.2f", m.summary.Balance)),
	}
	if m.mode == txSearch || m.ctrl.SearchActive() {
		rows = append(rows,
			s.Prompt.Render("/ ")+m.search.View(),
			s.Muted.Render(fmt.Sprintf("%d matching", len(m.ctrl.Visible()))))
	}
	if ft := m.ctrl.FilterType(); ft != "" {
		rows = append(rows, s.Muted.Render("filter: ")+s.CategoryTag.Render(ft))
	}
	rows = append(rows, m.tbl.View())
	if len(m.ctrl.Visible()) == 0 {
		if m.ctrl.SearchActive() || m.ctrl.FilterType() != "" {
			rows = append(rows, s.Muted.Render("Nothing matches the current filters."))
		} else {
			rows = append(rows, s.Muted.Render("No transactions in this range."))
		}
	}
	if m.ctrl.PaginationVisible() {
		rows = append(rows, ui.PaginationView(s, m.ctrl.Page(), m.ctrl.TotalPages(), m.ctrl.TotalElements()))
	}

	footer := s.Footer.Render(fmt.Sprintf(
		"[a] add  [e] edit  [d] delete  [/] search  [f] filter  [o] sort: %s  [[/]] month  [←/→] page  [b] back",
		m.ctrl.SortKey()))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		s.Content.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)),
		m.toast.View(s),
		footer,
	)
}
