package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lifedeck/cmd/lifedeck/ui"
	"lifedeck/internal/api"
	"lifedeck/internal/config"
	"lifedeck/internal/core"
	"lifedeck/internal/listview"
	"lifedeck/internal/session"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// testDeps wires page dependencies against a throwaway session file. The
// API client points nowhere; tests feed result messages in directly
// instead of executing fetch commands.
func testDeps(t *testing.T) deps {
	t.Helper()
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Login("tok-1", "user-1", "Dana"))
	return deps{
		cfg:     &config.Config{APIBaseURL: "http://127.0.0.1:0", RequestTimeout: time.Second, PageSize: 10},
		client:  api.NewClient("http://127.0.0.1:0", store),
		session: store,
		styles:  ui.NewStyles(ui.LightTheme()),
		log:     zap.NewNop(),
		now:     func() time.Time { return testNow },
	}
}

func schedulePage(items []core.Schedule, totalPages, current int) api.Page[core.Schedule] {
	return api.Page[core.Schedule]{
		Content:       items,
		TotalPages:    totalPages,
		TotalElements: len(items),
		CurrentPage:   current,
	}
}

// drain runs a command tree and collects the plain messages it produces,
// skipping timers so tests stay synchronous.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestLoginValidation(t *testing.T) {
	m := NewLoginModel(testDeps(t))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Email and password are required.", m.errText)

	m.login.SetValue("email", "a@b.c")
	m.login.SetValue("password", "pw")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.busy)
	assert.NotNil(t, cmd)
}

func TestSignupValidation(t *testing.T) {
	m := NewLoginModel(testDeps(t))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	require.True(t, m.signup)

	m.signupF.SetValue("email", "a@b.c")
	m.signupF.SetValue("name", "Dana")
	m.signupF.SetValue("password", "pw")
	m.signupF.SetValue("confirm", "other")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Passwords do not match.", m.errText)
}

func TestLoginSuccessPersistsSessionAndNavigates(t *testing.T) {
	d := testDeps(t)
	require.NoError(t, d.session.Logout())
	m := NewLoginModel(d)

	m, cmd := m.Update(authResultMsg{creds: api.Credentials{Token: "t2", UserID: "u2", Name: "Lee"}})
	require.NotNil(t, cmd)
	msgs := drain(cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, navigateMsg{to: pageDashboard}, msgs[0])

	sess := d.session.Get()
	assert.Equal(t, "t2", sess.Token)
	assert.Equal(t, "Lee", sess.UserName)
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	m := NewLoginModel(testDeps(t))
	m.busy = true

	m, cmd := m.Update(authResultMsg{err: &api.Error{Status: 400, Message: "bad credentials"}})
	assert.Nil(t, cmd)
	assert.False(t, m.busy)
	assert.Equal(t, "bad credentials", m.errText)
}

func TestSchedulesLoadAndClamp(t *testing.T) {
	m := NewSchedulesModel(testDeps(t))
	cmd := m.Activate()
	require.NotNil(t, cmd)
	require.Equal(t, listview.Loading, m.ctrl.State())

	seq := 1
	m, _ = m.Update(schedulesPageMsg{seq: seq, page: schedulePage(nil, 0, 0)})
	assert.Equal(t, listview.Loaded, m.ctrl.State())
	assert.Empty(t, m.ctrl.Visible())
}

func TestSchedulesLoadFailureThenRetry(t *testing.T) {
	m := NewSchedulesModel(testDeps(t))
	_ = m.Activate()

	m, _ = m.Update(schedulesPageMsg{seq: 1, err: &api.Error{Status: 500, Message: "boom"}})
	require.Equal(t, listview.Failed, m.ctrl.State())
	assert.Equal(t, "boom", m.ctrl.Err())

	m, cmd := m.Update(keyMsg("r"))
	require.NotNil(t, cmd)
	assert.Equal(t, listview.Loading, m.ctrl.State())
}

func TestSchedulesUnauthorizedLoadSignalsApp(t *testing.T) {
	m := NewSchedulesModel(testDeps(t))
	_ = m.Activate()

	m, cmd := m.Update(schedulesPageMsg{seq: 1, err: api.ErrUnauthorized})
	require.NotNil(t, cmd)
	msgs := drain(cmd)
	require.Len(t, msgs, 1)
	assert.IsType(t, unauthorizedMsg{}, msgs[0])
}

func TestSchedulesSearchFiltersLocally(t *testing.T) {
	m := NewSchedulesModel(testDeps(t))
	_ = m.Activate()
	items := []core.Schedule{
		{ID: "1", Title: "Dentist", StartDatetime: "2024-03-20T09:00", EndDatetime: "2024-03-20T10:00"},
		{ID: "2", Title: "Gym", StartDatetime: "2024-03-21T18:00", EndDatetime: "2024-03-21T19:00"},
	}
	m, _ = m.Update(schedulesPageMsg{seq: 1, page: schedulePage(items, 1, 0)})
	require.Len(t, m.ctrl.Visible(), 2)

	m, _ = m.Update(keyMsg("/"))
	require.Equal(t, schedSearch, m.mode)
	m, _ = m.Update(keyMsg("gym"))
	assert.Len(t, m.ctrl.Visible(), 1)
	assert.Equal(t, "Gym", m.ctrl.Visible()[0].Title)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	assert.Equal(t, schedBrowse, m.mode)
	assert.Len(t, m.ctrl.Visible(), 2, "clearing search restores the page")
}

func TestSchedulesFormValidatesBeforeSending(t *testing.T) {
	m := NewSchedulesModel(testDeps(t))
	_ = m.Activate()
	m, _ = m.Update(schedulesPageMsg{seq: 1, page: schedulePage(nil, 0, 0)})

	m, _ = m.Update(keyMsg("a"))
	require.Equal(t, schedForm, m.mode)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, schedForm, m.mode, "invalid form stays open")
	require.NotNil(t, cmd, "a warning toast is armed")
	assert.True(t, m.toast.Visible())
}

func TestSchedulesMutationReloadsAndToasts(t *testing.T) {
	m := NewSchedulesModel(testDeps(t))
	_ = m.Activate()
	m, _ = m.Update(schedulesPageMsg{seq: 1, page: schedulePage(nil, 0, 0)})

	m, cmd := m.Update(scheduleMutatedMsg{verb: "created"})
	require.NotNil(t, cmd)
	assert.Equal(t, listview.Loading, m.ctrl.State(), "a successful mutation reloads the list")
	assert.True(t, m.toast.Visible())
}

func TestSchedulesDeleteNeedsConfirmation(t *testing.T) {
	m := NewSchedulesModel(testDeps(t))
	_ = m.Activate()
	items := []core.Schedule{{ID: "del-1", Title: "Old", StartDatetime: "2024-01-01T09:00", EndDatetime: "2024-01-01T10:00"}}
	m, _ = m.Update(schedulesPageMsg{seq: 1, page: schedulePage(items, 1, 0)})

	m, _ = m.Update(keyMsg("d"))
	require.Equal(t, schedConfirm, m.mode)
	assert.Equal(t, "del-1", m.deleteID)

	m, cmd := m.Update(keyMsg("n"))
	assert.Equal(t, schedBrowse, m.mode)
	assert.Nil(t, cmd, "declining sends nothing")
}

func TestUpcomingSchedulesFiltersAndCaps(t *testing.T) {
	now := testNow
	var all []core.Schedule
	// one already over, seven still ahead
	all = append(all, core.Schedule{Title: "done", StartDatetime: "2024-03-01T09:00", EndDatetime: "2024-03-01T10:00"})
	for i := 0; i < 7; i++ {
		day := now.AddDate(0, 0, i+1)
		all = append(all, core.Schedule{
			Title:         "ahead",
			StartDatetime: day.Format(core.DatetimeLayout),
			EndDatetime:   day.Add(time.Hour).Format(core.DatetimeLayout),
		})
	}

	got := upcomingSchedules(all, now, upcomingLimit)
	require.Len(t, got, upcomingLimit)
	for _, s := range got {
		assert.Equal(t, "ahead", s.Title)
	}
}

func TestAppUnauthorizedReturnsToLogin(t *testing.T) {
	d := testDeps(t)
	app := NewApp(d.cfg, d.client, d.session, d.log)
	require.Equal(t, pageDashboard, app.active)

	model, cmd := app.Update(unauthorizedMsg{})
	app = model.(App)
	assert.Equal(t, pageLogin, app.active)
	assert.NotNil(t, cmd)
	assert.NotEmpty(t, app.login.notice)
}

func TestAppGuardsProtectedPages(t *testing.T) {
	d := testDeps(t)
	app := NewApp(d.cfg, d.client, d.session, d.log)
	require.NoError(t, d.session.Logout())

	model, cmd := app.Update(navigateMsg{to: pageTransactions})
	app = model.(App)
	assert.Equal(t, pageLogin, app.active)
	assert.Nil(t, cmd, "no fetch goes out without a session")
}
