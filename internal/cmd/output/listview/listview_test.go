package listview

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/pressroom/pressctl/internal/cms/client"
	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/cms/helpers"
	"github.com/pressroom/pressctl/internal/cms/listsync"
	"github.com/pressroom/pressctl/internal/cmd/output/present"
	perr "github.com/pressroom/pressctl/internal/err"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBlogs(api *helpers.MockAPI, n int) []string {
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		ids = append(ids, api.Seed(content.Blogs, content.Blog{
			Title:   fmt.Sprintf("Post %02d", i),
			Summary: "summary",
			Date:    content.Today(),
		})...)
	}
	return ids
}

func newTestModel(t *testing.T, api client.API, pageSize int) *model {
	t.Helper()
	m, err := newModel(context.Background(), Options{
		Kind:     content.Blogs,
		PageSize: pageSize,
		NoColor:  true,
		Resources: func(kind content.Kind) (helpers.Resource, error) {
			return helpers.ForKind(api, kind)
		},
		Copy: func(string) error { return nil },
	})
	require.NoError(t, err)
	return m
}

// run executes cmd and feeds its message back, following any command the
// model returns until it settles
func run(t *testing.T, m *model, cmd tea.Cmd) {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		_, cmd = m.Update(msg)
	}
}

func press(m *model, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestInitialLoadFillsTable(t *testing.T) {
	api := helpers.NewMockAPI()
	seedBlogs(api, 12)
	m := newTestModel(t, api, 5)

	assert.Equal(t, listsync.Loading, m.ctrl.State().Status)
	run(t, m, m.start(m.initial))

	s := m.ctrl.State()
	assert.Equal(t, listsync.Idle, s.Status)
	assert.Equal(t, 3, s.TotalPages)
	assert.Equal(t, 12, s.TotalItems)
	require.Len(t, m.table.Rows(), 5)
	assert.Equal(t, "Post 12", m.table.Rows()[0][1])
	assert.Contains(t, ansi.Strip(m.View()), "page 1 of 3")
}

func TestFirstRowSelectedAfterLoad(t *testing.T) {
	api := helpers.NewMockAPI()
	seedBlogs(api, 3)
	api.Seed(content.NewsKind, content.News{Title: "Headline", Category: "General"})
	m := newTestModel(t, api, 5)
	run(t, m, m.start(m.initial))

	require.Len(t, m.table.Rows(), 3)
	assert.Equal(t, 0, m.table.Cursor())
	require.NotNil(t, m.selected())
	assert.Equal(t, "Post 03", m.selected().DisplayName())

	press(m, "enter")
	assert.Equal(t, modeDetail, m.mode)
	press(m, "esc")

	// a new collection starts from an empty table
	run(t, m, press(m, "tab"))
	assert.Equal(t, 0, m.table.Cursor())
	require.NotNil(t, m.selected())
	assert.Equal(t, "Headline", m.selected().DisplayName())
}

func TestPagingKeys(t *testing.T) {
	api := helpers.NewMockAPI()
	seedBlogs(api, 12)
	m := newTestModel(t, api, 5)
	run(t, m, m.start(m.initial))

	run(t, m, press(m, "right"))
	assert.Equal(t, 2, m.ctrl.State().Page)

	run(t, m, press(m, "G"))
	assert.Equal(t, 3, m.ctrl.State().Page)
	assert.Len(t, m.table.Rows(), 2)

	// already on the last page
	assert.Nil(t, press(m, "n"))

	run(t, m, press(m, "1"))
	assert.Equal(t, 1, m.ctrl.State().Page)

	// beyond the last page
	assert.Nil(t, press(m, "7"))
	assert.Nil(t, press(m, "left"))
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	api := helpers.NewMockAPI()
	seedBlogs(api, 12)
	m := newTestModel(t, api, 5)
	run(t, m, m.start(m.initial))

	toTwo := press(m, "right")
	toThree := press(m, "right")
	require.NotNil(t, toTwo)
	require.NotNil(t, toThree)

	// page 3 lands first, then the older page 2 request completes
	run(t, m, toThree)
	run(t, m, toTwo)

	s := m.ctrl.State()
	assert.Equal(t, 3, s.Page)
	assert.Equal(t, "Post 02", m.table.Rows()[0][1])
}

func TestErrorShowsRetry(t *testing.T) {
	api := helpers.NewMockAPI()
	seedBlogs(api, 3)
	api.Errors["List"] = &perr.ServerRejection{Status: 500, Msg: "Server Error"}
	m := newTestModel(t, api, 5)
	run(t, m, m.start(m.initial))

	assert.Equal(t, listsync.Error, m.ctrl.State().Status)
	view := ansi.Strip(m.View())
	assert.Contains(t, view, "Error: Server Error")
	assert.Contains(t, view, "press r to retry")

	delete(api.Errors, "List")
	run(t, m, press(m, "r"))
	assert.Equal(t, listsync.Idle, m.ctrl.State().Status)
	assert.Len(t, m.table.Rows(), 3)
}

func TestTabSwitchesCollection(t *testing.T) {
	api := helpers.NewMockAPI()
	seedBlogs(api, 2)
	api.Seed(content.NewsKind, content.News{Title: "Headline", Category: "General"})
	m := newTestModel(t, api, 5)
	blogFetch := m.start(m.initial)

	run(t, m, press(m, "tab"))
	assert.Equal(t, content.NewsKind.Name, m.resource.Kind().Name)
	require.Len(t, m.table.Rows(), 1)

	// the blogs response arriving late must not replace the news rows
	run(t, m, blogFetch)
	assert.Equal(t, "Headline", m.table.Rows()[0][1])
	assert.Len(t, m.table.Columns(), len(present.Columns(content.NewsKind)))
}

func TestDeleteConfirmRefreshesOnce(t *testing.T) {
	api := helpers.NewMockAPI()
	ids := seedBlogs(api, 6)
	m := newTestModel(t, api, 5)
	run(t, m, m.start(m.initial))

	run(t, m, press(m, "G"))
	require.Len(t, m.table.Rows(), 1)

	assert.Nil(t, press(m, "d"))
	assert.Equal(t, modeConfirmDelete, m.mode)
	assert.Contains(t, ansi.Strip(m.View()), `Delete blog post "Post 01"?`)

	run(t, m, press(m, "y"))
	assert.Equal(t, 5, api.Count(content.Blogs))
	assert.Equal(t, uint64(1), m.dispatcher.Generation())
	assert.Contains(t, api.Calls(), "Delete blogs/"+ids[0])

	// exactly one refresh signal
	require.Len(t, m.refresh, 1)
	<-m.refresh
	run(t, m, m.reload())

	// page 2 no longer exists, the view steps back to page 1
	s := m.ctrl.State()
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 1, s.TotalPages)
	assert.Len(t, m.table.Rows(), 5)
}

func TestDeleteCancelled(t *testing.T) {
	api := helpers.NewMockAPI()
	seedBlogs(api, 2)
	m := newTestModel(t, api, 5)
	run(t, m, m.start(m.initial))

	press(m, "d")
	assert.Nil(t, press(m, "n"))
	assert.Equal(t, modeTable, m.mode)
	assert.Equal(t, 2, api.Count(content.Blogs))
	assert.Contains(t, m.View(), "Delete cancelled")
	assert.Empty(t, m.refresh)
}

func TestDeleteFailureLeavesList(t *testing.T) {
	api := helpers.NewMockAPI()
	seedBlogs(api, 2)
	m := newTestModel(t, api, 5)
	run(t, m, m.start(m.initial))
	api.Errors["Delete"] = errors.New("connection reset")

	press(m, "d")
	run(t, m, press(m, "y"))

	assert.Zero(t, m.dispatcher.Generation())
	assert.Empty(t, m.refresh)
	assert.Len(t, m.table.Rows(), 2)
	assert.Contains(t, ansi.Strip(m.View()), "Delete failed: connection reset")
}

func TestCopySelectedID(t *testing.T) {
	api := helpers.NewMockAPI()
	ids := seedBlogs(api, 2)
	var copied string
	m := newTestModel(t, api, 5)
	m.opts.Copy = func(s string) error { copied = s; return nil }
	run(t, m, m.start(m.initial))

	press(m, "down")
	run(t, m, press(m, "y"))
	assert.Equal(t, ids[0], copied)
	assert.Contains(t, m.View(), "Copied "+ids[0])
}

func TestDetailPane(t *testing.T) {
	api := helpers.NewMockAPI()
	seedBlogs(api, 1)
	m := newTestModel(t, api, 5)
	run(t, m, m.start(m.initial))

	press(m, "enter")
	assert.Equal(t, modeDetail, m.mode)
	assert.Contains(t, ansi.Strip(m.View()), "Post 01")

	press(m, "esc")
	assert.Equal(t, modeTable, m.mode)
}

func TestQuit(t *testing.T) {
	api := helpers.NewMockAPI()
	m := newTestModel(t, api, 5)
	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFitColumnsFillsWidth(t *testing.T) {
	cols := fitColumns([]present.Column{{Title: "ID", Width: 9}, {Title: "Title", Width: 30}}, 100)
	assert.Equal(t, 9, cols[0].Width)
	assert.Equal(t, 100-9-2-2, cols[1].Width)

	narrow := fitColumns([]present.Column{{Title: "ID", Width: 9}, {Title: "Title", Width: 30}}, 10)
	assert.Equal(t, 8, narrow[1].Width)
}
