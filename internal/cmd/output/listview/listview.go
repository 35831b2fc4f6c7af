// Package listview is the interactive collection browser behind the "view"
// command. It hosts a listsync.Controller inside a bubbletea program: every
// fetch runs as a tea.Cmd and its result re-enters through Update, so the
// controller is only ever touched from the program loop.
package listview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/pressroom/pressctl/internal/cms/content"
	"github.com/pressroom/pressctl/internal/cms/helpers"
	"github.com/pressroom/pressctl/internal/cms/listsync"
	"github.com/pressroom/pressctl/internal/cms/mutation"
	"github.com/pressroom/pressctl/internal/cmd/output/present"
	perr "github.com/pressroom/pressctl/internal/err"
	"github.com/pressroom/pressctl/internal/iostreams"
	"github.com/pressroom/pressctl/internal/log"
	"github.com/pressroom/pressctl/internal/render"
	"github.com/pressroom/pressctl/internal/theme"
	"github.com/pressroom/pressctl/internal/util/pagination"
)

const (
	defaultWidth  = 120
	defaultHeight = 24
	// rows taken by title, status, page bar, footer and borders
	chromeHeight = 9
)

// ResourceFunc resolves the collection shown for kind
type ResourceFunc func(kind content.Kind) (helpers.Resource, error)

type Options struct {
	Kind      content.Kind
	PageSize  int
	Page      int
	Resources ResourceFunc
	Palette   theme.Palette
	Logger    *slog.Logger
	// Copy writes to the system clipboard; tests replace it
	Copy    func(string) error
	NoColor bool
	Profile string
}

// Run starts the browser on streams and blocks until the user quits
func Run(ctx context.Context, streams *iostreams.IOStreams, opts Options) error {
	if streams == nil || streams.Out == nil {
		return errors.New("listview: output stream is not available")
	}
	if !streams.IsInteractive() {
		return errors.New("view needs an interactive terminal, use \"list\" instead")
	}

	m, err := newModel(ctx, opts)
	if err != nil {
		return err
	}
	m.width, m.height = terminalSize(streams.Out)
	m.layout()

	// the friendly stderr handler would draw over the alt screen
	log.DisableErrorMirroring()
	defer log.EnableErrorMirroring()

	program := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(streams.In),
		tea.WithOutput(streams.Out),
		tea.WithAltScreen(),
	)
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func terminalSize(out io.Writer) (int, int) {
	f, ok := out.(interface{ Fd() uintptr })
	if !ok {
		return defaultWidth, defaultHeight
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return defaultWidth, defaultHeight
	}
	return w, h
}

type mode int

const (
	modeTable mode = iota
	modeDetail
	modeConfirmDelete
)

type fetchedMsg struct {
	// epoch ties the result to the collection that requested it; switching
	// collections starts a new controller whose tickets restart at 1
	epoch  int
	ticket listsync.Ticket
	page   listsync.Page[content.Item]
	err    error
}

type refreshMsg struct{}

type deletedMsg struct {
	epoch int
	name  string
	err   error
}

type copiedMsg struct {
	id  string
	err error
}

type model struct {
	ctx    context.Context
	opts   Options
	logger *slog.Logger

	resource   helpers.Resource
	ctrl       *listsync.Controller[content.Item]
	dispatcher *mutation.Dispatcher[content.Item]
	refresh    chan struct{}
	epoch      int
	initial    listsync.Ticket

	table   table.Model
	spinner spinner.Model
	detail  viewport.Model
	styles  styles

	mode    mode
	flash   string
	pending content.Item
	width   int
	height  int
}

type styles struct {
	title    lipgloss.Style
	box      lipgloss.Style
	muted    lipgloss.Style
	current  lipgloss.Style
	danger   lipgloss.Style
	success  lipgloss.Style
	selected lipgloss.Style
}

func newStyles(p theme.Palette) styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).
			Foreground(p.Adaptive(theme.ColorPrimaryText)).
			Background(p.Adaptive(theme.ColorPrimary)).
			Padding(0, 1),
		box: lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.Adaptive(theme.ColorBorder)).
			Padding(0, 1),
		muted: p.ForegroundStyle(theme.ColorTextMuted),
		current: lipgloss.NewStyle().Bold(true).
			Foreground(p.Adaptive(theme.ColorPrimaryText)).
			Background(p.Adaptive(theme.ColorPrimary)),
		danger:  p.ForegroundStyle(theme.ColorDanger).Bold(true),
		success: p.ForegroundStyle(theme.ColorSuccess),
		selected: lipgloss.NewStyle().
			Foreground(p.Adaptive(theme.ColorTextPrimary)).
			Background(p.Adaptive(theme.ColorHighlight)),
	}
}

func newModel(ctx context.Context, opts Options) (*model, error) {
	if opts.Resources == nil {
		return nil, errors.New("listview: no resource resolver")
	}
	if opts.Kind.Name == "" {
		opts.Kind = content.Blogs
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Palette.Name == "" {
		opts.Palette = theme.Current()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = opts.Palette.ForegroundStyle(theme.ColorAccent)

	m := &model{
		ctx:     ctx,
		opts:    opts,
		logger:  logger,
		refresh: make(chan struct{}, 1),
		spinner: s,
		styles:  newStyles(opts.Palette),
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.table = table.New(table.WithFocused(true))
	m.applyTableStyles()

	if err := m.open(opts.Kind, opts.Page); err != nil {
		return nil, err
	}
	return m, nil
}

// open points the model at kind, discarding the previous controller
func (m *model) open(kind content.Kind, page int) error {
	resource, err := m.opts.Resources(kind)
	if err != nil {
		return err
	}
	m.resource = resource
	m.epoch++
	m.ctrl, m.initial = listsync.NewController[content.Item](page, m.opts.PageSize)
	m.dispatcher = mutation.New[content.Item](resource, mutation.RefresherFunc(m.signalRefresh))
	m.table.SetRows(nil)
	m.table.SetCursor(0)
	m.layout()
	m.logger.Debug("browsing collection", "collection", kind.Name, "page", m.initial.Page)
	return nil
}

// signalRefresh runs on the dispatcher's goroutine; the program loop picks
// the signal up through listen
func (m *model) signalRefresh() {
	select {
	case m.refresh <- struct{}{}:
	default:
	}
}

func (m *model) listen() tea.Cmd {
	ch, ctx := m.refresh, m.ctx
	return func() tea.Msg {
		select {
		case <-ch:
			return refreshMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// start returns the command that performs the fetch for t
func (m *model) start(t listsync.Ticket) tea.Cmd {
	fetch := m.resource.FetchPage(m.opts.PageSize)
	ctx, epoch := m.ctx, m.epoch
	m.logger.Debug("fetching page", "collection", m.resource.Kind().Name, "page", t.Page, "seq", t.Seq)
	return func() tea.Msg {
		page, err := fetch(ctx, t.Page)
		return fetchedMsg{epoch: epoch, ticket: t, page: page, err: err}
	}
}

func (m *model) setPage(n int) tea.Cmd {
	if t, started := m.ctrl.SetPage(n); started {
		return m.start(t)
	}
	return nil
}

func (m *model) reload() tea.Cmd {
	return m.start(m.ctrl.Refresh())
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start(m.initial), m.listen())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint:ireturn
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		if m.mode == modeDetail {
			m.renderDetail()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchedMsg:
		return m, m.applyFetch(msg)

	case refreshMsg:
		return m, tea.Batch(m.reload(), m.listen())

	case deletedMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		if msg.err != nil {
			m.flash = m.styles.danger.Render("Delete failed: " + perr.Message(msg.err))
			m.logger.Error("delete failed", "collection", m.resource.Kind().Name, "error", msg.err)
		} else {
			m.flash = m.styles.success.Render("Deleted " + msg.name)
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.flash = m.styles.danger.Render("Copy failed: " + perr.Message(msg.err))
		} else {
			m.flash = "Copied " + msg.id
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) applyFetch(msg fetchedMsg) tea.Cmd {
	if msg.epoch != m.epoch {
		return nil
	}
	if !m.ctrl.Complete(msg.ticket, msg.page, msg.err) {
		m.logger.Debug("discarded stale page", "page", msg.ticket.Page, "seq", msg.ticket.Seq)
		return nil
	}
	if msg.err != nil {
		m.logger.Error("fetch failed", "collection", m.resource.Kind().Name, "page", msg.ticket.Page, "error", msg.err)
	}
	// the last page emptied under us, step back to the new last page
	if last := m.ctrl.Overshoot(); last > 0 {
		return m.setPage(last)
	}
	m.syncRows()
	return nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) { //nolint:ireturn
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeConfirmDelete:
		return m, m.confirmDelete(key)
	case modeDetail:
		switch key {
		case "esc", "backspace", "q", "enter":
			m.mode = modeTable
			return m, nil
		case "y":
			return m, m.copySelected()
		}
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	m.flash = ""
	state := m.ctrl.State()
	switch key {
	case "q", "esc":
		return m, tea.Quit
	case "left", "p", "h", "pgup":
		if m.ctrl.Target() > 1 {
			return m, m.setPage(m.ctrl.Target() - 1)
		}
		return m, nil
	case "right", "n", "l", "pgdown":
		if m.ctrl.Target() < state.TotalPages {
			return m, m.setPage(m.ctrl.Target() + 1)
		}
		return m, nil
	case "g", "home":
		return m, m.setPage(1)
	case "G", "end":
		return m, m.setPage(state.TotalPages)
	case "r":
		return m, m.reload()
	case "tab":
		if err := m.open(m.resource.Kind().Next(), 1); err != nil {
			m.flash = m.styles.danger.Render(err.Error())
			return m, nil
		}
		return m, m.start(m.initial)
	case "enter":
		if m.selected() != nil {
			m.mode = modeDetail
			m.renderDetail()
		}
		return m, nil
	case "y":
		return m, m.copySelected()
	case "d":
		if item := m.selected(); item != nil {
			m.pending = item
			m.mode = modeConfirmDelete
		}
		return m, nil
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		if n := int(key[0] - '0'); n <= state.TotalPages {
			return m, m.setPage(n)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *model) confirmDelete(key string) tea.Cmd {
	item := m.pending
	m.pending = nil
	m.mode = modeTable
	if item == nil || (key != "y" && key != "Y") {
		m.flash = "Delete cancelled"
		return nil
	}

	m.flash = "Deleting " + describe(item) + "..."
	dispatcher, ctx, epoch := m.dispatcher, m.ctx, m.epoch
	m.logger.Info("deleting item", "collection", m.resource.Kind().Name, "id", item.GetID())
	return func() tea.Msg {
		err := dispatcher.Remove(ctx, item.GetID())
		return deletedMsg{epoch: epoch, name: describe(item), err: err}
	}
}

func (m *model) copySelected() tea.Cmd {
	item := m.selected()
	if item == nil {
		return nil
	}
	id, copyFn := item.GetID(), m.opts.Copy
	return func() tea.Msg {
		return copiedMsg{id: id, err: copyFn(id)}
	}
}

func (m *model) selected() content.Item {
	items := m.ctrl.State().Items
	i := m.table.Cursor()
	if i < 0 || i >= len(items) {
		return nil
	}
	return items[i]
}

func describe(item content.Item) string {
	if name := strings.TrimSpace(item.DisplayName()); name != "" {
		return fmt.Sprintf("%q", name)
	}
	return item.GetID()
}

func (m *model) renderDetail() {
	item := m.selected()
	if item == nil {
		m.mode = modeTable
		return
	}
	w, h := m.bodySize()
	m.detail = viewport.New(w, h)
	m.detail.SetContent(render.Markdown(present.Markdown(item), render.Options{
		NoColor: m.opts.NoColor,
		Width:   w,
	}))
}

func (m *model) bodySize() (int, int) {
	// border and padding on both sides
	w := max(m.width-4, 20)
	h := max(m.height-chromeHeight, 3)
	return w, h
}

func (m *model) applyTableStyles() {
	p := m.opts.Palette
	st := table.DefaultStyles()
	st.Header = st.Header.
		Foreground(p.Adaptive(theme.ColorTextPrimary)).
		Background(p.Adaptive(theme.ColorSurface)).
		Bold(true)
	st.Cell = st.Cell.Foreground(p.Adaptive(theme.ColorTextPrimary))
	st.Selected = st.Selected.
		Foreground(p.Adaptive(theme.ColorPrimaryText)).
		Background(p.Adaptive(theme.ColorPrimary))
	m.table.SetStyles(st)
}

// layout sizes the columns for the current collection and terminal
func (m *model) layout() {
	if m.resource == nil {
		return
	}
	w, h := m.bodySize()
	m.table.SetColumns(fitColumns(present.Columns(m.resource.Kind()), w))
	m.table.SetHeight(h)
	m.syncRows()
}

// fitColumns grows or shrinks the widest column so the table fills width.
// Each column costs two cells of padding in the table styles.
func fitColumns(cols []present.Column, width int) []table.Column {
	used, widest := 0, 0
	for i, c := range cols {
		used += c.Width + 2
		if c.Width > cols[widest].Width {
			widest = i
		}
	}
	rv := make([]table.Column, len(cols))
	for i, c := range cols {
		rv[i] = table.Column{Title: c.Title, Width: c.Width}
	}
	if len(rv) > 0 {
		rv[widest].Width = max(rv[widest].Width+width-used, 8)
	}
	return rv
}

func (m *model) syncRows() {
	items := m.ctrl.State().Items
	cols := m.table.Columns()
	rows := make([]table.Row, len(items))
	for i, item := range items {
		cells := present.Row(item)
		row := make(table.Row, len(cols))
		for j := range cols {
			if j < len(cells) {
				row[j] = ansi.Truncate(cells[j], cols[j].Width, "…")
			}
		}
		rows[i] = row
	}
	m.table.SetRows(rows)
	// SetCursor on an empty table leaves the cursor at -1
	switch c := m.table.Cursor(); {
	case len(rows) == 0:
	case c < 0:
		m.table.SetCursor(0)
	case c >= len(rows):
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *model) View() string {
	state := m.ctrl.State()
	kind := m.resource.Kind()

	title := m.styles.title.Render("pressctl · " + strings.ToUpper(kind.Name[:1]) + kind.Name[1:])
	if m.opts.Profile != "" {
		title += m.styles.muted.Render("  profile " + m.opts.Profile)
	}

	var body string
	switch {
	case m.mode == modeDetail:
		body = m.detail.View()
	case state.Status == listsync.Error:
		body = m.styles.danger.Render("Error: "+state.Err) + "\n" +
			m.styles.muted.Render("press r to retry")
	case len(state.Items) == 0 && state.Status == listsync.Idle:
		body = m.styles.muted.Render("No " + kind.Label + "s yet.")
	default:
		body = m.table.View()
	}
	w, _ := m.bodySize()
	body = m.styles.box.Width(w + 2).Render(body)

	sections := []string{title, body, m.pageBar(state), m.statusLine(state), m.styles.muted.Render(m.help())}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// pageBar renders the numbered page window around the target page
func (m *model) pageBar(state listsync.State[content.Item]) string {
	current := pagination.Clamp(m.ctrl.Target(), state.TotalPages)
	window := pagination.Window(current, state.TotalPages, pagination.DefaultMaxVisible)

	parts := make([]string, 0, len(window)+2)
	parts = append(parts, m.arrow("‹", current > 1))
	for _, p := range window {
		label := fmt.Sprintf(" %d ", p)
		if p == current {
			label = m.styles.current.Render(label)
		}
		parts = append(parts, label)
	}
	parts = append(parts, m.arrow("›", current < state.TotalPages))

	summary := fmt.Sprintf("  page %d of %d", current, state.TotalPages)
	if state.TotalItems > 0 {
		summary += fmt.Sprintf(" · %d total", state.TotalItems)
	}
	return strings.Join(parts, "") + m.styles.muted.Render(summary)
}

func (m *model) arrow(s string, enabled bool) string {
	if enabled {
		return " " + s + " "
	}
	return m.styles.muted.Render(" " + s + " ")
}

func (m *model) statusLine(state listsync.State[content.Item]) string {
	switch {
	case m.mode == modeConfirmDelete && m.pending != nil:
		return m.styles.danger.Render(fmt.Sprintf("Delete %s %s? y to confirm, any other key to cancel",
			m.resource.Kind().Label, describe(m.pending)))
	case state.Status == listsync.Loading:
		return m.spinner.View() + " Loading page " + fmt.Sprint(m.ctrl.Target()) + "..."
	}
	return m.flash
}

func (m *model) help() string {
	if m.mode == modeDetail {
		return "↑/↓ scroll · y copy id · esc back"
	}
	return "←/→ page · 1-9 jump · g/G first/last · tab collection · enter open · y copy id · d delete · r reload · q quit"
}
