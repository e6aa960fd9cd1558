// Package tui is the interactive chore view.
//
// The model keeps the last applied chore snapshot and points snapshot and
// redraws from them. Every server call runs as a [tea.Cmd]; its result comes
// back through Update, which is the only place view state changes.
package tui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/chores/internal/chart"
	"github.com/idilsaglam/chores/internal/model"
	"github.com/idilsaglam/chores/internal/view"
)

const (
	endpointChores = "/chores"
	endpointPoints = "/points"

	chartSurfaceWidth  = 300
	chartSurfaceHeight = 100
	chartRows          = 5
)

// Client is the part of the API client the view needs.
type Client interface {
	Chores(ctx context.Context) ([]model.Chore, error)
	Points(ctx context.Context) (model.PointsData, error)
	Submit(ctx context.Context, action string, form url.Values) error
}

type Options struct {
	// RollbackOnFailure restores a row's look when its action fails.
	RollbackOnFailure bool
	Player            Player
	Logger            *log.Logger
	// Now is the chart clock.
	Now func() time.Time
}

type (
	choresLoadedMsg struct {
		snap model.Snapshot
	}
	choresFailedMsg struct {
		seq uint64
		err error
	}
	pointsLoadedMsg struct {
		seq    uint64
		points model.PointsData
	}
	pointsFailedMsg struct {
		seq uint64
		err error
	}
	completionDoneMsg struct {
		key view.RowKey
		err error
	}
	claimDoneMsg struct {
		key view.RowKey
		err error
	}
)

type Model struct {
	client Client
	opts   Options
	log    *log.Logger

	page    view.Page
	loaded  bool
	charts  *chart.Set
	points  bool
	pending *view.Pending
	seq     *view.Sequencer

	section int // 0: my chores, 1: claimable
	cursor  [2]int

	inflight int
	status   string

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	width   int
	height  int
}

func New(c Client, pc model.PageContext, opts Options) *Model {
	if opts.Player == nil {
		opts.Player = Silent{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return &Model{
		client:  c,
		opts:    opts,
		log:     opts.Logger,
		page:    view.Render(pc, nil),
		charts:  chart.NewSet(chartSurfaceWidth, chartSurfaceHeight),
		pending: view.NewPending(),
		seq:     view.NewSequencer(),
		spinner: s,
		help:    help.New(),
		keys:    defaultKeys(),
		width:   80,
		height:  24,
	}
}

// Page is the currently displayed chore page.
func (m *Model) Page() view.Page { return m.page }

// Charts are the surfaces last drawn from points data.
func (m *Model) Charts() *chart.Set { return m.charts }

// RowState is the pending-action state of one row.
func (m *Model) RowState(section string, choreID int) view.RowState {
	return m.pending.State(view.RowKey{Section: section, ChoreID: choreID})
}

// Status is the last error shown in the status line, if any.
func (m *Model) Status() string { return m.status }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadChores(), m.loadPoints())
}

// loadChores requests a fresh chore snapshot.
func (m *Model) loadChores() tea.Cmd {
	seq := m.seq.Next(endpointChores)
	m.inflight++
	c := m.client
	return func() tea.Msg {
		chores, err := c.Chores(context.Background())
		if err != nil {
			return choresFailedMsg{seq: seq, err: err}
		}
		return choresLoadedMsg{snap: model.Snapshot{Seq: seq, Chores: chores}}
	}
}

// loadPoints requests fresh chart data.
func (m *Model) loadPoints() tea.Cmd {
	seq := m.seq.Next(endpointPoints)
	m.inflight++
	c := m.client
	return func() tea.Msg {
		p, err := c.Points(context.Background())
		if err != nil {
			return pointsFailedMsg{seq: seq, err: err}
		}
		return pointsLoadedMsg{seq: seq, points: p}
	}
}

// submitChoreCompletion flips a "my chores" row. The fade and the cue happen
// before the server answers.
func (m *Model) submitChoreCompletion(row view.Row) tea.Cmd {
	k := view.RowKey{Section: view.MyChoresID, ChoreID: row.ChoreID}
	if m.pending.State(k).InFlight {
		return nil
	}
	checked := !m.displayChecked(row)
	m.pending.BeginToggle(k, checked)

	form := cloneValues(row.Form.Values)
	form.Set("completed", strconv.FormatBool(checked))

	var cmds []tea.Cmd
	if checked {
		cmds = append(cmds, play(m.opts.Player, CueComplete))
	}
	m.inflight++
	c, action := m.client, row.Form.Action
	cmds = append(cmds, func() tea.Msg {
		return completionDoneMsg{key: k, err: c.Submit(context.Background(), action, form)}
	})
	return tea.Batch(cmds...)
}

// submitChoreClaim claims a row from the claimable list.
func (m *Model) submitChoreClaim(row view.Row) tea.Cmd {
	k := view.RowKey{Section: view.ClaimChoresID, ChoreID: row.ChoreID}
	if m.pending.State(k).InFlight {
		return nil
	}
	m.pending.Begin(k, view.ActionClaim)

	m.inflight++
	c, action, form := m.client, row.Form.Action, cloneValues(row.Form.Values)
	return func() tea.Msg {
		return claimDoneMsg{key: k, err: c.Submit(context.Background(), action, form)}
	}
}

//nolint:ireturn // Third-party.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case choresLoadedMsg:
		m.inflight--
		if !m.seq.Accept(endpointChores, msg.snap.Seq) {
			m.log.Debug("dropping overtaken chores response", "seq", msg.snap.Seq)
			return m, nil
		}
		m.page = view.Render(m.page.Context, msg.snap.Chores)
		m.pending.Reset()
		m.loaded = true
		m.status = ""
		m.clampCursors()
		return m, nil

	case choresFailedMsg:
		m.inflight--
		m.log.Error("Error fetching chores", "err", msg.err)
		m.status = "Error fetching chores: " + msg.err.Error()
		return m, nil

	case pointsLoadedMsg:
		m.inflight--
		if !m.seq.Accept(endpointPoints, msg.seq) {
			m.log.Debug("dropping overtaken points response", "seq", msg.seq)
			return m, nil
		}
		m.charts.Draw(msg.points, m.opts.Now())
		m.points = true
		return m, nil

	case pointsFailedMsg:
		m.inflight--
		m.log.Error("Error fetching points data", "err", msg.err)
		return m, nil

	case completionDoneMsg:
		m.inflight--
		if msg.err != nil {
			m.log.Error("Error updating chore", "chore_id", msg.key.ChoreID, "err", msg.err)
			m.pending.Fail(msg.key, m.opts.RollbackOnFailure)
			m.status = "Error updating chore: " + msg.err.Error()
			return m, nil
		}
		m.pending.Succeed(msg.key)
		return m, tea.Batch(m.loadChores(), m.loadPoints())

	case claimDoneMsg:
		m.inflight--
		if msg.err != nil {
			m.log.Error("Error claiming chore", "chore_id", msg.key.ChoreID, "err", msg.err)
			m.pending.Fail(msg.key, m.opts.RollbackOnFailure)
			m.status = "Error claiming chore: " + msg.err.Error()
			return m, nil
		}
		m.pending.Succeed(msg.key)
		return m, tea.Batch(play(m.opts.Player, CueClaim), m.loadChores())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Switch):
		m.section = 1 - m.section
	case key.Matches(msg, m.keys.Up):
		if m.cursor[m.section] > 0 {
			m.cursor[m.section]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor[m.section] < len(m.current().Rows)-1 {
			m.cursor[m.section]++
		}
	case key.Matches(msg, m.keys.Reload):
		return tea.Batch(m.loadChores(), m.loadPoints())
	case key.Matches(msg, m.keys.Act):
		row, ok := m.selected()
		if !ok || row.Placeholder() {
			return nil
		}
		if m.section == 0 {
			return m.submitChoreCompletion(row)
		}
		return m.submitChoreClaim(row)
	}
	return nil
}

func (m *Model) current() view.Section {
	if m.section == 0 {
		return m.page.Mine
	}
	return m.page.Claim
}

func (m *Model) selected() (view.Row, bool) {
	rows := m.current().Rows
	i := m.cursor[m.section]
	if i < 0 || i >= len(rows) {
		return view.Row{}, false
	}
	return rows[i], true
}

func (m *Model) clampCursors() {
	for i, s := range []view.Section{m.page.Mine, m.page.Claim} {
		m.cursor[i] = min(m.cursor[i], max(len(s.Rows)-1, 0))
	}
}

// displayChecked is the checkbox state shown for a row, including a toggle
// the server has not confirmed.
func (m *Model) displayChecked(row view.Row) bool {
	return m.pending.State(view.RowKey{Section: view.MyChoresID, ChoreID: row.ChoreID}).Checked(row.Checked)
}

func (m *Model) View() string {
	var b strings.Builder

	header := titleStyle.Render("Chores")
	if u := m.page.Context.Username; u != "" {
		header += "  " + mutedStyle.Render("signed in as "+u)
	}
	if m.inflight > 0 {
		header += "  " + m.spinner.View()
	}
	b.WriteString(header + "\n\n")

	b.WriteString(m.viewSection(0, m.page.Mine))
	b.WriteString("\n")
	b.WriteString(m.viewSection(1, m.page.Claim))

	if m.points {
		cols := max(m.width-6, 20)
		b.WriteString("\n" + sectionStyle.Render("Daily points") + "\n")
		b.WriteString(chart.Terminal(m.charts.Daily, cols, chartRows) + "\n")
		b.WriteString("\n" + sectionStyle.Render("Weekly points") + "\n")
		b.WriteString(chart.Terminal(m.charts.Weekly, cols, chartRows) + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + errorStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))

	return panelString(b.String())
}

func (m *Model) viewSection(idx int, s view.Section) string {
	var b strings.Builder

	title := s.Title
	if m.section == idx {
		title = "▸ " + title
	}
	b.WriteString(sectionStyle.Render(title) + "\n")

	if !m.loaded {
		b.WriteString("  " + mutedStyle.Render("loading…") + "\n")
		return b.String()
	}

	for i, row := range s.Rows {
		prefix := "  "
		if m.section == idx && m.cursor[idx] == i {
			prefix = selectedStyle.Render("> ")
		}
		b.WriteString(prefix + m.viewRow(s.ID, row) + "\n")
	}
	return b.String()
}

func (m *Model) viewRow(section string, row view.Row) string {
	if row.Placeholder() {
		return mutedStyle.Render(row.Label)
	}

	st := m.pending.State(view.RowKey{Section: section, ChoreID: row.ChoreID})
	var line string
	switch {
	case row.HasCheckbox:
		box := mutedStyle.Render(boxUnchecked)
		if m.displayChecked(row) {
			box = successStyle.Render(boxChecked)
		}
		line = fmt.Sprintf("%s %s", box, row.Label)
	case row.HasClaim:
		line = fmt.Sprintf("%s %s", row.Label, claimButton.Render("[Claim]"))
	default:
		line = row.Label
	}

	if st.InFlight {
		line += " " + pendingStyle.Render(st.Action.String()+"…")
	}
	switch {
	case st.Style.Background != "":
		return highlight(st.Style.Background).Render(line)
	case st.Style.Faded():
		return fadedStyle.Render(line)
	}
	return line
}

// Run starts the interactive view and blocks until the user quits.
func Run(ctx context.Context, m *Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
