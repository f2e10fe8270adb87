package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dm/dfsmon/internal/engine"
	"github.com/dm/dfsmon/internal/model"
	"github.com/dm/dfsmon/internal/session"
	"github.com/dm/dfsmon/internal/sink"
)

// Sessions is the part of session.Manager the TUI drives.
type Sessions interface {
	Login(ctx context.Context, username, password string) (session.Credential, error)
	Refresh()
}

// Options configures an App.
type Options struct {
	Coordinator string             // shown in the header and login box
	Username    string             // prefills the login form
	Interval    time.Duration      // shown in the header
	Updates     <-chan sink.Update // poll outcomes, usually sink.Channel.Updates()
	Logger      *log.Logger
}

type screen int

const (
	screenLogin screen = iota
	screenDashboard
)

const (
	focusNodes = iota
	focusFiles
	focusChunks
	numTables
)

var tableNames = [numTables]string{"Nodes", "Files", "Chunks"}

// maxIssueLines caps the integrity issues listed above the tables.
const maxIssueLines = 3

// App is the root Bubble Tea model for dfsmon.
type App struct {
	sessions    Sessions
	updates     <-chan sink.Update
	coordinator string
	interval    time.Duration
	limiter     *rate.Limiter
	logger      *log.Logger
	now         func() time.Time

	screen screen
	login  loginForm

	// Poll state
	current          *model.Summary // last published summary, kept while stale
	history          *model.History
	lastError        error // set by a failed poll, cleared by the next success
	consecutiveFails int
	lastUpdated      time.Time

	nodes  NodeTable
	files  FileTable
	chunks ChunkTable
	focus  int

	// Layout
	width, height int

	// UI state
	showHelp         bool
	refreshThrottled bool
}

// NewApp returns an App showing the login form.
func NewApp(s Sessions, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = engine.DefaultInterval
	}
	app := &App{
		sessions:    s,
		updates:     opts.Updates,
		coordinator: opts.Coordinator,
		interval:    interval,
		// One manual refresh per second, no bursts.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  logger.WithPrefix("tui"),
		now:     time.Now,
		login:   newLoginForm(opts.Username),
		history: model.NewHistory(0),
		nodes:   NewNodeTable(),
		files:   NewFileTable(),
		chunks:  NewChunkTable(),
	}
	app.setFocus(focusNodes)
	return app
}

// Init implements tea.Model.
func (app *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForUpdate(app.updates), clockTickCmd())
}

// Update implements tea.Model.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height
		app.resizeTables()
		return app, nil

	case ClockTickMsg:
		return app, clockTickCmd()

	case LoginResultMsg:
		app.login.pending = false
		if msg.Err != nil {
			app.login.errMsg = loginErrorMessage(msg.Err)
			app.logger.Warn("login failed", "err", msg.Err)
			return app, nil
		}
		app.login.errMsg = ""
		app.login.inputs[1].SetValue("")
		app.screen = screenDashboard
		return app, nil

	case UpdateMsg:
		if msg.Err != nil {
			app.lastError = msg.Err
			app.consecutiveFails++
		} else if msg.Summary != nil {
			app.applySummary(msg.Summary)
		}
		return app, waitForUpdate(app.updates)

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			return app, tea.Quit
		}
		if app.screen == screenLogin {
			return app, app.updateLogin(msg)
		}
		return app, app.handleDashboardKey(msg)
	}

	if app.screen == screenLogin {
		return app, app.updateLogin(msg)
	}
	return app, app.updateFocused(msg)
}

func (app *App) updateLogin(msg tea.Msg) tea.Cmd {
	form, submit, cmd := app.login.Update(msg)
	app.login = form
	if !submit {
		return cmd
	}
	app.login.pending = true
	app.login.errMsg = ""
	return loginCmd(app.sessions, app.login.username(), app.login.password())
}

func (app *App) handleDashboardKey(msg tea.KeyMsg) tea.Cmd {
	// While a table search is open every key belongs to the text input.
	if app.focusedSearching() {
		return app.updateFocused(msg)
	}
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Refresh):
		app.refreshThrottled = !app.limiter.AllowN(app.now(), 1)
		if !app.refreshThrottled {
			app.sessions.Refresh()
		}
		return nil
	case key.Matches(msg, keys.Help):
		app.showHelp = !app.showHelp
		return nil
	case key.Matches(msg, keys.Tab):
		app.setFocus((app.focus + 1) % numTables)
		return nil
	case key.Matches(msg, keys.ShiftTab):
		app.setFocus((app.focus + numTables - 1) % numTables)
		return nil
	}
	return app.updateFocused(msg)
}

// applySummary installs a freshly published summary.
func (app *App) applySummary(s *model.Summary) {
	app.current = s
	app.history.Push(model.PointFromSummary(s))
	app.lastError = nil
	app.consecutiveFails = 0
	app.lastUpdated = s.ReceivedAt
	if app.lastUpdated.IsZero() {
		app.lastUpdated = app.now()
	}
	app.nodes.SetData(s.NodeRows)
	app.files.SetData(s.Files)
	app.chunks.SetData(s.Chunks)
}

func (app *App) setFocus(i int) {
	app.focus = i
	app.nodes.focused = i == focusNodes
	app.files.focused = i == focusFiles
	app.chunks.focused = i == focusChunks
}

func (app *App) focusedSearching() bool {
	switch app.focus {
	case focusFiles:
		return app.files.searching
	case focusChunks:
		return app.chunks.searching
	default:
		return app.nodes.searching
	}
}

func (app *App) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch app.focus {
	case focusFiles:
		app.files, cmd = app.files.Update(msg)
	case focusChunks:
		app.chunks, cmd = app.chunks.Update(msg)
	default:
		app.nodes, cmd = app.nodes.Update(msg)
	}
	return cmd
}

// resizeTables fits the table page size to the space left under the
// header, overview, and trend cards.
func (app *App) resizeTables() {
	const chrome = 24
	size := 10
	if app.height > 0 {
		size = max(3, min(app.height-chrome, 50))
	}
	app.nodes.pageSize = size
	app.files.pageSize = size
	app.chunks.pageSize = size
	app.nodes.clamp(len(app.nodes.displayRows))
	app.files.clamp(len(app.files.displayRows))
	app.chunks.clamp(len(app.chunks.displayRows))
}

// View implements tea.Model.
func (app *App) View() string {
	if app.screen == screenLogin {
		return renderLogin(app)
	}

	parts := []string{renderHeader(app)}
	if app.current == nil {
		parts = append(parts, StyleDim.Render("  Waiting for the first snapshot..."))
	}
	if o := renderOverview(app); o != "" {
		parts = append(parts, o)
	}
	if t := renderTrendsRow(app); t != "" {
		parts = append(parts, t)
	}
	if i := renderIssues(app, maxIssueLines); i != "" {
		parts = append(parts, i)
	}
	parts = append(parts, renderTabs(app), app.focusedView(), renderFooter(app))

	return strings.Join(parts, "\n")
}

func (app *App) focusedView() string {
	switch app.focus {
	case focusFiles:
		return app.files.View(app.width)
	case focusChunks:
		return app.chunks.View(app.width)
	default:
		return app.nodes.View(app.width)
	}
}

// renderTabs renders the table selector with row counts.
func renderTabs(app *App) string {
	counts := [numTables]int{
		len(app.nodes.displayRows),
		len(app.files.displayRows),
		len(app.chunks.displayRows),
	}
	tabs := make([]string, numTables)
	for i, name := range tableNames {
		label := name + " " + formatCount(counts[i])
		if i == app.focus {
			tabs[i] = StyleTabActive.Render(label)
		} else {
			tabs[i] = StyleTabInactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func formatCount(n int) string {
	return "(" + strconv.Itoa(n) + ")"
}

// waitForUpdate blocks on the next poll outcome. A closed or nil channel
// ends the subscription.
func waitForUpdate(ch <-chan sink.Update) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return UpdateMsg(u)
	}
}

// clockTickCmd fires once per second so relative times stay current.
func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return ClockTickMsg(t)
	})
}
