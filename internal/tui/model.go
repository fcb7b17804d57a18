// Package tui provides the BubbleTea-based terminal toast host.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/toastui/internal/adapter/output"
	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/loop"
	"github.com/jmylchreest/toastui/internal/model"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeStack Mode = iota
	ModeCompose
)

// runMsg carries a callback that must run on the bubbletea event loop.
type runMsg func()

// callMsg is a runMsg whose sender waits for completion.
type callMsg struct {
	fn   func()
	done chan struct{}
}

type tickMsg time.Time

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// Options configures a Model.
type Options struct {
	Holder    *config.Holder
	Scheduler loop.Scheduler
	Logger    *slog.Logger
}

// Model is the terminal host. It owns the stack manager and drives it from
// Update, which is the single event loop of the program.
type Model struct {
	holder   *config.Holder
	mgr      *toast.Manager
	renderer *Renderer
	events   *eventLog

	keys  KeyMap
	help  help.Model
	input textinput.Model

	mode    Mode
	variant model.Variant
	cursor  int
	now     func() time.Time

	width  int
	height int
	ready  bool

	statusMsg string
	statusErr bool
}

// New creates a new TUI model.
func New(opts Options) Model {
	if opts.Holder == nil {
		opts.Holder = config.NewHolder(nil)
	}
	holder := opts.Holder

	renderer := NewRenderer(opts.Scheduler, func() time.Duration {
		return holder.Load().Display.ExitAnimation.Duration()
	})
	mgr := toast.NewManager(renderer, opts.Scheduler, holder.Settings, opts.Logger)

	events := newEventLog(3)
	mgr.SetEmitter(events)

	input := textinput.New()
	input.Placeholder = "Message..."
	input.CharLimit = 200

	return Model{
		holder:   holder,
		mgr:      mgr,
		renderer: renderer,
		events:   events,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    input,
		mode:     ModeStack,
		variant:  model.VariantDefault,
		now:      time.Now,
	}
}

// Manager returns the stack manager driven by this model.
func (m Model) Manager() *toast.Manager {
	return m.mgr
}

// Events returns the listener that records stack events for the footer.
func (m Model) Events() toast.Emitter {
	return m.events
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tick()
}

// tick refreshes relative ages once per second.
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		return m, nil

	case runMsg:
		msg()
		m.clampCursor()
		return m, nil

	case callMsg:
		msg.fn()
		close(msg.done)
		m.clampCursor()
		return m, nil

	case tickMsg:
		return m, tick()

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, status("Copy failed: "+msg.err.Error(), true)
		}
		return m, status("Copied to clipboard", false)
	}

	if m.mode == ModeCompose {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeCompose {
		return m.handleComposeKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.renderer.Len()-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.mode = ModeCompose
		m.input.SetValue("")
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Dismiss):
		if nd := m.selected(); nd != nil {
			m.mgr.Dismiss(nd.n.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.mgr.Clear()
		m.cursor = 0
		return m, status("Cleared", false)

	case key.Matches(msg, m.keys.Copy):
		if nd := m.selected(); nd != nil {
			return m, copyToClipboard(nd.n.Message)
		}
		return m, nil
	}

	return m, nil
}

// handleComposeKey handles keys while typing a new toast.
func (m Model) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		m.mode = ModeStack
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Variant):
		m.variant = nextVariant(m.variant)
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		text := strings.TrimSpace(m.input.Value())
		m.mode = ModeStack
		m.input.Blur()
		if text == "" {
			return m, nil
		}
		m.mgr.Show(text, m.variant)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// nextVariant cycles through the variants in declaration order.
func nextVariant(v model.Variant) model.Variant {
	vs := model.Variants()
	for i, x := range vs {
		if x == v {
			return vs[(i+1)%len(vs)]
		}
	}
	return vs[0]
}

// selected returns the toast under the cursor.
func (m Model) selected() *node {
	vis := m.renderer.visible()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return nil
	}
	return vis[m.cursor]
}

func (m *Model) clampCursor() {
	if n := m.renderer.Len(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

// copyToClipboard copies text to the system clipboard.
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{err: clipboard.WriteAll(text)}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.viewHeader()
	footer := m.viewFooter()
	bodyHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	return header + "\n" + m.viewStack(bodyHeight) + "\n" + footer
}

func (m Model) viewHeader() string {
	pos := m.mgr.Settings().Position
	return headerStyle.Render("toastui") + " " +
		dimStyle.Render(pluralToasts(m.renderer.Len())+" · "+string(pos))
}

func pluralToasts(n int) string {
	if n == 1 {
		return "1 toast"
	}
	return fmt.Sprintf("%d toasts", n)
}

func (m Model) viewStack(height int) string {
	accents := m.holder.Load().Theme.Accents
	now := m.now()
	h, v := placement(m.renderer.Position())

	vis := m.renderer.visible()
	boxes := make([]string, len(vis))
	for i, nd := range vis {
		boxes[i] = renderToast(nd, accents, i == m.cursor, now, m.width)
	}

	return lipgloss.Place(m.width, height, h, v, joinStack(boxes, h))
}

func (m Model) viewFooter() string {
	var lines []string

	if m.mode == ModeCompose {
		accent := lipgloss.Color(m.holder.Load().Theme.Accents.For(m.variant))
		label := lipgloss.NewStyle().Foreground(accent).Bold(true).Render(string(m.variant))
		lines = append(lines, label+" "+m.input.View())
	}

	switch {
	case m.statusMsg != "" && m.statusErr:
		lines = append(lines, errorStyle.Render(m.statusMsg))
	case m.statusMsg != "":
		lines = append(lines, statusStyle.Render(m.statusMsg))
	case m.events.Last() != "":
		lines = append(lines, dimStyle.Render(m.events.Last()))
	}

	if m.mode == ModeCompose {
		lines = append(lines, m.help.View(composeKeys{m.keys}))
	} else {
		lines = append(lines, m.help.View(m.keys))
	}

	return strings.Join(lines, "\n")
}

// eventLog keeps the last few stack events as text.
type eventLog struct {
	size  int
	lines []string
}

func newEventLog(size int) *eventLog {
	return &eventLog{size: size}
}

// Emit implements toast.Emitter.
func (l *eventLog) Emit(ev toast.Event) {
	l.lines = append(l.lines, output.EventLine(ev))
	if len(l.lines) > l.size {
		l.lines = l.lines[len(l.lines)-l.size:]
	}
}

// Last returns the most recent event line.
func (l *eventLog) Last() string {
	if len(l.lines) == 0 {
		return ""
	}
	return l.lines[len(l.lines)-1]
}
