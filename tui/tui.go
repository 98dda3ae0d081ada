package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/dungeoncore/cli"
	"github.com/nathoo/dungeoncore/engine"
	"github.com/nathoo/dungeoncore/engine/parser"
	"github.com/nathoo/dungeoncore/engine/resolve"
	"github.com/nathoo/dungeoncore/types"
)

// rawLine stores an unstyled log line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed typed commands
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the dungeon TUI.
type Model struct {
	ctx    context.Context
	engine *engine.Engine
	title  string
	intro  string

	keys     keyMap
	help     help.Model
	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated log lines (unstyled, for re-wrapping)

	width    int
	height   int
	ready    bool
	typing   bool // command line has focus
	trace    bool
	quitting bool
	lastCmd  string
}

// gameOutputMsg carries startup text into the Update loop.
type gameOutputMsg struct {
	lines    []string
	isSystem bool
}

// New creates a TUI model wired to the given engine.
func New(ctx context.Context, eng *engine.Engine, title, intro string) Model {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		ctx:     ctx,
		engine:  eng,
		title:   title,
		intro:   intro,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   ti,
		history: NewHistory(100),
	}
}

// Run starts the Bubble Tea program.
func Run(ctx context.Context, eng *engine.Engine, title, intro string) error {
	m := New(ctx, eng, title, intro)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init returns the command that produces the intro text.
func (m Model) Init() tea.Cmd {
	return m.initialOutput()
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string
		if m.intro != "" {
			lines = append(lines, m.intro, "")
		}
		lines = append(lines, "Goal: "+m.engine.Goal())
		return gameOutputMsg{lines: lines}
	}
}

// Update handles messages (key presses, window resize, startup output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		if !m.ready {
			m.viewport = viewport.New(m.width, m.logHeight())
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = m.logHeight()
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m.updateTyping(msg)
		}
		return m.updateMap(msg)

	case gameOutputMsg:
		m = m.appendLines(msg.lines, msg.isSystem)
	}
	return m, nil
}

// logHeight is what remains for the log after the map, status bar and footer.
func (m Model) logHeight() int {
	h := m.height - (m.engine.Snapshot().Height + 2) - 3
	if m.help.ShowAll {
		h -= 3
	}
	if h < 3 {
		h = 3
	}
	return h
}

// updateMap handles single-key play.
func (m Model) updateMap(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if dir, ok := m.keys.direction(msg); ok {
		return m.step(types.Intent{Kind: types.IntentMove, Dir: dir}), nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		if m.ready {
			m.viewport.Height = m.logHeight()
			m.refreshViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.typing = true
		m.input.SetValue("")
		if msg.String() == "/" {
			m.input.SetValue("/")
			m.input.CursorEnd()
		}
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.PickUp):
		return m.step(types.Intent{Kind: types.IntentPickUp}), nil

	case key.Matches(msg, m.keys.Wait):
		return m.step(types.Intent{Kind: types.IntentWait}), nil

	case key.Matches(msg, m.keys.UseItem):
		slot := int(msg.String()[0] - '1')
		return m.step(types.Intent{Kind: types.IntentUseItem, Index: slot}), nil

	case msg.String() == "i":
		return m.appendLines(m.inventoryLines(), false), nil

	case msg.String() == "pgup", msg.String() == "pgdown", msg.String() == "ctrl+u", msg.String() == "ctrl+d":
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, vpCmd
	}
	return m, nil
}

// updateTyping handles the command line.
func (m Model) updateTyping(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.typing = false
		m.input.Blur()
		m.history.ResetCursor()
		return m, nil

	case "enter":
		return m.handleEnter()

	case "up":
		if prev, ok := m.history.Prev(); ok {
			m.input.SetValue(prev)
			m.input.CursorEnd()
		}
		return m, nil

	case "down":
		if next, ok := m.history.Next(); ok {
			m.input.SetValue(next)
			m.input.CursorEnd()
		} else {
			m.input.SetValue("")
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleEnter processes the submitted command line and returns to map mode.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	m.input.Blur()
	m.typing = false

	if input == "" {
		return m, nil
	}
	m.history.Push(input)

	if strings.EqualFold(input, "again") {
		if m.lastCmd == "" {
			m.rawLines = append(m.rawLines, rawLine{text: "> " + input, isInput: true})
			return m.appendLines([]string{"Nothing to repeat."}, true), nil
		}
		input = m.lastCmd
	} else if !strings.HasPrefix(input, "/") {
		m.lastCmd = input
	}

	m.rawLines = append(m.rawLines, rawLine{text: "> " + input, isInput: true})

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendLines(output, true)
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	cmd, err := parser.Parse(input)
	if err != nil {
		return m.appendLines([]string{cli.DescribeParseError(err)}, false), nil
	}
	switch cmd.Verb {
	case "look":
		return m.appendLines([]string{"Goal: " + m.engine.Goal()}, false), nil
	case "inventory":
		return m.appendLines(m.inventoryLines(), false), nil
	case "help":
		return m.appendLines(m.cmdHelp(), true), nil
	}

	if cmd.NeedsItem() {
		idx, err := resolve.Item(m.engine.Snapshot().Player.Inventory, cmd.Object)
		if err != nil {
			return m.appendLines([]string{err.Error()}, false), nil
		}
		cmd.Intent.Index = idx
	}
	return m.step(cmd.Intent), nil
}

// step submits one intent to the engine and logs what happened.
func (m Model) step(in types.Intent) Model {
	result, err := m.engine.Step(m.ctx, in)
	if err != nil {
		lines := []string{cli.Describe(err)}
		if m.trace {
			lines = append(lines, fmt.Sprintf("[trace] rejected: %v", err))
		}
		return m.appendLines(lines, false)
	}

	for _, ev := range result.Events {
		if ev.Message != "" {
			m.rawLines = append(m.rawLines, rawLine{text: ev.Message, kind: classifyEvent(ev)})
		}
	}
	if m.trace {
		m.rawLines = append(m.rawLines, rawLine{
			text: fmt.Sprintf("[trace] Turn %d, events: %d, rng: %d", result.Turn, len(result.Events), m.engine.Snapshot().RNGPosition),
			kind: kindTrace,
		})
	}

	switch result.Status {
	case types.StatusWon:
		m.rawLines = append(m.rawLines, rawLine{text: "You have won! " + result.Reason + " Press q to quit.", kind: kindLoot})
	case types.StatusLost:
		m.rawLines = append(m.rawLines, rawLine{text: "You have died. " + result.Reason + " Press q to quit.", kind: kindCombat})
	}
	m.refreshViewport()
	return m
}

// appendLines adds lines to the log and refreshes the viewport.
func (m Model) appendLines(lines []string, system bool) Model {
	for _, line := range lines {
		rl := rawLine{text: line, isSystem: system}
		if !system {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	styled := make([]string, 0, len(m.rawLines))
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the layout: title, map, status bar, log, then help or input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	footer := m.help.View(m.keys)
	if m.typing {
		footer = m.input.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styleBanner.Render(m.title)+"  "+styleGoal.Render(m.engine.Goal()),
		m.renderMap(),
		m.renderStatusBar(),
		m.viewport.View(),
		footer,
	)
}

func (m Model) inventoryLines() []string {
	inv := m.engine.Snapshot().Player.Inventory
	if len(inv) == 0 {
		return []string{"You are carrying nothing."}
	}
	lines := []string{"You are carrying:"}
	for i, it := range inv {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, it.Name))
	}
	return lines
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/log":
		n := 10
		if len(parts) > 1 {
			v, err := strconv.Atoi(parts[1])
			if err != nil || v < 1 {
				return []string{fmt.Sprintf("Bad count: %s", parts[1])}, false
			}
			n = v
		}
		recent := m.engine.Recent(n)
		if len(recent) == 0 {
			return []string{"The log is empty."}, false
		}
		lines := make([]string, len(recent))
		for i, ev := range recent {
			lines[i] = fmt.Sprintf("%4d  %s", ev.Turn, ev.Message)
		}
		return lines, false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdHelp() []string {
	return []string{
		"Keys: arrows/wasd/hjkl move or attack, g pick up, 1-9 use item, . wait,",
		"i inventory, : command line, ? more keys, q quit, PgUp/PgDn scroll log.",
		"Command line: n/s/e/w, take, use <slot|item>, wait, inv, again,",
		"/state, /log [n], /trace, /help, /quit. Esc returns to the map.",
	}
}

func (m *Model) cmdState() []string {
	s := m.engine.Snapshot()
	npcs, err := json.Marshal(s.NPCs)
	if err != nil {
		return []string{fmt.Sprintf("State failed: %v", err)}
	}
	return []string{
		fmt.Sprintf("Turn: %d  Status: %s  RNG: %d", s.Turn, s.Status, s.RNGPosition),
		fmt.Sprintf("Player: (%d,%d) HP %d/%d", s.Player.Pos.X, s.Player.Pos.Y, s.Player.Health, s.Player.MaxHealth),
		fmt.Sprintf("Ground items: %d", len(s.Items)),
		"NPCs: " + string(npcs),
	}
}
