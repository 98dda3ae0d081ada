package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/dungeoncore/engine"
	"github.com/nathoo/dungeoncore/engine/behavior"
	"github.com/nathoo/dungeoncore/types"
)

// testConfig returns a quiet room: player at (2,2), a potion underfoot and
// the treasure two steps east.
func testConfig() engine.Config {
	return engine.Config{
		Width:       10,
		Height:      6,
		Seed:        1,
		Enclose:     true,
		PlayerStart: types.Position{X: 2, Y: 2},
		Mode:        types.ModeTreasureHunt,
		Items: []engine.ItemSpawn{
			{Item: behavior.Potion, Pos: types.Position{X: 2, Y: 2}},
			{Item: behavior.Treasure, Pos: types.Position{X: 4, Y: 2}},
		},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	eng, err := engine.New(testConfig())
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return New(context.Background(), eng, "Test Dungeon", "Welcome to the test.")
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func logText(m Model) string {
	lines := make([]string, len(m.rawLines))
	for i, rl := range m.rawLines {
		lines[i] = rl.text
	}
	return strings.Join(lines, "\n")
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"[trace] Turn 3, events: 2, rng: 9", kindTrace},
		{"[HP 100/100 | Turn 1]", kindSystem},
		{"You can't go that way.", kindError},
		{"You don't have that.", kindError},
		{"A wall blocks your way.", kindError},
		{"The door is closed.", kindError},
		{"Someone is in the way.", kindError},
		{"There is nothing here to pick up.", kindError},
		{`you aren't carrying "rope"`, kindError},
		{"which potion? (1, 2)", kindError},
		{"Go where? Try north, south, east or west.", kindError},
		{"You are carrying:", kindNarration},
		{"", kindNarration},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestClassifyEvent(t *testing.T) {
	tests := []struct {
		ev   types.TurnEvent
		want lineKind
	}{
		{types.TurnEvent{Action: types.ActionAttack}, kindCombat},
		{types.TurnEvent{Action: types.ActionPickUp}, kindLoot},
		{types.TurnEvent{Action: types.ActionDrop}, kindLoot},
		{types.TurnEvent{Action: types.ActionUseItem}, kindLoot},
		{types.TurnEvent{Action: types.ActionMove, Outcome: "burned"}, kindCombat},
		{types.TurnEvent{Action: types.ActionMove}, kindNarration},
		{types.TurnEvent{Action: types.ActionIdle}, kindNarration},
	}
	for _, tt := range tests {
		got := classifyEvent(tt.ev)
		if got != tt.want {
			t.Errorf("classifyEvent(%s/%s) = %v, want %v", tt.ev.Action, tt.ev.Outcome, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"The orc swings its axe and hits you for 7.", 20,
			"The orc swings its\naxe and hits you for\n7."},
		{"", 80, ""},
		{"a b c d e", 3, "a b\nc d\ne"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHealthBar(t *testing.T) {
	tests := []struct {
		health, max int
		want        string
	}{
		{100, 100, "██████████"},
		{50, 100, "█████░░░░░"},
		{1, 100, "█░░░░░░░░░"},
		{0, 100, "░░░░░░░░░░"},
		{5, 0, ""},
	}
	for _, tt := range tests {
		got := healthBar(tt.health, tt.max)
		if got != tt.want {
			t.Errorf("healthBar(%d, %d) = %q, want %q", tt.health, tt.max, got, tt.want)
		}
	}
}

func TestGlyphStyle(t *testing.T) {
	if glyphStyle('#').GetForeground() != glyphWall.GetForeground() {
		t.Error("wall glyph should use the wall style")
	}
	if glyphStyle(types.PlayerGlyph).GetForeground() != glyphPlayer.GetForeground() {
		t.Error("player glyph should use the player style")
	}
	if glyphStyle('.').GetForeground() != glyphFloor.GetForeground() {
		t.Error("unknown glyph should fall back to floor")
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("n")
	h.Push("take")
	h.Push("use potion")

	for _, want := range []string{"use potion", "take", "n", "n"} {
		got, ok := h.Prev()
		if !ok || got != want {
			t.Errorf("Prev() = %q (ok=%v), want %q", got, ok, want)
		}
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("n")
	h.Push("e")

	h.Prev() // "e"
	h.Prev() // "n"

	next, ok := h.Next()
	if !ok || next != "e" {
		t.Errorf("expected 'e', got %q (ok=%v)", next, ok)
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSizeAndDuplicates(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("b") // skipped
	h.Push("c") // "a" evicted

	if len(h.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(h.entries))
	}
	if got, _ := h.Prev(); got != "c" {
		t.Errorf("Prev() = %q, want c", got)
	}
	if got, _ := h.Prev(); got != "b" {
		t.Errorf("expected 'b' at oldest, got %q", got)
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("n")
	h.Push("s")

	h.Prev()
	h.ResetCursor()

	if prev, ok := h.Prev(); !ok || prev != "s" {
		t.Errorf("expected 's' after reset, got %q", prev)
	}
}

func TestHandleMeta_Quit(t *testing.T) {
	m := newTestModel(t)
	for _, cmd := range []string{"/quit", "/exit"} {
		if _, quit := m.handleMeta(cmd); !quit {
			t.Errorf("expected quit=true for %s", cmd)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/trace")
	if !m.trace || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected trace enabled, got %v", output)
	}
	output, _ = m.handleMeta("/trace")
	if m.trace || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected trace disabled, got %v", output)
	}
}

func TestHandleMeta_StateAndUnknown(t *testing.T) {
	m := newTestModel(t)

	output, quit := m.handleMeta("/state")
	if quit {
		t.Error("state should not quit")
	}
	joined := strings.Join(output, "\n")
	for _, want := range []string{"Turn: 0", "Player: (2,2) HP 100/100", "Ground items: 2"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in state output:\n%s", want, joined)
		}
	}

	output, _ = m.handleMeta("/bogus")
	if !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestHandleMeta_Log(t *testing.T) {
	m := newTestModel(t)

	output, _ := m.handleMeta("/log")
	if output[0] != "The log is empty." {
		t.Errorf("expected empty log, got %v", output)
	}

	m = press(t, m, runes("."))
	m = press(t, m, runes("."))
	output, _ = m.handleMeta("/log 1")
	if len(output) != 1 || output[0] != "   2  You wait." {
		t.Errorf("/log 1 = %q", output)
	}
	output, _ = m.handleMeta("/log x")
	if !strings.Contains(output[0], "Bad count") {
		t.Errorf("expected bad count, got %v", output)
	}
}

func TestKeys_MoveAndPickUp(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, runes("g"))
	if inv := m.engine.Snapshot().Player.Inventory; len(inv) != 1 || inv[0].Kind != types.ItemPotion {
		t.Fatalf("expected the potion in inventory, got %+v", inv)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if pos := m.engine.Snapshot().Player.Pos; pos != (types.Position{X: 3, Y: 2}) {
		t.Fatalf("player at %v, want (3,2)", pos)
	}
	if m.engine.Turn() != 2 {
		t.Errorf("turn = %d, want 2", m.engine.Turn())
	}
}

func TestKeys_WinBanner(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("l"))
	m = press(t, m, runes("l"))
	m = press(t, m, runes(","))

	if m.engine.Status() != types.StatusWon {
		t.Fatalf("status = %v, want won", m.engine.Status())
	}
	if !strings.Contains(logText(m), "You have won!") {
		t.Errorf("expected win banner in log:\n%s", logText(m))
	}

	m = press(t, m, runes("."))
	if !strings.Contains(logText(m), "The game is over.") {
		t.Errorf("expected game over rejection after win:\n%s", logText(m))
	}
}

func TestKeys_RejectionIsLogged(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("k"))
	m = press(t, m, runes("k"))

	if pos := m.engine.Snapshot().Player.Pos; pos != (types.Position{X: 2, Y: 1}) {
		t.Fatalf("player at %v, want (2,1)", pos)
	}
	if !strings.Contains(logText(m), "A wall blocks your way.") {
		t.Errorf("expected wall rejection:\n%s", logText(m))
	}
	if m.engine.Turn() != 1 {
		t.Errorf("rejected move should not spend a turn, turn = %d", m.engine.Turn())
	}
}

func TestCommandLine_TypedCommands(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, runes(":"))
	if !m.typing {
		t.Fatal("expected command mode after ':'")
	}
	m.input.SetValue("take the potion")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.typing {
		t.Error("expected map mode after enter")
	}

	m = press(t, m, runes(":"))
	m.input.SetValue("use potion")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if n := len(m.engine.Snapshot().Player.Inventory); n != 0 {
		t.Errorf("expected potion used, inventory has %d items", n)
	}
	if prev, _ := m.history.Prev(); prev != "use potion" {
		t.Errorf("history newest = %q, want 'use potion'", prev)
	}
}

func TestCommandLine_SlashEntersMeta(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("/"))
	if m.input.Value() != "/" {
		t.Fatalf("input = %q, want /", m.input.Value())
	}
	m.input.SetValue("/trace")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.trace {
		t.Error("expected /trace to enable trace")
	}

	m = press(t, m, runes("."))
	if !strings.Contains(logText(m), "[trace] Turn 1") {
		t.Errorf("expected trace line:\n%s", logText(m))
	}
}

func TestCommandLine_Escape(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes(":"))
	m.input.SetValue("n")
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.typing {
		t.Error("expected esc to leave command mode")
	}
	if m.engine.Turn() != 0 {
		t.Error("esc should not submit the command")
	}
}

func TestView_RendersLayout(t *testing.T) {
	m := newTestModel(t)
	if got := m.View(); got != "Loading..." {
		t.Errorf("View before sizing = %q", got)
	}

	m = press(t, m, runes("i"))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m = next.(Model)
	next, _ = m.Update(m.initialOutput()())
	m = next.(Model)

	view := m.View()
	for _, want := range []string{"Test Dungeon", "HP", "T:0", string(types.PlayerGlyph)} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view", want)
		}
	}
	if !strings.Contains(logText(m), "Welcome to the test.") {
		t.Errorf("expected intro in log:\n%s", logText(m))
	}
}
