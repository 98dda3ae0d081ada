// Package cli provides line-oriented terminal I/O, output formatting, and
// meta-command dispatch for the dungeon engine.
package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nathoo/dungeoncore/engine"
	"github.com/nathoo/dungeoncore/engine/parser"
	"github.com/nathoo/dungeoncore/engine/resolve"
	"github.com/nathoo/dungeoncore/engine/validate"
	"github.com/nathoo/dungeoncore/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Intro     string
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, intro string) *CLI {
	return &CLI{
		Engine: eng,
		Intro:  intro,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the game loop. It shows the intro and the map, then loops:
// prompt → input → dispatch → output. It returns when input runs out, the
// player quits, or the session ends.
func (c *CLI) Run(ctx context.Context) {
	if c.Intro != "" {
		c.printLine(c.Intro)
		c.printLine("")
	}
	c.printSystem("Goal: " + c.Engine.Goal())
	c.printMap()

	scanner := bufio.NewScanner(c.In)
	for {
		if ctx.Err() != nil {
			return
		}
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" repeats the last game command.
		if strings.EqualFold(input, "again") {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		if c.dispatch(ctx, input) {
			return
		}
	}
}

// dispatch runs one game command. Returns true once the session has ended.
func (c *CLI) dispatch(ctx context.Context, input string) bool {
	cmd, err := parser.Parse(input)
	if err != nil {
		c.printLine(DescribeParseError(err))
		return false
	}

	switch cmd.Verb {
	case "look":
		c.printMap()
		return false
	case "inventory":
		c.printInventory()
		return false
	case "help":
		c.cmdHelp()
		return false
	}

	if cmd.NeedsItem() {
		idx, err := resolve.Item(c.Engine.Snapshot().Player.Inventory, cmd.Object)
		if err != nil {
			c.printLine(err.Error())
			return false
		}
		cmd.Intent.Index = idx
	}

	result, err := c.Engine.Step(ctx, cmd.Intent)
	if err != nil {
		c.printLine(Describe(err))
		if c.Trace {
			c.printSystem(fmt.Sprintf("[trace] rejected: %v", err))
		}
		return result.Status != types.StatusOngoing
	}

	for _, ev := range result.Events {
		if ev.Message != "" {
			c.printLine(ev.Message)
		}
	}
	if c.Trace {
		c.printTrace(result)
	}
	c.printStatus()

	switch result.Status {
	case types.StatusWon:
		c.printLine("")
		c.printLine("*** You have won! " + result.Reason + " ***")
		return true
	case types.StatusLost:
		c.printLine("")
		c.printLine("*** You have died. " + result.Reason + " ***")
		return true
	}
	return false
}

// Describe turns an engine rejection into player-facing text.
func Describe(err error) string {
	var rej *validate.Rejection
	if !errors.As(err, &rej) {
		return err.Error()
	}
	switch rej.Reason {
	case types.ReasonOutOfBounds:
		return "You can't go that way."
	case types.ReasonBlocked:
		if rej.Tile.Kind == types.TileDoor {
			return "The door is closed."
		}
		return "A wall blocks your way."
	case types.ReasonOccupied:
		return "Someone is in the way."
	case types.ReasonInvalidItem:
		return "You don't have that."
	case types.ReasonNothingHere:
		return "There is nothing here to pick up."
	case types.ReasonNotUsable:
		return "You can't use that here."
	case types.ReasonGameOver:
		return "The game is over."
	}
	return err.Error()
}

// DescribeParseError turns a parser error into player-facing text.
func DescribeParseError(err error) string {
	switch {
	case errors.Is(err, parser.ErrNoDirection):
		return "Go where? Try north, south, east or west."
	case errors.Is(err, parser.ErrNoItem):
		return "Use what? Give an inventory slot or an item name."
	case errors.Is(err, parser.ErrUnknownVerb):
		return "I don't understand that. Type help for commands."
	}
	return err.Error()
}

// handleMeta dispatches meta-commands. Returns true if the game should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/log":
		c.cmdLog(arg)

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump the world as JSON",
		"  /log [n]      Show the last n log entries (default 10)",
		"  /trace        Toggle debug trace output",
		"",
		"Game commands:",
		"  n/s/e/w               Move, or attack whatever hostile stands there",
		"  go/walk <dir>         Move",
		"  take/get (pick up)    Pick up the item underfoot",
		"  use <slot|item>       Use an item: use 1, drink potion, read scroll",
		"  wait (z)              Let a turn pass",
		"  look (l)              Show the map",
		"  inventory (i)         Check what you're carrying",
		"  again                 Repeat your last command",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	data, err := json.MarshalIndent(c.Engine.Snapshot(), "", "  ")
	if err != nil {
		c.printSystem(fmt.Sprintf("State failed: %v", err))
		return
	}
	c.printLine(string(data))
}

func (c *CLI) cmdLog(arg string) {
	n := 10
	if arg != "" {
		v, err := strconv.Atoi(arg)
		if err != nil || v < 1 {
			c.printSystem(fmt.Sprintf("Bad count: %s", arg))
			return
		}
		n = v
	}
	log := c.Engine.Recent(n)
	if len(log) == 0 {
		c.printSystem("The log is empty.")
		return
	}
	for _, ev := range log {
		c.printLine(fmt.Sprintf("%4d  %s", ev.Turn, ev.Message))
	}
}

func (c *CLI) printMap() {
	snap := c.Engine.Snapshot()
	for _, row := range types.GlyphRows(snap) {
		c.printLine(string(row))
	}
	c.printStatus()
}

func (c *CLI) printStatus() {
	snap := c.Engine.Snapshot()
	status := fmt.Sprintf("HP %d/%d | Turn %d | %s",
		snap.Player.Health, snap.Player.MaxHealth, snap.Turn, snap.Progress)
	if left := snap.TurnLimit - snap.Turn; snap.TurnLimit > 0 && left > 0 {
		status += fmt.Sprintf(" | %d to go", left)
	}
	c.printSystem(status)
}

func (c *CLI) printInventory() {
	inv := c.Engine.Snapshot().Player.Inventory
	if len(inv) == 0 {
		c.printLine("You are carrying nothing.")
		return
	}
	c.printLine("You are carrying:")
	for i, it := range inv {
		c.printLine(fmt.Sprintf("  %d. %s", i+1, it.Name))
	}
}

func (c *CLI) printTrace(result types.Result) {
	c.printSystem(fmt.Sprintf("[trace] Turn %d, events: %d, rng: %d",
		result.Turn, len(result.Events), c.Engine.Snapshot().RNGPosition))
	for _, e := range result.Events {
		outcome := ""
		if e.Outcome != "" {
			outcome = " (" + e.Outcome + ")"
		}
		c.printSystem(fmt.Sprintf("[trace]   %s %s%s", e.Name, e.Action, outcome))
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
