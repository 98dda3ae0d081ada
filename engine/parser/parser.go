// Package parser converts command strings into Commands.
// No NLP, just pattern matching.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/dungeoncore/types"
)

var (
	ErrUnknownVerb = errors.New("unknown command")
	ErrNoDirection = errors.New("which way?")
	ErrNoItem      = errors.New("use what?")
)

var directions = map[string]types.Direction{
	"n":     types.North,
	"s":     types.South,
	"e":     types.East,
	"w":     types.West,
	"north": types.North,
	"south": types.South,
	"east":  types.East,
	"west":  types.West,
	"up":    types.North,
	"down":  types.South,
	"left":  types.West,
	"right": types.East,
}

var verbAliases = map[string]string{
	// Movement
	"walk":   "go",
	"run":    "go",
	"move":   "go",
	"step":   "go",
	"head":   "go",
	"travel": "go",

	// Pick up
	"get":     "take",
	"grab":    "take",
	"g":       "take",
	"collect": "take",
	"loot":    "take",

	// Use
	"drink": "use",
	"quaff": "use",
	"read":  "use",
	"apply": "use",
	"turn":  "use",

	// Wait
	"z":     "wait",
	"rest":  "wait",
	"sleep": "wait",
	".":     "wait",

	// Meta
	"l":   "look",
	"map": "look",
	"inv": "inventory",
	"i":   "inventory",
	"?":   "help",
	"h":   "help",
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true, "my": true,
}

// Command is one parsed line of player input.
type Command struct {
	Verb   string // canonical verb: go, take, use, wait, look, inventory, help
	Object string // remaining words with articles stripped
	Intent types.Intent
}

// Turn reports whether the command spends a turn.
func (c Command) Turn() bool {
	switch c.Verb {
	case "go", "take", "use", "wait":
		return true
	}
	return false
}

// NeedsItem reports whether a use command names its item instead of
// giving an inventory slot. Resolve the name before stepping.
func (c Command) NeedsItem() bool {
	return c.Verb == "use" && c.Intent.Index < 0
}

// Parse converts a raw command string into a Command.
// Empty input yields the zero Command.
func Parse(input string) (Command, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Command{}, nil
	}

	words := strings.Fields(strings.ToLower(input))

	// Direction shortcut: bare "n", "south", etc.
	if len(words) == 1 {
		if dir, ok := directions[words[0]]; ok {
			return Command{
				Verb:   "go",
				Object: words[0],
				Intent: types.Intent{Kind: types.IntentMove, Dir: dir},
			}, nil
		}
	}

	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	cmd := Command{
		Verb:   words[0],
		Object: strings.Join(stripArticles(words[1:]), " "),
	}

	switch cmd.Verb {
	case "go":
		dir, ok := directions[cmd.Object]
		if !ok {
			return cmd, ErrNoDirection
		}
		cmd.Intent = types.Intent{Kind: types.IntentMove, Dir: dir}

	case "take":
		cmd.Intent = types.Intent{Kind: types.IntentPickUp}

	case "wait":
		cmd.Intent = types.Intent{Kind: types.IntentWait}

	case "use":
		if cmd.Object == "" {
			return cmd, ErrNoItem
		}
		cmd.Intent = types.Intent{Kind: types.IntentUseItem, Index: -1}
		// Slots are 1-based for players.
		if n, err := strconv.Atoi(cmd.Object); err == nil {
			if n < 1 {
				return cmd, fmt.Errorf("no slot %d: %w", n, ErrNoItem)
			}
			cmd.Intent.Index = n - 1
		}

	case "look", "inventory", "help":

	default:
		return cmd, fmt.Errorf("%w: %q", ErrUnknownVerb, cmd.Verb)
	}

	return cmd, nil
}

// expandMultiWordVerbs handles "pick up", "look around", "go to" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "pick":
		if words[1] == "up" {
			return append([]string{"take"}, words[2:]...)
		}
	case "look":
		if words[1] == "around" {
			return append([]string{"look"}, words[2:]...)
		}
	case "go", "walk", "move", "head":
		if words[1] == "to" || words[1] == "towards" {
			return append([]string{"go"}, words[2:]...)
		}
	case "stand", "hold":
		if words[1] == "still" || words[1] == "position" {
			return []string{"wait"}
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an", "my") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}
