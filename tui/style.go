package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/dungeoncore/types"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleMapBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleGoal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Italic(true)

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleLoot = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleBanner = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("25")).
			Padding(0, 1)
)

// Map glyph styles.
var (
	glyphWall     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	glyphFloor    = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	glyphDoor     = lipgloss.NewStyle().Foreground(lipgloss.Color("130"))
	glyphWater    = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	glyphLava     = lipgloss.NewStyle().Foreground(lipgloss.Color("202")).Bold(true)
	glyphPlayer   = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	glyphHostile  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	glyphFriendly = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	glyphItem     = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// glyphStyle picks the style for a rendered map character.
func glyphStyle(r rune) lipgloss.Style {
	switch r {
	case '#':
		return glyphWall
	case '+', '\'':
		return glyphDoor
	case '~':
		return glyphWater
	case '^':
		return glyphLava
	case types.PlayerGlyph:
		return glyphPlayer
	case 'O', 'g', 'S':
		return glyphHostile
	case 'M', 'G':
		return glyphFriendly
	case '$', '*', '?', '!', '-', '=':
		return glyphItem
	}
	return glyphFloor
}

// lineKind identifies the type of a log line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindCombat
	kindLoot
	kindSystem
	kindError
	kindTrace
)

// classifyEvent picks a style for an engine event.
func classifyEvent(ev types.TurnEvent) lineKind {
	switch ev.Action {
	case types.ActionAttack:
		return kindCombat
	case types.ActionPickUp, types.ActionDrop, types.ActionUseItem:
		return kindLoot
	}
	if ev.Outcome == "burned" {
		return kindCombat
	}
	return kindNarration
}

// classifyLine determines what kind of free-text line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You don't have"),
		strings.HasPrefix(line, "you aren't carrying"),
		strings.HasPrefix(line, "which "),
		strings.HasPrefix(line, "A wall"),
		strings.HasPrefix(line, "The door is closed"),
		strings.HasPrefix(line, "Someone is in the way"),
		strings.HasPrefix(line, "There is nothing here"),
		strings.HasPrefix(line, "Go where?"),
		strings.HasPrefix(line, "Use what?"),
		strings.HasPrefix(line, "I don't understand"):
		return kindError
	default:
		return kindNarration
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindCombat:
		return styleCombat.Render(line)
	case kindLoot:
		return styleLoot.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
