package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/dungeoncore/types"
)

// healthBar draws a ten-segment health gauge.
func healthBar(health, max int) string {
	if max <= 0 {
		return ""
	}
	filled := health * 10 / max
	if health > 0 && filled == 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

// renderStatusBar produces a full-width inverted status line showing
// health, goal progress, inventory, and turn count.
func (m Model) renderStatusBar() string {
	s := m.engine.Snapshot()
	p := s.Player

	left := fmt.Sprintf(" HP %s %d/%d | %s", healthBar(p.Health, p.MaxHealth), p.Health, p.MaxHealth, s.Progress)
	if togo := s.TurnLimit - s.Turn; s.TurnLimit > 0 && togo > 0 {
		left += fmt.Sprintf(" (%d to go)", togo)
	}
	switch s.Status {
	case types.StatusWon:
		left = " VICTORY |" + left
	case types.StatusLost:
		left = " DEFEAT |" + left
	}
	right := fmt.Sprintf("T:%d ", s.Turn)

	// Show inventory items if they fit, otherwise just count.
	if n := len(p.Inventory); n > 0 {
		names := make([]string, n)
		for i, it := range p.Inventory {
			names[i] = fmt.Sprintf("%d:%s", i+1, it.Name)
		}
		candidate := fmt.Sprintf("Inv: %s | T:%d ", strings.Join(names, " "), s.Turn)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
			right = candidate
		} else {
			right = fmt.Sprintf("Inv: %d | T:%d ", n, s.Turn)
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}

// renderMap draws the grid with per-glyph styles, batching runs of the
// same character into one styled span.
func (m Model) renderMap() string {
	rows := types.GlyphRows(m.engine.Snapshot())
	lines := make([]string, len(rows))
	for y, row := range rows {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x] == row[start] {
				continue
			}
			b.WriteString(glyphStyle(row[start]).Render(string(row[start:x])))
			start = x
		}
		lines[y] = b.String()
	}
	return styleMapBorder.Render(strings.Join(lines, "\n"))
}
