package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/dungeoncore/engine/grid"
	"github.com/nathoo/dungeoncore/types"
)

// ValidationError collects all validation errors.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

var knownModes = map[types.Mode]bool{
	types.ModeTreasureHunt: true,
	types.ModeSurvival:     true,
	types.ModeCollection:   true,
}

// validate checks a compiled scenario for consistency. Problems are
// returned together in a *ValidationError; soft issues become sc.Warnings.
func validate(sc *Scenario) error {
	ve := &ValidationError{Errors: append([]string{}, sc.problems...)}
	cfg := sc.Config

	if sc.Title == "" {
		sc.Warnings = append(sc.Warnings, "Scenario.title is empty")
	}

	if cfg.Width < 1 || cfg.Height < 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("grid size %dx%d must be positive", cfg.Width, cfg.Height))
	}
	if cfg.Width > grid.MaxSide || cfg.Height > grid.MaxSide {
		ve.Errors = append(ve.Errors, fmt.Sprintf("grid size %dx%d exceeds %d per side", cfg.Width, cfg.Height, grid.MaxSide))
	}
	if cfg.ObstacleDensity < 0 || cfg.ObstacleDensity > 1 {
		ve.Errors = append(ve.Errors, fmt.Sprintf("density %.2f outside [0,1]", cfg.ObstacleDensity))
	}

	inside := func(p types.Position) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < cfg.Width && p.Y < cfg.Height
	}
	onRing := func(p types.Position) bool {
		return cfg.Enclose && (p.X == 0 || p.Y == 0 || p.X == cfg.Width-1 || p.Y == cfg.Height-1)
	}
	place := func(what string, p types.Position) {
		if !inside(p) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s at (%d,%d) is off the %dx%d grid", what, p.X, p.Y, cfg.Width, cfg.Height))
		} else if onRing(p) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s at (%d,%d) is on the enclosing wall", what, p.X, p.Y))
		}
	}

	validateMode(cfg.Mode, cfg.TurnLimit, cfg.Required, ve)

	place("player", cfg.PlayerStart)

	walls := map[types.Position]bool{}
	for _, w := range cfg.Walls {
		walls[w] = true
	}
	for _, d := range cfg.Doors {
		place("door", d.Pos)
	}
	for _, h := range cfg.Hazards {
		place(h.Kind.String()+" hazard", h.Pos)
	}

	if walls[cfg.PlayerStart] {
		ve.Errors = append(ve.Errors, "player starts inside a wall")
	}

	actors := map[types.Position]string{cfg.PlayerStart: "player"}
	ids := map[string]bool{}
	for _, s := range cfg.NPCs {
		what := string(s.Kind)
		if !knownNPC(s.Kind) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("unknown npc kind %q", s.Kind))
		}
		if s.ID != "" {
			if ids[s.ID] {
				ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate npc id %q", s.ID))
			}
			ids[s.ID] = true
		}
		place(what, s.Pos)
		if walls[s.Pos] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s at (%d,%d) is inside a wall", what, s.Pos.X, s.Pos.Y))
		}
		if other, taken := actors[s.Pos]; taken {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s at (%d,%d) overlaps %s", what, s.Pos.X, s.Pos.Y, other))
		}
		actors[s.Pos] = what

		if p := s.Params; p != nil {
			if p.MinDamage > p.MaxDamage {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s damage range [%d,%d] is inverted", what, p.MinDamage, p.MaxDamage))
			}
			if p.MoveChance < 0 || p.MoveChance > 100 || p.DropChance < 0 || p.DropChance > 100 {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s chances must be percentages", what))
			}
		}
	}

	ground := map[types.Position]types.ItemKind{}
	treasure := false
	for _, it := range cfg.Items {
		place(string(it.Item.Kind), it.Pos)
		if walls[it.Pos] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s at (%d,%d) is inside a wall", it.Item.Kind, it.Pos.X, it.Pos.Y))
		}
		if other, taken := ground[it.Pos]; taken {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s at (%d,%d) overlaps %s", it.Item.Kind, it.Pos.X, it.Pos.Y, other))
		}
		ground[it.Pos] = it.Item.Kind
		if it.Item.Kind == types.ItemTreasure {
			treasure = true
		}
		for _, inner := range it.Item.Contents {
			if inner.Kind == types.ItemTreasure {
				treasure = true
			}
		}
	}

	if cfg.Mode == types.ModeTreasureHunt && !treasure {
		sc.Warnings = append(sc.Warnings, "treasure_hunt scenario places no treasure")
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateMode(mode types.Mode, limit int, required map[types.ItemKind]int, ve *ValidationError) {
	if !knownModes[mode] {
		ve.Errors = append(ve.Errors, fmt.Sprintf("unknown mode %q", mode))
		return
	}
	switch mode {
	case types.ModeSurvival:
		if limit < 1 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("survival turn_limit %d must be positive", limit))
		}
	case types.ModeCollection:
		if len(required) == 0 {
			ve.Errors = append(ve.Errors, "collection requires at least one item kind")
		}
		for _, kind := range sortedKinds(required) {
			if !knownItem(kind) {
				ve.Errors = append(ve.Errors, fmt.Sprintf("required: unknown item kind %q", kind))
			}
			if required[kind] < 1 {
				ve.Errors = append(ve.Errors, fmt.Sprintf("required: %s count %d must be positive", kind, required[kind]))
			}
		}
	}
}

func knownNPC(kind types.NPCKind) bool {
	for _, k := range types.NPCKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func knownItem(kind types.ItemKind) bool {
	for _, k := range types.ItemKinds {
		if k == kind {
			return true
		}
	}
	return false
}
