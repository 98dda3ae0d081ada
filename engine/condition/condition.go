// Package condition evaluates the win/loss rules of a session. The set of
// game modes is closed; every switch over Mode is exhaustive.
package condition

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/dungeoncore/types"
)

// ErrInvalidModeConfiguration is matched by every *ConfigError.
var ErrInvalidModeConfiguration = errors.New("invalid mode configuration")

// ConfigError lists every problem found in a mode configuration.
type ConfigError struct {
	Mode     types.Mode
	Problems []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s configuration with %d problem(s):\n  %s",
		e.Mode, len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// Unwrap lets errors.Is match ErrInvalidModeConfiguration.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidModeConfiguration
}

// Params carries mode-specific settings. Unused fields are ignored.
type Params struct {
	TurnLimit int
	Required  map[types.ItemKind]int
}

// View is the state a condition reads.
type View struct {
	Turn      int
	Health    int
	Inventory []types.Item
}

// Outcome is the result of one evaluation.
type Outcome struct {
	Status types.Status
	Reason string
}

// Ongoing is the outcome while neither side has won.
var Ongoing = Outcome{Status: types.StatusOngoing}

// Condition is a validated win/loss rule. Build it with New or a mode constructor.
type Condition struct {
	mode      types.Mode
	turnLimit int
	required  map[types.ItemKind]int
}

// New builds the condition for mode from params.
func New(mode types.Mode, p Params) (Condition, error) {
	switch mode {
	case types.ModeTreasureHunt:
		return TreasureHunt(), nil
	case types.ModeSurvival:
		return Survival(p.TurnLimit)
	case types.ModeCollection:
		return Collection(p.Required)
	}
	return Condition{}, &ConfigError{Mode: mode, Problems: []string{fmt.Sprintf("unknown mode %q", mode)}}
}

// TreasureHunt is won by holding any treasure.
func TreasureHunt() Condition {
	return Condition{mode: types.ModeTreasureHunt}
}

// Survival is won by reaching limit turns alive.
func Survival(limit int) (Condition, error) {
	if limit <= 0 {
		return Condition{}, &ConfigError{
			Mode:     types.ModeSurvival,
			Problems: []string{fmt.Sprintf("turn limit must be positive, got %d", limit)},
		}
	}
	return Condition{mode: types.ModeSurvival, turnLimit: limit}, nil
}

// Collection is won by holding at least the required count of every kind.
func Collection(required map[types.ItemKind]int) (Condition, error) {
	ce := &ConfigError{Mode: types.ModeCollection}
	if len(required) == 0 {
		ce.Problems = append(ce.Problems, "at least one required item kind is needed")
	}
	req := make(map[types.ItemKind]int, len(required))
	for _, kind := range sortedKinds(required) {
		n := required[kind]
		if !knownItem(kind) {
			ce.Problems = append(ce.Problems, fmt.Sprintf("unknown item kind %q", kind))
		}
		if n <= 0 {
			ce.Problems = append(ce.Problems, fmt.Sprintf("required count for %s must be positive, got %d", kind, n))
		}
		req[kind] = n
	}
	if len(ce.Problems) > 0 {
		return Condition{}, ce
	}
	return Condition{mode: types.ModeCollection, required: req}, nil
}

// Mode returns the condition's variant.
func (c Condition) Mode() types.Mode { return c.mode }

// TurnLimit returns the survival limit, or 0 for other modes.
func (c Condition) TurnLimit() int { return c.turnLimit }

// Required returns a copy of the collection targets.
func (c Condition) Required() map[types.ItemKind]int {
	out := make(map[types.ItemKind]int, len(c.required))
	for k, v := range c.required {
		out[k] = v
	}
	return out
}

// Evaluate returns the outcome for v. Loss is checked first.
// Pure: the same view always yields the same outcome.
func (c Condition) Evaluate(v View) Outcome {
	if v.Health <= 0 {
		return Outcome{Status: types.StatusLost, Reason: "You have been slain."}
	}

	switch c.mode {
	case types.ModeTreasureHunt:
		if Count(v.Inventory, types.ItemTreasure) > 0 {
			return Outcome{Status: types.StatusWon, Reason: "You found the treasure!"}
		}
	case types.ModeSurvival:
		if v.Turn >= c.turnLimit {
			return Outcome{Status: types.StatusWon, Reason: fmt.Sprintf("You survived %d turns!", c.turnLimit)}
		}
	case types.ModeCollection:
		for kind, n := range c.required {
			if Count(v.Inventory, kind) < n {
				return Ongoing
			}
		}
		return Outcome{Status: types.StatusWon, Reason: "You collected everything!"}
	}
	return Ongoing
}

// Goal describes how to win.
func (c Condition) Goal() string {
	switch c.mode {
	case types.ModeTreasureHunt:
		return "Find and collect the treasure!"
	case types.ModeSurvival:
		return fmt.Sprintf("Survive for %d turns!", c.turnLimit)
	case types.ModeCollection:
		return "Collect all required items!"
	}
	return ""
}

// LossText describes how to lose. Every mode shares it.
func (c Condition) LossText() string {
	return "Don't let your health reach zero!"
}

// Progress summarizes how close v is to winning.
func (c Condition) Progress(v View) string {
	switch c.mode {
	case types.ModeTreasureHunt:
		if Count(v.Inventory, types.ItemTreasure) > 0 {
			return "Treasure: found"
		}
		return "Treasure: not found"
	case types.ModeSurvival:
		return fmt.Sprintf("Turn %d/%d", v.Turn, c.turnLimit)
	case types.ModeCollection:
		parts := make([]string, 0, len(c.required))
		for _, kind := range sortedKinds(c.required) {
			parts = append(parts, fmt.Sprintf("%s %d/%d", kind, Count(v.Inventory, kind), c.required[kind]))
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// Count returns how many items of kind inv holds.
func Count(inv []types.Item, kind types.ItemKind) int {
	n := 0
	for _, it := range inv {
		if it.Kind == kind {
			n++
		}
	}
	return n
}

func knownItem(kind types.ItemKind) bool {
	for _, k := range types.ItemKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func sortedKinds(m map[types.ItemKind]int) []types.ItemKind {
	kinds := make([]types.ItemKind, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
