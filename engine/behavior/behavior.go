// Package behavior decides what each NPC does on its turn. Decisions are
// pure apart from RNG draws; the engine applies them.
package behavior

import (
	"github.com/nathoo/dungeoncore/engine/grid"
	"github.com/nathoo/dungeoncore/engine/registry"
	"github.com/nathoo/dungeoncore/engine/validate"
	"github.com/nathoo/dungeoncore/types"
)

// Rand is the randomness behaviors draw from.
type Rand interface {
	Intn(n int) int
	Between(lo, hi int) int
	Chance(percent int) bool
}

// Action is one NPC's decision for the turn.
type Action struct {
	Kind   types.Action // ActionIdle, ActionMove, ActionAttack or ActionDespawn
	Dir    types.Direction
	To     types.Position
	Damage int
	Drop   *types.Item // dropped on the NPC's cell after any move
}

// Idle is the no-op decision.
var Idle = Action{Kind: types.ActionIdle}

// Decide picks the action for npc. The grid and registry are read, never written.
func Decide(npc types.NPC, g *grid.Grid, reg *registry.Registry, rng Rand) Action {
	if npc.Params.Lifetime > 0 && npc.Age >= npc.Params.Lifetime {
		return Action{Kind: types.ActionDespawn}
	}
	switch npc.Kind {
	case types.NPCMerchant:
		return merchant(npc, g, reg, rng)
	case types.NPCOrc, types.NPCGoblin:
		return chase(npc, g, reg, rng)
	case types.NPCSkeleton:
		return sentry(npc, reg, rng)
	case types.NPCGuard:
		return Idle
	}
	return Idle
}

// merchant wanders and drops goods. The move and drop rolls are independent.
func merchant(npc types.NPC, g *grid.Grid, reg *registry.Registry, rng Rand) Action {
	act := Idle
	if rng.Chance(npc.Params.MoveChance) {
		dir := types.Directions[rng.Intn(len(types.Directions))]
		to := npc.Pos.Add(dir)
		if validate.CanMove(to, g, reg) == nil {
			act = Action{Kind: types.ActionMove, Dir: dir, To: to}
		}
	}
	if len(npc.Params.DropPool) > 0 && rng.Chance(npc.Params.DropChance) {
		item := npc.Params.DropPool[rng.Intn(len(npc.Params.DropPool))]
		act.Drop = &item
	}
	return act
}

// chase steps toward the player along the axis with the larger displacement
// and attacks instead of stepping onto the player.
func chase(npc types.NPC, g *grid.Grid, reg *registry.Registry, rng Rand) Action {
	target := reg.Player().Pos
	if npc.Pos.Manhattan(target) > npc.Params.DetectRadius {
		return Idle
	}

	dir := StepToward(npc.Pos, target, npc.Params.AxisPriority)
	to := npc.Pos.Add(dir)
	if to == target {
		return Action{
			Kind:   types.ActionAttack,
			Dir:    dir,
			To:     to,
			Damage: rng.Between(npc.Params.MinDamage, npc.Params.MaxDamage),
		}
	}
	if validate.CanMove(to, g, reg) != nil {
		return Idle
	}
	return Action{Kind: types.ActionMove, Dir: dir, To: to}
}

// sentry never moves and only strikes an orthogonally adjacent player.
func sentry(npc types.NPC, reg *registry.Registry, rng Rand) Action {
	target := reg.Player().Pos
	if npc.Pos.Manhattan(target) != 1 {
		return Idle
	}
	dir := StepToward(npc.Pos, target, npc.Params.AxisPriority)
	return Action{
		Kind:   types.ActionAttack,
		Dir:    dir,
		To:     target,
		Damage: rng.Between(npc.Params.MinDamage, npc.Params.MaxDamage),
	}
}

// StepToward returns the direction that reduces the larger of |dx| and |dy|.
// Ties go to the priority axis.
func StepToward(from, to types.Position, priority types.Axis) types.Direction {
	dx, dy := to.X-from.X, to.Y-from.Y
	adx, ady := abs(dx), abs(dy)

	horizontal := adx > ady || (adx == ady && priority == types.AxisHorizontal)
	if adx == 0 {
		horizontal = false
	} else if ady == 0 {
		horizontal = true
	}

	if horizontal {
		if dx > 0 {
			return types.East
		}
		return types.West
	}
	if dy > 0 {
		return types.South
	}
	return types.North
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
