package engine

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/nathoo/dungeoncore/engine/behavior"
	"github.com/nathoo/dungeoncore/engine/validate"
	"github.com/nathoo/dungeoncore/types"
)

// Player combat and item tuning.
const (
	playerMinDamage = 4
	playerMaxDamage = 10
	potionHeal      = 25
	lavaDamage      = 10
	scrollRadius    = 3
)

// applyPlayer validates and applies the player's intent. On error nothing
// has been mutated and no randomness has been drawn.
func (e *Engine) applyPlayer(ctx context.Context, in types.Intent, turn int) (types.TurnEvent, error) {
	_, span := e.tracer.Start(ctx, "turn.player")
	defer span.End()
	span.SetAttributes(attribute.String("intent", in.Kind.String()))

	ev := types.TurnEvent{Turn: turn, Actor: types.PlayerActor, Name: "You"}

	switch in.Kind {
	case types.IntentMove:
		return e.playerMove(ev, in.Dir)
	case types.IntentUseItem:
		return e.playerUse(ev, in.Index)
	case types.IntentPickUp:
		return e.playerPickUp(ev)
	case types.IntentWait:
		ev.Action = types.ActionWait
		ev.Message = "You wait."
		return ev, nil
	}
	return ev, fmt.Errorf("unknown intent %d", in.Kind)
}

func (e *Engine) playerMove(ev types.TurnEvent, dir types.Direction) (types.TurnEvent, error) {
	p := e.reg.Player()
	target := p.Pos.Add(dir)

	err := validate.CanMove(target, e.grid, e.reg)
	if err != nil {
		occ, ok := validate.Occupant(err)
		if !ok || occ.Kind != types.ActorNPC {
			return ev, err
		}
		npc, found := e.reg.NPC(occ.ID)
		if !found || !validate.Hostile(npc.Kind) {
			return ev, err
		}
		return e.playerAttack(ev, npc), nil
	}

	if err := e.reg.MovePlayer(target); err != nil {
		return ev, err
	}
	ev.Action = types.ActionMove
	ev.Message = fmt.Sprintf("You move %s.", dir)

	tile, _ := e.grid.TileAt(target)
	if tile.Kind == types.TileHazard && tile.Hazard == types.HazardLava {
		health := e.reg.DamagePlayer(lavaDamage)
		ev.Outcome = "burned"
		ev.Message = fmt.Sprintf("You step into lava and burn for %d (%d left).", lavaDamage, health)
	}
	return ev, nil
}

func (e *Engine) playerAttack(ev types.TurnEvent, npc *types.NPC) types.TurnEvent {
	dmg := e.rng.Between(playerMinDamage, playerMaxDamage)
	npc.Health -= dmg
	ev.Action = types.ActionAttack
	if npc.Health <= 0 {
		e.reg.RemoveNPC(npc.ID)
		ev.Outcome = "killed"
		ev.Message = fmt.Sprintf("You slay the %s.", npc.Name)
		return ev
	}
	ev.Outcome = "hit"
	ev.Message = fmt.Sprintf("You hit the %s for %d.", npc.Name, dmg)
	return ev
}

func (e *Engine) playerUse(ev types.TurnEvent, idx int) (types.TurnEvent, error) {
	p := e.reg.Player()
	if err := validate.ItemIndex(p.Inventory, idx); err != nil {
		return ev, err
	}
	item := p.Inventory[idx]
	ev.Action = types.ActionUseItem

	switch item.Kind {
	case types.ItemPotion:
		healed := e.reg.HealPlayer(potionHeal)
		ev.Outcome = "healed"
		ev.Message = fmt.Sprintf("You drink the %s and recover %d health.", item.Name, healed)

	case types.ItemScroll:
		opened := e.openDoors(func(d types.Position) bool {
			return p.Pos.Manhattan(d) <= scrollRadius
		})
		ev.Outcome = "read"
		ev.Message = fmt.Sprintf("You read the %s. %s", item.Name, doorsMessage(opened))

	case types.ItemKey:
		adjacent := false
		for _, d := range e.grid.Doors() {
			if t, _ := e.grid.TileAt(d); !t.Open && p.Pos.Manhattan(d) == 1 {
				adjacent = true
			}
		}
		if !adjacent {
			return ev, &validate.Rejection{Reason: types.ReasonNotUsable, Index: idx}
		}
		opened := e.openDoors(func(d types.Position) bool {
			return p.Pos.Manhattan(d) == 1
		})
		ev.Outcome = "unlocked"
		ev.Message = fmt.Sprintf("You turn the %s. %s", item.Name, doorsMessage(opened))

	case types.ItemChest:
		ev.Outcome = "opened"
		ev.Message = fmt.Sprintf("You open the %s. %s", item.Name, contentsMessage(item.Contents))
		// The chest's slot takes its contents, in order.
		rest := append(append([]types.Item{}, item.Contents...), p.Inventory[idx+1:]...)
		p.Inventory = append(p.Inventory[:idx:idx], rest...)
		return ev, nil

	default:
		return ev, &validate.Rejection{Reason: types.ReasonNotUsable, Index: idx}
	}

	p.Inventory = append(p.Inventory[:idx:idx], p.Inventory[idx+1:]...)
	return ev, nil
}

// openDoors opens every closed door matching keep and returns how many opened.
func (e *Engine) openDoors(keep func(types.Position) bool) int {
	opened := 0
	for _, d := range e.grid.Doors() {
		t, _ := e.grid.TileAt(d)
		if t.Open || !keep(d) {
			continue
		}
		if err := e.grid.SetDoor(d, true); err == nil {
			opened++
		}
	}
	return opened
}

func doorsMessage(n int) string {
	switch n {
	case 0:
		return "Nothing happens."
	case 1:
		return "A door swings open."
	}
	return fmt.Sprintf("%d doors swing open.", n)
}

func contentsMessage(items []types.Item) string {
	if len(items) == 0 {
		return "It is empty."
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return "Inside: " + strings.Join(names, ", ") + "."
}

func (e *Engine) playerPickUp(ev types.TurnEvent) (types.TurnEvent, error) {
	p := e.reg.Player()
	item, ok := e.reg.TakeItem(p.Pos)
	if !ok {
		return ev, &validate.Rejection{Reason: types.ReasonNothingHere, Pos: p.Pos}
	}
	p.Inventory = append(p.Inventory, item)
	ev.Action = types.ActionPickUp
	ev.Message = fmt.Sprintf("You pick up the %s.", item.Name)
	return ev, nil
}

// applyNPC carries out one NPC decision and describes it.
func (e *Engine) applyNPC(npc *types.NPC, act behavior.Action, turn int) types.TurnEvent {
	ev := types.TurnEvent{Turn: turn, Actor: types.NPCActor(npc.ID), Name: npc.Name, Action: act.Kind}

	switch act.Kind {
	case types.ActionDespawn:
		e.reg.RemoveNPC(npc.ID)
		ev.Message = fmt.Sprintf("The %s packs up and leaves.", npc.Name)
		return ev

	case types.ActionAttack:
		health := e.reg.DamagePlayer(act.Damage)
		ev.Outcome = "hit"
		ev.Message = fmt.Sprintf("The %s hits you for %d (%d left).", npc.Name, act.Damage, health)
		return ev

	case types.ActionMove:
		if err := e.reg.MoveNPC(npc.ID, act.To); err != nil {
			e.logger.Warn("npc move failed", zap.String("npc", npc.ID), zap.Error(err))
			ev.Action = types.ActionIdle
			ev.Message = fmt.Sprintf("The %s waits.", npc.Name)
			break
		}
		ev.Message = fmt.Sprintf("The %s moves %s.", npc.Name, act.Dir)

	default:
		ev.Action = types.ActionIdle
		ev.Message = fmt.Sprintf("The %s waits.", npc.Name)
	}

	if act.Drop != nil {
		replaced, had := e.reg.PlaceItem(npc.Pos, *act.Drop)
		if ev.Action == types.ActionIdle {
			ev.Action = types.ActionDrop
			ev.Message = fmt.Sprintf("The %s drops a %s.", npc.Name, act.Drop.Name)
		} else {
			ev.Message = fmt.Sprintf("The %s moves %s and drops a %s.", npc.Name, act.Dir, act.Drop.Name)
		}
		if had {
			ev.Outcome = "replaced " + string(replaced.Kind)
		}
	}
	return ev
}
