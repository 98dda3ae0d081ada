// Package registry owns every actor and ground item in a session: the
// player, NPCs in stable insertion order, and at most one item per cell.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nathoo/dungeoncore/types"
)

var (
	// ErrDuplicateID is returned when an NPC ID is already registered.
	ErrDuplicateID = errors.New("duplicate npc id")
	// ErrCellTaken is returned when placing an actor on an occupied cell.
	ErrCellTaken = errors.New("cell already occupied")
	// ErrUnknownNPC is returned for IDs that are not registered.
	ErrUnknownNPC = errors.New("unknown npc")
)

// Registry holds the mutable actor and item state.
type Registry struct {
	player types.Player
	npcs   map[string]*types.NPC
	order  []string
	at     map[types.Position]string
	items  map[types.Position]types.Item
}

// New creates a registry holding only the player.
func New(player types.Player) *Registry {
	if player.Inventory == nil {
		player.Inventory = []types.Item{}
	}
	return &Registry{
		player: player,
		npcs:   map[string]*types.NPC{},
		at:     map[types.Position]string{},
		items:  map[types.Position]types.Item{},
	}
}

// Player returns the player for in-place mutation.
func (r *Registry) Player() *types.Player {
	return &r.player
}

// OccupantAt returns who stands on pos.
func (r *Registry) OccupantAt(pos types.Position) types.ActorRef {
	if r.player.Pos == pos {
		return types.PlayerActor
	}
	if id, ok := r.at[pos]; ok {
		return types.NPCActor(id)
	}
	return types.NoActor
}

// AddNPC registers an NPC at its position.
func (r *Registry) AddNPC(n types.NPC) error {
	if _, ok := r.npcs[n.ID]; ok {
		return fmt.Errorf("add %s: %w", n.ID, ErrDuplicateID)
	}
	if occ := r.OccupantAt(n.Pos); occ.Kind != types.ActorNone {
		return fmt.Errorf("add %s at (%d,%d): %w", n.ID, n.Pos.X, n.Pos.Y, ErrCellTaken)
	}
	r.npcs[n.ID] = &n
	r.order = append(r.order, n.ID)
	r.at[n.Pos] = n.ID
	return nil
}

// RemoveNPC deletes an NPC. Returns false if it was not registered.
func (r *Registry) RemoveNPC(id string) bool {
	n, ok := r.npcs[id]
	if !ok {
		return false
	}
	delete(r.at, n.Pos)
	delete(r.npcs, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// NPC returns the live NPC with the given ID.
func (r *Registry) NPC(id string) (*types.NPC, bool) {
	n, ok := r.npcs[id]
	return n, ok
}

// NPCIDs returns a snapshot of NPC IDs in insertion order.
func (r *Registry) NPCIDs() []string {
	return append([]string(nil), r.order...)
}

// NPCs returns copies of every NPC in insertion order.
func (r *Registry) NPCs() []types.NPC {
	out := make([]types.NPC, 0, len(r.order))
	for _, id := range r.order {
		n := *r.npcs[id]
		n.Params.DropPool = append([]types.Item(nil), n.Params.DropPool...)
		out = append(out, n)
	}
	return out
}

// MoveNPC relocates an NPC. The destination must be free.
func (r *Registry) MoveNPC(id string, to types.Position) error {
	n, ok := r.npcs[id]
	if !ok {
		return fmt.Errorf("move %s: %w", id, ErrUnknownNPC)
	}
	if occ := r.OccupantAt(to); occ.Kind != types.ActorNone {
		return fmt.Errorf("move %s to (%d,%d): %w", id, to.X, to.Y, ErrCellTaken)
	}
	delete(r.at, n.Pos)
	n.Pos = to
	r.at[to] = id
	return nil
}

// MovePlayer relocates the player. The destination must be free.
func (r *Registry) MovePlayer(to types.Position) error {
	if _, ok := r.at[to]; ok {
		return fmt.Errorf("move player to (%d,%d): %w", to.X, to.Y, ErrCellTaken)
	}
	r.player.Pos = to
	return nil
}

// DamagePlayer subtracts health, flooring at zero. Returns the new health.
func (r *Registry) DamagePlayer(amount int) int {
	r.player.Health -= amount
	if r.player.Health < 0 {
		r.player.Health = 0
	}
	return r.player.Health
}

// HealPlayer adds health, capped at max. Returns the amount restored.
func (r *Registry) HealPlayer(amount int) int {
	before := r.player.Health
	r.player.Health += amount
	if r.player.Health > r.player.MaxHealth {
		r.player.Health = r.player.MaxHealth
	}
	return r.player.Health - before
}

// ItemAt returns the ground item on pos.
func (r *Registry) ItemAt(pos types.Position) (types.Item, bool) {
	it, ok := r.items[pos]
	return it, ok
}

// PlaceItem puts an item on pos, destroying any item already there.
// Returns the destroyed item, if any.
func (r *Registry) PlaceItem(pos types.Position, item types.Item) (types.Item, bool) {
	old, had := r.items[pos]
	r.items[pos] = item
	return old, had
}

// TakeItem removes and returns the ground item on pos.
func (r *Registry) TakeItem(pos types.Position) (types.Item, bool) {
	it, ok := r.items[pos]
	if ok {
		delete(r.items, pos)
	}
	return it, ok
}

// Items returns every ground item ordered by row then column.
func (r *Registry) Items() []types.WorldItem {
	out := make([]types.WorldItem, 0, len(r.items))
	for pos, it := range r.items {
		out = append(out, types.WorldItem{Item: it, Pos: pos})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Y != out[j].Pos.Y {
			return out[i].Pos.Y < out[j].Pos.Y
		}
		return out[i].Pos.X < out[j].Pos.X
	})
	return out
}
