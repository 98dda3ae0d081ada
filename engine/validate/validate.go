// Package validate decides whether an actor may enter a cell and classifies
// every rejected player action.
package validate

import (
	"errors"
	"fmt"

	"github.com/nathoo/dungeoncore/engine/grid"
	"github.com/nathoo/dungeoncore/engine/registry"
	"github.com/nathoo/dungeoncore/types"
)

// Sentinels matched by Rejection through errors.Is.
var (
	ErrOutOfBounds      = grid.ErrOutOfBounds
	ErrBlocked          = errors.New("blocked")
	ErrOccupied         = errors.New("occupied")
	ErrInvalidItemIndex = errors.New("invalid item index")
	ErrGameOver         = errors.New("game over")
	ErrNothingHere      = errors.New("nothing here")
	ErrNotUsable        = errors.New("item cannot be used")
)

var sentinels = map[types.Reason]error{
	types.ReasonOutOfBounds: ErrOutOfBounds,
	types.ReasonBlocked:     ErrBlocked,
	types.ReasonOccupied:    ErrOccupied,
	types.ReasonInvalidItem: ErrInvalidItemIndex,
	types.ReasonGameOver:    ErrGameOver,
	types.ReasonNothingHere: ErrNothingHere,
	types.ReasonNotUsable:   ErrNotUsable,
}

// Rejection is a recoverable refusal. Nothing was mutated.
type Rejection struct {
	Reason   types.Reason
	Pos      types.Position
	Tile     types.Tile     // ReasonBlocked
	Occupant types.ActorRef // ReasonOccupied
	Index    int            // ReasonInvalidItem, ReasonNotUsable
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case types.ReasonOutOfBounds:
		return fmt.Sprintf("(%d,%d) is out of bounds", r.Pos.X, r.Pos.Y)
	case types.ReasonBlocked:
		return fmt.Sprintf("(%d,%d) is blocked by a %s", r.Pos.X, r.Pos.Y, r.Tile.Kind)
	case types.ReasonOccupied:
		return fmt.Sprintf("(%d,%d) is occupied", r.Pos.X, r.Pos.Y)
	case types.ReasonInvalidItem:
		return fmt.Sprintf("no item in slot %d", r.Index+1)
	case types.ReasonNotUsable:
		return fmt.Sprintf("item in slot %d cannot be used", r.Index+1)
	case types.ReasonNothingHere:
		return "there is nothing here to pick up"
	case types.ReasonGameOver:
		return "the game is over"
	}
	return string(r.Reason)
}

// Is matches the sentinel for the rejection's reason.
func (r *Rejection) Is(target error) bool {
	s, ok := sentinels[r.Reason]
	return ok && s == target
}

// Reject builds a bare rejection.
func Reject(reason types.Reason) *Rejection {
	return &Rejection{Reason: reason}
}

// CanMove checks whether an actor may step onto target. Direction is the
// caller's business; only the destination is checked.
func CanMove(target types.Position, g *grid.Grid, reg *registry.Registry) error {
	tile, err := g.TileAt(target)
	if err != nil {
		return &Rejection{Reason: types.ReasonOutOfBounds, Pos: target}
	}
	if !grid.Walkable(tile) {
		return &Rejection{Reason: types.ReasonBlocked, Pos: target, Tile: tile}
	}
	if occ := reg.OccupantAt(target); occ.Kind != types.ActorNone {
		return &Rejection{Reason: types.ReasonOccupied, Pos: target, Occupant: occ}
	}
	return nil
}

// Occupant returns the actor behind an Occupied rejection.
func Occupant(err error) (types.ActorRef, bool) {
	var rej *Rejection
	if errors.As(err, &rej) && rej.Reason == types.ReasonOccupied {
		return rej.Occupant, true
	}
	return types.NoActor, false
}

// Hostile reports whether the player may attack an NPC of this kind.
func Hostile(kind types.NPCKind) bool {
	switch kind {
	case types.NPCOrc, types.NPCGoblin, types.NPCSkeleton:
		return true
	}
	return false
}

// ItemIndex checks a zero-based inventory slot.
func ItemIndex(inv []types.Item, i int) error {
	if i < 0 || i >= len(inv) {
		return &Rejection{Reason: types.ReasonInvalidItem, Index: i}
	}
	return nil
}
