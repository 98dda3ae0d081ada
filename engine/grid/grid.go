// Package grid holds the fixed-size tile map.
package grid

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"github.com/nathoo/dungeoncore/types"
)

// ErrOutOfBounds is returned for positions outside the grid.
var ErrOutOfBounds = errors.New("out of bounds")

// Rand is the randomness Scatter needs.
type Rand interface {
	Float64() float64
}

// Grid is a width×height array of tiles. Size is fixed after New.
type Grid struct {
	width  int
	height int
	tiles  [][]types.Tile
}

// New creates a grid filled with floor.
// MaxSide bounds the width and height of a grid.
const MaxSide = 1000

func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid size %dx%d must be positive", width, height)
	}
	if width > MaxSide || height > MaxSide {
		return nil, fmt.Errorf("grid size %dx%d exceeds %d per side", width, height, MaxSide)
	}
	tiles := make([][]types.Tile, height)
	for y := range tiles {
		tiles[y] = make([]types.Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = types.Floor
		}
	}
	return &Grid{width: width, height: height, tiles: tiles}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// IsValidPosition reports whether pos lies inside the grid. Bounds only.
func (g *Grid) IsValidPosition(pos types.Position) bool {
	return pos.X >= 0 && pos.X < g.width && pos.Y >= 0 && pos.Y < g.height
}

// TileAt returns the tile at pos.
func (g *Grid) TileAt(pos types.Position) (types.Tile, error) {
	if !g.IsValidPosition(pos) {
		return types.Tile{}, fmt.Errorf("tile at (%d,%d): %w", pos.X, pos.Y, ErrOutOfBounds)
	}
	return g.tiles[pos.Y][pos.X], nil
}

// IsWalkable reports whether pos is in bounds and neither a wall nor a closed door.
func (g *Grid) IsWalkable(pos types.Position) bool {
	t, err := g.TileAt(pos)
	if err != nil {
		return false
	}
	return Walkable(t)
}

// Walkable reports whether a tile can be entered.
func Walkable(t types.Tile) bool {
	switch t.Kind {
	case types.TileWall:
		return false
	case types.TileDoor:
		return t.Open
	}
	return true
}

// Set replaces the tile at pos. Used while building a level.
func (g *Grid) Set(pos types.Position, t types.Tile) error {
	if !g.IsValidPosition(pos) {
		return fmt.Errorf("set (%d,%d): %w", pos.X, pos.Y, ErrOutOfBounds)
	}
	g.tiles[pos.Y][pos.X] = t
	return nil
}

// SetDoor opens or closes the door at pos.
func (g *Grid) SetDoor(pos types.Position, open bool) error {
	t, err := g.TileAt(pos)
	if err != nil {
		return err
	}
	if t.Kind != types.TileDoor {
		return fmt.Errorf("no door at (%d,%d)", pos.X, pos.Y)
	}
	g.tiles[pos.Y][pos.X].Open = open
	return nil
}

// Enclose walls off the outer ring of the grid.
func (g *Grid) Enclose() {
	for x := 0; x < g.width; x++ {
		g.tiles[0][x] = types.Wall
		g.tiles[g.height-1][x] = types.Wall
	}
	for y := 0; y < g.height; y++ {
		g.tiles[y][0] = types.Wall
		g.tiles[y][g.width-1] = types.Wall
	}
}

// Scatter turns floor cells into walls with the given probability.
// Cells in reserved are never touched. Returns the number of walls placed.
func (g *Grid) Scatter(rng Rand, density float64, reserved mapset.Set[types.Position]) int {
	if density <= 0 {
		return 0
	}
	placed := 0
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			pos := types.Position{X: x, Y: y}
			if g.tiles[y][x].Kind != types.TileFloor || reserved.Has(pos) {
				continue
			}
			if rng.Float64() < density {
				g.tiles[y][x] = types.Wall
				placed++
			}
		}
	}
	return placed
}

// Doors returns the positions of every door, row by row.
func (g *Grid) Doors() []types.Position {
	var out []types.Position
	for y := range g.tiles {
		for x, t := range g.tiles[y] {
			if t.Kind == types.TileDoor {
				out = append(out, types.Position{X: x, Y: y})
			}
		}
	}
	return out
}

// Rows returns a copy of the tile array.
func (g *Grid) Rows() [][]types.Tile {
	out := make([][]types.Tile, g.height)
	for y := range g.tiles {
		out[y] = append([]types.Tile(nil), g.tiles[y]...)
	}
	return out
}
