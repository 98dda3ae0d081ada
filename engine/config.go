package engine

import (
	"github.com/nathoo/dungeoncore/engine/behavior"
	"github.com/nathoo/dungeoncore/types"
)

// Session defaults.
const (
	DefaultWidth        = 40
	DefaultHeight       = 20
	DefaultPlayerHealth = 100
	DefaultTurnLimit    = 200
)

// Config describes a session. Build one with DefaultConfig or the loader.
type Config struct {
	Width           int
	Height          int
	Seed            int64
	Enclose         bool    // wall off the outer ring
	ObstacleDensity float64 // chance in [0,1] that a free floor cell becomes a wall
	PlayerStart     types.Position
	PlayerHealth    int // 0 means DefaultPlayerHealth

	Mode      types.Mode
	TurnLimit int                    // ModeSurvival
	Required  map[types.ItemKind]int // ModeCollection

	Walls   []types.Position
	Doors   []DoorSpec
	Hazards []HazardSpec
	NPCs    []NPCSpawn
	Items   []ItemSpawn

	LogCapacity int // 0 means events.DefaultCapacity
}

// DoorSpec places a door.
type DoorSpec struct {
	Pos  types.Position
	Open bool
}

// HazardSpec places a hazard tile.
type HazardSpec struct {
	Pos  types.Position
	Kind types.HazardKind
}

// NPCSpawn places an NPC. Zero fields fall back to the kind's defaults.
type NPCSpawn struct {
	ID     string
	Kind   types.NPCKind
	Name   string
	Pos    types.Position
	Health int
	Params *types.NPCParams
}

// ItemSpawn places a ground item.
type ItemSpawn struct {
	Item types.Item
	Pos  types.Position
}

func pos(x, y int) types.Position { return types.Position{X: x, Y: y} }

// DefaultConfig returns the stock level for mode.
func DefaultConfig(mode types.Mode, seed int64) Config {
	cfg := Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Seed:        seed,
		Enclose:     true,
		PlayerStart: pos(2, 2),
		Mode:        mode,
	}

	switch mode {
	case types.ModeTreasureHunt:
		cfg.ObstacleDensity = 0.06
		cfg.NPCs = []NPCSpawn{
			{Kind: types.NPCOrc, Pos: pos(20, 10)},
			{Kind: types.NPCOrc, Pos: pos(30, 5)},
			{Kind: types.NPCMerchant, Pos: pos(10, 15)},
		}
		cfg.Items = []ItemSpawn{
			{Item: behavior.Treasure, Pos: pos(37, 17)},
			{Item: behavior.Potion, Pos: pos(18, 3)},
		}
		cfg.Hazards = []HazardSpec{
			{Pos: pos(15, 6), Kind: types.HazardLava},
			{Pos: pos(15, 7), Kind: types.HazardLava},
			{Pos: pos(25, 12), Kind: types.HazardWater},
			{Pos: pos(26, 12), Kind: types.HazardWater},
		}

	case types.ModeSurvival:
		cfg.ObstacleDensity = 0.08
		cfg.TurnLimit = DefaultTurnLimit
		cfg.NPCs = []NPCSpawn{
			{Kind: types.NPCOrc, Pos: pos(20, 10)},
			{Kind: types.NPCOrc, Pos: pos(35, 15)},
			{Kind: types.NPCOrc, Pos: pos(10, 17)},
			{Kind: types.NPCGoblin, Pos: pos(25, 3)},
			{Kind: types.NPCGoblin, Pos: pos(5, 12)},
			{Kind: types.NPCSkeleton, Pos: pos(30, 10)},
		}
		cfg.Items = []ItemSpawn{
			{Item: behavior.Potion, Pos: pos(12, 4)},
			{Item: behavior.Potion, Pos: pos(28, 16)},
		}

	case types.ModeCollection:
		cfg.ObstacleDensity = 0.05
		cfg.Required = map[types.ItemKind]int{
			types.ItemGem:    3,
			types.ItemScroll: 2,
			types.ItemPotion: 1,
		}
		cfg.NPCs = []NPCSpawn{
			{Kind: types.NPCMerchant, Pos: pos(10, 10)},
			{Kind: types.NPCMerchant, Pos: pos(30, 12)},
			{Kind: types.NPCOrc, Pos: pos(35, 4)},
			{Kind: types.NPCGuard, Pos: pos(20, 2)},
		}
		cfg.Items = []ItemSpawn{
			{Item: behavior.Gem, Pos: pos(8, 5)},
			{Item: behavior.Gem, Pos: pos(25, 15)},
			{Item: behavior.Scroll, Pos: pos(15, 8)},
			{Item: behavior.Potion, Pos: pos(33, 17)},
		}
		cfg.Doors = []DoorSpec{
			{Pos: pos(20, 6)},
		}
	}

	return cfg
}
