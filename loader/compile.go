// Package loader loads Lua scenario files into engine configs.
// The Lua VM is discarded after loading; nothing runs Lua during play.
package loader

import (
	"errors"
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/dungeoncore/engine"
	"github.com/nathoo/dungeoncore/engine/behavior"
	"github.com/nathoo/dungeoncore/engine/grid"
	"github.com/nathoo/dungeoncore/types"
)

// Scenario is a loaded level: presentation metadata plus the session config.
type Scenario struct {
	Title    string
	Author   string
	Intro    string
	Config   engine.Config
	Warnings []string

	// Seeded is true when the file sets seed, zero included.
	Seeded bool

	// problems found while compiling, reported by validate.
	problems []string
}

// rawSpawn holds a Spawn table before compilation.
type rawSpawn struct {
	kind  string
	table *lua.LTable
}

// rawPlacement holds a Place or Hazard table before compilation.
type rawPlacement struct {
	kind  string
	table *lua.LTable
}

var errNoPosition = errors.New("missing position")

var hazardKinds = map[string]types.HazardKind{
	"water": types.HazardWater,
	"lava":  types.HazardLava,
}

var axes = map[string]types.Axis{
	"horizontal": types.AxisHorizontal,
	"vertical":   types.AxisVertical,
}

// paramKeys are the Spawn fields that override the kind's stock behavior.
var paramKeys = []string{
	"radius", "min_damage", "max_damage", "move_chance",
	"drop_chance", "drops", "lifetime", "axis",
}

// compile converts collected Lua tables into a Scenario.
func compile(coll *collector) (*Scenario, error) {
	if coll.scenario == nil {
		return nil, fmt.Errorf("no Scenario{} definition found")
	}

	sc := compileScenario(coll.scenario)

	for i, raw := range coll.spawns {
		sc.Config.NPCs = append(sc.Config.NPCs, compileSpawn(sc, i, raw))
	}
	for i, raw := range coll.items {
		sc.Config.Items = append(sc.Config.Items, compileItem(sc, i, raw))
	}
	for i, tbl := range coll.doors {
		p, ok := position(tbl)
		if !ok {
			sc.problem("door %d: missing position", i+1)
			continue
		}
		sc.Config.Doors = append(sc.Config.Doors, engine.DoorSpec{Pos: p, Open: getBool(tbl, "open", false)})
	}
	width, height := min(sc.Config.Width, grid.MaxSide), min(sc.Config.Height, grid.MaxSide)
	for i, tbl := range coll.walls {
		cells, err := area(tbl, width, height)
		if err != nil {
			sc.problem("wall %d: %v", i+1, err)
			continue
		}
		sc.Config.Walls = append(sc.Config.Walls, cells...)
	}
	for i, raw := range coll.hazards {
		kind, known := hazardKinds[raw.kind]
		if !known {
			sc.problem("hazard %d: unknown hazard kind %q", i+1, raw.kind)
			continue
		}
		cells, err := area(raw.table, width, height)
		if err != nil {
			sc.problem("hazard %d: %v", i+1, err)
			continue
		}
		for _, c := range cells {
			sc.Config.Hazards = append(sc.Config.Hazards, engine.HazardSpec{Pos: c, Kind: kind})
		}
	}

	return sc, nil
}

func compileScenario(tbl *lua.LTable) *Scenario {
	sc := &Scenario{
		Title:  getString(tbl, "title"),
		Author: getString(tbl, "author"),
		Intro:  getString(tbl, "intro"),
		Seeded: tbl.RawGetString("seed") != lua.LNil,
	}

	cfg := engine.Config{
		Width:           getInt(tbl, "width"),
		Height:          getInt(tbl, "height"),
		Seed:            int64(getNumber(tbl, "seed")),
		Enclose:         getBool(tbl, "enclose", true),
		ObstacleDensity: getNumber(tbl, "density"),
		PlayerHealth:    getInt(tbl, "health"),
		Mode:            types.Mode(getString(tbl, "mode")),
		TurnLimit:       getInt(tbl, "turn_limit"),
		LogCapacity:     getInt(tbl, "log"),
	}
	if cfg.Width == 0 {
		cfg.Width = engine.DefaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = engine.DefaultHeight
	}
	if cfg.Mode == "" {
		cfg.Mode = types.ModeTreasureHunt
	}
	if cfg.Mode == types.ModeSurvival && cfg.TurnLimit == 0 && tbl.RawGetString("turn_limit") == lua.LNil {
		cfg.TurnLimit = engine.DefaultTurnLimit
	}

	if req := getTable(tbl, "required"); req != nil {
		cfg.Required = map[types.ItemKind]int{}
		req.ForEach(func(k, v lua.LValue) {
			ks, ok := k.(lua.LString)
			n, isNum := v.(lua.LNumber)
			if !ok || !isNum {
				sc.problem("required: expected kind = count, got %s = %s", k.String(), v.String())
				return
			}
			cfg.Required[types.ItemKind(ks)] = int(n)
		})
	}

	cfg.PlayerStart = types.Position{X: 1, Y: 1}
	if p := getTable(tbl, "player"); p != nil {
		if pos, ok := position(p); ok {
			cfg.PlayerStart = pos
		} else {
			sc.problem("player: expected { x, y }")
		}
	}

	sc.Config = cfg
	return sc
}

func compileSpawn(sc *Scenario, i int, raw rawSpawn) engine.NPCSpawn {
	kind := types.NPCKind(raw.kind)
	tbl := raw.table
	s := engine.NPCSpawn{
		ID:     getString(tbl, "id"),
		Kind:   kind,
		Name:   getString(tbl, "name"),
		Health: getInt(tbl, "health"),
	}
	p, ok := position(tbl)
	if !ok {
		sc.problem("spawn %d (%s): missing position", i+1, raw.kind)
	}
	s.Pos = p

	if !hasAny(tbl, paramKeys) {
		return s
	}

	params := behavior.Defaults(kind)
	if v := tbl.RawGetString("radius"); v != lua.LNil {
		params.DetectRadius = getInt(tbl, "radius")
	}
	if v := tbl.RawGetString("min_damage"); v != lua.LNil {
		params.MinDamage = getInt(tbl, "min_damage")
	}
	if v := tbl.RawGetString("max_damage"); v != lua.LNil {
		params.MaxDamage = getInt(tbl, "max_damage")
	}
	if v := tbl.RawGetString("move_chance"); v != lua.LNil {
		params.MoveChance = getInt(tbl, "move_chance")
	}
	if v := tbl.RawGetString("drop_chance"); v != lua.LNil {
		params.DropChance = getInt(tbl, "drop_chance")
	}
	if v := tbl.RawGetString("lifetime"); v != lua.LNil {
		params.Lifetime = getInt(tbl, "lifetime")
	}
	if name := getString(tbl, "axis"); name != "" {
		axis, known := axes[name]
		if !known {
			sc.problem("spawn %d (%s): unknown axis %q", i+1, raw.kind, name)
		}
		params.AxisPriority = axis
	}
	if drops := getTable(tbl, "drops"); drops != nil {
		params.DropPool = nil
		for j := 1; j <= drops.MaxN(); j++ {
			name := lua.LVAsString(drops.RawGetInt(j))
			item, known := behavior.StockItem(types.ItemKind(name))
			if !known {
				sc.problem("spawn %d (%s): unknown drop %q", i+1, raw.kind, name)
				continue
			}
			params.DropPool = append(params.DropPool, item)
		}
	}
	s.Params = &params
	return s
}

func compileItem(sc *Scenario, i int, raw rawPlacement) engine.ItemSpawn {
	kind := types.ItemKind(raw.kind)
	item, known := behavior.StockItem(kind)
	if !known {
		sc.problem("item %d: unknown item kind %q", i+1, raw.kind)
		item = types.Item{Kind: kind, Name: raw.kind}
	}
	if name := getString(raw.table, "name"); name != "" {
		item.Name = name
	}
	if desc := getString(raw.table, "description"); desc != "" {
		item.Description = desc
	}
	if contents := getTable(raw.table, "contents"); contents != nil {
		if kind != types.ItemChest {
			sc.problem("item %d (%s): only a chest has contents", i+1, raw.kind)
		}
		item.Contents = nil
		for j := 1; j <= contents.MaxN(); j++ {
			name := lua.LVAsString(contents.RawGetInt(j))
			inner, known := behavior.StockItem(types.ItemKind(name))
			if !known {
				sc.problem("item %d (%s): unknown content %q", i+1, raw.kind, name)
				continue
			}
			item.Contents = append(item.Contents, inner)
		}
	}
	p, ok := position(raw.table)
	if !ok {
		sc.problem("item %d (%s): missing position", i+1, raw.kind)
	}
	return engine.ItemSpawn{Item: item, Pos: p}
}

func (sc *Scenario) problem(format string, args ...any) {
	sc.problems = append(sc.problems, fmt.Sprintf(format, args...))
}

// position reads { x, y } or { x = 1, y = 2 }.
func position(tbl *lua.LTable) (types.Position, bool) {
	if x, ok := tbl.RawGetInt(1).(lua.LNumber); ok {
		if y, ok := tbl.RawGetInt(2).(lua.LNumber); ok {
			return types.Position{X: int(x), Y: int(y)}, true
		}
	}
	x, xok := tbl.RawGetString("x").(lua.LNumber)
	y, yok := tbl.RawGetString("y").(lua.LNumber)
	if xok && yok {
		return types.Position{X: int(x), Y: int(y)}, true
	}
	return types.Position{}, false
}

// area expands a position with optional w/h into the covered cells, row by
// row. The rectangle must lie inside a width x height grid.
func area(tbl *lua.LTable, width, height int) ([]types.Position, error) {
	origin, ok := position(tbl)
	if !ok {
		return nil, errNoPosition
	}
	w, h := max(getInt(tbl, "w"), 1), max(getInt(tbl, "h"), 1)
	if origin.X < 0 || origin.Y < 0 || origin.X >= width || origin.Y >= height {
		return nil, fmt.Errorf("(%d,%d) is off the %dx%d grid", origin.X, origin.Y, width, height)
	}
	if w > width-origin.X || h > height-origin.Y {
		return nil, fmt.Errorf("%dx%d area at (%d,%d) runs off the %dx%d grid", w, h, origin.X, origin.Y, width, height)
	}
	cells := make([]types.Position, 0, w*h)
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			cells = append(cells, types.Position{X: origin.X + dx, Y: origin.Y + dy})
		}
	}
	return cells, nil
}

func hasAny(tbl *lua.LTable, keys []string) bool {
	for _, k := range keys {
		if tbl.RawGetString(k) != lua.LNil {
			return true
		}
	}
	return false
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// sortedKinds returns the keys of m in a stable order.
func sortedKinds(m map[types.ItemKind]int) []types.ItemKind {
	kinds := make([]types.ItemKind, 0, len(m))
	for k := range m {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
