// Package types defines the shared data structures for the DungeonCore engine.
// Methods here are limited to small value helpers; game logic lives in engine.
package types

// Position is a grid coordinate. Origin is top-left, x grows right, y grows down.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position one step in direction d.
func (p Position) Add(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Manhattan returns |dx| + |dy| between p and q.
func (p Position) Manhattan(q Position) int {
	return abs(p.X-q.X) + abs(p.Y-q.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Direction is an orthogonal step.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// Directions lists the four orthogonal directions in a fixed order.
var Directions = []Direction{North, South, East, West}

// Delta returns the x/y offset of a single step.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return "unknown"
}

// Axis breaks chase ties when horizontal and vertical displacement are equal.
type Axis int

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

// TileKind is the terrain class of a grid cell.
type TileKind int

const (
	TileFloor TileKind = iota
	TileWall
	TileDoor
	TileHazard
)

func (k TileKind) String() string {
	switch k {
	case TileFloor:
		return "floor"
	case TileWall:
		return "wall"
	case TileDoor:
		return "door"
	case TileHazard:
		return "hazard"
	}
	return "unknown"
}

// HazardKind distinguishes hazard tiles.
type HazardKind int

const (
	HazardNone HazardKind = iota
	HazardWater
	HazardLava
)

func (h HazardKind) String() string {
	switch h {
	case HazardWater:
		return "water"
	case HazardLava:
		return "lava"
	}
	return "none"
}

// Tile is one grid cell. Open only applies to doors, Hazard only to hazards.
type Tile struct {
	Kind   TileKind   `json:"kind"`
	Open   bool       `json:"open,omitempty"`
	Hazard HazardKind `json:"hazard,omitempty"`
}

// Common tiles.
var (
	Floor      = Tile{Kind: TileFloor}
	Wall       = Tile{Kind: TileWall}
	OpenDoor   = Tile{Kind: TileDoor, Open: true}
	ClosedDoor = Tile{Kind: TileDoor}
	Water      = Tile{Kind: TileHazard, Hazard: HazardWater}
	Lava       = Tile{Kind: TileHazard, Hazard: HazardLava}
)

// ItemKind identifies what an item is.
type ItemKind string

const (
	ItemTreasure ItemKind = "treasure"
	ItemGem      ItemKind = "gem"
	ItemScroll   ItemKind = "scroll"
	ItemPotion   ItemKind = "potion"
	ItemKey      ItemKind = "key"
	ItemChest    ItemKind = "chest"
)

// ItemKinds lists every known item kind.
var ItemKinds = []ItemKind{ItemTreasure, ItemGem, ItemScroll, ItemPotion, ItemKey, ItemChest}

// Item is an immutable value. Copies move between inventory and the ground.
// Contents is only set on chests and is never modified after creation.
type Item struct {
	Kind        ItemKind `json:"kind"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Contents    []Item   `json:"contents,omitempty"`
}

// WorldItem is an item lying on the ground.
type WorldItem struct {
	Item Item     `json:"item"`
	Pos  Position `json:"pos"`
}

// Player is the single player-controlled actor.
type Player struct {
	Pos       Position `json:"pos"`
	Health    int      `json:"health"`
	MaxHealth int      `json:"max_health"`
	Inventory []Item   `json:"inventory"`
	Turn      int      `json:"turn"`
}

// NPCKind selects an NPC's behavior.
type NPCKind string

const (
	NPCMerchant NPCKind = "merchant"
	NPCOrc      NPCKind = "orc"
	NPCGoblin   NPCKind = "goblin"
	NPCSkeleton NPCKind = "skeleton"
	NPCGuard    NPCKind = "guard"
)

// NPCKinds lists every known NPC kind.
var NPCKinds = []NPCKind{NPCMerchant, NPCOrc, NPCGoblin, NPCSkeleton, NPCGuard}

// NPCParams tunes a behavior. Chances are percentages in [0,100].
type NPCParams struct {
	DetectRadius int    `json:"detect_radius,omitempty"`
	MinDamage    int    `json:"min_damage,omitempty"`
	MaxDamage    int    `json:"max_damage,omitempty"`
	MoveChance   int    `json:"move_chance,omitempty"`
	DropChance   int    `json:"drop_chance,omitempty"`
	DropPool     []Item `json:"drop_pool,omitempty"`
	Lifetime     int    `json:"lifetime,omitempty"` // turns before despawn, 0 = never
	AxisPriority Axis   `json:"axis_priority,omitempty"`
}

// NPC is a non-player character.
type NPC struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Kind   NPCKind   `json:"kind"`
	Pos    Position  `json:"pos"`
	Health int       `json:"health"`
	Age    int       `json:"age"`
	Params NPCParams `json:"params"`
}

// ActorKind tags an ActorRef.
type ActorKind int

const (
	ActorNone ActorKind = iota
	ActorPlayer
	ActorNPC
)

// ActorRef names whoever occupies a cell or performed an action.
type ActorRef struct {
	Kind ActorKind `json:"kind"`
	ID   string    `json:"id,omitempty"`
}

// Common actor references.
var (
	NoActor     = ActorRef{}
	PlayerActor = ActorRef{Kind: ActorPlayer}
)

// NPCActor returns a reference to the NPC with the given ID.
func NPCActor(id string) ActorRef {
	return ActorRef{Kind: ActorNPC, ID: id}
}

// Action is what an actor did during a turn.
type Action string

const (
	ActionMove    Action = "move"
	ActionAttack  Action = "attack"
	ActionIdle    Action = "idle"
	ActionDrop    Action = "drop"
	ActionPickUp  Action = "pick_up"
	ActionUseItem Action = "use_item"
	ActionWait    Action = "wait"
	ActionDespawn Action = "despawn"
)

// TurnEvent is one log entry.
type TurnEvent struct {
	Turn    int      `json:"turn"`
	Actor   ActorRef `json:"actor"`
	Name    string   `json:"name"`
	Action  Action   `json:"action"`
	Outcome string   `json:"outcome,omitempty"`
	Message string   `json:"message"`
}

// IntentKind selects the player's action.
type IntentKind int

const (
	IntentMove IntentKind = iota
	IntentUseItem
	IntentPickUp
	IntentWait
)

func (k IntentKind) String() string {
	switch k {
	case IntentMove:
		return "move"
	case IntentUseItem:
		return "use_item"
	case IntentPickUp:
		return "pick_up"
	case IntentWait:
		return "wait"
	}
	return "unknown"
}

// Intent is one submitted player action.
type Intent struct {
	Kind  IntentKind
	Dir   Direction // IntentMove
	Index int       // IntentUseItem, zero-based
}

// Reason classifies a rejected action or configuration.
type Reason string

const (
	ReasonOutOfBounds Reason = "out_of_bounds"
	ReasonBlocked     Reason = "blocked"
	ReasonOccupied    Reason = "occupied"
	ReasonInvalidItem Reason = "invalid_item_index"
	ReasonGameOver    Reason = "game_over"
	ReasonInvalidMode Reason = "invalid_mode_configuration"
	ReasonNothingHere Reason = "nothing_here"
	ReasonNotUsable   Reason = "not_usable"
)

// Status is the game's win/loss state.
type Status int

const (
	StatusOngoing Status = iota
	StatusWon
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusOngoing:
		return "ongoing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	}
	return "unknown"
}

// Mode names a win/loss condition variant.
type Mode string

const (
	ModeTreasureHunt Mode = "treasure_hunt"
	ModeSurvival     Mode = "survival"
	ModeCollection   Mode = "collection"
)

// Result is the output of one completed turn.
type Result struct {
	Turn   int
	Events []TurnEvent
	Status Status
	Reason string
}

// Snapshot is a fully materialized copy of the world for renderers.
type Snapshot struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Tiles       [][]Tile    `json:"tiles"`
	Player      Player      `json:"player"`
	NPCs        []NPC       `json:"npcs"`
	Items       []WorldItem `json:"items"`
	Turn        int         `json:"turn"`
	Status      Status      `json:"status"`
	Reason      string      `json:"reason,omitempty"`
	Mode        Mode        `json:"mode"`
	Goal        string      `json:"goal"`
	Loss        string      `json:"loss"`
	Progress    string      `json:"progress"`
	TurnLimit   int         `json:"turn_limit,omitempty"`
	Log         []TurnEvent `json:"log"`
	RNGPosition int64       `json:"rng_position"`
}
