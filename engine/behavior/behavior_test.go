package behavior

import (
	"math/rand"
	"testing"

	"github.com/nathoo/dungeoncore/engine/grid"
	"github.com/nathoo/dungeoncore/engine/registry"
	"github.com/nathoo/dungeoncore/types"
)

func pos(x, y int) types.Position { return types.Position{X: x, Y: y} }

// scripted replays fixed draws. Exhausted queues return 0 / false / lo.
type scripted struct {
	ints     []int
	chances  []bool
	betweens []int
}

func (s *scripted) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scripted) Chance(percent int) bool {
	if len(s.chances) == 0 {
		return false
	}
	v := s.chances[0]
	s.chances = s.chances[1:]
	return v
}

func (s *scripted) Between(lo, hi int) int {
	if len(s.betweens) == 0 {
		return lo
	}
	v := s.betweens[0]
	s.betweens = s.betweens[1:]
	return v
}

// seeded adapts math/rand for distribution checks.
type seeded struct{ r *rand.Rand }

func (s seeded) Intn(n int) int          { return s.r.Intn(n) }
func (s seeded) Between(lo, hi int) int  { return lo + s.r.Intn(hi-lo+1) }
func (s seeded) Chance(percent int) bool { return s.r.Intn(100) < percent }

// testWorld returns an enclosed 20x12 room with the player at (5,5).
func testWorld(t *testing.T) (*grid.Grid, *registry.Registry) {
	t.Helper()
	g, err := grid.New(20, 12)
	if err != nil {
		t.Fatal(err)
	}
	g.Enclose()
	reg := registry.New(types.Player{Pos: pos(5, 5), Health: 100, MaxHealth: 100})
	return g, reg
}

func npcOf(kind types.NPCKind, id string, p types.Position) types.NPC {
	return types.NPC{ID: id, Kind: kind, Pos: p, Health: DefaultHealth(kind), Params: Defaults(kind)}
}

func add(t *testing.T, reg *registry.Registry, n types.NPC) types.NPC {
	t.Helper()
	if err := reg.AddNPC(n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestOrc_StepsAlongLargerAxis(t *testing.T) {
	tests := []struct {
		name     string
		orc      types.Position
		priority types.Axis
		wantDir  types.Direction
	}{
		{"far east, slightly south", pos(8, 6), types.AxisHorizontal, types.West},
		{"far south", pos(6, 9), types.AxisHorizontal, types.North},
		{"north west", pos(3, 2), types.AxisHorizontal, types.South},
		{"diagonal tie, horizontal priority", pos(7, 7), types.AxisHorizontal, types.West},
		{"diagonal tie, vertical priority", pos(7, 7), types.AxisVertical, types.North},
		{"same column", pos(5, 8), types.AxisHorizontal, types.North},
		{"same row", pos(2, 5), types.AxisVertical, types.East},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, reg := testWorld(t)
			orc := npcOf(types.NPCOrc, "o1", tt.orc)
			orc.Params.AxisPriority = tt.priority
			add(t, reg, orc)

			act := Decide(orc, g, reg, &scripted{})
			if act.Kind != types.ActionMove {
				t.Fatalf("kind = %s, want move", act.Kind)
			}
			if act.Dir != tt.wantDir {
				t.Errorf("dir = %s, want %s", act.Dir, tt.wantDir)
			}
			if act.To != tt.orc.Add(tt.wantDir) {
				t.Errorf("to = %v", act.To)
			}
		})
	}
}

func TestOrc_DetectRadius(t *testing.T) {
	g, reg := testWorld(t)
	atEdge := add(t, reg, npcOf(types.NPCOrc, "edge", pos(10, 5))) // distance 5
	beyond := add(t, reg, npcOf(types.NPCOrc, "far", pos(9, 7)))   // distance 6

	if act := Decide(atEdge, g, reg, &scripted{}); act.Kind != types.ActionMove {
		t.Errorf("orc at distance 5 should move, got %s", act.Kind)
	}
	if act := Decide(beyond, g, reg, &scripted{}); act.Kind != types.ActionIdle {
		t.Errorf("orc at distance 6 should idle, got %s", act.Kind)
	}
}

func TestOrc_AttacksInsteadOfEnteringPlayerCell(t *testing.T) {
	g, reg := testWorld(t)
	orc := add(t, reg, npcOf(types.NPCOrc, "o1", pos(6, 5)))

	act := Decide(orc, g, reg, &scripted{betweens: []int{13}})
	if act.Kind != types.ActionAttack {
		t.Fatalf("kind = %s, want attack", act.Kind)
	}
	if act.Damage != 13 || act.To != pos(5, 5) {
		t.Errorf("attack = %+v", act)
	}
}

func TestOrc_DamageRange(t *testing.T) {
	g, reg := testWorld(t)
	orc := add(t, reg, npcOf(types.NPCOrc, "o1", pos(5, 6)))
	rng := seeded{rand.New(rand.NewSource(3))}

	seen := map[int]bool{}
	for i := 0; i < 2000; i++ {
		act := Decide(orc, g, reg, rng)
		if act.Damage < 5 || act.Damage > 20 {
			t.Fatalf("damage %d outside [5,20]", act.Damage)
		}
		seen[act.Damage] = true
	}
	if !seen[5] || !seen[20] {
		t.Error("expected both damage bounds to occur over 2000 attacks")
	}
}

func TestOrc_BlockedIsIdle(t *testing.T) {
	g, reg := testWorld(t)
	if err := g.Set(pos(7, 5), types.Wall); err != nil {
		t.Fatal(err)
	}
	orc := add(t, reg, npcOf(types.NPCOrc, "o1", pos(8, 5)))

	if act := Decide(orc, g, reg, &scripted{}); act.Kind != types.ActionIdle {
		t.Errorf("walled orc should idle, got %s", act.Kind)
	}
}

func TestOrc_NeverAttacksNPCs(t *testing.T) {
	g, reg := testWorld(t)
	add(t, reg, npcOf(types.NPCMerchant, "m1", pos(7, 5)))
	orc := add(t, reg, npcOf(types.NPCOrc, "o1", pos(8, 5)))

	act := Decide(orc, g, reg, &scripted{})
	if act.Kind != types.ActionIdle {
		t.Errorf("orc behind merchant should idle, got %+v", act)
	}
}

func TestGoblin_ShorterRadius(t *testing.T) {
	g, reg := testWorld(t)
	gob := add(t, reg, npcOf(types.NPCGoblin, "g1", pos(9, 5)))

	if act := Decide(gob, g, reg, &scripted{}); act.Kind != types.ActionIdle {
		t.Errorf("goblin at distance 4 should idle, got %s", act.Kind)
	}
	gob.Pos = pos(8, 5)
	if act := Decide(gob, g, reg, &scripted{}); act.Kind != types.ActionMove {
		t.Errorf("goblin at distance 3 should move, got %s", act.Kind)
	}
}

func TestMerchant_MoveAndDrop(t *testing.T) {
	g, reg := testWorld(t)
	m := add(t, reg, npcOf(types.NPCMerchant, "m1", pos(10, 8)))

	// move roll, direction East (index 2), drop roll, pool index 1 (Scroll)
	rng := &scripted{chances: []bool{true, true}, ints: []int{2, 1}}
	act := Decide(m, g, reg, rng)
	if act.Kind != types.ActionMove || act.To != pos(11, 8) {
		t.Fatalf("expected move east, got %+v", act)
	}
	if act.Drop == nil || act.Drop.Kind != types.ItemScroll {
		t.Fatalf("expected scroll drop, got %+v", act.Drop)
	}
}

func TestMerchant_RejectedMoveStillDrops(t *testing.T) {
	g, reg := testWorld(t)
	m := add(t, reg, npcOf(types.NPCMerchant, "m1", pos(1, 1)))

	// direction North (index 0) hits the border wall
	rng := &scripted{chances: []bool{true, true}, ints: []int{0, 0}}
	act := Decide(m, g, reg, rng)
	if act.Kind != types.ActionIdle {
		t.Errorf("rejected move should leave merchant idle, got %s", act.Kind)
	}
	if act.Drop == nil || act.Drop.Kind != types.ItemGem {
		t.Errorf("drop roll is independent of the move, got %+v", act.Drop)
	}
}

func TestMerchant_NoRolls(t *testing.T) {
	g, reg := testWorld(t)
	m := add(t, reg, npcOf(types.NPCMerchant, "m1", pos(10, 8)))

	act := Decide(m, g, reg, &scripted{chances: []bool{false, false}})
	if act.Kind != types.ActionIdle || act.Drop != nil {
		t.Errorf("expected plain idle, got %+v", act)
	}
}

func TestMerchant_Frequencies(t *testing.T) {
	g, reg := testWorld(t)
	m := add(t, reg, npcOf(types.NPCMerchant, "m1", pos(10, 6)))
	rng := seeded{rand.New(rand.NewSource(11))}

	const trials = 10000
	moves, drops := 0, 0
	for i := 0; i < trials; i++ {
		act := Decide(m, g, reg, rng)
		if act.Kind == types.ActionMove {
			moves++
		}
		if act.Drop != nil {
			drops++
		}
	}
	// Open floor on all sides, so every move roll succeeds.
	if moves < 2000 || moves > 2800 {
		t.Errorf("expected ~2400 moves, got %d", moves)
	}
	if drops < 1200 || drops > 1800 {
		t.Errorf("expected ~1500 drops, got %d", drops)
	}
}

func TestMerchant_Despawns(t *testing.T) {
	g, reg := testWorld(t)
	m := npcOf(types.NPCMerchant, "m1", pos(10, 8))
	m.Params.Lifetime = 3
	m.Age = 3
	add(t, reg, m)

	if act := Decide(m, g, reg, &scripted{}); act.Kind != types.ActionDespawn {
		t.Errorf("expected despawn, got %s", act.Kind)
	}
}

func TestSkeleton_OnlyAttacksAdjacent(t *testing.T) {
	g, reg := testWorld(t)
	far := add(t, reg, npcOf(types.NPCSkeleton, "s1", pos(7, 5)))
	near := add(t, reg, npcOf(types.NPCSkeleton, "s2", pos(5, 4)))

	if act := Decide(far, g, reg, &scripted{}); act.Kind != types.ActionIdle {
		t.Errorf("distant skeleton should idle, got %s", act.Kind)
	}
	act := Decide(near, g, reg, &scripted{betweens: []int{7}})
	if act.Kind != types.ActionAttack || act.Damage != 7 {
		t.Errorf("adjacent skeleton should attack for 7, got %+v", act)
	}
}

func TestGuard_AlwaysIdle(t *testing.T) {
	g, reg := testWorld(t)
	guard := add(t, reg, npcOf(types.NPCGuard, "g1", pos(5, 6)))
	if act := Decide(guard, g, reg, &scripted{}); act.Kind != types.ActionIdle {
		t.Errorf("guard should idle, got %s", act.Kind)
	}
}
