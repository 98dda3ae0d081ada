package condition

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/dungeoncore/types"
)

func items(kinds ...types.ItemKind) []types.Item {
	out := make([]types.Item, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, types.Item{Kind: k, Name: string(k)})
	}
	return out
}

func mustSurvival(t *testing.T, n int) Condition {
	t.Helper()
	c, err := Survival(n)
	if err != nil {
		t.Fatalf("Survival(%d): %v", n, err)
	}
	return c
}

func TestTreasureHunt(t *testing.T) {
	c := TreasureHunt()

	tests := []struct {
		name string
		view View
		want types.Status
	}{
		{"empty inventory", View{Health: 50}, types.StatusOngoing},
		{"gems only", View{Health: 50, Inventory: items(types.ItemGem, types.ItemGem)}, types.StatusOngoing},
		{"holding treasure", View{Health: 50, Inventory: items(types.ItemGem, types.ItemTreasure)}, types.StatusWon},
		{"dead with treasure", View{Health: 0, Inventory: items(types.ItemTreasure)}, types.StatusLost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Evaluate(tt.view).Status; got != tt.want {
				t.Errorf("status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSurvival_WonExactlyAtLimit(t *testing.T) {
	for _, limit := range []int{1, 5, 200} {
		c := mustSurvival(t, limit)
		if got := c.Evaluate(View{Turn: limit - 1, Health: 10}).Status; got != types.StatusOngoing {
			t.Errorf("limit %d, turn %d: status = %s, want ongoing", limit, limit-1, got)
		}
		if got := c.Evaluate(View{Turn: limit, Health: 10}).Status; got != types.StatusWon {
			t.Errorf("limit %d, turn %d: status = %s, want won", limit, limit, got)
		}
	}
}

func TestSurvival_LossBeatsWin(t *testing.T) {
	c := mustSurvival(t, 3)
	out := c.Evaluate(View{Turn: 3, Health: 0})
	if out.Status != types.StatusLost {
		t.Errorf("status = %s, want lost", out.Status)
	}
}

func TestCollection(t *testing.T) {
	c, err := Collection(map[types.ItemKind]int{
		types.ItemGem:    3,
		types.ItemScroll: 2,
		types.ItemPotion: 1,
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		inv  []types.Item
		want types.Status
	}{
		{"nothing", nil, types.StatusOngoing},
		{"two of three kinds met",
			items(types.ItemGem, types.ItemGem, types.ItemGem, types.ItemScroll, types.ItemScroll), types.StatusOngoing},
		{"one short on gems",
			items(types.ItemGem, types.ItemGem, types.ItemScroll, types.ItemScroll, types.ItemPotion), types.StatusOngoing},
		{"all met",
			items(types.ItemGem, types.ItemGem, types.ItemGem, types.ItemScroll, types.ItemScroll, types.ItemPotion), types.StatusWon},
		{"surplus still wins",
			items(types.ItemGem, types.ItemGem, types.ItemGem, types.ItemGem, types.ItemScroll, types.ItemScroll, types.ItemPotion, types.ItemTreasure), types.StatusWon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Evaluate(View{Health: 1, Inventory: tt.inv}).Status; got != tt.want {
				t.Errorf("status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	c := mustSurvival(t, 4)
	v := View{Turn: 4, Health: 7, Inventory: items(types.ItemGem)}
	first := c.Evaluate(v)
	for i := 0; i < 5; i++ {
		if got := c.Evaluate(v); got != first {
			t.Fatalf("evaluation %d = %+v, want %+v", i, got, first)
		}
	}
	if len(v.Inventory) != 1 {
		t.Error("Evaluate mutated the view")
	}
}

func TestInvalidConfigurations(t *testing.T) {
	tests := []struct {
		name    string
		mode    types.Mode
		params  Params
		problem string
	}{
		{"survival zero", types.ModeSurvival, Params{TurnLimit: 0}, "turn limit"},
		{"survival negative", types.ModeSurvival, Params{TurnLimit: -3}, "turn limit"},
		{"collection empty", types.ModeCollection, Params{}, "at least one"},
		{"collection zero count", types.ModeCollection,
			Params{Required: map[types.ItemKind]int{types.ItemGem: 0}}, "must be positive"},
		{"collection unknown kind", types.ModeCollection,
			Params{Required: map[types.ItemKind]int{"sword": 1}}, "unknown item kind"},
		{"unknown mode", types.Mode("arena"), Params{}, "unknown mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.mode, tt.params)
			if !errors.Is(err, ErrInvalidModeConfiguration) {
				t.Fatalf("expected ErrInvalidModeConfiguration, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.problem) {
				t.Errorf("error %q should mention %q", err.Error(), tt.problem)
			}
		})
	}
}

func TestCollection_ReportsEveryProblem(t *testing.T) {
	_, err := Collection(map[types.ItemKind]int{"sword": 0, types.ItemGem: -1})
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if len(ce.Problems) != 3 {
		t.Errorf("expected 3 problems, got %d: %v", len(ce.Problems), ce.Problems)
	}
}

func TestGoalAndProgress(t *testing.T) {
	c := mustSurvival(t, 50)
	if c.Goal() != "Survive for 50 turns!" {
		t.Errorf("goal = %q", c.Goal())
	}
	if c.LossText() != "Don't let your health reach zero!" {
		t.Errorf("loss = %q", c.LossText())
	}
	if got := c.Progress(View{Turn: 12}); got != "Turn 12/50" {
		t.Errorf("progress = %q", got)
	}

	col, _ := Collection(map[types.ItemKind]int{types.ItemScroll: 2, types.ItemGem: 3})
	got := col.Progress(View{Inventory: items(types.ItemGem, types.ItemScroll)})
	if got != "gem 1/3, scroll 1/2" {
		t.Errorf("progress = %q", got)
	}
}

func TestRequired_IsCopy(t *testing.T) {
	src := map[types.ItemKind]int{types.ItemGem: 2}
	c, _ := Collection(src)
	src[types.ItemGem] = 9
	c.Required()[types.ItemGem] = 7
	if c.Required()[types.ItemGem] != 2 {
		t.Error("collection targets leaked through a shared map")
	}
}
