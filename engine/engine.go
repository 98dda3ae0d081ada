// Package engine provides the Step() orchestrator that advances the world
// one turn: player action, NPC phase, then win/loss evaluation.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/nathoo/dungeoncore/engine/behavior"
	"github.com/nathoo/dungeoncore/engine/condition"
	"github.com/nathoo/dungeoncore/engine/events"
	"github.com/nathoo/dungeoncore/engine/grid"
	"github.com/nathoo/dungeoncore/engine/registry"
	"github.com/nathoo/dungeoncore/engine/validate"
	"github.com/nathoo/dungeoncore/telemetry"
	"github.com/nathoo/dungeoncore/types"
)

// ErrInvalidConfig is returned by New for unusable session layouts.
var ErrInvalidConfig = errors.New("invalid session configuration")

// npcNamespace seeds deterministic NPC IDs.
var npcNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/nathoo/dungeoncore/npc"))

// Engine owns one session's world and advances it a turn at a time.
// It is not safe for concurrent use.
type Engine struct {
	grid    *grid.Grid
	reg     *registry.Registry
	cond    condition.Condition
	log     *events.Log
	rng     *RNG
	phase   Phase
	outcome condition.Outcome

	logger *zap.Logger
	tracer trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithTracer sets the tracer used for turn spans.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// New builds a session from cfg. Mode problems match
// condition.ErrInvalidModeConfiguration; layout problems match ErrInvalidConfig.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cond, err := condition.New(cfg.Mode, condition.Params{TurnLimit: cfg.TurnLimit, Required: cfg.Required})
	if err != nil {
		return nil, fmt.Errorf("building win condition: %w", err)
	}

	g, err := grid.New(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.Enclose {
		g.Enclose()
	}
	if err := buildTerrain(g, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	rng := NewRNG(cfg.Seed)

	// Spawn cells stay walkable no matter what the scatter rolls.
	reserved := mapset.New[types.Position]()
	reserved.Put(cfg.PlayerStart)
	for _, s := range cfg.NPCs {
		reserved.Put(s.Pos)
	}
	for _, it := range cfg.Items {
		reserved.Put(it.Pos)
	}
	g.Scatter(rng, cfg.ObstacleDensity, reserved)

	if !g.IsWalkable(cfg.PlayerStart) {
		return nil, fmt.Errorf("%w: player start (%d,%d) is not walkable",
			ErrInvalidConfig, cfg.PlayerStart.X, cfg.PlayerStart.Y)
	}

	health := cfg.PlayerHealth
	if health <= 0 {
		health = DefaultPlayerHealth
	}
	reg := registry.New(types.Player{Pos: cfg.PlayerStart, Health: health, MaxHealth: health})

	for i, s := range cfg.NPCs {
		n, err := spawnNPC(cfg.Seed, i, s)
		if err != nil {
			return nil, err
		}
		if !g.IsWalkable(n.Pos) {
			return nil, fmt.Errorf("%w: %s spawn (%d,%d) is not walkable", ErrInvalidConfig, n.Kind, n.Pos.X, n.Pos.Y)
		}
		if err := reg.AddNPC(n); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	for _, it := range cfg.Items {
		if !g.IsWalkable(it.Pos) {
			return nil, fmt.Errorf("%w: %s at (%d,%d) is not walkable", ErrInvalidConfig, it.Item.Kind, it.Pos.X, it.Pos.Y)
		}
		if _, dup := reg.PlaceItem(it.Pos, it.Item); dup {
			return nil, fmt.Errorf("%w: two items at (%d,%d)", ErrInvalidConfig, it.Pos.X, it.Pos.Y)
		}
	}

	capacity := cfg.LogCapacity
	if capacity <= 0 {
		capacity = events.DefaultCapacity
	}

	e := &Engine{
		grid:    g,
		reg:     reg,
		cond:    cond,
		log:     events.NewLog(capacity),
		rng:     rng,
		outcome: condition.Ongoing,
		logger:  zap.NewNop(),
		tracer:  telemetry.Tracer("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger.Info("session created",
		zap.String("mode", string(cfg.Mode)),
		zap.Int64("seed", cfg.Seed),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Int("npcs", len(cfg.NPCs)),
	)
	return e, nil
}

func buildTerrain(g *grid.Grid, cfg Config) error {
	for _, p := range cfg.Walls {
		if err := g.Set(p, types.Wall); err != nil {
			return err
		}
	}
	for _, d := range cfg.Doors {
		t := types.ClosedDoor
		if d.Open {
			t = types.OpenDoor
		}
		if err := g.Set(d.Pos, t); err != nil {
			return err
		}
	}
	for _, h := range cfg.Hazards {
		if err := g.Set(h.Pos, types.Tile{Kind: types.TileHazard, Hazard: h.Kind}); err != nil {
			return err
		}
	}
	return nil
}

func spawnNPC(seed int64, i int, s NPCSpawn) (types.NPC, error) {
	known := false
	for _, k := range types.NPCKinds {
		if k == s.Kind {
			known = true
		}
	}
	if !known {
		return types.NPC{}, fmt.Errorf("%w: unknown npc kind %q", ErrInvalidConfig, s.Kind)
	}

	n := types.NPC{
		ID:     s.ID,
		Name:   s.Name,
		Kind:   s.Kind,
		Pos:    s.Pos,
		Health: s.Health,
		Params: behavior.Defaults(s.Kind),
	}
	if n.ID == "" {
		n.ID = uuid.NewSHA1(npcNamespace, []byte(fmt.Sprintf("%d/%d/%s", seed, i, s.Kind))).String()
	}
	if n.Name == "" {
		n.Name = behavior.DisplayName(s.Kind)
	}
	if n.Health <= 0 {
		n.Health = behavior.DefaultHealth(s.Kind)
	}
	if s.Params != nil {
		n.Params = *s.Params
	}
	return n, nil
}

// Step applies one player intent and runs the rest of the turn.
// A rejected intent returns a *validate.Rejection and leaves the world untouched.
func (e *Engine) Step(ctx context.Context, in types.Intent) (types.Result, error) {
	player := e.reg.Player()
	turn := player.Turn + 1

	ctx, span := e.tracer.Start(ctx, "turn", trace.WithAttributes(
		attribute.Int("turn", turn),
		attribute.String("intent", in.Kind.String()),
	))
	defer span.End()

	// 0. Terminal state absorbs all input.
	if e.phase == PhaseTerminal {
		return e.result(nil), validate.Reject(types.ReasonGameOver)
	}

	// 1. Apply the player's action. Nothing has changed if it fails.
	e.phase = PhaseApplyingPlayerAction
	playerEvent, err := e.applyPlayer(ctx, in, turn)
	if err != nil {
		e.phase = PhaseAwaitingInput
		span.SetStatus(codes.Error, err.Error())
		e.logger.Debug("action rejected",
			zap.Int("turn", turn),
			zap.String("intent", in.Kind.String()),
			zap.Error(err),
		)
		return e.result(nil), err
	}
	turnEvents := []types.TurnEvent{playerEvent}

	// 2. The turn now counts.
	player.Turn = turn

	// 3. NPC phase.
	e.phase = PhaseRunningNPCs
	turnEvents = append(turnEvents, e.runNPCPhase(ctx, turn)...)

	// 4. Evaluate win/loss.
	e.phase = PhaseEvaluating
	e.evaluate(ctx)

	// 5. Record.
	for _, ev := range turnEvents {
		e.log.Append(ev)
	}
	if e.outcome.Status != types.StatusOngoing {
		e.phase = PhaseTerminal
		e.logger.Info("game over",
			zap.Int("turn", turn),
			zap.String("status", e.outcome.Status.String()),
			zap.String("reason", e.outcome.Reason),
		)
	} else {
		e.phase = PhaseAwaitingInput
	}

	span.SetAttributes(
		attribute.Int("events", len(turnEvents)),
		attribute.String("status", e.outcome.Status.String()),
		attribute.Int64("rng.position", e.rng.Position()),
	)
	e.logger.Debug("turn applied",
		zap.Int("turn", turn),
		zap.Int("health", player.Health),
		zap.Int("events", len(turnEvents)),
	)

	return e.result(turnEvents), nil
}

func (e *Engine) result(evts []types.TurnEvent) types.Result {
	return types.Result{
		Turn:   e.reg.Player().Turn,
		Events: evts,
		Status: e.outcome.Status,
		Reason: e.outcome.Reason,
	}
}

func (e *Engine) runNPCPhase(ctx context.Context, turn int) []types.TurnEvent {
	ids := e.reg.NPCIDs()
	_, span := e.tracer.Start(ctx, "turn.npcs", trace.WithAttributes(attribute.Int("npcs", len(ids))))
	defer span.End()

	out := make([]types.TurnEvent, 0, len(ids))
	for _, id := range ids {
		npc, ok := e.reg.NPC(id)
		if !ok {
			continue // removed earlier this phase
		}
		npc.Age++
		act := behavior.Decide(*npc, e.grid, e.reg, e.rng)
		out = append(out, e.applyNPC(npc, act, turn))
	}
	return out
}

func (e *Engine) evaluate(ctx context.Context) {
	_, span := e.tracer.Start(ctx, "turn.evaluate")
	defer span.End()

	e.outcome = e.cond.Evaluate(e.view())
	span.SetAttributes(attribute.String("status", e.outcome.Status.String()))
}

func (e *Engine) view() condition.View {
	p := e.reg.Player()
	return condition.View{Turn: p.Turn, Health: p.Health, Inventory: p.Inventory}
}

// Turn returns the number of completed turns.
func (e *Engine) Turn() int {
	return e.reg.Player().Turn
}

// Phase returns where the engine is in the turn cycle.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Status returns the current win/loss status.
func (e *Engine) Status() types.Status {
	return e.outcome.Status
}

// Goal returns the win description for the session's mode.
func (e *Engine) Goal() string {
	return e.cond.Goal()
}

// Recent returns up to n of the latest logged events, oldest first.
func (e *Engine) Recent(n int) []types.TurnEvent {
	return e.log.Tail(n)
}

// Snapshot returns a fully materialized copy of the world.
func (e *Engine) Snapshot() types.Snapshot {
	p := *e.reg.Player()
	p.Inventory = append([]types.Item{}, p.Inventory...)
	v := e.view()
	return types.Snapshot{
		Width:       e.grid.Width(),
		Height:      e.grid.Height(),
		Tiles:       e.grid.Rows(),
		Player:      p,
		NPCs:        e.reg.NPCs(),
		Items:       e.reg.Items(),
		Turn:        p.Turn,
		Status:      e.outcome.Status,
		Reason:      e.outcome.Reason,
		Mode:        e.cond.Mode(),
		Goal:        e.cond.Goal(),
		Loss:        e.cond.LossText(),
		Progress:    e.cond.Progress(v),
		TurnLimit:   e.cond.TurnLimit(),
		Log:         e.log.Entries(),
		RNGPosition: e.rng.Position(),
	}
}
