package level

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/milk9111/castlechase/config"
	"github.com/milk9111/castlechase/ecs"
	"github.com/milk9111/castlechase/grid"
	"github.com/milk9111/castlechase/mapgen"
	"github.com/milk9111/castlechase/pathfind"
	"github.com/milk9111/castlechase/physics"
	"github.com/milk9111/castlechase/pursuit"
)

const (
	spawnSamples     = 40
	minSpawnDistance = 10
)

// Overworld is the key-collecting stage: a generated map, chasing knights
// and a castle gate that opens once every key is taken.
type Overworld struct {
	log  zerolog.Logger
	diff config.Difficulty
	ramp SpeedRamp
	rng  *rand.Rand
	seed int64

	grid    *grid.Map
	world   *ecs.World
	planner *pathfind.Planner
	space   *physics.Space
	sched   *ecs.Scheduler

	player    ecs.Entity
	playerKin *ecs.Kinematic
	keys      map[ecs.Entity]grid.Coord
	collected int
	total     int
	agents    map[ecs.Entity]*pursuit.Agent

	elapsed    time.Duration
	spawnTimer time.Duration
	spawned    int
	outcome    Outcome
}

// NewOverworld validates diff and builds the stage from seed. ramp may be
// nil, in which case knights always use the base speed.
func NewOverworld(diff config.Difficulty, ramp SpeedRamp, seed int64, log zerolog.Logger) (*Overworld, error) {
	if err := diff.Validate(); err != nil {
		return nil, fmt.Errorf("level: overworld: %w", err)
	}
	rng := rand.New(rand.NewSource(seed))
	spawn := grid.Coord{Col: diff.MapTiles / 2, Row: diff.MapTiles / 2}
	m := mapgen.New(rng).Generate(spawn, diff.MapTiles, diff.ObstacleDensity, diff.KeyCount)

	o := &Overworld{
		log:     log.With().Str("stage", "overworld").Int64("seed", seed).Logger(),
		diff:    diff,
		ramp:    ramp,
		rng:     rng,
		seed:    seed,
		grid:    m,
		world:   ecs.NewWorld(),
		planner: pathfind.New(),
		keys:    make(map[ecs.Entity]grid.Coord),
		agents:  make(map[ecs.Entity]*pursuit.Agent),
	}
	o.planner.SetGrid(m.Passability())
	o.space = physics.NewTileSpace(o.world, o.log, m)
	o.sched = ecs.NewScheduler(ecs.ControllerSystem{}, o.space)

	px, py := grid.TileToWorld(spawn)
	o.player, o.playerKin = o.world.Spawn(ecs.KindPlayer, px, py, PlayerRadius)
	o.space.Add(o.player)

	for _, c := range m.Keys {
		kx, ky := grid.TileToWorld(c)
		e, _ := o.world.Spawn(ecs.KindKey, kx, ky, KeyRadius)
		o.space.Add(e)
		o.keys[e] = c
	}
	o.total = len(m.Keys)
	if o.total < diff.KeyCount {
		o.log.Warn().Int("requested", diff.KeyCount).Int("placed", o.total).Msg("level: short key list")
	}
	if o.total == 0 {
		o.openGate()
	}

	o.log.Info().
		Int("size", diff.MapTiles).
		Int("keys", o.total).
		Str("gate", m.GateFace.String()).
		Msg("level: overworld ready")
	return o, nil
}

func (o *Overworld) World() *ecs.World { return o.world }
func (o *Overworld) Map() *grid.Map { return o.grid }
func (o *Overworld) Planner() *pathfind.Planner { return o.planner }
func (o *Overworld) Space() *physics.Space { return o.space }
func (o *Overworld) Seed() int64 { return o.seed }
func (o *Overworld) Player() *ecs.Kinematic { return o.playerKin }
func (o *Overworld) Outcome() Outcome { return o.outcome }
func (o *Overworld) Elapsed() time.Duration { return o.elapsed }
func (o *Overworld) KeysCollected() int { return o.collected }
func (o *Overworld) KeysTotal() int { return o.total }
func (o *Overworld) KnightCount() int { return len(o.agents) }

// Score is the number of whole seconds survived.
func (o *Overworld) Score() int {
	return int(o.elapsed / time.Second)
}

// Agents returns the pursuit controller of every knight.
func (o *Overworld) Agents() map[ecs.Entity]*pursuit.Agent {
	return o.agents
}

// Steer applies the player's input direction.
func (o *Overworld) Steer(dx, dy float64) {
	if o.outcome != OutcomeNone {
		o.playerKin.Stop()
		return
	}
	steer(o.playerKin, dx, dy, PlayerSpeed)
}

// Update runs one frame: path search, knight spawns, controllers, physics,
// then contact handling.
func (o *Overworld) Update(dt time.Duration) {
	if o.outcome != OutcomeNone {
		return
	}
	o.elapsed += dt
	o.planner.Tick()
	o.spawnKnights(dt)
	o.sched.Update(o.world, dt)

	for _, evt := range o.world.Events().Drain() {
		o.handle(evt)
		if o.outcome != OutcomeNone {
			return
		}
	}
}

func (o *Overworld) handle(evt ecs.Event) {
	if evt.Entity != o.player {
		return
	}
	switch evt.Type {
	case ecs.EventPickup:
		o.collectKey(evt.Other)
	case ecs.EventHit:
		if o.world.Kind(evt.Other) == ecs.KindKnight {
			o.finish(OutcomeCaught)
		}
	case ecs.EventEnterGate:
		o.finish(OutcomeEnterCastle)
	}
}

func (o *Overworld) collectKey(e ecs.Entity) {
	c, ok := o.keys[e]
	if !ok {
		return
	}
	delete(o.keys, e)
	o.space.Remove(e)
	ecs.DestroyEntity(o.world, e)
	o.collected++
	o.log.Info().Int("col", c.Col).Int("row", c.Row).Int("collected", o.collected).Int("total", o.total).Msg("level: key collected")
	if o.collected >= o.total {
		o.openGate()
	}
}

// openGate swaps the gate tiles for drawbridge and re-derives passability and
// collision from the mutated map.
func (o *Overworld) openGate() {
	if o.grid.GateOpen() {
		return
	}
	o.grid.OpenGate()
	o.planner.SetGrid(o.grid.Passability())
	o.space.OpenGate()
	o.sched.Add(gatewaySystem{o})
	o.log.Info().Msg("level: gate opened")
}

// gatewaySystem runs once the gate is open and reports the player stepping
// onto it.
type gatewaySystem struct {
	o *Overworld
}

func (g gatewaySystem) Update(w *ecs.World, _ time.Duration) {
	if g.o.inGateway() {
		w.Events().Push(ecs.Event{Type: ecs.EventEnterGate, Entity: g.o.player})
	}
}

// inGateway reports whether the player stands on one of the opened gate
// tiles. The drawbridge in front of the gate does not count.
func (o *Overworld) inGateway() bool {
	c := grid.WorldToTile(o.playerKin.X, o.playerKin.Y)
	if o.grid.At(c) != grid.Drawbridge {
		return false
	}
	return slices.Contains(o.grid.Gate, c)
}

// spawnKnights releases the first knight after FirstKnightDelay and one more
// every KnightSpawnInterval while below MaxKnights.
func (o *Overworld) spawnKnights(dt time.Duration) {
	o.spawnTimer += dt
	wait := o.diff.KnightSpawnInterval
	if o.spawned == 0 {
		wait = o.diff.FirstKnightDelay
	}
	if o.spawnTimer < wait {
		return
	}
	o.spawnTimer = 0
	if len(o.agents) >= o.diff.MaxKnights {
		return
	}
	c, ok := o.spawnSite()
	if !ok {
		return
	}
	o.spawnKnight(c)
}

func (o *Overworld) spawnKnight(c grid.Coord) ecs.Entity {
	speed := o.diff.KnightSpeedBase
	if o.ramp != nil {
		v, err := o.ramp.Speed(o.diff.KnightSpeedBase, o.diff.KnightSpeedMax, o.elapsed, o.spawned)
		if err != nil {
			o.log.Warn().Err(err).Msg("level: speed ramp failed, using base speed")
		} else {
			speed = v
		}
	}

	x, y := grid.TileToWorld(c)
	e, kin := o.world.Spawn(ecs.KindKnight, x, y, KnightRadius)
	agent := pursuit.New(kin, o.playerKin, o.planner, speed)
	if err := o.world.SetController(e, agent); err != nil {
		o.log.Error().Err(err).Msg("level: attach knight controller")
		ecs.DestroyEntity(o.world, e)
		return 0
	}
	o.space.Add(e)
	o.agents[e] = agent
	o.spawned++
	o.log.Debug().Int("col", c.Col).Int("row", c.Row).Float64("speed", speed).Int("knights", len(o.agents)).Msg("level: knight spawned")
	return e
}

// spawnSite samples grass tiles and keeps the one farthest from the player,
// preferring any at least minSpawnDistance tiles away.
func (o *Overworld) spawnSite() (grid.Coord, bool) {
	size := o.grid.Size()
	player := grid.WorldToTile(o.playerKin.X, o.playerKin.Y)
	var best grid.Coord
	bestDist := -1
	for i := 0; i < spawnSamples; i++ {
		c := grid.Coord{Col: 1 + o.rng.Intn(size-2), Row: 1 + o.rng.Intn(size-2)}
		if o.grid.At(c) != grid.Grass {
			continue
		}
		if d := c.Manhattan(player); d > bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist < 0 {
		return grid.Coord{}, false
	}
	if bestDist < minSpawnDistance {
		o.log.Debug().Int("distance", bestDist).Msg("level: knight spawned close to player")
	}
	return best, true
}

func (o *Overworld) finish(out Outcome) {
	o.outcome = out
	o.playerKin.Stop()
	ecs.ForEachKind(o.world, ecs.KindKnight, func(_ ecs.Entity, k *ecs.Kinematic) {
		k.Stop()
	})
	o.log.Info().Str("outcome", out.String()).Int("score", o.Score()).Msg("level: overworld finished")
}
