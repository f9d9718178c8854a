package level

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/milk9111/castlechase/boss"
	"github.com/milk9111/castlechase/common"
	"github.com/milk9111/castlechase/config"
	"github.com/milk9111/castlechase/ecs"
	"github.com/milk9111/castlechase/physics"
)

// Arena layout.
const (
	ArenaWidth    = 640.0
	ArenaHeight   = 480.0
	WallThickness = 16.0

	// fireballs this far outside the arena are dropped
	despawnMargin = 50.0
	// bombs are easier to grab than they look
	bombPickupRadius = BombRadius + 4
	bombPad          = WallThickness + BombRadius + 20
)

var (
	playerStart = [2]float64{320, 430}
	dragonStart = [2]float64{320, 80}
)

// Arena is the boss stage: a walled room, the dragon encounter and bombs
// that appear one at a time until enough are collected.
type Arena struct {
	log  zerolog.Logger
	diff config.Difficulty
	rng  *rand.Rand

	world *ecs.World
	space *physics.Space
	sched *ecs.Scheduler

	player    ecs.Entity
	playerKin *ecs.Kinematic
	dragon    ecs.Entity
	dragonKin *ecs.Kinematic
	enc       *boss.Encounter

	bomb      ecs.Entity
	bombTimer time.Duration
	bombs     int

	score   int
	elapsed time.Duration
	outcome Outcome
}

// NewArena builds the boss stage. score carries over from the overworld.
func NewArena(diff config.Difficulty, seed int64, score int, log zerolog.Logger) (*Arena, error) {
	if err := diff.Validate(); err != nil {
		return nil, fmt.Errorf("level: arena: %w", err)
	}
	a := &Arena{
		log:   log.With().Str("stage", "arena").Int64("seed", seed).Logger(),
		diff:  diff,
		rng:   rand.New(rand.NewSource(seed)),
		world: ecs.NewWorld(),
		score: score,
	}
	a.space = physics.NewArenaSpace(a.world, a.log, ArenaWidth, ArenaHeight, WallThickness)
	a.sched = ecs.NewScheduler(ecs.ControllerSystem{}, a.space)
	a.sched.Add(strayFireballSystem{})

	a.player, a.playerKin = a.world.Spawn(ecs.KindPlayer, playerStart[0], playerStart[1], PlayerRadius)
	a.space.Add(a.player)

	a.dragon, a.dragonKin = a.world.Spawn(ecs.KindDragon, dragonStart[0], dragonStart[1], DragonRadius)
	a.space.Add(a.dragon)
	a.enc = boss.New(a.dragonKin, a.playerKin, a.fire, a.rng, diff.BossConfig())
	if err := a.world.SetController(a.dragon, a.enc); err != nil {
		return nil, fmt.Errorf("level: arena: attach dragon: %w", err)
	}

	a.log.Info().Int("bombs_to_win", diff.BombsToWin).Msg("level: arena ready")
	return a, nil
}

func (a *Arena) World() *ecs.World { return a.world }
func (a *Arena) Encounter() *boss.Encounter { return a.enc }
func (a *Arena) Space() *physics.Space { return a.space }
func (a *Arena) Player() *ecs.Kinematic { return a.playerKin }
func (a *Arena) Dragon() *ecs.Kinematic { return a.dragonKin }
func (a *Arena) Outcome() Outcome { return a.outcome }
func (a *Arena) Score() int { return a.score }
func (a *Arena) BombsCollected() int { return a.bombs }
func (a *Arena) BombsToWin() int { return a.diff.BombsToWin }

// Bomb returns the position of the bomb on the floor, if any.
func (a *Arena) Bomb() (x, y float64, ok bool) {
	k, ok := a.world.Kinematic(a.bomb)
	if !ok {
		return 0, 0, false
	}
	return k.X, k.Y, true
}

func (a *Arena) Steer(dx, dy float64) {
	if a.outcome != OutcomeNone {
		a.playerKin.Stop()
		return
	}
	steer(a.playerKin, dx, dy, PlayerSpeed)
}

// Update runs one frame: the dragon and physics, bomb spawning, contact
// handling and projectile cleanup.
func (a *Arena) Update(dt time.Duration) {
	if a.outcome != OutcomeNone {
		return
	}
	a.elapsed += dt
	a.sched.Update(a.world, dt)

	a.bombTimer += dt
	if a.bombTimer >= a.diff.BombSpawnInterval && !ecs.IsAlive(a.world, a.bomb) {
		a.spawnBomb()
		a.bombTimer = 0
	}

	for _, evt := range a.world.Events().Drain() {
		a.handle(evt)
		if a.outcome != OutcomeNone {
			return
		}
	}
}

func (a *Arena) handle(evt ecs.Event) {
	switch evt.Type {
	case ecs.EventWallHit:
		switch a.world.Kind(evt.Entity) {
		case ecs.KindDragon:
			a.enc.WallHit()
		case ecs.KindFireball:
			a.removeFireball(evt.Entity)
		}
	case ecs.EventDespawn:
		a.removeFireball(evt.Entity)
	case ecs.EventHit:
		if evt.Entity == a.player && ecs.IsAlive(a.world, evt.Other) {
			a.finish(OutcomeDefeat)
		}
	case ecs.EventPickup:
		if evt.Entity == a.player && evt.Other == a.bomb {
			a.collectBomb()
		}
	}
}

// fire spawns one fireball. A zero speed means the level's default.
func (a *Arena) fire(x, y, angle, speed float64) {
	if speed == 0 {
		speed = a.diff.FireballSpeed
	}
	e, k := a.world.Spawn(ecs.KindFireball, x, y, FireballRadius)
	k.VX, k.VY = common.Heading(angle, speed)
	k.Rotation = angle
	a.space.Add(e)
}

func (a *Arena) removeFireball(e ecs.Entity) {
	if !ecs.IsAlive(a.world, e) {
		return
	}
	a.space.Remove(e)
	ecs.DestroyEntity(a.world, e)
}

// strayFireballSystem flags fireballs that left the arena without touching
// a wall.
type strayFireballSystem struct{}

func (strayFireballSystem) Update(w *ecs.World, _ time.Duration) {
	ecs.ForEachKind(w, ecs.KindFireball, func(e ecs.Entity, k *ecs.Kinematic) {
		if k.X < -despawnMargin || k.X > ArenaWidth+despawnMargin ||
			k.Y < -despawnMargin || k.Y > ArenaHeight+despawnMargin {
			w.Events().Push(ecs.Event{Type: ecs.EventDespawn, Entity: e})
		}
	})
}

func (a *Arena) spawnBomb() {
	x := bombPad + a.rng.Float64()*(ArenaWidth-2*bombPad)
	y := bombPad + a.rng.Float64()*(ArenaHeight-2*bombPad)
	a.bomb, _ = a.world.Spawn(ecs.KindBomb, x, y, bombPickupRadius)
	a.space.Add(a.bomb)
	a.log.Debug().Float64("x", x).Float64("y", y).Msg("level: bomb spawned")
}

func (a *Arena) collectBomb() {
	if !ecs.IsAlive(a.world, a.bomb) {
		return
	}
	a.space.Remove(a.bomb)
	ecs.DestroyEntity(a.world, a.bomb)
	a.bombs++
	a.bombTimer = 0
	a.log.Info().Int("collected", a.bombs).Int("needed", a.diff.BombsToWin).Msg("level: bomb collected")
	if a.bombs >= a.diff.BombsToWin {
		a.finish(OutcomeVictory)
	}
}

func (a *Arena) finish(out Outcome) {
	a.outcome = out
	a.playerKin.Stop()
	a.dragonKin.Stop()
	a.log.Info().Str("outcome", out.String()).Int("score", a.score).Dur("elapsed", a.elapsed).Msg("level: arena finished")
}
