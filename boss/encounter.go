package boss

import (
	"math"
	"math/rand"
	"time"

	"github.com/milk9111/castlechase/common"
	"github.com/milk9111/castlechase/ecs"
)

// Target is the position the dragon chases and aims at.
type Target interface {
	Position() (x, y float64)
}

// FireFunc receives every projectile the dragon emits. The consumer owns
// spawning the projectile entity.
type FireFunc func(x, y, angle, speed float64)

// Config holds the dragon's tuning. The first block is fixed behaviour; the
// second comes from the difficulty table.
type Config struct {
	BaseSpeed      float64
	ChargeSpeed    float64
	ChargeDuration time.Duration
	TripleSpread   float64
	TripleDelay    time.Duration
	TelegraphFlash time.Duration
	StunFlash      time.Duration

	CooldownMin       time.Duration
	CooldownMax       time.Duration
	TelegraphDuration time.Duration
	StunDuration      time.Duration
	SpinDuration      time.Duration
	SpinRevolutions   int
	SpinPerRevolution int
	ProjectileSpeed   float64
}

func DefaultConfig() Config {
	return Config{
		BaseSpeed:      70,
		ChargeSpeed:    350,
		ChargeDuration: 800 * time.Millisecond,
		TripleSpread:   0.35,
		TripleDelay:    300 * time.Millisecond,
		TelegraphFlash: 150 * time.Millisecond,
		StunFlash:      100 * time.Millisecond,

		CooldownMin:       2000 * time.Millisecond,
		CooldownMax:       3500 * time.Millisecond,
		TelegraphDuration: 500 * time.Millisecond,
		StunDuration:      1000 * time.Millisecond,
		SpinDuration:      2 * time.Second,
		SpinRevolutions:   2,
		SpinPerRevolution: 12,
		ProjectileSpeed:   200,
	}
}

// SpinTotal is the number of projectiles one spin attack emits.
func (c Config) SpinTotal() int {
	return c.SpinRevolutions * c.SpinPerRevolution
}

// Encounter is the dragon's controller. It writes velocity and rotation into
// its Kinematic each Step and reports projectiles through FireFunc.
type Encounter struct {
	body   *ecs.Kinematic
	target Target
	fire   FireFunc
	rng    *rand.Rand
	cfg    Config

	state   State
	elapsed time.Duration
}

// New builds an encounter starting in Idle with a freshly sampled cooldown.
func New(body *ecs.Kinematic, target Target, fire FireFunc, rng *rand.Rand, cfg Config) *Encounter {
	if fire == nil {
		fire = func(x, y, angle, speed float64) {}
	}
	e := &Encounter{
		body:   body,
		target: target,
		fire:   fire,
		rng:    rng,
		cfg:    cfg,
	}
	e.enter(PhaseIdle)
	return e
}

func (e *Encounter) Phase() Phase {
	return e.state.Phase()
}

// State returns a copy of the current phase data.
func (e *Encounter) State() State {
	return e.state
}

// Elapsed is the time spent in the current phase.
func (e *Encounter) Elapsed() time.Duration {
	return e.elapsed
}

func (e *Encounter) Rotation() float64 {
	return e.body.Rotation
}

func (e *Encounter) Config() Config {
	return e.cfg
}

// Flashing reports whether the warning tint is on this frame. It toggles
// during the telegraph and while stunned.
func (e *Encounter) Flashing() bool {
	var period time.Duration
	switch e.state.(type) {
	case RollTelegraph:
		period = e.cfg.TelegraphFlash
	case Stunned:
		period = e.cfg.StunFlash
	default:
		return false
	}
	if period <= 0 {
		return false
	}
	return (e.elapsed/period)%2 == 0
}

// WallHit ends a charge early. It is ignored outside Rolling.
func (e *Encounter) WallHit() {
	if _, ok := e.state.(Rolling); ok {
		e.enter(PhaseStunned)
	}
}

// Force jumps straight into p, running its entry actions.
func (e *Encounter) Force(p Phase) {
	e.enter(p)
}

// Step advances the current phase by dt and performs at most one transition.
func (e *Encounter) Step(dt time.Duration) {
	e.elapsed += dt
	next, changed := e.transition(dt)
	if changed {
		e.enter(next)
	}
}

// transition runs the per-frame behaviour of the current phase, storing its
// updated data, and reports the phase to enter next if it has finished.
func (e *Encounter) transition(dt time.Duration) (Phase, bool) {
	switch s := e.state.(type) {
	case Idle:
		e.moveToward(e.target.Position())
		s.Waited += dt
		e.state = s
		if s.Waited >= s.Cooldown {
			return attacks[e.rng.Intn(len(attacks))], true
		}
	case TripleShot:
		if e.elapsed >= e.cfg.TripleDelay {
			return PhaseIdle, true
		}
	case RollTelegraph:
		if e.elapsed >= e.cfg.TelegraphDuration {
			return PhaseRolling, true
		}
	case Rolling:
		if e.elapsed >= e.cfg.ChargeDuration {
			return PhaseStunned, true
		}
	case Stunned:
		if e.elapsed >= e.cfg.StunDuration {
			return PhaseIdle, true
		}
	case SpinAttack:
		e.state = e.spin(s)
		if e.elapsed >= e.cfg.SpinDuration {
			return PhaseIdle, true
		}
	}
	return 0, false
}

// enter resets the phase timer and performs the entry actions of p.
func (e *Encounter) enter(p Phase) {
	e.elapsed = 0
	switch p {
	case PhaseIdle:
		e.state = Idle{Cooldown: e.sampleCooldown()}
	case PhaseTripleShot:
		e.body.Stop()
		tx, ty := e.target.Position()
		aim := common.AngleBetween(e.body.X, e.body.Y, tx, ty)
		for i := -1; i <= 1; i++ {
			e.fire(e.body.X, e.body.Y, aim+float64(i)*e.cfg.TripleSpread, e.cfg.ProjectileSpeed)
		}
		e.state = TripleShot{}
	case PhaseRollTelegraph:
		e.body.Stop()
		tx, ty := e.target.Position()
		e.state = RollTelegraph{CommitX: tx, CommitY: ty}
	case PhaseRolling:
		var cx, cy float64
		if t, ok := e.state.(RollTelegraph); ok {
			cx, cy = t.CommitX, t.CommitY
		} else {
			cx, cy = e.target.Position()
		}
		bearing := common.AngleBetween(e.body.X, e.body.Y, cx, cy)
		e.body.VX, e.body.VY = common.Heading(bearing, e.cfg.ChargeSpeed)
		e.body.Rotation = bearing
		e.state = Rolling{CommitX: cx, CommitY: cy, Bearing: bearing}
	case PhaseStunned:
		e.body.Stop()
		e.state = Stunned{}
	case PhaseSpinAttack:
		e.body.Stop()
		e.state = SpinAttack{}
	}
}

// spin emits every projectile whose slot the current progress has passed.
// Slots are spaced by progress, so frame jitter never changes the count.
func (e *Encounter) spin(s SpinAttack) SpinAttack {
	total := e.cfg.SpinTotal()
	revs := float64(e.cfg.SpinRevolutions)
	progress := 1.0
	if e.cfg.SpinDuration > 0 {
		progress = float64(e.elapsed) / float64(e.cfg.SpinDuration)
	}
	s.Angle = progress * revs * 2 * math.Pi
	e.body.Rotation = s.Angle

	expected := min(int(math.Floor(progress*float64(total))), total)
	for s.Emitted < expected {
		angle := float64(s.Emitted) / float64(total) * revs * 2 * math.Pi
		e.fire(e.body.X, e.body.Y, angle, e.cfg.ProjectileSpeed)
		s.Emitted++
	}
	return s
}

func (e *Encounter) moveToward(tx, ty float64) {
	angle := common.AngleBetween(e.body.X, e.body.Y, tx, ty)
	e.body.VX, e.body.VY = common.Heading(angle, e.cfg.BaseSpeed)
	e.body.Rotation = angle
}

// sampleCooldown draws uniformly from [CooldownMin, CooldownMax] in whole
// milliseconds, both ends included.
func (e *Encounter) sampleCooldown() time.Duration {
	lo, hi := e.cfg.CooldownMin, e.cfg.CooldownMax
	if hi <= lo {
		return lo
	}
	steps := int64((hi-lo)/time.Millisecond) + 1
	return lo + time.Duration(e.rng.Int63n(steps))*time.Millisecond
}
