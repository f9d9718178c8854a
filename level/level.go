package level

import (
	"math"
	"time"

	"github.com/milk9111/castlechase/ecs"
)

// Movement and body sizes shared by both stages.
const (
	PlayerSpeed    = 160.0
	PlayerRadius   = 14.0
	KnightRadius   = 13.0
	KeyRadius      = 16.0
	DragonRadius   = 24.0
	FireballRadius = 8.0
	BombRadius     = 12.0
)

// Outcome is how a stage ended.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeCaught
	OutcomeEnterCastle
	OutcomeVictory
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCaught:
		return "caught"
	case OutcomeEnterCastle:
		return "enter_castle"
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return "none"
	}
}

// Stage is a running level that the game loop steps and draws.
type Stage interface {
	Update(dt time.Duration)
	Steer(dx, dy float64)
	Outcome() Outcome
	Score() int
	World() *ecs.World
}

// SpeedRamp picks the speed of each newly spawned knight.
type SpeedRamp interface {
	Speed(base, limit float64, elapsed time.Duration, spawned int) (float64, error)
}

// steer sets k's velocity from an input direction. Diagonals are normalised
// and the body turns to face the way it moves.
func steer(k *ecs.Kinematic, dx, dy, speed float64) {
	length := math.Hypot(dx, dy)
	if length == 0 {
		k.Stop()
		return
	}
	dx /= length
	dy /= length
	k.SetVelocity(dx*speed, dy*speed)
	k.Rotation = math.Atan2(dy, dx)
}
