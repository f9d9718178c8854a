package boss

import "time"

// Phase enumerates the dragon's behaviours.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseTripleShot
	PhaseRollTelegraph
	PhaseRolling
	PhaseStunned
	PhaseSpinAttack
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTripleShot:
		return "triple_shot"
	case PhaseRollTelegraph:
		return "roll_telegraph"
	case PhaseRolling:
		return "rolling"
	case PhaseStunned:
		return "stunned"
	case PhaseSpinAttack:
		return "spin_attack"
	default:
		return "unknown"
	}
}

// attacks are the phases Idle may pick from once its cooldown expires.
var attacks = [...]Phase{PhaseTripleShot, PhaseRollTelegraph, PhaseSpinAttack}

// State is the per-phase data of the encounter. Each phase carries only the
// fields it reads.
type State interface {
	Phase() Phase
}

// Idle walks toward the target until Waited reaches Cooldown.
type Idle struct {
	Cooldown time.Duration
	Waited   time.Duration
}

// TripleShot has fired its spread and waits out a short delay.
type TripleShot struct{}

// RollTelegraph holds still and flashes before charging at Commit.
type RollTelegraph struct {
	CommitX, CommitY float64
}

// Rolling charges along Bearing toward the point captured by the telegraph.
type Rolling struct {
	CommitX, CommitY float64
	Bearing          float64
}

// Stunned recovers after a wall hit or a finished charge.
type Stunned struct{}

// SpinAttack rotates in place, emitting projectiles evenly over its progress.
type SpinAttack struct {
	Angle   float64
	Emitted int
}

func (Idle) Phase() Phase          { return PhaseIdle }
func (TripleShot) Phase() Phase    { return PhaseTripleShot }
func (RollTelegraph) Phase() Phase { return PhaseRollTelegraph }
func (Rolling) Phase() Phase       { return PhaseRolling }
func (Stunned) Phase() Phase       { return PhaseStunned }
func (SpinAttack) Phase() Phase    { return PhaseSpinAttack }
