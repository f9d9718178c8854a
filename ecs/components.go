package ecs

import "time"

// Kinematic is the position/velocity record shared between controllers,
// physics and rendering. Controllers write velocity and rotation; physics
// writes position back after each step.
type Kinematic struct {
	X, Y     float64
	VX, VY   float64
	Rotation float64
}

// SetVelocity writes both velocity components.
func (k *Kinematic) SetVelocity(vx, vy float64) {
	k.VX = vx
	k.VY = vy
}

// Stop zeroes the velocity.
func (k *Kinematic) Stop() {
	k.VX = 0
	k.VY = 0
}

// Position returns the current position. It lets a Kinematic act as a
// chase target.
func (k *Kinematic) Position() (float64, float64) {
	return k.X, k.Y
}

// Kind tags what an entity is for collision routing and rendering.
type Kind uint8

const (
	KindNone Kind = iota
	KindPlayer
	KindKnight
	KindDragon
	KindFireball
	KindKey
	KindBomb
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindKnight:
		return "knight"
	case KindDragon:
		return "dragon"
	case KindFireball:
		return "fireball"
	case KindKey:
		return "key"
	case KindBomb:
		return "bomb"
	default:
		return "none"
	}
}

// Controller drives an entity's Kinematic once per frame.
type Controller interface {
	Step(dt time.Duration)
}
