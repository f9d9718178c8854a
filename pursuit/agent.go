package pursuit

import (
	"time"

	"github.com/milk9111/castlechase/common"
	"github.com/milk9111/castlechase/ecs"
	"github.com/milk9111/castlechase/pathfind"
)

// DefaultReplanInterval is how often an agent asks for a fresh path.
const DefaultReplanInterval = 500 * time.Millisecond

// arrivalRadius is the distance at which a waypoint counts as reached.
const arrivalRadius = common.TileSize / 2.0

// Target is anything the agent can chase.
type Target interface {
	Position() (x, y float64)
}

// Requester is the part of the planner an agent needs.
type Requester interface {
	FindPathFunc(fromX, fromY, toX, toY float64, cb pathfind.Callback) pathfind.RequestID
}

// Agent steers one chasing entity. It writes velocity and rotation into the
// entity's Kinematic each Step; moving the body is left to physics.
type Agent struct {
	body    *ecs.Kinematic
	target  Target
	planner Requester
	speed   float64

	interval time.Duration
	timer    time.Duration

	path  []pathfind.Waypoint
	index int

	latest pathfind.RequestID
}

type Option func(*Agent)

// WithReplanInterval overrides DefaultReplanInterval.
func WithReplanInterval(d time.Duration) Option {
	return func(a *Agent) {
		if d > 0 {
			a.interval = d
		}
	}
}

// New builds an agent and immediately requests its first path.
func New(body *ecs.Kinematic, target Target, planner Requester, speed float64, opts ...Option) *Agent {
	a := &Agent{
		body:     body,
		target:   target,
		planner:  planner,
		speed:    speed,
		interval: DefaultReplanInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.requestPath()
	return a
}

func (a *Agent) SetSpeed(v float64) {
	a.speed = v
}

func (a *Agent) Speed() float64 {
	return a.speed
}

// Path returns the waypoints not yet reached.
func (a *Agent) Path() []pathfind.Waypoint {
	if a.index >= len(a.path) {
		return nil
	}
	out := make([]pathfind.Waypoint, len(a.path)-a.index)
	copy(out, a.path[a.index:])
	return out
}

// Step advances the replan timer and sets the body's velocity for this frame.
func (a *Agent) Step(dt time.Duration) {
	a.timer += dt
	if a.timer >= a.interval {
		a.timer = 0
		a.requestPath()
	}

	if a.index < len(a.path) {
		wp := a.path[a.index]
		if common.Distance(a.body.X, a.body.Y, wp.X, wp.Y) < arrivalRadius {
			a.index++
			if a.index >= len(a.path) {
				a.directChase()
				return
			}
		}
		// a reached waypoint still sets this frame's heading; the next one
		// takes over on the following step
		a.moveToward(wp.X, wp.Y)
		return
	}
	a.directChase()
}

func (a *Agent) requestPath() {
	tx, ty := a.target.Position()
	a.latest = a.planner.FindPathFunc(a.body.X, a.body.Y, tx, ty, a.onPath)
}

// onPath adopts a result only when it answers the newest request. A nil path
// keeps whatever the agent is currently following.
func (a *Agent) onPath(id pathfind.RequestID, path []pathfind.Waypoint) {
	if id != a.latest || path == nil {
		return
	}
	a.path = path
	a.index = 0
}

func (a *Agent) directChase() {
	tx, ty := a.target.Position()
	a.moveToward(tx, ty)
}

func (a *Agent) moveToward(tx, ty float64) {
	angle := common.AngleBetween(a.body.X, a.body.Y, tx, ty)
	a.body.VX, a.body.VY = common.Heading(angle, a.speed)
	a.body.Rotation = angle
}
