package pathfind

import (
	"github.com/google/uuid"

	"github.com/milk9111/castlechase/grid"
)

// DefaultBudget is the number of node expansions performed per Tick.
const DefaultBudget = 100

// RequestID keys a path request so callers can tell which query a result
// answers.
type RequestID = uuid.UUID

// Waypoint is a tile centre in world coordinates.
type Waypoint struct {
	X float64
	Y float64
}

// Callback receives the result of a request. A nil path means no usable
// path; the caller is expected to fall back to direct pursuit.
type Callback func(id RequestID, path []Waypoint)

type request struct {
	id     RequestID
	start  grid.Coord
	goal   grid.Coord
	cb     Callback
	search *search
}

// Planner answers point-to-point path queries cooperatively: FindPath only
// enqueues, and the search work is spread across Tick calls.
type Planner struct {
	grid    grid.Passability
	budget  int
	queue   []*request
	results map[RequestID][]Waypoint
}

type Option func(*Planner)

// WithBudget sets the node expansions performed per Tick.
func WithBudget(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.budget = n
		}
	}
}

func New(opts ...Option) *Planner {
	p := &Planner{
		budget:  DefaultBudget,
		results: make(map[RequestID][]Waypoint),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetGrid replaces the search grid. Requests already being searched keep the
// grid they started on.
func (p *Planner) SetGrid(g grid.Passability) {
	p.grid = g
}

// FindPath enqueues a query; poll the outcome with Result.
func (p *Planner) FindPath(fromX, fromY, toX, toY float64) RequestID {
	return p.enqueue(fromX, fromY, toX, toY, nil)
}

// FindPathFunc enqueues a query whose outcome is delivered to cb from within
// a later Tick.
func (p *Planner) FindPathFunc(fromX, fromY, toX, toY float64, cb Callback) RequestID {
	return p.enqueue(fromX, fromY, toX, toY, cb)
}

func (p *Planner) enqueue(fromX, fromY, toX, toY float64, cb Callback) RequestID {
	r := &request{
		id:    uuid.New(),
		start: grid.WorldToTile(fromX, fromY),
		goal:  grid.WorldToTile(toX, toY),
		cb:    cb,
	}
	p.queue = append(p.queue, r)
	return r.id
}

// Result returns the path of a polled request once it has resolved. The
// entry is consumed by the read.
func (p *Planner) Result(id RequestID) (path []Waypoint, done bool) {
	path, done = p.results[id]
	if done {
		delete(p.results, id)
	}
	return path, done
}

// Pending reports how many requests are still queued.
func (p *Planner) Pending() int {
	return len(p.queue)
}

// Tick performs up to the configured number of node expansions across the
// queued requests in arrival order.
func (p *Planner) Tick() {
	remaining := p.budget
	for len(p.queue) > 0 {
		r := p.queue[0]
		if r.search == nil {
			if !p.searchable(r) {
				p.resolve(r, nil)
				continue
			}
			r.search = newSearch(p.grid, r.start, r.goal)
		}
		if remaining <= 0 {
			return
		}

		used, done, tiles := r.search.step(remaining)
		remaining -= used
		if !done {
			return
		}
		p.resolve(r, toWaypoints(tiles))
	}
}

func (p *Planner) searchable(r *request) bool {
	if !p.grid.In(r.start) || !p.grid.In(r.goal) {
		return false
	}
	if r.start == r.goal {
		return false
	}
	return p.grid.Open(r.goal)
}

func (p *Planner) resolve(r *request, path []Waypoint) {
	p.queue[0] = nil
	p.queue = p.queue[1:]
	if r.cb != nil {
		r.cb(r.id, path)
		return
	}
	p.results[r.id] = path
}

// toWaypoints drops the origin tile and converts the rest to world space.
// Paths shorter than two tiles carry no movement and yield nil.
func toWaypoints(tiles []grid.Coord) []Waypoint {
	if len(tiles) < 2 {
		return nil
	}
	out := make([]Waypoint, 0, len(tiles)-1)
	for _, t := range tiles[1:] {
		x, y := grid.TileToWorld(t)
		out = append(out, Waypoint{X: x, Y: y})
	}
	return out
}
