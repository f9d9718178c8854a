package mapgen

import (
	"math/rand"

	"github.com/milk9111/castlechase/grid"
)

// Defaults mirror the tuned constants of the overworld.
const (
	DefaultCastleWidth     = 7
	DefaultCastleHeight    = 7
	DefaultCastleMargin    = 3
	DefaultCastleBuffer    = 2
	DefaultClearRadius     = 5
	DefaultKeyMinFromSpawn = 12
	DefaultKeyMinBetween   = 8
	DefaultTreeShare       = 0.6

	gateWidth       = 3
	drawbridgeDepth = 2
)

// Options tunes the placement constraints of a Generator.
type Options struct {
	CastleWidth     int
	CastleHeight    int
	CastleMargin    int
	CastleBuffer    int
	ClearRadius     int
	KeyMinFromSpawn int
	KeyMinBetween   int
	TreeShare       float64
}

func DefaultOptions() Options {
	return Options{
		CastleWidth:     DefaultCastleWidth,
		CastleHeight:    DefaultCastleHeight,
		CastleMargin:    DefaultCastleMargin,
		CastleBuffer:    DefaultCastleBuffer,
		ClearRadius:     DefaultClearRadius,
		KeyMinFromSpawn: DefaultKeyMinFromSpawn,
		KeyMinBetween:   DefaultKeyMinBetween,
		TreeShare:       DefaultTreeShare,
	}
}

type Option func(*Options)

func WithClearRadius(r int) Option {
	return func(o *Options) { o.ClearRadius = r }
}

func WithKeySpacing(fromSpawn, between int) Option {
	return func(o *Options) {
		o.KeyMinFromSpawn = fromSpawn
		o.KeyMinBetween = between
	}
}

func WithCastle(width, height, margin, buffer int) Option {
	return func(o *Options) {
		o.CastleWidth = width
		o.CastleHeight = height
		o.CastleMargin = margin
		o.CastleBuffer = buffer
	}
}

// MinMapSize is the smallest map that fits the castle, its margin and the
// border ring on both axes.
func MinMapSize(o Options) int {
	return 2*o.CastleMargin + max(o.CastleWidth, o.CastleHeight) + 2
}

// Generator builds overworld maps. All randomness is drawn from the injected
// source, so a fixed seed reproduces the same map.
type Generator struct {
	rng  *rand.Rand
	opts Options
}

func New(rng *rand.Rand, opts ...Option) *Generator {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Generator{rng: rng, opts: o}
}

func (g *Generator) Options() Options {
	return g.opts
}

// Generate builds a size×size map around spawn. Inputs are assumed to be
// validated by the caller; see config.Difficulty.Validate.
func (g *Generator) Generate(spawn grid.Coord, size int, density float64, keyCount int) *grid.Map {
	m := grid.NewMap(size)
	fillBorder(m)

	g.placeCastle(m, spawn)
	g.placeGate(m)
	g.clearCastleBuffer(m)
	g.scatterObstacles(m, spawn, density)
	m.Keys = g.placeKeys(m, spawn, keyCount)

	return m
}

func fillBorder(m *grid.Map) {
	size := m.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if row == 0 || col == 0 || row == size-1 || col == size-1 {
				m.Set(grid.Coord{Col: col, Row: row}, grid.Rock)
			}
		}
	}
}

// placeCastle picks the corner farthest from spawn. Corners are shuffled
// first so that equally distant corners are chosen at random.
func (g *Generator) placeCastle(m *grid.Map, spawn grid.Coord) {
	o := g.opts
	size := m.Size()
	corners := []grid.Coord{
		{Col: o.CastleMargin, Row: o.CastleMargin},
		{Col: size - o.CastleWidth - o.CastleMargin, Row: o.CastleMargin},
		{Col: o.CastleMargin, Row: size - o.CastleHeight - o.CastleMargin},
		{Col: size - o.CastleWidth - o.CastleMargin, Row: size - o.CastleHeight - o.CastleMargin},
	}
	g.rng.Shuffle(len(corners), func(i, j int) {
		corners[i], corners[j] = corners[j], corners[i]
	})

	best := corners[0]
	bestDist := 0.0
	for _, c := range corners {
		cx := float64(c.Col) + float64(o.CastleWidth)/2
		cy := float64(c.Row) + float64(o.CastleHeight)/2
		d := absf(cx-float64(spawn.Col)) + absf(cy-float64(spawn.Row))
		if d > bestDist {
			bestDist = d
			best = c
		}
	}

	castle := grid.Rect{Col: best.Col, Row: best.Row, Width: o.CastleWidth, Height: o.CastleHeight}
	m.Castle = castle
	for row := castle.Row; row <= castle.Bottom(); row++ {
		for col := castle.Col; col <= castle.Right(); col++ {
			kind := grid.CastleRoof
			if row == castle.Row || row == castle.Bottom() || col == castle.Col || col == castle.Right() {
				kind = grid.CastleWall
			}
			m.Set(grid.Coord{Col: col, Row: row}, kind)
		}
	}
	for _, c := range []grid.Coord{
		{Col: castle.Col, Row: castle.Row},
		{Col: castle.Right(), Row: castle.Row},
		{Col: castle.Col, Row: castle.Bottom()},
		{Col: castle.Right(), Row: castle.Bottom()},
	} {
		m.Set(c, grid.Turret)
	}
}

// gateFace returns the castle face closest to the map centre line. Ties
// resolve left, right, top, bottom.
func gateFace(castle grid.Rect, size int) grid.Face {
	center := size / 2
	dists := [...]int{
		grid.FaceLeft:   iabs(castle.Col - center),
		grid.FaceRight:  iabs(castle.Right() - center),
		grid.FaceTop:    iabs(castle.Row - center),
		grid.FaceBottom: iabs(castle.Bottom() - center),
	}
	best := grid.FaceLeft
	for f := grid.FaceRight; f <= grid.FaceBottom; f++ {
		if dists[f] < dists[best] {
			best = f
		}
	}
	return best
}

func (g *Generator) placeGate(m *grid.Map) {
	castle := m.Castle
	face := gateFace(castle, m.Size())
	midCol := castle.Col + castle.Width/2
	midRow := castle.Row + castle.Height/2

	gate := make([]grid.Coord, 0, gateWidth)
	for i := -(gateWidth / 2); i <= gateWidth/2; i++ {
		switch face {
		case grid.FaceLeft:
			gate = append(gate, grid.Coord{Col: castle.Col, Row: midRow + i})
		case grid.FaceRight:
			gate = append(gate, grid.Coord{Col: castle.Right(), Row: midRow + i})
		case grid.FaceTop:
			gate = append(gate, grid.Coord{Col: midCol + i, Row: castle.Row})
		default:
			gate = append(gate, grid.Coord{Col: midCol + i, Row: castle.Bottom()})
		}
	}
	for _, c := range gate {
		m.Set(c, grid.Gate)
	}

	dc, dr := face.Normal()
	bridge := make([]grid.Coord, 0, gateWidth*drawbridgeDepth)
	for depth := 1; depth <= drawbridgeDepth; depth++ {
		for _, c := range gate {
			b := c.Add(dc*depth, dr*depth)
			if !m.In(b) {
				continue
			}
			m.Set(b, grid.Drawbridge)
			bridge = append(bridge, b)
		}
	}

	m.GateFace = face
	m.Gate = gate
	m.Drawbridge = bridge
}

// clearCastleBuffer turns trees around the castle back into grass. Rocks,
// gate and drawbridge tiles are kept.
func (g *Generator) clearCastleBuffer(m *grid.Map) {
	zone := m.Castle.Grow(g.opts.CastleBuffer)
	for row := zone.Row; row <= zone.Bottom(); row++ {
		for col := zone.Col; col <= zone.Right(); col++ {
			c := grid.Coord{Col: col, Row: row}
			if m.Castle.Contains(c) {
				continue
			}
			if m.At(c) == grid.Tree {
				m.Set(c, grid.Grass)
			}
		}
	}
}

func (g *Generator) scatterObstacles(m *grid.Map, spawn grid.Coord, density float64) {
	size := m.Size()
	for row := 1; row < size-1; row++ {
		for col := 1; col < size-1; col++ {
			c := grid.Coord{Col: col, Row: row}
			if c.Chebyshev(spawn) <= g.opts.ClearRadius {
				continue
			}
			if m.At(c) != grid.Grass {
				continue
			}
			if m.At(c.Add(0, -1)) != grid.Grass || m.At(c.Add(0, 1)) != grid.Grass ||
				m.At(c.Add(-1, 0)) != grid.Grass || m.At(c.Add(1, 0)) != grid.Grass {
				continue
			}
			if g.rng.Float64() < density {
				kind := grid.Rock
				if g.rng.Float64() < g.opts.TreeShare {
					kind = grid.Tree
				}
				m.Set(c, kind)
			}
		}
	}
}

// placeKeys may return fewer than keyCount sites when the eligible space is
// exhausted; callers handle the short list.
func (g *Generator) placeKeys(m *grid.Map, spawn grid.Coord, keyCount int) []grid.Coord {
	size := m.Size()
	eligible := make([]grid.Coord, 0, size*size/2)
	for row := 1; row < size-1; row++ {
		for col := 1; col < size-1; col++ {
			c := grid.Coord{Col: col, Row: row}
			if m.At(c) != grid.Grass || m.Castle.Contains(c) {
				continue
			}
			if c.Manhattan(spawn) < g.opts.KeyMinFromSpawn {
				continue
			}
			eligible = append(eligible, c)
		}
	}
	g.rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	keys := make([]grid.Coord, 0, max(keyCount, 0))
	for _, c := range eligible {
		if len(keys) >= keyCount {
			break
		}
		tooClose := false
		for _, k := range keys {
			if k.Manhattan(c) < g.opts.KeyMinBetween {
				tooClose = true
				break
			}
		}
		if !tooClose {
			keys = append(keys, c)
		}
	}
	return keys
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func iabs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
