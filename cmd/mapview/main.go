package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/milk9111/castlechase/grid"
	"github.com/milk9111/castlechase/mapgen"
	"github.com/milk9111/castlechase/pathfind"
)

type params struct {
	size    int
	density float64
	keys    int
	seed    int64
	opts    []mapgen.Option
}

func (p params) spawn() grid.Coord {
	return grid.Coord{Col: p.size / 2, Row: p.size / 2}
}

func (p params) generate() *grid.Map {
	return mapgen.New(rand.New(rand.NewSource(p.seed)), p.opts...).Generate(p.spawn(), p.size, p.density, p.keys)
}

var errUnreachable = errors.New("drawbridge unreachable from spawn")

// bridgePath searches from spawn to the outermost drawbridge tile, the spot
// every run has to reach before the gate matters.
func bridgePath(m *grid.Map, spawn grid.Coord) ([]pathfind.Waypoint, error) {
	if len(m.Drawbridge) == 0 {
		return nil, errUnreachable
	}
	p := pathfind.New()
	p.SetGrid(m.Passability())
	sx, sy := grid.TileToWorld(spawn)
	gx, gy := grid.TileToWorld(m.Drawbridge[len(m.Drawbridge)-1])
	id := p.FindPath(sx, sy, gx, gy)
	for {
		p.Tick()
		if path, done := p.Result(id); done {
			if path == nil {
				return nil, errUnreachable
			}
			return path, nil
		}
	}
}

func main() {
	var p params
	flag.IntVar(&p.size, "size", 50, "map edge length in tiles")
	flag.Float64Var(&p.density, "density", 0.15, "obstacle density in [0, 1)")
	flag.IntVar(&p.keys, "keys", 5, "number of keys to place")
	flag.Int64Var(&p.seed, "seed", 1, "map seed")
	dump := flag.Bool("dump", false, "print the map and path length instead of opening a viewer")
	defaults := mapgen.DefaultOptions()
	clearRadius := flag.Int("clear", defaults.ClearRadius, "obstacle-free radius around spawn")
	keyGap := flag.Int("key-gap", defaults.KeyMinBetween, "minimum Manhattan distance between keys")
	flag.Parse()

	p.opts = []mapgen.Option{
		mapgen.WithClearRadius(*clearRadius),
		mapgen.WithKeySpacing(defaults.KeyMinFromSpawn, *keyGap),
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if minSize := mapgen.MinMapSize(defaults); p.size < minSize {
		log.Fatal().Int("size", p.size).Int("min", minSize).Msg("map too small")
	}
	if p.density < 0 || p.density >= 1 {
		log.Fatal().Float64("density", p.density).Msg("density outside [0, 1)")
	}

	if *dump {
		m := p.generate()
		fmt.Print(m.String())
		fmt.Printf("seed %d, keys %d/%d, gate %s\n", p.seed, len(m.Keys), p.keys, m.GateFace)
		path, err := bridgePath(m, p.spawn())
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("spawn to drawbridge: %d steps\n", len(path))
		return
	}

	if err := view(p); err != nil {
		log.Fatal().Err(err).Msg("mapview")
	}
}

var tileStyles = map[grid.TileKind]tcell.Style{
	grid.Grass:      tcell.StyleDefault.Foreground(tcell.NewHexColor(0x4a8c2a)),
	grid.Tree:       tcell.StyleDefault.Foreground(tcell.NewHexColor(0x2d6b1a)).Bold(true),
	grid.Rock:       tcell.StyleDefault.Foreground(tcell.NewHexColor(0x888888)),
	grid.CastleWall: tcell.StyleDefault.Foreground(tcell.NewHexColor(0x8a7d6b)),
	grid.CastleRoof: tcell.StyleDefault.Foreground(tcell.NewHexColor(0x7a4a3a)),
	grid.Turret:     tcell.StyleDefault.Foreground(tcell.NewHexColor(0x9a8d7b)).Bold(true),
	grid.Gate:       tcell.StyleDefault.Foreground(tcell.NewHexColor(0x5c4033)).Bold(true),
	grid.Drawbridge: tcell.StyleDefault.Foreground(tcell.NewHexColor(0x8b6914)),
}

var (
	keyStyle   = tcell.StyleDefault.Foreground(tcell.NewHexColor(0xffd700)).Bold(true)
	spawnStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	pathStyle  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

type viewer struct {
	screen   tcell.Screen
	params   params
	m        *grid.Map
	path     []pathfind.Waypoint
	showPath bool
	offX     int
	offY     int
}

func view(p params) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	v := &viewer{screen: screen, params: p, showPath: true}
	v.regenerate()
	for {
		v.draw()
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if !v.handleKey(ev) {
				return nil
			}
		}
	}
}

func (v *viewer) regenerate() {
	v.m = v.params.generate()
	v.path, _ = bridgePath(v.m, v.params.spawn())
}

// handleKey returns false when the viewer should exit.
func (v *viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		v.offX = max(v.offX-4, 0)
	case tcell.KeyRight:
		v.offX += 4
	case tcell.KeyUp:
		v.offY = max(v.offY-4, 0)
	case tcell.KeyDown:
		v.offY += 4
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'r':
			v.params.seed++
			v.regenerate()
		case 'R':
			v.params.seed--
			v.regenerate()
		case 'p':
			v.showPath = !v.showPath
		}
	}
	return true
}

func (v *viewer) put(c grid.Coord, r rune, style tcell.Style) {
	x, y := c.Col-v.offX, c.Row-v.offY
	if x < 0 || y < 0 {
		return
	}
	v.screen.SetContent(x, y, r, nil, style)
}

func (v *viewer) draw() {
	v.screen.Clear()
	size := v.m.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			c := grid.Coord{Col: col, Row: row}
			k := v.m.At(c)
			v.put(c, k.Rune(), tileStyles[k])
		}
	}
	if v.showPath {
		for _, wp := range v.path {
			v.put(grid.WorldToTile(wp.X, wp.Y), '*', pathStyle)
		}
	}
	for _, c := range v.m.Keys {
		v.put(c, 'K', keyStyle)
	}
	v.put(v.params.spawn(), '@', spawnStyle)

	status := fmt.Sprintf("seed %d  keys %d/%d  gate %s  path %d  [r/R] seed  [p] path  [arrows] scroll  [q] quit",
		v.params.seed, len(v.m.Keys), v.params.keys, v.m.GateFace, len(v.path))
	_, h := v.screen.Size()
	for i, r := range status {
		v.screen.SetContent(i, h-1, r, nil, tcell.StyleDefault.Reverse(true))
	}
	v.screen.Show()
}
