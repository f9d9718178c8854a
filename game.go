package main

import (
	"strconv"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"golang.design/x/clipboard"

	"github.com/milk9111/castlechase/boss"
	"github.com/milk9111/castlechase/config"
	"github.com/milk9111/castlechase/level"
)

const (
	screenWidth  = 960
	screenHeight = 640
)

type scene uint8

const (
	sceneMenu scene = iota
	sceneOverworld
	sceneBoss
	sceneGameOver
)

func (s scene) String() string {
	switch s {
	case sceneOverworld:
		return "overworld"
	case sceneBoss:
		return "boss"
	case sceneGameOver:
		return "game_over"
	default:
		return "menu"
	}
}

// Options are the command-line choices that shape a run.
type Options struct {
	Difficulty string
	Seed       int64
	Debug      bool
}

type result struct {
	victory bool
	score   int
}

type Game struct {
	log   zerolog.Logger
	opts  Options
	table config.Table

	input   *Input
	camera  *Camera
	menu    *ebitenui.UI
	pause   *ebitenui.UI
	paused  bool
	overlay bool
	watcher *config.Watcher

	scene     scene
	diff      config.Difficulty
	seed      int64
	overworld *level.Overworld
	arena     *level.Arena
	result    result

	clipboardOK bool
}

func NewGame(table config.Table, opts Options, log zerolog.Logger) (*Game, error) {
	if opts.Difficulty != "" {
		if _, err := table.Get(opts.Difficulty); err != nil {
			return nil, err
		}
	}
	g := &Game{
		log:     log,
		opts:    opts,
		table:   table,
		input:   NewInput(),
		camera:  NewCamera(screenWidth, screenHeight),
		overlay: opts.Debug,
	}
	g.menu = NewMenuUI(g, table.Names())
	g.pause = NewPauseUI(g)

	if opts.Debug {
		if err := clipboard.Init(); err != nil {
			log.Warn().Err(err).Msg("clipboard unavailable")
		} else {
			g.clipboardOK = true
		}
	}

	// a difficulty on the command line skips the menu
	if opts.Difficulty != "" {
		g.startRun(opts.Difficulty)
	}
	return g, nil
}

// Watch reloads the difficulty table whenever w reports an edit. The new
// table applies from the next run.
func (g *Game) Watch(w *config.Watcher) {
	g.watcher = w
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case c, ok := <-g.watcher.Changes:
			if !ok {
				g.watcher = nil
				return
			}
			switch c.Kind {
			case config.ChangeTable:
				g.reloadTable(c.Path)
			case config.ChangeScript:
				// ramps are loaded per run
				g.log.Info().Str("file", c.Path).Msg("speed ramp changed, applies from the next run")
			}
		default:
			return
		}
	}
}

func (g *Game) reloadTable(changed string) {
	table, err := config.LoadTable()
	if err != nil {
		g.log.Warn().Err(err).Str("file", changed).Msg("config reload rejected, keeping previous table")
		return
	}
	g.table = table
	g.menu = NewMenuUI(g, table.Names())
	g.log.Info().Str("file", changed).Msg("config reloaded")
}

func dt() time.Duration {
	return time.Second / time.Duration(ebiten.TPS())
}

// startRun builds a fresh overworld for the named difficulty.
func (g *Game) startRun(name string) {
	diff, err := g.table.Get(name)
	if err != nil {
		g.log.Error().Err(err).Msg("start run")
		return
	}

	var ramp level.SpeedRamp
	if r, err := config.LoadRamp(diff.KnightSpeedRamp); err != nil {
		g.log.Warn().Err(err).Msg("knight speed ramp unavailable, using base speed")
	} else {
		ramp = r
	}

	seed := g.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	o, err := level.NewOverworld(diff, ramp, seed, g.log)
	if err != nil {
		g.log.Error().Err(err).Msg("start run")
		return
	}

	g.diff, g.seed = diff, seed
	g.overworld, g.arena = o, nil
	size, _ := o.Space().Bounds()
	g.camera.SetWorldBounds(size, size)
	g.camera.SnapTo(o.Player().Position())
	g.setScene(sceneOverworld)
}

func (g *Game) enterArena(score int) {
	a, err := level.NewArena(g.diff, g.seed+1, score, g.log)
	if err != nil {
		g.log.Error().Err(err).Msg("enter arena")
		g.gameOver(false, score)
		return
	}
	g.arena = a
	g.overworld = nil
	g.setScene(sceneBoss)
}

func (g *Game) gameOver(victory bool, score int) {
	g.result = result{victory: victory, score: score}
	g.overworld, g.arena = nil, nil
	g.setScene(sceneGameOver)
}

func (g *Game) toMenu() {
	g.overworld, g.arena = nil, nil
	g.setScene(sceneMenu)
}

func (g *Game) setScene(s scene) {
	g.log.Debug().Stringer("from", g.scene).Stringer("to", s).Msg("scene change")
	g.scene = s
}

func (g *Game) Update() error {
	g.input.Update()
	g.pollWatcher()

	if g.opts.Debug && g.input.OverlayPressed {
		g.overlay = !g.overlay
	}

	switch g.scene {
	case sceneMenu:
		g.menu.Update()
		if g.input.ConfirmPressed {
			g.startRun(g.table.Default)
		}
	case sceneOverworld, sceneBoss:
		if g.input.PausePressed {
			g.paused = !g.paused
		}
		if g.paused {
			g.pause.Update()
			return nil
		}
		g.updatePlay()
	case sceneGameOver:
		if g.input.ConfirmPressed {
			g.toMenu()
		}
	}
	return nil
}

// stage returns the level behind the current play scene.
func (g *Game) stage() level.Stage {
	if g.scene == sceneBoss {
		return g.arena
	}
	return g.overworld
}

func (g *Game) updatePlay() {
	if g.scene == sceneBoss && g.opts.Debug && g.input.ForcePhase > 0 {
		g.arena.Encounter().Force(boss.Phase(g.input.ForcePhase - 1))
	}
	if g.scene == sceneOverworld && g.opts.Debug && g.input.CopySeedPressed {
		g.copySeed()
	}

	st := g.stage()
	st.Steer(g.input.MoveX, g.input.MoveY)
	st.Update(dt())

	switch st.Outcome() {
	case level.OutcomeNone:
		if g.scene == sceneOverworld {
			g.camera.Update(g.overworld.Player().Position())
		}
	case level.OutcomeCaught, level.OutcomeDefeat:
		g.gameOver(false, st.Score())
	case level.OutcomeEnterCastle:
		g.enterArena(st.Score())
	case level.OutcomeVictory:
		g.gameOver(true, st.Score())
	}
}

func (g *Game) copySeed() {
	if !g.clipboardOK {
		g.log.Warn().Int64("seed", g.seed).Msg("clipboard unavailable, seed not copied")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(strconv.FormatInt(g.seed, 10)))
	g.log.Info().Int64("seed", g.seed).Msg("seed copied to clipboard")
}

func (g *Game) Draw(screen *ebiten.Image) {
	switch g.scene {
	case sceneMenu:
		g.menu.Draw(screen)
	case sceneOverworld:
		drawOverworld(screen, g.overworld, g.camera, g.overlay)
	case sceneBoss:
		drawArena(screen, g.arena, g.overlay)
	case sceneGameOver:
		drawGameOver(screen, g.result)
	}
	if g.paused && (g.scene == sceneOverworld || g.scene == sceneBoss) {
		g.pause.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return screenWidth, screenHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
