package main

import (
	"flag"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/milk9111/castlechase/config"
)

func main() {
	difficulty := flag.String("difficulty", "", "difficulty level (default from difficulty.yaml)")
	seed := flag.Int64("seed", 0, "map seed; 0 picks one from the clock")
	debug := flag.Bool("debug", false, "enable debug mode")
	watch := flag.Bool("watch", false, "reload config/ from disk when it changes")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	table, err := config.LoadTable()
	if err != nil {
		log.Fatal().Err(err).Msg("load difficulty table")
	}

	game, err := NewGame(table, Options{
		Difficulty: *difficulty,
		Seed:       *seed,
		Debug:      *debug,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("start game")
	}

	if *watch {
		w, err := config.NewWatcher(log, config.Dir)
		if err != nil {
			log.Warn().Err(err).Msg("config watch disabled")
		} else {
			defer w.Close()
			game.Watch(w)
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("castlechase")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("run game")
	}
}
