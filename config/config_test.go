package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestEmbeddedTable(t *testing.T) {
	table, err := LoadTable()
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	names := table.Names()
	if strings.Join(names, ",") != "easy,medium,hard" {
		t.Fatalf("Names = %v", names)
	}

	cases := []struct {
		name     string
		mapTiles int
		keys     int
		knights  int
		spinRevs int
		perRev   int
		stun     time.Duration
		cdMin    time.Duration
		cdMax    time.Duration
	}{
		{"easy", 40, 3, 5, 1, 8, 1500 * time.Millisecond, 3 * time.Second, 5 * time.Second},
		{"medium", 50, 5, 8, 2, 12, time.Second, 2 * time.Second, 3500 * time.Millisecond},
		{"hard", 60, 5, 12, 3, 16, 500 * time.Millisecond, 1200 * time.Millisecond, 2500 * time.Millisecond},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, err := table.Get(c.name)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if d.MapTiles != c.mapTiles || d.KeyCount != c.keys || d.MaxKnights != c.knights {
				t.Fatalf("overworld knobs = %+v", d)
			}
			if d.SpinRevolutions != c.spinRevs || d.SpinFireballsPerRev != c.perRev {
				t.Fatalf("spin knobs = %d x %d", d.SpinRevolutions, d.SpinFireballsPerRev)
			}
			if d.StunDuration != c.stun || d.AttackCooldownMin != c.cdMin || d.AttackCooldownMax != c.cdMax {
				t.Fatalf("boss timings = stun %v cooldown [%v, %v]", d.StunDuration, d.AttackCooldownMin, d.AttackCooldownMax)
			}
			if d.BombsToWin != 3 || d.BombSpawnInterval != 30*time.Second {
				t.Fatalf("bombs = %d every %v", d.BombsToWin, d.BombSpawnInterval)
			}
		})
	}
}

func TestGetDefaultAndUnknown(t *testing.T) {
	table, err := LoadTable()
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	d, err := table.Get("")
	if err != nil || d.MapTiles != 50 {
		t.Fatalf("default level = %+v, %v", d, err)
	}
	if _, err := table.Get("nightmare"); !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("Get(nightmare) err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	table, err := LoadTable()
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	base, _ := table.Get("medium")

	cases := []struct {
		name   string
		mutate func(d *Difficulty)
	}{
		{"map_too_small", func(d *Difficulty) { d.MapTiles = 14 }},
		{"negative_density", func(d *Difficulty) { d.ObstacleDensity = -0.1 }},
		{"density_one", func(d *Difficulty) { d.ObstacleDensity = 1 }},
		{"negative_keys", func(d *Difficulty) { d.KeyCount = -1 }},
		{"speed_range_inverted", func(d *Difficulty) { d.KnightSpeedMax = d.KnightSpeedBase - 1 }},
		{"cooldown_inverted", func(d *Difficulty) { d.AttackCooldownMin = d.AttackCooldownMax + time.Millisecond }},
		{"zero_revolutions", func(d *Difficulty) { d.SpinRevolutions = 0 }},
		{"zero_per_rev", func(d *Difficulty) { d.SpinFireballsPerRev = 0 }},
		{"zero_spin_duration", func(d *Difficulty) { d.SpinDuration = 0 }},
		{"zero_spawn_interval", func(d *Difficulty) { d.KnightSpawnInterval = 0 }},
		{"no_bombs", func(d *Difficulty) { d.BombsToWin = 0 }},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("medium should validate: %v", err)
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := base
			c.mutate(&d)
			if err := d.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate = %v, want ErrInvalid", err)
			}
		})
	}

	d := base
	d.MapTiles = 15
	if err := d.Validate(); err != nil {
		t.Fatalf("smallest map should validate: %v", err)
	}
}

func TestParseTableRejects(t *testing.T) {
	cases := []struct {
		name string
		data string
		want error
	}{
		{"no_levels", "default: easy\n", ErrInvalid},
		{"bad_default", "default: nope\nlevels:\n  easy: {map_tiles: 40, knight_spawn_interval: 1s, spin_duration: 1s, spin_revolutions: 1, spin_fireballs_per_rev: 1, bombs_to_win: 1, bomb_spawn_interval: 1s}\n", ErrUnknownDifficulty},
		{"invalid_level", "default: easy\nlevels:\n  easy: {map_tiles: 3}\n", ErrInvalid},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := ParseTable([]byte(c.data)); !errors.Is(err, c.want) {
				t.Fatalf("ParseTable err = %v, want %v", err, c.want)
			}
		})
	}
	if _, err := ParseTable([]byte("levels: [")); err == nil {
		t.Fatalf("malformed yaml accepted")
	}
}

func TestBossConfig(t *testing.T) {
	table, err := LoadTable()
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	d, _ := table.Get("hard")
	cfg := d.BossConfig()
	if cfg.SpinTotal() != 48 {
		t.Fatalf("SpinTotal = %d, want 48", cfg.SpinTotal())
	}
	if cfg.ProjectileSpeed != 260 || cfg.TelegraphDuration != 300*time.Millisecond {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.ChargeSpeed != 350 || cfg.BaseSpeed != 70 {
		t.Fatalf("fixed dragon tuning lost: %+v", cfg)
	}
}

func TestDefaultRamp(t *testing.T) {
	r, err := LoadRamp("")
	if err != nil {
		t.Fatalf("LoadRamp: %v", err)
	}
	cases := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 90},
		{30 * time.Second, 115},
		{60 * time.Second, 140},
		{5 * time.Minute, 140},
	}
	for _, c := range cases {
		got, err := r.Speed(90, 140, c.elapsed, 3)
		if err != nil {
			t.Fatalf("Speed(%v): %v", c.elapsed, err)
		}
		if got != c.want {
			t.Fatalf("Speed(%v) = %v, want %v", c.elapsed, got, c.want)
		}
	}
}

func TestRampScripts(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		want    float64
		wantErr bool
	}{
		{"clamped_high", "speed := max_speed * 10.0", 140, false},
		{"clamped_low", "speed := 0.0", 90, false},
		{"per_spawn", "speed := base_speed + spawned * 5", 105, false},
		{"missing_output", "x := 1", 90, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := NewRamp(c.name, []byte(c.src))
			if err != nil {
				t.Fatalf("NewRamp: %v", err)
			}
			got, err := r.Speed(90, 140, 0, 3)
			if (err != nil) != c.wantErr {
				t.Fatalf("Speed err = %v, wantErr %v", err, c.wantErr)
			}
			if got != c.want {
				t.Fatalf("Speed = %v, want %v", got, c.want)
			}
		})
	}

	if _, err := NewRamp("broken", []byte("speed := (")); err == nil {
		t.Fatalf("broken script compiled")
	}
}

func TestWatcherReportsTableAndScriptEdits(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "scripts"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	w, err := NewWatcher(zerolog.Nop(), dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	table := filepath.Join(dir, TableFile)
	script := filepath.Join(dir, "scripts", "ramp.tengo")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(table, []byte("default: easy\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.WriteFile(script, []byte("speed := base_speed\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := map[string]ChangeKind{}
	deadline := time.After(5 * time.Second)
	for len(got) < 2 {
		select {
		case c := <-w.Changes:
			got[c.Path] = c.Kind
		case <-deadline:
			t.Fatalf("changes = %v, want table and script", got)
		}
	}
	if got[table] != ChangeTable || got[script] != ChangeScript {
		t.Fatalf("changes = %v", got)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	for range w.Changes {
	}
}
