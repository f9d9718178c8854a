package config

import (
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/castlechase/common"
)

// DefaultRampScript is used when a level names no ramp script.
const DefaultRampScript = "ramp.tengo"

// Ramp evaluates a knight speed script. The script reads base_speed,
// max_speed, elapsed (seconds) and spawned, and must define speed.
type Ramp struct {
	name     string
	compiled *tengo.Compiled
}

// LoadRamp compiles the named script from Dir/scripts or the embedded set.
func LoadRamp(name string) (*Ramp, error) {
	if name == "" {
		name = DefaultRampScript
	}
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("config: load ramp %s: %w", name, err)
	}
	r, err := NewRamp(name, src)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// NewRamp compiles src.
func NewRamp(name string, src []byte) (*Ramp, error) {
	script := tengo.NewScript(src)
	_ = script.Add("base_speed", 0.0)
	_ = script.Add("max_speed", 0.0)
	_ = script.Add("elapsed", 0.0)
	_ = script.Add("spawned", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("config: compile ramp %s: %w", name, err)
	}
	return &Ramp{name: name, compiled: compiled}, nil
}

// Speed runs the script and clamps its result to [base, limit].
func (r *Ramp) Speed(base, limit float64, elapsed time.Duration, spawned int) (float64, error) {
	if r == nil || r.compiled == nil {
		return base, nil
	}
	if err := r.compiled.Set("base_speed", base); err != nil {
		return base, err
	}
	if err := r.compiled.Set("max_speed", limit); err != nil {
		return base, err
	}
	if err := r.compiled.Set("elapsed", elapsed.Seconds()); err != nil {
		return base, err
	}
	if err := r.compiled.Set("spawned", spawned); err != nil {
		return base, err
	}
	if err := r.compiled.Run(); err != nil {
		return base, fmt.Errorf("config: run ramp %s: %w", r.name, err)
	}
	if !r.compiled.IsDefined("speed") {
		return base, fmt.Errorf("config: ramp %s does not define speed", r.name)
	}
	return common.Clamp(r.compiled.Get("speed").Float(), base, limit), nil
}
