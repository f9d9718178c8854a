package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir is the on-disk directory whose files override the embedded defaults.
const Dir = "config"

//go:embed *.yaml
var TablesFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Load returns the named config file, preferring a copy under Dir.
func Load(name string) ([]byte, error) {
	clean := cleanPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return TablesFS.ReadFile(clean)
}

// LoadScript returns the named script, preferring a copy under Dir/scripts.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func cleanPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, Dir+"/"); ok {
		return after
	}
	return s
}

func cleanScriptPath(path string) string {
	s := cleanPath(path)
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	return fmt.Sprintf("scripts/%s", s)
}

func diskPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
