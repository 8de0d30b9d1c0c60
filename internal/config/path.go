// Package config loads scanner settings from files, flags and the environment.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DataDir holds the history database and generated certificates by default.
const DataDir = "$HOME/.local/share/stars"

// ExpandPath resolves a leading ~ and any $VAR references in path.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return ""
	case path == "~":
		path = "$HOME"
	case strings.HasPrefix(path, "~/"):
		path = filepath.Join("$HOME", path[2:])
	}
	return os.ExpandEnv(path)
}
