package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const defaultRuntimeDir = ".tuskswarm"

// GetRuntimePath resolves the directory holding .env, the journal and the log file.
// SWARM_RUNTIME_PATH may be absolute, start with ~/, or be relative to the home directory.
func GetRuntimePath() string {
	path := strings.TrimSpace(os.Getenv("SWARM_RUNTIME_PATH"))
	if path == "" {
		path = defaultRuntimeDir
	}
	if filepath.IsAbs(path) {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// No home (some containers): keep the runtime next to the working directory.
		return path
	}
	path = strings.TrimPrefix(path, "~"+string(filepath.Separator))
	return filepath.Join(home, path)
}

// IsDebug reports whether SWARM_DEBUG is set to a true value (1, t, true...).
func IsDebug() bool {
	on, _ := strconv.ParseBool(os.Getenv("SWARM_DEBUG"))
	return on
}
