// Package storage keeps a persistent log of games, their moves and results.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessrules"

// homeData lists, per OS, where per-user application data lives below the
// home directory when no environment variable names the place.
var homeData = map[string][]string{
	"darwin":  {"Library", "Application Support"},
	"windows": {"AppData", "Roaming"},
}

// dataRoot returns the per-user base directory for application data:
// %APPDATA% on Windows, $XDG_DATA_HOME on other Unix systems, else a
// location below the home directory.
func dataRoot() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
	case "darwin":
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	rel, ok := homeData[runtime.GOOS]
	if !ok {
		rel = []string{".local", "share"}
	}
	return filepath.Join(append([]string{home}, rel...)...), nil
}

// DataDir returns the application's data directory, creating it if needed.
func DataDir() (string, error) {
	root, err := dataRoot()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(root, appName))
}

// MoveLogDir returns the directory Open uses when none is configured.
func MoveLogDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return ensureDir(filepath.Join(dir, "moves"))
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
