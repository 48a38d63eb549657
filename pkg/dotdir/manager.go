// Package dotdir manages the .reels/ and ~/.reels directories.
//
// The dotdir holds the persistent reels configuration (config.toml). A local
// ./.reels/ directory takes precedence over the home directory one so a
// workshop checkout can carry its own agent target and question script.
package dotdir

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the reels directory.
	dirName = ".reels"

	// logName is the debug log file kept inside the reels directory.
	logName = "reels.log"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .reels/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.reels/ dir
//  3. Home ~/.reels/ dir
//  4. If none found, attempt to create ~/.reels/ dir
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reels directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// LogSink opens reels.log in the resolved .reels/ directory for appending,
// creating it on first use. Debug runs copy their structured log records
// there. The file stays open for the life of the process.
func (m *Manager) LogSink(overrideDir string) (io.Writer, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}

	return os.OpenFile(filepath.Join(dir, logName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
}

// localDirExists checks whether a .reels/ directory exists in the current
// working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
