package utils

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// PathResolver locates data and config paths relative to the working
// directory first and the executable directory second, so both development
// checkouts and installed deployments find their files.
type PathResolver struct {
	workDir string
	execDir string
}

// NewPathResolver captures the current working and executable directories.
func NewPathResolver() (*PathResolver, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	execDir, err := GetExecutableDir()
	if err != nil {
		// working dir alone is enough for development use
		log.Debugf("executable dir unavailable: %v", err)
		execDir = workDir
	}
	return &PathResolver{workDir: workDir, execDir: execDir}, nil
}

// GetDataDir resolves the vocabulary data directory. Absolute paths are
// returned as-is; relative paths are tried against the working directory,
// then the executable directory. The directory does not have to exist:
// a missing data dir just means the engine starts empty.
func (pr *PathResolver) GetDataDir(preferred string) (string, error) {
	if preferred == "" {
		return "", errors.New("no data directory given")
	}
	if filepath.IsAbs(preferred) {
		return preferred, nil
	}
	candidate := filepath.Join(pr.workDir, preferred)
	if FileExists(candidate) {
		return candidate, nil
	}
	fallback := filepath.Join(pr.execDir, preferred)
	if FileExists(fallback) {
		return fallback, nil
	}
	return candidate, nil
}

// GetConfigPath resolves where the named config file lives, preferring an
// existing file next to the executable before the user config dir.
func (pr *PathResolver) GetConfigPath(name string) (string, error) {
	local := filepath.Join(pr.execDir, name)
	if FileExists(local) {
		return local, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return local, nil
	}
	return filepath.Join(configDir, "vocabserve", name), nil
}
