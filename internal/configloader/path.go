package configloader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfig names the environment variable that points at a config file.
const EnvConfig = "BOINCGEIST_CONFIG"

// SystemDir is the system-wide configuration directory.
var SystemDir = "/etc/boincgeist"

// ErrNoConfig is returned when no candidate config file exists.
var ErrNoConfig = errors.New("no config found")

// ResolveConfigPath returns the best config path for the given filename.
// It checks, in order:
// 1. $BOINCGEIST_CONFIG if set (absolute path)
// 2. ~/.boincgeist/<file>
// 3. /etc/boincgeist/<file>
func ResolveConfigPath(file string) (string, error) {
	if env := os.Getenv(EnvConfig); env != "" {
		return env, nil
	}
	if home, err := os.UserHomeDir(); err == nil {
		userPath := filepath.Join(home, ".boincgeist", file)
		if _, err := os.Stat(userPath); err == nil {
			return userPath, nil
		}
	}
	systemPath := filepath.Join(SystemDir, file)
	if _, err := os.Stat(systemPath); err == nil {
		return systemPath, nil
	}
	return "", fmt.Errorf("%w for %s", ErrNoConfig, file)
}
