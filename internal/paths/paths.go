// Package paths resolves filesystem locations for ezdev.
//
// Global configuration lives under the XDG config home (wrapping
// github.com/adrg/xdg for cross-platform compliance); everything else
// is resolved relative to the project directory.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/ezpy/ezdev/internal/errors"
)

// Well-known file names inside a project directory.
const (
	// UserDataFile is the JSON record holding the operator's personal info.
	UserDataFile = "user.data.json"

	// ManifestFile is the optional per-project task manifest.
	ManifestFile = "ezdev.toml"

	// EnvFile is the optional environment file sourced before config rendering.
	EnvFile = ".env"

	// DockerfileName is the generated container build recipe.
	DockerfileName = "Dockerfile"
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// ConfigHome returns the base directory for ezdev's global configuration,
// typically ~/.config on Linux and macOS.
func ConfigHome() string {
	return xdg.ConfigHome
}

// GlobalConfigDir returns the directory holding ezdev's own config file.
func GlobalConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "ezdev")
}

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if path == "" {
		return errors.New("empty directory path")
	}
	if perm == 0 {
		perm = DefaultDirPerm
	}
	if err := os.MkdirAll(path, perm); err != nil {
		return errors.Wrapf(err, "creating directory %s", path)
	}
	return nil
}

// ProjectFile resolves name relative to the project directory, returning
// an absolute path. An already-absolute name is returned cleaned.
func ProjectFile(projectDir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return filepath.Clean(name), nil
	}
	abs, err := filepath.Abs(filepath.Join(projectDir, name))
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", name)
	}
	return abs, nil
}
