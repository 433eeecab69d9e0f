package config

import (
	"regexp"

	"github.com/ezpy/ezdev/internal/errors"
)

// minVersionRe matches a major.minor or major.minor.patch version string.
var minVersionRe = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.ProjectDir == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "project_dir must not be empty")
	}
	if !minVersionRe.MatchString(c.Python.MinVersion) {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"python.min_version %q is not a version string", c.Python.MinVersion)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return errors.Wrapf(errors.ErrInvalidConfig,
			"server.http_port %d out of range", c.Server.HTTPPort)
	}
	if c.Docker.Image == "" {
		return errors.Wrap(errors.ErrInvalidConfig, "docker.image must not be empty")
	}
	if c.Docker.SmokeParallelism < 1 {
		return errors.Wrap(errors.ErrInvalidConfig, "docker.smoke_parallelism must be at least 1")
	}
	return nil
}
