// Package pyenv checks the Python toolchain preconditions for ezdev.
//
// The tools server is a uv-managed Python project, so every task that
// touches it needs an interpreter at or above the configured minimum
// and the uv dependency-resolution tool on PATH.
package pyenv

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/execx"
	"github.com/ezpy/ezdev/internal/logging"
)

// Interpreter is the Python executable name used for version probing
// and for bootstrapping uv when it is absent.
const Interpreter = "python3"

// Version holds a parsed interpreter version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// String renders the version as major.minor.patch.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast reports whether v is at or above min. Patch is only compared
// when min specifies one.
func (v Version) AtLeast(min Version) bool {
	if v.Major != min.Major {
		return v.Major > min.Major
	}
	if v.Minor != min.Minor {
		return v.Minor > min.Minor
	}
	return v.Patch >= min.Patch
}

// ParseVersion parses "3.12", "3.12.1", or the "Python 3.12.1" output
// of python3 --version.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "Python ")
	parts := strings.SplitN(s, ".", 3)
	if len(parts) < 2 {
		return Version{}, errors.Newf("unparseable python version %q", s)
	}

	var v Version
	var err error
	if v.Major, err = strconv.Atoi(parts[0]); err != nil {
		return Version{}, errors.Newf("unparseable python version %q", s)
	}
	if v.Minor, err = strconv.Atoi(parts[1]); err != nil {
		return Version{}, errors.Newf("unparseable python version %q", s)
	}
	if len(parts) == 3 {
		// Trailing qualifiers like "3.13.0rc1" keep the numeric prefix.
		digits := parts[2]
		if i := strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
			digits = digits[:i]
		}
		if digits != "" {
			if v.Patch, err = strconv.Atoi(digits); err != nil {
				return Version{}, errors.Newf("unparseable python version %q", s)
			}
		}
	}
	return v, nil
}

// Detect probes the active interpreter's version.
func Detect(ctx context.Context, runner execx.Runner) (Version, error) {
	if _, err := runner.LookPath(Interpreter); err != nil {
		return Version{}, errors.NewUserError(err, "Install Python 3 and re-run")
	}

	out, err := runner.Output(ctx, execx.Cmd{Name: Interpreter, Args: []string{"--version"}})
	if err != nil {
		return Version{}, errors.Wrap(err, "probing python version")
	}
	return ParseVersion(string(out))
}

// Check verifies the active interpreter meets the minimum version.
// Failures carry a descriptive message and a user exit code.
func Check(ctx context.Context, runner execx.Runner, minVersion string) error {
	min, err := ParseVersion(minVersion)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfig, err.Error())
	}

	active, err := Detect(ctx, runner)
	if err != nil {
		return err
	}

	if !active.AtLeast(min) {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrPythonTooOld, "found %s, need >= %s", active, minVersion),
			fmt.Sprintf("Install Python %s or newer", minVersion),
		)
	}

	logging.FromContext(ctx).Debug("python version ok", "version", active.String(), "minimum", minVersion)
	return nil
}

// EnsureUV makes sure the uv dependency tool is available, installing
// it through pip when absent.
func EnsureUV(ctx context.Context, runner execx.Runner) error {
	if _, err := runner.LookPath("uv"); err == nil {
		return nil
	}

	logging.FromContext(ctx).Info("uv not found, installing via pip")
	err := runner.Run(ctx, execx.Cmd{
		Name: Interpreter,
		Args: []string{"-m", "pip", "install", "--user", "uv"},
	})
	if err != nil {
		return errors.NewSystemError(err, "Install uv manually: https://docs.astral.sh/uv/")
	}
	return nil
}

// Sync resolves and installs the project's locked dependency set.
func Sync(ctx context.Context, runner execx.Runner, projectDir string) error {
	// VIRTUAL_ENV from the invoking shell would make uv resolve into
	// the wrong interpreter; clear it for the child.
	err := runner.Run(ctx, execx.Cmd{
		Name: "uv",
		Args: []string{"sync"},
		Dir:  projectDir,
		Env:  []string{"VIRTUAL_ENV="},
	})
	if err != nil {
		return errors.Wrap(err, "uv sync")
	}
	return nil
}
