// Package execx runs external processes for ezdev tasks.
//
// Every task body ultimately shells out: uv, python, docker, ruff,
// ollama, mcphost, npx. The [Runner] interface wraps os/exec so task
// logic stays testable with the [Fake] runner; the real implementation
// streams output to the invoking terminal the way a Makefile would.
package execx

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/logging"
)

// Cmd describes a single external process invocation.
type Cmd struct {
	// Name is the program to run, resolved via PATH.
	Name string

	// Args are the program arguments, not including the program name.
	Args []string

	// Dir is the working directory; empty means the current directory.
	Dir string

	// Env holds extra KEY=VALUE entries appended to the parent environment.
	Env []string

	// Stdin is connected to the process when non-nil; otherwise the
	// parent's stdin is used so interactive prompts keep working.
	Stdin io.Reader
}

// String renders the invocation for log and error messages.
func (c Cmd) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Handle controls a started background process.
type Handle interface {
	// Wait blocks until the process exits.
	Wait() error

	// Signal sends sig to the process.
	Signal(sig os.Signal) error

	// Kill forcibly terminates the process.
	Kill() error
}

// Runner executes external processes.
type Runner interface {
	// Run executes the command, streaming output to the parent's
	// stdout/stderr, and blocks until it exits.
	Run(ctx context.Context, c Cmd) error

	// Output executes the command and returns its captured stdout.
	// Stderr is captured too and folded into the returned error.
	Output(ctx context.Context, c Cmd) ([]byte, error)

	// Start launches the command without waiting for it.
	Start(ctx context.Context, c Cmd) (Handle, error)

	// LookPath reports where name resolves on PATH.
	LookPath(name string) (string, error)
}

// System returns the Runner backed by os/exec.
func System() Runner {
	return systemRunner{}
}

type systemRunner struct{}

func (systemRunner) build(ctx context.Context, c Cmd) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	if c.Stdin != nil {
		cmd.Stdin = c.Stdin
	} else {
		cmd.Stdin = os.Stdin
	}
	return cmd
}

func (r systemRunner) Run(ctx context.Context, c Cmd) error {
	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "exec", "cmd", c.String(), "dir", c.Dir)

	cmd := r.build(ctx, c)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s failed", c.Name)
	}
	return nil
}

func (r systemRunner) Output(ctx context.Context, c Cmd) ([]byte, error) {
	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "exec (captured)", "cmd", c.String(), "dir", c.Dir)

	cmd := r.build(ctx, c)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = strings.TrimSpace(stdout.String())
		}
		if msg != "" {
			return stdout.Bytes(), errors.Wrapf(err, "%s failed: %s", c.Name, msg)
		}
		return stdout.Bytes(), errors.Wrapf(err, "%s failed", c.Name)
	}
	return stdout.Bytes(), nil
}

func (r systemRunner) Start(ctx context.Context, c Cmd) (Handle, error) {
	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "exec (background)", "cmd", c.String(), "dir", c.Dir)

	cmd := r.build(ctx, c)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrapf(err, "starting %s", c.Name)
	}
	return &systemHandle{cmd: cmd}, nil
}

func (systemRunner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", errors.Wrapf(errors.ErrToolMissing, "%s", name)
	}
	return path, nil
}

type systemHandle struct {
	cmd *exec.Cmd
}

func (h *systemHandle) Wait() error {
	if err := h.cmd.Wait(); err != nil {
		return errors.Wrapf(err, "%s exited", h.cmd.Path)
	}
	return nil
}

func (h *systemHandle) Signal(sig os.Signal) error {
	if h.cmd.Process == nil {
		return errors.New("process not started")
	}
	return h.cmd.Process.Signal(sig)
}

func (h *systemHandle) Kill() error {
	if h.cmd.Process == nil {
		return errors.New("process not started")
	}
	return h.cmd.Process.Kill()
}
