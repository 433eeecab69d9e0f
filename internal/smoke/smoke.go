// Package smoke runs end-to-end checks against the built tools image
// and the local checkout.
//
// The dockerized runner executes one short-lived container per tool
// case with the normal entrypoint overridden, asserting that each tool
// prints a JSON object and, for key tools, that the payload has the
// expected shape. Cases are independent, so they run with bounded
// parallelism; results are reported in table order regardless.
package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/execx"
	"github.com/ezpy/ezdev/internal/userinfo"
)

// DockerRunner executes the smoke cases against a built image.
type DockerRunner struct {
	runner execx.Runner

	// Image is the tag under test.
	Image string

	// UserData is the host path of the user-data file.
	UserData string

	// UserDataMount is the in-container path the file is bound to.
	UserDataMount string

	// Entrypoint overrides the image entrypoint for direct tool calls.
	Entrypoint string

	// Parallelism bounds concurrent containers; values below 1 mean 1.
	Parallelism int

	// Out receives per-case and summary lines.
	Out io.Writer
}

// NewDockerRunner creates a runner for the given image.
func NewDockerRunner(runner execx.Runner, image string) *DockerRunner {
	return &DockerRunner{
		runner:        runner,
		Image:         image,
		UserData:      "user.data.json",
		UserDataMount: "/app/user.data.json",
		Entrypoint:    "./tools",
		Parallelism:   4,
		Out:           os.Stdout,
	}
}

// Preflight verifies the user-data file the smoke cases depend on.
// An absent or malformed record fails before any container runs.
func (d *DockerRunner) Preflight() error {
	return userinfo.Validate(d.UserData)
}

// Run executes every case and prints a summary. It returns an error
// when any case fails, identifying the first failing tool.
func (d *DockerRunner) Run(ctx context.Context, cases []Case) error {
	if err := d.Preflight(); err != nil {
		return err
	}

	userData, err := filepath.Abs(d.UserData)
	if err != nil {
		return errors.Wrap(err, "resolving user data path")
	}

	fmt.Fprintf(d.Out, "Image: %s\n", d.Image)
	fmt.Fprintf(d.Out, "Running %d dockerized tool checks...\n\n", len(cases))

	failures := make([]error, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	limit := d.Parallelism
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			failures[i] = d.runCase(gctx, c, userData)
			// Case failures are collected, not short-circuited, so the
			// summary covers the whole table.
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	passed, failed := 0, 0
	var firstFailure error
	for i, c := range cases {
		if failures[i] == nil {
			passed++
			fmt.Fprintf(d.Out, "[PASS] %s\n", c.Tool)
			continue
		}
		failed++
		fmt.Fprintf(d.Out, "[FAIL] %s: %v\n", c.Tool, failures[i])
		if firstFailure == nil {
			firstFailure = errors.Wrapf(failures[i], "%s", c.Tool)
		}
	}

	fmt.Fprintf(d.Out, "\nSummary: %d passed, %d failed\n", passed, failed)
	if firstFailure != nil {
		return errors.Wrapf(firstFailure, "%d of %d smoke cases failed", failed, len(cases))
	}
	return nil
}

func (d *DockerRunner) runCase(ctx context.Context, c Case, userData string) error {
	args := []string{"run", "--rm"}
	if c.NeedsUserData {
		args = append(args, "-v", fmt.Sprintf("%s:%s:ro", userData, d.UserDataMount))
	}
	args = append(args, "--entrypoint", d.Entrypoint, d.Image, c.Tool)
	args = append(args, c.Args...)

	out, err := d.runner.Output(ctx, execx.Cmd{Name: "docker", Args: args})
	if err != nil {
		return err
	}
	return checkPayload(out, c.Validate)
}

// checkPayload decodes tool output and applies the case validator.
func checkPayload(out []byte, validate func(map[string]any) error) error {
	var payload map[string]any
	if err := json.Unmarshal(out, &payload); err != nil {
		return errors.Wrap(err, "output is not a JSON object")
	}
	if validate != nil {
		return validate(payload)
	}
	return nil
}
