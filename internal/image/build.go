package image

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/execx"
	"github.com/ezpy/ezdev/internal/logging"
	"github.com/ezpy/ezdev/internal/paths"
)

// Builder drives docker to produce the tools server image.
type Builder struct {
	runner execx.Runner

	// Tag is applied to the built image.
	Tag string

	// ContextDir is the docker build context (the project directory).
	ContextDir string

	// Opts control the generated Dockerfile.
	Opts Options
}

// NewBuilder creates a Builder using the given process runner.
func NewBuilder(runner execx.Runner, tag, contextDir string, opts Options) *Builder {
	return &Builder{
		runner:     runner,
		Tag:        tag,
		ContextDir: contextDir,
		Opts:       opts,
	}
}

// WriteDockerfile renders the recipe into the build context and
// returns its path.
func (b *Builder) WriteDockerfile() (string, error) {
	content, err := Dockerfile(b.Opts)
	if err != nil {
		return "", err
	}
	path := filepath.Join(b.ContextDir, paths.DockerfileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	return path, nil
}

// Build generates the Dockerfile and runs docker build.
// Docker propagates any failing step as a non-zero exit, so a partial
// build never tags the image.
func (b *Builder) Build(ctx context.Context) error {
	if _, err := b.runner.LookPath("docker"); err != nil {
		return errors.NewSystemError(err, "Install Docker to build the image")
	}

	path, err := b.WriteDockerfile()
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info("building image", "image", b.Tag, "dockerfile", path)

	err = b.runner.Run(ctx, execx.Cmd{
		Name: "docker",
		Args: []string{"build", "-t", b.Tag, "-f", path, b.ContextDir},
	})
	if err != nil {
		return errors.Wrap(err, "docker build")
	}
	return nil
}
