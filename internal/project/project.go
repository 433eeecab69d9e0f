// Package project assembles the built-in task table for a tools-server
// checkout.
//
// Each task body delegates to the focused packages (pyenv, userinfo,
// image, smoke, ...) and declares its dependencies; the task engine
// owns ordering and fail-fast semantics. Project-defined extras from
// ezdev.toml are layered on top of the built-ins.
package project

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ezpy/ezdev/internal/config"
	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/execx"
	"github.com/ezpy/ezdev/internal/hostcfg"
	"github.com/ezpy/ezdev/internal/image"
	"github.com/ezpy/ezdev/internal/lint"
	"github.com/ezpy/ezdev/internal/mcpcfg"
	"github.com/ezpy/ezdev/internal/ollama"
	"github.com/ezpy/ezdev/internal/paths"
	"github.com/ezpy/ezdev/internal/pyenv"
	"github.com/ezpy/ezdev/internal/smoke"
	"github.com/ezpy/ezdev/internal/task"
	"github.com/ezpy/ezdev/internal/userinfo"
	"github.com/ezpy/ezdev/internal/watch"
)

// Project binds the configuration to a concrete checkout and process
// runner.
type Project struct {
	cfg    *config.Config
	runner execx.Runner

	// Out receives task output that is data, not logging (the emitted
	// mcp_config JSON, smoke results).
	Out io.Writer

	// InvokeDir is the directory ezdev was invoked from; mcp_config
	// interpolates it as the client's working directory.
	InvokeDir string

	// Prompter collects missing user-info fields interactively.
	Prompter *userinfo.Prompter

	// LMStudio switches mcp_config to the LM Studio document shape.
	LMStudio bool
}

// New creates a Project for the given configuration.
func New(cfg *config.Config, runner execx.Runner) (*Project, error) {
	invokeDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "resolving working directory")
	}
	return &Project{
		cfg:       cfg,
		runner:    runner,
		Out:       os.Stdout,
		InvokeDir: invokeDir,
		Prompter:  userinfo.NewPrompter(),
	}, nil
}

// UserDataPath resolves the user-info record location.
func (p *Project) UserDataPath() (string, error) {
	return paths.ProjectFile(p.cfg.ProjectDir, p.cfg.UserData)
}

// serverCmd is the canonical HTTP-transport server launch.
func (p *Project) serverCmd() execx.Cmd {
	return execx.Cmd{
		Name: "uv",
		Args: []string{"run", "python", p.cfg.Server.Entrypoint, "--transport", "http"},
		Dir:  p.cfg.ProjectDir,
		Env:  []string{fmt.Sprintf("FASTMCP_PORT=%d", p.cfg.Server.HTTPPort)},
	}
}

func (p *Project) ollamaHost() *ollama.Host {
	h := ollama.NewHost(p.runner, p.cfg.Ollama.Model, p.cfg.Ollama.Host)
	if p.cfg.Ollama.ReadyTimeoutSeconds > 0 {
		h.ReadyTimeout = time.Duration(p.cfg.Ollama.ReadyTimeoutSeconds) * time.Second
	}
	return h
}

// Tasks builds the registry: built-ins first, then any ezdev.toml
// extras from the project directory.
func (p *Project) Tasks() (*task.Registry, error) {
	reg := task.NewRegistry()

	reg.MustRegister(&task.Task{
		Name:    "py_req",
		Summary: "Verify the Python interpreter and install uv if absent",
		Run: func(ctx context.Context) error {
			if err := pyenv.Check(ctx, p.runner, p.cfg.Python.MinVersion); err != nil {
				return err
			}
			return pyenv.EnsureUV(ctx, p.runner)
		},
	})

	reg.MustRegister(&task.Task{
		Name:    "user_info",
		Summary: "Sync dependencies and complete user.data.json",
		Run: func(ctx context.Context) error {
			if err := pyenv.Sync(ctx, p.runner, p.cfg.ProjectDir); err != nil {
				return err
			}
			path, err := p.UserDataPath()
			if err != nil {
				return err
			}
			return userinfo.Bootstrap(path, p.Prompter)
		},
	})

	reg.MustRegister(&task.Task{
		Name:    "mcp_config",
		Summary: "Print the MCP client configuration JSON",
		Run: func(ctx context.Context) error {
			doc := mcpcfg.New(p.InvokeDir)
			if p.LMStudio {
				return doc.WriteLMStudio(p.Out)
			}
			return doc.Write(p.Out)
		},
	})

	reg.MustRegister(&task.Task{
		Name:    "setup",
		Summary: "Prepare a fresh checkout end to end",
		Deps:    []string{"py_req", "user_info", "mcp_config"},
	})

	reg.MustRegister(&task.Task{
		Name:    "setup_ollama",
		Summary: "Pull the configured Ollama model",
		Run: func(ctx context.Context) error {
			return p.ollamaHost().Pull(ctx)
		},
	})

	reg.MustRegister(&task.Task{
		Name:    "run",
		Summary: "Run the MCP server with the HTTP transport",
		Run: func(ctx context.Context) error {
			return p.runner.Run(ctx, p.serverCmd())
		},
	})

	reg.MustRegister(&task.Task{
		Name:    "run_mcp",
		Summary: "Run the server, restarting when Python sources change",
		Run: func(ctx context.Context) error {
			s := watch.NewSupervisor(p.runner, p.serverCmd(), p.cfg.ProjectDir, p.cfg.Server.WatchPattern)
			return s.Run(ctx)
		},
	})

	reg.MustRegister(&task.Task{
		Name:    "config",
		Summary: "Render the mcphost config from its template",
		Run: func(ctx context.Context) error {
			return hostcfg.Render(ctx, p.cfg.ProjectDir, p.cfg.Host.ConfigTemplate, p.cfg.Host.ConfigOut)
		},
	})

	reg.MustRegister(&task.Task{
		Name:    "run_ollama",
		Summary: "Start Ollama and launch an mcphost session",
		Deps:    []string{"config"},
		Run: func(ctx context.Context) error {
			configPath := filepath.Join(p.cfg.ProjectDir, p.cfg.Host.ConfigOut)
			return p.ollamaHost().Launch(ctx, configPath)
		},
	})

	reg.MustRegister(&task.Task{
		Name:    "test_ip",
		Summary: "Check the public-IP tool returns an address",
		Run: func(ctx context.Context) error {
			return smoke.CheckIP(ctx, p.runner, p.cfg.ProjectDir)
		},
	})

	reg.MustRegister(&task.Task{
		Name:    "test_user_info",
		Summary: "Check the personal-data tool resolves the record",
		Run: func(ctx context.Context) error {
			return smoke.CheckUserInfo(ctx, p.runner, p.cfg.ProjectDir)
		},
	})

	reg.MustRegister(&task.Task{
		Name:    "lint",
		Summary: "Format, lint, and type-check the Python sources",
		Run: func(ctx context.Context) error {
			return lint.Run(ctx, p.runner, p.cfg.ProjectDir)
		},
	})

	reg.MustRegister(&task.Task{
		Name:    "inspector",
		Summary: "Launch the MCP inspector against the server",
		Run: func(ctx context.Context) error {
			if _, err := p.runner.LookPath("npx"); err != nil {
				return errors.NewUserError(err, "Install Node.js to run the inspector")
			}
			return p.runner.Run(ctx, execx.Cmd{
				Name: "npx",
				Args: []string{"@modelcontextprotocol/inspector", "uv", "run", "python", p.cfg.Server.Entrypoint},
				Dir:  p.cfg.ProjectDir,
			})
		},
	})

	reg.MustRegister(&task.Task{
		Name:    "docker-build",
		Summary: "Generate the Dockerfile and build the tools image",
		Deps:    []string{"user_info"},
		Run: func(ctx context.Context) error {
			b := image.NewBuilder(p.runner, p.cfg.Docker.Image, p.cfg.ProjectDir, image.Options{
				BaseImage:  p.cfg.Docker.BaseImage,
				Entrypoint: p.cfg.Server.Entrypoint,
			})
			return b.Build(ctx)
		},
	})

	reg.MustRegister(&task.Task{
		Name:    "docker-test",
		Summary: "Run the dockerized tool smoke cases",
		Deps:    []string{"docker-build"},
		Run:     p.dockerSmoke,
	})

	reg.MustRegister(&task.Task{
		Name:    "test",
		Summary: "Container smoke test of the built image",
		Deps:    []string{"docker-build"},
		Run:     p.dockerSmoke,
	})

	manifest := filepath.Join(p.cfg.ProjectDir, paths.ManifestFile)
	if err := task.LoadManifest(manifest, reg, p.runner); err != nil {
		return nil, err
	}
	return reg, nil
}

func (p *Project) dockerSmoke(ctx context.Context) error {
	userData, err := p.UserDataPath()
	if err != nil {
		return err
	}
	d := smoke.NewDockerRunner(p.runner, p.cfg.Docker.Image)
	d.UserData = userData
	d.UserDataMount = p.cfg.Docker.UserDataMount
	d.Entrypoint = p.cfg.Docker.SmokeEntrypoint
	d.Parallelism = p.cfg.Docker.SmokeParallelism
	d.Out = p.Out
	return d.Run(ctx, smoke.DockerCases())
}
