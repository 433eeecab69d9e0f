// Package ollama manages the local Ollama daemon and the mcphost
// session that talks to it.
//
// The daemon start is synchronized: after launching `ollama serve` in
// the background, the host polls the daemon's HTTP endpoint until it
// answers, with a bounded timeout, before handing off to mcphost. A
// daemon that is already running is detected and left alone.
package ollama

import (
	"context"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/execx"
	"github.com/ezpy/ezdev/internal/logging"
)

// ModelEnv overrides the configured model for a single invocation.
const ModelEnv = "OLLAMA_MODEL"

// Host runs the Ollama daemon and mcphost against it.
type Host struct {
	runner execx.Runner
	httpc  *http.Client

	// Model is the model tag pulled and served.
	Model string

	// BaseURL is the daemon endpoint polled for readiness.
	BaseURL string

	// ReadyTimeout bounds how long the daemon may take to come up.
	ReadyTimeout time.Duration

	// PollInterval is the delay between readiness probes.
	PollInterval time.Duration
}

// NewHost creates a Host for the given model and daemon endpoint.
func NewHost(runner execx.Runner, model, baseURL string) *Host {
	return &Host{
		runner:       runner,
		httpc:        &http.Client{Timeout: 2 * time.Second},
		Model:        ResolveModel(model),
		BaseURL:      baseURL,
		ReadyTimeout: 30 * time.Second,
		PollInterval: 250 * time.Millisecond,
	}
}

// ResolveModel returns the model to use, letting the OLLAMA_MODEL
// environment variable override the configured default.
func ResolveModel(configured string) string {
	if env := os.Getenv(ModelEnv); env != "" {
		return env
	}
	return configured
}

// Pull downloads the model so the first chat does not stall on a
// multi-gigabyte fetch.
func (h *Host) Pull(ctx context.Context) error {
	if _, err := h.runner.LookPath("ollama"); err != nil {
		return errors.NewUserError(err, "Install Ollama first: https://ollama.com/download")
	}
	logging.FromContext(ctx).Info("pulling model", "model", h.Model)
	return h.runner.Run(ctx, execx.Cmd{Name: "ollama", Args: []string{"pull", h.Model}})
}

// Ready reports whether the daemon answers on its HTTP endpoint.
func (h *Host) Ready(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL, nil)
	if err != nil {
		return false
	}
	resp, err := h.httpc.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// WaitReady polls the daemon until it answers or the timeout expires.
func (h *Host) WaitReady(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, h.ReadyTimeout)
	defer cancel()

	ticker := time.NewTicker(h.PollInterval)
	defer ticker.Stop()

	for {
		if h.Ready(ctx) {
			return nil
		}
		select {
		case <-ctx.Done():
			return errors.Newf("ollama did not become ready at %s within %s", h.BaseURL, h.ReadyTimeout)
		case <-ticker.C:
		}
	}
}

// Launch brings the daemon up if needed, waits for it, and runs an
// interactive mcphost session with the given config. A daemon started
// here is terminated when the session ends.
func (h *Host) Launch(ctx context.Context, configPath string) error {
	logger := logging.FromContext(ctx)

	if _, err := h.runner.LookPath("mcphost"); err != nil {
		return errors.NewUserError(err, "Install mcphost: go install github.com/mark3labs/mcphost@latest")
	}

	if h.Ready(ctx) {
		logger.Debug("ollama already running", "url", h.BaseURL)
	} else {
		if _, err := h.runner.LookPath("ollama"); err != nil {
			return errors.NewUserError(err, "Install Ollama first: https://ollama.com/download")
		}
		logger.Info("starting ollama daemon", "url", h.BaseURL)
		handle, err := h.runner.Start(ctx, execx.Cmd{Name: "ollama", Args: []string{"serve"}})
		if err != nil {
			return err
		}
		defer func() {
			_ = handle.Signal(syscall.SIGTERM)
			_ = handle.Wait()
		}()

		if err := h.WaitReady(ctx); err != nil {
			return err
		}
	}

	logger.Info("launching mcphost", "model", h.Model, "config", configPath)
	return h.runner.Run(ctx, execx.Cmd{
		Name: "mcphost",
		Args: []string{"--config", configPath, "--model", "ollama:" + h.Model},
	})
}
