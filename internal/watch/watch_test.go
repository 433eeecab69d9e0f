package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ezpy/ezdev/internal/execx"
	"github.com/ezpy/ezdev/internal/logging"
)

// blockingRunner hands out handles that stay alive until signalled,
// like a real long-running server process.
type blockingRunner struct {
	mu      sync.Mutex
	handles []*blockingHandle
}

func (r *blockingRunner) Start(_ context.Context, c execx.Cmd) (execx.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := &blockingHandle{done: make(chan struct{})}
	r.handles = append(r.handles, h)
	return h, nil
}

func (r *blockingRunner) Run(_ context.Context, _ execx.Cmd) error { return nil }

func (r *blockingRunner) Output(_ context.Context, _ execx.Cmd) ([]byte, error) { return nil, nil }

func (r *blockingRunner) LookPath(name string) (string, error) { return "/usr/bin/" + name, nil }

func (r *blockingRunner) startCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

func (r *blockingRunner) handle(i int) *blockingHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handles[i]
}

type blockingHandle struct {
	done chan struct{}
	once sync.Once

	mu      sync.Mutex
	signals []os.Signal
}

func (h *blockingHandle) Wait() error {
	<-h.done
	return nil
}

func (h *blockingHandle) Signal(sig os.Signal) error {
	h.mu.Lock()
	h.signals = append(h.signals, sig)
	h.mu.Unlock()
	h.once.Do(func() { close(h.done) })
	return nil
}

func (h *blockingHandle) Kill() error {
	h.once.Do(func() { close(h.done) })
	return nil
}

func (h *blockingHandle) sawSignal(sig os.Signal) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.signals {
		if s == sig {
			return true
		}
	}
	return false
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSupervisor_Matches(t *testing.T) {
	s := NewSupervisor(nil, execx.Cmd{}, "/proj", "**/*.py")

	tests := []struct {
		path string
		want bool
	}{
		{"/proj/mcp_server.py", true},
		{"/proj/tools/math.py", true},
		{"/proj/a/b/c/deep.py", true},
		{"/proj/uv.lock", false},
		{"/proj/README.md", false},
		{"/proj/tools/notes.txt", false},
	}
	for _, tt := range tests {
		if got := s.Matches(tt.path); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSupervisor_RestartsOnChange(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "mcp_server.py")
	if err := os.WriteFile(src, []byte("print('up')\n"), 0644); err != nil {
		t.Fatal(err)
	}

	runner := &blockingRunner{}
	s := NewSupervisor(runner, execx.Cmd{Name: "uv", Args: []string{"run", "python", "mcp_server.py"}}, dir, "**/*.py")
	s.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logging.NewDiscard()))
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	waitFor(t, "initial start", func() bool { return runner.startCount() >= 1 })
	// Give the watcher a beat to register before triggering the change.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(src, []byte("print('changed')\n"), 0644); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "restart", func() bool { return runner.startCount() >= 2 })

	if !runner.handle(0).sawSignal(syscall.SIGTERM) {
		t.Error("first process was not sent SIGTERM on restart")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestSupervisor_IgnoresNonMatchingChange(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mcp_server.py"), []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	runner := &blockingRunner{}
	s := NewSupervisor(runner, execx.Cmd{Name: "uv"}, dir, "**/*.py")
	s.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(logging.NewContext(context.Background(), logging.NewDiscard()))
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	waitFor(t, "initial start", func() bool { return runner.startCount() >= 1 })
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch\n"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	if n := runner.startCount(); n != 1 {
		t.Errorf("start count = %d after non-matching change, want 1", n)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestAddRecursive_SkipsDependencyTrees(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"tools", ".venv/lib", "__pycache__"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			t.Fatal(err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, dir); err != nil {
		t.Fatal(err)
	}

	watched := map[string]bool{}
	for _, p := range watcher.WatchList() {
		watched[p] = true
	}
	if !watched[dir] || !watched[filepath.Join(dir, "tools")] {
		t.Errorf("expected root and tools to be watched, got %v", watcher.WatchList())
	}
	for _, skipped := range []string{".venv", "__pycache__"} {
		if watched[filepath.Join(dir, skipped)] {
			t.Errorf("%s should not be watched", skipped)
		}
	}
}
