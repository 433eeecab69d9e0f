package execx

import (
	"context"
	"strings"
	"testing"

	"github.com/ezpy/ezdev/internal/errors"
)

func TestCmd_String(t *testing.T) {
	c := Cmd{Name: "uv", Args: []string{"run", "python", "mcp_server.py"}}
	if got := c.String(); got != "uv run python mcp_server.py" {
		t.Errorf("Cmd.String() = %q", got)
	}
}

func TestSystem_Run(t *testing.T) {
	r := System()
	if err := r.Run(context.Background(), Cmd{Name: "true"}); err != nil {
		t.Errorf("Run(true) error = %v", err)
	}
	if err := r.Run(context.Background(), Cmd{Name: "false"}); err == nil {
		t.Error("Run(false) expected error")
	}
}

func TestSystem_Output(t *testing.T) {
	r := System()
	out, err := r.Output(context.Background(), Cmd{Name: "echo", Args: []string{"hello"}})
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if strings.TrimSpace(string(out)) != "hello" {
		t.Errorf("Output() = %q", out)
	}
}

func TestSystem_OutputIncludesStderrInError(t *testing.T) {
	r := System()
	_, err := r.Output(context.Background(), Cmd{
		Name: "sh", Args: []string{"-c", "echo boom >&2; exit 3"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error should carry stderr text: %v", err)
	}
}

func TestSystem_LookPath(t *testing.T) {
	r := System()
	if _, err := r.LookPath("sh"); err != nil {
		t.Errorf("LookPath(sh) error = %v", err)
	}
	_, err := r.LookPath("definitely-not-a-tool-xyz")
	if !errors.Is(err, errors.ErrToolMissing) {
		t.Errorf("expected ErrToolMissing, got %v", err)
	}
}

func TestFake_ScriptedResults(t *testing.T) {
	f := NewFake()
	f.Script("docker", Result{Err: errors.New("build failed")})
	f.Script("docker", Result{})

	if err := f.Run(context.Background(), Cmd{Name: "docker", Args: []string{"build"}}); err == nil {
		t.Error("first docker call should fail")
	}
	if err := f.Run(context.Background(), Cmd{Name: "docker", Args: []string{"run"}}); err != nil {
		t.Errorf("second docker call should succeed: %v", err)
	}
	// Unscripted programs succeed.
	if err := f.Run(context.Background(), Cmd{Name: "uv"}); err != nil {
		t.Errorf("unscripted call should succeed: %v", err)
	}

	want := []string{"docker", "docker", "uv"}
	got := f.CallNames()
	if len(got) != len(want) {
		t.Fatalf("CallNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFake_MissingTools(t *testing.T) {
	f := NewFake()
	f.MissingTools = []string{"uv"}

	if _, err := f.LookPath("python3"); err != nil {
		t.Errorf("LookPath(python3) error = %v", err)
	}
	_, err := f.LookPath("uv")
	if !errors.Is(err, errors.ErrToolMissing) {
		t.Errorf("expected ErrToolMissing, got %v", err)
	}
}
