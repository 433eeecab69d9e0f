package lint

import (
	"context"
	"strings"
	"testing"

	"github.com/ezpy/ezdev/internal/errors"
	"github.com/ezpy/ezdev/internal/execx"
	"github.com/ezpy/ezdev/internal/logging"
)

func TestRun_StageOrder(t *testing.T) {
	fake := execx.NewFake()
	ctx := logging.NewContext(context.Background(), logging.NewDiscard())

	if err := Run(ctx, fake, "/proj"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{
		"uv run ruff format .",
		"uv run ruff check --fix .",
		"uv run mypy .",
	}
	if len(fake.Calls) != len(want) {
		t.Fatalf("calls = %v", fake.CallNames())
	}
	for i, c := range fake.Calls {
		if c.String() != want[i] {
			t.Errorf("stage %d = %q, want %q", i, c.String(), want[i])
		}
		if c.Dir != "/proj" {
			t.Errorf("stage %d dir = %q, want /proj", i, c.Dir)
		}
	}
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	fake := execx.NewFake()
	fake.Script("uv", execx.Result{})
	fake.Script("uv", execx.Result{Err: errors.New("ruff check found problems")})

	ctx := logging.NewContext(context.Background(), logging.NewDiscard())
	err := Run(ctx, fake, "/proj")
	if err == nil || !strings.Contains(err.Error(), "ruff check") {
		t.Fatalf("Run() error = %v, want ruff check failure", err)
	}
	// mypy must not run once check fails.
	if len(fake.Calls) != 2 {
		t.Errorf("calls = %v, want 2 stages", fake.CallNames())
	}
}
