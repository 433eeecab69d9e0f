package execx

import (
	"context"
	"os"
	"sync"

	"github.com/ezpy/ezdev/internal/errors"
)

// Result scripts the outcome of a fake invocation.
type Result struct {
	// Stdout is returned from Output calls.
	Stdout []byte

	// Err is returned from Run/Output/Wait.
	Err error
}

// Fake is a Runner for tests. Results are scripted per program name;
// every invocation is recorded in order.
type Fake struct {
	mu sync.Mutex

	// Results maps program name to scripted outcomes, consumed in order.
	// A program with no scripted results succeeds with empty output.
	Results map[string][]Result

	// MissingTools lists program names LookPath should fail for.
	MissingTools []string

	// Calls records every invocation in order across all methods.
	Calls []Cmd
}

var _ Runner = (*Fake)(nil)

// NewFake returns an empty Fake where every invocation succeeds.
func NewFake() *Fake {
	return &Fake{Results: make(map[string][]Result)}
}

// Script appends a scripted result for the given program name.
func (f *Fake) Script(name string, r Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Results == nil {
		f.Results = make(map[string][]Result)
	}
	f.Results[name] = append(f.Results[name], r)
}

func (f *Fake) next(c Cmd) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, c)
	queue := f.Results[c.Name]
	if len(queue) == 0 {
		return Result{}
	}
	r := queue[0]
	f.Results[c.Name] = queue[1:]
	return r
}

// Run consumes the next scripted result for c.Name.
func (f *Fake) Run(_ context.Context, c Cmd) error {
	return f.next(c).Err
}

// Output consumes the next scripted result for c.Name.
func (f *Fake) Output(_ context.Context, c Cmd) ([]byte, error) {
	r := f.next(c)
	return r.Stdout, r.Err
}

// Start consumes the next scripted result; its error is returned from Wait.
func (f *Fake) Start(_ context.Context, c Cmd) (Handle, error) {
	r := f.next(c)
	return &fakeHandle{err: r.Err}, nil
}

// LookPath fails for names listed in MissingTools.
func (f *Fake) LookPath(name string) (string, error) {
	for _, missing := range f.MissingTools {
		if missing == name {
			return "", errors.Wrapf(errors.ErrToolMissing, "%s", name)
		}
	}
	return "/usr/bin/" + name, nil
}

// CallNames returns the program names of all recorded calls, in order.
func (f *Fake) CallNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		names[i] = c.Name
	}
	return names
}

type fakeHandle struct {
	err error
}

func (h *fakeHandle) Wait() error              { return h.err }
func (h *fakeHandle) Signal(_ os.Signal) error { return nil }
func (h *fakeHandle) Kill() error              { return nil }
