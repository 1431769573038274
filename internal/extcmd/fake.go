package extcmd

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Response is the scripted outcome of a command run by a Fake.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Fake is a Runner that answers from a table of scripted responses keyed by
// Command.String(). It records every command it is asked to run. Unknown
// commands fail to start.
type Fake struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []Command
}

// NewFake creates an empty Fake.
func NewFake() *Fake {
	return &Fake{responses: make(map[string]Response)}
}

// On scripts the response for cmd.
func (f *Fake) On(cmd Command, resp Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmd.String()] = resp
	return f
}

// Calls returns the commands run so far, in order.
func (f *Fake) Calls() []Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Command(nil), f.calls...)
}

// Run implements Runner.
func (f *Fake) Run(_ context.Context, cmd Command, stdout, stderr io.Writer) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	resp, ok := f.responses[cmd.String()]
	f.mu.Unlock()

	if !ok {
		return -1, fmt.Errorf("failed to run %s: no scripted response for %q", cmd.Program, cmd.String())
	}
	if resp.Err != nil {
		return -1, resp.Err
	}
	if _, err := io.WriteString(stdout, resp.Stdout); err != nil {
		return -1, err
	}
	if _, err := io.WriteString(stderr, resp.Stderr); err != nil {
		return -1, err
	}
	return resp.ExitCode, nil
}
