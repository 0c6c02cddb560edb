package podman

import (
	"context"
	"strings"
	"sync"
)

type runCall struct {
	Name string
	Args []string
}

// mockRunner replays canned output keyed by the joined argument list.
type mockRunner struct {
	mu sync.Mutex

	RunFunc func(name string, args []string) ([]byte, []byte, error)

	Calls []runCall
}

func newMockRunner() *mockRunner {
	return &mockRunner{
		RunFunc: func(string, []string) ([]byte, []byte, error) {
			return nil, nil, nil
		},
	}
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, runCall{Name: name, Args: append([]string(nil), args...)})
	return m.RunFunc(name, args)
}

func (m *mockRunner) lastCommand() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return ""
	}
	c := m.Calls[len(m.Calls)-1]
	return c.Name + " " + strings.Join(c.Args, " ")
}
