package onboard

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/docker/docker/api/types/container"

	"github.com/spotlesstofu/podman-peerpods/internal/config"
	"github.com/spotlesstofu/podman-peerpods/internal/engine"
	"github.com/spotlesstofu/podman-peerpods/internal/podman"
	"github.com/spotlesstofu/podman-peerpods/internal/state"
)

const (
	testSocket     = "/run/user/1000/podman/podman-machine-default-api.sock"
	testAdaptorRef = "quay.io/confidential-containers/cloud-api-adaptor:v0.12.0"
	testEnvFile    = "/home/user/peerpods.env"
)

// mockMachineRunner is a mock implementation of the machineRunner interface for testing.
type mockMachineRunner struct {
	mu sync.Mutex

	// Configurable behavior
	machineInitFunc    func(opts podman.InitOptions) error
	machineOSApplyFunc func(name, image string, restart bool) error
	machineSSHFunc     func(name, username, script string) (string, error)
	machineListFunc    func() ([]podman.MachineListEntry, error)
	machineInspectFunc func(name string) (*podman.MachineInfo, error)

	// Call tracking
	machineInitCalls    []podman.InitOptions
	machineOSApplyCalls []string
	machineSSHCalls     []string
	machineListCalls    int
}

// newMockMachineRunner creates a mock with one running default machine.
func newMockMachineRunner() *mockMachineRunner {
	return &mockMachineRunner{
		machineInitFunc:    func(podman.InitOptions) error { return nil },
		machineOSApplyFunc: func(string, string, bool) error { return nil },
		machineSSHFunc:     func(string, string, string) (string, error) { return "", nil },
		machineListFunc: func() ([]podman.MachineListEntry, error) {
			return []podman.MachineListEntry{{Name: "podman-machine-default", Default: true, Running: true}}, nil
		},
		machineInspectFunc: func(name string) (*podman.MachineInfo, error) {
			return &podman.MachineInfo{
				Name:  name,
				State: "running",
				ConnectionInfo: podman.ConnectionInfo{
					PodmanSocket: &podman.VMFile{Path: testSocket},
				},
			}, nil
		},
	}
}

func (m *mockMachineRunner) MachineInit(_ context.Context, opts podman.InitOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.machineInitCalls = append(m.machineInitCalls, opts)
	return m.machineInitFunc(opts)
}

func (m *mockMachineRunner) MachineOSApply(_ context.Context, name, image string, restart bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.machineOSApplyCalls = append(m.machineOSApplyCalls, image)
	return m.machineOSApplyFunc(name, image, restart)
}

func (m *mockMachineRunner) MachineSSH(_ context.Context, name, username, script string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.machineSSHCalls = append(m.machineSSHCalls, script)
	return m.machineSSHFunc(name, username, script)
}

func (m *mockMachineRunner) MachineList(context.Context) ([]podman.MachineListEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.machineListCalls++
	return m.machineListFunc()
}

func (m *mockMachineRunner) MachineInspect(_ context.Context, name string) (*podman.MachineInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.machineInspectFunc(name)
}

// createCall records one CreateAndStart invocation.
type createCall struct {
	Name    string
	Config  *container.Config
	HostCfg *container.HostConfig
}

// mockEngineClient is a mock implementation of the engineClient interface for testing.
type mockEngineClient struct {
	mu sync.Mutex

	// Configurable behavior
	pingFunc           func() error
	pullImageFunc      func(ref string) error
	findImageFunc      func(ref string) (engine.Image, error)
	createAndStartFunc func(name string) (string, error)
	listByLabelFunc    func(labels map[string]string) ([]engine.Container, error)
	stopAndRemoveFunc  func(id string) error

	// Call tracking
	pingCalls           int
	pullImageCalls      []string
	findImageCalls      []string
	createAndStartCalls []createCall
	listByLabelCalls    []map[string]string
	stopAndRemoveCalls  []string
	closeCalls          int
}

// newMockEngineClient creates a mock where the adaptor image pulls and
// resolves and the container starts.
func newMockEngineClient() *mockEngineClient {
	return &mockEngineClient{
		pingFunc:      func() error { return nil },
		pullImageFunc: func(string) error { return nil },
		findImageFunc: func(ref string) (engine.Image, error) {
			return engine.Image{ID: "sha256:adaptor", RepoTags: []string{ref}}, nil
		},
		createAndStartFunc: func(string) (string, error) { return "0123456789abcdef", nil },
		listByLabelFunc:    func(map[string]string) ([]engine.Container, error) { return nil, nil },
		stopAndRemoveFunc:  func(string) error { return nil },
	}
}

func (m *mockEngineClient) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingCalls++
	return m.pingFunc()
}

func (m *mockEngineClient) PullImage(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pullImageCalls = append(m.pullImageCalls, ref)
	return m.pullImageFunc(ref)
}

func (m *mockEngineClient) FindImage(_ context.Context, ref string) (engine.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findImageCalls = append(m.findImageCalls, ref)
	return m.findImageFunc(ref)
}

func (m *mockEngineClient) CreateAndStart(_ context.Context, name string, cfg *container.Config, hostCfg *container.HostConfig) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createAndStartCalls = append(m.createAndStartCalls, createCall{Name: name, Config: cfg, HostCfg: hostCfg})
	return m.createAndStartFunc(name)
}

func (m *mockEngineClient) ListByLabel(_ context.Context, labels map[string]string) ([]engine.Container, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listByLabelCalls = append(m.listByLabelCalls, labels)
	return m.listByLabelFunc(labels)
}

func (m *mockEngineClient) StopAndRemove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopAndRemoveCalls = append(m.stopAndRemoveCalls, id)
	return m.stopAndRemoveFunc(id)
}

func (m *mockEngineClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
	return nil
}

// testHarness wires an Onboarder to mocks and a temporary context store.
type testHarness struct {
	settings *config.Settings
	machines *mockMachineRunner
	engine   *mockEngineClient
	store    *state.Store
	dials    []engine.Connection
	envReads []string
	ob       *Onboarder
}

// testSettings returns normalized settings with the environment file set.
func testSettings(envFile any) *config.Settings {
	s := &config.Settings{
		Sections: map[string]map[string]any{
			config.SectionPeerPods: {config.KeyEnvironmentFile: envFile},
		},
	}
	s.Normalize("1.0.0")
	return s
}

func newHarness(t *testing.T, settings *config.Settings) *testHarness {
	t.Helper()

	store, err := state.Open(filepath.Join(t.TempDir(), "context.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	h := &testHarness{
		settings: settings,
		machines: newMockMachineRunner(),
		engine:   newMockEngineClient(),
		store:    store,
	}
	dial := func(conn engine.Connection) (engineClient, error) {
		h.dials = append(h.dials, conn)
		return h.engine, nil
	}
	h.ob = newWithDeps(settings, h.machines, dial, store)
	h.ob.readEnv = func(path string) ([]string, error) {
		h.envReads = append(h.envReads, path)
		return []string{"AZURE_REGION=eastus", "AZURE_SUBSCRIPTION_ID=sub"}, nil
	}
	return h
}

// engineCalls counts every call that reached the engine.
func (h *testHarness) engineCalls() int {
	return len(h.dials) + h.engine.pingCalls + len(h.engine.pullImageCalls) + len(h.engine.findImageCalls) +
		len(h.engine.createAndStartCalls) + len(h.engine.listByLabelCalls) + len(h.engine.stopAndRemoveCalls)
}

var errExit125 = errors.New("exit status 125")

func podmanFailure(stderr string) error {
	return &podman.CommandError{Stderr: stderr, ExitCode: 125, Err: errExit125}
}
