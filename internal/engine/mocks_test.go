package engine

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/spotlesstofu/podman-peerpods/internal/podman"
)

// fakeDocker records calls and returns configured responses.
// Embeds client.APIClient so unused methods panic if called.
type fakeDocker struct {
	client.APIClient

	mu sync.Mutex

	pullBody   string
	pullErr    error
	images     []image.Summary
	listOpts   image.ListOptions
	createID   string
	createErr  error
	startErr   error
	containers []container.Summary
	ctrOpts    container.ListOptions
	stopErr    error
	removeErr  error
	pingErr    error

	createdName   string
	createdConfig *container.Config
	createdHost   *container.HostConfig

	calls []string
}

func (f *fakeDocker) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeDocker) ImagePull(_ context.Context, ref string, _ image.PullOptions) (io.ReadCloser, error) {
	f.record("Pull " + ref)
	if f.pullErr != nil {
		return nil, f.pullErr
	}
	return io.NopCloser(strings.NewReader(f.pullBody)), nil
}

func (f *fakeDocker) ImageList(_ context.Context, opts image.ListOptions) ([]image.Summary, error) {
	f.record("ImageList")
	f.listOpts = opts
	return f.images, nil
}

func (f *fakeDocker) ContainerCreate(_ context.Context, cfg *container.Config, hostCfg *container.HostConfig, _ *network.NetworkingConfig, _ *ocispec.Platform, name string) (container.CreateResponse, error) {
	f.record("Create")
	f.createdName = name
	f.createdConfig = cfg
	f.createdHost = hostCfg
	if f.createErr != nil {
		return container.CreateResponse{}, f.createErr
	}
	return container.CreateResponse{ID: f.createID}, nil
}

func (f *fakeDocker) ContainerStart(_ context.Context, id string, _ container.StartOptions) error {
	f.record("Start " + id)
	return f.startErr
}

func (f *fakeDocker) ContainerList(_ context.Context, opts container.ListOptions) ([]container.Summary, error) {
	f.record("ContainerList")
	f.ctrOpts = opts
	return f.containers, nil
}

func (f *fakeDocker) ContainerStop(_ context.Context, id string, _ container.StopOptions) error {
	f.record("Stop " + id)
	return f.stopErr
}

func (f *fakeDocker) ContainerRemove(_ context.Context, id string, _ container.RemoveOptions) error {
	f.record("Remove " + id)
	return f.removeErr
}

func (f *fakeDocker) Ping(_ context.Context) (types.Ping, error) {
	f.record("Ping")
	return types.Ping{}, f.pingErr
}

func (f *fakeDocker) Close() error {
	f.record("Close")
	return nil
}

// mockMachines is a MachineLister returning fixed data.
type mockMachines struct {
	entries    []podman.MachineListEntry
	infos      map[string]*podman.MachineInfo
	listErr    error
	inspectErr map[string]error
}

func (m *mockMachines) MachineList(context.Context) ([]podman.MachineListEntry, error) {
	return m.entries, m.listErr
}

func (m *mockMachines) MachineInspect(_ context.Context, name string) (*podman.MachineInfo, error) {
	if err := m.inspectErr[name]; err != nil {
		return nil, err
	}
	if info, ok := m.infos[name]; ok {
		return info, nil
	}
	return &podman.MachineInfo{Name: name}, nil
}

func socketInfo(name, path string) *podman.MachineInfo {
	return &podman.MachineInfo{
		Name:  name,
		State: "running",
		ConnectionInfo: podman.ConnectionInfo{
			PodmanSocket: &podman.VMFile{Path: path},
		},
	}
}
