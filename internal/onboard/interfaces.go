package onboard

import (
	"context"

	"github.com/docker/docker/api/types/container"

	"github.com/spotlesstofu/podman-peerpods/internal/engine"
	"github.com/spotlesstofu/podman-peerpods/internal/podman"
)

// machineRunner defines the podman machine operations needed for onboarding.
//
// In production, this is satisfied by *podman.Client.
// In tests, this is satisfied by mock implementations.
type machineRunner interface {
	// MachineInit runs podman machine init
	MachineInit(ctx context.Context, opts podman.InitOptions) error

	// MachineOSApply runs podman machine os apply
	MachineOSApply(ctx context.Context, name, image string, restart bool) error

	// MachineSSH runs a script inside the machine
	MachineSSH(ctx context.Context, name, username, script string) (string, error)

	// MachineList lists machines (used to enumerate engine connections)
	MachineList(ctx context.Context) ([]podman.MachineListEntry, error)

	// MachineInspect returns a machine's connection info
	MachineInspect(ctx context.Context, name string) (*podman.MachineInfo, error)
}

// engineClient defines the container engine operations needed to launch
// and remove the adaptor.
//
// In production, this is satisfied by *engine.Client.
// In tests, this is satisfied by mock implementations.
type engineClient interface {
	// Ping checks that the engine answers
	Ping(ctx context.Context) error

	// PullImage pulls an image and waits for the pull to finish
	PullImage(ctx context.Context, ref string) error

	// FindImage returns the local image record for a reference
	FindImage(ctx context.Context, ref string) (engine.Image, error)

	// CreateAndStart creates a container and starts it detached
	CreateAndStart(ctx context.Context, name string, cfg *container.Config, hostCfg *container.HostConfig) (string, error)

	// ListByLabel lists containers carrying all the given labels
	ListByLabel(ctx context.Context, labels map[string]string) ([]engine.Container, error)

	// StopAndRemove stops and removes a container
	StopAndRemove(ctx context.Context, id string) error

	// Close releases the connection
	Close() error
}

// engineDialer opens an engine client for a connection.
type engineDialer func(conn engine.Connection) (engineClient, error)

func dialEngine(conn engine.Connection) (engineClient, error) {
	return engine.Connect(conn)
}
