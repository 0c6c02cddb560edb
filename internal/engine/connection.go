package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/spotlesstofu/podman-peerpods/internal/naming"
	"github.com/spotlesstofu/podman-peerpods/internal/podman"
)

// ConnectionTypePodman is the type of connections backed by a Podman machine.
const ConnectionTypePodman = "podman"

// Connection status values.
const (
	StatusStarted = "started"
	StatusStopped = "stopped"
)

var (
	// ErrConnectionNotFound is returned when no connection matches the
	// requested display name and type.
	ErrConnectionNotFound = errors.New("container engine connection not found")

	// ErrImageNotFound is returned when a pulled image has no local record.
	ErrImageNotFound = errors.New("image not found")
)

// Connection is a reachable container engine endpoint.
type Connection struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	Type        string `json:"type" yaml:"type"`
	Endpoint    string `json:"endpoint" yaml:"endpoint"`
	Status      string `json:"status" yaml:"status"`
	Default     bool   `json:"default" yaml:"default"`
}

// MachineLister enumerates Podman machines.
//
// In production, this is satisfied by *podman.Client.
// In tests, this is satisfied by mock implementations.
type MachineLister interface {
	MachineList(ctx context.Context) ([]podman.MachineListEntry, error)
	MachineInspect(ctx context.Context, name string) (*podman.MachineInfo, error)
}

// ListConnections returns one connection per Podman machine, in the order
// podman lists them. Machines that cannot be inspected are logged and left
// out.
func ListConnections(ctx context.Context, machines MachineLister) ([]Connection, error) {
	entries, err := machines.MachineList(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}

	conns := make([]Connection, 0, len(entries))
	for _, entry := range entries {
		info, err := machines.MachineInspect(ctx, entry.Name)
		if err != nil {
			logrus.WithField("machine", entry.Name).WithError(err).Warn("skipping machine that cannot be inspected")
			continue
		}

		status := StatusStopped
		if entry.Running {
			status = StatusStarted
		}

		conn := Connection{
			Name:        entry.Name,
			DisplayName: naming.ConnectionDisplayName(entry.Name),
			Type:        ConnectionTypePodman,
			Endpoint:    endpointFor(info),
			Status:      status,
			Default:     entry.Default,
		}
		if conn.Endpoint == "" {
			logrus.WithField("machine", entry.Name).Debug("machine reports no API socket")
		}
		conns = append(conns, conn)
	}
	return conns, nil
}

// SelectConnection returns the first connection whose display name and type
// both match.
func SelectConnection(conns []Connection, displayName, connType string) (Connection, error) {
	for _, c := range conns {
		if c.DisplayName == displayName && c.Type == connType {
			return c, nil
		}
	}
	return Connection{}, fmt.Errorf("%w: %s (%s)", ErrConnectionNotFound, displayName, connType)
}

func endpointFor(info *podman.MachineInfo) string {
	if runtime.GOOS == "windows" && info.ConnectionInfo.PodmanPipe != nil && info.ConnectionInfo.PodmanPipe.Path != "" {
		return "npipe://" + info.ConnectionInfo.PodmanPipe.Path
	}
	if sock := info.SocketPath(); sock != "" {
		return "unix://" + sock
	}
	return ""
}
