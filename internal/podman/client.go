package podman

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/spotlesstofu/podman-peerpods/internal/naming"
)

// Client runs podman machine commands.
type Client struct {
	binary string
	runner Runner
}

// NewClient returns a Client invoking binary through runner.
// An empty binary means "podman" on PATH; a nil runner means ExecRunner.
func NewClient(binary string, runner Runner) *Client {
	if binary == "" {
		binary = "podman"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Client{binary: binary, runner: runner}
}

// InitOptions are the flags passed to podman machine init.
type InitOptions struct {
	Name    string
	Rootful bool
	Now     bool
}

// MachineListEntry is one element of podman machine list --format json.
type MachineListEntry struct {
	Name     string `json:"Name"`
	Default  bool   `json:"Default"`
	Running  bool   `json:"Running"`
	Starting bool   `json:"Starting"`
	VMType   string `json:"VMType"`
}

// MachineInfo is one element of podman machine inspect.
type MachineInfo struct {
	Name           string         `json:"Name"`
	State          string         `json:"State"`
	Rootful        bool           `json:"Rootful"`
	ConnectionInfo ConnectionInfo `json:"ConnectionInfo"`
}

// ConnectionInfo holds the machine's API endpoints.
type ConnectionInfo struct {
	PodmanSocket *VMFile `json:"PodmanSocket"`
	PodmanPipe   *VMFile `json:"PodmanPipe"`
}

// VMFile is a path on the host.
type VMFile struct {
	Path string `json:"Path"`
}

// SocketPath returns the host path of the machine's podman API socket, or
// "" when podman did not report one.
func (m *MachineInfo) SocketPath() string {
	if m.ConnectionInfo.PodmanSocket == nil {
		return ""
	}
	return m.ConnectionInfo.PodmanSocket.Path
}

// MachineInit runs podman machine init.
func (c *Client) MachineInit(ctx context.Context, opts InitOptions) error {
	args := []string{"machine", "init"}
	if opts.Rootful {
		args = append(args, "--rootful")
	}
	if opts.Now {
		args = append(args, "--now")
	}
	args = append(args, naming.MachineName(opts.Name))
	_, err := c.run(ctx, args...)
	return err
}

// MachineOSApply runs podman machine os apply. With restart the machine is
// rebooted into the new image.
func (c *Client) MachineOSApply(ctx context.Context, name, image string, restart bool) error {
	args := []string{"machine", "os", "apply"}
	if restart {
		args = append(args, "--restart")
	}
	args = append(args, image, naming.MachineName(name))
	_, err := c.run(ctx, args...)
	return err
}

// MachineSSH runs script on the machine as username and returns its stdout.
func (c *Client) MachineSSH(ctx context.Context, name, username, script string) (string, error) {
	args := []string{"machine", "ssh"}
	if username != "" {
		args = append(args, "--username", username)
	}
	args = append(args, naming.MachineName(name), script)
	out, err := c.run(ctx, args...)
	return string(out), err
}

// MachineList returns the machines known to podman.
func (c *Client) MachineList(ctx context.Context) ([]MachineListEntry, error) {
	out, err := c.run(ctx, "machine", "list", "--format", "json")
	if err != nil {
		return nil, err
	}
	var entries []MachineListEntry
	if err := json.Unmarshal(out, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse machine list: %w", err)
	}
	return entries, nil
}

// MachineInspect returns details of one machine.
func (c *Client) MachineInspect(ctx context.Context, name string) (*MachineInfo, error) {
	name = naming.MachineName(name)
	out, err := c.run(ctx, "machine", "inspect", name)
	if err != nil {
		return nil, err
	}
	var infos []MachineInfo
	if err := json.Unmarshal(out, &infos); err != nil {
		return nil, fmt.Errorf("failed to parse machine inspect: %w", err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("machine %q not reported by inspect", name)
	}
	return &infos[0], nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	logrus.WithField("args", args).Debug("running podman")
	stdout, stderr, err := c.runner.Run(ctx, c.binary, args...)
	if err != nil {
		return stdout, &CommandError{
			Args:     args,
			Stderr:   string(stderr),
			ExitCode: exitCode(err),
			Err:      err,
		}
	}
	return stdout, nil
}
