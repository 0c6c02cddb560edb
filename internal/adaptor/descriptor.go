// Package adaptor builds the launch descriptor for the cloud-api-adaptor
// container: its command line, environment, labels and the host paths it
// needs inside the Podman machine.
package adaptor

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/compose-spec/compose-go/v2/dotenv"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
)

// Paths inside the Podman machine.
const (
	RuntimeDir    = "/run/peerpod"
	SSHDir        = "/root/.ssh"
	NetnsDir      = "/run/netns"
	DataDir       = "/var/lib/peerpods"
	XtablesLock   = "/run/xtables.lock"
	KernelModules = "/lib/modules"

	HypervisorSocket = RuntimeDir + "/hypervisor.sock"
	PodsDir          = RuntimeDir + "/pods"
)

// ErrUnsupportedProvider is returned for providers with no known command line.
var ErrUnsupportedProvider = errors.New("unsupported cloud provider")

// Mount is a bind mount from the machine into the adaptor container.
type Mount struct {
	Source      string
	Target      string
	ReadOnly    bool
	Propagation mount.Propagation
}

// Descriptor describes one adaptor container launch. It is built fresh for
// every launch and never persisted.
type Descriptor struct {
	Name        string // empty lets the engine pick one
	Image       string
	Entrypoint  []string
	Cmd         []string
	EnvFiles    []string
	Env         []string
	Labels      map[string]string
	Mounts      []Mount
	NetworkMode string
	Privileged  bool
	Detach      bool
	Start       bool
}

// Options are the inputs to BuildDescriptor.
type Options struct {
	Name     string
	Image    string // image ID or reference
	Provider string
	EnvFile  string
	Env      []string // KEY=VALUE pairs read from EnvFile
	Labels   map[string]string
}

// providerFlags maps adaptor flags to the environment keys that fill them.
var providerFlags = map[string][][2]string{
	"azure": {
		{"-subscriptionid", "AZURE_SUBSCRIPTION_ID"},
		{"-region", "AZURE_REGION"},
		{"-instance-size", "AZURE_INSTANCE_SIZE"},
		{"-resourcegroup", "AZURE_RESOURCE_GROUP"},
		{"-subnetid", "AZURE_SUBNET_ID"},
		{"-securitygroupid", "AZURE_NSG_ID"},
		{"-imageid", "AZURE_IMAGE_ID"},
	},
}

// DefaultMounts returns the six bind mounts the adaptor needs.
func DefaultMounts() []Mount {
	return []Mount{
		{Source: RuntimeDir, Target: RuntimeDir},
		{Source: SSHDir, Target: SSHDir, ReadOnly: true},
		{Source: NetnsDir, Target: NetnsDir, Propagation: mount.PropagationRShared},
		{Source: DataDir, Target: DataDir},
		{Source: XtablesLock, Target: XtablesLock},
		{Source: KernelModules, Target: KernelModules, ReadOnly: true},
	}
}

// CommandLine returns the shell command starting the adaptor for provider.
// Flag values are shell variables expanded from the container environment.
func CommandLine(provider string) (string, error) {
	flags, ok := providerFlags[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}

	var b strings.Builder
	b.WriteString("exec cloud-api-adaptor ")
	b.WriteString(provider)
	for _, f := range flags {
		fmt.Fprintf(&b, ` %s "${%s}"`, f[0], f[1])
	}
	fmt.Fprintf(&b, " -socket %s -pods-dir %s", HypervisorSocket, PodsDir)
	return b.String(), nil
}

// LoadEnvFile reads a dotenv file and returns its entries as sorted
// KEY=VALUE pairs. Keys are not validated.
func LoadEnvFile(path string) ([]string, error) {
	values, err := dotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment file %s: %w", path, err)
	}
	env := make([]string, 0, len(values))
	for k, v := range values {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env, nil
}

// BuildDescriptor assembles the launch descriptor. The engine API takes
// variables rather than files, so callers load EnvFile into Env first
// (see LoadEnvFile).
func BuildDescriptor(opts Options) (*Descriptor, error) {
	if opts.Image == "" {
		return nil, fmt.Errorf("adaptor image is required")
	}
	cmdline, err := CommandLine(opts.Provider)
	if err != nil {
		return nil, err
	}

	labels := make(map[string]string, len(opts.Labels))
	for k, v := range opts.Labels {
		labels[k] = v
	}

	return &Descriptor{
		Name:        opts.Name,
		Image:       opts.Image,
		Entrypoint:  []string{"/bin/sh", "-c"},
		Cmd:         []string{cmdline},
		EnvFiles:    []string{opts.EnvFile},
		Env:         append([]string(nil), opts.Env...),
		Labels:      labels,
		Mounts:      DefaultMounts(),
		NetworkMode: "host",
		Privileged:  true,
		Detach:      true,
		Start:       true,
	}, nil
}

// ContainerConfig returns the engine container configuration.
func (d *Descriptor) ContainerConfig() *container.Config {
	return &container.Config{
		Image:        d.Image,
		Entrypoint:   d.Entrypoint,
		Cmd:          d.Cmd,
		Env:          d.Env,
		Labels:       d.Labels,
		AttachStdout: !d.Detach,
		AttachStderr: !d.Detach,
	}
}

// HostConfig returns the engine host configuration.
func (d *Descriptor) HostConfig() *container.HostConfig {
	hc := &container.HostConfig{
		NetworkMode: container.NetworkMode(d.NetworkMode),
		Privileged:  d.Privileged,
		Mounts:      make([]mount.Mount, 0, len(d.Mounts)),
	}
	for _, m := range d.Mounts {
		mnt := mount.Mount{
			Type:     mount.TypeBind,
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		}
		if m.Propagation != "" {
			mnt.BindOptions = &mount.BindOptions{Propagation: m.Propagation}
		}
		hc.Mounts = append(hc.Mounts, mnt)
	}
	return hc
}
