package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spotlesstofu/podman-peerpods/internal/naming"
)

// Section and key names understood by Lookup.
const (
	SectionPeerPods    = "peerpods"
	SectionMachine     = "machine"
	SectionAdaptor     = "adaptor"
	SectionConnection  = "connection"
	KeyEnvironmentFile = "environmentFile"
)

// Defaults.
const (
	DefaultOSImageRepository = "quay.io/spotlesstofu/podman-cri"
	DefaultAdaptorImage      = "quay.io/confidential-containers/cloud-api-adaptor:v0.12.0"
	DefaultProvider          = "azure"
	DefaultConnectionType    = "podman"
	DefaultPodmanBinary      = "podman"
)

// supportedProviders lists the cloud-api-adaptor providers whose command
// line is known.
var supportedProviders = map[string]bool{
	"azure": true,
}

// Settings is the peer-pods configuration file.
//
// The typed fields cover everything with a known shape. Sections keeps the
// raw decoded document so values can be looked up by section and key
// without assuming their type, as a host configuration API would.
type Settings struct {
	Machine    MachineConfig    `yaml:"machine"`
	Adaptor    AdaptorConfig    `yaml:"adaptor"`
	Connection ConnectionConfig `yaml:"connection"`

	Sections map[string]map[string]any `yaml:"-"`
}

// MachineConfig describes the Podman machine to provision.
type MachineConfig struct {
	Name       string   `yaml:"name,omitempty"` // empty means the Podman default machine
	Rootful    *bool    `yaml:"rootful,omitempty"`
	OSImage    string   `yaml:"osImage,omitempty"`
	DNSServers []string `yaml:"dnsServers,omitempty"`
	PodmanPath string   `yaml:"podmanPath,omitempty"`
}

// AdaptorConfig describes the cloud-api-adaptor container.
type AdaptorConfig struct {
	Image         string `yaml:"image,omitempty"`
	Provider      string `yaml:"provider,omitempty"`
	ContainerName string `yaml:"containerName,omitempty"` // empty lets the engine pick one
}

// ConnectionConfig selects the container engine connection.
type ConnectionConfig struct {
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type,omitempty"`
}

// Lookup returns the raw value stored under section.key.
func (s *Settings) Lookup(section, key string) (any, bool) {
	if s == nil || s.Sections == nil {
		return nil, false
	}
	sec, ok := s.Sections[section]
	if !ok {
		return nil, false
	}
	v, ok := sec[key]
	return v, ok
}

// IsRootful returns whether the machine is initialized with --rootful.
// Defaults to true.
func (m *MachineConfig) IsRootful() bool {
	if m.Rootful == nil {
		return true
	}
	return *m.Rootful
}

// Normalize trims user input and fills in defaults.
// version is the build version; it tags the default OS image.
func (s *Settings) Normalize(version string) {
	s.Machine.Name = strings.TrimSpace(s.Machine.Name)
	if s.Machine.OSImage == "" {
		s.Machine.OSImage = DefaultOSImage(version)
	}
	if s.Machine.PodmanPath == "" {
		s.Machine.PodmanPath = DefaultPodmanBinary
	}

	if s.Adaptor.Image == "" {
		s.Adaptor.Image = DefaultAdaptorImage
	}
	s.Adaptor.Provider = strings.ToLower(strings.TrimSpace(s.Adaptor.Provider))
	if s.Adaptor.Provider == "" {
		s.Adaptor.Provider = DefaultProvider
	}

	// The adaptor must land on the machine the recipe provisions.
	if s.Connection.Name == "" {
		s.Connection.Name = naming.ConnectionDisplayName(naming.MachineName(s.Machine.Name))
	}
	if s.Connection.Type == "" {
		s.Connection.Type = DefaultConnectionType
	}
}

// Validate checks the configuration structure. It does not look at the
// environment file; that is the adaptor launcher's job.
func (s *Settings) Validate() error {
	if s.Machine.Name != "" {
		matched, err := regexp.MatchString(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`, s.Machine.Name)
		if err != nil {
			return fmt.Errorf("machine.name validation error: %w", err)
		}
		if !matched {
			return fmt.Errorf("machine.name must start with an alphanumeric character and contain only alphanumerics, '_', '.' or '-', got %q", s.Machine.Name)
		}
	}
	if s.Machine.OSImage == "" {
		return fmt.Errorf("machine.osImage is required")
	}
	for i, dns := range s.Machine.DNSServers {
		if net.ParseIP(dns) == nil {
			return fmt.Errorf("machine.dnsServers[%d] is not a valid IP address: %q", i, dns)
		}
	}

	if s.Adaptor.Image == "" {
		return fmt.Errorf("adaptor.image is required")
	}
	if !supportedProviders[s.Adaptor.Provider] {
		return fmt.Errorf("adaptor.provider %q is not supported (supported: azure)", s.Adaptor.Provider)
	}

	if s.Connection.Name == "" {
		return fmt.Errorf("connection.name is required")
	}
	if s.Connection.Type == "" {
		return fmt.Errorf("connection.type is required")
	}
	return nil
}

// DefaultOSImage returns the machine OS image for a build version.
// Development builds track the latest tag.
func DefaultOSImage(version string) string {
	if version == "" || version == "dev" {
		return DefaultOSImageRepository + ":latest"
	}
	return DefaultOSImageRepository + ":" + version
}

// DefaultPath returns $XDG_CONFIG_HOME/peerpods/settings.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "peerpods", "settings.yaml"), nil
}

// DefaultStatePath returns the onboarding context database path, next to
// the settings file.
func DefaultStatePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "peerpods", "context.db"), nil
}
