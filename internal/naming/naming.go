// Package naming holds the naming conventions shared by the machine,
// engine and adaptor code: machine names, connection display names,
// container labels and image references.
package naming

import (
	"fmt"

	"github.com/distribution/reference"
)

const (
	// DefaultMachineName is the machine podman creates when none is named.
	DefaultMachineName = "podman-machine-default"

	// ConnectionDisplayPrefix is how machine connections are presented to users.
	ConnectionDisplayPrefix = "Podman Machine"

	// ContextNamespace is the key/value context namespace for onboarding state.
	ContextNamespace = "peerpods"

	// InstalledKey is the context key holding the installed flag.
	InstalledKey = "peerpodsIsInstalled"

	// SessionKey is the context key holding the last onboarding session.
	SessionKey = "session"
)

// Container labels put on the adaptor container.
const (
	LabelManaged = "io.github.spotlesstofu.peerpods.managed"
	LabelSession = "io.github.spotlesstofu.peerpods.session"
	LabelMachine = "io.github.spotlesstofu.peerpods.machine"
)

// MachineName returns name, or the podman default machine name when empty.
func MachineName(name string) string {
	if name == "" {
		return DefaultMachineName
	}
	return name
}

// ConnectionDisplayName returns the user-facing name of a machine's engine
// connection. The default machine is plain "Podman Machine"; others carry
// their machine name.
//
// Example: "peerpods" → "Podman Machine peerpods"
func ConnectionDisplayName(machineName string) string {
	if machineName == "" || machineName == DefaultMachineName {
		return ConnectionDisplayPrefix
	}
	return fmt.Sprintf("%s %s", ConnectionDisplayPrefix, machineName)
}

// AdaptorLabels returns the labels identifying an adaptor container.
func AdaptorLabels(machineName, sessionUID string) map[string]string {
	return map[string]string{
		LabelManaged: "true",
		LabelMachine: MachineName(machineName),
		LabelSession: sessionUID,
	}
}

// NormalizeImage returns the fully qualified, tagged form of an image
// reference. "busybox" → "docker.io/library/busybox:latest".
func NormalizeImage(ref string) (string, error) {
	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return "", fmt.Errorf("invalid image reference %q: %w", ref, err)
	}
	return reference.TagNameOnly(named).String(), nil
}

// ImageMatches reports whether any of repoTags names the same image as ref.
func ImageMatches(repoTags []string, ref string) bool {
	want, err := NormalizeImage(ref)
	if err != nil {
		return false
	}
	for _, tag := range repoTags {
		got, err := NormalizeImage(tag)
		if err != nil {
			continue
		}
		if got == want {
			return true
		}
	}
	return false
}
