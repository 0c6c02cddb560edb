package output

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/spotlesstofu/podman-peerpods/api/v1alpha1"
	"github.com/spotlesstofu/podman-peerpods/internal/engine"
)

// YAMLFormatter formats resources as YAML.
type YAMLFormatter struct{}

// FormatOnboarding formats a session as YAML. A missing session is empty.
func (f *YAMLFormatter) FormatOnboarding(o *v1alpha1.Onboarding) (string, error) {
	if o == nil {
		return "", nil
	}
	v1alpha1.SetDefaultAPIVersion(o)

	data, err := yaml.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("failed to marshal onboarding to YAML: %w", err)
	}
	return string(data), nil
}

// FormatConnections formats connections as a YAML sequence.
func (f *YAMLFormatter) FormatConnections(conns []engine.Connection) (string, error) {
	if len(conns) == 0 {
		return "[]\n", nil
	}

	data, err := yaml.Marshal(conns)
	if err != nil {
		return "", fmt.Errorf("failed to marshal connections to YAML: %w", err)
	}
	return string(data), nil
}
