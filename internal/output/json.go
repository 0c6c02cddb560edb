package output

import (
	"encoding/json"
	"fmt"

	"github.com/spotlesstofu/podman-peerpods/api/v1alpha1"
	"github.com/spotlesstofu/podman-peerpods/internal/engine"
)

// JSONFormatter formats resources as JSON.
type JSONFormatter struct{}

// FormatOnboarding formats a session as JSON. A missing session is null.
func (f *JSONFormatter) FormatOnboarding(o *v1alpha1.Onboarding) (string, error) {
	if o == nil {
		return "null\n", nil
	}
	v1alpha1.SetDefaultAPIVersion(o)

	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal onboarding to JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// FormatConnections formats connections as a JSON array.
func (f *JSONFormatter) FormatConnections(conns []engine.Connection) (string, error) {
	if len(conns) == 0 {
		return "[]\n", nil
	}

	data, err := json.MarshalIndent(conns, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal connections to JSON: %w", err)
	}
	return string(data) + "\n", nil
}
