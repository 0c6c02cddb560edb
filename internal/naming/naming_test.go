package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachineName(t *testing.T) {
	assert.Equal(t, "podman-machine-default", MachineName(""))
	assert.Equal(t, "peerpods", MachineName("peerpods"))
}

func TestConnectionDisplayName(t *testing.T) {
	tests := []struct {
		machine string
		want    string
	}{
		{"", "Podman Machine"},
		{"podman-machine-default", "Podman Machine"},
		{"peerpods", "Podman Machine peerpods"},
	}
	for _, tt := range tests {
		t.Run(tt.machine, func(t *testing.T) {
			assert.Equal(t, tt.want, ConnectionDisplayName(tt.machine))
		})
	}
}

func TestAdaptorLabels(t *testing.T) {
	labels := AdaptorLabels("", "uid-1")
	assert.Equal(t, "true", labels[LabelManaged])
	assert.Equal(t, "podman-machine-default", labels[LabelMachine])
	assert.Equal(t, "uid-1", labels[LabelSession])
}

func TestNormalizeImage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"busybox", "docker.io/library/busybox:latest"},
		{"quay.io/confidential-containers/cloud-api-adaptor:v0.12.0", "quay.io/confidential-containers/cloud-api-adaptor:v0.12.0"},
		{"quay.io/spotlesstofu/podman-cri", "quay.io/spotlesstofu/podman-cri:latest"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeImage(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NormalizeImage("Not A Ref")
	assert.Error(t, err)
}

func TestImageMatches(t *testing.T) {
	ref := "quay.io/confidential-containers/cloud-api-adaptor:v0.12.0"

	assert.True(t, ImageMatches([]string{"quay.io/confidential-containers/cloud-api-adaptor:v0.12.0"}, ref))
	assert.True(t, ImageMatches([]string{"localhost/other:1", ref}, ref))
	assert.False(t, ImageMatches([]string{"quay.io/confidential-containers/cloud-api-adaptor:v0.11.0"}, ref))
	assert.False(t, ImageMatches(nil, ref))
	assert.True(t, ImageMatches([]string{"docker.io/library/busybox:latest"}, "busybox"))
}
