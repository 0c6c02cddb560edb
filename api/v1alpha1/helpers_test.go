package v1alpha1

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewOnboarding(t *testing.T) {
	spec := OnboardingSpec{
		OSImage:        "quay.io/spotlesstofu/podman-cri:v0.1.0",
		AdaptorImage:   "quay.io/confidential-containers/cloud-api-adaptor:v0.12.0",
		ConnectionName: "Podman Machine",
	}
	o := NewOnboarding("podman-machine-default", spec)

	assert.Equal(t, "peerpods.spotlesstofu.io/v1alpha1", o.APIVersion)
	assert.Equal(t, "Onboarding", o.Kind)
	assert.Equal(t, "podman-machine-default", o.Name)
	assert.NotEmpty(t, o.UID)
	assert.Equal(t, int64(1), o.Generation)
	assert.False(t, o.CreationTimestamp.IsZero())
	assert.Equal(t, PhaseUninstalled, o.GetPhase())
	assert.False(t, o.Status.Installed)
	assert.Equal(t, spec, o.Spec)
}

func TestNewOnboardingUniqueUIDs(t *testing.T) {
	a := NewOnboarding("m", OnboardingSpec{})
	b := NewOnboarding("m", OnboardingSpec{})
	assert.NotEqual(t, a.UID, b.UID)
}

func TestSetDefaultAPIVersion(t *testing.T) {
	tests := []struct {
		name   string
		in     TypeMeta
		expect TypeMeta
	}{
		{"empty", TypeMeta{}, TypeMeta{Kind: OnboardingKind, APIVersion: GroupName + "/" + Version}},
		{"kind only", TypeMeta{Kind: "Custom"}, TypeMeta{Kind: "Custom", APIVersion: GroupName + "/" + Version}},
		{"already set", TypeMeta{Kind: "Onboarding", APIVersion: "x/v2"}, TypeMeta{Kind: "Onboarding", APIVersion: "x/v2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Onboarding{TypeMeta: tt.in}
			SetDefaultAPIVersion(o)
			assert.Equal(t, tt.expect, o.TypeMeta)
		})
	}
}

func TestDeepCopyIsIndependent(t *testing.T) {
	o := NewOnboarding("m", OnboardingSpec{})
	o.Labels = map[string]string{"a": "b"}
	o.Status.Conditions = []Condition{{Type: ConditionMachineReady, Status: ConditionTrue}}

	cp := o.DeepCopy()
	cp.Labels["a"] = "changed"
	cp.Status.Conditions[0].Status = ConditionFalse

	assert.Equal(t, "b", o.Labels["a"])
	assert.Equal(t, ConditionTrue, o.Status.Conditions[0].Status)
	assert.Nil(t, (*Onboarding)(nil).DeepCopy())
}

func TestTimeSerialization(t *testing.T) {
	ts := Time{Time: time.Date(2026, 10, 15, 8, 30, 0, 0, time.UTC)}

	j, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2026-10-15T08:30:00Z"`, string(j))

	var back Time
	require.NoError(t, json.Unmarshal(j, &back))
	assert.True(t, ts.Equal(back.Time))

	zero, err := json.Marshal(Time{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(zero))

	var fromNull Time
	require.NoError(t, json.Unmarshal([]byte("null"), &fromNull))
	assert.True(t, fromNull.IsZero())
}

func TestOnboardingYAMLShape(t *testing.T) {
	o := NewOnboarding("m", OnboardingSpec{OSImage: "img", AdaptorImage: "caa", ConnectionName: "Podman Machine"})
	o.Status.Phase = PhaseInstalled
	o.Status.Installed = true

	data, err := yaml.Marshal(o)
	require.NoError(t, err)

	var back Onboarding
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, o.Spec, back.Spec)
	assert.Equal(t, PhaseInstalled, back.Status.Phase)
	assert.True(t, back.Status.Installed)
	assert.Equal(t, o.UID, back.UID)
	assert.Contains(t, string(data), "kind: Onboarding")
}
