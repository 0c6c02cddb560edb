package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotlesstofu/podman-peerpods/api/v1alpha1"
)

func TestSetConditionAppendsAndUpdates(t *testing.T) {
	o := newSession()

	SetCondition(o, v1alpha1.ConditionMachineReady, v1alpha1.ConditionUnknown, "Provisioning", "starting")
	require.Len(t, o.Status.Conditions, 1)
	first := o.Status.Conditions[0].LastTransitionTime

	time.Sleep(10 * time.Millisecond)
	SetCondition(o, v1alpha1.ConditionMachineReady, v1alpha1.ConditionUnknown, "StillProvisioning", "waiting")
	require.Len(t, o.Status.Conditions, 1)
	assert.Equal(t, first, o.Status.Conditions[0].LastTransitionTime, "same status keeps transition time")
	assert.Equal(t, "StillProvisioning", o.Status.Conditions[0].Reason)

	SetCondition(o, v1alpha1.ConditionMachineReady, v1alpha1.ConditionTrue, "MachineRunning", "up")
	assert.True(t, o.Status.Conditions[0].LastTransitionTime.After(first.Time))
}

func TestGetConditionMissing(t *testing.T) {
	o := newSession()
	assert.Nil(t, GetCondition(o, v1alpha1.ConditionOSApplied))
	assert.False(t, IsConditionTrue(o, v1alpha1.ConditionOSApplied))
}
