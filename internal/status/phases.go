package status

import (
	"fmt"

	"github.com/spotlesstofu/podman-peerpods/api/v1alpha1"
)

// TransitionToMachineProvisioning starts a session.
// Allowed from Uninstalled, Installed (re-run) and Failed (retry by hand).
func TransitionToMachineProvisioning(o *v1alpha1.Onboarding) error {
	switch o.GetPhase() {
	case v1alpha1.PhaseUninstalled, v1alpha1.PhaseInstalled, v1alpha1.PhaseFailed, "":
	default:
		return fmt.Errorf("cannot transition to %s from phase %s", v1alpha1.PhaseMachineProvisioning, o.GetPhase())
	}

	o.SetPhase(v1alpha1.PhaseMachineProvisioning)
	SetCondition(o, v1alpha1.ConditionMachineReady, v1alpha1.ConditionUnknown, "Provisioning", "podman machine init in progress")
	return nil
}

// TransitionToOSApplying marks the machine ready and moves on to the OS image.
func TransitionToOSApplying(o *v1alpha1.Onboarding) error {
	if o.GetPhase() != v1alpha1.PhaseMachineProvisioning {
		return fmt.Errorf("cannot transition to %s from phase %s", v1alpha1.PhaseOSApplying, o.GetPhase())
	}

	o.SetPhase(v1alpha1.PhaseOSApplying)
	SetCondition(o, v1alpha1.ConditionMachineReady, v1alpha1.ConditionTrue, "MachineRunning", "podman machine is initialized")
	SetCondition(o, v1alpha1.ConditionOSApplied, v1alpha1.ConditionUnknown, "Applying", "podman machine os apply in progress")
	return nil
}

// TransitionToAdaptorLaunching marks the OS applied and moves on to the adaptor.
func TransitionToAdaptorLaunching(o *v1alpha1.Onboarding) error {
	if o.GetPhase() != v1alpha1.PhaseOSApplying {
		return fmt.Errorf("cannot transition to %s from phase %s", v1alpha1.PhaseAdaptorLaunching, o.GetPhase())
	}

	o.SetPhase(v1alpha1.PhaseAdaptorLaunching)
	SetCondition(o, v1alpha1.ConditionOSApplied, v1alpha1.ConditionTrue, "OSApplied", fmt.Sprintf("machine runs %s", o.Spec.OSImage))
	SetCondition(o, v1alpha1.ConditionAdaptorRunning, v1alpha1.ConditionUnknown, "Launching", "pulling and starting cloud-api-adaptor")
	return nil
}

// TransitionToInstalled records the adaptor container and completes the session.
func TransitionToInstalled(o *v1alpha1.Onboarding, containerID string) error {
	if o.GetPhase() != v1alpha1.PhaseAdaptorLaunching {
		return fmt.Errorf("cannot transition to %s from phase %s", v1alpha1.PhaseInstalled, o.GetPhase())
	}

	o.SetPhase(v1alpha1.PhaseInstalled)
	o.Status.ContainerID = containerID
	o.Status.Installed = true
	o.Status.Message = ""
	SetCondition(o, v1alpha1.ConditionAdaptorRunning, v1alpha1.ConditionTrue, "ContainerCreated", fmt.Sprintf("adaptor container %s started", shortID(containerID)))
	return nil
}

// TransitionToUninstalled resets the session after teardown.
func TransitionToUninstalled(o *v1alpha1.Onboarding) {
	o.SetPhase(v1alpha1.PhaseUninstalled)
	o.Status.Installed = false
	SetCondition(o, v1alpha1.ConditionAdaptorRunning, v1alpha1.ConditionFalse, "TornDown", "onboarding was torn down")
}

// TransitionToFailed can happen from any phase. The condition of the step
// that was running is set False; earlier conditions are left alone.
func TransitionToFailed(o *v1alpha1.Onboarding, reason string, err error) {
	if condType := conditionForPhase(o.GetPhase()); condType != "" {
		SetCondition(o, condType, v1alpha1.ConditionFalse, reason, err.Error())
	}
	o.SetPhase(v1alpha1.PhaseFailed)
	o.Status.Message = err.Error()
}

// IsTransitioning reports whether a step is in flight in the given phase.
func IsTransitioning(phase v1alpha1.OnboardingPhase) bool {
	switch phase {
	case v1alpha1.PhaseMachineProvisioning, v1alpha1.PhaseOSApplying, v1alpha1.PhaseAdaptorLaunching:
		return true
	}
	return false
}

func conditionForPhase(phase v1alpha1.OnboardingPhase) string {
	switch phase {
	case v1alpha1.PhaseMachineProvisioning:
		return v1alpha1.ConditionMachineReady
	case v1alpha1.PhaseOSApplying:
		return v1alpha1.ConditionOSApplied
	case v1alpha1.PhaseAdaptorLaunching:
		return v1alpha1.ConditionAdaptorRunning
	}
	return ""
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
