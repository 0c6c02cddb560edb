package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

const (
	// GroupName is the API group for peer-pods resources.
	GroupName = "peerpods.spotlesstofu.io"

	// Version is the API version.
	Version = "v1alpha1"

	// OnboardingKind is the kind string for Onboarding resources.
	OnboardingKind = "Onboarding"
)

// NewOnboarding creates an Onboarding in the Uninstalled phase with a fresh UID.
func NewOnboarding(name string, spec OnboardingSpec) *Onboarding {
	return &Onboarding{
		TypeMeta: TypeMeta{
			APIVersion: GroupName + "/" + Version,
			Kind:       OnboardingKind,
		},
		ObjectMeta: ObjectMeta{
			Name:              name,
			UID:               uuid.New().String(),
			CreationTimestamp: Time{Time: time.Now()},
			Generation:        1,
		},
		Spec: spec,
		Status: OnboardingStatus{
			Phase: PhaseUninstalled,
		},
	}
}

// SetDefaultAPIVersion fills apiVersion and kind when they are missing.
func SetDefaultAPIVersion(o *Onboarding) {
	if o.APIVersion == "" {
		o.APIVersion = GroupName + "/" + Version
	}
	if o.Kind == "" {
		o.Kind = OnboardingKind
	}
}

// SetPhase sets the session phase.
func (o *Onboarding) SetPhase(phase OnboardingPhase) {
	o.Status.Phase = phase
}

// GetPhase returns the session phase.
func (o *Onboarding) GetPhase() OnboardingPhase {
	return o.Status.Phase
}

// DeepCopy returns a copy that shares no slices or maps with o.
func (o *Onboarding) DeepCopy() *Onboarding {
	if o == nil {
		return nil
	}
	out := new(Onboarding)
	*out = *o
	if o.Labels != nil {
		out.Labels = make(map[string]string, len(o.Labels))
		for k, v := range o.Labels {
			out.Labels[k] = v
		}
	}
	if o.Status.Conditions != nil {
		out.Status.Conditions = make([]Condition, len(o.Status.Conditions))
		copy(out.Status.Conditions, o.Status.Conditions)
	}
	return out
}
