package v1alpha1

// Onboarding is one run of the peer-pods bring-up recipe against a Podman
// machine: provision the machine, apply the OS image, launch the
// cloud-api-adaptor container.
//
// Spec records what the run was asked to do. Status records how far it got.
type Onboarding struct {
	TypeMeta `json:",inline" yaml:",inline"`

	// +optional
	ObjectMeta `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	Spec OnboardingSpec `json:"spec" yaml:"spec"`

	// +optional
	Status OnboardingStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

// OnboardingSpec defines the desired state of an onboarding session.
type OnboardingSpec struct {
	// MachineName is the Podman machine to provision. Empty means the
	// Podman default machine.
	// +optional
	MachineName string `json:"machineName,omitempty" yaml:"machineName,omitempty"`

	// Rootful initializes the machine with --rootful.
	// +optional
	Rootful bool `json:"rootful,omitempty" yaml:"rootful,omitempty"`

	// OSImage is the container image applied with `machine os apply`.
	OSImage string `json:"osImage" yaml:"osImage"`

	// AdaptorImage is the cloud-api-adaptor container image.
	AdaptorImage string `json:"adaptorImage" yaml:"adaptorImage"`

	// ConnectionName is the display name of the engine connection the
	// adaptor is launched on.
	ConnectionName string `json:"connectionName" yaml:"connectionName"`

	// EnvFile is the cloud-provider environment file handed to the adaptor.
	// +optional
	EnvFile string `json:"envFile,omitempty" yaml:"envFile,omitempty"`
}

// OnboardingStatus defines the observed state of an onboarding session.
type OnboardingStatus struct {
	// Phase is the current step of the session.
	// +optional
	Phase OnboardingPhase `json:"phase,omitempty" yaml:"phase,omitempty"`

	// Conditions track the machine, OS and adaptor separately.
	// +optional
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`

	// Installed mirrors the peerpodsIsInstalled flag at the end of the run.
	// +optional
	Installed bool `json:"installed,omitempty" yaml:"installed,omitempty"`

	// ConnectionEndpoint is the engine socket the adaptor was launched on.
	// +optional
	ConnectionEndpoint string `json:"connectionEndpoint,omitempty" yaml:"connectionEndpoint,omitempty"`

	// ImageID is the local image record the adaptor container was created from.
	// +optional
	ImageID string `json:"imageID,omitempty" yaml:"imageID,omitempty"`

	// ContainerID is the adaptor container.
	// +optional
	ContainerID string `json:"containerID,omitempty" yaml:"containerID,omitempty"`

	// Message is the last error, if the session failed.
	// +optional
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// OnboardingPhase is a step of the bring-up recipe.
type OnboardingPhase string

const (
	// PhaseUninstalled is the initial and the torn-down state.
	PhaseUninstalled OnboardingPhase = "Uninstalled"
	// PhaseMachineProvisioning means `machine init` is running.
	PhaseMachineProvisioning OnboardingPhase = "MachineProvisioning"
	// PhaseOSApplying means `machine os apply` is running.
	PhaseOSApplying OnboardingPhase = "OSApplying"
	// PhaseAdaptorLaunching means the adaptor image is being pulled and started.
	PhaseAdaptorLaunching OnboardingPhase = "AdaptorLaunching"
	// PhaseInstalled means the adaptor container was created.
	PhaseInstalled OnboardingPhase = "Installed"
	// PhaseFailed means a step failed. Nothing is rolled back.
	PhaseFailed OnboardingPhase = "Failed"
)

// Condition types.
const (
	ConditionMachineReady   = "MachineReady"
	ConditionOSApplied      = "OSApplied"
	ConditionAdaptorRunning = "AdaptorRunning"
)
