package onboard

import (
	"errors"
	"fmt"
)

// ErrInvalidEnvFile is returned when peerpods.environmentFile is missing,
// empty or not a string.
var ErrInvalidEnvFile = errors.New("peerpods.environmentFile must be a non-empty string")

// Step names a stage of the onboarding recipe.
type Step string

const (
	StepMachineInit    Step = "machine init"
	StepOSApply        Step = "machine os apply"
	StepMachinePrepare Step = "machine prepare"
	StepAdaptorLaunch  Step = "adaptor launch"
)

// StepError reports which step of Run failed. Its message carries the
// underlying error text unchanged.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
