// Package onboard brings peer pods up on a Podman machine.
//
// This package orchestrates the low-level components (podman, engine,
// adaptor, state) into the operations the CLI exposes:
//   - ProvisionMachine: podman machine init, tolerating "already exists"
//   - ApplyOS: podman machine os apply, tolerating "refs are equal"
//   - PrepareMachine: create the adaptor's host paths inside the machine
//   - LaunchAdaptor: pull and start the cloud-api-adaptor container
//   - Run: all of the above, recorded as an Onboarding session
//   - Teardown: reset the installed flag, optionally remove the adaptor
//
// Error Handling:
//
// Nothing is retried and nothing is rolled back. A failed step is logged
// and returned; Run wraps it in a *StepError naming the step. The
// installed flag keeps whatever value was last written explicitly.
//
// Context Support:
//
// All operations accept a context.Context. No timeouts are applied; the
// caller decides when to cancel.
package onboard
