// Package podman is a thin adapter over the podman command line.
//
// Only the machine subcommands needed to onboard peer pods are wrapped:
//
//	podman machine init [--rootful] --now NAME
//	podman machine os apply --restart IMAGE NAME
//	podman machine ssh --username root NAME SCRIPT
//	podman machine list --format json
//	podman machine inspect NAME
//
// Failures come back as *CommandError carrying the captured stderr. Whether
// a failure is actually a success in disguise ("already exists", "refs are
// equal") is decided in one place, Classify:
//
//	err := client.MachineInit(ctx, podman.InitOptions{Name: name, Now: true})
//	if podman.OutcomeOf(err) == podman.OutcomeAlreadyExists {
//	    // machine is there; carry on
//	}
package podman
