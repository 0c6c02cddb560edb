package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spotlesstofu/podman-peerpods/internal/naming"
	"github.com/spotlesstofu/podman-peerpods/internal/ui"
)

// Machine commands run single onboarding steps.
var machineCmd = &cobra.Command{
	Use:   "machine",
	Short: "Run the Podman machine steps one at a time",
}

func init() {
	machineCmd.AddCommand(machineInitCmd)
	machineCmd.AddCommand(machineApplyOSCmd)
	machineCmd.AddCommand(machinePrepareCmd)
}

var machineInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize and start the Podman machine",
	Long: `Run podman machine init --now for the configured machine.

A machine that already exists is left as is and reported as success.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.ob.ProvisionMachine(cmd.Context()); err != nil {
			return err
		}
		fmt.Println(ui.SuccessMsg("Machine %s is up", naming.MachineName(s.settings.Machine.Name)))
		return nil
	},
}

var machineApplyOSCmd = &cobra.Command{
	Use:   "apply-os",
	Short: "Apply the peer-pods OS image to the machine",
	Long: `Run podman machine os apply --restart with the configured OS image.

An image that is already deployed is reported as success.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.ob.ApplyOS(cmd.Context()); err != nil {
			return err
		}
		fmt.Println(ui.SuccessMsg("Machine runs %s", s.settings.Machine.OSImage))
		return nil
	},
}

var machinePrepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Create the adaptor's host paths inside the machine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.ob.PrepareMachine(cmd.Context()); err != nil {
			return err
		}
		fmt.Println(ui.SuccessMsg("Machine prepared"))
		return nil
	},
}
