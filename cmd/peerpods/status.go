package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spotlesstofu/podman-peerpods/internal/output"
	"github.com/spotlesstofu/podman-peerpods/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the installed flag and the last onboarding session",
	Long: `Show whether peer pods are installed and how the last onboarding went.

Output formats:
  -o table  Human-readable table (default)
  -o yaml   Full YAML Onboarding resource
  -o json   Full JSON Onboarding resource`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := output.ValidateFormat(outputFormat); err != nil {
			return err
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		report, err := s.ob.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read status: %w", err)
		}

		formatter, err := output.NewFormatter(output.Options{
			Format:    output.Format(outputFormat),
			NoHeaders: noHeaders,
		})
		if err != nil {
			return err
		}
		result, err := formatter.FormatOnboarding(report.Session)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}

		if output.Format(outputFormat) == output.FormatTable {
			fmt.Print(ui.KeyValues("", ui.KV("installed", ui.Bool(report.Installed))))
			if report.Interrupted {
				fmt.Println(ui.WarnMsg("Last onboarding was interrupted during %s; run onboard again", report.Session.Status.Phase))
			}
			if report.Session != nil && report.Session.Status.Message != "" {
				fmt.Println(ui.WarnMsg("%s", report.Session.Status.Message))
			}
			fmt.Println()
		}
		fmt.Print(result)
		return nil
	},
}
