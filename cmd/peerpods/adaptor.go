package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/spotlesstofu/podman-peerpods/internal/output"
	"github.com/spotlesstofu/podman-peerpods/internal/ui"
)

// Output flags
var (
	outputFormat string
	noHeaders    bool
)

var adaptorCmd = &cobra.Command{
	Use:   "adaptor",
	Short: "Manage the cloud-api-adaptor container",
}

func init() {
	adaptorCmd.AddCommand(adaptorStartCmd)

	for _, c := range []*cobra.Command{connectionsCmd, statusCmd} {
		c.Flags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, yaml, json")
		c.Flags().BoolVar(&noHeaders, "no-headers", false, "omit table headers")
	}
}

var adaptorStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Pull and start the cloud-api-adaptor container",
	Long: `Start the cloud-api-adaptor on the configured engine connection.

The environment file named by peerpods.environmentFile supplies the cloud
credentials. The installed flag is set once the container is created.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		res, err := s.ob.LaunchAdaptor(cmd.Context(), uuid.NewString())
		if err != nil {
			return err
		}
		fmt.Println(ui.SuccessMsg("Adaptor started on %s", res.Connection.DisplayName))
		fmt.Print(ui.KeyValues("  ",
			ui.KV("image", res.ImageID),
			ui.KV("container", res.ContainerID),
		))
		return nil
	},
}

var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "List container engine connections",
	Long: `List the engine connections of the Podman machines on this host.

The adaptor is started on the first connection whose name and type match
connection.name and connection.type in the settings.`,
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

		conns, err := s.ob.Connections(cmd.Context())
		if err != nil {
			return err
		}

		formatter, err := output.NewFormatter(output.Options{
			Format:    output.Format(outputFormat),
			NoHeaders: noHeaders,
		})
		if err != nil {
			return err
		}
		result, err := formatter.FormatConnections(conns)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		fmt.Print(result)
		return nil
	},
}
