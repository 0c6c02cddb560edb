package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spotlesstofu/podman-peerpods/internal/config"
	"github.com/spotlesstofu/podman-peerpods/internal/onboard"
	"github.com/spotlesstofu/podman-peerpods/internal/ui"
	"github.com/spotlesstofu/podman-peerpods/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "React to settings changes until interrupted",
	Long: `Watch the settings file and call the configuration hooks of every
section that changes. A running adaptor is not restarted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		w := watcher.New(s.settingsPath, version, s.settings)
		w.Register(config.SectionPeerPods, "update-configuration", onboard.UpdateConfiguration)
		fmt.Println(ui.InfoMsg("Watching %s", s.settingsPath))
		return w.Run(cmd.Context())
	},
}
