package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spotlesstofu/podman-peerpods/internal/config"
	"github.com/spotlesstofu/podman-peerpods/internal/loader"
	"github.com/spotlesstofu/podman-peerpods/internal/logging"
	"github.com/spotlesstofu/podman-peerpods/internal/onboard"
	"github.com/spotlesstofu/podman-peerpods/internal/state"
	"github.com/spotlesstofu/podman-peerpods/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
)

// Global flags
var (
	configPath string
	statePath  string
	logLevel   string
	logFormat  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorMsg("%v", err))
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "peerpods",
	Short: "peerpods - confidential containers peer pods on a Podman machine",
	Long: `peerpods prepares a Podman machine for peer pods.

It initializes the machine, applies the peer-pods OS image to it and starts
the cloud-api-adaptor container that turns pod sandboxes into cloud VMs.
Cloud credentials come from an environment file named in the settings.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Configure(logLevel, logFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/peerpods/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "onboarding context database (default next to the settings file)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text, json")

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(teardownCmd)
	rootCmd.AddCommand(machineCmd)
	rootCmd.AddCommand(adaptorCmd)
	rootCmd.AddCommand(connectionsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

// session bundles what most commands need.
type session struct {
	settingsPath string
	settings     *config.Settings
	store        *state.Store
	ob           *onboard.Onboarder
}

func resolveSettingsPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func resolveStatePath() (string, error) {
	if statePath != "" {
		return statePath, nil
	}
	return config.DefaultStatePath()
}

// openSession loads the settings and opens the context store.
// The caller must call close.
func openSession() (*session, error) {
	path, err := resolveSettingsPath()
	if err != nil {
		return nil, err
	}
	settings, err := loader.LoadOrDefault(path, version)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	sp, err := resolveStatePath()
	if err != nil {
		return nil, err
	}
	store, err := state.Open(sp)
	if err != nil {
		return nil, fmt.Errorf("failed to open onboarding context: %w", err)
	}

	return &session{
		settingsPath: path,
		settings:     settings,
		store:        store,
		ob:           onboard.New(settings, store),
	}, nil
}

func (s *session) close() {
	if err := s.store.Close(); err != nil {
		fmt.Fprintln(os.Stderr, ui.WarnMsg("failed to close onboarding context: %v", err))
	}
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Provision the machine, apply the OS image and start the adaptor",
	Long: `Run the whole peer-pods onboarding:

1. podman machine init --now (an existing machine is reused)
2. podman machine os apply --restart (an already applied image is kept)
3. create the adaptor's host paths inside the machine
4. pull and start the cloud-api-adaptor container

Nothing is rolled back on failure; fix the cause and run onboard again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		ctx := cmd.Context()
		if err := s.ob.Activate(ctx); err != nil {
			return err
		}

		sess, err := s.ob.Run(ctx)
		if err != nil {
			var stepErr *onboard.StepError
			if errors.As(err, &stepErr) {
				fmt.Fprintln(os.Stderr, ui.WarnMsg("Peer-pods onboarding stopped at %s", ui.Bold(string(stepErr.Step))))
			}
			return err
		}

		fmt.Println(ui.SuccessMsg("Peer-pods installed on %s", sess.Name))
		fmt.Print(ui.KeyValues("  ",
			ui.KV("connection", sess.Spec.ConnectionName),
			ui.KV("image", sess.Spec.AdaptorImage),
			ui.KV("container", sess.Status.ContainerID),
		))
		return nil
	},
}

var removeAdaptor bool

var teardownCmd = &cobra.Command{
	Use:   "teardown",
	Short: "Mark peer pods as not installed",
	Long: `Reset the installed flag.

With --remove-adaptor, adaptor containers started by peerpods on the
machine are stopped and removed as well. The machine itself is left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.ob.Teardown(cmd.Context(), removeAdaptor); err != nil {
			return fmt.Errorf("teardown failed: %w", err)
		}
		fmt.Println(ui.SuccessMsg("Peer-pods torn down"))
		return nil
	},
}

func init() {
	teardownCmd.Flags().BoolVar(&removeAdaptor, "remove-adaptor", false, "stop and remove the adaptor containers")
}
