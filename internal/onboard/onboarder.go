package onboard

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/spotlesstofu/podman-peerpods/internal/adaptor"
	"github.com/spotlesstofu/podman-peerpods/internal/config"
	"github.com/spotlesstofu/podman-peerpods/internal/podman"
	"github.com/spotlesstofu/podman-peerpods/internal/state"
)

// Onboarder runs the onboarding operations for one configuration.
type Onboarder struct {
	settings *config.Settings
	machines machineRunner
	dial     engineDialer
	store    state.ContextStore
	flag     *state.InstalledFlag
	readEnv  func(path string) ([]string, error)
	log      *logrus.Entry
}

// New returns an Onboarder driving the podman binary named in settings and
// keeping its context in store.
func New(settings *config.Settings, store state.ContextStore) *Onboarder {
	return newWithDeps(settings, podman.NewClient(settings.Machine.PodmanPath, nil), dialEngine, store)
}

// newWithDeps creates an Onboarder with injected dependencies.
// This allows for testing by accepting interfaces instead of concrete types.
func newWithDeps(settings *config.Settings, machines machineRunner, dial engineDialer, store state.ContextStore) *Onboarder {
	return &Onboarder{
		settings: settings,
		machines: machines,
		dial:     dial,
		store:    store,
		flag:     state.NewInstalledFlag(store),
		readEnv:  adaptor.LoadEnvFile,
		log:      logrus.WithField("component", "onboard"),
	}
}

// Settings returns the configuration the Onboarder was built with.
func (o *Onboarder) Settings() *config.Settings {
	return o.settings
}

// Activate resets the installed flag. It runs once per invocation, before
// any onboarding step.
func (o *Onboarder) Activate(ctx context.Context) error {
	if err := o.flag.Set(ctx, false); err != nil {
		return fmt.Errorf("failed to reset installed flag: %w", err)
	}
	return nil
}

// Installed returns the installed flag.
func (o *Onboarder) Installed(ctx context.Context) (bool, error) {
	return o.flag.Get(ctx)
}

// envFile returns the configured environment file path.
func (o *Onboarder) envFile() (string, error) {
	raw, ok := o.settings.Lookup(config.SectionPeerPods, config.KeyEnvironmentFile)
	if !ok {
		return "", fmt.Errorf("%w: not set", ErrInvalidEnvFile)
	}
	path, isString := raw.(string)
	if !isString {
		return "", fmt.Errorf("%w: got %T", ErrInvalidEnvFile, raw)
	}
	if path == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidEnvFile)
	}
	return path, nil
}
