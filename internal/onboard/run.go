package onboard

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/spotlesstofu/podman-peerpods/api/v1alpha1"
	"github.com/spotlesstofu/podman-peerpods/internal/config"
	"github.com/spotlesstofu/podman-peerpods/internal/naming"
	"github.com/spotlesstofu/podman-peerpods/internal/state"
	"github.com/spotlesstofu/podman-peerpods/internal/status"
)

// Run performs the whole recipe: machine init, OS apply, machine
// preparation and adaptor launch, in that order.
//
// Progress is recorded on a new Onboarding session which is persisted
// after every step. On failure the session is marked Failed and a
// *StepError is returned; completed steps are not undone.
func (o *Onboarder) Run(ctx context.Context) (*v1alpha1.Onboarding, error) {
	sess := o.newSession()
	o.log.WithField("session", sess.UID).Info("Starting peer-pods onboarding")

	if err := status.TransitionToMachineProvisioning(sess); err != nil {
		return sess, err
	}
	o.persist(ctx, sess)

	// Step 1: Machine
	if err := o.ProvisionMachine(ctx); err != nil {
		return sess, o.fail(ctx, sess, StepMachineInit, err)
	}
	if err := status.TransitionToOSApplying(sess); err != nil {
		return sess, err
	}
	o.persist(ctx, sess)

	// Step 2: OS image
	if err := o.ApplyOS(ctx); err != nil {
		return sess, o.fail(ctx, sess, StepOSApply, err)
	}

	// Step 3: Host paths inside the machine
	if err := o.PrepareMachine(ctx); err != nil {
		return sess, o.fail(ctx, sess, StepMachinePrepare, err)
	}
	if err := status.TransitionToAdaptorLaunching(sess); err != nil {
		return sess, err
	}
	o.persist(ctx, sess)

	// Step 4: Adaptor
	res, err := o.LaunchAdaptor(ctx, sess.UID)
	if err != nil {
		return sess, o.fail(ctx, sess, StepAdaptorLaunch, err)
	}
	sess.Status.ConnectionEndpoint = res.Connection.Endpoint
	sess.Status.ImageID = res.ImageID
	if err := status.TransitionToInstalled(sess, res.ContainerID); err != nil {
		return sess, err
	}
	o.persist(ctx, sess)

	o.log.WithField("session", sess.UID).Info("Peer-pods onboarding complete")
	return sess, nil
}

// Teardown resets the installed flag. With removeAdaptor, adaptor
// containers created for this machine are stopped and removed as well.
// The last session, if any, is marked Uninstalled.
func (o *Onboarder) Teardown(ctx context.Context, removeAdaptor bool) error {
	if err := o.flag.Set(ctx, false); err != nil {
		return err
	}
	o.log.Info("Installed flag reset")

	if removeAdaptor {
		if err := o.removeAdaptors(ctx); err != nil {
			return err
		}
	}

	sess, err := state.LoadSession(ctx, o.store)
	switch {
	case errors.Is(err, state.ErrNotFound):
		return nil
	case err != nil:
		o.log.WithError(err).Warn("failed to load last session")
		return nil
	}
	status.TransitionToUninstalled(sess)
	o.persist(ctx, sess)
	return nil
}

// Report is what Status returns.
type Report struct {
	Installed bool
	Session   *v1alpha1.Onboarding // nil when no session was recorded

	// Interrupted is set when the last session stopped in the middle of a
	// step, for example because the process was killed.
	Interrupted bool
}

// Status returns the installed flag and the last recorded session.
func (o *Onboarder) Status(ctx context.Context) (*Report, error) {
	installed, err := o.flag.Get(ctx)
	if err != nil {
		return nil, err
	}
	sess, err := state.LoadSession(ctx, o.store)
	if err != nil && !errors.Is(err, state.ErrNotFound) {
		return nil, err
	}
	report := &Report{Installed: installed, Session: sess}
	if sess != nil {
		report.Interrupted = status.IsTransitioning(sess.GetPhase())
	}
	return report, nil
}

// UpdateConfiguration is called when the peerpods configuration section
// changes. A running adaptor keeps the settings it was started with, so
// there is nothing to do yet.
func UpdateConfiguration(_ context.Context, settings *config.Settings) error {
	envFile, _ := settings.Lookup(config.SectionPeerPods, config.KeyEnvironmentFile)
	logrus.WithFields(logrus.Fields{"component": "onboard", "environmentFile": envFile}).Info("peer-pods configuration changed")
	return nil
}

func (o *Onboarder) removeAdaptors(ctx context.Context) error {
	conn, err := o.selectConnection(ctx)
	if err != nil {
		return err
	}
	cli, err := o.dial(conn)
	if err != nil {
		return err
	}
	defer func() { _ = cli.Close() }()

	containers, err := cli.ListByLabel(ctx, map[string]string{
		naming.LabelManaged: "true",
		naming.LabelMachine: naming.MachineName(o.settings.Machine.Name),
	})
	if err != nil {
		return err
	}
	for _, c := range containers {
		o.log.WithField("container", c.ID).Info("Removing adaptor container...")
		if err := cli.StopAndRemove(ctx, c.ID); err != nil {
			return err
		}
	}
	o.log.WithField("count", len(containers)).Info("Adaptor containers removed")
	return nil
}

func (o *Onboarder) newSession() *v1alpha1.Onboarding {
	envFile, _ := o.envFile()
	return v1alpha1.NewOnboarding(naming.MachineName(o.settings.Machine.Name), v1alpha1.OnboardingSpec{
		MachineName:    o.settings.Machine.Name,
		Rootful:        o.settings.Machine.IsRootful(),
		OSImage:        o.settings.Machine.OSImage,
		AdaptorImage:   o.settings.Adaptor.Image,
		ConnectionName: o.settings.Connection.Name,
		EnvFile:        envFile,
	})
}

func (o *Onboarder) fail(ctx context.Context, sess *v1alpha1.Onboarding, step Step, err error) error {
	status.TransitionToFailed(sess, "StepFailed", err)
	o.persist(ctx, sess)
	return &StepError{Step: step, Err: err}
}

// persist saves the session. A session that cannot be saved does not stop
// the recipe.
func (o *Onboarder) persist(ctx context.Context, sess *v1alpha1.Onboarding) {
	if err := state.SaveSession(ctx, o.store, sess); err != nil {
		o.log.WithError(err).Warn("failed to save onboarding session")
	}
}
