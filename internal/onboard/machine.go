package onboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/spotlesstofu/podman-peerpods/internal/adaptor"
	"github.com/spotlesstofu/podman-peerpods/internal/naming"
	"github.com/spotlesstofu/podman-peerpods/internal/podman"
)

// resolvedDropIn is the systemd-resolved drop-in written when DNS servers
// are configured.
const resolvedDropIn = "/etc/systemd/resolved.conf.d/peerpods.conf"

// ProvisionMachine initializes and starts the Podman machine.
//
// A machine that already exists counts as success. Any other failure is
// returned as-is, so its message is podman's diagnostic.
func (o *Onboarder) ProvisionMachine(ctx context.Context) error {
	name := naming.MachineName(o.settings.Machine.Name)
	log := o.log.WithField("machine", name)

	log.Info("Initializing Podman machine...")
	err := o.machines.MachineInit(ctx, podman.InitOptions{
		Name:    name,
		Rootful: o.settings.Machine.IsRootful(),
		Now:     true,
	})

	switch podman.OutcomeOf(err) {
	case podman.OutcomeOK:
		log.Info("Podman machine initialized and started")
		return nil
	case podman.OutcomeAlreadyExists:
		log.Info("Podman machine already exists")
		return nil
	default:
		log.WithError(err).Error("podman machine init failed")
		return err
	}
}

// ApplyOS applies the configured OS image to the machine and restarts it.
//
// An image that is already deployed counts as success.
func (o *Onboarder) ApplyOS(ctx context.Context) error {
	name := naming.MachineName(o.settings.Machine.Name)
	image := o.settings.Machine.OSImage
	log := o.log.WithFields(logrus.Fields{"machine": name, "image": image})

	log.Info("Applying OS image to Podman machine...")
	err := o.machines.MachineOSApply(ctx, name, image, true)

	switch podman.OutcomeOf(err) {
	case podman.OutcomeOK:
		log.Info("OS image applied")
		return nil
	case podman.OutcomeNoOpApply:
		log.Info("OS image already deployed")
		return nil
	default:
		log.WithError(err).Error("podman machine os apply failed")
		return err
	}
}

// PrepareMachine creates the paths the adaptor bind-mounts and, when DNS
// servers are configured, points systemd-resolved at them.
func (o *Onboarder) PrepareMachine(ctx context.Context) error {
	name := naming.MachineName(o.settings.Machine.Name)
	log := o.log.WithField("machine", name)

	log.Info("Preparing machine for the adaptor...")
	if _, err := o.machines.MachineSSH(ctx, name, "root", prepareScript(o.settings.Machine.DNSServers)); err != nil {
		log.WithError(err).Error("machine preparation failed")
		return err
	}
	if len(o.settings.Machine.DNSServers) > 0 {
		log.WithField("dns", o.settings.Machine.DNSServers).Info("Resolver configured")
	}
	return nil
}

// prepareScript returns the shell run as root inside the machine.
func prepareScript(dnsServers []string) string {
	cmds := []string{
		fmt.Sprintf("mkdir -p %s %s %s", adaptor.RuntimeDir, adaptor.NetnsDir, adaptor.DataDir),
		"touch " + adaptor.XtablesLock,
	}
	if len(dnsServers) > 0 {
		cmds = append(cmds,
			"mkdir -p /etc/systemd/resolved.conf.d",
			fmt.Sprintf(`printf '[Resolve]\nDNS=%s\n' > %s`, strings.Join(dnsServers, " "), resolvedDropIn),
			"systemctl restart systemd-resolved",
		)
	}
	return strings.Join(cmds, " && ")
}
