package onboard

import (
	"context"
	"fmt"

	"github.com/spotlesstofu/podman-peerpods/internal/adaptor"
	"github.com/spotlesstofu/podman-peerpods/internal/engine"
	"github.com/spotlesstofu/podman-peerpods/internal/naming"
)

// LaunchResult describes a started adaptor container.
type LaunchResult struct {
	Connection  engine.Connection
	ImageID     string
	ContainerID string
}

// LaunchAdaptor starts the cloud-api-adaptor container.
//
// This orchestrates the launch:
//  1. Read the environment file path from configuration
//  2. Select the engine connection by display name and type and ping it
//  3. Pull the adaptor image
//  4. Resolve the local image record
//  5. Create and start the container
//  6. Set the installed flag
//
// The environment file path is checked before the engine is contacted.
// sessionUID labels the container so Teardown can find it.
func (o *Onboarder) LaunchAdaptor(ctx context.Context, sessionUID string) (*LaunchResult, error) {
	// Step 1: Environment file
	envFile, err := o.envFile()
	if err != nil {
		return nil, err
	}

	// Step 2: Connection
	conn, err := o.selectConnection(ctx)
	if err != nil {
		return nil, err
	}
	log := o.log.WithField("connection", conn.DisplayName)

	cli, err := o.dial(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", conn.DisplayName, err)
	}
	defer func() {
		if err := cli.Close(); err != nil {
			log.WithError(err).Warn("failed to close engine connection")
		}
	}()

	if err := cli.Ping(ctx); err != nil {
		log.WithError(err).Error("container engine is not reachable")
		return nil, err
	}

	// Step 3: Pull
	ref := o.settings.Adaptor.Image
	log.WithField("image", ref).Info("Pulling adaptor image...")
	if err := cli.PullImage(ctx, ref); err != nil {
		log.WithError(err).Error("adaptor image pull failed")
		return nil, err
	}

	// Step 4: Local image record
	img, err := cli.FindImage(ctx, ref)
	if err != nil {
		log.WithError(err).Error("adaptor image not found after pull")
		return nil, err
	}

	// Step 5: Create and start
	env, err := o.readEnv(envFile)
	if err != nil {
		return nil, err
	}
	desc, err := adaptor.BuildDescriptor(adaptor.Options{
		Name:     o.settings.Adaptor.ContainerName,
		Image:    img.ID,
		Provider: o.settings.Adaptor.Provider,
		EnvFile:  envFile,
		Env:      env,
		Labels:   naming.AdaptorLabels(o.settings.Machine.Name, sessionUID),
	})
	if err != nil {
		return nil, err
	}

	log.Info("Creating adaptor container...")
	id, err := cli.CreateAndStart(ctx, desc.Name, desc.ContainerConfig(), desc.HostConfig())
	if err != nil {
		log.WithError(err).Error("adaptor container launch failed")
		return nil, err
	}

	// Step 6: Installed
	if err := o.flag.Set(ctx, true); err != nil {
		return nil, fmt.Errorf("adaptor started but failed to record installed flag: %w", err)
	}

	log.WithField("container", id).Info("Adaptor container started")
	return &LaunchResult{Connection: conn, ImageID: img.ID, ContainerID: id}, nil
}

// Connections lists the engine connections of the Podman machines.
func (o *Onboarder) Connections(ctx context.Context) ([]engine.Connection, error) {
	return engine.ListConnections(ctx, o.machines)
}

func (o *Onboarder) selectConnection(ctx context.Context) (engine.Connection, error) {
	conns, err := o.Connections(ctx)
	if err != nil {
		return engine.Connection{}, err
	}
	conn, err := engine.SelectConnection(conns, o.settings.Connection.Name, o.settings.Connection.Type)
	if err != nil {
		o.log.WithField("candidates", len(conns)).Error("no matching container engine connection")
		return engine.Connection{}, err
	}
	return conn, nil
}
