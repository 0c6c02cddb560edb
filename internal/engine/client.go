package engine

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/sirupsen/logrus"

	"github.com/spotlesstofu/podman-peerpods/internal/naming"
)

// Client drives one engine connection.
type Client struct {
	api      client.APIClient
	endpoint string
}

// Image is the local record of a pulled image.
type Image struct {
	ID       string
	RepoTags []string
}

// Container is a container found by label.
type Container struct {
	ID      string
	Name    string
	Image   string
	Running bool
	Labels  map[string]string
}

// Connect opens an API client for conn. It must be closed via Close().
func Connect(conn Connection) (*Client, error) {
	if conn.Endpoint == "" {
		return nil, fmt.Errorf("connection %s has no API endpoint", conn.DisplayName)
	}
	api, err := client.NewClientWithOpts(
		client.WithHost(conn.Endpoint),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine client for %s: %w", conn.Endpoint, err)
	}
	return NewFromAPI(api, conn.Endpoint), nil
}

// NewFromAPI wraps an existing API client.
func NewFromAPI(api client.APIClient, endpoint string) *Client {
	return &Client{api: api, endpoint: endpoint}
}

// Close releases the underlying connection. It is safe to call Close
// multiple times.
func (c *Client) Close() error {
	if c.api == nil {
		return nil
	}
	if err := c.api.Close(); err != nil {
		return fmt.Errorf("failed to close engine client: %w", err)
	}
	return nil
}

// Ping verifies the engine answers.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.Ping(ctx); err != nil {
		return fmt.Errorf("engine at %s is not reachable: %w", c.endpoint, err)
	}
	return nil
}

// PullImage pulls ref and drains the progress stream.
func (c *Client) PullImage(ctx context.Context, ref string) error {
	logrus.WithField("image", ref).Info("Pulling image")
	resp, err := c.api.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image %s: %w", ref, err)
	}
	defer resp.Close()
	if _, err := io.Copy(io.Discard, resp); err != nil {
		return fmt.Errorf("pull image %s: read response: %w", ref, err)
	}
	return nil
}

// FindImage returns the local image whose repo tags contain ref.
func (c *Client) FindImage(ctx context.Context, ref string) (Image, error) {
	images, err := c.api.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", ref)),
	})
	if err != nil {
		return Image{}, fmt.Errorf("list images: %w", err)
	}
	for _, img := range images {
		if naming.ImageMatches(img.RepoTags, ref) {
			return Image{ID: img.ID, RepoTags: img.RepoTags}, nil
		}
	}
	return Image{}, fmt.Errorf("%w: %s", ErrImageNotFound, ref)
}

// CreateAndStart creates a container and starts it detached. An empty name
// lets the engine assign one. Returns the container ID.
func (c *Client) CreateAndStart(ctx context.Context, name string, cfg *container.Config, hostCfg *container.HostConfig) (string, error) {
	resp, err := c.api.ContainerCreate(ctx, cfg, hostCfg, nil, (*ocispec.Platform)(nil), name)
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}
	for _, w := range resp.Warnings {
		logrus.WithField("container", resp.ID).Warn(w)
	}
	if err := c.api.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		return resp.ID, fmt.Errorf("start container: %w", err)
	}
	return resp.ID, nil
}

// ListByLabel returns all containers, running or not, carrying every label
// in labels.
func (c *Client) ListByLabel(ctx context.Context, labels map[string]string) ([]Container, error) {
	args := filters.NewArgs()
	for k, v := range labels {
		args.Add("label", k+"="+v)
	}
	summaries, err := c.api.ContainerList(ctx, container.ListOptions{All: true, Filters: args})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	out := make([]Container, 0, len(summaries))
	for _, s := range summaries {
		name := ""
		if len(s.Names) > 0 {
			name = strings.TrimPrefix(s.Names[0], "/")
		}
		out = append(out, Container{
			ID:      s.ID,
			Name:    name,
			Image:   s.Image,
			Running: s.State == "running",
			Labels:  s.Labels,
		})
	}
	return out, nil
}

// StopAndRemove stops and removes a container. NotFound is ignored for
// both operations.
func (c *Client) StopAndRemove(ctx context.Context, id string) error {
	if err := c.api.ContainerStop(ctx, id, container.StopOptions{}); err != nil {
		if !errdefs.IsNotFound(err) {
			return fmt.Errorf("stop container %s: %w", id, err)
		}
	}
	if err := c.api.ContainerRemove(ctx, id, container.RemoveOptions{Force: true}); err != nil {
		if !errdefs.IsNotFound(err) {
			return fmt.Errorf("remove container %s: %w", id, err)
		}
	}
	return nil
}
