// Package engine locates container engine connections and drives the
// Docker-compatible API they expose.
//
// Connections are derived from the Podman machines on the host: each
// machine's API socket becomes one connection, presented under the same
// display name a desktop client would use ("Podman Machine" for the default
// machine). Callers select one by display name and type:
//
//	conns, err := engine.ListConnections(ctx, podmanClient)
//	conn, err := engine.SelectConnection(conns, "Podman Machine", "podman")
//	cli, err := engine.Connect(conn)
//	defer cli.Close()
//
// The Client wraps github.com/docker/docker/client; only the image and
// container calls needed to launch the cloud-api-adaptor are exposed.
package engine
