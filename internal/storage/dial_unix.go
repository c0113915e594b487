//go:build !windows

package storage

import (
	"context"
	"net"
)

// dialAgent connects to the host agent's unix socket.
func dialAgent(ctx context.Context, socket string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", socket)
}
