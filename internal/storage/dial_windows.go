//go:build windows

package storage

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

// dialAgent connects to the host agent's named pipe,
// e.g. `\\.\pipe\lockbox-agent`.
func dialAgent(ctx context.Context, pipe string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, pipe)
}
