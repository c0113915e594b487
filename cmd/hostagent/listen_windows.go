//go:build windows

package main

import (
	"net"

	"github.com/Microsoft/go-winio"
)

func defaultSocket() string { return `\\.\pipe\lockbox-agent` }

// listenAgent binds the named pipe, restricted to the current user.
func listenAgent(pipe string) (net.Listener, error) {
	return winio.ListenPipe(pipe, nil)
}
