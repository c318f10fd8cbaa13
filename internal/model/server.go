package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listener a server accepts connections on.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a network server with an explicit lifecycle owned by main.
type Server interface {
	// Start blocks serving until the server is stopped.
	Start(securityLayer SecurityLayer) error
	// Stop drains in-flight requests, bounded by ctx.
	Stop(ctx context.Context) error
	Address() string
}
