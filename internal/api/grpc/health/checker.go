// Package health reports user store reachability through the standard gRPC health service.
package health

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/bookshop-server/internal/logger"
)

// ServiceName is the health service key for the bookshop API. The empty
// name reports overall server health and is updated alongside it.
const ServiceName = "bookshop.v1.API"

const pingTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker polls the store and publishes the result to a health server.
type Checker struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	logger   *logger.Logger
}

// NewChecker creates a Checker polling pinger every interval.
func NewChecker(server *health.Server, pinger Pinger, interval time.Duration, logger *logger.Logger) *Checker {
	return &Checker{
		server:   server,
		pinger:   pinger,
		interval: interval,
		logger:   logger,
	}
}

// Check pings the store once and publishes the resulting status.
func (c *Checker) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := c.pinger.Ping(ctx); err != nil {
		c.logger.Warn("Health checker: store unreachable",
			"error", err.Error())
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}

	c.server.SetServingStatus("", st)
	c.server.SetServingStatus(ServiceName, st)
	return st
}

// Run checks immediately and then every interval until ctx ends, after which
// every service reports NOT_SERVING for the rest of shutdown.
func (c *Checker) Run(ctx context.Context) {
	c.Check(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}
