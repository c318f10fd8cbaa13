package router

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/bookshop-server/internal/api/grpc/middleware"
	"github.com/dtroode/bookshop-server/internal/logger"
)

// Router builds the gRPC server exposing the standard health service.
type Router struct {
	healthServer *health.Server
	logger       *logger.Logger
}

// New creates new gRPC Router instance.
func New(healthServer *health.Server, logger *logger.Logger) *Router {
	return &Router{
		healthServer: healthServer,
		logger:       logger,
	}
}

// Register creates the gRPC server with logging and recovery interceptors
// and registers the health and reflection services on it.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(logging.Unary()...),
		grpc.ChainStreamInterceptor(logging.Stream()...),
	)
	healthpb.RegisterHealthServer(s, r.healthServer)
	reflection.Register(s)

	return s
}
