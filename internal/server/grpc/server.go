// Package grpc runs the server's gRPC listener. It carries only the
// standard grpc.health.v1 service, which clients use as a liveness probe.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/portfolio/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health entry reported alongside the overall "" entry.
const ServiceName = "portfolio.api"

type HealthServer struct {
	address string
	logger  logging.Logger
	health  *health.Server
	srv     *grpc.Server
}

func NewHealthServer(address string, l logging.Logger) *HealthServer {
	if l == nil {
		l = logging.Nop{}
	}
	s := &HealthServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		health:  health.NewServer(),
	}
	s.srv = grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))
	healthpb.RegisterHealthServer(s.srv, s.health)
	s.SetServing(true)
	return s
}

// SetServing flips both the overall and the named entry.
func (s *HealthServer) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(ServiceName, st)
}

// Run listens on the configured address until ctx is cancelled.
func (s *HealthServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on a caller supplied listener. Cancelling ctx reports
// NOT_SERVING and then stops gracefully.
func (s *HealthServer) Serve(ctx context.Context, listen net.Listener) error {
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		s.srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := s.srv.Serve(listen); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
