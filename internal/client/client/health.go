package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// HealthChecker probes the server's grpc.health.v1 endpoint.
type HealthChecker struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

func NewHealthChecker(endpointAddr string, opts ...grpc.DialOption) (*HealthChecker, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(endpointAddr, opts...)
	if err != nil {
		return nil, err
	}
	return &HealthChecker{conn: conn, client: healthpb.NewHealthClient(conn)}, nil
}

// Ping returns nil when the server reports SERVING.
func (h *HealthChecker) Ping(ctx context.Context) error {
	resp, err := h.client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (h *HealthChecker) Close() error {
	return h.conn.Close()
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
