package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

func (s *HealthServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	args := []any{
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	}
	if err != nil {
		s.logger.Warn(ctx, "gRPC call failed", append(args, "error", err)...)
	} else {
		s.logger.Debug(ctx, "gRPC call", args...)
	}
	return resp, err
}
