package storefront

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/THXNXKXT/qr-studios-sub001/internal/pkg/auth"
)

// AuthInterceptor attaches the bearer token's principal to the context.
// Calls without an authorization header continue anonymously; handlers
// that need a caller reject them.
func AuthInterceptor(verifier *auth.Verifier) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get("authorization")
		if len(values) == 0 {
			return handler(ctx, req)
		}
		if verifier == nil {
			return nil, mapErrorToGRPC(auth.ErrInvalidToken)
		}
		p, err := verifier.Authenticate(values[0])
		if err != nil {
			return nil, mapErrorToGRPC(err)
		}
		return handler(auth.WithPrincipal(ctx, p), req)
	}
}

// LoggingInterceptor logs each call with its status code and latency.
func LoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "grpc call",
			"method", info.FullMethod,
			"code", code.String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}
