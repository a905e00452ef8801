package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/amartinez/cuentasclaritas/internal/metrics"
)

// MetricsInterceptor records the latency of every RPC by procedure and
// result code.
func MetricsInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			metrics.RPCDuration.
				WithLabelValues(req.Spec().Procedure, code).
				Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}
