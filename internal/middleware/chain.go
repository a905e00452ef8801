package middleware

import (
	"connectrpc.com/connect"

	"github.com/amartinez/cuentasclaritas/internal/auth"
)

// Interceptors returns the server interceptor chain, outermost first.
// Logging and metrics wrap authentication so rejected calls are recorded too.
// A nil jwtManager disables authentication.
func Interceptors(jwtManager *auth.JWTManager) connect.Option {
	chain := []connect.Interceptor{
		LoggingInterceptor(),
		MetricsInterceptor(),
	}
	if jwtManager != nil {
		chain = append(chain, RequireAuth(jwtManager))
	}
	chain = append(chain, ValidationInterceptor())
	return connect.WithInterceptors(chain...)
}
