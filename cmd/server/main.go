package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/amartinez/cuentasclaritas/internal/auth"
	"github.com/amartinez/cuentasclaritas/internal/middleware"
	"github.com/amartinez/cuentasclaritas/internal/service"
	"github.com/amartinez/cuentasclaritas/internal/storage/bolt"
	"github.com/amartinez/cuentasclaritas/internal/storage/sqlite"
	"github.com/amartinez/cuentasclaritas/pkg/api"
	"github.com/amartinez/cuentasclaritas/pkg/logging"
)

func main() {
	fs := ff.NewFlagSet("cuentas-server")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		dbPath      = fs.StringLong("db", "./data/tickets.db", "SQLite database path")
		draftsPath  = fs.StringLong("drafts-db", "./data/drafts.db", "bbolt file holding unsaved drafts")
		jwtSecret   = fs.StringLong("jwt-secret", "", "HS256 secret for operator tokens; empty disables auth")
		logLevel    = fs.StringLong("log-level", "", "debug, info, warn or error (default: LOG_LEVEL env or info)")
		metricsPath = fs.StringLong("metrics", "/metrics", "Prometheus endpoint path; empty disables it")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("CUENTAS"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		if errors.Is(err, ff.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	level := logging.LevelFromEnv()
	if *logLevel != "" {
		parsed, err := logging.ParseLevel(*logLevel)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		level = parsed
	}
	logging.SetupWithLevel(level)

	store, err := sqlite.New(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", *dbPath)

	drafts, err := bolt.New(*draftsPath)
	if err != nil {
		slog.Error("Failed to initialize draft storage", "error", err)
		os.Exit(1)
	}
	defer drafts.Close()
	slog.Info("Draft storage initialized", "database", *draftsPath)

	var jwtManager *auth.JWTManager
	if *jwtSecret != "" {
		jwtManager = auth.NewJWTManager(*jwtSecret, 0)
	} else {
		slog.Warn("Authentication disabled; set --jwt-secret to require tokens")
	}
	opts := middleware.Interceptors(jwtManager)

	mux := http.NewServeMux()
	mux.Handle(api.NewTicketServiceHandler(service.NewTicketService(store, drafts), opts))
	mux.Handle(api.NewAssignmentServiceHandler(service.NewAssignmentService(store), opts))
	if *metricsPath != "" {
		mux.Handle(*metricsPath, promhttp.Handler())
	}

	server := &http.Server{
		Addr: fmt.Sprintf(":%d", *port),
		// h2c serves HTTP/2 without TLS for Connect and gRPC clients.
		Handler:           h2c.NewHandler(corsMiddleware(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
