package main

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/livedom/internal/config"
	"github.com/vango-dev/livedom/internal/demo"
	"github.com/vango-dev/livedom/pkg/middleware"
	"github.com/vango-dev/livedom/pkg/protocol"
	"github.com/vango-dev/livedom/pkg/server"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var (
		addr    string
		metrics bool
		tracing bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the todo app",
		Long: `Serve the todo app over HTTP with live updates.

Every page load starts a session with its own todo list. The
browser connects back over a WebSocket to send events and
receive patches.

Examples:
  livedom serve
  livedom serve --addr=:3000 --metrics
  LIVEDOM_ADDR=127.0.0.1:9000 livedom serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			if metrics {
				cfg.Metrics.Enabled = true
			}
			if tracing {
				cfg.Tracing.Enabled = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			slog.SetDefault(cfg.Log.NewLogger(cmd.ErrOrStderr()))
			srv := server.New(demo.App(demo.DefaultSeed...), serverConfig(cfg))

			w := cmd.OutOrStdout()
			printBanner(w)
			success(w, "Serving on %s", cfg.Server.Address)
			if cfg.Metrics.Enabled {
				info(w, "Metrics on %s", server.PathMetrics)
			}
			if cfg.Server.MaxSessions == 0 {
				warn(w, "No session limit configured")
			}
			return srv.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from livedom.json)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Serve Prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&tracing, "tracing", false, "Trace update passes with OpenTelemetry")

	return cmd
}

// serverConfig translates the file configuration into server settings,
// wiring telemetry when enabled.
func serverConfig(cfg *config.Config) *server.ServerConfig {
	limits := protocol.DefaultEventLimits()
	sc := &server.ServerConfig{
		Address:         cfg.Server.Address,
		Title:           cfg.Server.Title,
		Lang:            cfg.Server.Lang,
		MaxSessions:     cfg.Server.MaxSessions,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Std(),
		CheckOrigin:     checkOrigin(cfg.Server.AllowedOrigins),
		SessionConfig: &server.SessionConfig{
			ReadTimeout:       cfg.Session.ReadTimeout.Std(),
			WriteTimeout:      cfg.Session.WriteTimeout.Std(),
			IdleTimeout:       cfg.Session.IdleTimeout.Std(),
			HeartbeatInterval: cfg.Session.HeartbeatInterval.Std(),
			MaxMessageSize:    cfg.Session.MaxMessageSize,
			EventLimits:       limits,
		},
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m := middleware.Prometheus(
			middleware.WithRegistry(reg),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
		sc.Middleware = append(sc.Middleware, m.Middleware())
		sc.ListObserver = m
		sc.Hooks = m.Hooks(sc.Hooks)
		sc.MetricsGatherer = reg
	}
	if cfg.Tracing.Enabled {
		sc.Middleware = append(sc.Middleware, middleware.OpenTelemetry(
			middleware.WithTracerName(cfg.Tracing.TracerName),
		))
	}
	return sc
}

// checkOrigin allows requests without an Origin header and those whose
// origin is listed. An empty list allows every origin.
func checkOrigin(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
