// Package middleware provides telemetry for livedom servers.
//
// # Prometheus Metrics
//
// Prometheus returns a Metrics value that plugs into three places of the
// server configuration: an update middleware timing every pass, session
// and batch hooks, and a list observer counting reconciliation work.
//
//	reg := prometheus.NewRegistry()
//	m := middleware.Prometheus(middleware.WithRegistry(reg))
//
//	srv := server.New(app, &server.ServerConfig{
//	    Middleware:      []server.UpdateMiddleware{m.Middleware()},
//	    ListObserver:    m,
//	    Hooks:           m.Hooks(server.Hooks{}),
//	    MetricsGatherer: reg,
//	})
//
// # OpenTelemetry
//
// OpenTelemetry traces every update pass with the session ID, the client
// event that triggered it and the number of patches it produced.
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("todo"),
//	    middleware.WithFilter(func(s *server.Session) bool {
//	        return s.Event() != nil
//	    }),
//	)
package middleware
