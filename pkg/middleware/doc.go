// Package middleware provides HTTP middleware for the routesync debug
// server.
//
// This package includes:
//   - OpenTelemetry tracing middleware
//   - Prometheus metrics middleware
//
// Both are plain func(http.Handler) http.Handler values and plug into chi:
//
//	m := middleware.Prometheus(middleware.WithRegistry(reg))
//	r := chi.NewRouter()
//	r.Use(m.Handler, middleware.OpenTelemetry())
//
// # Prometheus Metrics
//
//   - routesync_http_requests_total: requests by route pattern and status
//   - routesync_http_request_duration_seconds: request duration histogram
//   - routesync_http_active_sessions: open websocket address bars
//
// Labels use the chi route pattern, never the raw path, so unmatched URLs
// cannot blow up label cardinality.
package middleware
