// Package observability provides Prometheus metrics and the OpenTelemetry
// bootstrap for the authorization library.
//
// # Prometheus Metrics
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.RecordEvaluation("tenant", true, 0.0004)
//
// Helper methods are nil-safe: instrumented packages accept a *Metrics that
// may be nil when the embedding application runs without a registry.
//
// # OpenTelemetry
//
//	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
//		Enabled:     true,
//		Endpoint:    "otel-collector:4317",
//		ServiceName: "gatehouse",
//		Insecure:    true,
//	}, log)
//	defer observability.ShutdownOTel(ctx, providers, log)
//
// InitOTel installs global tracer and meter providers; hot paths obtain
// tracers through otel.Tracer at the package level.
package observability
