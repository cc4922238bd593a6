// Package metrics provides page rendering and generation metrics for sdkdocs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never needs nil checks:
//
//	b := site.NewBuilder(gen, cfg)                          // NoopRecorder
//	b := site.NewBuilder(gen, cfg, site.WithRecorder(rec))  // Prometheus
//
// The preview server registers a PrometheusRecorder on its own registry and
// exposes it through HTTPHandler when serve.metrics is enabled.
package metrics
