// Package server exposes the exporter over HTTP.
//
// Endpoints:
//   - /           : status page (readiness, last run, cached metric count, families)
//   - /metrics    : Prometheus metrics from the default registry
//   - /health     : liveness probe, always 200
//   - /ready      : readiness probe, 200 once a collection run has succeeded
//
// Read and write timeouts are 15 seconds, the idle timeout 60 seconds.
package server
