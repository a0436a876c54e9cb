// Package metric provides Prometheus metrics for staticweb.
//
// Metrics cover the connection pipeline end to end:
//
//   - accepted, rate-limited and in-flight connections per transport
//   - TLS handshake failures
//   - protocol rejections by reason
//   - responses by transport and status code, bytes written
//   - request handling latency
//
// Metrics are exposed at /metrics on a separate listener when
// metrics.addr is configured.
package metric
