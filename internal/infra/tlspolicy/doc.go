// Package tlspolicy provides the TLS side of staticweb: the security
// policy, the certificate source and the server-side handshake.
//
//   - policy.go: allowed protocol versions and cipher suites
//   - keypair.go: PEM certificate/key loading
//   - watcher.go: certificate hot reload via fsnotify
//   - selfsigned.go: development certificates
//   - negotiator.go: explicit per-connection handshake
//
// The policy is immutable once built and is shared read-only by every
// handshake. Client certificates are never requested and revocation is
// never checked: the server favours availability over revocation
// freshness.
package tlspolicy
