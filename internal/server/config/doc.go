// Package config provides the staticweb-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation (addresses, certificate files, limits)
//
// Configuration is loaded via internal/infra/confloader from a YAML file
// and STATICWEB_ environment variables.
package config
