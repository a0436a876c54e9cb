// Package config provides the staticweb-cli defaults file.
//
//   - spec.go: CLIConfig struct (~/.staticweb/cli.yaml)
//   - loader.go: loading and saving
//
// Values in the file only fill in flags the user did not pass.
package config
