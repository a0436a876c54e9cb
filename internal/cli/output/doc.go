// Package output formats staticweb-cli results.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned key/value and column tables
//   - json.go: indented JSON
//   - yaml.go: YAML via gopkg.in/yaml.v3
package output
