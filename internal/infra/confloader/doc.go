// Package confloader loads configuration with koanf.
//
// Sources, lowest priority first:
//
//  1. Defaults already present in the target struct
//  2. A YAML configuration file
//  3. Environment variables with the STATICWEB_ prefix
//
// Environment keys use a double underscore between levels so that keys
// which contain an underscore survive the mapping:
//
//	STATICWEB_SERVER__TLS__CERT_FILE -> server.tls.cert_file
//
// Watcher reports writes to the configuration file so that runtime-tunable
// settings (the log level) can be re-applied without a restart.
package confloader
