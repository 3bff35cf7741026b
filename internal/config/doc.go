// Package config provides configuration management for the Rackspace exporter.
//
// This package handles loading configuration from YAML files, applying
// environment variable overrides, setting defaults, and validating the
// configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (highest priority)
//  2. YAML configuration file
//  3. Default values (lowest priority)
//
// Supported environment variables:
//   - RACKSPACE_USERNAME, RACKSPACE_API_KEY: account credentials
//   - RACKSPACE_ACCOUNT_BASE: US or UK, selects the identity endpoint
//   - RACKSPACE_IDENTITY_URL: explicit identity endpoint, overrides the account base
//   - RACKSPACE_METRIC_PREFIX: metric path prefix, always normalized to end in "|"
//   - RACKSPACE_FAMILIES: comma-separated families to collect
//   - RACKSPACE_REFRESH_INTERVAL: refresh interval in seconds (minimum: 60)
//   - RACKSPACE_API_TIMEOUT: per-request timeout in seconds (1-300)
//   - RACKSPACE_MAX_CONCURRENCY: parallel family/region collections (1-64)
//   - RACKSPACE_REQUESTS_PER_SECOND: upstream request pacing, 0 disables it
//   - RACKSPACE_HTTP_PORT: HTTP server port (1-65535)
//   - RACKSPACE_LOG_LEVEL, RACKSPACE_LOG_FORMAT: logging
//   - RACKSPACE_PRINT_METRICS: also print every metric to stdout
//
// Validation failures are returned as *rackspace.ConfigurationError.
//
// Example configuration file (config.yaml):
//
//	username: "monitoring"
//	api_key: "0123456789abcdef"
//	account_base: "US"
//	metric_prefix: "Custom Metrics|Rackspace|"
//	families: [NextGenServers, Files, Databases, LoadBalancers]
//	refresh_interval: 60
//	api_timeout: 30
//	max_concurrency: 4
//	http_port: 8080
//	log_level: "info"
package config
