// Package collector adapts a provider.CloudProvider to the Prometheus
// collector interface.
//
// MetricsCollector runs a collection in the background every refresh interval
// and serves the cached result on each scrape. Per-resource values become
// rackspace_resource_metric{group,region,resource,metric} and account limits
// become rackspace_account_limit{group,metric}. Alongside them it exports
// exporter health:
//   - up{provider}
//   - rackspace_exporter_scrape_duration_seconds{provider}
//   - rackspace_exporter_scrape_errors_total{provider}
//   - rackspace_exporter_collection_failures_total{family}
//   - rackspace_exporter_skipped_records{provider}
//   - rackspace_exporter_last_scrape_timestamp_seconds{provider}
//   - rackspace_exporter_metrics_count{provider}
//   - rackspace_exporter_build_info
//
// A run that fails as a whole (authentication, configuration) clears the cache
// and sets up to 0. A run where only some family/region pairs failed keeps
// serving what succeeded. A cancelled run leaves the previous cache untouched.
package collector
