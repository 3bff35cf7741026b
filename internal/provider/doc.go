// Package provider defines the metrics source abstraction layer.
//
// A CloudProvider runs one collection at a time and reports every metric it
// gathers to a Sink. The collector and the one-shot CLI both drive a provider
// through this interface without knowing which cloud sits behind it:
//
//	type CloudProvider interface {
//		Collect(ctx context.Context, sink Sink) (*RunSummary, error)
//		Name() ProviderType
//		FamilyCount() int
//	}
//
// Metric is the uniform output unit. Its Path follows the hierarchy
//
//	{prefix}{group} |{region}|{resource}|{metric}
//
// for example "Custom Metrics|Rackspace|NextGenServers |DFW|web-01|RAM", and
// "{prefix}NextGenServers |Limits|{metric}" for account-level limits. Values
// are rounded to whole numbers before they reach a sink.
//
// RunSummary lists the family/region pairs that failed. Such failures never
// abort a run; Err folds them into a single multierror for logging.
package provider
