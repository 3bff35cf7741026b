package provider

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

// ProviderType represents a cloud provider
type ProviderType string

// Supported cloud providers
const (
	ProviderRackspace ProviderType = "rackspace"
)

// LimitsLabel takes the region slot of account-level metrics
const LimitsLabel = "Limits"

// CloudProvider is the interface a metrics source must implement
type CloudProvider interface {
	// Collect runs one collection and reports every metric to sink. A non-nil
	// error means the run as a whole failed (configuration, authentication or
	// cancellation); per-family failures are listed in the summary instead.
	Collect(ctx context.Context, sink Sink) (*RunSummary, error)

	// Name returns the provider name
	Name() ProviderType

	// FamilyCount returns the number of resource families being monitored
	FamilyCount() int
}

// Sink receives every metric of a run, one call per metric
type Sink interface {
	Report(m Metric) error
}

// Metric is one normalized value. Group is the resource family label, Label
// the region (or "Limits" for account limits), Resource the resource name
// (empty for account-level values).
type Metric struct {
	Path     string
	Group    string
	Label    string
	Resource string
	Name     string
	Value    float64
}

// NewMetric builds a Metric with its full path under prefix. The value is
// rounded to the nearest integer, halves away from zero.
func NewMetric(prefix, group, label, resource, name string, value float64) Metric {
	return Metric{
		Path:     MetricPath(prefix, group, label, resource, name),
		Group:    group,
		Label:    label,
		Resource: resource,
		Name:     name,
		Value:    math.Round(value),
	}
}

// MetricPath joins the path segments the way the reporting sink expects:
// "{prefix}{group} |{label}|{resource}|{name}". Empty resources are omitted.
func MetricPath(prefix, group, label, resource, name string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(group)
	b.WriteString(" |")
	b.WriteString(label)
	b.WriteString("|")
	if resource != "" {
		b.WriteString(resource)
		b.WriteString("|")
	}
	b.WriteString(name)
	return b.String()
}

// ValueString renders the value as the integer text the sink accepts
func (m Metric) ValueString() string {
	return strconv.FormatFloat(math.Round(m.Value), 'f', 0, 64)
}

// Failure records one family/region pair that could not be collected
type Failure struct {
	Family string
	Region string
	Err    error
}

// RunSummary describes a finished collection run
type RunSummary struct {
	RunID       string
	Started     time.Time
	Duration    time.Duration
	MetricCount int
	Skipped     int // records dropped, e.g. for an unknown status
	Failures    []Failure
}

// Err aggregates all failures, or returns nil if every pair succeeded
func (s *RunSummary) Err() error {
	if s == nil || len(s.Failures) == 0 {
		return nil
	}
	var result *multierror.Error
	for _, f := range s.Failures {
		result = multierror.Append(result, f.Err)
	}
	return result.ErrorOrNil()
}

// FailuresByFamily counts failures per family
func (s *RunSummary) FailuresByFamily() map[string]int {
	counts := make(map[string]int)
	if s == nil {
		return counts
	}
	for _, f := range s.Failures {
		counts[f.Family]++
	}
	return counts
}

// SortMetrics orders metrics by path so output is stable
func SortMetrics(metrics []Metric) {
	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].Path < metrics[j].Path
	})
}
