package collector

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Appdynamics/rackspace-monitoring-extension/internal/clock"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/logger"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/provider"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/sink"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/version"
	"github.com/prometheus/client_golang/prometheus"
)

// MaxMetricsToCache limits memory usage by capping the number of cached metrics
const MaxMetricsToCache = 100000

// MetricsCollector implements prometheus.Collector for Rackspace resource metrics
type MetricsCollector struct {
	cloudProvider   provider.CloudProvider
	refreshInterval time.Duration
	extraSink       provider.Sink // optional, receives every metric of every run
	logger          *logger.Logger
	clock           clock.Clock // Time provider for testing

	// Metrics
	resourceMetric          *prometheus.Desc
	limitMetric             *prometheus.Desc
	upMetric                *prometheus.Desc
	scrapeDurationMetric    *prometheus.Desc
	scrapeErrorsTotal       *prometheus.CounterVec
	collectionFailuresTotal *prometheus.CounterVec
	skippedRecordsMetric    *prometheus.Desc
	lastScrapeTimeMetric    *prometheus.Desc
	metricCountMetric       *prometheus.Desc
	buildInfo               *prometheus.GaugeVec

	// State
	mu                 sync.RWMutex
	lastMetrics        []provider.Metric
	lastSummary        *provider.RunSummary
	lastError          error
	lastScrape         time.Time
	lastScrapeDuration time.Duration
	refreshStarted     atomic.Bool // Prevent multiple refresh goroutines
	isReady            bool
}

// NewMetricsCollector creates a new MetricsCollector. extraSink may be nil.
func NewMetricsCollector(cloudProvider provider.CloudProvider, refreshInterval time.Duration, extraSink provider.Sink, log *logger.Logger) *MetricsCollector {
	scrapeErrorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rackspace_exporter_scrape_errors_total",
			Help: "Total number of collection runs that failed as a whole (authentication, configuration)",
		},
		[]string{"provider"},
	)

	collectionFailuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rackspace_exporter_collection_failures_total",
			Help: "Total number of family/region collections that failed since startup",
		},
		[]string{"family"},
	)

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rackspace_exporter_build_info",
			Help: "Build version information",
		},
		[]string{"version", "git_commit", "build_date", "go_version"},
	)

	versionInfo := version.Info()
	buildInfo.With(prometheus.Labels{
		"version":    versionInfo["version"],
		"git_commit": versionInfo["git_commit"],
		"build_date": versionInfo["build_date"],
		"go_version": versionInfo["go_version"],
	}).Set(1)

	return &MetricsCollector{
		cloudProvider:   cloudProvider,
		refreshInterval: refreshInterval,
		extraSink:       extraSink,
		logger:          log,
		clock:           clock.RealClock{},
		resourceMetric: prometheus.NewDesc(
			"rackspace_resource_metric",
			"Per-resource value reported by a Rackspace API (status codes, sizes, counts).",
			[]string{"group", "region", "resource", "metric"},
			nil,
		),
		limitMetric: prometheus.NewDesc(
			"rackspace_account_limit",
			"Account-wide absolute limit or usage value.",
			[]string{"group", "metric"},
			nil,
		),
		upMetric: prometheus.NewDesc(
			"up",
			"Was the last collection run successful (1 = success, 0 = failure)",
			[]string{"provider"},
			nil,
		),
		scrapeDurationMetric: prometheus.NewDesc(
			"rackspace_exporter_scrape_duration_seconds",
			"Duration of the last collection run in seconds",
			[]string{"provider"},
			nil,
		),
		scrapeErrorsTotal:       scrapeErrorsTotal,
		collectionFailuresTotal: collectionFailuresTotal,
		skippedRecordsMetric: prometheus.NewDesc(
			"rackspace_exporter_skipped_records",
			"Records left out of the last run, e.g. for an unknown status",
			[]string{"provider"},
			nil,
		),
		lastScrapeTimeMetric: prometheus.NewDesc(
			"rackspace_exporter_last_scrape_timestamp_seconds",
			"Unix timestamp of the last successful collection run",
			[]string{"provider"},
			nil,
		),
		metricCountMetric: prometheus.NewDesc(
			"rackspace_exporter_metrics_count",
			"Number of metrics currently cached",
			[]string{"provider"},
			nil,
		),
		buildInfo: buildInfo,
	}
}

// Describe implements prometheus.Collector
func (c *MetricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.resourceMetric
	ch <- c.limitMetric
	ch <- c.upMetric
	ch <- c.scrapeDurationMetric
	c.scrapeErrorsTotal.Describe(ch)
	c.collectionFailuresTotal.Describe(ch)
	ch <- c.skippedRecordsMetric
	ch <- c.lastScrapeTimeMetric
	ch <- c.metricCountMetric
	c.buildInfo.Describe(ch)
}

// Collect implements prometheus.Collector
func (c *MetricsCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	providerName := string(c.cloudProvider.Name())

	for _, m := range c.lastMetrics {
		if m.Label == provider.LimitsLabel {
			ch <- prometheus.MustNewConstMetric(c.limitMetric, prometheus.GaugeValue, m.Value, m.Group, m.Name)
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.resourceMetric, prometheus.GaugeValue, m.Value,
			m.Group, m.Label, m.Resource, m.Name)
	}

	upValue := 0.0
	if c.lastError == nil && c.isReady {
		upValue = 1.0
	}
	ch <- prometheus.MustNewConstMetric(c.upMetric, prometheus.GaugeValue, upValue, providerName)

	ch <- prometheus.MustNewConstMetric(
		c.scrapeDurationMetric,
		prometheus.GaugeValue,
		c.lastScrapeDuration.Seconds(),
		providerName,
	)

	c.scrapeErrorsTotal.Collect(ch)
	c.collectionFailuresTotal.Collect(ch)

	skipped := 0
	if c.lastSummary != nil {
		skipped = c.lastSummary.Skipped
	}
	ch <- prometheus.MustNewConstMetric(c.skippedRecordsMetric, prometheus.GaugeValue, float64(skipped), providerName)

	if !c.lastScrape.IsZero() {
		ch <- prometheus.MustNewConstMetric(
			c.lastScrapeTimeMetric,
			prometheus.GaugeValue,
			float64(c.lastScrape.Unix()),
			providerName,
		)
	}

	ch <- prometheus.MustNewConstMetric(
		c.metricCountMetric,
		prometheus.GaugeValue,
		float64(len(c.lastMetrics)),
		providerName,
	)

	c.buildInfo.Collect(ch)
}

// StartBackgroundRefresh runs a collection now and then every refresh
// interval until ctx is done
func (c *MetricsCollector) StartBackgroundRefresh(ctx context.Context) {
	if !c.refreshStarted.CompareAndSwap(false, true) {
		c.logger.Warn("Background refresh already started, skipping")
		return
	}

	// Initial fetch
	c.Refresh(ctx)

	ticker := time.NewTicker(c.refreshInterval)
	go func() {
		defer ticker.Stop()
		defer c.refreshStarted.Store(false) // Reset on exit
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Stopping background refresh")
				return
			case <-ticker.C:
				c.Refresh(ctx)
			}
		}
	}()
}

// Refresh runs one collection and swaps the cached metrics once it completes.
// A cancelled run leaves the previous cache in place.
func (c *MetricsCollector) Refresh(ctx context.Context) {
	providerName := c.cloudProvider.Name()
	c.logger.Info("Refreshing Rackspace metrics", "provider", providerName)
	start := c.clock.Now()

	buffer := sink.NewBuffer()
	var target provider.Sink = buffer
	if c.extraSink != nil {
		target = sink.Multi{buffer, c.extraSink}
	}

	summary, err := c.cloudProvider.Collect(ctx, target)
	now := c.clock.Now()
	duration := now.Sub(start)

	if ctx.Err() != nil {
		c.logger.Info("Refresh interrupted, keeping previous metrics", "provider", providerName)
		return
	}

	if received := buffer.Len(); received > MaxMetricsToCache {
		c.logger.Warn("Received metrics exceeding limit, truncating to prevent memory issues",
			"received_count", received,
			"limit", MaxMetricsToCache)
	}

	// sorted so the cache, and any truncation of it, is stable across runs
	metrics := buffer.Metrics()
	provider.SortMetrics(metrics)
	if len(metrics) > MaxMetricsToCache {
		metrics = metrics[:MaxMetricsToCache]
	}

	for family, n := range summary.FailuresByFamily() {
		c.collectionFailuresTotal.With(prometheus.Labels{"family": family}).Add(float64(n))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastScrape = now
	c.lastScrapeDuration = duration
	c.lastError = err

	if err != nil {
		c.scrapeErrorsTotal.With(prometheus.Labels{"provider": string(providerName)}).Inc()
		c.logger.Error("Failed to refresh Rackspace metrics", "provider", providerName, "error", err)
		c.isReady = false
		c.lastMetrics = nil
		c.lastSummary = nil
		return
	}

	c.lastMetrics = metrics
	c.lastSummary = summary
	c.isReady = true

	if runErr := summary.Err(); runErr != nil {
		c.logger.Warn("Some family/region collections failed, serving partial data",
			"provider", providerName,
			"failed_count", len(summary.Failures),
			"error", runErr)
	}
	c.logger.Info("Successfully refreshed Rackspace metrics",
		"provider", providerName,
		"metric_count", len(metrics),
		"duration_seconds", duration.Seconds())
}

// IsReady returns true if the last collection run completed
func (c *MetricsCollector) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// LastError returns the error of the last run, if it failed as a whole
func (c *MetricsCollector) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// LastScrapeTime returns the time of the last collection attempt
func (c *MetricsCollector) LastScrapeTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastScrape
}

// MetricCount returns the number of metrics currently cached
func (c *MetricsCollector) MetricCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lastMetrics)
}

// FailedCollections returns the number of family/region failures of the last run
func (c *MetricsCollector) FailedCollections() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lastSummary == nil {
		return 0
	}
	return len(c.lastSummary.Failures)
}
