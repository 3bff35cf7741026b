package rackspace

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/Appdynamics/rackspace-monitoring-extension/internal/clock"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/logger"
	"github.com/Appdynamics/rackspace-monitoring-extension/internal/provider"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMetricPrefix is prepended to every reported metric path
	DefaultMetricPrefix = "Custom Metrics|Rackspace|"

	// DefaultMaxConcurrency bounds how many family/region pairs are collected at once
	DefaultMaxConcurrency = 4
)

// Options configures a Monitor
type Options struct {
	Credentials  Credentials
	IdentityURL  string
	MetricPrefix string
	// Families to collect; empty means all
	Families       []Family
	MaxConcurrency int
	Client         ClientOptions
}

// NormalizePrefix returns prefix ending in "|", or DefaultMetricPrefix when empty
func NormalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return DefaultMetricPrefix
	}
	if !strings.HasSuffix(prefix, "|") {
		prefix += "|"
	}
	return prefix
}

// Monitor authenticates once per run and collects every enabled family in
// every region the service catalog lists. It implements provider.CloudProvider.
type Monitor struct {
	creds          Credentials
	auth           *Authenticator
	collectors     map[Family]ResourceCollector
	nextGen        NextGenServers
	families       []Family
	prefix         string
	maxConcurrency int
	logger         *logger.Logger
	clock          clock.Clock
}

// Verify that Monitor implements provider.CloudProvider
var _ provider.CloudProvider = (*Monitor)(nil)

// NewMonitor creates a Monitor
func NewMonitor(opts Options, log *logger.Logger) *Monitor {
	client := NewClient(opts.Client)

	families := opts.Families
	if len(families) == 0 {
		families = AllFamilies()
	}

	maxConcurrency := opts.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}

	return &Monitor{
		creds:          opts.Credentials,
		auth:           NewAuthenticator(client, opts.IdentityURL),
		collectors:     NewCollectors(client),
		nextGen:        NextGenServers{client: client},
		families:       families,
		prefix:         NormalizePrefix(opts.MetricPrefix),
		maxConcurrency: maxConcurrency,
		logger:         log,
		clock:          clock.RealClock{},
	}
}

// Name returns the provider type
func (m *Monitor) Name() provider.ProviderType {
	return provider.ProviderRackspace
}

// FamilyCount returns the number of enabled resource families
func (m *Monitor) FamilyCount() int {
	return len(m.families)
}

// task is one unit of collection: a family in a region, or the account limits
type task struct {
	family Family
	region string
	url    string
	limits bool
}

// Collect runs one collection and reports every metric to sink. Only
// configuration, authentication and cancellation errors are returned;
// family/region failures end up in the summary.
func (m *Monitor) Collect(ctx context.Context, sink provider.Sink) (*provider.RunSummary, error) {
	runID := uuid.NewString()
	log := m.logger.WithFields("run_id", runID)
	start := m.clock.Now()
	summary := &provider.RunSummary{RunID: runID, Started: start}

	log.Info("Starting Rackspace collection run", "families", len(m.families))

	session, err := m.auth.Authenticate(ctx, m.creds)
	if err != nil {
		log.Error("Authentication failed, aborting run", "error", err)
		return nil, err
	}
	log.Debug("Authenticated",
		"default_region", session.DefaultRegion,
		"services", len(session.Endpoints))

	tasks := m.plan(session, log)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(m.maxConcurrency)

	for _, t := range tasks {
		t := t
		g.Go(func() error {
			metrics, skipped, err := m.run(ctx, session, t)

			mu.Lock()
			defer mu.Unlock()

			summary.Skipped += len(skipped)
			for _, s := range skipped {
				log.Warn("Skipping record", "family", t.family, "region", t.region, "error", s)
			}

			if err != nil {
				summary.Failures = append(summary.Failures, provider.Failure{
					Family: string(t.family),
					Region: t.region,
					Err:    err,
				})
				log.Error("Collection failed, continuing with others",
					"family", t.family, "region", t.region, "error", err)
				return nil
			}

			// a batch is reported whole or not at all
			if ctx.Err() != nil {
				return nil
			}
			for _, metric := range metrics {
				if err := sink.Report(metric); err != nil {
					log.Warn("Failed to report metric", "path", metric.Path, "error", err)
					continue
				}
				summary.MetricCount++
			}
			return nil
		})
	}
	_ = g.Wait()

	summary.Duration = m.clock.Now().Sub(start)

	if err := ctx.Err(); err != nil {
		log.Warn("Collection run cancelled", "error", err)
		return summary, err
	}

	log.Info("Completed Rackspace collection run",
		"metrics", summary.MetricCount,
		"skipped_records", summary.Skipped,
		"failures", len(summary.Failures),
		"duration_seconds", summary.Duration.Seconds())
	return summary, nil
}

// plan lists the tasks for this session. FirstGen servers and account limits
// only use the default region; every other family runs in each region the
// catalog lists for it.
func (m *Monitor) plan(session *AuthSession, log *logger.Logger) []task {
	var tasks []task
	for _, family := range m.families {
		service := family.CatalogService()
		regions, ok := session.Endpoints[service]
		if !ok {
			log.Warn("Skipping family missing from the service catalog",
				"family", family, "service", service)
			continue
		}

		if family == FamilyFirstGenServers {
			url, ok := session.Endpoint(service, session.DefaultRegion)
			if !ok {
				log.Warn("Skipping FirstGen servers, no endpoint in the default region",
					"default_region", session.DefaultRegion)
				continue
			}
			tasks = append(tasks, task{family: family, region: session.DefaultRegion, url: url})
			continue
		}

		if family == FamilyNextGenServers {
			if url, ok := session.Endpoint(service, session.DefaultRegion); ok {
				tasks = append(tasks, task{family: family, region: provider.LimitsLabel, url: url, limits: true})
			} else {
				log.Warn("Skipping account limits, no NextGen endpoint in the default region",
					"default_region", session.DefaultRegion)
			}
		}

		for _, region := range sortedKeys(regions) {
			tasks = append(tasks, task{family: family, region: region, url: regions[region]})
		}
	}
	return tasks
}

// run executes one task and returns its metrics ready for reporting
func (m *Monitor) run(ctx context.Context, session *AuthSession, t task) ([]provider.Metric, []error, error) {
	if t.limits {
		limits, err := m.nextGen.Limits(ctx, session.Token, t.url)
		if err != nil {
			return nil, nil, &CollectionError{Family: t.family, Region: t.region, Err: err}
		}
		metrics := make([]provider.Metric, 0, len(limits))
		for _, name := range sortedKeys(limits) {
			metrics = append(metrics, provider.NewMetric(m.prefix, string(t.family), t.region, "", name, limits[name]))
		}
		return metrics, nil, nil
	}

	collector, ok := m.collectors[t.family]
	if !ok {
		return nil, nil, &CollectionError{Family: t.family, Region: t.region, Err: errors.New("no collector registered")}
	}

	collection, err := collector.Collect(ctx, session.Token, t.url)
	if err != nil {
		return nil, nil, &CollectionError{Family: t.family, Region: t.region, Err: err}
	}

	var metrics []provider.Metric
	for _, resource := range sortedKeys(collection.Resources) {
		stats := collection.Resources[resource]
		for _, name := range sortedKeys(stats) {
			metrics = append(metrics, provider.NewMetric(m.prefix, string(t.family), t.region, resource, name, stats[name]))
		}
	}
	return metrics, collection.Skipped, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
