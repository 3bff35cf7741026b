package rackspace

import (
	"context"
	"strconv"
	"strings"
)

// Family identifies one Rackspace resource API. Its string form is the metric
// group label used in reported paths.
type Family string

const (
	FamilyFirstGenServers Family = "FirstGenServers"
	FamilyNextGenServers  Family = "NextGenServers"
	FamilyFiles           Family = "Files"
	FamilyDatabases       Family = "Databases"
	FamilyLoadBalancers   Family = "LoadBalancers"
)

// catalogServices maps each family to its service name in the identity
// service catalog
var catalogServices = map[Family]string{
	FamilyFirstGenServers: "cloudServers",
	FamilyNextGenServers:  "cloudServersOpenStack",
	FamilyFiles:           "cloudFiles",
	FamilyDatabases:       "cloudDatabases",
	FamilyLoadBalancers:   "cloudLoadBalancers",
}

// AllFamilies returns every supported family in collection order
func AllFamilies() []Family {
	return []Family{
		FamilyFirstGenServers,
		FamilyNextGenServers,
		FamilyFiles,
		FamilyDatabases,
		FamilyLoadBalancers,
	}
}

// ParseFamily matches a family by name, ignoring case
func ParseFamily(s string) (Family, error) {
	for _, f := range AllFamilies() {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", &ConfigurationError{Field: "families", Reason: "unknown family " + strconv.Quote(s)}
}

// CatalogService returns the service catalog name the family is served under
func (f Family) CatalogService() string {
	return catalogServices[f]
}

// ResourceMetrics maps resource name -> metric name -> value
type ResourceMetrics map[string]map[string]float64

// Collection is the result of one collector call. Skipped holds the
// per-record errors (e.g. *UnknownStatusError) of records left out of
// Resources.
type Collection struct {
	Resources ResourceMetrics
	Skipped   []error
}

func newCollection() *Collection {
	return &Collection{Resources: make(ResourceMetrics)}
}

// ResourceCollector fetches and normalizes the resources of one family in one
// region. Implementations keep no state between calls.
type ResourceCollector interface {
	Family() Family
	Collect(ctx context.Context, authToken, baseURL string) (*Collection, error)
}

// NewCollectors returns the collector of every family, sharing client
func NewCollectors(client *Client) map[Family]ResourceCollector {
	return map[Family]ResourceCollector{
		FamilyFirstGenServers: FirstGenServers{client: client},
		FamilyNextGenServers:  NextGenServers{client: client},
		FamilyFiles:           CloudFiles{client: client},
		FamilyDatabases:       Databases{client: client},
		FamilyLoadBalancers:   LoadBalancers{client: client},
	}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
