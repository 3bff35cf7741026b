package rackspace

import (
	"context"
	"errors"
	"fmt"
)

// FirstGenServers collects the legacy cloudServers API. Only the account's
// default region exposes it.
type FirstGenServers struct {
	client *Client
}

type firstGenServerList struct {
	Servers *[]struct {
		Name     string     `json:"name"`
		Progress *number    `json:"progress"`
		FlavorID identifier `json:"flavorId"`
	} `json:"servers"`
}

// Family implements ResourceCollector
func (FirstGenServers) Family() Family { return FamilyFirstGenServers }

// Collect implements ResourceCollector
func (c FirstGenServers) Collect(ctx context.Context, authToken, baseURL string) (*Collection, error) {
	url := joinURL(baseURL, "/servers/detail")

	var list firstGenServerList
	if err := c.client.Get(ctx, url, authToken, &list); err != nil {
		return nil, fmt.Errorf("listing servers: %w", err)
	}
	if list.Servers == nil {
		return nil, fmt.Errorf("listing servers: %w", missingList(url, "servers"))
	}

	flavors, err := ListFlavors(ctx, c.client, authToken, baseURL)
	if err != nil {
		return nil, err
	}
	byID := indexFlavors(flavors)

	result := newCollection()
	for _, server := range *list.Servers {
		if err := requireFields(server.Name, field{"progress", server.Progress}); err != nil {
			result.Skipped = append(result.Skipped, err)
			continue
		}

		stats := map[string]float64{
			"Progress": float64(*server.Progress),
		}
		addFlavorMetrics(stats, byID, string(server.FlavorID))
		result.Resources[server.Name] = stats
	}
	return result, nil
}

// NextGenServers collects the cloudServersOpenStack API
type NextGenServers struct {
	client *Client
}

type nextGenServerList struct {
	Servers *[]struct {
		Name     string  `json:"name"`
		Progress *number `json:"progress"`
		Status   string  `json:"status"`
		Flavor   struct {
			ID identifier `json:"id"`
		} `json:"flavor"`
	} `json:"servers"`
}

type limitsResponse struct {
	Limits *struct {
		Absolute map[string]*number `json:"absolute"`
	} `json:"limits"`
}

// absoluteLimits maps the reported metric name to the limits.absolute field
// it is read from. "Max Total RAM Size(MB)" reads maxImageMeta; dashboards
// are keyed on that pairing.
var absoluteLimits = []struct {
	metric string
	field  string
}{
	{"Total Cores Used", "totalCoresUsed"},
	{"Total Floating Ips Used", "totalFloatingIpsUsed"},
	{"Total Instances Used", "totalInstancesUsed"},
	{"Total Private Networks Used", "totalPrivateNetworksUsed"},
	{"Total RAM Used(GB)", "totalRAMUsed"},
	{"Total Security Groups Used", "totalSecurityGroupsUsed"},
	{"Max Total Instances", "maxTotalInstances"},
	{"Max Total RAM Size(MB)", "maxImageMeta"},
}

// Family implements ResourceCollector
func (NextGenServers) Family() Family { return FamilyNextGenServers }

// Collect implements ResourceCollector
func (c NextGenServers) Collect(ctx context.Context, authToken, baseURL string) (*Collection, error) {
	url := joinURL(baseURL, "/servers/detail")

	var list nextGenServerList
	if err := c.client.Get(ctx, url, authToken, &list); err != nil {
		return nil, fmt.Errorf("listing servers: %w", err)
	}
	if list.Servers == nil {
		return nil, fmt.Errorf("listing servers: %w", missingList(url, "servers"))
	}

	flavors, err := ListFlavors(ctx, c.client, authToken, baseURL)
	if err != nil {
		return nil, err
	}
	byID := indexFlavors(flavors)

	result := newCollection()
	for _, server := range *list.Servers {
		if err := requireFields(server.Name, field{"progress", server.Progress}); err != nil {
			result.Skipped = append(result.Skipped, err)
			continue
		}
		status, err := ParseServerStatus(server.Status)
		if err != nil {
			result.Skipped = append(result.Skipped, withResource(err, server.Name))
			continue
		}

		stats := map[string]float64{
			"Progress": float64(*server.Progress),
			"Status":   float64(status),
		}
		addFlavorMetrics(stats, byID, string(server.Flavor.ID))
		result.Resources[server.Name] = stats
	}
	return result, nil
}

// Limits reads the account's absolute usage limits from baseURL/limits.
// Limits whose field is absent or null are left out. A response without
// limits.absolute is a *DecodeError.
func (c NextGenServers) Limits(ctx context.Context, authToken, baseURL string) (map[string]float64, error) {
	url := joinURL(baseURL, "/limits")

	var resp limitsResponse
	if err := c.client.Get(ctx, url, authToken, &resp); err != nil {
		return nil, fmt.Errorf("reading limits: %w", err)
	}
	if resp.Limits == nil || resp.Limits.Absolute == nil {
		return nil, fmt.Errorf("reading limits: %w",
			&DecodeError{URL: url, Err: errors.New("response has no limits.absolute")})
	}

	limits := make(map[string]float64, len(absoluteLimits))
	for _, l := range absoluteLimits {
		if v := resp.Limits.Absolute[l.field]; v != nil {
			limits[l.metric] = float64(*v)
		}
	}
	return limits, nil
}

func withResource(err error, resource string) error {
	var unknown *UnknownStatusError
	if errors.As(err, &unknown) {
		unknown.Resource = resource
		return unknown
	}
	return fmt.Errorf("%s: %w", resource, err)
}
