package rackspace

import (
	"context"
	"fmt"
)

// CloudFiles collects per-container usage from the cloudFiles account URL
type CloudFiles struct {
	client *Client
}

type container struct {
	Name  string  `json:"name"`
	Count *number `json:"count"`
	Bytes *number `json:"bytes"`
}

// Family implements ResourceCollector
func (CloudFiles) Family() Family { return FamilyFiles }

// Collect implements ResourceCollector
func (c CloudFiles) Collect(ctx context.Context, authToken, baseURL string) (*Collection, error) {
	url := baseURL + "?format=json"

	var containers *[]container
	if err := c.client.Get(ctx, url, authToken, &containers); err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	if containers == nil {
		return nil, fmt.Errorf("listing containers: %w", missingList(url, "containers"))
	}

	result := newCollection()
	for _, ctr := range *containers {
		if err := requireFields(ctr.Name, field{"count", ctr.Count}, field{"bytes", ctr.Bytes}); err != nil {
			result.Skipped = append(result.Skipped, err)
			continue
		}
		result.Resources[ctr.Name] = map[string]float64{
			"Count": float64(*ctr.Count),
			"Bytes": float64(*ctr.Bytes),
		}
	}
	return result, nil
}

// Databases collects cloud database instances
type Databases struct {
	client *Client
}

type instanceList struct {
	Instances *[]struct {
		Name   string `json:"name"`
		Status string `json:"status"`
		Volume struct {
			Size *number `json:"size"`
		} `json:"volume"`
	} `json:"instances"`
}

// Family implements ResourceCollector
func (Databases) Family() Family { return FamilyDatabases }

// Collect implements ResourceCollector
func (c Databases) Collect(ctx context.Context, authToken, baseURL string) (*Collection, error) {
	url := joinURL(baseURL, "/instances")

	var list instanceList
	if err := c.client.Get(ctx, url, authToken, &list); err != nil {
		return nil, fmt.Errorf("listing instances: %w", err)
	}
	if list.Instances == nil {
		return nil, fmt.Errorf("listing instances: %w", missingList(url, "instances"))
	}

	result := newCollection()
	for _, instance := range *list.Instances {
		if err := requireFields(instance.Name, field{"volume.size", instance.Volume.Size}); err != nil {
			result.Skipped = append(result.Skipped, err)
			continue
		}
		status, err := ParseDatabaseStatus(instance.Status)
		if err != nil {
			result.Skipped = append(result.Skipped, withResource(err, instance.Name))
			continue
		}
		result.Resources[instance.Name] = map[string]float64{
			"Status":      float64(status),
			"Volume-size": float64(*instance.Volume.Size),
		}
	}
	return result, nil
}

// LoadBalancers collects cloud load balancers
type LoadBalancers struct {
	client *Client
}

type loadBalancerList struct {
	LoadBalancers *[]struct {
		Name      string  `json:"name"`
		Status    string  `json:"status"`
		NodeCount *number `json:"nodeCount"`
	} `json:"loadBalancers"`
}

// Family implements ResourceCollector
func (LoadBalancers) Family() Family { return FamilyLoadBalancers }

// Collect implements ResourceCollector
func (c LoadBalancers) Collect(ctx context.Context, authToken, baseURL string) (*Collection, error) {
	url := joinURL(baseURL, "/loadbalancers")

	var list loadBalancerList
	if err := c.client.Get(ctx, url, authToken, &list); err != nil {
		return nil, fmt.Errorf("listing load balancers: %w", err)
	}
	if list.LoadBalancers == nil {
		return nil, fmt.Errorf("listing load balancers: %w", missingList(url, "loadBalancers"))
	}

	result := newCollection()
	for _, lb := range *list.LoadBalancers {
		if err := requireFields(lb.Name, field{"nodeCount", lb.NodeCount}); err != nil {
			result.Skipped = append(result.Skipped, err)
			continue
		}
		status, err := ParseLoadBalancerStatus(lb.Status)
		if err != nil {
			result.Skipped = append(result.Skipped, withResource(err, lb.Name))
			continue
		}
		result.Resources[lb.Name] = map[string]float64{
			"Status":     float64(status),
			"Node Count": float64(*lb.NodeCount),
		}
	}
	return result, nil
}
