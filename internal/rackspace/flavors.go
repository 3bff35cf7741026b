package rackspace

import (
	"context"
	"fmt"
)

// Flavor is a hardware sizing template referenced by server records. A nil
// dimension was not part of the listing; FirstGen flavors carry neither
// swap nor vcpus.
type Flavor struct {
	ID    string
	Name  string
	RAM   *float64 // MB
	Disk  *float64 // GB
	Swap  *float64 // MB
	VCPUs *float64
}

type flavorList struct {
	Flavors *[]struct {
		ID    identifier `json:"id"`
		Name  string     `json:"name"`
		RAM   *number    `json:"ram"`
		Disk  *number    `json:"disk"`
		Swap  *number    `json:"swap"`
		VCPUs *number    `json:"vcpus"`
	} `json:"flavors"`
}

// ListFlavors fetches baseURL/flavors/detail. Results are never cached, each
// server collection re-fetches them.
func ListFlavors(ctx context.Context, client *Client, authToken, baseURL string) ([]Flavor, error) {
	url := joinURL(baseURL, "/flavors/detail")

	var list flavorList
	if err := client.Get(ctx, url, authToken, &list); err != nil {
		return nil, fmt.Errorf("listing flavors: %w", err)
	}
	if list.Flavors == nil {
		return nil, fmt.Errorf("listing flavors: %w", missingList(url, "flavors"))
	}

	flavors := make([]Flavor, 0, len(*list.Flavors))
	for _, f := range *list.Flavors {
		flavors = append(flavors, Flavor{
			ID:    string(f.ID),
			Name:  f.Name,
			RAM:   f.RAM.float(),
			Disk:  f.Disk.float(),
			Swap:  f.Swap.float(),
			VCPUs: f.VCPUs.float(),
		})
	}
	return flavors, nil
}

func indexFlavors(flavors []Flavor) map[string]Flavor {
	byID := make(map[string]Flavor, len(flavors))
	for _, f := range flavors {
		byID[f.ID] = f
	}
	return byID
}

// addFlavorMetrics joins the server's flavor into stats. Servers with an
// unknown flavor keep only their own metrics, and dimensions the flavor
// does not list are left out.
func addFlavorMetrics(stats map[string]float64, flavors map[string]Flavor, flavorID string) {
	f, ok := flavors[flavorID]
	if !ok {
		return
	}
	for name, v := range map[string]*float64{
		"RAM":        f.RAM,
		"Swap":       f.Swap,
		"vCPUs":      f.VCPUs,
		"Disk Space": f.Disk,
	} {
		if v != nil {
			stats[name] = *v
		}
	}
}
