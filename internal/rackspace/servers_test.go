package rackspace

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstGenServers_Collect(t *testing.T) {
	api := newFakeAPI(t)
	collector := FirstGenServers{client: newTestClient()}

	result, err := collector.Collect(context.Background(), "tok", api.URL+"/firstgen/v1.0/123456")
	require.NoError(t, err)

	assert.Equal(t, FamilyFirstGenServers, collector.Family())
	assert.Equal(t, ResourceMetrics{
		// FirstGen flavors list neither swap nor vcpus
		"legacy-web": {
			"Progress":   100,
			"RAM":        512,
			"Disk Space": 20,
		},
		// flavor 99 is not in the flavor list
		"legacy-batch": {
			"Progress": 45,
		},
	}, result.Resources)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, "tok", api.tokenFor("/firstgen/v1.0/123456/servers/detail"))
	assert.Equal(t, "tok", api.tokenFor("/firstgen/v1.0/123456/flavors/detail"))
}

func TestNextGenServers_Collect(t *testing.T) {
	api := newFakeAPI(t)
	collector := NextGenServers{client: newTestClient()}

	result, err := collector.Collect(context.Background(), "tok", api.URL+"/nextgen/dfw/v2/123456")
	require.NoError(t, err)

	assert.Equal(t, ResourceMetrics{
		"web-01": {
			"Progress":   100,
			"Status":     float64(ServerActive),
			"RAM":        1024,
			"Swap":       0,
			"vCPUs":      1,
			"Disk Space": 20,
		},
		"db-01": {
			"Progress": 99.6,
			"Status":   float64(ServerVerifyResize),
		},
	}, result.Resources)

	require.Len(t, result.Skipped, 1)
	var unknown *UnknownStatusError
	require.ErrorAs(t, result.Skipped[0], &unknown)
	assert.Equal(t, "SHELVED", unknown.Status)
	assert.Equal(t, "mystery", unknown.Resource)
}

func TestNextGenServers_TrailingSlashBaseURL(t *testing.T) {
	api := newFakeAPI(t)
	collector := NextGenServers{client: newTestClient()}

	result, err := collector.Collect(context.Background(), "tok", api.URL+"/nextgen/ord/v2/123456/")
	require.NoError(t, err)
	assert.Len(t, result.Resources, 2)
}

func TestServers_FlavorsFetchedOnEveryCall(t *testing.T) {
	api := newFakeAPI(t)
	collector := NextGenServers{client: newTestClient()}
	base := api.URL + "/nextgen/dfw/v2/123456"

	for i := 0; i < 3; i++ {
		_, err := collector.Collect(context.Background(), "tok", base)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, api.requestCount("/nextgen/dfw/v2/123456/flavors/detail"))
}

func TestServers_Failures(t *testing.T) {
	tests := []struct {
		name     string
		failPath string
	}{
		{"server list", "/nextgen/dfw/v2/123456/servers/detail"},
		{"flavor list", "/nextgen/dfw/v2/123456/flavors/detail"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.fail(tt.failPath, http.StatusInternalServerError)

			collector := NextGenServers{client: newTestClient()}
			result, err := collector.Collect(context.Background(), "tok", api.URL+"/nextgen/dfw/v2/123456")

			assert.Nil(t, result)
			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		})
	}
}

func TestNextGenServers_Limits(t *testing.T) {
	api := newFakeAPI(t)
	collector := NextGenServers{client: newTestClient()}

	limits, err := collector.Limits(context.Background(), "tok", api.URL+"/nextgen/dfw/v2/123456")
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{
		"Total Cores Used":            5,
		"Total Floating Ips Used":     0,
		"Total Instances Used":        2,
		"Total Private Networks Used": 1,
		"Total RAM Used(GB)":          16384,
		"Total Security Groups Used":  0,
		"Max Total Instances":         100,
		"Max Total RAM Size(MB)":      40,
	}, limits)
}

func TestNextGenServers_LimitsMissingFields(t *testing.T) {
	api := newFakeAPI(t)
	api.route("/nextgen/dfw/v2/123456/limits", "limits_empty.json")

	collector := NextGenServers{client: newTestClient()}
	limits, err := collector.Limits(context.Background(), "tok", api.URL+"/nextgen/dfw/v2/123456")
	require.NoError(t, err)
	assert.Empty(t, limits, "absent limits are left out")

	limits, err = collector.Limits(context.Background(), "tok",
		serveJSON(t, `{"limits":{"absolute":{"totalCoresUsed":3,"maxTotalInstances":null}}}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"Total Cores Used": 3}, limits)
}

func TestNextGenServers_LimitsWithoutAbsolute(t *testing.T) {
	collector := NextGenServers{client: newTestClient()}

	for _, body := range []string{`{"limits":{}}`, `{"limits":{"rate":[]}}`, `{}`} {
		limits, err := collector.Limits(context.Background(), "tok", serveJSON(t, body))
		assert.Nil(t, limits, body)

		var decodeErr *DecodeError
		assert.ErrorAs(t, err, &decodeErr, body)
	}
}

func TestNextGenServers_RecordWithoutProgressIsSkipped(t *testing.T) {
	api := newFakeAPI(t)
	api.route("/nextgen/dfw/v2/123456/servers/detail", "nextgen_servers_missing_fields.json")

	collector := NextGenServers{client: newTestClient()}
	result, err := collector.Collect(context.Background(), "tok", api.URL+"/nextgen/dfw/v2/123456")
	require.NoError(t, err)

	assert.Equal(t, ResourceMetrics{
		"app-01": {
			"Progress":   100,
			"Status":     float64(ServerActive),
			"RAM":        1024,
			"Swap":       0,
			"vCPUs":      1,
			"Disk Space": 20,
		},
	}, result.Resources)

	require.Len(t, result.Skipped, 1)
	var missing *MissingFieldError
	require.ErrorAs(t, result.Skipped[0], &missing)
	assert.Equal(t, "no-progress", missing.Resource)
	assert.Equal(t, "progress", missing.Field)
}

func TestListFlavors_MissingList(t *testing.T) {
	_, err := ListFlavors(context.Background(), newTestClient(), "tok", serveJSON(t, `{"flavor":{}}`))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func ptr(v float64) *float64 { return &v }

func TestListFlavors(t *testing.T) {
	api := newFakeAPI(t)

	flavors, err := ListFlavors(context.Background(), newTestClient(), "tok", api.URL+"/nextgen/dfw/v2/123456")
	require.NoError(t, err)

	require.Len(t, flavors, 3)
	assert.Equal(t, Flavor{ID: "io1-15", Name: "15 GB I/O v1", RAM: ptr(15360), Disk: ptr(40), Swap: ptr(512), VCPUs: ptr(4)}, flavors[2])
	assert.Equal(t, ptr(0), flavors[0].Swap, `an empty swap string is zero`)

	firstGen, err := ListFlavors(context.Background(), newTestClient(), "tok", api.URL+"/firstgen/v1.0/123456")
	require.NoError(t, err)
	assert.Equal(t, Flavor{ID: "2", Name: "512 server", RAM: ptr(512), Disk: ptr(20)}, firstGen[1])
}
