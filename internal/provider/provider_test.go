package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricPath(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		want     string
	}{
		{"resource metric", "web-01", "Custom Metrics|Rackspace|NextGenServers |DFW|web-01|Status"},
		{"account metric", "", "Custom Metrics|Rackspace|NextGenServers |DFW|Status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MetricPath("Custom Metrics|Rackspace|", "NextGenServers", "DFW", tt.resource, "Status")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewMetric_RoundsValue(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
		text string
	}{
		{42, 42, "42"},
		{99.4, 99, "99"},
		{99.6, 100, "100"},
		{2.5, 3, "3"},
		{-2.5, -3, "-3"},
		{-1, -1, "-1"},
		{0.49, 0, "0"},
		{1048576, 1048576, "1048576"},
		{73400320000, 73400320000, "73400320000"},
	}

	for _, tt := range tests {
		m := NewMetric("P|", "Files", "DFW", "backups", "Bytes", tt.in)
		assert.Equal(t, tt.want, m.Value, "%v", tt.in)
		assert.Equal(t, tt.text, m.ValueString(), "%v", tt.in)
	}
}

func TestNewMetric_Fields(t *testing.T) {
	m := NewMetric("P|", "NextGenServers", LimitsLabel, "", "Total Cores Used", 5)

	assert.Equal(t, Metric{
		Path:  "P|NextGenServers |Limits|Total Cores Used",
		Group: "NextGenServers",
		Label: LimitsLabel,
		Name:  "Total Cores Used",
		Value: 5,
	}, m)
}

func TestMetricValueString_UnroundedInput(t *testing.T) {
	m := Metric{Value: 7.7}
	assert.Equal(t, "8", m.ValueString())
}

func TestRunSummary_Err(t *testing.T) {
	var nilSummary *RunSummary
	assert.NoError(t, nilSummary.Err())
	assert.Empty(t, nilSummary.FailuresByFamily())

	summary := &RunSummary{}
	assert.NoError(t, summary.Err())

	summary.Failures = []Failure{
		{Family: "Databases", Region: "DFW", Err: errors.New("databases down")},
		{Family: "NextGenServers", Region: "ORD", Err: errors.New("ord down")},
		{Family: "NextGenServers", Region: "HKG", Err: errors.New("hkg down")},
	}

	err := summary.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "databases down")
	assert.Contains(t, err.Error(), "hkg down")
	assert.Equal(t, map[string]int{"Databases": 1, "NextGenServers": 2}, summary.FailuresByFamily())
}

func TestSortMetrics(t *testing.T) {
	metrics := []Metric{
		{Path: "P|LoadBalancers |DFW|lb|Status"},
		{Path: "P|Databases |DFW|db|Status"},
		{Path: "P|Files |DFW|backups|Count"},
	}

	SortMetrics(metrics)

	assert.Equal(t, "P|Databases |DFW|db|Status", metrics[0].Path)
	assert.Equal(t, "P|Files |DFW|backups|Count", metrics[1].Path)
	assert.Equal(t, "P|LoadBalancers |DFW|lb|Status", metrics[2].Path)
}
