// Package sink implements provider.Sink destinations for collected metrics.
package sink

import (
	"fmt"
	"io"
	"sync"

	"github.com/Appdynamics/rackspace-monitoring-extension/internal/provider"
	"github.com/hashicorp/go-multierror"
)

// Writer prints each metric as a "name=<path>,value=<value>" line, the format
// the AppDynamics machine agent reads from script extensions.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewWriter creates a Writer sink writing to out
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Report implements provider.Sink
func (w *Writer) Report(m provider.Metric) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, err := fmt.Fprintf(w.out, "name=%s,value=%s\n", m.Path, m.ValueString())
	return err
}

// Buffer keeps the metrics of a run in memory
type Buffer struct {
	mu      sync.Mutex
	metrics []provider.Metric
}

// NewBuffer creates an empty Buffer
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Report implements provider.Sink
func (b *Buffer) Report(m provider.Metric) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.metrics = append(b.metrics, m)
	return nil
}

// Metrics returns a copy of the buffered metrics
func (b *Buffer) Metrics() []provider.Metric {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]provider.Metric, len(b.metrics))
	copy(out, b.metrics)
	return out
}

// Len returns the number of buffered metrics
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.metrics)
}

// Multi reports every metric to each of its sinks. All sinks see the metric
// even if an earlier one fails.
type Multi []provider.Sink

// Report implements provider.Sink
func (m Multi) Report(metric provider.Metric) error {
	var result *multierror.Error
	for _, s := range m {
		if err := s.Report(metric); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
