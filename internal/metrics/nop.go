package metrics

// NopMetrics discards every instrumentation event. Useful for tests
// and for runs without a metrics destination.
type NopMetrics struct{}

var _ MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

func (n *NopMetrics) RecordAssignment(string, string, float64) {}

func (n *NopMetrics) SetBinsUsed(int) {}

func (n *NopMetrics) SetBytesWasted(int64) {}

func (n *NopMetrics) SetFunctionsAssigned(int) {}

func (n *NopMetrics) SetOversizedClusters(int) {}

func (n *NopMetrics) ObserveBinFill(float64) {}
