// Package metrics instruments assignment runs and exports the results
// in Prometheus text exposition format for textfile collection.
package metrics

// MetricsCollector receives instrumentation events from assignment runs.
type MetricsCollector interface {
	// RecordAssignment records one finished run with its outcome.
	RecordAssignment(strategy, result string, seconds float64)

	// SetBinsUsed sets the number of bins the run opened.
	SetBinsUsed(n int)

	// SetBytesWasted sets the free space left across opened bins.
	SetBytesWasted(n int64)

	// SetFunctionsAssigned sets how many functions received a bin.
	SetFunctionsAssigned(n int)

	// SetOversizedClusters sets how many clusters exceeded bin capacity.
	SetOversizedClusters(n int)

	// ObserveBinFill records the fill ratio of one bin.
	ObserveBinFill(ratio float64)
}
