package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements MetricsCollector on a Prometheus
// registry. Registration is lazy so constructing a collector that is
// never used stays side-effect free.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	runs        *prometheus.CounterVec
	runDuration *prometheus.HistogramVec
	binsUsed    prometheus.Gauge
	bytesWasted prometheus.Gauge
	assigned    prometheus.Gauge
	oversized   prometheus.Gauge
	binFill     prometheus.Histogram
}

var _ MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusOption configures the Prometheus collector.
type PrometheusOption func(*PrometheusCollector)

// WithRegisterer sets the target registry. Defaults to
// prometheus.DefaultRegisterer.
func WithRegisterer(reg prometheus.Registerer) PrometheusOption {
	return func(c *PrometheusCollector) { c.reg = reg }
}

// WithNamespace sets the metric namespace. Defaults to "pagefit".
func WithNamespace(ns string) PrometheusOption {
	return func(c *PrometheusCollector) { c.namespace = ns }
}

// NewPrometheusCollector creates a Prometheus-backed collector.
func NewPrometheusCollector(opts ...PrometheusOption) *PrometheusCollector {
	c := &PrometheusCollector{
		reg:       prometheus.DefaultRegisterer,
		namespace: "pagefit",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.runs = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "assignment_runs_total",
			Help:      "Assignment runs by strategy and result.",
		}, []string{"strategy", "result"})

		p.runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Name:      "assignment_duration_seconds",
			Help:      "Assignment run duration in seconds by strategy.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8), // 1ms .. ~16s
		}, []string{"strategy"})

		p.binsUsed = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Name:      "bins_used",
			Help:      "Bins opened by the last assignment run.",
		})

		p.bytesWasted = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Name:      "bytes_wasted",
			Help:      "Free bytes left across opened bins after the last run.",
		})

		p.assigned = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Name:      "functions_assigned",
			Help:      "Functions holding a bin after the last run.",
		})

		p.oversized = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Name:      "oversized_clusters",
			Help:      "Clusters larger than a whole bin in the last run.",
		})

		p.binFill = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Name:      "bin_fill_ratio",
			Help:      "Observed fill ratio per opened bin.",
			Buckets:   []float64{0.25, 0.5, 0.75, 0.9, 0.95, 0.99, 1},
		})

		p.reg.MustRegister(p.runs, p.runDuration, p.binsUsed,
			p.bytesWasted, p.assigned, p.oversized, p.binFill)
	})
}

// RecordAssignment records one finished run with its outcome.
func (p *PrometheusCollector) RecordAssignment(strategy, result string, seconds float64) {
	p.ensureRegistered()
	p.runs.WithLabelValues(strategy, result).Inc()
	p.runDuration.WithLabelValues(strategy).Observe(seconds)
}

// SetBinsUsed sets the number of bins the run opened.
func (p *PrometheusCollector) SetBinsUsed(n int) {
	p.ensureRegistered()
	p.binsUsed.Set(float64(n))
}

// SetBytesWasted sets the free space left across opened bins.
func (p *PrometheusCollector) SetBytesWasted(n int64) {
	p.ensureRegistered()
	p.bytesWasted.Set(float64(n))
}

// SetFunctionsAssigned sets how many functions received a bin.
func (p *PrometheusCollector) SetFunctionsAssigned(n int) {
	p.ensureRegistered()
	p.assigned.Set(float64(n))
}

// SetOversizedClusters sets how many clusters exceeded bin capacity.
func (p *PrometheusCollector) SetOversizedClusters(n int) {
	p.ensureRegistered()
	p.oversized.Set(float64(n))
}

// ObserveBinFill records the fill ratio of one bin.
func (p *PrometheusCollector) ObserveBinFill(ratio float64) {
	p.ensureRegistered()
	p.binFill.Observe(ratio)
}
