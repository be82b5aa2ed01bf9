package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics is the molgraph metric set.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Parser
	ParseTotal    CounterVec
	ParseDuration HistogramVec
	MoleculeAtoms HistogramVec

	// Analysis
	AnalysisDuration HistogramVec
	RingsFound       HistogramVec
	ChainLength      HistogramVec
	BatchSize        HistogramVec

	// Infrastructure
	CacheOperationsTotal   CounterVec
	StoreOperationDuration HistogramVec
	MessagesTotal          CounterVec
	ErrorsTotal            CounterVec
}

var (
	DefaultHTTPDurationBuckets  = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	DefaultParseDurationBuckets = []float64{.00005, .0001, .0005, .001, .005, .01, .05, .1, .5}
	DefaultAtomCountBuckets     = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}
	DefaultRingCountBuckets     = []float64{0, 1, 2, 3, 5, 10, 25, 100, 1000}
	DefaultStoreDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers the molgraph metric set on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.ParseTotal = collector.RegisterCounter("parse_total", "SMILES parse attempts", "outcome", "code")
	m.ParseDuration = collector.RegisterHistogram("parse_duration_seconds", "SMILES parse duration", DefaultParseDurationBuckets)
	m.MoleculeAtoms = collector.RegisterHistogram("molecule_atoms", "Atoms per parsed molecule, hydrogens included", DefaultAtomCountBuckets)

	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds", "Structural analysis duration", DefaultParseDurationBuckets, "kind")
	m.RingsFound = collector.RegisterHistogram("rings_found", "Simple cycles found per molecule", DefaultRingCountBuckets)
	m.ChainLength = collector.RegisterHistogram("longest_chain_atoms", "Atoms in the longest chain", DefaultAtomCountBuckets)
	m.BatchSize = collector.RegisterHistogram("batch_size", "Inputs per batch analysis", DefaultAtomCountBuckets)

	m.CacheOperationsTotal = collector.RegisterCounter("cache_operations_total", "Analysis cache lookups", "result")
	m.StoreOperationDuration = collector.RegisterHistogram("store_operation_duration_seconds", "Persistence and export latency", DefaultStoreDurationBuckets, "backend", "operation")
	m.MessagesTotal = collector.RegisterCounter("messages_total", "Kafka messages handled", "topic", "status")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component and code", "component", "code")

	return m
}

// NewNoopMetrics is NewAppMetrics over the no-op collector.
func NewNoopMetrics() *AppMetrics { return NewAppMetrics(NewNoopCollector()) }

func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordParse counts one parse.  An empty code means success.
func RecordParse(m *AppMetrics, code string, duration time.Duration, atoms int) {
	m.ParseDuration.WithLabelValues().Observe(duration.Seconds())
	if code == "" {
		m.ParseTotal.WithLabelValues("success", "").Inc()
		m.MoleculeAtoms.WithLabelValues().Observe(float64(atoms))
		return
	}
	m.ParseTotal.WithLabelValues("failure", code).Inc()
}

func RecordCacheAccess(m *AppMetrics, hit bool) {
	if hit {
		m.CacheOperationsTotal.WithLabelValues("hit").Inc()
		return
	}
	m.CacheOperationsTotal.WithLabelValues("miss").Inc()
}

func RecordStoreOperation(m *AppMetrics, backend, operation string, duration time.Duration, err error) {
	m.StoreOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		m.ErrorsTotal.WithLabelValues(backend, operation+"_failed").Inc()
	}
}

func RecordError(m *AppMetrics, component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}
