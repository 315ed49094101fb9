package metrics

import (
	"errors"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	dto "github.com/prometheus/client_model/go"
)

const (
	scenarioTotalName    = "dotconf_scenario_runs_total"
	scenarioDurationName = "dotconf_scenario_duration_seconds"
)

// ErrDisabled is returned by readers when Initialize has not been called.
var ErrDisabled = errors.New("metrics are not enabled")

var (
	// Registry is the metrics registry. It is nil until Initialize is called,
	// and every Record function is a no-op while it is nil.
	Registry *prometheus.Registry

	// Counter metrics
	ScenarioRunsTotal   *prometheus.CounterVec
	DocumentLoadsTotal  *prometheus.CounterVec
	DocumentReloadTotal prometheus.Counter

	// Histogram metrics
	ScenarioDuration *prometheus.HistogramVec
	SortDuration     *prometheus.HistogramVec
)

// Initialize creates a new Registry and registers all metrics with it.
// Calling it again discards previously recorded values.
func Initialize() {
	Registry = prometheus.NewRegistry()

	ScenarioRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: scenarioTotalName,
			Help: "Total number of benchmark scenario iterations",
		},
		[]string{"variant", "status"},
	)
	DocumentLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dotconf_document_loads_total",
			Help: "Total number of documents read and parsed",
		},
		[]string{"format", "status"},
	)
	DocumentReloadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dotconf_document_reloads_total",
			Help: "Total number of reruns triggered by a watched file change",
		},
	)
	ScenarioDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    scenarioDurationName,
			Help:    "Benchmark scenario iteration latency in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		},
		[]string{"variant"},
	)
	SortDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dotconf_sort_duration_seconds",
			Help:    "Deep sort latency in seconds",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		},
		[]string{"variant"},
	)

	Registry.MustRegister(
		ScenarioRunsTotal,
		DocumentLoadsTotal,
		DocumentReloadTotal,
		ScenarioDuration,
		SortDuration,
		collectors.NewGoCollector(),
	)
}

// Enabled reports whether Initialize has been called.
func Enabled() bool {
	return Registry != nil
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordScenario records one benchmark scenario iteration.
func RecordScenario(variant string, success bool, seconds float64) {
	if !Enabled() {
		return
	}
	ScenarioRunsTotal.WithLabelValues(variant, status(success)).Inc()
	ScenarioDuration.WithLabelValues(variant).Observe(seconds)
}

// RecordSort records a deep sort done outside the benchmark.
func RecordSort(variant string, seconds float64) {
	if !Enabled() {
		return
	}
	SortDuration.WithLabelValues(variant).Observe(seconds)
}

// RecordDocumentLoad records a document read.
func RecordDocumentLoad(format string, success bool) {
	if !Enabled() {
		return
	}
	DocumentLoadsTotal.WithLabelValues(format, status(success)).Inc()
}

// RecordReload records a rerun triggered by a file change.
func RecordReload() {
	if !Enabled() {
		return
	}
	DocumentReloadTotal.Inc()
}

// Summary aggregates the recorded scenario iterations of one variant.
type Summary struct {
	Variant      string
	Runs         uint64
	Errors       uint64
	TotalSeconds float64
}

// MeanSeconds returns the mean iteration latency.
func (s Summary) MeanSeconds() float64 {
	if s.Runs == 0 {
		return 0
	}
	return s.TotalSeconds / float64(s.Runs)
}

// Summaries reads the scenario metrics back from the Registry, one Summary
// per variant sorted by name.
func Summaries() ([]Summary, error) {
	if !Enabled() {
		return nil, ErrDisabled
	}
	families, err := Registry.Gather()
	if err != nil {
		return nil, err
	}

	byVariant := make(map[string]*Summary)
	get := func(m *dto.Metric) *Summary {
		name := labelValue(m, "variant")
		s, ok := byVariant[name]
		if !ok {
			s = &Summary{Variant: name}
			byVariant[name] = s
		}
		return s
	}
	for _, mf := range families {
		switch mf.GetName() {
		case scenarioDurationName:
			for _, m := range mf.GetMetric() {
				h := m.GetHistogram()
				s := get(m)
				s.Runs = h.GetSampleCount()
				s.TotalSeconds = h.GetSampleSum()
			}
		case scenarioTotalName:
			for _, m := range mf.GetMetric() {
				if labelValue(m, "status") == "error" {
					get(m).Errors = uint64(m.GetCounter().GetValue())
				}
			}
		}
	}

	out := make([]Summary, 0, len(byVariant))
	for _, s := range byVariant {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Variant < out[j].Variant })
	return out, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

// WriteTextfile writes the Registry in the Prometheus text format, for the
// node_exporter textfile collector.
func WriteTextfile(path string) error {
	if !Enabled() {
		return ErrDisabled
	}
	return prometheus.WriteToTextfile(path, Registry)
}
