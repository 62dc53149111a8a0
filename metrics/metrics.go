// Package metrics exposes the statistics of a vocabtools run as
// Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/italia/vocabtools/tabular"
	"github.com/italia/vocabtools/types"
)

const namespace = "vocabtools"

// Command outcomes
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the collectors of a run on a private registry
type Metrics struct {
	registry *prometheus.Registry

	// Framing
	SourceItems   prometheus.Gauge
	FramedItems   prometheus.Gauge
	FilteredItems prometheus.Gauge
	Batches       prometheus.Gauge

	// Roundtrip
	CSVRows         prometheus.Gauge
	CSVTriples      prometheus.Gauge
	OriginalTriples prometheus.Gauge
	ExtraTriples    prometheus.Gauge

	CommandDuration *prometheus.HistogramVec
}

func gauge(subsystem, name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
}

// New returns the metrics registered on a new registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		SourceItems:   gauge("framing", "source_items", "Items given to the framer."),
		FramedItems:   gauge("framing", "framed_items", "Records produced by the framer."),
		FilteredItems: gauge("framing", "filtered_items", "Items dropped by the frame."),
		Batches:       gauge("framing", "batches", "Framing batches."),

		CSVRows:         gauge("roundtrip", "csv_rows", "Rows read from the CSV."),
		CSVTriples:      gauge("roundtrip", "csv_triples", "Triples produced by the CSV."),
		OriginalTriples: gauge("roundtrip", "original_triples", "Triples of the source vocabulary."),
		ExtraTriples:    gauge("roundtrip", "extra_triples", "CSV triples missing from the source vocabulary."),

		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Duration of CLI commands.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"command", "status"}),
	}

	m.registry.MustRegister(
		m.SourceItems, m.FramedItems, m.FilteredItems, m.Batches,
		m.CSVRows, m.CSVTriples, m.OriginalTriples, m.ExtraTriples,
		m.CommandDuration,
	)
	return m
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveFraming records the statistics of a framed document
func (m *Metrics) ObserveFraming(stats *types.Statistics) {
	if stats == nil {
		return
	}
	m.SourceItems.Set(float64(stats.SourceItems))
	m.FramedItems.Set(float64(stats.FramedItems))
	m.FilteredItems.Set(float64(len(stats.Filtered)))
	m.Batches.Set(float64(stats.Batches))
}

// ObserveRoundtrip records the statistics of a CSV validation
func (m *Metrics) ObserveRoundtrip(stats *tabular.ValidationStats) {
	if stats == nil {
		return
	}
	m.CSVRows.Set(float64(stats.CSVRows))
	m.CSVTriples.Set(float64(stats.CSVTriples))
	m.OriginalTriples.Set(float64(stats.OriginalTriples))
	m.ExtraTriples.Set(float64(stats.ExtraTriples))
}

// ObserveCommand records how long a command ran
func (m *Metrics) ObserveCommand(command string, err error, d time.Duration) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	m.CommandDuration.WithLabelValues(command, status).Observe(d.Seconds())
}

// WriteTextfile writes the metrics in the text exposition format, for the
// node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
