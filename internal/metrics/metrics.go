package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config controls the metrics endpoint.
type Config struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":9100"
	}
}

// Sink records export-pipeline outcomes in Prometheus metrics.
type Sink struct {
	generations *prometheus.CounterVec
	duration    prometheus.Histogram
	assignments prometheus.Gauge
	files       prometheus.Gauge
}

// NopSink discards all recordings.
type NopSink struct{}

func (NopSink) RecordGeneration(bool, time.Duration, int, int) {}

// Recorder is what the export service needs from a metrics sink.
type Recorder interface {
	RecordGeneration(success bool, elapsed time.Duration, assignments, files int)
}

// NewSink registers the pipeline collectors on reg. A nil reg uses
// the default registerer; already-registered collectors are reused.
func NewSink(reg prometheus.Registerer) (*Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_generations_total",
		Help: "Total number of timetable generation runs",
	}, []string{"success"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_generation_seconds",
		Help:    "Wall time of one full export pipeline run",
		Buckets: prometheus.DefBuckets,
	})
	assignments := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_last_assignments",
		Help: "Assignment count of the most recent successful generation",
	})
	files := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timetable_last_archive_files",
		Help: "Document count of the most recent successful archive",
	})

	collectors := []prometheus.Collector{generations, duration, assignments, files}
	for i, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	generations = collectors[0].(*prometheus.CounterVec)
	duration = collectors[1].(prometheus.Histogram)
	assignments = collectors[2].(prometheus.Gauge)
	files = collectors[3].(prometheus.Gauge)

	return &Sink{
		generations: generations,
		duration:    duration,
		assignments: assignments,
		files:       files,
	}, nil
}

// RecordGeneration records one pipeline run.
func (s *Sink) RecordGeneration(success bool, elapsed time.Duration, assignments, files int) {
	s.generations.WithLabelValues(strconv.FormatBool(success)).Inc()
	s.duration.Observe(elapsed.Seconds())
	if success {
		s.assignments.Set(float64(assignments))
		s.files.Set(float64(files))
	}
}
