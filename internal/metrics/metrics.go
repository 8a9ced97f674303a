package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters
var (
	SineGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eightzeros_sine_generated_total",
		Help: "Sine wave files written, by outcome",
	}, []string{"outcome"})
	SamplesWrittenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eightzeros_samples_written_total",
		Help: "Total audio samples written to WAV files",
	})
	InferenceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eightzeros_inference_total",
		Help: "Remote inference calls, by outcome",
	}, []string{"outcome"})
	NotifyErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eightzeros_notify_errors_total",
		Help: "Artifact events that failed to publish",
	})
)

// Gauges
var (
	InferenceInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eightzeros_inference_in_flight",
		Help: "Remote inference calls currently waiting on the model",
	})
)

// Histograms
var (
	SynthesisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eightzeros_synthesis_duration_ms",
		Help:    "Time to synthesize and write one sine wave file in milliseconds",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
	InferenceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "eightzeros_inference_duration_ms",
		Help:    "Remote inference round trip in milliseconds",
		Buckets: []float64{1000, 2500, 5000, 10000, 20000, 30000, 60000, 120000},
	})
)
