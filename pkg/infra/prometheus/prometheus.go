package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	// Latency buckets in milliseconds. Inference on long inputs can take
	// several seconds, so the tail is wider than for plain HTTP.
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustdetect_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trustdetect_latency_ms",
			Help:    "Request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"route"},
	)

	AnalysesTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustdetect_analyses_total",
			Help: "Analyses by outcome label",
		},
		[]string{"outcome"},
	)

	StageLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trustdetect_stage_latency_ms",
			Help:    "Pipeline stage latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"stage"},
	)

	InferenceLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trustdetect_inference_latency_ms",
			Help:    "Language model call latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"model", "call"},
	)

	TruncationsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustdetect_truncations_total",
			Help: "Inputs truncated to a model's maximum context",
		},
		[]string{"model"},
	)

	CacheLookups = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustdetect_cache_lookups_total",
			Help: "Verdict cache lookups by result",
		},
		[]string{"result"},
	)

	Connections = promauto.With(registerer).NewGauge(
		prometheus.GaugeOpts{
			Name: "trustdetect_websocket_connections",
			Help: "Number of open live-analysis websocket connections",
		},
	)
)

type MetricsConfig struct {
	EnableLatency          bool // Request latency
	EnableInferenceLatency bool // Per model call latency
	EnablePerRoute         bool // Route label on latency (higher cardinality)
	EnableConnections      bool // Websocket connection gauge
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency:          true,
		EnableInferenceLatency: true,
		EnablePerRoute:         false,
		EnableConnections:      false,
	}
}

var Config MetricsConfig

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

// Gatherer exposes the private registry to the metrics endpoint.
func Gatherer() prometheus.Gatherer {
	return registry
}
