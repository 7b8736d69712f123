package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gauges
var (
	IPCConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voice_overlay_ipc_connected",
		Help: "1 while the overlay holds a connection to the sample producer",
	})
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voice_overlay_queue_depth",
		Help: "Samples waiting in the queue at the start of the last tick",
	})
	SurfacePixels = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voice_overlay_surface_pixels",
		Help: "Pixel count of the currently negotiated surface",
	})
)

// Counters
var (
	ConnectAttemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_overlay_ipc_connect_attempts_total",
		Help: "Total connection attempts to the sample producer",
	})
	ConnectFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_overlay_ipc_connect_failures_total",
		Help: "Connection attempts that failed and entered backoff",
	})
	ReadErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_overlay_ipc_read_errors_total",
		Help: "Connections that ended with a read error",
	})
	SamplesReceivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_overlay_samples_received_total",
		Help: "Samples decoded and handed to the render queue",
	})
	DecodeErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_overlay_decode_errors_total",
		Help: "Malformed lines skipped by the IPC client",
	})
	FramesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voice_overlay_frames_total",
		Help: "Frames composited, by trigger",
	}, []string{"trigger"})
	SinkErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "voice_overlay_sink_errors_total",
		Help: "Frames the surface sink failed to accept",
	})
)

// Histograms
var (
	SamplesPerTick = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voice_overlay_samples_per_tick",
		Help:    "Samples drained from the queue per render tick",
		Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 100},
	})
	RenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voice_overlay_render_duration_ms",
		Help:    "Time to composite one frame in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 33},
	})
)
