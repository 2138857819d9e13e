package upscale

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds prometheus collectors for filters. A nil *Metrics records
// nothing, so filters can call it unconditionally.
type Metrics struct {
	frames       *prometheus.CounterVec
	tiles        prometheus.Counter
	inflight     prometheus.Gauge
	gateWait     prometheus.Histogram
	frameLatency prometheus.Histogram
}

// Frame results recorded by Metrics.
const (
	resultOK    = "ok"
	resultError = "error"
)

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		frames: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "upscale",
				Name:      "frames_total",
				Help:      "Frames processed by result",
			},
			[]string{"result"},
		),
		tiles: f.NewCounter(prometheus.CounterOpts{
			Namespace: "upscale",
			Name:      "tile_submissions_total",
			Help:      "Tile forward passes submitted to the GPU, TTA variants included",
		}),
		inflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "upscale",
			Name:      "gpu_inflight",
			Help:      "Frame requests currently holding a GPU slot",
		}),
		gateWait: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "upscale",
			Name:      "gate_wait_seconds",
			Help:      "Time spent waiting for a GPU slot",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
		frameLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "upscale",
			Name:      "frame_duration_seconds",
			Help:      "Time to produce one output frame",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
	}
}

func (m *Metrics) gateEntered(wait time.Duration) {
	if m == nil {
		return
	}
	m.inflight.Inc()
	m.gateWait.Observe(wait.Seconds())
}

func (m *Metrics) gateLeft() {
	if m == nil {
		return
	}
	m.inflight.Dec()
}

func (m *Metrics) frameDone(result string, tiles int, d time.Duration) {
	if m == nil {
		return
	}
	m.frames.WithLabelValues(result).Inc()
	m.tiles.Add(float64(tiles))
	m.frameLatency.Observe(d.Seconds())
}

// contextCollector exports the reference count of a ContextManager.
type contextCollector struct {
	m *ContextManager

	refs      *prometheus.Desc
	inits     *prometheus.Desc
	teardowns *prometheus.Desc
}

// NewContextCollector returns a collector reporting the state of m.
func NewContextCollector(m *ContextManager) prometheus.Collector {
	return &contextCollector{
		m: m,
		refs: prometheus.NewDesc(
			"upscale_gpu_context_refs",
			"Filters currently holding the GPU context",
			nil, nil,
		),
		inits: prometheus.NewDesc(
			"upscale_gpu_context_inits_total",
			"GPU context creations",
			nil, nil,
		),
		teardowns: prometheus.NewDesc(
			"upscale_gpu_context_teardowns_total",
			"GPU context teardowns",
			nil, nil,
		),
	}
}

func (c *contextCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.refs
	ch <- c.inits
	ch <- c.teardowns
}

func (c *contextCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.refs, prometheus.GaugeValue, float64(c.m.Refs()))
	ch <- prometheus.MustNewConstMetric(c.inits, prometheus.CounterValue, float64(c.m.Inits()))
	ch <- prometheus.MustNewConstMetric(c.teardowns, prometheus.CounterValue, float64(c.m.Teardowns()))
}
