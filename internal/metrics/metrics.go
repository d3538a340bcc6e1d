// Package metrics exposes engine activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/skyline-sprint/internal/engine"
)

// Collector bundles the runner metrics and implements engine.Recorder, so one
// Collector can be shared by every engine a server hosts.
type Collector struct {
	gatherer prometheus.Gatherer

	FrameSteps     prometheus.Histogram
	DroppedFrames  prometheus.Counter
	Obstacles      *prometheus.CounterVec
	Fallbacks      prometheus.Counter
	Runs           *prometheus.CounterVec
	RunScores      *prometheus.HistogramVec
	ActiveSessions *prometheus.GaugeVec
}

var _ engine.Recorder = (*Collector)(nil)

// NewCollector registers the runner metrics against reg, defaulting to the
// global registry when nil. Registering twice on one registry reuses the
// existing collectors.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	steps, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sprint_frame_steps",
		Help:    "Fixed simulation steps run per host frame.",
		Buckets: []float64{0, 1, 2, 3, 4, 5},
	}), "sprint_frame_steps")
	if err != nil {
		return nil, err
	}
	dropped, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sprint_dropped_frames_total",
		Help: "Host frames that hit the step bound and discarded accumulated time.",
	}), "sprint_dropped_frames_total")
	if err != nil {
		return nil, err
	}
	obstacles, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sprint_obstacles_spawned_total",
		Help: "Obstacles spawned, labeled by type.",
	}, []string{"type"}), "sprint_obstacles_spawned_total")
	if err != nil {
		return nil, err
	}
	fallbacks, err := register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sprint_fairness_fallbacks_total",
		Help: "Placements that exhausted their attempts and used the fallback lane.",
	}), "sprint_fairness_fallbacks_total")
	if err != nil {
		return nil, err
	}
	runs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sprint_runs_ended_total",
		Help: "Finished runs, labeled by mode.",
	}, []string{"mode"}), "sprint_runs_ended_total")
	if err != nil {
		return nil, err
	}
	scores, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sprint_run_score",
		Help:    "Final score of finished runs.",
		Buckets: prometheus.ExponentialBuckets(100, 2, 10),
	}, []string{"mode"}), "sprint_run_score")
	if err != nil {
		return nil, err
	}
	sessions, err := register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sprint_active_sessions",
		Help: "Connected sessions, labeled by transport.",
	}, []string{"transport"}), "sprint_active_sessions")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:       gatherer,
		FrameSteps:     steps,
		DroppedFrames:  dropped,
		Obstacles:      obstacles,
		Fallbacks:      fallbacks,
		Runs:           runs,
		RunScores:      scores,
		ActiveSessions: sessions,
	}, nil
}

// ObserveFrame records the steps a frame ran.
func (c *Collector) ObserveFrame(steps int, dropped bool) {
	if c == nil {
		return
	}
	c.FrameSteps.Observe(float64(steps))
	if dropped {
		c.DroppedFrames.Inc()
	}
}

// ObstacleSpawned counts a spawn of the named type.
func (c *Collector) ObstacleSpawned(kind string) {
	if c == nil {
		return
	}
	c.Obstacles.WithLabelValues(kind).Inc()
}

// FairnessFallback counts a fallback placement.
func (c *Collector) FairnessFallback() {
	if c == nil {
		return
	}
	c.Fallbacks.Inc()
}

// RunEnded records a finished run.
func (c *Collector) RunEnded(mode string, score int) {
	if c == nil {
		return
	}
	c.Runs.WithLabelValues(mode).Inc()
	c.RunScores.WithLabelValues(mode).Observe(float64(score))
}

// SessionOpened marks a session on the transport as connected. The returned
// func marks it closed.
func (c *Collector) SessionOpened(transport string) func() {
	if c == nil {
		return func() {}
	}
	g := c.ActiveSessions.WithLabelValues(transport)
	g.Inc()
	return g.Dec
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("metrics: collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, fmt.Errorf("metrics: register %s: %w", name, err)
	}
	return c, nil
}
