package overlay

import (
	"expvar"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-overlay/internal/window"
)

// Metrics collects operational counters for the overlay and publishes them
// through expvar. Thread-safe for concurrent use.
//
// Example usage:
//
//	metrics := overlay.NewMetrics()
//	metrics.RegisterExpvar()
//	// import _ "expvar" and serve http.DefaultServeMux for /debug/vars
type Metrics struct {
	// Counters
	starts             atomic.Int64
	stops              atomic.Int64
	frames             atomic.Int64
	focusFrames        atomic.Int64
	clickThroughFrames atomic.Int64
	modeTransitions    atomic.Int64
	skippedApplies     atomic.Int64
	geometryFailures   atomic.Int64
	backendErrors      atomic.Int64
	drags              atomic.Int64
	widgetClicks       atomic.Int64
	sceneReloads       atomic.Int64
	errorsTotal        atomic.Int64
	eventsEmitted      atomic.Int64

	// Frame latency (nanoseconds)
	frameLatencyNs    atomic.Int64
	frameLatencyCount atomic.Int64

	// Gauges
	running atomic.Int32
	mode    atomic.Int32

	registered atomic.Bool
}

// NewMetrics creates a Metrics instance. Call RegisterExpvar to publish it.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar publishes the metrics as overlay_* expvar variables. Only
// the first call has an effect.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}

	counters := map[string]*atomic.Int64{
		"overlay_starts_total":               &m.starts,
		"overlay_stops_total":                &m.stops,
		"overlay_frames_total":               &m.frames,
		"overlay_focus_frames_total":         &m.focusFrames,
		"overlay_click_through_frames_total": &m.clickThroughFrames,
		"overlay_mode_transitions_total":     &m.modeTransitions,
		"overlay_skipped_applies_total":      &m.skippedApplies,
		"overlay_geometry_failures_total":    &m.geometryFailures,
		"overlay_backend_errors_total":       &m.backendErrors,
		"overlay_drags_total":                &m.drags,
		"overlay_widget_clicks_total":        &m.widgetClicks,
		"overlay_scene_reloads_total":        &m.sceneReloads,
		"overlay_errors_total":               &m.errorsTotal,
		"overlay_events_emitted_total":       &m.eventsEmitted,
	}
	for name, c := range counters {
		expvar.Publish(name, expvar.Func(func() any { return c.Load() }))
	}

	expvar.Publish("overlay_running", expvar.Func(func() any { return m.running.Load() }))
	expvar.Publish("overlay_mode", expvar.Func(func() any { return window.Mode(m.mode.Load()).String() }))
	expvar.Publish("overlay_frame_latency_avg_ms", expvar.Func(func() any {
		return float64(m.frameLatencyAvg()) / float64(time.Millisecond)
	}))
}

func (m *Metrics) frameLatencyAvg() time.Duration {
	n := m.frameLatencyCount.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(m.frameLatencyNs.Load() / n)
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Starts             int64
	Stops              int64
	Frames             int64
	FocusFrames        int64
	ClickThroughFrames int64
	ModeTransitions    int64
	SkippedApplies     int64
	GeometryFailures   int64
	BackendErrors      int64
	Drags              int64
	WidgetClicks       int64
	SceneReloads       int64
	ErrorsTotal        int64
	EventsEmitted      int64

	Running bool
	Mode    Mode

	FrameLatencyAvg time.Duration
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Starts:             m.starts.Load(),
		Stops:              m.stops.Load(),
		Frames:             m.frames.Load(),
		FocusFrames:        m.focusFrames.Load(),
		ClickThroughFrames: m.clickThroughFrames.Load(),
		ModeTransitions:    m.modeTransitions.Load(),
		SkippedApplies:     m.skippedApplies.Load(),
		GeometryFailures:   m.geometryFailures.Load(),
		BackendErrors:      m.backendErrors.Load(),
		Drags:              m.drags.Load(),
		WidgetClicks:       m.widgetClicks.Load(),
		SceneReloads:       m.sceneReloads.Load(),
		ErrorsTotal:        m.errorsTotal.Load(),
		EventsEmitted:      m.eventsEmitted.Load(),
		Running:            m.running.Load() > 0,
		Mode:               Mode(m.mode.Load()),
		FrameLatencyAvg:    m.frameLatencyAvg(),
	}
}

// RecordFrame records one frame: its resulting mode, whether the pointer
// was over interactive content and how long the frame took.
func (m *Metrics) RecordFrame(mode Mode, focus bool, d time.Duration) {
	m.frames.Add(1)
	if focus {
		m.focusFrames.Add(1)
	} else {
		m.clickThroughFrames.Add(1)
	}
	m.mode.Store(int32(mode))
	m.frameLatencyNs.Add(d.Nanoseconds())
	m.frameLatencyCount.Add(1)
}

// IncrementStarts records a start.
func (m *Metrics) IncrementStarts() { m.starts.Add(1) }

// IncrementStops records a stop.
func (m *Metrics) IncrementStops() { m.stops.Add(1) }

// IncrementModeTransitions records an applied window mode change.
func (m *Metrics) IncrementModeTransitions() { m.modeTransitions.Add(1) }

// IncrementSkippedApplies records a frame whose requested mode was already
// applied.
func (m *Metrics) IncrementSkippedApplies() { m.skippedApplies.Add(1) }

// IncrementGeometryFailures records a failed window bounds query.
func (m *Metrics) IncrementGeometryFailures() { m.geometryFailures.Add(1) }

// IncrementBackendErrors records a failed best-effort window call.
func (m *Metrics) IncrementBackendErrors() { m.backendErrors.Add(1) }

// IncrementDrags records a started window drag.
func (m *Metrics) IncrementDrags() { m.drags.Add(1) }

// IncrementWidgetClicks records a button press.
func (m *Metrics) IncrementWidgetClicks() { m.widgetClicks.Add(1) }

// IncrementSceneReloads records a successful scene reload.
func (m *Metrics) IncrementSceneReloads() { m.sceneReloads.Add(1) }

// IncrementErrors records an error.
func (m *Metrics) IncrementErrors() { m.errorsTotal.Add(1) }

// IncrementEventsEmitted records an emitted event.
func (m *Metrics) IncrementEventsEmitted() { m.eventsEmitted.Add(1) }

// SetRunning updates the running gauge.
func (m *Metrics) SetRunning(running bool) {
	if running {
		m.running.Store(1)
	} else {
		m.running.Store(0)
	}
}

// SetMode updates the window mode gauge.
func (m *Metrics) SetMode(mode Mode) { m.mode.Store(int32(mode)) }

// Reset clears all metrics. The expvar registration is kept.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Int64{
		&m.starts, &m.stops, &m.frames, &m.focusFrames, &m.clickThroughFrames,
		&m.modeTransitions, &m.skippedApplies, &m.geometryFailures, &m.backendErrors,
		&m.drags, &m.widgetClicks, &m.sceneReloads, &m.errorsTotal, &m.eventsEmitted,
		&m.frameLatencyNs, &m.frameLatencyCount,
	} {
		c.Store(0)
	}
	m.running.Store(0)
	m.mode.Store(0)
}

var defaultMetrics = NewMetrics()

// DefaultMetrics returns the process-wide Metrics used when Options.Metrics
// is nil.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
