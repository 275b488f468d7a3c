package radial

import (
	"expvar"
	"sync/atomic"
	"time"
)

// Metrics counts menu sessions and their outcomes. It is safe for concurrent
// use and can be shared by every controller of a Manager.
//
// Call RegisterExpvar to publish the counters under /debug/vars:
//
//	metrics := radial.NewMetrics()
//	metrics.RegisterExpvar()
type Metrics struct {
	sessionsOpened     atomic.Int64
	sessionsReplaced   atomic.Int64
	commandsDispatched atomic.Int64
	cancels            atomic.Int64
	dialogsOpened      atomic.Int64
	settingsChanges    atomic.Int64
	saveFailures       atomic.Int64
	importFailures     atomic.Int64
	errorsTotal        atomic.Int64

	renders            atomic.Int64
	renderFailures     atomic.Int64
	renderLatencyNs    atomic.Int64
	renderLatencyCount atomic.Int64

	activeSessions atomic.Int32

	registered atomic.Bool
}

// NewMetrics creates zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar publishes the metrics with the expvar package. Only the
// first call has an effect; expvar names are process-wide.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return
	}
	counters := map[string]*atomic.Int64{
		"radial_sessions_opened_total":     &m.sessionsOpened,
		"radial_sessions_replaced_total":   &m.sessionsReplaced,
		"radial_commands_dispatched_total": &m.commandsDispatched,
		"radial_cancels_total":             &m.cancels,
		"radial_dialogs_opened_total":      &m.dialogsOpened,
		"radial_settings_changes_total":    &m.settingsChanges,
		"radial_save_failures_total":       &m.saveFailures,
		"radial_import_failures_total":     &m.importFailures,
		"radial_errors_total":              &m.errorsTotal,
		"radial_renders_total":             &m.renders,
		"radial_render_failures_total":     &m.renderFailures,
	}
	for name, v := range counters {
		expvar.Publish(name, expvar.Func(func() any { return v.Load() }))
	}
	expvar.Publish("radial_active_sessions", expvar.Func(func() any { return m.activeSessions.Load() }))
	expvar.Publish("radial_render_latency_avg_ms", expvar.Func(func() any {
		return float64(m.averageRender()) / float64(time.Millisecond)
	}))
}

func (m *Metrics) averageRender() time.Duration {
	n := m.renderLatencyCount.Load()
	if n == 0 {
		return 0
	}
	return time.Duration(m.renderLatencyNs.Load() / n)
}

// RecordSessionOpened counts a new session.
func (m *Metrics) RecordSessionOpened() {
	m.sessionsOpened.Add(1)
	m.activeSessions.Add(1)
}

// RecordSessionClosed counts the end of a session. Sessions closed by a
// command are not cancels.
func (m *Metrics) RecordSessionClosed(committed bool) {
	m.activeSessions.Add(-1)
	if !committed {
		m.cancels.Add(1)
	}
}

// RecordSessionReplaced counts a session closed because another opened.
func (m *Metrics) RecordSessionReplaced() { m.sessionsReplaced.Add(1) }

// RecordCommand counts a dispatched command.
func (m *Metrics) RecordCommand() { m.commandsDispatched.Add(1) }

// RecordDialog counts an opened modal surface.
func (m *Metrics) RecordDialog() { m.dialogsOpened.Add(1) }

// RecordSettingsChange counts an applied settings change.
func (m *Metrics) RecordSettingsChange() { m.settingsChanges.Add(1) }

// RecordSaveFailure counts a swallowed save failure.
func (m *Metrics) RecordSaveFailure() { m.saveFailures.Add(1) }

// RecordImportFailure counts a rejected import.
func (m *Metrics) RecordImportFailure() { m.importFailures.Add(1) }

// RecordError counts an error reported to the error handler.
func (m *Metrics) RecordError() { m.errorsTotal.Add(1) }

// RecordRender counts one compose. Failed renders do not contribute to the
// latency average.
func (m *Metrics) RecordRender(d time.Duration, err error) {
	m.renders.Add(1)
	if err != nil {
		m.renderFailures.Add(1)
		return
	}
	m.renderLatencyNs.Add(d.Nanoseconds())
	m.renderLatencyCount.Add(1)
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	SessionsOpened     int64
	SessionsReplaced   int64
	CommandsDispatched int64
	Cancels            int64
	DialogsOpened      int64
	SettingsChanges    int64
	SaveFailures       int64
	ImportFailures     int64
	ErrorsTotal        int64
	Renders            int64
	RenderFailures     int64
	RenderLatencyAvg   time.Duration
	ActiveSessions     int32
}

// Snapshot copies the current values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		SessionsOpened:     m.sessionsOpened.Load(),
		SessionsReplaced:   m.sessionsReplaced.Load(),
		CommandsDispatched: m.commandsDispatched.Load(),
		Cancels:            m.cancels.Load(),
		DialogsOpened:      m.dialogsOpened.Load(),
		SettingsChanges:    m.settingsChanges.Load(),
		SaveFailures:       m.saveFailures.Load(),
		ImportFailures:     m.importFailures.Load(),
		ErrorsTotal:        m.errorsTotal.Load(),
		Renders:            m.renders.Load(),
		RenderFailures:     m.renderFailures.Load(),
		RenderLatencyAvg:   m.averageRender(),
		ActiveSessions:     m.activeSessions.Load(),
	}
}
