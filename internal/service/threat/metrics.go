package threat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/medovate/clinic-backend/internal/domain"
)

// Metrics exposes the monitor's prometheus instrumentation. A nil *Metrics
// disables instrumentation entirely.
type Metrics struct {
	eventsTotal    *prometheus.CounterVec
	responsesTotal *prometheus.CounterVec
}

// NewMetrics registers the monitor counters on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "threat",
			Name:      "events_total",
			Help:      "Security events detected, by threat type and level.",
		}, []string{"type", "level"}),
		responsesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "threat",
			Name:      "response_actions_total",
			Help:      "Automated response actions dispatched, by action and outcome.",
		}, []string{"action", "outcome"}),
	}
}

func (m *Metrics) eventDetected(event *domain.SecurityEvent) {
	m.eventsTotal.WithLabelValues(event.Type.String(), event.Level.String()).Inc()
}

func (m *Metrics) responseExecuted(action domain.ResponseAction) {
	m.responsesTotal.WithLabelValues(action.String(), "ok").Inc()
}

func (m *Metrics) responseFailed(action domain.ResponseAction) {
	m.responsesTotal.WithLabelValues(action.String(), "error").Inc()
}

// Snapshot is a point-in-time view of the monitor state for the admin
// surface.
type Snapshot struct {
	OpenEvents      int                        `json:"open_events"`
	TotalEvents     int                        `json:"total_events"`
	EventsByType    map[domain.ThreatType]int  `json:"events_by_type"`
	EventsByLevel   map[domain.ThreatLevel]int `json:"events_by_level"`
	BlockedSources  int                        `json:"blocked_sources"`
	TrackedProfiles int                        `json:"tracked_profiles"`
}

// Stats summarizes the current detection state.
func (m *Monitor) Stats() Snapshot {
	snap := Snapshot{
		EventsByType:  make(map[domain.ThreatType]int),
		EventsByLevel: make(map[domain.ThreatLevel]int),
	}

	for _, event := range m.state.listEvents(false) {
		snap.TotalEvents++
		if !event.Resolved {
			snap.OpenEvents++
		}
		snap.EventsByType[event.Type]++
		snap.EventsByLevel[event.Level]++
	}

	now := m.now().UTC()
	m.state.muBlocked.RLock()
	for _, until := range m.state.blocked {
		if until.After(now) {
			snap.BlockedSources++
		}
	}
	m.state.muBlocked.RUnlock()

	m.state.muProfiles.RLock()
	snap.TrackedProfiles = len(m.state.profiles)
	m.state.muProfiles.RUnlock()

	return snap
}
