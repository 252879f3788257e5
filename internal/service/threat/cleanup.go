package threat

import (
	"context"
	"log/slog"
	"time"
)

// CleanupResult reports what a state sweep removed.
type CleanupResult struct {
	LoginWindows   int `json:"login_windows"`
	RequestWindows int `json:"request_windows"`
	Profiles       int `json:"profiles"`
	ResolvedEvents int `json:"resolved_events"`
	ExpiredBlocks  int `json:"expired_blocks"`
}

// CleanupOldData prunes detection state older than the given age, bounding
// memory. Open events are never removed.
func (m *Monitor) CleanupOldData(ctx context.Context, olderThan time.Duration) CleanupResult {
	now := m.now().UTC()
	cutoff := now.Add(-olderThan)
	var result CleanupResult

	m.state.muLogins.Lock()
	for key, w := range m.state.logins {
		if w.empty(cutoff) {
			delete(m.state.logins, key)
			result.LoginWindows++
		}
	}
	m.state.muLogins.Unlock()

	m.state.muRequests.Lock()
	for key, w := range m.state.requests {
		if w.empty(cutoff) {
			delete(m.state.requests, key)
			result.RequestWindows++
		}
	}
	m.state.muRequests.Unlock()

	m.state.muProfiles.Lock()
	for key, p := range m.state.profiles {
		if p.seenBefore(cutoff) {
			delete(m.state.profiles, key)
			result.Profiles++
		}
	}
	m.state.muProfiles.Unlock()

	m.state.muEvents.Lock()
	for key, event := range m.state.events {
		if event.Resolved && event.CreatedAt.Before(cutoff) {
			delete(m.state.events, key)
			result.ResolvedEvents++
		}
	}
	m.state.muEvents.Unlock()

	m.state.muBlocked.Lock()
	for key, until := range m.state.blocked {
		if now.After(until) {
			delete(m.state.blocked, key)
			result.ExpiredBlocks++
		}
	}
	m.state.muBlocked.Unlock()

	m.state.muThrottled.Lock()
	for key, until := range m.state.throttled {
		if now.After(until) {
			delete(m.state.throttled, key)
		}
	}
	m.state.muThrottled.Unlock()

	m.log.InfoContext(ctx, "threat state cleanup done",
		slog.Int("login_windows", result.LoginWindows),
		slog.Int("request_windows", result.RequestWindows),
		slog.Int("profiles", result.Profiles),
		slog.Int("resolved_events", result.ResolvedEvents))
	return result
}
