package threat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medovate/clinic-backend/internal/domain"
)

// stateStore holds all mutable detection state. It is process-local and
// non-durable; losing it on restart only resets windows and scores. The
// container is injectable so monitor instances can share state deliberately.
//
// Each map is guarded by its own RWMutex; windows and profiles additionally
// carry their own locks so same-key updates serialize without holding the
// map lock across a prune.
type stateStore struct {
	muLogins sync.RWMutex
	logins   map[string]*window

	muRequests sync.RWMutex
	requests   map[string]*window

	muProfiles sync.RWMutex
	profiles   map[uuid.UUID]*profile

	muBlocked sync.RWMutex
	blocked   map[string]time.Time

	muThrottled sync.RWMutex
	throttled   map[string]time.Time

	muEvents sync.RWMutex
	events   map[uuid.UUID]*domain.SecurityEvent
}

func newStateStore() *stateStore {
	return &stateStore{
		logins:    make(map[string]*window),
		requests:  make(map[string]*window),
		profiles:  make(map[uuid.UUID]*profile),
		blocked:   make(map[string]time.Time),
		throttled: make(map[string]time.Time),
		events:    make(map[uuid.UUID]*domain.SecurityEvent),
	}
}

func (s *stateStore) loginWindow(sourceID string) *window {
	s.muLogins.Lock()
	defer s.muLogins.Unlock()
	w, ok := s.logins[sourceID]
	if !ok {
		w = &window{}
		s.logins[sourceID] = w
	}
	return w
}

func (s *stateStore) requestWindow(sourceID string) *window {
	s.muRequests.Lock()
	defer s.muRequests.Unlock()
	w, ok := s.requests[sourceID]
	if !ok {
		w = &window{}
		s.requests[sourceID] = w
	}
	return w
}

func (s *stateStore) profile(userID uuid.UUID) *profile {
	s.muProfiles.Lock()
	defer s.muProfiles.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		p = newProfile()
		s.profiles[userID] = p
	}
	return p
}

// block marks a source blocked until the given time.
func (s *stateStore) block(sourceID string, until time.Time) {
	s.muBlocked.Lock()
	defer s.muBlocked.Unlock()
	s.blocked[sourceID] = until
}

// isBlocked reports whether the source is currently blocked. Expired blocks
// are removed on read.
func (s *stateStore) isBlocked(sourceID string, now time.Time) bool {
	s.muBlocked.RLock()
	until, ok := s.blocked[sourceID]
	s.muBlocked.RUnlock()
	if !ok {
		return false
	}
	if now.After(until) {
		s.muBlocked.Lock()
		delete(s.blocked, sourceID)
		s.muBlocked.Unlock()
		return false
	}
	return true
}

func (s *stateStore) throttle(sourceID string, until time.Time) {
	s.muThrottled.Lock()
	defer s.muThrottled.Unlock()
	s.throttled[sourceID] = until
}

func (s *stateStore) isThrottled(sourceID string, now time.Time) bool {
	s.muThrottled.RLock()
	until, ok := s.throttled[sourceID]
	s.muThrottled.RUnlock()
	if !ok {
		return false
	}
	if now.After(until) {
		s.muThrottled.Lock()
		delete(s.throttled, sourceID)
		s.muThrottled.Unlock()
		return false
	}
	return true
}

func (s *stateStore) addEvent(event *domain.SecurityEvent) {
	s.muEvents.Lock()
	defer s.muEvents.Unlock()
	s.events[event.ID] = event
}

func (s *stateStore) event(id uuid.UUID) (*domain.SecurityEvent, bool) {
	s.muEvents.RLock()
	defer s.muEvents.RUnlock()
	e, ok := s.events[id]
	return e, ok
}

func (s *stateStore) listEvents(onlyOpen bool) []*domain.SecurityEvent {
	s.muEvents.RLock()
	defer s.muEvents.RUnlock()
	out := make([]*domain.SecurityEvent, 0, len(s.events))
	for _, e := range s.events {
		if onlyOpen && e.Resolved {
			continue
		}
		out = append(out, e)
	}
	return out
}
