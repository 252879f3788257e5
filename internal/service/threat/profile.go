package threat

import (
	"slices"
	"sync"
	"time"
)

// Ring capacities for the behavioral recency windows.
const (
	loginHourRingSize   = 24
	sourceRingSize      = 10
	fingerprintRingSize = 5

	// minSamples is how much history a ring needs before an out-of-window
	// observation counts as anomalous. Below it the profile is still learning.
	minSamples = 5
)

// profile is the in-memory behavioral model of one user. All access goes
// through methods holding the profile's own lock.
type profile struct {
	mu           sync.Mutex
	loginHours   intRing
	sources      stringRing
	fingerprints stringRing
	actions      map[string]int
	actionTotal  int
	score        float64
	lastSeen     time.Time
}

func newProfile() *profile {
	return &profile{
		loginHours:   intRing{cap: loginHourRingSize},
		sources:      stringRing{cap: sourceRingSize},
		fingerprints: stringRing{cap: fingerprintRingSize},
		actions:      make(map[string]int),
	}
}

// observation is one behavioral sample. Zero-valued dimensions are skipped.
type observation struct {
	hour        int
	hourSet     bool
	source      string
	fingerprint string
	action      string
}

// observe feeds one sample into the profile and returns the updated anomaly
// score. Each out-of-window dimension adds increment once the ring has
// enough history; every call then applies the decay multiplier, so isolated
// anomalies fade while sustained ones compound.
func (p *profile) observe(obs observation, now time.Time, increment, decay float64) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if obs.hourSet {
		if p.loginHours.len() > minSamples && !p.loginHours.contains(obs.hour) {
			p.score += increment
		}
		p.loginHours.push(obs.hour)
	}
	if obs.source != "" {
		if p.sources.len() > minSamples && !p.sources.contains(obs.source) {
			p.score += increment
		}
		p.sources.push(obs.source)
	}
	if obs.fingerprint != "" {
		if p.fingerprints.len() > minSamples && !p.fingerprints.contains(obs.fingerprint) {
			p.score += increment
		}
		p.fingerprints.push(obs.fingerprint)
	}
	if obs.action != "" {
		if p.actionTotal > minSamples && p.actions[obs.action] == 0 {
			p.score += increment
		}
		p.actions[obs.action]++
		p.actionTotal++
	}

	p.score *= decay
	p.lastSeen = now
	return p.score
}

// riskScore returns the current anomaly score.
func (p *profile) riskScore() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.score
}

// typicalHours reports whether the profile has learned enough login hours
// to judge off-hours access, and whether the given hour is typical. A
// single stray observation does not make an hour typical; it has to recur.
func (p *profile) typicalHours(hour int) (known, typical bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loginHours.len() < minSamples {
		return false, false
	}
	return true, p.loginHours.count(hour) >= 2
}

func (p *profile) seenBefore(cutoff time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen.Before(cutoff)
}

// intRing keeps the last cap observed ints, oldest evicted first.
type intRing struct {
	items []int
	cap   int
}

func (r *intRing) push(v int) {
	r.items = append(r.items, v)
	if len(r.items) > r.cap {
		r.items = r.items[1:]
	}
}

func (r *intRing) contains(v int) bool { return slices.Contains(r.items, v) }
func (r *intRing) len() int            { return len(r.items) }

func (r *intRing) count(v int) int {
	n := 0
	for _, item := range r.items {
		if item == v {
			n++
		}
	}
	return n
}

// stringRing keeps the last cap observed strings, oldest evicted first.
type stringRing struct {
	items []string
	cap   int
}

func (r *stringRing) push(v string) {
	r.items = append(r.items, v)
	if len(r.items) > r.cap {
		r.items = r.items[1:]
	}
}

func (r *stringRing) contains(v string) bool { return slices.Contains(r.items, v) }
func (r *stringRing) len() int               { return len(r.items) }
