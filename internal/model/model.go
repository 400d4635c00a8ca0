package model

import (
	"sync"
	"time"
)

// HistoryLimit bounds the number of retained health records per model.
// The 11th recorded outcome evicts the 1st.
const HistoryLimit = 10

// HealthRecord is a single timestamped probe outcome. Immutable once
// recorded.
type HealthRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Healthy   bool      `json:"healthy"`
}

// Model represents one LLM backend with its identity, current health
// status and a bounded history of probe outcomes.
type Model struct {
	id        string
	name      string
	preferred bool

	mutex        sync.Mutex
	healthy      bool
	availability float64
	history      []HealthRecord
}

// Snapshot is a read-only copy of a model's state, safe to hand to
// callers without exposing live fields.
type Snapshot struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Healthy      bool           `json:"healthy"`
	Availability float64        `json:"availability"`
	Preferred    bool           `json:"preferred"`
	History      []HealthRecord `json:"history"`
}

// New creates a new Model with the given identity.
// The model starts in a healthy state with an empty history.
func New(id, name string, preferred bool) *Model {
	return &Model{
		id:        id,
		name:      name,
		preferred: preferred,
		healthy:   true,
		history:   make([]HealthRecord, 0, HistoryLimit),
	}
}

// ID returns the model's unique identifier.
func (m *Model) ID() string {
	return m.id
}

// Name returns the model's display name.
func (m *Model) Name() string {
	return m.name
}

// Preferred reports whether the model is flagged as preferred.
// The flag is not consulted by fallback ordering.
func (m *Model) Preferred() bool {
	return m.preferred
}

// IsHealthy returns the outcome of the most recently recorded probe.
func (m *Model) IsHealthy() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.healthy
}

// Availability returns the fraction of recorded outcomes that were
// healthy, over at most the last HistoryLimit records. Returns 0 when
// no outcome has been recorded yet.
func (m *Model) Availability() float64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.availability
}

// Record folds one probe outcome into the model: appends a health
// record, evicts the oldest entry past HistoryLimit, recomputes
// availability and updates the health flag.
// Returns true if the health flag changed, false if it was already in
// that state.
func (m *Model) Record(at time.Time, healthy bool) (changed bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.history = append(m.history, HealthRecord{Timestamp: at, Healthy: healthy})
	if len(m.history) > HistoryLimit {
		m.history = m.history[1:]
	}

	healthyCount := 0
	for _, r := range m.history {
		if r.Healthy {
			healthyCount++
		}
	}
	m.availability = float64(healthyCount) / float64(len(m.history))

	if m.healthy == healthy {
		return false
	}

	m.healthy = healthy
	return true
}

// History returns a copy of the recorded health records, oldest first.
func (m *Model) History() []HealthRecord {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	out := make([]HealthRecord, len(m.history))
	copy(out, m.history)
	return out
}

// Snapshot returns a consistent copy of the model's current state.
func (m *Model) Snapshot() Snapshot {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	history := make([]HealthRecord, len(m.history))
	copy(history, m.history)

	return Snapshot{
		ID:           m.id,
		Name:         m.name,
		Healthy:      m.healthy,
		Availability: m.availability,
		Preferred:    m.preferred,
		History:      history,
	}
}
