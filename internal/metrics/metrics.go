package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mutex        sync.RWMutex
	probes       map[string]int64
	healthy      map[string]int64
	unhealthy    map[string]int64
	interviews   map[string]int64
	healthStatus map[string]bool
	fallbacks    int64
	ticks        int64
	removals     int64
	startTime    time.Time
}

type Snapshot struct {
	Uptime    time.Duration           `json:"uptime"`
	Ticks     int64                   `json:"ticks"`
	Fallbacks int64                   `json:"fallbacks"`
	Removals  int64                   `json:"removals"`
	Models    map[string]ModelMetrics `json:"models"`
}

type ModelMetrics struct {
	Probes     int64 `json:"probes"`
	Healthy    int64 `json:"healthy"`
	Unhealthy  int64 `json:"unhealthy"`
	Interviews int64 `json:"interviews"`
	LastProbe  bool  `json:"last_probe_healthy"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		probes:       make(map[string]int64),
		healthy:      make(map[string]int64),
		unhealthy:    make(map[string]int64),
		interviews:   make(map[string]int64),
		healthStatus: make(map[string]bool),
		startTime:    time.Now(),
	}
}

func (m *Metrics) RecordProbe(model string, healthy bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.probes[model]++
	if healthy {
		m.healthy[model]++
	} else {
		m.unhealthy[model]++
	}
	m.healthStatus[model] = healthy
}

func (m *Metrics) RecordInterview(model string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.interviews[model]++
}

func (m *Metrics) RecordFallback() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.fallbacks++
}

func (m *Metrics) RecordTick() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.ticks++
}

func (m *Metrics) RecordRemoval(model string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.removals++
	delete(m.probes, model)
	delete(m.healthy, model)
	delete(m.unhealthy, model)
	delete(m.interviews, model)
	delete(m.healthStatus, model)
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime:    time.Since(m.startTime),
		Ticks:     m.ticks,
		Fallbacks: m.fallbacks,
		Removals:  m.removals,
		Models:    make(map[string]ModelMetrics),
	}

	allModels := make(map[string]bool)
	for model := range m.probes {
		allModels[model] = true
	}
	for model := range m.interviews {
		allModels[model] = true
	}

	for model := range allModels {
		snap.Models[model] = ModelMetrics{
			Probes:     m.probes[model],
			Healthy:    m.healthy[model],
			Unhealthy:  m.unhealthy[model],
			Interviews: m.interviews[model],
			LastProbe:  m.healthStatus[model],
		}
	}

	return snap
}
