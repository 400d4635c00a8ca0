package fallback

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/angeloszaimis/model-health-monitor/internal/metrics"
	"github.com/angeloszaimis/model-health-monitor/internal/model"
	"github.com/angeloszaimis/model-health-monitor/internal/probe"
	"github.com/angeloszaimis/model-health-monitor/internal/registry"
)

// Result is the outcome of one interview start attempt, including the
// human-readable trail of every model tried along the way.
type Result struct {
	Successful bool     `json:"successful"`
	ModelName  string   `json:"model_name,omitempty"`
	Logs       []string `json:"logs"`
	Event      *Event   `json:"event,omitempty"`
}

// Event is the auditable record of a completed selection, including
// whether a substitution took place.
type Event struct {
	ID          string    `json:"id"`
	RequestedID string    `json:"requested_id"`
	SelectedID  string    `json:"selected_id,omitempty"`
	Fallback    bool      `json:"fallback"`
	Timestamp   time.Time `json:"timestamp"`
}

// Selector picks a usable model at interview start. It always probes
// on demand, never trusting the scheduler's cached health flag, and
// walks the registry in registration order when the requested model is
// down.
type Selector struct {
	registry  *registry.Registry
	prober    probe.Prober
	collector *metrics.Collector
	logger    *slog.Logger
}

func NewSelector(
	reg *registry.Registry,
	prober probe.Prober,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Selector {
	return &Selector{
		registry:  reg,
		prober:    prober,
		collector: collector,
		logger:    logger,
	}
}

// Use starts an interview against the requested model, falling back to
// the other registered models in registration order if it is down.
// Candidates are probed sequentially so the scan can stop at the first
// healthy model. An unknown id is probed anyway and reported unhealthy
// by the prober, so the scan still proceeds over the remaining models.
func (s *Selector) Use(ctx context.Context, modelID string) Result {
	requested, registered := s.registry.Get(modelID)

	displayName := modelID
	if registered {
		displayName = requested.Name()
	}

	event := &Event{
		ID:          uuid.NewString(),
		RequestedID: modelID,
		Timestamp:   time.Now(),
	}

	healthy := s.probeAndRecord(ctx, modelID, requested)
	if healthy {
		event.SelectedID = modelID
		s.emitSelected(modelID, false)

		s.logger.Info("Interview started",
			slog.String("model", modelID))

		return Result{
			Successful: true,
			ModelName:  displayName,
			Logs: []string{
				fmt.Sprintf("Started interview with %s successfully.", displayName),
			},
			Event: event,
		}
	}

	logs := []string{
		fmt.Sprintf("%s is not healthy, trying other models...", displayName),
	}

	s.logger.Warn("Requested model is not healthy, walking fallback chain",
		slog.String("model", modelID))

	for _, candidate := range s.registry.Models() {
		if candidate.ID() == modelID {
			continue
		}

		if s.probeAndRecord(ctx, candidate.ID(), candidate) {
			event.SelectedID = candidate.ID()
			event.Fallback = true
			s.emitSelected(candidate.ID(), true)

			s.logger.Info("Interview started via fallback",
				slog.String("requested", modelID),
				slog.String("selected", candidate.ID()))

			logs = append(logs,
				fmt.Sprintf("Started interview with %s successfully.", candidate.Name()))

			return Result{
				Successful: true,
				ModelName:  candidate.Name(),
				Logs:       logs,
				Event:      event,
			}
		}

		logs = append(logs, fmt.Sprintf("%s is not healthy.", candidate.Name()))
	}

	logs = append(logs, "No model is healthy, gave up.")

	s.logger.Error("No healthy model found",
		slog.String("requested", modelID))

	return Result{
		Successful: false,
		Logs:       logs,
		Event:      event,
	}
}

// Start selects the first model in registration order and uses it.
func (s *Selector) Start(ctx context.Context) Result {
	models := s.registry.Models()
	if len(models) == 0 {
		s.logger.Error("No models registered")
		return Result{
			Successful: false,
			Logs:       []string{"No model is healthy, gave up."},
		}
	}

	return s.Use(ctx, models[0].ID())
}

// StartWith runs the same algorithm as Use and returns the selected
// model entity, or nil when no model is healthy.
func (s *Selector) StartWith(ctx context.Context, modelID string) *model.Model {
	result := s.Use(ctx, modelID)
	if !result.Successful || result.Event == nil {
		return nil
	}

	selected, ok := s.registry.Get(result.Event.SelectedID)
	if !ok {
		return nil
	}

	return selected
}

// probeAndRecord probes one model on demand and folds the outcome into
// its history when it is registered.
func (s *Selector) probeAndRecord(ctx context.Context, modelID string, m *model.Model) bool {
	healthy := s.prober.Probe(ctx, modelID)

	if m != nil {
		m.Record(time.Now(), healthy)
	}

	s.emit(metrics.MetricEvent{
		Type:      metrics.EventProbeCompleted,
		Timestamp: time.Now(),
		Model:     modelID,
		Healthy:   healthy,
	})

	return healthy
}

func (s *Selector) emitSelected(modelID string, fellBack bool) {
	s.emit(metrics.MetricEvent{
		Type:      metrics.EventInterviewStarted,
		Timestamp: time.Now(),
		Model:     modelID,
	})

	if fellBack {
		s.emit(metrics.MetricEvent{
			Type:      metrics.EventFallbackPerformed,
			Timestamp: time.Now(),
			Model:     modelID,
		})
	}
}

func (s *Selector) emit(event metrics.MetricEvent) {
	if s.collector == nil {
		return
	}

	s.collector.Emit(event)
}
