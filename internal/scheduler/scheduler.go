package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/angeloszaimis/model-health-monitor/internal/metrics"
	"github.com/angeloszaimis/model-health-monitor/internal/model"
	"github.com/angeloszaimis/model-health-monitor/internal/probe"
	"github.com/angeloszaimis/model-health-monitor/internal/registry"
)

// Scheduler probes every registered model on a fixed cadence and folds
// the outcomes into their health histories. All probes of one tick run
// concurrently and share a single tick timestamp.
type Scheduler struct {
	registry  *registry.Registry
	prober    probe.Prober
	collector *metrics.Collector
	interval  time.Duration
	logger    *slog.Logger

	mutex   sync.Mutex
	cron    gocron.Scheduler
	running bool
}

func New(
	reg *registry.Registry,
	prober probe.Prober,
	collector *metrics.Collector,
	interval time.Duration,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		registry:  reg,
		prober:    prober,
		collector: collector,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the recurring health check job. Calling Start while
// the job is already running is a no-op apart from a warning log; a
// second timer is never created. The tick observes ctx, so cancelling
// it stops future ticks from mutating state.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		s.logger.Warn("Health check scheduler already running, ignoring start")
		return nil
	}

	cron, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = cron.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			s.Tick(ctx)
		}),
	)
	if err != nil {
		_ = cron.Shutdown()
		return err
	}

	cron.Start()
	s.cron = cron
	s.running = true

	s.logger.Info("Health check scheduler started",
		slog.Duration("interval", s.interval))

	return nil
}

// Stop cancels the recurring job. No further ticks fire; the tick in
// flight, if any, is allowed to complete and its results are still
// folded in before Stop returns.
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.running {
		return
	}

	if err := s.cron.Shutdown(); err != nil {
		s.logger.Error("Failed to shut down health check scheduler",
			slog.String("error", err.Error()))
	}

	s.cron = nil
	s.running = false

	s.logger.Info("Health check scheduler stopped")
}

// Running reports whether the recurring job is active.
func (s *Scheduler) Running() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.running
}

// Tick probes all registered models concurrently and waits for every
// probe to resolve. A slow or failing probe for one model never delays
// or affects the outcome recorded for another. A probe that panics is
// recovered and logged, and that model's state is left unchanged for
// this tick.
func (s *Scheduler) Tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	// One timestamp shared by every record written this tick.
	now := time.Now()
	models := s.registry.Models()

	var wg sync.WaitGroup
	for _, m := range models {
		wg.Add(1)
		go func(m *model.Model) {
			defer wg.Done()
			s.probeModel(ctx, m, now)
		}(m)
	}
	wg.Wait()

	s.emit(metrics.MetricEvent{
		Type:      metrics.EventTickCompleted,
		Timestamp: now,
	})
}

func (s *Scheduler) probeModel(ctx context.Context, m *model.Model, at time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Probe panicked, leaving model state unchanged",
				slog.String("model", m.ID()),
				slog.Any("panic", r))
		}
	}()

	healthy := s.prober.Probe(ctx, m.ID())
	m.Record(at, healthy)

	s.emit(metrics.MetricEvent{
		Type:      metrics.EventProbeCompleted,
		Timestamp: at,
		Model:     m.ID(),
		Healthy:   healthy,
	})

	s.logger.Info("Health check",
		slog.String("model", m.Name()),
		slog.Bool("healthy", healthy),
		slog.Float64("availability", m.Availability()))
}

func (s *Scheduler) emit(event metrics.MetricEvent) {
	if s.collector == nil {
		return
	}

	s.collector.Emit(event)
}
