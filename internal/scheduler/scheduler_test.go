package scheduler_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/model-health-monitor/internal/metrics"
	"github.com/angeloszaimis/model-health-monitor/internal/probe"
	"github.com/angeloszaimis/model-health-monitor/internal/registry"
	"github.com/angeloszaimis/model-health-monitor/internal/scheduler"
)

func TestScheduler(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Scheduler Suite")
}

// scriptedProber returns fixed outcomes per model id and counts calls.
type scriptedProber struct {
	mutex    sync.Mutex
	outcomes map[string]bool
	calls    map[string]int
}

func newScriptedProber(outcomes map[string]bool) *scriptedProber {
	return &scriptedProber{
		outcomes: outcomes,
		calls:    make(map[string]int),
	}
}

func (p *scriptedProber) Probe(ctx context.Context, modelID string) bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.calls[modelID]++
	return p.outcomes[modelID]
}

func (p *scriptedProber) callCount(modelID string) int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.calls[modelID]
}

func (p *scriptedProber) totalCalls() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	total := 0
	for _, n := range p.calls {
		total += n
	}
	return total
}

var _ = Describe("Scheduler", func() {
	var (
		log *slog.Logger
		reg *registry.Registry
	)

	BeforeEach(func() {
		log = slog.New(slog.NewTextHandler(os.Stdout, nil))
		reg = registry.New()
		reg.Initialize([]registry.Entry{
			{ID: "gpt-4o", Name: "GPT-4o"},
			{ID: "claude-3-opus", Name: "Claude 3 Opus"},
			{ID: "gemini-pro", Name: "Gemini Pro"},
		})
	})

	Describe("Tick", func() {
		It("should fold one outcome into every model", func() {
			prober := newScriptedProber(map[string]bool{
				"gpt-4o":        true,
				"claude-3-opus": false,
				"gemini-pro":    true,
			})
			sched := scheduler.New(reg, prober, nil, time.Minute, log)

			sched.Tick(context.Background())

			for _, m := range reg.Models() {
				Expect(m.History()).To(HaveLen(1))
				Expect(prober.callCount(m.ID())).To(Equal(1))
			}

			gpt, _ := reg.Get("gpt-4o")
			claude, _ := reg.Get("claude-3-opus")
			Expect(gpt.IsHealthy()).To(BeTrue())
			Expect(claude.IsHealthy()).To(BeFalse())
		})

		It("should stamp all records of one tick with the same timestamp", func() {
			prober := newScriptedProber(map[string]bool{})
			sched := scheduler.New(reg, prober, nil, time.Minute, log)

			sched.Tick(context.Background())

			models := reg.Models()
			first := models[0].History()[0].Timestamp
			for _, m := range models[1:] {
				Expect(m.History()[0].Timestamp).To(Equal(first))
			}
		})

		It("should not let a slow probe delay the others' outcomes", func() {
			release := make(chan struct{})
			prober := probe.Func(func(ctx context.Context, modelID string) bool {
				if modelID == "gemini-pro" {
					<-release
				}
				return true
			})
			sched := scheduler.New(reg, prober, nil, time.Minute, log)

			done := make(chan struct{})
			go func() {
				defer close(done)
				sched.Tick(context.Background())
			}()

			gpt, _ := reg.Get("gpt-4o")
			Eventually(func() int {
				return len(gpt.History())
			}).Should(Equal(1))

			// The tick as a whole waits for the slow probe.
			Consistently(done, 100*time.Millisecond).ShouldNot(BeClosed())

			close(release)
			Eventually(done).Should(BeClosed())
		})

		It("should leave a model untouched when its probe panics", func() {
			gpt, _ := reg.Get("gpt-4o")
			gpt.Record(time.Now(), true)

			prober := probe.Func(func(ctx context.Context, modelID string) bool {
				if modelID == "gpt-4o" {
					panic("provider client blew up")
				}
				return false
			})
			sched := scheduler.New(reg, prober, nil, time.Minute, log)

			sched.Tick(context.Background())

			// Previous health value is kept, not forced false.
			Expect(gpt.IsHealthy()).To(BeTrue())
			Expect(gpt.History()).To(HaveLen(1))

			claude, _ := reg.Get("claude-3-opus")
			Expect(claude.History()).To(HaveLen(1))
			Expect(claude.IsHealthy()).To(BeFalse())
		})

		It("should skip probing once the context is cancelled", func() {
			prober := newScriptedProber(map[string]bool{})
			sched := scheduler.New(reg, prober, nil, time.Minute, log)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			sched.Tick(ctx)
			Expect(prober.totalCalls()).To(BeZero())
		})

		It("should emit probe and tick events to the collector", func() {
			collector := metrics.NewCollector(64, log)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			collector.Start(ctx)

			prober := newScriptedProber(map[string]bool{"gpt-4o": true})
			sched := scheduler.New(reg, prober, collector, time.Minute, log)

			sched.Tick(context.Background())

			Eventually(func() int64 {
				return collector.Snapshot().Ticks
			}).Should(Equal(int64(1)))

			snap := collector.Snapshot()
			Expect(snap.Models["gpt-4o"].Probes).To(Equal(int64(1)))
			Expect(snap.Models["gpt-4o"].Healthy).To(Equal(int64(1)))
		})
	})

	Describe("lifecycle", func() {
		It("should probe on a recurring cadence once started", func() {
			prober := newScriptedProber(map[string]bool{"gpt-4o": true})
			sched := scheduler.New(reg, prober, nil, 20*time.Millisecond, log)

			Expect(sched.Start(context.Background())).To(Succeed())
			defer sched.Stop()

			Eventually(func() int {
				return prober.callCount("gpt-4o")
			}).Should(BeNumerically(">=", 2))
		})

		It("should treat a second start as a no-op", func() {
			prober := newScriptedProber(map[string]bool{})
			sched := scheduler.New(reg, prober, nil, 20*time.Millisecond, log)

			Expect(sched.Start(context.Background())).To(Succeed())
			defer sched.Stop()

			Expect(sched.Start(context.Background())).To(Succeed())
			Expect(sched.Running()).To(BeTrue())
		})

		It("should stop mutating state after stop", func() {
			prober := newScriptedProber(map[string]bool{})
			sched := scheduler.New(reg, prober, nil, 20*time.Millisecond, log)

			Expect(sched.Start(context.Background())).To(Succeed())
			Eventually(func() int {
				return prober.totalCalls()
			}).Should(BeNumerically(">", 0))

			sched.Stop()
			Expect(sched.Running()).To(BeFalse())

			settled := prober.totalCalls()
			Consistently(func() int {
				return prober.totalCalls()
			}, 100*time.Millisecond).Should(Equal(settled))
		})

		It("should tolerate stop without start", func() {
			prober := newScriptedProber(map[string]bool{})
			sched := scheduler.New(reg, prober, nil, time.Minute, log)

			sched.Stop()
			Expect(sched.Running()).To(BeFalse())
		})
	})
})
