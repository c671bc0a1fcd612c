package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/terraskye/mediator"
	"github.com/terraskye/mediator/internal/config"
	"github.com/terraskye/mediator/logging"
	"github.com/terraskye/mediator/metrics"
	"github.com/terraskye/mediator/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// increment asks the mediator to bump the shared counter.
type increment struct{}

// incremented is published with the counter value after each increment.
type incremented struct {
	Value int64
}

// tally is the shared context. It is only touched by the increment handler,
// which the mediator runs one at a time.
type tally struct {
	value int64
}

type counterMediator = mediator.CxAwareAsyncMediator[*tally, incremented]

func handleIncrement(ctx context.Context, m *counterMediator, _ increment, t *tally) error {
	t.value++
	return m.Publish(ctx, incremented{Value: t.value})
}

// recorder counts deliveries and checks that values arrive in counter order.
type recorder struct {
	name      string
	delivered int
	last      int64
	ordered   bool
}

func newRecorder(name string) *recorder {
	return &recorder{name: name, ordered: true}
}

func (r *recorder) Notify(ev incremented) {
	if r.delivered > 0 && ev.Value <= r.last {
		r.ordered = false
	}
	r.last = ev.Value
	r.delivered++
}

// ListenerReport is the delivery outcome for one listener.
type ListenerReport struct {
	Name      string
	Delivered int
	Ordered   bool
}

// Summary reports the outcome of a workload run.
type Summary struct {
	Sent      int
	Failed    int
	Counter   int64
	Listeners []ListenerReport
	Elapsed   time.Duration
}

// runWorkload sends cfg.Requests increments from cfg.Workers goroutines and
// drains the events afterwards. collector may be nil.
func runWorkload(ctx context.Context, cfg config.RunConfig, logger *zap.Logger, collector *metrics.Collector) (*Summary, error) {
	shared := &tally{value: cfg.Start}

	b := mediator.NewCxAwareAsyncBuilder[*tally, incremented]().
		AddContext(shared).
		Use(
			logging.ZapRequestLogging(logger),
			metrics.PrometheusMiddleware(collector),
		)
	if cfg.RateLimit > 0 {
		b.Use(middleware.RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)))
	}
	b.Use(middleware.Recover())

	recorders := make([]*recorder, cfg.Listeners)
	for i := range recorders {
		r := newRecorder(fmt.Sprintf("listener-%d", i+1))
		recorders[i] = r
		b.AddListener(logging.WithZapListenerLogging[incremented](logger, r.name,
			metrics.WithListenerMetrics[incremented](collector, r.name, r)))
	}

	m, err := mediator.RegisterCxAsync(b, handleIncrement).Build()
	if err != nil {
		return nil, fmt.Errorf("build mediator: %w", err)
	}

	start := time.Now()
	var failed atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		n := cfg.Requests / cfg.Workers
		if w < cfg.Requests%cfg.Workers {
			n++
		}
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < n; i++ {
				if err := m.Send(ctx, increment{}); err != nil {
					failed.Add(1)
					if ctx.Err() != nil {
						failed.Add(int64(n - i - 1))
						return
					}
				}
			}
		}(n)
	}
	wg.Wait()

	// queued events are delivered even when the run was interrupted
	if err := drain(context.WithoutCancel(ctx), m); err != nil {
		return nil, err
	}

	summary := &Summary{
		Sent:    cfg.Requests,
		Failed:  int(failed.Load()),
		Counter: shared.value,
		Elapsed: time.Since(start),
	}
	for _, r := range recorders {
		summary.Listeners = append(summary.Listeners, ListenerReport{
			Name:      r.name,
			Delivered: r.delivered,
			Ordered:   r.ordered,
		})
	}

	if ctx.Err() != nil {
		return summary, fmt.Errorf("run interrupted: %w", ctx.Err())
	}
	return summary, nil
}

func drain(ctx context.Context, m *counterMediator) error {
	for {
		err := m.Next(ctx)
		if errors.Is(err, mediator.ErrNoEvent) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("drain events: %w", err)
		}
	}
}
