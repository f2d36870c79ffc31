// Package processor owns one polling cycle: fetch recent calls, admit the
// unseen ones through the dedup ledger and run the per-call pipeline on each.
package processor

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"call-digest-go/internal/actionable"
	"call-digest-go/internal/aggregator"
	"call-digest-go/internal/dedup"
	"call-digest-go/internal/logger"
	"call-digest-go/internal/types"
)

const (
	cycleKey       = "cycle"
	defaultWorkers = 4

	msgNoNewCalls = "No new calls to process"
)

// ErrCycleBusy is returned by TryRunCycle while another cycle is running.
var ErrCycleBusy = errors.New("cycle already running")

type CallSource interface {
	FetchRecentCalls(ctx context.Context) ([]types.CallRecord, error)
}

type CallPipeline interface {
	Process(ctx context.Context, call types.CallRecord) types.CallOutcome
}

// Status is a point-in-time view of the processor.
type Status struct {
	Running    bool               `json:"running"`
	LedgerSize int                `json:"processed_call_ids"`
	CyclesRun  int                `json:"cycles_run"`
	LastRunAt  *time.Time         `json:"last_run_at,omitempty"`
	LastCycle  *types.CycleResult `json:"last_cycle,omitempty"`
}

type Processor struct {
	source   CallSource
	pipeline CallPipeline
	ledger   *dedup.Ledger
	workers  int
	log      *logger.Logger

	group   singleflight.Group
	running atomic.Bool

	mu        sync.Mutex
	cyclesRun int
	last      *types.CycleResult
}

// New wires a processor. A nil ledger gets a fresh in-memory one; workers
// below one fall back to the default.
func New(source CallSource, pipeline CallPipeline, ledger *dedup.Ledger, workers int, log *logger.Logger) *Processor {
	if ledger == nil {
		ledger = dedup.NewLedger()
	}
	if workers < 1 {
		workers = defaultWorkers
	}
	return &Processor{
		source:   source,
		pipeline: pipeline,
		ledger:   ledger,
		workers:  workers,
		log:      log.With("component", "processor"),
	}
}

// RunCycle runs one cycle. Callers arriving while a cycle is in flight wait
// for it and receive the same result.
func (p *Processor) RunCycle(ctx context.Context) (types.CycleResult, error) {
	v, err, shared := p.group.Do(cycleKey, func() (interface{}, error) {
		p.running.Store(true)
		defer p.running.Store(false)
		return p.run(ctx)
	})
	if shared {
		p.log.Debug("joined in-flight cycle")
	}
	if err != nil {
		return types.CycleResult{}, err
	}
	return v.(types.CycleResult), nil
}

// TryRunCycle is RunCycle for callers that would rather skip than wait.
func (p *Processor) TryRunCycle(ctx context.Context) (types.CycleResult, error) {
	if p.running.Load() {
		return types.CycleResult{}, ErrCycleBusy
	}
	return p.RunCycle(ctx)
}

func (p *Processor) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := Status{
		Running:    p.running.Load(),
		LedgerSize: p.ledger.Len(),
		CyclesRun:  p.cyclesRun,
	}
	if p.last != nil {
		last := *p.last
		started := last.StartedAt
		st.LastCycle = &last
		st.LastRunAt = &started
	}
	return st
}

func (p *Processor) run(ctx context.Context) (types.CycleResult, error) {
	if err := ctx.Err(); err != nil {
		return types.CycleResult{}, fmt.Errorf("cycle not started: %w", err)
	}

	start := time.Now()
	res := types.CycleResult{CycleID: uuid.New().String(), StartedAt: start.UTC()}
	log := p.log.WithField("cycle_id", res.CycleID)
	log.Info("cycle started")

	calls, err := p.source.FetchRecentCalls(ctx)
	if err != nil {
		log.WithField("error", err.Error()).Warn("call list unavailable, treating as no new calls")
		res.ProviderError = err.Error()
	}
	res.CallsFetched = len(calls)

	var admitted []types.CallRecord
	for _, c := range calls {
		if p.ledger.Admit(c.ID) {
			admitted = append(admitted, c)
		}
	}

	outcomes := make([]types.CallOutcome, len(admitted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, c := range admitted {
		i, c := i, c
		g.Go(func() error {
			outcomes[i] = p.safeProcess(gctx, c)
			return nil
		})
	}
	_ = g.Wait()

	res.Success = true
	res.CallsProcessed = len(outcomes)
	res.Results = outcomes
	res.Summary = aggregator.Aggregate(outcomes)
	res.Attention = actionable.Generate(res.Summary)
	if len(outcomes) == 0 {
		res.Message = msgNoNewCalls
	} else {
		res.Message = fmt.Sprintf("Processed %d calls", len(outcomes))
	}
	res.DurationMs = time.Since(start).Milliseconds()

	log.WithField("fetched", res.CallsFetched).
		WithField("processed", res.CallsProcessed).
		WithField("posted", res.Summary.Posted).
		WithField("failed", res.Summary.Failed).
		WithField("duration_ms", res.DurationMs).
		Info("cycle finished")
	if res.Attention != nil {
		log.WithField("insight", res.Attention.Insight).Warn("cycle needs attention")
	}

	p.mu.Lock()
	p.cyclesRun++
	p.last = &res
	p.mu.Unlock()
	return res, nil
}

// safeProcess turns a panic anywhere in the pipeline into an error outcome
// for that call only.
func (p *Processor) safeProcess(ctx context.Context, call types.CallRecord) (out types.CallOutcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			p.log.WithField("call_id", call.ID).
				WithField("panic", fmt.Sprint(r)).
				WithField("stack", string(debug.Stack())).
				Error("call processing panicked")
			out = types.CallOutcome{
				CallID:     call.ID,
				Error:      fmt.Sprintf("unexpected error: %v", r),
				DurationMs: time.Since(start).Milliseconds(),
			}
		}
	}()
	return p.pipeline.Process(ctx, call)
}
