package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"call-digest-go/internal/logger"
	"call-digest-go/internal/processor"
	"call-digest-go/internal/types"
)

// Job represents a scheduled job
type Job interface {
	// ID is the stable identifier reported by JobInfo
	ID() string
	// Name returns the job name for logging
	Name() string
	// Run executes the job
	Run(ctx context.Context) error
	// Schedule returns the interval between runs
	Schedule() time.Duration
}

// JobInfo is the reported state of one registered job.
type JobInfo struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Trigger   string     `json:"trigger"`
	LastRun   *time.Time `json:"last_run_time,omitempty"`
	NextRun   *time.Time `json:"next_run_time,omitempty"`
	LastError string     `json:"last_error,omitempty"`
	Runs      int        `json:"runs"`
}

// Scheduler manages scheduled jobs. Each job waits one full interval before
// its first run.
type Scheduler struct {
	log *logger.Logger

	mu      sync.Mutex
	jobs    []Job
	state   map[string]*JobInfo
	running bool
	now     func() time.Time
}

// New creates a new scheduler
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		log:   log.With("component", "scheduler"),
		state: map[string]*JobInfo{},
		now:   time.Now,
	}
}

// Register adds a job to the scheduler
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job)
	s.state[job.ID()] = &JobInfo{
		ID:      job.ID(),
		Name:    job.Name(),
		Trigger: "interval[" + job.Schedule().String() + "]",
	}
	s.log.WithField("job", job.Name()).WithField("interval", job.Schedule().String()).Info("registered scheduled job")
}

// Start runs every registered job on its interval and blocks until ctx is
// cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.running = true
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	s.log.WithField("jobs", len(jobs)).Info("starting scheduler")

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			s.runJob(ctx, job)
		}(job)
	}

	<-ctx.Done()
	wg.Wait()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	s.log.Info("scheduler stopped")
	return ctx.Err()
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Jobs reports registered jobs ordered by id.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobInfo, 0, len(s.state))
	for _, st := range s.state {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	log := s.log.WithField("scheduled_job", job.Name())
	ticker := time.NewTicker(job.Schedule())
	defer ticker.Stop()
	s.setNext(job, s.now().Add(job.Schedule()))

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping scheduled job")
			s.setNext(job, time.Time{})
			return
		case <-ticker.C:
			s.executeJob(ctx, job)
		}
	}
}

// executeJob executes a job and logs timing
func (s *Scheduler) executeJob(ctx context.Context, job Job) {
	log := s.log.WithField("scheduled_job", job.Name())
	start := s.now()
	log.Info("executing scheduled job")

	err := job.Run(ctx)
	duration := time.Since(start)

	s.mu.Lock()
	st := s.state[job.ID()]
	st.Runs++
	st.LastRun = &start
	next := start.Add(job.Schedule())
	st.NextRun = &next
	st.LastError = ""
	if err != nil {
		st.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		log.WithField("duration", duration.String()).WithField("error", err.Error()).Error("scheduled job failed")
		return
	}
	log.WithField("duration", duration.String()).Info("scheduled job completed")
}

func (s *Scheduler) setNext(job Job, next time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if next.IsZero() {
		s.state[job.ID()].NextRun = nil
		return
	}
	s.state[job.ID()].NextRun = &next
}

// CycleRunner is the part of the processor the cycle job needs.
type CycleRunner interface {
	TryRunCycle(ctx context.Context) (types.CycleResult, error)
}

// CycleJob polls for new calls on a fixed interval. A tick that lands while a
// cycle is already running is skipped.
type CycleJob struct {
	Runner   CycleRunner
	Interval time.Duration
	Log      *logger.Logger
}

func (j *CycleJob) ID() string              { return "call_processing_job" }
func (j *CycleJob) Name() string            { return "Call Processing Job" }
func (j *CycleJob) Schedule() time.Duration { return j.Interval }

func (j *CycleJob) Run(ctx context.Context) error {
	res, err := j.Runner.TryRunCycle(ctx)
	if errors.Is(err, processor.ErrCycleBusy) {
		if j.Log != nil {
			j.Log.Info("cycle busy, skipping tick")
		}
		return nil
	}
	if err != nil {
		return err
	}
	if j.Log != nil {
		j.Log.WithField("cycle_id", res.CycleID).WithField("message", res.Message).Info("scheduled cycle finished")
	}
	return nil
}
