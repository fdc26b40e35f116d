// Package scheduler runs named background jobs on a fixed interval or once a
// day at a UTC wall-clock time, and exposes their status for the jobs API.
//
// A job never overlaps with itself: a tick or manual trigger that finds the
// job running is dropped.
package scheduler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrJobNotFound is returned for unknown job names.
var ErrJobNotFound = errors.New("job not found")

// Status is the last known state of a job.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusFulfill Status = "fulfill"
	StatusReject  Status = "reject"
)

// Schedule computes the next run strictly after t.
type Schedule interface {
	Next(t time.Time) time.Time
}

// Every runs a job at a fixed interval.
type Every time.Duration

// Next implements Schedule.
func (e Every) Next(t time.Time) time.Time { return t.Add(time.Duration(e)) }

// DailyAt runs a job once a day at Hour:Minute UTC.
type DailyAt struct {
	Hour, Minute int
}

// Next implements Schedule.
func (d DailyAt) Next(t time.Time) time.Time {
	t = t.UTC()
	next := time.Date(t.Year(), t.Month(), t.Day(), d.Hour, d.Minute, 0, 0, time.UTC)
	if !next.After(t) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Job is a named background task.
type Job struct {
	Name        string
	Description string
	Schedule    Schedule
	// Timeout bounds one execution; zero means no bound.
	Timeout time.Duration
	Fn      func(ctx context.Context) error
}

type jobState struct {
	Job

	mu        sync.Mutex
	status    Status
	message   string
	lastRunAt *time.Time
	nextRunAt time.Time
}

// Info is the serializable view of a job.
type Info struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Message     string     `json:"message,omitempty"`
	NextRunAt   time.Time  `json:"nextRunAt"`
	LastRunAt   *time.Time `json:"lastRunAt,omitempty"`
}

// Scheduler manages a set of named jobs.
type Scheduler struct {
	mu   sync.RWMutex
	jobs map[string]*jobState
	wg   sync.WaitGroup

	now func() time.Time
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{jobs: make(map[string]*jobState), now: time.Now}
}

// Register adds a job. Must be called before Start.
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name] = &jobState{
		Job:       job,
		status:    StatusIdle,
		nextRunAt: job.Schedule.Next(s.now()),
	}
}

// Start launches every registered job loop; they stop when ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, js := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, js)
	}
	log.Info().Int("jobs", len(s.jobs)).Msg("scheduler started")
}

// Wait blocks until all job loops and in-flight executions have returned.
func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) loop(ctx context.Context, js *jobState) {
	defer s.wg.Done()
	for {
		js.mu.Lock()
		wait := max(js.nextRunAt.Sub(s.now()), 0)
		js.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.execute(ctx, js)
			js.mu.Lock()
			js.nextRunAt = js.Schedule.Next(s.now())
			js.mu.Unlock()
		}
	}
}

// execute runs js once unless it is already running. It reports whether the
// job ran.
func (s *Scheduler) execute(ctx context.Context, js *jobState) bool {
	js.mu.Lock()
	if js.status == StatusRunning {
		js.mu.Unlock()
		log.Warn().Str("job", js.Name).Msg("job already running, skipped")
		return false
	}
	js.status = StatusRunning
	js.mu.Unlock()

	if js.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, js.Timeout)
		defer cancel()
	}

	start := s.now()
	err := safeRun(ctx, js.Fn)
	elapsed := time.Since(start)

	js.mu.Lock()
	js.lastRunAt = &start
	if err != nil {
		js.status = StatusReject
		js.message = err.Error()
	} else {
		js.status = StatusFulfill
		js.message = ""
	}
	js.mu.Unlock()

	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Str("job", js.Name).Dur("elapsed", elapsed).Msg("job finished")
	return true
}

func safeRun(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("job panicked")
			log.Error().Interface("panic", r).Msg("job panicked")
		}
	}()
	return fn(ctx)
}

// Run triggers a job by name without blocking. The execution is detached
// from ctx cancellation so it outlives the triggering request.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	js, err := s.get(name)
	if err != nil {
		return err
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.execute(context.WithoutCancel(ctx), js)
	}()
	return nil
}

// Get returns the state of one job.
func (s *Scheduler) Get(name string) (*Info, error) {
	js, err := s.get(name)
	if err != nil {
		return nil, err
	}
	info := js.info()
	return &info, nil
}

// List returns all jobs sorted by name.
func (s *Scheduler) List() []Info {
	s.mu.RLock()
	items := make([]Info, 0, len(s.jobs))
	for _, js := range s.jobs {
		items = append(items, js.info())
	}
	s.mu.RUnlock()
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func (s *Scheduler) get(name string) (*jobState, error) {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrJobNotFound
	}
	return js, nil
}

func (js *jobState) info() Info {
	js.mu.Lock()
	defer js.mu.Unlock()
	return Info{
		Name:        js.Name,
		Description: js.Description,
		Status:      js.status,
		Message:     js.message,
		NextRunAt:   js.nextRunAt,
		LastRunAt:   js.lastRunAt,
	}
}
