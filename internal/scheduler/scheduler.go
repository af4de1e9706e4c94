// Package scheduler runs the bot's background jobs.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrJobNotFound is returned by RunJobNow for unknown job names.
var ErrJobNotFound = errors.New("job not found")

// Job represents a scheduled job.
type Job struct {
	Name     string
	Schedule Schedule
	Handler  func(ctx context.Context) error
	Timeout  time.Duration // defaults to DefaultJobTimeout

	LastRun   time.Time
	NextRun   time.Time
	LastError string
	Runs      int
}

// Schedule defines when a job should run.
type Schedule struct {
	// For fixed-interval jobs
	Interval time.Duration

	// For time-of-day jobs (in UTC)
	Hour   int
	Minute int

	// Type of schedule
	Type ScheduleType
}

// ScheduleType defines the type of schedule.
type ScheduleType string

const (
	ScheduleInterval ScheduleType = "interval"
	ScheduleDaily    ScheduleType = "daily"
)

// Every is shorthand for an interval schedule.
func Every(d time.Duration) Schedule {
	return Schedule{Type: ScheduleInterval, Interval: d}
}

// DailyAt is shorthand for a daily schedule.
func DailyAt(hour, minute int) Schedule {
	return Schedule{Type: ScheduleDaily, Hour: hour, Minute: minute}
}

// DefaultJobTimeout bounds a single job run.
const DefaultJobTimeout = 5 * time.Minute

// JobStatus is a point-in-time view of a job.
type JobStatus struct {
	Name      string    `json:"name"`
	Schedule  string    `json:"schedule"`
	LastRun   time.Time `json:"last_run"`
	NextRun   time.Time `json:"next_run"`
	LastError string    `json:"last_error,omitempty"`
	Runs      int       `json:"runs"`
}

// Scheduler manages scheduled jobs.
type Scheduler struct {
	jobs    []*Job
	jobsMux sync.RWMutex

	tick time.Duration
	now  func() time.Time

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that checks for due jobs every tick.
func NewScheduler(tick time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if tick <= 0 {
		tick = time.Minute
	}

	return &Scheduler{
		jobs:   make([]*Job, 0),
		tick:   tick,
		now:    func() time.Time { return time.Now().UTC() },
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob adds a job to the scheduler.
func (s *Scheduler) AddJob(job *Job) {
	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	job.NextRun = calculateNextRun(job.Schedule, s.now())
	s.jobs = append(s.jobs, job)

	log.Info().
		Str("job", job.Name).
		Time("next_run", job.NextRun).
		Msg("Job registered")
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	log.Info().Int("jobs", len(s.jobs)).Msg("Starting scheduler")

	s.wg.Add(1)
	go s.jobLoop()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler")
	s.cancel()
	s.wg.Wait()
}

// jobLoop checks and runs scheduled jobs.
func (s *Scheduler) jobLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.checkAndRunJobs()
		}
	}
}

// checkAndRunJobs runs any jobs that are due.
func (s *Scheduler) checkAndRunJobs() {
	now := s.now()

	s.jobsMux.Lock()
	defer s.jobsMux.Unlock()

	for _, job := range s.jobs {
		if !now.Before(job.NextRun) {
			s.wg.Add(1)
			go s.runJob(job)
			job.NextRun = calculateNextRun(job.Schedule, now)

			log.Debug().
				Str("job", job.Name).
				Time("next_run", job.NextRun).
				Msg("Job scheduled for next run")
		}
	}
}

// runJob executes a job and records the outcome.
func (s *Scheduler) runJob(job *Job) {
	defer s.wg.Done()
	log.Info().Str("job", job.Name).Msg("Running job")

	timeout := job.Timeout
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	err := job.Handler(ctx)

	s.jobsMux.Lock()
	job.LastRun = s.now()
	job.Runs++
	job.LastError = ""
	if err != nil {
		job.LastError = err.Error()
	}
	s.jobsMux.Unlock()

	if err != nil {
		log.Error().Err(err).Str("job", job.Name).Msg("Job failed")
	} else {
		log.Info().Str("job", job.Name).Msg("Job completed")
	}
}

// calculateNextRun calculates the next run time for a schedule.
func calculateNextRun(schedule Schedule, now time.Time) time.Time {
	switch schedule.Type {
	case ScheduleInterval:
		return now.Add(schedule.Interval)

	case ScheduleDaily:
		next := time.Date(now.Year(), now.Month(), now.Day(),
			schedule.Hour, schedule.Minute, 0, 0, time.UTC)
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		return next

	default:
		return now.Add(time.Hour)
	}
}

func (sch Schedule) String() string {
	switch sch.Type {
	case ScheduleInterval:
		return "every " + sch.Interval.String()
	case ScheduleDaily:
		return time.Date(0, 1, 1, sch.Hour, sch.Minute, 0, 0, time.UTC).Format("daily 15:04 UTC")
	default:
		return string(sch.Type)
	}
}

// RunJobNow runs a specific job immediately by name.
func (s *Scheduler) RunJobNow(name string) error {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	for _, job := range s.jobs {
		if job.Name == name {
			s.wg.Add(1)
			go s.runJob(job)
			return nil
		}
	}

	return ErrJobNotFound
}

// GetJobStatus returns the status of all jobs.
func (s *Scheduler) GetJobStatus() []JobStatus {
	s.jobsMux.RLock()
	defer s.jobsMux.RUnlock()

	status := make([]JobStatus, len(s.jobs))
	for i, job := range s.jobs {
		status[i] = JobStatus{
			Name:      job.Name,
			Schedule:  job.Schedule.String(),
			LastRun:   job.LastRun,
			NextRun:   job.NextRun,
			LastError: job.LastError,
			Runs:      job.Runs,
		}
	}
	return status
}
