package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Job evicts stale entries from one store and reports how many it dropped
type Job struct {
	Name string
	Run  func() int
}

// Sweeper runs eviction jobs on a cron schedule
type Sweeper struct {
	cron *cron.Cron
	jobs []Job
}

// NewSweeper schedules jobs with a standard cron spec or descriptor such as "@every 10m"
func NewSweeper(schedule string, jobs ...Job) (*Sweeper, error) {
	s := &Sweeper{
		cron: cron.New(),
		jobs: jobs,
	}

	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce() }); err != nil {
		return nil, eris.Wrapf(err, "invalid sweep schedule %q", schedule)
	}
	return s, nil
}

// Start begins the schedule in the background
func (s *Sweeper) Start() {
	s.cron.Start()
	zap.L().Info("cache sweeper started", zap.Int("jobs", len(s.jobs)))
}

// Stop halts the schedule and waits for a running sweep to finish or ctx to expire
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RunOnce runs every job immediately and returns the total evicted
func (s *Sweeper) RunOnce() int {
	total := 0
	for _, job := range s.jobs {
		removed := job.Run()
		total += removed
		if removed > 0 {
			zap.L().Debug("swept expired entries", zap.String("job", job.Name), zap.Int("removed", removed))
		}
	}
	return total
}
