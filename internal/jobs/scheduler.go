// Package jobs runs the periodic background tasks.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// WeeklyRotationSpec fires every Monday at 06:00 (seconds field first).
const WeeklyRotationSpec = "0 0 6 * * 1"

// Rotator is implemented by the content service.
type Rotator interface {
	RotateWeekly(ctx context.Context) error
}

type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	timeout time.Duration
}

// NewScheduler builds a scheduler whose jobs run in loc and inherit ctx.
func NewScheduler(ctx context.Context, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		ctx:     ctx,
		timeout: 2 * time.Minute,
	}
}

// AddContentRotation schedules the weekly content rotation.
func (s *Scheduler) AddContentRotation(r Rotator) error {
	_, err := s.cron.AddFunc(WeeklyRotationSpec, func() {
		s.run("content_rotation", r.RotateWeekly)
	})
	return err
}

func (s *Scheduler) run(name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		log.Printf("[error] job=%s err=%v", name, err)
		return
	}
	log.Printf("[info] job=%s completed in %s", name, time.Since(start).Round(time.Millisecond))
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("Cron scheduler started (content rotation Mondays at 06:00)")
}

// Stop stops scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Next reports when the first scheduled job fires next.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(time.Now())
}
