package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRotator struct {
	calls int
	err   error
}

func (c *countingRotator) RotateWeekly(ctx context.Context) error {
	c.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("missing deadline")
	}
	return c.err
}

func TestWeeklyRotationSpec_FiresMondayMorning(t *testing.T) {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(WeeklyRotationSpec)
	require.NoError(t, err)

	// Wednesday
	from := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	next := sched.Next(from)
	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, time.Date(2026, 3, 9, 6, 0, 0, 0, time.UTC), next)
}

func TestScheduler_RunsRotationWithDeadline(t *testing.T) {
	s := NewScheduler(context.Background(), time.UTC)
	r := &countingRotator{}
	require.NoError(t, s.AddContentRotation(r))
	assert.False(t, s.Next().IsZero())

	s.run("content_rotation", r.RotateWeekly)
	assert.Equal(t, 1, r.calls)

	r.err = errors.New("db down")
	s.run("content_rotation", r.RotateWeekly)
	assert.Equal(t, 2, r.calls)
}
