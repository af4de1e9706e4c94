package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateNextRun(t *testing.T) {
	now := time.Date(2026, 4, 10, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, now.Add(15*time.Minute), calculateNextRun(Every(15*time.Minute), now))
	assert.Equal(t, time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC), calculateNextRun(DailyAt(12, 0), now))
	assert.Equal(t, time.Date(2026, 4, 11, 8, 0, 0, 0, time.UTC), calculateNextRun(DailyAt(8, 0), now))
	assert.Equal(t, time.Date(2026, 4, 11, 9, 30, 0, 0, time.UTC), calculateNextRun(DailyAt(9, 30), now))
	assert.Equal(t, now.Add(time.Hour), calculateNextRun(Schedule{}, now))
}

func TestScheduleString(t *testing.T) {
	assert.Equal(t, "every 10m0s", Every(10*time.Minute).String())
	assert.Equal(t, "daily 08:05 UTC", DailyAt(8, 5).String())
}

func TestRunJobNow(t *testing.T) {
	s := NewScheduler(time.Hour)
	defer s.Stop()

	var runs int32
	s.AddJob(&Job{
		Name:     "refresh-chains",
		Schedule: Every(time.Hour),
		Handler: func(context.Context) error {
			atomic.AddInt32(&runs, 1)
			return errors.New("provider down")
		},
	})

	require.NoError(t, s.RunJobNow("refresh-chains"))
	assert.ErrorIs(t, s.RunJobNow("missing"), ErrJobNotFound)

	require.Eventually(t, func() bool {
		st := s.GetJobStatus()
		return len(st) == 1 && st[0].Runs == 1
	}, time.Second, 5*time.Millisecond)

	st := s.GetJobStatus()[0]
	assert.Equal(t, "refresh-chains", st.Name)
	assert.Equal(t, "provider down", st.LastError)
	assert.Equal(t, "every 1h0m0s", st.Schedule)
	assert.False(t, st.LastRun.IsZero())
	assert.EqualValues(t, 1, atomic.LoadInt32(&runs))
}

func TestJobLoopRunsDueJobs(t *testing.T) {
	s := NewScheduler(5 * time.Millisecond)

	var runs int32
	s.AddJob(&Job{
		Name:     "session-sweep",
		Schedule: Every(time.Millisecond),
		Handler: func(context.Context) error {
			atomic.AddInt32(&runs, 1)
			return nil
		},
	})
	s.Start()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&runs) >= 2 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	assert.Empty(t, s.GetJobStatus()[0].LastError)
}

func TestStopCancelsRunningJobs(t *testing.T) {
	s := NewScheduler(time.Hour)
	started := make(chan struct{})
	s.AddJob(&Job{
		Name:     "slow",
		Schedule: Every(time.Hour),
		Handler: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		},
	})

	require.NoError(t, s.RunJobNow("slow"))
	<-started
	s.Stop()

	assert.Equal(t, context.Canceled.Error(), s.GetJobStatus()[0].LastError)
}
