package scheduler

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustinSu11/clutch-call-sub000/internal/models"
)

type stubSource struct{}

func (stubSource) FetchSeasons(ctx context.Context, seasons []int, status string) ([]models.Match, error) {
	return nil, nil
}

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestScheduleHistorySyncInvalidCron(t *testing.T) {
	s := NewScheduler(nil, newTestLogger())
	assert.Error(t, s.ScheduleHistorySync("not a cron expression"))
}

func TestStartWithoutJobs(t *testing.T) {
	s := NewScheduler(nil, newTestLogger())
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestStartStopLifecycle(t *testing.T) {
	s := NewScheduler(nil, newTestLogger())
	require.NoError(t, s.ScheduleHistorySync("0 4 * * *"))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start(), "double start must fail")
	assert.False(t, s.GetNextRun().IsZero())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.NoError(t, s.Stop(), "stop is idempotent")
}

func TestScheduleFixturePolling(t *testing.T) {
	s := NewScheduler(nil, newTestLogger())
	require.NoError(t, s.ScheduleFixturePolling(900, stubSource{}, []int{2024}))
	require.NoError(t, s.Start())
	defer s.Stop()
	assert.True(t, s.IsRunning())
}

func TestCannotScheduleWhileRunning(t *testing.T) {
	s := NewScheduler(nil, newTestLogger())
	require.NoError(t, s.ScheduleHistorySync("0 4 * * *"))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.ScheduleHistorySync("0 5 * * *"))
}
