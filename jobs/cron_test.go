package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"locationsguard/services/logger"
	"locationsguard/services/notification"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	n   int
	err error
	at  time.Time
}

func (f *fakeCompleter) CompleteExpired(_ context.Context, now time.Time) (int, error) {
	f.at = now
	return f.n, f.err
}

func TestRunCompleteExpired_BroadcastsSummary(t *testing.T) {
	completer := &fakeCompleter{n: 3}
	rec := &notification.Recorder{}
	now := time.Date(2024, 6, 10, 0, 5, 0, 0, time.UTC)

	n, err := RunCompleteExpired(context.Background(), completer, rec, logger.NopLogger{}, now)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, now, completer.at)
	require.Len(t, rec.Messages(), 1)
	assert.Contains(t, rec.Messages()[0], "3 reservations completed")
}

func TestRunCompleteExpired_NothingToDo(t *testing.T) {
	rec := &notification.Recorder{}

	n, err := RunCompleteExpired(context.Background(), &fakeCompleter{}, rec, logger.NopLogger{}, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, rec.Messages())
}

func TestRunCompleteExpired_Error(t *testing.T) {
	rec := &notification.Recorder{}

	_, err := RunCompleteExpired(context.Background(), &fakeCompleter{err: errors.New("db down")}, rec, logger.NopLogger{}, time.Now())
	assert.Error(t, err)
	assert.Empty(t, rec.Messages())
}

func TestInitCronJobs_Schedules(t *testing.T) {
	c := cron.New()
	require.NoError(t, InitCronJobs(c, &fakeCompleter{}, nil, logger.NopLogger{}))
	defer c.Stop()

	assert.Len(t, c.Entries(), 1)
}
