package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"nutritrack/internal/infrastructure/config"
	"nutritrack/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRunsJob(t *testing.T) {
	m := NewManager(config.QueueConfig{Enabled: true, Workers: 2, MaxSize: 4})
	m.Start()
	defer m.Close()

	got, err := m.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = m.Submit(context.Background(), func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("boom")
	})
	assert.EqualError(t, err, "boom")

	assert.Equal(t, 2, m.GetQueueStatus().ProcessedCount)
}

func TestEnqueueFull(t *testing.T) {
	// 未啟動 worker，隊列不會被消化
	m := NewManager(config.QueueConfig{Enabled: true, Workers: 1, MaxSize: 1})
	defer m.Close()

	noop := func(ctx context.Context) (interface{}, error) { return nil, nil }

	_, err := m.Enqueue(context.Background(), noop)
	require.NoError(t, err)

	_, err = m.Enqueue(context.Background(), noop)
	assert.ErrorIs(t, err, common.ErrQueueFull)

	status := m.GetQueueStatus()
	assert.Equal(t, 1, status.QueueLength)
	assert.Equal(t, 1, status.RejectedCount)
}

func TestSubmitHonoursContext(t *testing.T) {
	m := NewManager(config.QueueConfig{Enabled: true, Workers: 1, MaxSize: 1})
	m.Start()
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := m.Submit(ctx, func(ctx context.Context) (interface{}, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEnqueueAfterClose(t *testing.T) {
	m := NewManager(config.QueueConfig{Enabled: true, Workers: 1, MaxSize: 1})
	m.Start()
	m.Close()
	m.Close()

	_, err := m.Enqueue(context.Background(), func(ctx context.Context) (interface{}, error) { return nil, nil })
	assert.ErrorIs(t, err, common.ErrQueueClosed)
	assert.True(t, m.GetQueueStatus().Closed)
}
