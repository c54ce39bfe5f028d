package evclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskResult(t *testing.T) {
	task := Start(context.Background(), func(context.Context) (string, error) {
		return "transcript", nil
	})

	v, err := task.Result()
	require.NoError(t, err)
	assert.Equal(t, "transcript", v)

	select {
	case <-task.Done():
	default:
		t.Fatal("done channel not closed")
	}
	task.Cancel()
}

func TestTaskCancel(t *testing.T) {
	started := make(chan struct{})
	task := Start(context.Background(), func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	})

	<-started
	task.Cancel()
	task.Cancel()

	_, err := task.Result()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTaskParentContext(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	task := Start(parent, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 1, ctx.Err()
	})
	cancel()

	v, err := task.Result()
	assert.Equal(t, 1, v)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTaskPanicAndWait(t *testing.T) {
	task := Start(context.Background(), func(context.Context) (int, error) {
		panic("mic unplugged")
	})
	v, err := task.Result()
	assert.Zero(t, v)
	assert.ErrorContains(t, err, "mic unplugged")

	release := make(chan struct{})
	slow := Start(context.Background(), func(context.Context) (int, error) {
		<-release
		return 7, errors.New("late")
	})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = slow.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	v, err = slow.Wait(context.Background())
	assert.Equal(t, 7, v)
	assert.EqualError(t, err, "late")
}
