package xmrest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// goTask resolves a task from fn on a new goroutine, the way executors do.
func goTask[V any](ctx context.Context, fallback V, fn func(ctx context.Context) (V, error)) *Task[V] {
	task := NewTask[V]()

	go func() {
		task.Complete(RunGuarded(ctx, fallback, fn))
	}()

	return task
}

func TestTask_Resolution(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		task := goTask(context.Background(), -1, func(ctx context.Context) (int, error) {
			return 42, nil
		})

		value, err := task.Result()
		require.NoError(t, err)
		assert.Equal(t, 42, value)
		assert.Equal(t, 42, task.Wait())
	})

	t.Run("failure yields fallback", func(t *testing.T) {
		t.Parallel()

		task := goTask(context.Background(), -1, func(ctx context.Context) (int, error) {
			return 7, NewError(KindServer, "count", errBoom)
		})

		assert.Equal(t, -1, task.Wait())

		_, err := task.Result()
		assert.True(t, IsServer(err))
	})

	t.Run("panic is recovered", func(t *testing.T) {
		t.Parallel()

		task := goTask(context.Background(), false, func(ctx context.Context) (bool, error) {
			panic("predicate exploded")
		})

		value, err := task.Result()
		assert.False(t, value)
		assert.Equal(t, KindInternal, KindOf(err))
		require.ErrorIs(t, err, ErrTaskPanicked)
		assert.Contains(t, err.Error(), "predicate exploded")
	})
}

func TestTask_Done(t *testing.T) {
	t.Parallel()

	task := NewTask[string]()

	select {
	case <-task.Done():
		t.Fatal("task resolved before Complete")
	default:
	}

	task.Complete("ok", nil)

	select {
	case <-task.Done():
	case <-time.After(time.Second):
		t.Fatal("task did not resolve")
	}

	assert.Equal(t, "ok", task.Wait())
}

func TestTask_Await(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	task := goTask(context.Background(), "", func(ctx context.Context) (string, error) {
		<-release

		return "late", nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := task.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)

	value, err := task.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", value)
}

func TestRunGuarded(t *testing.T) {
	t.Parallel()

	value, err := RunGuarded(context.Background(), "fallback", func(ctx context.Context) (string, error) {
		return "partial", errBoom
	})
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, "fallback", value)

	value, err = RunGuarded(context.Background(), "fallback", func(ctx context.Context) (string, error) {
		var m map[string]int
		m["x"] = 1

		return "unreachable", nil
	})
	assert.Equal(t, "fallback", value)
	assert.Equal(t, KindInternal, KindOf(err))
}
