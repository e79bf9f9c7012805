package xmrest

import (
	"context"
	"fmt"
)

// Task is the handle of an operation running on its own goroutine. It always
// resolves: failures are recorded next to the collapsed value instead of being
// raised.
type Task[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// NewTask returns an unresolved task. The executor running the work resolves
// it with Complete.
func NewTask[V any]() *Task[V] {
	return &Task[V]{done: make(chan struct{})}
}

// Complete resolves the task. It must be called exactly once.
func (t *Task[V]) Complete(value V, err error) {
	t.value = value
	t.err = err
	close(t.done)
}

// Done is closed once the task has resolved.
func (t *Task[V]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task resolves and returns its collapsed value.
func (t *Task[V]) Wait() V {
	<-t.done

	return t.value
}

// Result blocks until the task resolves and returns the value together with the
// failure that produced it, if any.
func (t *Task[V]) Result() (V, error) {
	<-t.done

	return t.value, t.err
}

// Await waits for the task or ctx, whichever finishes first. An abandoned task
// keeps running until its own request completes or times out.
func (t *Task[V]) Await(ctx context.Context) (V, error) {
	select {
	case <-t.done:
		return t.value, t.err
	case <-ctx.Done():
		var zero V

		return zero, fmt.Errorf("awaiting task: %w", ctx.Err())
	}
}

// RunGuarded calls fn, substituting fallback for the value on failure and
// converting a panic into a KindInternal error.
func RunGuarded[V any](ctx context.Context, fallback V, fn func(ctx context.Context) (V, error)) (value V, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			value = fallback
			err = &Error{
				Kind:    KindInternal,
				Message: fmt.Sprint(recovered),
				Err:     ErrTaskPanicked,
			}
		}
	}()

	value, err = fn(ctx)
	if err != nil {
		return fallback, err
	}

	return value, nil
}
