package client

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"

	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

// executor schedules async operations, optionally bounded by a weighted
// semaphore, and logs collapsed failures.
type executor struct {
	sem      *semaphore.Weighted
	logger   xmrest.Logger
	resource string
}

func newExecutor(limit int, logger xmrest.Logger, resource string) *executor {
	e := &executor{logger: logger, resource: resource}
	if limit > 0 {
		e.sem = semaphore.NewWeighted(int64(limit))
	}

	return e
}

// submit runs fn on its own goroutine and returns its task. Work submitted
// here must not submit again and wait, or a bounded executor can starve.
func submit[V any](ctx context.Context, e *executor, op string, fallback V, fn func(ctx context.Context) (V, error)) *xmrest.Task[V] {
	task := xmrest.NewTask[V]()

	go func() {
		if e.sem != nil {
			err := e.sem.Acquire(ctx, 1)
			if err != nil {
				err = xmrest.NewError(xmrest.KindTransport, op, fmt.Errorf("waiting for executor: %w", err))
				e.logFailure(op, err)
				task.Complete(fallback, err)

				return
			}

			defer e.sem.Release(1)
		}

		value, err := xmrest.RunGuarded(ctx, fallback, fn)
		if err != nil {
			e.logFailure(op, err)
		}

		task.Complete(value, err)
	}()

	return task
}

func (e *executor) logFailure(op string, err error) {
	if e.logger == nil {
		return
	}

	e.logger.Debug("operation failed", map[string]interface{}{
		"resource": e.resource,
		"op":       op,
		"kind":     xmrest.KindOf(err).String(),
		"error":    err.Error(),
	})
}
