package client

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fivetwenty-io/xmrest/pkg/xmrest"
)

// SaveAll saves items concurrently. Results are in input order.
func (s *Service[T, ID]) SaveAll(ctx context.Context, items []T) []xmrest.BatchResult[ID] {
	// a save is a lookup followed by a write
	return s.runBatch(ctx, len(items), 2*s.timeout, func(ctx context.Context, index int) (ID, error) {
		var id ID

		item := items[index]
		if !isNil(item) {
			id = item.GetID()
		}

		_, err := s.Upsert(ctx, item)

		return id, err
	})
}

// DeleteAll deletes the records with the given identifiers concurrently.
// Results are in input order.
func (s *Service[T, ID]) DeleteAll(ctx context.Context, ids []ID) []xmrest.BatchResult[ID] {
	return s.runBatch(ctx, len(ids), s.timeout, func(ctx context.Context, index int) (ID, error) {
		_, err := s.Remove(ctx, ids[index])

		return ids[index], err
	})
}

func (s *Service[T, ID]) runBatch(
	ctx context.Context,
	count int,
	timeout time.Duration,
	operation func(ctx context.Context, index int) (ID, error),
) []xmrest.BatchResult[ID] {
	results := make([]xmrest.BatchResult[ID], count)

	// a limited WaitGroup: failures are recorded per item, never returned
	var group errgroup.Group

	group.SetLimit(s.batchConcurrency)

	for index := range count {
		group.Go(func() error {
			opCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()

			var id ID

			_, err := xmrest.RunGuarded(opCtx, struct{}{}, func(ctx context.Context) (struct{}, error) {
				var opErr error
				id, opErr = operation(ctx, index)

				return struct{}{}, opErr
			})
			if err != nil {
				s.exec.logFailure("batch", err)
			}

			results[index] = xmrest.BatchResult[ID]{
				Index:    index,
				ID:       id,
				Success:  err == nil,
				Error:    err,
				Duration: time.Since(start),
			}

			return nil
		})
	}

	_ = group.Wait() // always nil

	return results
}
