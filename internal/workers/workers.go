// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

type Workers struct {
	workers []Worker
}

func New(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

func (w *Workers) Add(workers ...Worker) {
	w.workers = append(w.workers, workers...)
}

// Run starts every worker in its own goroutine and blocks until all of them
// have returned. The first worker to return, with or without an error,
// cancels the context of the others.
//
// Run returns the first non-nil error. context.Canceled returned by a worker
// that was stopped by the group is not an error.
func (w *Workers) Run(ctx context.Context) error {
	if len(w.workers) == 0 {
		return nil
	}

	g, groupCtx := errgroup.WithContext(ctx)
	runCtx, stop := context.WithCancel(groupCtx)
	defer stop()

	for _, worker := range w.workers {
		g.Go(func() error {
			defer stop()

			err := worker.Run(runCtx)
			if errors.Is(err, context.Canceled) && runCtx.Err() != nil {
				return nil
			}
			return err
		})
	}

	return g.Wait()
}
