// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package poller repeatedly fetches the status of a generator job until it
// reaches a terminal state.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/models"
)

// DefaultInterval is used when New is given a non-positive interval.
const DefaultInterval = 2 * time.Second

// StatusFetcher loads the current status record of a job.
type StatusFetcher interface {
	GetJobStatus(ctx context.Context, jobID string) (models.Job, error)
}

// Callbacks receive the results of one poll. Nil callbacks are skipped.
//
// Callbacks run on the poll goroutine and must not call Start or Stop on the
// same Poller synchronously.
type Callbacks struct {
	// OnUpdate receives every non-terminal status.
	OnUpdate func(models.Job)
	// OnComplete receives the terminal status (completed or failed).
	OnComplete func(models.Job)
	// OnError receives the first fetch error. Polling stops after it.
	OnError func(error)
}

// Poller runs at most one poll at a time.
type Poller struct {
	fetcher  StatusFetcher
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New returns an idle Poller.
func New(fetcher StatusFetcher, interval time.Duration, log *logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		logger:   log.Component("poller"),
	}
}

// Start stops the running poll, if any, and starts polling jobID: one fetch
// immediately, then one per interval until the job is terminal, a fetch
// fails, ctx is cancelled or Stop is called. A superseded or stopped poll
// delivers no further callbacks.
func (p *Poller) Start(ctx context.Context, jobID string, cb Callbacks) {
	p.Stop()

	p.mu.Lock()
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer cancel()
		p.run(pollCtx, jobID, cb)
	}()
}

// Stop cancels the running poll and blocks until its goroutine has exited.
// It is a no-op when nothing is running.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

func (p *Poller) run(ctx context.Context, jobID string, cb Callbacks) {
	log := p.logger.With().Str("job_id", jobID).Logger()

	t := time.NewTimer(0)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("poll cancelled")
			return
		case <-t.C:
		}

		job, err := p.fetcher.GetJobStatus(ctx, jobID)
		if ctx.Err() != nil {
			log.Debug().Msg("poll cancelled")
			return
		}
		if err != nil {
			log.Err(err).Str("func", "Poller.run").Msg("job status fetch failed")
			if cb.OnError != nil {
				cb.OnError(err)
			}
			return
		}

		if job.IsTerminal() {
			log.Info().Str("status", string(job.Status)).Msg("job finished")
			if cb.OnComplete != nil {
				cb.OnComplete(job)
			}
			return
		}

		log.Debug().
			Str("status", string(job.Status)).
			Float64("progress", job.Progress).
			Msg("job status")
		if cb.OnUpdate != nil {
			cb.OnUpdate(job)
		}

		t.Reset(p.interval)
	}
}
