// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/orchestra/internal/adapter"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/poller"
	"github.com/MKhiriev/orchestra/internal/store"
	"github.com/MKhiriev/orchestra/internal/validators"
	"github.com/MKhiriev/orchestra/models"
)

type clientGeneratorService struct {
	adapter   adapter.ServerAdapter
	sessions  store.SessionStore
	poller    JobPoller
	validator validators.Validator
	now       func() time.Time

	logger *logger.Logger
}

func NewClientGeneratorService(serverAdapter adapter.ServerAdapter, sessions store.SessionStore, jobPoller JobPoller, validator validators.Validator, logger *logger.Logger) GeneratorService {
	return &clientGeneratorService{
		adapter:   serverAdapter,
		sessions:  sessions,
		poller:    jobPoller,
		validator: validator,
		now:       time.Now,
		logger:    logger,
	}
}

// Generate implements GeneratorService. Failing to remember the job locally
// is logged and does not fail the call: the job already exists on the backend.
func (g *clientGeneratorService) Generate(ctx context.Context, req models.GenerateRequest) (models.Job, error) {
	if err := validate(ctx, g.validator, req); err != nil {
		return models.Job{}, err
	}

	job, err := g.adapter.CreateGeneratorJob(ctx, req)
	if err != nil {
		return models.Job{}, mapAdapterError(err, opDefault)
	}

	tracked := models.TrackedJob{JobID: job.ID, Prompt: req.Prompt, StartedAt: g.now()}
	if err = g.sessions.SaveTrackedJob(ctx, tracked); err != nil {
		g.logger.Err(err).Str("func", "clientGeneratorService.Generate").Str("job_id", job.ID).Msg("error saving tracked job")
	}

	return job, nil
}

func (g *clientGeneratorService) Status(ctx context.Context, jobID string) (models.Job, error) {
	if jobID == "" {
		last, err := g.LastJob(ctx)
		if err != nil {
			return models.Job{}, err
		}
		jobID = last.JobID
	}

	job, err := g.adapter.GetJobStatus(ctx, jobID)
	if err != nil {
		return models.Job{}, mapAdapterError(err, opDefault)
	}
	return job, nil
}

func (g *clientGeneratorService) Track(ctx context.Context, jobID string, cb poller.Callbacks) {
	g.poller.Start(ctx, jobID, poller.Callbacks{
		OnUpdate: cb.OnUpdate,
		OnComplete: func(job models.Job) {
			g.forget(ctx, jobID)
			if cb.OnComplete != nil {
				cb.OnComplete(job)
			}
		},
		OnError: func(err error) {
			if cb.OnError != nil {
				cb.OnError(mapAdapterError(err, opDefault))
			}
		},
	})
}

func (g *clientGeneratorService) StopTracking() {
	g.poller.Stop()
}

func (g *clientGeneratorService) LastJob(ctx context.Context) (models.TrackedJob, error) {
	job, err := g.sessions.TrackedJob(ctx)
	if errors.Is(err, store.ErrTrackedJobNotFound) {
		return models.TrackedJob{}, ErrNoTrackedJob
	}
	if err != nil {
		return models.TrackedJob{}, fmt.Errorf("load tracked job: %w", err)
	}
	return job, nil
}

// forget clears the tracked job if it is still jobID. The poll context may
// already be winding down, so the store call gets its own.
func (g *clientGeneratorService) forget(ctx context.Context, jobID string) {
	ctx = context.WithoutCancel(ctx)

	last, err := g.sessions.TrackedJob(ctx)
	if err != nil || last.JobID != jobID {
		return
	}
	if err = g.sessions.ClearTrackedJob(ctx); err != nil {
		g.logger.Err(err).Str("func", "clientGeneratorService.forget").Str("job_id", jobID).Msg("error clearing tracked job")
	}
}
