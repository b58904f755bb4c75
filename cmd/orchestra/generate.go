// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/orchestra/internal/poller"
	"github.com/MKhiriev/orchestra/models"
)

var errJobFailed = errors.New("generation failed")

func newGenerateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run and follow generator jobs",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(cmd, args); err != nil {
				return err
			}
			_, err := c.requireSession(cmd.Context())
			return err
		},
	}

	var (
		req   models.GenerateRequest
		watch bool
	)
	newJobCmd := &cobra.Command{
		Use:   "new <prompt>...",
		Short: "Submit a generation job",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Prompt = strings.Join(args, " ")

			job, err := c.services.GeneratorService.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), job.ID)
			if !watch {
				return nil
			}
			return c.watchJob(cmd, job.ID)
		},
	}
	newJobCmd.Flags().StringVar(&req.Name, "name", "", "project name")
	newJobCmd.Flags().StringVar(&req.Stack, "stack", "", "technology stack")
	newJobCmd.Flags().StringSliceVar(&req.Features, "feature", nil, "feature to include (repeatable)")
	newJobCmd.Flags().StringVar(&req.Database, "database", "", "database to use")
	newJobCmd.Flags().StringVar(&req.AuthStyle, "auth", "", "authentication style")
	newJobCmd.Flags().BoolVarP(&watch, "watch", "w", false, "follow the job until it finishes")

	statusCmd := &cobra.Command{
		Use:   "status [job-id]",
		Short: "Show a job once (the last submitted job by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := c.services.GeneratorService.Status(cmd.Context(), firstArg(args))
			if err != nil {
				return err
			}
			printJobResult(cmd.OutOrStdout(), job)
			return nil
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch [job-id]",
		Short: "Follow a job until it finishes (the last submitted job by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := firstArg(args)
			if jobID == "" {
				tracked, err := c.services.GeneratorService.LastJob(cmd.Context())
				if err != nil {
					return err
				}
				jobID = tracked.JobID
			}
			return c.watchJob(cmd, jobID)
		},
	}

	cmd.AddCommand(newJobCmd, statusCmd, watchCmd)
	return cmd
}

type jobEvent struct {
	job  models.Job
	done bool
	err  error
}

// watchJob prints every status of jobID until the job is terminal.
func (c *cli) watchJob(cmd *cobra.Command, jobID string) error {
	gen := c.services.GeneratorService

	ctx, cancel := context.WithCancel(cmd.Context())
	// cancel first so that no callback is left blocked while tracking stops
	defer gen.StopTracking()
	defer cancel()

	events := make(chan jobEvent, 16)
	emit := func(ev jobEvent) {
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	gen.Track(ctx, jobID, poller.Callbacks{
		OnUpdate:   func(job models.Job) { emit(jobEvent{job: job}) },
		OnComplete: func(job models.Job) { emit(jobEvent{job: job, done: true}) },
		OnError:    func(err error) { emit(jobEvent{err: err}) },
	})

	w := cmd.OutOrStdout()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintf(cmd.ErrOrStderr(), "Stopped watching %s, resume with 'orchestra generate watch'\n", jobID)
			return nil
		case ev := <-events:
			switch {
			case ev.err != nil:
				return fmt.Errorf("poll job %s: %w", jobID, ev.err)
			case ev.done:
				printJobResult(w, ev.job)
				if ev.job.Status == models.JobFailed {
					return errJobFailed
				}
				return nil
			default:
				printJob(w, ev.job)
			}
		}
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
