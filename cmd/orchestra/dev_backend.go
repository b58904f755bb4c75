// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/orchestra/internal/fakeapi"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/workers"
)

type devBackendOptions struct {
	listen            string
	heartbeat         time.Duration
	tokenTTL          time.Duration
	generatingSteps   int
	promptQuota       int
	requireStreamAuth bool
}

func (o devBackendOptions) backendOptions(log *logger.Logger) []fakeapi.Option {
	opts := []fakeapi.Option{
		fakeapi.WithLogger(log),
		fakeapi.WithGeneratingSteps(o.generatingSteps),
	}
	if o.tokenTTL > 0 {
		opts = append(opts, fakeapi.WithTokenTTL(o.tokenTTL))
	}
	if o.promptQuota > 0 {
		opts = append(opts, fakeapi.WithPromptQuota(o.promptQuota))
	}
	if o.requireStreamAuth {
		opts = append(opts, fakeapi.WithRequireStreamAuth())
	}
	return opts
}

// newDevBackendCmd serves the in-memory backend for local runs of the
// client.
func newDevBackendCmd() *cobra.Command {
	opts := devBackendOptions{}

	cmd := &cobra.Command{
		Use:         "dev-backend",
		Short:       "Serve an in-memory backend for local development",
		Hidden:      true,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noAppAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.NewLogger("orchestra-dev-backend")
			backend := fakeapi.New(opts.backendOptions(log.Component("backend"))...)
			server := fakeapi.NewServer(backend, opts.listen, log)

			ws := workers.New(
				workers.Func(func(ctx context.Context) error {
					return server.Run(ctx, func(addr string) {
						fmt.Fprintf(cmd.OutOrStdout(), "Dev backend on http://%s (stream ws://%s/ws)\n", addr, addr)
					})
				}),
				workers.Func(func(ctx context.Context) error {
					return heartbeat(ctx, backend, opts.heartbeat)
				}),
			)
			return ws.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&opts.listen, "listen", "l", "localhost:8080", "address to listen on")
	cmd.Flags().DurationVar(&opts.heartbeat, "heartbeat", 2*time.Second, "metrics push interval (0 disables)")
	cmd.Flags().DurationVar(&opts.tokenTTL, "token-ttl", 0, "issued token lifetime")
	cmd.Flags().IntVar(&opts.generatingSteps, "generating-steps", 3, "status fetches a job spends generating")
	cmd.Flags().IntVar(&opts.promptQuota, "prompt-quota", 0, "prompts per account before rate limiting (0 means default)")
	cmd.Flags().BoolVar(&opts.requireStreamAuth, "require-stream-auth", false, "reject streams that do not authenticate")

	return cmd
}

func heartbeat(ctx context.Context, backend *fakeapi.Backend, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			backend.Heartbeat()
		}
	}
}
