// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/orchestra/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := newCLI(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
	defer c.close()

	if err := newRootCmd(c).ExecuteContext(ctx); err != nil {
		if c.logger != nil {
			c.logger.Error().Err(err).Msg("command failed")
		}
		return 1
	}
	return 0
}
