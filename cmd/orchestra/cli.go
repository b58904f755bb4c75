// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/MKhiriev/orchestra/internal/client"
	"github.com/MKhiriev/orchestra/internal/config"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/service"
	"github.com/MKhiriev/orchestra/models"
)

// Commands annotated with noAppAnnotation run without config or backend.
const noAppAnnotation = "orchestra/no-app"

// cli is the state shared by the command tree. app and services are set up
// lazily by the root PersistentPreRunE.
type cli struct {
	buildInfo models.AppBuildInfo

	logger   *logger.Logger
	app      *client.App
	services *service.ClientServices

	stdin *bufio.Reader
}

func newCLI(buildInfo models.AppBuildInfo) *cli {
	return &cli{buildInfo: buildInfo}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:               "orchestra",
		Short:             "Client for the Orchestra AI orchestration backend",
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newLoginCmd(c),
		newRegisterCmd(c),
		newLogoutCmd(c),
		newWhoamiCmd(c),
		newOAuthCmd(c),
		newPasswordCmd(c),
		newPlansCmd(c),
		newSubscriptionCmd(c),
		newPromptCmd(c),
		newGenerateCmd(c),
		newMetricsCmd(c),
		newDashboardCmd(c),
		newVersionCmd(c),
		newDevBackendCmd(),
	)

	return root
}

// setup loads the configuration and wires the client application. It does
// nothing when services are already present.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if c.services != nil || skipsApp(cmd) {
		return nil
	}

	cfg, err := config.GetClientConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c.logger = logger.NewClientLogger("orchestra", cfg.Log.Level, cfg.Log.File)
	c.logger.Debug().Str("command", cmd.CommandPath()).Msg("starting command")

	app, err := client.NewApp(cmd.Context(), cfg, c.buildInfo, c.logger)
	if err != nil {
		return fmt.Errorf("init client: %w", err)
	}

	c.app = app
	c.services = app.Services
	return nil
}

func (c *cli) close() {
	if c.app == nil {
		return
	}
	if err := c.app.Close(); err != nil && c.logger != nil {
		c.logger.Err(err).Str("func", "cli.close").Msg("error closing client")
	}
}

func skipsApp(cmd *cobra.Command) bool {
	for ; cmd != nil; cmd = cmd.Parent() {
		if _, ok := cmd.Annotations[noAppAnnotation]; ok {
			return true
		}
	}
	return false
}

// requireSession restores the stored session for commands that act on
// behalf of the user.
func (c *cli) requireSession(ctx context.Context) (models.Session, error) {
	session, err := c.services.AuthService.RestoreSession(ctx)
	if errors.Is(err, service.ErrNotSignedIn) || errors.Is(err, service.ErrSessionExpired) {
		return models.Session{}, fmt.Errorf("%w: run 'orchestra login' first", err)
	}
	return session, err
}

// optionalSession restores the stored session when there is one. Public
// endpoints work either way.
func (c *cli) optionalSession(ctx context.Context) error {
	_, err := c.services.AuthService.RestoreSession(ctx)
	if err == nil || errors.Is(err, service.ErrNotSignedIn) || errors.Is(err, service.ErrSessionExpired) {
		return nil
	}
	return err
}

// readSecret prompts on stderr and reads one line without echo when stdin
// is a terminal.
func (c *cli) readSecret(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}

	if c.stdin == nil {
		c.stdin = bufio.NewReader(cmd.InOrStdin())
	}
	line, err := c.stdin.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readNewPassword asks for a password twice.
func (c *cli) readNewPassword(cmd *cobra.Command) (string, error) {
	password, err := c.readSecret(cmd, "Password: ")
	if err != nil {
		return "", err
	}
	repeat, err := c.readSecret(cmd, "Repeat password: ")
	if err != nil {
		return "", err
	}
	if password != repeat {
		return "", errPasswordsDiffer
	}
	return password, nil
}

var errPasswordsDiffer = errors.New("passwords do not match")
