package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/orchestra/internal/adapter"
	"github.com/MKhiriev/orchestra/internal/config"
	"github.com/MKhiriev/orchestra/internal/crypto"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/poller"
	"github.com/MKhiriev/orchestra/internal/service"
	"github.com/MKhiriev/orchestra/internal/store"
	"github.com/MKhiriev/orchestra/internal/stream"
	"github.com/MKhiriev/orchestra/internal/tui"
	"github.com/MKhiriev/orchestra/internal/workers"
	"github.com/MKhiriev/orchestra/models"
)

// DefaultSessionCheckInterval is how often the dashboard re-checks the
// session with the backend.
const DefaultSessionCheckInterval = time.Minute

// App owns every long-lived client component. Commands use Services; the
// interactive mode is started with Run.
type App struct {
	Services *service.ClientServices

	sessions store.SessionStore
	poller   *poller.Poller
	ui       *tui.TUI
	logger   *logger.Logger

	sessionCheckInterval time.Duration
}

// NewApp wires the client: adapter, sealer, session store, stream client,
// job poller, services and the terminal UI. The caller must Close the App.
func NewApp(ctx context.Context, cfg *config.ClientConfig, buildInfo models.AppBuildInfo, log *logger.Logger) (*App, error) {
	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	var sealer crypto.Sealer
	if cfg.App.HashKey != "" {
		if sealer, err = crypto.NewSealer(cfg.App.HashKey); err != nil {
			return nil, fmt.Errorf("create sealer: %w", err)
		}
	}

	sessions, err := store.NewSessionStore(ctx, cfg.Storage, sealer, log.Component("store"))
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}

	streamClient := stream.NewClient(
		stream.OptionsFromConfig(cfg.Adapter, cfg.Stream),
		stream.NewWebsocketDialer(cfg.Adapter.RequestTimeout),
		sessions,
		log,
	)
	jobPoller := poller.New(serverAdapter, cfg.Poller.Interval, log)

	services := service.NewClientServices(serverAdapter, sessions, streamClient, jobPoller, log)

	return &App{
		Services:             services,
		sessions:             sessions,
		poller:               jobPoller,
		ui:                   tui.New(services, buildInfo, log.Component("tui")),
		logger:               log,
		sessionCheckInterval: DefaultSessionCheckInterval,
	}, nil
}

// Run is the interactive mode: the login flow when there is no valid
// session, then the dashboard. An expired session sends the user back to the
// login flow.
func (a *App) Run(ctx context.Context) error {
	status := ""
	for {
		user, err := a.signIn(ctx, status)
		if err != nil {
			return err
		}

		err = a.dashboard(ctx, user)
		if !errors.Is(err, service.ErrSessionExpired) {
			return err
		}

		// the backend rejected a token that is still valid locally
		if clearErr := a.sessions.ClearSession(ctx); clearErr != nil {
			return fmt.Errorf("clear rejected session: %w", clearErr)
		}
		status = "Сессия истекла, войдите снова"
	}
}

func (a *App) signIn(ctx context.Context, status string) (models.User, error) {
	session, err := a.Services.AuthService.RestoreSession(ctx)
	if err == nil {
		return session.User, nil
	}
	if !errors.Is(err, service.ErrNotSignedIn) && !errors.Is(err, service.ErrSessionExpired) {
		return models.User{}, fmt.Errorf("restore session: %w", err)
	}
	if errors.Is(err, service.ErrSessionExpired) && status == "" {
		status = "Сессия истекла, войдите снова"
	}

	return a.ui.LoginFlow(ctx, status)
}

// dashboard runs the dashboard next to the session watcher. Whichever
// returns first stops the other.
func (a *App) dashboard(ctx context.Context, user models.User) error {
	ws := workers.New(
		workers.Func(func(ctx context.Context) error {
			err := a.ui.Dashboard(ctx, user)
			if err != nil && ctx.Err() != nil {
				// killed by the watcher or by a signal
				return nil
			}
			return err
		}),
		workers.Func(a.watchSession),
	)

	return ws.Run(ctx)
}

// watchSession returns service.ErrSessionExpired as soon as the backend
// rejects the stored session. Other errors are only logged.
func (a *App) watchSession(ctx context.Context) error {
	ticker := time.NewTicker(a.sessionCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_, err := a.Services.AuthService.CurrentUser(ctx)
			if errors.Is(err, service.ErrSessionExpired) {
				a.logger.Info().Str("func", "App.watchSession").Msg("session rejected by backend")
				return err
			}
			if err != nil && ctx.Err() == nil {
				a.logger.Warn().Err(err).Str("func", "App.watchSession").Msg("session check failed")
			}
		}
	}
}

// Close stops background work and closes the session store.
func (a *App) Close() error {
	a.poller.Stop()
	a.Services.MetricsService.Close()

	if err := a.sessions.Close(); err != nil {
		return fmt.Errorf("close session store: %w", err)
	}
	return nil
}
