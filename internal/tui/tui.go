// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"

	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/service"
	"github.com/MKhiriev/orchestra/models"
	tea "github.com/charmbracelet/bubbletea"
)

type TUI struct {
	services  *service.ClientServices
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.ClientServices, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{services: services, buildInfo: buildInfo, logger: logger}
}

// LoginFlow runs the menu, login and register pages until the user signs in.
// status is shown above the menu, e.g. why a previous session ended.
func (t *TUI) LoginFlow(ctx context.Context, status string) (models.User, error) {
	pages := map[string]tea.Model{
		pageMenu:     NewMenuModel(status),
		pageLogin:    NewLoginModel(ctx, t.services.AuthService),
		pageRegister: NewRegisterModel(ctx, t.services.AuthService),
	}

	root := NewRootModel(pages, pageMenu, t.buildInfo)
	finalModel, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return models.User{}, err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return models.User{}, tea.ErrProgramKilled
	}
	if result.quitByUser {
		return models.User{}, ErrUserQuit
	}

	return result.user, nil
}

// Dashboard shows the live dashboard until the user quits. It returns
// [service.ErrSessionExpired] when the backend rejected the session.
func (t *TUI) Dashboard(ctx context.Context, user models.User) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewDashboardModel(ctx, t.services, user, t.buildInfo)

	unsubscribe := t.services.MetricsService.Subscribe(model.OnMetrics)
	defer unsubscribe()
	defer t.services.GeneratorService.StopTracking()
	// cancel before StopTracking so pending job events do not block the poller
	defer cancel()

	finalModel, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	if result, ok := finalModel.(*DashboardModel); ok && result.SessionExpired() {
		t.logger.Info().Str("func", "TUI.Dashboard").Msg("session expired while on dashboard")
		return service.ErrSessionExpired
	}
	return nil
}
