package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/MKhiriev/orchestra/internal/adapter"
	"github.com/MKhiriev/orchestra/internal/app"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/mock"
	"github.com/MKhiriev/orchestra/internal/validators"
	"github.com/MKhiriev/orchestra/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ── Billing ──────────────────────────────────────────────────────────────────

func TestClientBillingService(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	svc := NewClientBillingService(mockAdapter, validators.NewRequestValidator())
	ctx := context.Background()

	t.Run("plans", func(t *testing.T) {
		mockAdapter.EXPECT().ListPlans(ctx).Return([]models.Plan{{ID: "free"}, {ID: "pro"}}, nil)

		plans, err := svc.Plans(ctx)
		require.NoError(t, err)
		assert.Len(t, plans, 2)
	})

	t.Run("no subscription", func(t *testing.T) {
		mockAdapter.EXPECT().GetSubscription(ctx).Return(models.Subscription{}, fmt.Errorf("%w: %s", adapter.ErrNotFound, ""))

		_, err := svc.Subscription(ctx)
		assert.ErrorIs(t, err, ErrNoSubscription)
	})

	t.Run("checkout", func(t *testing.T) {
		req := models.CheckoutRequest{PlanID: "pro"}
		mockAdapter.EXPECT().CreateCheckoutSession(ctx, req).Return(models.CheckoutSession{ID: "cs_1", URL: "https://pay.example/cs_1"}, nil)

		session, err := svc.Checkout(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "cs_1", session.ID)
	})

	t.Run("checkout without plan", func(t *testing.T) {
		_, err := svc.Checkout(ctx, models.CheckoutRequest{})
		assert.ErrorIs(t, err, validators.ErrEmptyPlanID)
	})

	t.Run("checkout unknown plan", func(t *testing.T) {
		mockAdapter.EXPECT().CreateCheckoutSession(ctx, gomock.Any()).
			Return(models.CheckoutSession{}, fmt.Errorf("%w: %s", adapter.ErrBadRequest, app.MsgUnknownPlan))

		_, err := svc.Checkout(ctx, models.CheckoutRequest{PlanID: "gold"})
		assert.ErrorIs(t, err, ErrUnknownPlan)
	})

	t.Run("portal and cancel", func(t *testing.T) {
		mockAdapter.EXPECT().CreatePortalSession(ctx).Return(models.PortalSession{URL: "https://pay.example/portal"}, nil)
		mockAdapter.EXPECT().CancelSubscription(ctx).Return(models.Subscription{Status: models.SubscriptionActive, CancelAtPeriodEnd: true}, nil)

		portal, err := svc.Portal(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, portal.URL)

		sub, err := svc.Cancel(ctx)
		require.NoError(t, err)
		assert.True(t, sub.CancelAtPeriodEnd)
	})
}

// ── Agent ────────────────────────────────────────────────────────────────────

func TestClientAgentService_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAdapter := mock.NewMockServerAdapter(ctrl)
	svc := NewClientAgentService(mockAdapter, validators.NewRequestValidator(), logger.Nop())
	ctx := context.Background()

	// пустой промпт отклоняется без обращения к бэкенду
	_, err := svc.Submit(ctx, models.PromptRequest{Prompt: ""})
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	mockAdapter.EXPECT().SubmitPrompt(ctx, models.PromptRequest{Prompt: "hi"}).
		Return(models.PromptResponse{ID: "r1", Output: "hello", TokensUsed: 12}, nil)

	resp, err := svc.Submit(ctx, models.PromptRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Output)

	mockAdapter.EXPECT().SubmitPrompt(ctx, gomock.Any()).
		Return(models.PromptResponse{}, fmt.Errorf("%w: %s", adapter.ErrTooManyRequests, app.MsgQuotaExceeded))

	_, err = svc.Submit(ctx, models.PromptRequest{Prompt: "again"})
	assert.ErrorIs(t, err, ErrRateLimited)
}

// ── Metrics ──────────────────────────────────────────────────────────────────

func TestClientMetricsService(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStream := mock.NewMockStreamClient(ctrl)
	svc := NewClientMetricsService(mockStream, logger.Nop())

	unsubscribed := false
	mockStream.EXPECT().Subscribe(gomock.Any()).Return(func() { unsubscribed = true })
	mockStream.EXPECT().Connected().Return(false)

	unsubscribe := svc.Subscribe(func(models.Metrics) {})
	unsubscribe()
	assert.True(t, unsubscribed)

	mockStream.EXPECT().Connected().Return(true)
	assert.True(t, svc.Connected())

	mockStream.EXPECT().Disconnect()
	svc.Close()
}

func TestNewClientServices(t *testing.T) {
	ctrl := gomock.NewController(t)

	services := NewClientServices(
		mock.NewMockServerAdapter(ctrl),
		mock.NewMockSessionStore(ctrl),
		mock.NewMockStreamClient(ctrl),
		mock.NewMockJobPoller(ctrl),
		logger.Nop(),
	)

	assert.NotNil(t, services.AuthService)
	assert.NotNil(t, services.BillingService)
	assert.NotNil(t, services.AgentService)
	assert.NotNil(t, services.GeneratorService)
	assert.NotNil(t, services.MetricsService)
}
