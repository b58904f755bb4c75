package service

import (
	"context"

	"github.com/MKhiriev/orchestra/internal/adapter"
	"github.com/MKhiriev/orchestra/internal/validators"
	"github.com/MKhiriev/orchestra/models"
)

type clientBillingService struct {
	adapter   adapter.ServerAdapter
	validator validators.Validator
}

func NewClientBillingService(serverAdapter adapter.ServerAdapter, validator validators.Validator) BillingService {
	return &clientBillingService{adapter: serverAdapter, validator: validator}
}

func (b *clientBillingService) Plans(ctx context.Context) ([]models.Plan, error) {
	plans, err := b.adapter.ListPlans(ctx)
	if err != nil {
		return nil, mapAdapterError(err, opDefault)
	}
	return plans, nil
}

func (b *clientBillingService) Subscription(ctx context.Context) (models.Subscription, error) {
	sub, err := b.adapter.GetSubscription(ctx)
	if err != nil {
		return models.Subscription{}, mapAdapterError(err, opSubscription)
	}
	return sub, nil
}

func (b *clientBillingService) Checkout(ctx context.Context, req models.CheckoutRequest) (models.CheckoutSession, error) {
	if err := validate(ctx, b.validator, req); err != nil {
		return models.CheckoutSession{}, err
	}

	session, err := b.adapter.CreateCheckoutSession(ctx, req)
	if err != nil {
		return models.CheckoutSession{}, mapAdapterError(err, opDefault)
	}
	return session, nil
}

func (b *clientBillingService) Portal(ctx context.Context) (models.PortalSession, error) {
	portal, err := b.adapter.CreatePortalSession(ctx)
	if err != nil {
		return models.PortalSession{}, mapAdapterError(err, opSubscription)
	}
	return portal, nil
}

func (b *clientBillingService) Cancel(ctx context.Context) (models.Subscription, error) {
	sub, err := b.adapter.CancelSubscription(ctx)
	if err != nil {
		return models.Subscription{}, mapAdapterError(err, opSubscription)
	}
	return sub, nil
}
