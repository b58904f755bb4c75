// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// BillingInterval is the charge period of a plan.
type BillingInterval string

const (
	IntervalMonth BillingInterval = "month"
	IntervalYear  BillingInterval = "year"
)

// Plan is a purchasable subscription tier as listed on the pricing page.
type Plan struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	PriceCents  int64           `json:"price_cents"`
	Currency    string          `json:"currency"`
	Interval    BillingInterval `json:"interval"`
	Features    []string        `json:"features,omitempty"`
	Popular     bool            `json:"popular,omitempty"`
}

// SubscriptionStatus mirrors the payments provider subscription state.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// Subscription is the current subscription of the signed-in account.
type Subscription struct {
	ID                string             `json:"id"`
	PlanID            string             `json:"plan_id"`
	Status            SubscriptionStatus `json:"status"`
	CurrentPeriodEnd  time.Time          `json:"current_period_end"`
	CancelAtPeriodEnd bool               `json:"cancel_at_period_end"`
}

// CheckoutRequest starts a hosted checkout for a plan.
type CheckoutRequest struct {
	PlanID     string `json:"plan_id"`
	SuccessURL string `json:"success_url,omitempty"`
	CancelURL  string `json:"cancel_url,omitempty"`
}

// CheckoutSession is the hosted checkout page the user completes payment on.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PortalSession is the hosted billing portal page.
type PortalSession struct {
	URL string `json:"url"`
}
