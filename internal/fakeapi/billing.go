package fakeapi

import (
	"net/http"
	"time"

	"github.com/MKhiriev/orchestra/internal/app"
	"github.com/MKhiriev/orchestra/models"
)

const idempotencyKeyHeader = "Idempotency-Key"

func (b *Backend) listPlans(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	plans := append([]models.Plan(nil), b.plans...)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, plans)
}

func (b *Backend) subscription(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	sub := b.accounts[accountEmail(r.Context())].subscription
	b.mu.Unlock()

	if sub == nil {
		writeError(w, http.StatusNotFound, app.MsgNoSubscription)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// checkout activates the subscription at once; there is no payment step.
// A repeated Idempotency-Key returns the first session.
func (b *Backend) checkout(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if !decode(r, &req) || req.PlanID == "" {
		writeError(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := r.Header.Get(idempotencyKeyHeader)
	if prev, ok := b.idempotent[key]; ok && key != "" {
		writeJSON(w, http.StatusOK, prev)
		return
	}

	plan, ok := b.planByID(req.PlanID)
	if !ok {
		writeError(w, http.StatusBadRequest, app.MsgUnknownPlan)
		return
	}

	acc := b.accounts[accountEmail(r.Context())]
	period := 30 * 24 * time.Hour
	if plan.Interval == models.IntervalYear {
		period = 365 * 24 * time.Hour
	}
	acc.subscription = &models.Subscription{
		ID:               b.ids.Generate(),
		PlanID:           plan.ID,
		Status:           models.SubscriptionActive,
		CurrentPeriodEnd: b.now().Add(period).UTC().Truncate(time.Second),
	}
	acc.user.Plan = plan.ID

	id := b.ids.Generate()
	session := models.CheckoutSession{ID: id, URL: "https://billing.orchestra.test/checkout/" + id}
	if key != "" {
		b.idempotent[key] = session
	}

	writeJSON(w, http.StatusCreated, session)
}

func (b *Backend) portal(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	acc := b.accounts[accountEmail(r.Context())]
	hasSub := acc.subscription != nil
	userID := acc.user.ID
	b.mu.Unlock()

	if !hasSub {
		writeError(w, http.StatusNotFound, app.MsgNoSubscription)
		return
	}
	writeJSON(w, http.StatusOK, models.PortalSession{URL: "https://billing.orchestra.test/portal/" + userID})
}

func (b *Backend) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := b.accounts[accountEmail(r.Context())].subscription
	if sub == nil {
		writeError(w, http.StatusNotFound, app.MsgNoSubscription)
		return
	}
	sub.CancelAtPeriodEnd = true

	writeJSON(w, http.StatusOK, sub)
}

// hasActivePlanLocked reports whether acc has a paid subscription that is
// active or trialing. Callers hold b.mu.
func hasActivePlanLocked(acc *account) bool {
	if acc.subscription == nil {
		return false
	}
	switch acc.subscription.Status {
	case models.SubscriptionActive, models.SubscriptionTrialing:
		return acc.subscription.PlanID != "free"
	}
	return false
}
