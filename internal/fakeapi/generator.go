package fakeapi

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/orchestra/internal/app"
	"github.com/MKhiriev/orchestra/models"
	"github.com/go-chi/chi/v5"
)

var generatorSteps = []string{"planning", "scaffolding", "writing handlers", "writing tests", "packaging"}

// createJob requires an active paid plan. Prompts containing "fail" produce
// a job that ends in the failed state.
func (b *Backend) createJob(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if !decode(r, &req) || strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return
	}

	email := accountEmail(r.Context())

	b.mu.Lock()
	key := r.Header.Get(idempotencyKeyHeader)
	if prev, ok := b.idempotent[key]; ok && key != "" {
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, prev)
		return
	}

	if !hasActivePlanLocked(b.accounts[email]) {
		b.mu.Unlock()
		writeError(w, http.StatusPaymentRequired, app.MsgSubscriptionRequired)
		return
	}

	now := b.now().UTC()
	j := &job{
		Job: models.Job{
			ID:        b.ids.Generate(),
			Status:    models.JobPending,
			Step:      "queued",
			CreatedAt: now,
			UpdatedAt: now,
		},
		owner:   email,
		failing: strings.Contains(strings.ToLower(req.Prompt), "fail"),
	}
	b.jobs[j.ID] = j
	if key != "" {
		b.idempotent[key] = j.Job
	}
	b.metrics.QueuedTasks++
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	b.broadcast(snapshot)

	writeJSON(w, http.StatusCreated, j.Job)
}

// jobStatus advances the job one step per fetch:
// pending -> generating (generatingSteps times) -> completed or failed.
func (b *Backend) jobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	j, ok := b.jobs[id]
	if !ok || j.owner != accountEmail(r.Context()) {
		b.mu.Unlock()
		writeError(w, http.StatusNotFound, app.MsgJobNotFound)
		return
	}

	current := j.Job
	becameTerminal := b.advanceLocked(j)
	var snapshot models.Metrics
	if becameTerminal {
		snapshot = b.snapshotLocked()
	}
	b.mu.Unlock()

	if becameTerminal {
		b.broadcast(snapshot)
	}

	writeJSON(w, http.StatusOK, current)
}

// advanceLocked moves j to the state the next fetch will see and reports
// whether that state is terminal. Callers hold b.mu.
func (b *Backend) advanceLocked(j *job) bool {
	if j.Status.IsTerminal() {
		return false
	}

	j.fetches++
	j.UpdatedAt = b.now().UTC()

	if j.fetches <= b.generatingSteps {
		j.Status = models.JobGenerating
		j.Progress = float64(j.fetches) / float64(b.generatingSteps+1)
		j.Step = generatorSteps[(j.fetches-1)%len(generatorSteps)]
		return false
	}

	b.metrics.QueuedTasks = max(b.metrics.QueuedTasks-1, 0)
	if j.failing {
		j.Status = models.JobFailed
		j.Error = "generation failed: model refused the prompt"
		b.metrics.FailedTasks++
		return true
	}

	j.Status = models.JobCompleted
	j.Progress = 1
	j.Step = "done"
	j.ResultURL = "https://downloads.orchestra.test/" + j.ID + ".zip"
	b.metrics.CompletedTasks++
	return true
}
