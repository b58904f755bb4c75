package fakeapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/orchestra/internal/app"
	"github.com/MKhiriev/orchestra/models"
)

const (
	defaultAgent    = "architect"
	usdPerKiloToken = 0.002
)

// prompt echoes the prompt back as the agent answer. Free accounts are
// limited to promptQuota prompts.
func (b *Backend) prompt(w http.ResponseWriter, r *http.Request) {
	var req models.PromptRequest
	if !decode(r, &req) || strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, app.MsgInvalidDataProvided)
		return
	}

	agent := req.Agent
	if agent == "" {
		agent = defaultAgent
	}

	b.mu.Lock()
	acc := b.accounts[accountEmail(r.Context())]
	if !hasActivePlanLocked(acc) && acc.prompts >= b.promptQuota {
		b.mu.Unlock()
		writeError(w, http.StatusTooManyRequests, app.MsgQuotaExceeded)
		return
	}
	acc.prompts++

	tokens := int64(len(strings.Fields(req.Prompt))) * 4
	cost := float64(tokens) / 1000 * usdPerKiloToken

	b.metrics.CompletedTasks++
	b.metrics.TokensUsed += tokens
	b.metrics.CostUSD += cost
	if b.metrics.PerAgent == nil {
		b.metrics.PerAgent = make(map[string]int)
	}
	b.metrics.PerAgent[agent]++
	snapshot := b.snapshotLocked()
	b.mu.Unlock()

	b.broadcast(snapshot)

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = b.ids.Generate()
	}

	writeJSON(w, http.StatusOK, models.PromptResponse{
		ID:             b.ids.Generate(),
		ConversationID: conversationID,
		Agent:          agent,
		Output:         fmt.Sprintf("[%s] %s", agent, req.Prompt),
		TokensUsed:     tokens,
		CostUSD:        cost,
	})
}
