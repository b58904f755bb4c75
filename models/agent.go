package models

// PromptRequest is a prompt submitted to the agent service.
type PromptRequest struct {
	Prompt string `json:"prompt"`
	// Agent selects a specific agent; empty lets the orchestrator route.
	Agent          string            `json:"agent,omitempty"`
	ConversationID string            `json:"conversation_id,omitempty"`
	Context        map[string]string `json:"context,omitempty"`
}

// PromptResponse is the agent service answer.
type PromptResponse struct {
	ID             string  `json:"id"`
	ConversationID string  `json:"conversation_id,omitempty"`
	Agent          string  `json:"agent,omitempty"`
	Output         string  `json:"output"`
	TokensUsed     int64   `json:"tokens_used,omitempty"`
	CostUSD        float64 `json:"cost_usd,omitempty"`
}
