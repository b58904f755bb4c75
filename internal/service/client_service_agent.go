package service

import (
	"context"

	"github.com/MKhiriev/orchestra/internal/adapter"
	"github.com/MKhiriev/orchestra/internal/logger"
	"github.com/MKhiriev/orchestra/internal/validators"
	"github.com/MKhiriev/orchestra/models"
)

type clientAgentService struct {
	adapter   adapter.ServerAdapter
	validator validators.Validator
	logger    *logger.Logger
}

func NewClientAgentService(serverAdapter adapter.ServerAdapter, validator validators.Validator, logger *logger.Logger) AgentService {
	return &clientAgentService{adapter: serverAdapter, validator: validator, logger: logger}
}

func (s *clientAgentService) Submit(ctx context.Context, req models.PromptRequest) (models.PromptResponse, error) {
	if err := validate(ctx, s.validator, req); err != nil {
		return models.PromptResponse{}, err
	}

	resp, err := s.adapter.SubmitPrompt(ctx, req)
	if err != nil {
		return models.PromptResponse{}, mapAdapterError(err, opDefault)
	}

	s.logger.Debug().
		Str("agent", resp.Agent).
		Int64("tokens_used", resp.TokensUsed).
		Msg("prompt answered")

	return resp, nil
}
