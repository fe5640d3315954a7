package llm

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
	openrouterx "github.com/tanpawarit/goodfoods-reservation-agent/pkg/openrouter"
)

// NewGateway builds the configured backend against the OpenRouter-compatible
// endpoint described by cfg.
func NewGateway(ctx context.Context, cfg Config) (contractx.Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	endpoint := cfg.OpenRouter()

	log.Info().
		Str("backend", string(cfg.Backend)).
		Str("model", endpoint.Model).
		Dur("timeout", cfg.Timeout).
		Int("max_attempts", cfg.MaxAttempts).
		Msg("initialising completion gateway")

	switch cfg.Backend {
	case BackendOpenAI:
		client := openrouterx.NewClient(endpoint)
		if client == nil {
			return nil, errors.New("failed to initialise openai client")
		}
		return NewOpenAIGateway(client, cfg)
	default:
		chatModel, err := endpoint.New(ctx)
		if err != nil {
			return nil, err
		}
		return NewEinoGateway(chatModel, cfg)
	}
}
