package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/goodfoods-reservation-agent/agent/contract"
	openrouterx "github.com/tanpawarit/goodfoods-reservation-agent/pkg/openrouter"
)

type Backend string

const (
	BackendEino   Backend = "eino"
	BackendOpenAI Backend = "openai"
)

type Config struct {
	Backend            Backend       `envconfig:"BACKEND" split_words:"true" default:"eino"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"meta-llama/llama-3.3-8b-instruct:free"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	MaxAttempts        int           `envconfig:"MAX_ATTEMPTS" split_words:"true" default:"3"`
	RetryBaseDelay     time.Duration `envconfig:"RETRY_BASE_DELAY" split_words:"true" default:"1s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true" default:"GoodFoods Reservation Agent"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: llm model is required", contractx.ErrValidation)
	}
	switch c.Backend {
	case BackendEino, BackendOpenAI, "":
	default:
		return fmt.Errorf("%w: unknown llm backend %q", contractx.ErrValidation, c.Backend)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("%w: max attempts must be >= 0", contractx.ErrValidation)
	}
	return nil
}

func (c Config) OpenRouter() openrouterx.Config {
	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              strings.TrimSpace(c.Model),
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        c.Temperature,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}

func (c Config) retryPolicy() retryPolicy {
	return retryPolicy{
		attempts:  c.MaxAttempts,
		baseDelay: c.RetryBaseDelay,
		timeout:   c.Timeout,
	}
}
