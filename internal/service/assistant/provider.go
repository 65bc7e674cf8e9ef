package assistant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zhouzirui/jashn-planner/backend/internal/config"
	"github.com/zhouzirui/jashn-planner/backend/internal/llm"
	"github.com/zhouzirui/jashn-planner/backend/internal/llm/ark"
	"github.com/zhouzirui/jashn-planner/backend/internal/llm/gemini"
)

// ErrProviderDisabled means the selected provider has no credentials configured.
var ErrProviderDisabled = errors.New("ai provider credentials not configured")

// NewProvider builds the provider selected by cfg.Provider.
func NewProvider(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (llm.Provider, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: %s", ErrProviderDisabled, cfg.Provider)
	}

	switch cfg.Provider {
	case config.ProviderArk:
		chatModel, err := cfg.NewArkChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create ark chat model: %w", err)
		}
		return ark.NewProvider(ctx, chatModel, logger)
	case config.ProviderGemini:
		return gemini.NewProvider(ctx, gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		}, logger)
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}

// ConfigFrom maps the AI settings onto gateway settings.
func ConfigFrom(cfg config.AIConfig) Config {
	return Config{
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}
}
