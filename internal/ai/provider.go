package ai

import (
	"context"
	"fmt"

	"VisionTalk/internal/config"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

// NewClient выбирает реализацию по cfg.Provider.
func NewClient(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (Client, error) {
	switch cfg.Provider {
	case config.ProviderStub:
		return NewStubClient(), nil
	case config.ProviderOpenAI:
		// ключ берётся из OPENAI_API_KEY
		oClient := openai.NewClient()
		return NewVisionClient(&oClient, cfg.OpenAI.Model, logger), nil
	case config.ProviderGemini, "":
		return NewGeminiClient(ctx, cfg.Gemini, logger)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
