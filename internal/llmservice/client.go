package llmservice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"pdf-rag/internal/config"
	"pdf-rag/internal/helper"
	"pdf-rag/internal/provider"
)

// NewChatModel creates the chat model for the resolved provider, wrapped
// with the retry policy from cfg.Retry.
func NewChatModel(ctx context.Context, settings provider.ChatSettings, cfg *config.Config) (llms.Model, error) {
	log.Debug().
		Str("provider", string(settings.Provider)).
		Str("model", settings.Model).
		Float64("temperature", settings.Temperature).
		Msg("Creating chat model")

	var model llms.Model
	switch settings.Provider {
	case provider.OpenAI:
		opts := []openai.Option{openai.WithModel(settings.Model)}
		if cfg.Credentials.OpenAIAPIKey != "" {
			opts = append(opts, openai.WithToken(cfg.Credentials.OpenAIAPIKey))
		}
		if cfg.Credentials.OpenAIBaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.Credentials.OpenAIBaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("initialize openai chat: %w", err)
		}
		model = llm
	case provider.Google:
		gm, err := newGeminiModel(ctx, cfg.Credentials.GoogleAPIKey, settings.Model)
		if err != nil {
			return nil, fmt.Errorf("initialize google chat: %w", err)
		}
		model = gm
	default:
		return nil, fmt.Errorf("no chat client for provider %q", settings.Provider)
	}

	return WithRetry(model, cfg.Retry), nil
}

// CallOptions returns the per-request options implied by settings.
func CallOptions(settings provider.ChatSettings) []llms.CallOption {
	return []llms.CallOption{
		llms.WithModel(settings.Model),
		llms.WithTemperature(settings.Temperature),
	}
}

// WithRetry wraps model so GenerateContent is retried per cfg.
func WithRetry(model llms.Model, cfg config.RetryConfig) llms.Model {
	return &retryModel{next: model, cfg: cfg}
}

type retryModel struct {
	next llms.Model
	cfg  config.RetryConfig
}

func (r *retryModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var resp *llms.ContentResponse
	err := helper.Retry(ctx, r.cfg, "chat", func() error {
		var err error
		resp, err = r.next.GenerateContent(ctx, messages, options...)
		return err
	})
	return resp, err
}

func (r *retryModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, r, prompt, options...)
}
