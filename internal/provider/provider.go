// Package provider maps provider names and configuration onto the settings
// used to build embedding and chat clients. It performs no network calls.
package provider

import (
	"strings"

	"pdf-rag/internal/config"
	"pdf-rag/internal/models"
)

type Provider string

const (
	Google Provider = "google"
	OpenAI Provider = "openai"
)

type Kind string

const (
	KindEmbedding Kind = "embedding"
	KindChat      Kind = "chat"
)

const (
	EmbeddingEnvVar = "EMBEDDING_PROVIDER"
	ChatEnvVar      = "CHAT_PROVIDER"
)

type EmbeddingSettings struct {
	Provider Provider
	Model    string
}

type ChatSettings struct {
	Provider    Provider
	Model       string
	Temperature float64
}

// Normalize trims and lowercases v. Blank input yields "".
func Normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Resolve picks the first non-blank of explicit, fromEnv and def, and checks
// it against the supported providers. envVar is only used for error reporting.
func Resolve(kind Kind, explicit, fromEnv, envVar string, def Provider) (Provider, error) {
	resolved := Normalize(explicit)
	if resolved == "" {
		resolved = Normalize(fromEnv)
	}
	if resolved == "" {
		resolved = Normalize(string(def))
	}

	switch p := Provider(resolved); p {
	case Google, OpenAI:
		return p, nil
	default:
		return "", &models.UnsupportedProviderError{Kind: string(kind), Value: resolved, EnvVar: envVar}
	}
}

func ResolveEmbedding(cfg config.EmbeddingConfig, explicit string) (EmbeddingSettings, error) {
	p, err := Resolve(KindEmbedding, explicit, cfg.Provider, EmbeddingEnvVar, config.DefaultProvider)
	if err != nil {
		return EmbeddingSettings{}, err
	}

	switch p {
	case OpenAI:
		return EmbeddingSettings{Provider: p, Model: orDefault(cfg.OpenAIModel, config.DefaultOpenAIEmbeddingModel)}, nil
	default:
		return EmbeddingSettings{Provider: p, Model: orDefault(cfg.GoogleModel, config.DefaultGoogleEmbeddingModel)}, nil
	}
}

func ResolveChat(cfg config.ChatConfig, explicit string) (ChatSettings, error) {
	p, err := Resolve(KindChat, explicit, cfg.Provider, ChatEnvVar, config.DefaultProvider)
	if err != nil {
		return ChatSettings{}, err
	}

	switch p {
	case OpenAI:
		return ChatSettings{
			Provider:    p,
			Model:       orDefault(cfg.OpenAIModel, config.DefaultOpenAIChatModel),
			Temperature: cfg.OpenAITemperature,
		}, nil
	default:
		return ChatSettings{
			Provider:    p,
			Model:       orDefault(cfg.GoogleModel, config.DefaultGoogleChatModel),
			Temperature: cfg.GoogleTemperature,
		}, nil
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
