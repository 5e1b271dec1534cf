package provider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-rag/internal/config"
	"pdf-rag/internal/models"
)

func TestResolveNormalizesSpellings(t *testing.T) {
	tests := []struct {
		in   string
		want Provider
	}{
		{"google", Google},
		{"GOOGLE", Google},
		{"  Google\t", Google},
		{"openai", OpenAI},
		{" OpenAI ", OpenAI},
		{"\nOPENAI\n", OpenAI},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Resolve(KindEmbedding, tt.in, "", EmbeddingEnvVar, Google)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveUnsupported(t *testing.T) {
	for _, in := range []string{"azure", " Anthropic ", "google-ai"} {
		t.Run(in, func(t *testing.T) {
			_, err := Resolve(KindChat, in, "", ChatEnvVar, Google)
			require.Error(t, err)

			var upe *models.UnsupportedProviderError
			require.True(t, errors.As(err, &upe))
			assert.Equal(t, Normalize(in), upe.Value)
			assert.Equal(t, ChatEnvVar, upe.EnvVar)
			assert.Contains(t, err.Error(), Normalize(in))
		})
	}
}

func TestResolveUnsupportedFromEnvironment(t *testing.T) {
	_, err := ResolveEmbedding(config.EmbeddingConfig{Provider: "Cohere"}, "")

	var upe *models.UnsupportedProviderError
	require.ErrorAs(t, err, &upe)
	assert.Equal(t, "cohere", upe.Value)
	assert.Equal(t, EmbeddingEnvVar, upe.EnvVar)
}

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		fromEnv  string
		want     Provider
	}{
		{"explicit beats env", "openai", "google", OpenAI},
		{"env beats default", "", "openai", OpenAI},
		{"blank explicit falls through", "   ", "openai", OpenAI},
		{"default", "", "", Google},
		{"blank env falls to default", "", " ", Google},
	}

	for _, tt := range tests {
		t.Run("embedding/"+tt.name, func(t *testing.T) {
			s, err := ResolveEmbedding(config.EmbeddingConfig{Provider: tt.fromEnv}, tt.explicit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Provider)
		})
		t.Run("chat/"+tt.name, func(t *testing.T) {
			s, err := ResolveChat(config.ChatConfig{Provider: tt.fromEnv}, tt.explicit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Provider)
		})
	}
}

func TestResolveKindsAreIndependent(t *testing.T) {
	cfg := config.Default()
	cfg.Embedding.Provider = "openai"

	emb, err := ResolveEmbedding(cfg.Embedding, "")
	require.NoError(t, err)
	chat, err := ResolveChat(cfg.Chat, "")
	require.NoError(t, err)

	assert.Equal(t, OpenAI, emb.Provider)
	assert.Equal(t, Google, chat.Provider)
}

func TestResolveModels(t *testing.T) {
	emb, err := ResolveEmbedding(config.EmbeddingConfig{}, "google")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultGoogleEmbeddingModel, emb.Model)

	emb, err = ResolveEmbedding(config.EmbeddingConfig{OpenAIModel: "text-embedding-3-large"}, "openai")
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-large", emb.Model)

	chat, err := ResolveChat(config.ChatConfig{OpenAITemperature: 0.7}, "openai")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultOpenAIChatModel, chat.Model)
	assert.InDelta(t, 0.7, chat.Temperature, 1e-9)

	chat, err = ResolveChat(config.ChatConfig{GoogleModel: "gemini-2.5-pro"}, "")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", chat.Model)
	assert.Zero(t, chat.Temperature)
}
