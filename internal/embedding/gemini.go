package embedding

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	taskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	taskRetrievalQuery    = "RETRIEVAL_QUERY"
)

type geminiClient struct {
	client   *genai.Client
	model    string
	taskType string
}

// newGeminiClient builds a Gemini API client. An empty apiKey lets genai read
// GOOGLE_API_KEY / GEMINI_API_KEY itself.
func newGeminiClient(ctx context.Context, apiKey, model, taskType string) (*geminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &geminiClient{client: client, model: model, taskType: taskType}, nil
}

// withTaskType returns a client sharing the connection but embedding for
// another task.
func (g *geminiClient) withTaskType(taskType string) *geminiClient {
	return &geminiClient{client: g.client, model: g.model, taskType: taskType}
}

func (g *geminiClient) embedConfig() *genai.EmbedContentConfig {
	if g.taskType == "" {
		return nil
	}
	return &genai.EmbedContentConfig{TaskType: g.taskType}
}

func (g *geminiClient) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: text}}}
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.model, contents, g.embedConfig())
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embedding values returned")
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		vectors[i] = e.Values
	}
	return vectors, nil
}
