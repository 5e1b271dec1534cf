package llmservice

import (
	"context"
	"errors"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"google.golang.org/genai"
)

// geminiModel adapts the genai client to llms.Model.
type geminiModel struct {
	client *genai.Client
	model  string
}

func newGeminiModel(ctx context.Context, apiKey, model string) (*geminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &geminiModel{client: client, model: model}, nil
}

func (g *geminiModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := llms.CallOptions{}
	for _, opt := range options {
		opt(&opts)
	}
	model := g.model
	if opts.Model != "" {
		model = opts.Model
	}

	contents, system := toGeminiContents(messages)
	if len(contents) == 0 {
		return nil, errors.New("gemini: no message content")
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(opts.Temperature)),
		SystemInstruction: system,
	}
	resp, err := g.client.Models.GenerateContent(ctx, model, contents, genCfg)
	if err != nil {
		return nil, err
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: resp.Text()}},
	}, nil
}

func (g *geminiModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, g, prompt, options...)
}

func toGeminiContents(messages []llms.MessageContent) ([]*genai.Content, *genai.Content) {
	var contents []*genai.Content
	var system *genai.Content
	for _, msg := range messages {
		parts := textParts(msg.Parts)
		if len(parts) == 0 {
			continue
		}
		switch msg.Role {
		case llms.ChatMessageTypeSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, parts...)
		case llms.ChatMessageTypeAI:
			contents = append(contents, &genai.Content{Role: string(genai.RoleModel), Parts: parts})
		default:
			contents = append(contents, &genai.Content{Role: string(genai.RoleUser), Parts: parts})
		}
	}
	return contents, system
}

func textParts(parts []llms.ContentPart) []*genai.Part {
	var out []*genai.Part
	for _, p := range parts {
		if tc, ok := p.(llms.TextContent); ok {
			out = append(out, &genai.Part{Text: tc.Text})
		}
	}
	return out
}
