package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"

	"pdf-rag/internal/models"
)

// RAG answers questions from the chunks stored in a vector store.
type RAG struct {
	store       vectorstores.VectorStore
	llm         llms.Model
	prompt      prompts.PromptTemplate
	topK        int
	callOptions []llms.CallOption
}

// NewRAG wires a store and a chat model. topK is the number of chunks
// retrieved per question; opts are passed to every model call.
func NewRAG(store vectorstores.VectorStore, llm llms.Model, topK int, opts ...llms.CallOption) *RAG {
	return &RAG{
		store: store,
		llm:   llm,
		prompt: prompts.PromptTemplate{
			Template:       models.PromptTemplate,
			InputVariables: []string{models.ContextVariable, models.QuestionVariable},
			TemplateFormat: prompts.TemplateFormatFString,
		},
		topK:        topK,
		callOptions: opts,
	}
}

// Search returns up to k chunks closest to query, most similar first. A
// non-positive k falls back to the configured default.
func (r *RAG) Search(ctx context.Context, query string, k int) ([]schema.Document, error) {
	if k <= 0 {
		k = r.topK
	}
	docs, err := r.store.SimilaritySearch(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	log.Debug().Int("k", k).Int("results", len(docs)).Msg("Retrieved chunks")
	return docs, nil
}

// AssembleContext joins the trimmed, non-empty chunk texts in search order.
func AssembleContext(docs []schema.Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if text := strings.TrimSpace(d.PageContent); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, models.ContextSeparator)
}

func (r *RAG) BuildPrompt(contextText, question string) (string, error) {
	return r.prompt.Format(map[string]any{
		models.ContextVariable:  contextText,
		models.QuestionVariable: question,
	})
}

// Query retrieves context for question, fills the prompt and returns the
// model's raw answer.
func (r *RAG) Query(ctx context.Context, question string) (string, error) {
	docs, err := r.Search(ctx, question, r.topK)
	if err != nil {
		return "", err
	}

	prompt, err := r.BuildPrompt(AssembleContext(docs), question)
	if err != nil {
		return "", fmt.Errorf("format prompt: %w", err)
	}

	answer, err := llms.GenerateFromSinglePrompt(ctx, r.llm, prompt, r.callOptions...)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}
