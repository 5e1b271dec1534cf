package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/schema"

	"pdf-rag/internal/helper"
	"pdf-rag/internal/ingest"
	"pdf-rag/internal/llmservice"
	"pdf-rag/internal/models"
	"pdf-rag/internal/parser"
	"pdf-rag/internal/provider"
	"pdf-rag/internal/rag"
)

func (c *cli) ingestCmd() *cobra.Command {
	var embeddingProvider, file string
	var reset bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load, split and embed a document into the vector store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			embedder, err := c.newEmbedder(embeddingProvider)
			if err != nil {
				return err
			}
			store, closeStore, err := c.openStore(embedder)
			if err != nil {
				return err
			}
			defer closeStore()

			path := c.cfg.PDFPath
			if file != "" {
				path = file
			}
			splitter := parser.NewSplitter(c.cfg.RAG.ChunkSize, c.cfg.RAG.ChunkOverlap)
			var opts []ingest.Option
			if reset {
				opts = append(opts, ingest.WithReset(store.DeleteCollection))
			}
			summary, err := ingest.NewPipeline(store, splitter, c.cfg.VectorStore.Collection, opts...).Run(ctx, path)
			if err != nil {
				return err
			}

			log.Debug().Interface("summary", summary).Msg("Ingestion summary")
			fmt.Fprintln(cmd.OutOrStdout(), "Ingestão concluída com sucesso!")
			return nil
		},
	}
	cmd.Flags().StringVar(&embeddingProvider, "embedding-provider", "", "embedding provider: google or openai (overrides EMBEDDING_PROVIDER)")
	cmd.Flags().StringVar(&file, "file", "", "document to ingest (overrides PDF_PATH)")
	cmd.Flags().BoolVar(&reset, "reset", false, "replace the collection contents once the document has been split")
	return cmd
}

func (c *cli) chatCmd() *cobra.Command {
	var question, embeddingProvider, chatProvider string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Answer questions from the ingested document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// resolve both providers before touching any service
			chatSettings, err := provider.ResolveChat(c.cfg.Chat, chatProvider)
			if err != nil {
				return err
			}
			embedder, err := c.newEmbedder(embeddingProvider)
			if err != nil {
				return err
			}
			model, err := llmservice.NewChatModel(ctx, chatSettings, c.cfg)
			if err != nil {
				return err
			}
			store, closeStore, err := c.openStore(embedder)
			if err != nil {
				return err
			}
			defer closeStore()

			r := rag.NewRAG(store, model, c.cfg.RAG.TopK, llmservice.CallOptions(chatSettings)...)
			if question != "" {
				answer, err := r.Query(ctx, question)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", models.AnswerPrefix, answer)
				return nil
			}
			return r.Interactive(ctx, os.Stdin, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&question, "question", "", "ask a single question and exit")
	cmd.Flags().StringVar(&embeddingProvider, "embedding-provider", "", "embedding provider: google or openai (overrides EMBEDDING_PROVIDER)")
	cmd.Flags().StringVar(&chatProvider, "chat-provider", "", "chat provider: google or openai (overrides CHAT_PROVIDER)")
	return cmd
}

type searchResult struct {
	Rank     int            `json:"rank"`
	Score    float32        `json:"score"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

func (c *cli) searchCmd() *cobra.Command {
	var query, embeddingProvider string
	var k int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Show the chunks most similar to a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			embedder, err := c.newEmbedder(embeddingProvider)
			if err != nil {
				return err
			}
			store, closeStore, err := c.openStore(embedder)
			if err != nil {
				return err
			}
			defer closeStore()

			docs, err := rag.NewRAG(store, nil, c.cfg.RAG.TopK).Search(ctx, query, k)
			if err != nil {
				return err
			}

			if asJSON {
				helper.PrettyPrint(cmd.OutOrStdout(), toSearchResults(docs))
				return nil
			}
			rag.WriteResults(cmd.OutOrStdout(), docs)
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "text to search for")
	cmd.Flags().IntVar(&k, "k", 0, "number of results (defaults to SEARCH_K)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().StringVar(&embeddingProvider, "embedding-provider", "", "embedding provider: google or openai (overrides EMBEDDING_PROVIDER)")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}

func toSearchResults(docs []schema.Document) []searchResult {
	out := make([]searchResult, len(docs))
	for i, d := range docs {
		out[i] = searchResult{Rank: i + 1, Score: d.Score, Content: d.PageContent, Metadata: d.Metadata}
	}
	return out
}
