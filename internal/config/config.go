package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultProvider = "google"

	DefaultGoogleEmbeddingModel = "models/embedding-001"
	DefaultOpenAIEmbeddingModel = "text-embedding-3-small"
	DefaultGoogleChatModel      = "gemini-2.5-flash-lite"
	DefaultOpenAIChatModel      = "gpt-4o-mini"

	DefaultPDFPath    = "document.pdf"
	DefaultCollection = "document_embeddings"

	BackendPGVector = "pgvector"
	BackendChromem  = "chromem"

	DriverPGDriver = "pgdriver"
	DriverPQ       = "pq"
)

type Config struct {
	PDFPath     string            `yaml:"pdf_path" env:"PDF_PATH"`
	LogLevel    string            `yaml:"log_level" env:"LOG_LEVEL"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Chat        ChatConfig        `yaml:"chat"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Database    DatabaseConfig    `yaml:"database"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	RAG         RAGConfig         `yaml:"rag"`
	Retry       RetryConfig       `yaml:"retry" envPrefix:"RETRY_"`
}

type EmbeddingConfig struct {
	Provider    string `yaml:"provider" env:"EMBEDDING_PROVIDER"`
	GoogleModel string `yaml:"google_model" env:"GOOGLE_EMBEDDING_MODEL"`
	OpenAIModel string `yaml:"openai_model" env:"OPENAI_EMBEDDING_MODEL"`
	BatchSize   int    `yaml:"batch_size" env:"EMBEDDING_BATCH_SIZE"`
}

type ChatConfig struct {
	Provider          string  `yaml:"provider" env:"CHAT_PROVIDER"`
	GoogleModel       string  `yaml:"google_model" env:"GOOGLE_CHAT_MODEL"`
	GoogleTemperature float64 `yaml:"google_temperature" env:"GOOGLE_CHAT_TEMPERATURE"`
	OpenAIModel       string  `yaml:"openai_model" env:"OPENAI_CHAT_MODEL"`
	OpenAITemperature float64 `yaml:"openai_temperature" env:"OPENAI_CHAT_TEMPERATURE"`
}

// CredentialsConfig holds the API keys. Empty keys let the client libraries
// fall back to their own environment lookups.
type CredentialsConfig struct {
	GoogleAPIKey  string `yaml:"google_api_key" env:"GOOGLE_API_KEY"`
	OpenAIAPIKey  string `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `yaml:"openai_base_url" env:"OPENAI_BASE_URL"`
}

type DatabaseConfig struct {
	URL      string `yaml:"url" env:"PGVECTOR_URL"`
	Host     string `yaml:"host" env:"PGHOST"`
	Port     string `yaml:"port" env:"PGPORT"`
	User     string `yaml:"user" env:"PGUSER"`
	Password string `yaml:"password" env:"PGPASSWORD"`
	Name     string `yaml:"name" env:"PGDATABASE"`
	Driver   string `yaml:"driver" env:"PG_DRIVER"`
	Debug    bool   `yaml:"debug" env:"PG_DEBUG"`
}

type VectorStoreConfig struct {
	Backend         string `yaml:"backend" env:"VECTOR_STORE_BACKEND"`
	Collection      string `yaml:"collection" env:"PG_VECTOR_COLLECTION_NAME"`
	ChromemPath     string `yaml:"chromem_path" env:"CHROMEM_PATH"`
	ChromemCompress bool   `yaml:"chromem_compress" env:"CHROMEM_COMPRESS"`
}

type RAGConfig struct {
	ChunkSize    int `yaml:"chunk_size" env:"CHUNK_SIZE"`
	ChunkOverlap int `yaml:"chunk_overlap" env:"CHUNK_OVERLAP"`
	TopK         int `yaml:"top_k" env:"SEARCH_K"`
}

// RetryConfig bounds retries of embedding and chat calls. Attempts of 1
// disables retrying.
type RetryConfig struct {
	Attempts uint          `yaml:"attempts" env:"ATTEMPTS"`
	Delay    time.Duration `yaml:"delay" env:"DELAY"`
	MaxDelay time.Duration `yaml:"max_delay" env:"MAX_DELAY"`
}

// Default returns the configuration used when neither a file nor the
// environment overrides a value.
func Default() *Config {
	return &Config{
		PDFPath:  DefaultPDFPath,
		LogLevel: "info",
		Embedding: EmbeddingConfig{
			GoogleModel: DefaultGoogleEmbeddingModel,
			OpenAIModel: DefaultOpenAIEmbeddingModel,
			BatchSize:   100,
		},
		Chat: ChatConfig{
			GoogleModel: DefaultGoogleChatModel,
			OpenAIModel: DefaultOpenAIChatModel,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			Name:     "rag",
			Driver:   DriverPGDriver,
		},
		VectorStore: VectorStoreConfig{
			Backend:     BackendPGVector,
			Collection:  DefaultCollection,
			ChromemPath: "./chromemdb",
		},
		RAG: RAGConfig{
			ChunkSize:    1000,
			ChunkOverlap: 150,
			TopK:         10,
		},
		Retry: RetryConfig{
			Attempts: 1,
			Delay:    500 * time.Millisecond,
			MaxDelay: 5 * time.Second,
		},
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file at
// path (skipped when path is empty), then environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.RAG.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.RAG.ChunkSize))
	}
	if c.RAG.ChunkOverlap < 0 || c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		errs = append(errs, fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.RAG.ChunkOverlap))
	}
	if c.RAG.TopK <= 0 {
		errs = append(errs, fmt.Errorf("SEARCH_K must be positive, got %d", c.RAG.TopK))
	}
	switch c.VectorStore.Backend {
	case BackendPGVector, BackendChromem:
	default:
		errs = append(errs, fmt.Errorf("unknown VECTOR_STORE_BACKEND %q", c.VectorStore.Backend))
	}
	switch c.Database.Driver {
	case DriverPGDriver, DriverPQ:
	default:
		errs = append(errs, fmt.Errorf("unknown PG_DRIVER %q", c.Database.Driver))
	}
	return errors.Join(errs...)
}

// ConnectionURL returns PGVECTOR_URL untouched when set, otherwise a URL
// composed from the discrete connection settings.
func (d DatabaseConfig) ConnectionURL() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s", d.User, d.Password, d.Host, d.Port, d.Name)
}
