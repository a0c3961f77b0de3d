package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memora-dev/memora/pkg/adapter"
	"github.com/memora-dev/memora/pkg/repository"
	"github.com/urfave/cli/v3"
)

// config holds configuration values shared across commands
type config struct {
	// Datastore
	databaseURL string

	// LLM
	geminiAPIKey    string
	generativeModel string
	embeddingModel  string
	embeddingDim    int64

	// Tool transport
	mcpConfig string

	// Logging
	logLevel string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "database-url",
			Aliases:     []string{"d"},
			Usage:       "Postgres connection string (pgvector extension required)",
			Sources:     cli.EnvVars("MEMORA_DATABASE_URL"),
			Destination: &cfg.databaseURL,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("MEMORA_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key",
			Sources:     cli.EnvVars("GEMINI_API_KEY"),
			Destination: &cfg.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "generative-model",
			Usage:       "Gemini model for chat completion",
			Value:       "gemini-2.5-flash",
			Sources:     cli.EnvVars("MEMORA_GENERATIVE_MODEL"),
			Destination: &cfg.generativeModel,
		},
		&cli.StringFlag{
			Name:        "embedding-model",
			Usage:       "Gemini model for text embedding",
			Value:       "gemini-embedding-001",
			Sources:     cli.EnvVars("MEMORA_EMBEDDING_MODEL"),
			Destination: &cfg.embeddingModel,
		},
		&cli.IntFlag{
			Name:        "embedding-dim",
			Usage:       "Embedding dimension, must match the vector column of the datastore",
			Value:       768,
			Sources:     cli.EnvVars("MEMORA_EMBEDDING_DIM"),
			Destination: &cfg.embeddingDim,
		},
	}
}

// mcpFlags returns flags for the MCP tool transport
func mcpFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mcp-config",
			Usage:       "Path to MCP server configuration file (YAML)",
			Sources:     cli.EnvVars("MEMORA_MCP_CONFIG"),
			Destination: &cfg.mcpConfig,
		},
	}
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.databaseURL == "" {
		return nil, goerr.New("database-url is required")
	}

	repo, err := repository.NewPostgres(ctx, cfg.databaseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiAPIKey == "" {
		return nil, goerr.New("gemini-api-key is required")
	}

	gemini, err := adapter.NewGemini(ctx, cfg.geminiAPIKey,
		adapter.WithGenerativeModel(cfg.generativeModel),
		adapter.WithEmbeddingModel(cfg.embeddingModel),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}
	return gemini, nil
}
