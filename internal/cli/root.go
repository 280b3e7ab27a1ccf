// Package cli provides the command-line interface for newsrag.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/raphaelgruber/newsrag/internal/config"
	"github.com/raphaelgruber/newsrag/internal/db"
	"github.com/raphaelgruber/newsrag/internal/llm"
	"github.com/raphaelgruber/newsrag/internal/metrics"
	"github.com/raphaelgruber/newsrag/internal/parser"
	"github.com/raphaelgruber/newsrag/internal/service"
	"github.com/raphaelgruber/newsrag/internal/session"
	"github.com/raphaelgruber/newsrag/internal/store"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	serverURL string

	// Global config and db client
	cfg      config.Config
	dbClient *db.Client

	// Lazy-initialized components
	embedder *llm.Embedder
	model    *llm.Model
	rag      *service.RAG
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "newsrag",
	Short: "Retrieval-augmented question answering over news articles",
	Long: `Newsrag ingests news article documents into a vector catalog and answers
questions about them with an LLM that searches the catalog through tools.

Articles are plain text documents with optional Title, Link and
People Mentioned headers. Questions can target article content or the
people mentioned across the catalog.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// Env file is optional
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// Remote mode talks to a running server and needs no DB
		if serverURL != "" {
			return nil
		}

		ctx := cmd.Context()
		dbCfg := db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}

		dbClient, err = db.NewClient(ctx, dbCfg, nil)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		if err := dbClient.InitSchema(ctx, cfg.EmbedDimension); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
	},
}

// getStore builds the vector store with lazy embedder initialization.
func getStore(ctx context.Context) (*store.Store, error) {
	if embedder == nil {
		var err error
		embedder, err = llm.NewEmbedder(cfg)
		if err != nil {
			return nil, fmt.Errorf("init embedder: %w", err)
		}
	}
	return store.New(dbClient, embedder, cfg.MaxResults), nil
}

// getRAG builds the full answering service with lazy LLM initialization.
func getRAG(ctx context.Context) (*service.RAG, error) {
	if rag != nil {
		return rag, nil
	}

	st, err := getStore(ctx)
	if err != nil {
		return nil, err
	}
	if model == nil {
		model, err = llm.NewModel(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("init model: %w", err)
		}
	}

	proc := parser.NewProcessor(cfg.ChunkSize, cfg.ChunkOverlap)
	sessions := session.NewManager(cfg.MaxHistory)
	rag, err = service.NewFromModel(proc, st, model, sessions, metrics.NewCollector())
	if err != nil {
		return nil, err
	}
	return rag, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "talk to a running newsrag server instead of the database")

	// Add subcommands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(peopleCmd)
	rootCmd.AddCommand(clearCmd)
}
