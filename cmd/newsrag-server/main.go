// Package main provides the HTTP server for newsrag.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/raphaelgruber/newsrag/internal/config"
	"github.com/raphaelgruber/newsrag/internal/db"
	"github.com/raphaelgruber/newsrag/internal/llm"
	"github.com/raphaelgruber/newsrag/internal/metrics"
	"github.com/raphaelgruber/newsrag/internal/parser"
	"github.com/raphaelgruber/newsrag/internal/server"
	"github.com/raphaelgruber/newsrag/internal/service"
	"github.com/raphaelgruber/newsrag/internal/session"
	"github.com/raphaelgruber/newsrag/internal/store"
)

func main() {
	wipeDB := flag.Bool("wipe", false, "wipe all article data on startup (testing only)")
	flag.Parse()

	// Env file is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	slog.SetDefault(logger)
	defer func() {
		if err := closeLog(); err != nil {
			slog.Error("failed to close log file", "error", err)
		}
	}()

	slog.Info("starting newsrag-server", "port", cfg.Port)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	dbClient, err := db.NewClient(ctx, db.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = dbClient.InitSchema(ctx, cfg.EmbedDimension)
	cancel()
	if err != nil {
		slog.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	if *wipeDB || os.Getenv("NEWSRAG_WIPE_DB") == "true" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := dbClient.WipeData(ctx)
		cancel()
		if err != nil {
			slog.Error("failed to wipe database", "error", err)
			os.Exit(1)
		}
	}

	embedder, err := llm.NewEmbedder(cfg)
	if err != nil {
		slog.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}
	model, err := llm.NewModel(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to create model", "error", err)
		os.Exit(1)
	}

	st := store.New(dbClient, embedder, cfg.MaxResults)
	collector := metrics.NewCollector()
	rag, err := service.NewFromModel(
		parser.NewProcessor(cfg.ChunkSize, cfg.ChunkOverlap),
		st,
		model,
		session.NewManager(cfg.MaxHistory),
		collector,
	)
	if err != nil {
		slog.Error("failed to assemble service", "error", err)
		os.Exit(1)
	}

	// Ingest the documents folder on startup when it exists. Articles
	// already in the catalog are skipped.
	if info, err := os.Stat(cfg.DocsDir); err == nil && info.IsDir() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		result, err := rag.AddArticlesFolder(ctx, cfg.DocsDir, false)
		cancel()
		if err != nil {
			slog.Error("startup ingestion failed", "dir", cfg.DocsDir, "error", err)
			os.Exit(1)
		}
		slog.Info("startup ingestion done", "added", result.ArticlesAdded, "skipped", result.FilesSkipped)
	}

	srv := server.New(cfg.Port, cfg.StaticDir, rag, collector, logger)

	go func() {
		if err := srv.Run(); err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
