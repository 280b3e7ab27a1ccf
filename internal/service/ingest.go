package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/raphaelgruber/newsrag/internal/metrics"
	"github.com/raphaelgruber/newsrag/internal/models"
)

// FolderResult summarizes one folder ingestion run.
type FolderResult struct {
	ArticlesAdded int
	ChunksAdded   int
	FilesSkipped  int
	Errors        []string
}

// AddArticleDocument parses a single document and stores its catalog entry
// and chunks. Returns the parsed article and the number of chunks stored.
func (r *RAG) AddArticleDocument(ctx context.Context, path string) (models.Article, int, error) {
	start := time.Now()
	article, chunks, err := r.processor.ProcessArticleFile(path)
	if err != nil {
		return models.Article{}, 0, fmt.Errorf("process %s: %w", filepath.Base(path), err)
	}

	if err := r.store.AddArticle(ctx, article, chunks); err != nil {
		return models.Article{}, 0, fmt.Errorf("store article %q: %w", article.Title, err)
	}
	if r.metrics != nil {
		r.metrics.RecordTiming(metrics.OpIngest, time.Since(start))
	}

	slog.Info("article added", "title", article.Title, "chunks", len(chunks))
	return article, len(chunks), nil
}

// AddArticlesFolder ingests every supported document in dir. Articles whose
// title is already in the catalog are skipped, so repeated startup ingestion
// is idempotent. With clearExisting the catalog is wiped first. Per-file
// failures are collected, not fatal.
func (r *RAG) AddArticlesFolder(ctx context.Context, dir string, clearExisting bool) (*FolderResult, error) {
	if clearExisting {
		slog.Info("clearing existing article data")
		if err := r.store.ClearAll(ctx); err != nil {
			return nil, fmt.Errorf("clear store: %w", err)
		}
	}

	existing, err := r.store.ExistingTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list existing titles: %w", err)
	}

	files, err := collectDocuments(dir)
	if err != nil {
		return nil, err
	}

	result := &FolderResult{}
	for _, path := range files {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		article, chunks, err := r.processor.ProcessArticleFile(path)
		if err != nil {
			slog.Warn("skipping unreadable document", "file", filepath.Base(path), "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
			continue
		}

		if existing[article.Title] {
			result.FilesSkipped++
			continue
		}

		if err := r.store.AddArticle(ctx, article, chunks); err != nil {
			slog.Warn("failed to store article", "title", article.Title, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
			continue
		}

		existing[article.Title] = true
		result.ArticlesAdded++
		result.ChunksAdded += len(chunks)
	}

	slog.Info("folder ingestion complete", "dir", dir,
		"added", result.ArticlesAdded, "chunks", result.ChunksAdded,
		"skipped", result.FilesSkipped, "errors", len(result.Errors))
	return result, nil
}

// collectDocuments lists supported document files directly inside dir.
func collectDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".txt", ".pdf", ".docx":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}
