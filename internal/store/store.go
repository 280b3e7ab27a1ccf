// Package store provides the article vector store facade. It joins the
// embedding model with the SurrealDB persistence layer and owns fuzzy title
// resolution, so callers only ever deal in titles and query text.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/newsrag/internal/db"
	"github.com/raphaelgruber/newsrag/internal/metrics"
	"github.com/raphaelgruber/newsrag/internal/models"
)

// Backend is the persistence surface the store needs. *db.Client satisfies
// it; tests substitute an in-memory fake.
type Backend interface {
	QueryUpsertArticle(ctx context.Context, article models.Article, embedding []float32) error
	QueryGetArticle(ctx context.Context, title string) (*models.Article, error)
	QueryAllArticles(ctx context.Context) ([]models.Article, error)
	QueryNearestArticle(ctx context.Context, embedding []float32) (*models.Article, error)
	QueryUpsertChunks(ctx context.Context, chunks []models.ArticleChunk, embeddings [][]float32) error
	QuerySearchChunks(ctx context.Context, embedding []float32, articleTitle *string, limit int) ([]db.ChunkHit, error)
	QueryCountArticles(ctx context.Context) (int, error)
	WipeData(ctx context.Context) error
}

// Embedder turns text into vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Store is the article vector store facade.
type Store struct {
	backend    Backend
	embedder   Embedder
	maxResults int
	metrics    *metrics.Collector
}

// New creates a store. maxResults caps chunk search hits per query.
func New(backend Backend, embedder Embedder, maxResults int) *Store {
	return &Store{
		backend:    backend,
		embedder:   embedder,
		maxResults: maxResults,
	}
}

// WithMetrics records embedding and search timings on collector.
func (s *Store) WithMetrics(collector *metrics.Collector) *Store {
	s.metrics = collector
	return s
}

// record logs elapsed time for op since start when a collector is attached.
func (s *Store) record(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordTiming(op, time.Since(start))
	}
}

// AddArticle stores an article's catalog record and its chunks. The catalog
// embedding is computed from the title so later fuzzy lookups can match
// approximate titles. Chunks are embedded in one batch.
func (s *Store) AddArticle(ctx context.Context, article models.Article, chunks []models.ArticleChunk) error {
	embedStart := time.Now()
	titleEmbedding, err := s.embedder.Embed(ctx, article.Title)
	s.record(metrics.OpEmbedding, embedStart)
	if err != nil {
		return fmt.Errorf("embed title: %w", err)
	}
	if err := s.backend.QueryUpsertArticle(ctx, article, titleEmbedding); err != nil {
		return err
	}

	if len(chunks) == 0 {
		slog.Warn("article has no chunks", "title", article.Title)
		return nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	embedStart = time.Now()
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	s.record(metrics.OpEmbedding, embedStart)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}

	if err := s.backend.QueryUpsertChunks(ctx, chunks, embeddings); err != nil {
		return err
	}

	slog.Info("article stored", "title", article.Title, "chunks", len(chunks))
	return nil
}

// ResolveTitle finds the catalog article best matching the given title.
// Exact matches win; otherwise the nearest title embedding is used, so
// partial or slightly misspelled titles still resolve. Returns nil when
// the catalog is empty.
func (s *Store) ResolveTitle(ctx context.Context, title string) (*models.Article, error) {
	exact, err := s.backend.QueryGetArticle(ctx, title)
	if err != nil {
		return nil, err
	}
	if exact != nil {
		return exact, nil
	}

	embedding, err := s.embedder.Embed(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("embed title query: %w", err)
	}

	nearest, err := s.backend.QueryNearestArticle(ctx, embedding)
	if err != nil {
		return nil, err
	}
	if nearest != nil && nearest.Title != title {
		slog.Debug("fuzzy title match", "requested", title, "resolved", nearest.Title)
	}
	return nearest, nil
}

// Search runs a semantic search over article chunks. When articleTitle is
// non-empty it is first resolved against the catalog and the search is
// restricted to that article's chunks.
//
// Failures surface in the result's Err field rather than as a Go error:
// the result is shown to the language model, which can react to "no
// article found" the same way a human reader would. Go errors are
// reserved for the caller's own misuse (nil context and the like never
// happen here, so Search has no error return at all).
func (s *Store) Search(ctx context.Context, query string, articleTitle string) models.SearchResult {
	var titleFilter *string
	if articleTitle != "" {
		resolved, err := s.ResolveTitle(ctx, articleTitle)
		if err != nil {
			slog.Error("title resolution failed", "title", articleTitle, "error", err)
			return models.EmptyResult(fmt.Sprintf("Error searching: %v", err))
		}
		if resolved == nil {
			return models.EmptyResult(fmt.Sprintf("No article found matching '%s'", articleTitle))
		}
		titleFilter = &resolved.Title
	}

	embedStart := time.Now()
	embedding, err := s.embedder.Embed(ctx, query)
	s.record(metrics.OpEmbedding, embedStart)
	if err != nil {
		slog.Error("query embedding failed", "error", err)
		return models.EmptyResult(fmt.Sprintf("Error searching: %v", err))
	}

	searchStart := time.Now()
	hits, err := s.backend.QuerySearchChunks(ctx, embedding, titleFilter, s.maxResults)
	s.record(metrics.OpDBSearch, searchStart)
	if err != nil {
		slog.Error("chunk search failed", "error", err)
		return models.EmptyResult(fmt.Sprintf("Error searching: %v", err))
	}

	result := models.SearchResult{
		Documents: make([]string, 0, len(hits)),
		Metadata:  make([]models.ChunkMeta, 0, len(hits)),
		Distances: make([]float64, 0, len(hits)),
	}
	for _, hit := range hits {
		result.Documents = append(result.Documents, hit.Content)
		result.Metadata = append(result.Metadata, models.ChunkMeta{
			ArticleTitle: hit.ArticleTitle,
			ChunkIndex:   hit.ChunkIndex,
		})
		result.Distances = append(result.Distances, hit.Distance)
	}
	return result
}

// GetArticleLink returns the stored link for an exact title, or nil when
// the article is unknown or has no link.
func (s *Store) GetArticleLink(ctx context.Context, title string) (*string, error) {
	article, err := s.backend.QueryGetArticle(ctx, title)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, nil
	}
	return article.Link, nil
}

// ExistingTitles returns the set of catalog titles, used to skip already
// ingested documents.
func (s *Store) ExistingTitles(ctx context.Context) (map[string]bool, error) {
	articles, err := s.backend.QueryAllArticles(ctx)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]bool, len(articles))
	for _, a := range articles {
		titles[a.Title] = true
	}
	return titles, nil
}

// ArticleTitles returns all catalog titles in catalog order.
func (s *Store) ArticleTitles(ctx context.Context) ([]string, error) {
	articles, err := s.backend.QueryAllArticles(ctx)
	if err != nil {
		return nil, err
	}
	titles := make([]string, len(articles))
	for i, a := range articles {
		titles[i] = a.Title
	}
	return titles, nil
}

// ArticleCount returns the number of articles in the catalog.
func (s *Store) ArticleCount(ctx context.Context) (int, error) {
	return s.backend.QueryCountArticles(ctx)
}

// ClearAll removes every article and chunk.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.backend.WipeData(ctx)
}
