// Package db provides SurrealDB query functions for article operations.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/raphaelgruber/newsrag/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// ChunkHit is one chunk returned from a vector search, with its KNN distance.
type ChunkHit struct {
	Content      string  `json:"content"`
	ArticleTitle string  `json:"article_title"`
	ChunkIndex   int     `json:"chunk_index"`
	Distance     float64 `json:"distance"`
}

// ChunkRecordID derives the deterministic record ID for a chunk.
// Spaces become underscores and colons are dropped so titles stay
// readable as record IDs.
func ChunkRecordID(articleTitle string, index int) string {
	slug := strings.NewReplacer(" ", "_", ":", "").Replace(articleTitle)
	return fmt.Sprintf("%s_%d", slug, index)
}

// QueryUpsertArticle creates or replaces a catalog record keyed by title.
// The embedding is the title embedding used for fuzzy title resolution.
func (c *Client) QueryUpsertArticle(ctx context.Context, article models.Article, embedding []float32) error {
	people := article.People
	if people == nil {
		people = []models.Person{}
	}

	sql := `
		UPSERT type::record("article_catalog", $id) SET
			title = $title,
			link = $link,
			people = $people,
			embedding = $embedding
	`

	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"id":        article.Title,
		"title":     article.Title,
		"link":      article.Link,
		"people":    people,
		"embedding": embedding,
	})
	if err != nil {
		return fmt.Errorf("upsert article: %w", wrapQueryError(err))
	}
	return nil
}

// QueryGetArticle retrieves an article by exact title.
// Returns nil if not found.
func (c *Client) QueryGetArticle(ctx context.Context, title string) (*models.Article, error) {
	results, err := surrealdb.Query[[]models.Article](ctx, c.db, `
		SELECT title, link, people FROM type::record("article_catalog", $id)
	`, map[string]any{"id": title})

	if err != nil {
		return nil, fmt.Errorf("get article: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// QueryAllArticles returns every catalog record ordered by title.
// Embeddings are not loaded.
func (c *Client) QueryAllArticles(ctx context.Context) ([]models.Article, error) {
	results, err := surrealdb.Query[[]models.Article](ctx, c.db, `
		SELECT title, link, people FROM article_catalog ORDER BY title
	`, nil)
	if err != nil {
		return nil, fmt.Errorf("all articles: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.Article{}, nil
	}
	return (*results)[0].Result, nil
}

// QueryNearestArticle returns the catalog record whose title embedding is
// closest to the given embedding, or nil when the catalog is empty.
// HNSW with ef=40 for better recall.
func (c *Client) QueryNearestArticle(ctx context.Context, embedding []float32) (*models.Article, error) {
	results, err := surrealdb.Query[[]models.Article](ctx, c.db, `
		SELECT title, link, people FROM article_catalog WHERE embedding <|1,40|> $emb
	`, map[string]any{"emb": embedding})
	if err != nil {
		return nil, fmt.Errorf("nearest article: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, nil
	}
	return &(*results)[0].Result[0], nil
}

// QueryUpsertChunks stores chunks with their embeddings. Record IDs are
// derived from title and index, so re-adding an article overwrites its
// earlier chunks instead of duplicating them.
func (c *Client) QueryUpsertChunks(ctx context.Context, chunks []models.ArticleChunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("upsert chunks: %d chunks but %d embeddings", len(chunks), len(embeddings))
	}

	sql := `
		UPSERT type::record("article_chunk", $id) SET
			content = $content,
			article_title = $article_title,
			chunk_index = $chunk_index,
			embedding = $embedding
	`

	for i, chunk := range chunks {
		_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
			"id":            ChunkRecordID(chunk.ArticleTitle, chunk.ChunkIndex),
			"content":       chunk.Content,
			"article_title": chunk.ArticleTitle,
			"chunk_index":   chunk.ChunkIndex,
			"embedding":     embeddings[i],
		})
		if err != nil {
			return fmt.Errorf("upsert chunk %d: %w", i, wrapQueryError(err))
		}
	}
	return nil
}

// QuerySearchChunks performs a KNN search over chunk embeddings.
// If articleTitle is non-nil, only chunks of that article are considered.
func (c *Client) QuerySearchChunks(
	ctx context.Context,
	embedding []float32,
	articleTitle *string,
	limit int,
) ([]ChunkHit, error) {
	titleClause := ""
	vars := map[string]any{"emb": embedding}
	if articleTitle != nil {
		titleClause = "AND article_title = $title"
		vars["title"] = *articleTitle
	}

	// KNN limit must be a literal, so use fmt.Sprintf
	sql := fmt.Sprintf(`
		SELECT content, article_title, chunk_index, vector::distance::knn() AS distance
		FROM article_chunk
		WHERE embedding <|%d,40|> $emb %s
	`, limit, titleClause)

	results, err := surrealdb.Query[[]ChunkHit](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("search chunks: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []ChunkHit{}, nil
	}
	return (*results)[0].Result, nil
}

// QueryCountArticles returns the number of catalog records.
func (c *Client) QueryCountArticles(ctx context.Context) (int, error) {
	results, err := surrealdb.Query[[]struct {
		Count int `json:"count"`
	}](ctx, c.db, `SELECT count() AS count FROM article_catalog GROUP ALL`, nil)
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].Count, nil
}

// QueryDeleteArticle removes an article and its chunks.
// Returns ErrNotFound when the title is not in the catalog.
func (c *Client) QueryDeleteArticle(ctx context.Context, title string) error {
	existing, err := c.QueryGetArticle(ctx, title)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("delete article %q: %w", title, ErrNotFound)
	}

	sql := `
		DELETE article_chunk WHERE article_title = $title;
		DELETE type::record("article_catalog", $id);
	`
	_, err = surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"title": title,
		"id":    title,
	})
	if err != nil {
		return fmt.Errorf("delete article: %w", wrapQueryError(err))
	}
	return nil
}
