package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphaelgruber/newsrag/internal/db"
	"github.com/raphaelgruber/newsrag/internal/metrics"
	"github.com/raphaelgruber/newsrag/internal/models"
	"github.com/raphaelgruber/newsrag/internal/parser"
	"github.com/raphaelgruber/newsrag/internal/service"
	"github.com/raphaelgruber/newsrag/internal/session"
	"github.com/raphaelgruber/newsrag/internal/store"
)

// fakeBackend is an in-memory store.Backend good enough for ingestion and
// catalog listing tests.
type fakeBackend struct {
	articles map[string]models.Article
	chunks   []models.ArticleChunk
	wiped    bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{articles: make(map[string]models.Article)}
}

func (b *fakeBackend) QueryUpsertArticle(_ context.Context, article models.Article, _ []float32) error {
	b.articles[article.Title] = article
	return nil
}

func (b *fakeBackend) QueryGetArticle(_ context.Context, title string) (*models.Article, error) {
	a, ok := b.articles[title]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (b *fakeBackend) QueryAllArticles(_ context.Context) ([]models.Article, error) {
	out := make([]models.Article, 0, len(b.articles))
	for _, a := range b.articles {
		out = append(out, a)
	}
	return out, nil
}

func (b *fakeBackend) QueryNearestArticle(_ context.Context, _ []float32) (*models.Article, error) {
	return nil, nil
}

func (b *fakeBackend) QueryUpsertChunks(_ context.Context, chunks []models.ArticleChunk, _ [][]float32) error {
	b.chunks = append(b.chunks, chunks...)
	return nil
}

func (b *fakeBackend) QuerySearchChunks(_ context.Context, _ []float32, _ *string, _ int) ([]db.ChunkHit, error) {
	return nil, nil
}

func (b *fakeBackend) QueryCountArticles(_ context.Context) (int, error) {
	return len(b.articles), nil
}

func (b *fakeBackend) WipeData(_ context.Context) error {
	b.wiped = true
	b.articles = make(map[string]models.Article)
	b.chunks = nil
	return nil
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

// fakeGenerator records what it was asked and returns a canned answer.
type fakeGenerator struct {
	lastQuery   string
	lastHistory string
	answer      string
	sources     []models.Source
	err         error
}

func (g *fakeGenerator) Generate(_ context.Context, query string, history string) (string, []models.Source, error) {
	g.lastQuery = query
	g.lastHistory = history
	return g.answer, g.sources, g.err
}

func newRAG(t *testing.T, backend *fakeBackend, gen *fakeGenerator) *service.RAG {
	t.Helper()
	st := store.New(backend, fakeEmbedder{}, 5)
	proc := parser.NewProcessor(800, 100)
	return service.New(proc, st, gen, session.NewManager(2), metrics.NewCollector())
}

func writeArticle(t *testing.T, dir, name, title, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "Title: " + title + "\n\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestQueryWrapsPromptAndRecordsSession(t *testing.T) {
	gen := &fakeGenerator{answer: "Budget cuts were announced.", sources: []models.Source{{Text: "Article: Budget", Index: 1}}}
	rag := newRAG(t, newFakeBackend(), gen)

	sessionID := rag.Sessions().CreateSession()
	answer, sources, err := rag.Query(context.Background(), "What happened with the budget?", sessionID)
	require.NoError(t, err)

	assert.Equal(t, "Budget cuts were announced.", answer)
	assert.Len(t, sources, 1)
	assert.Equal(t, "Answer this question about news articles: What happened with the budget?", gen.lastQuery)
	assert.Empty(t, gen.lastHistory)

	// Second query in the same session sees the first exchange.
	_, _, err = rag.Query(context.Background(), "And schools?", sessionID)
	require.NoError(t, err)
	assert.Contains(t, gen.lastHistory, "User: What happened with the budget?")
	assert.Contains(t, gen.lastHistory, "Assistant: Budget cuts were announced.")
}

func TestQueryWithoutSessionSkipsHistory(t *testing.T) {
	gen := &fakeGenerator{answer: "ok"}
	rag := newRAG(t, newFakeBackend(), gen)

	_, _, err := rag.Query(context.Background(), "anything", "")
	require.NoError(t, err)
	assert.Empty(t, gen.lastHistory)
}

func TestQueryPropagatesGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model unavailable")}
	rag := newRAG(t, newFakeBackend(), gen)

	sessionID := rag.Sessions().CreateSession()
	_, _, err := rag.Query(context.Background(), "anything", sessionID)
	require.Error(t, err)
	// Failed queries leave no history behind.
	assert.Empty(t, rag.Sessions().History(sessionID))
}

func TestAddArticleDocument(t *testing.T) {
	backend := newFakeBackend()
	rag := newRAG(t, backend, &fakeGenerator{})
	dir := t.TempDir()
	path := writeArticle(t, dir, "mayor.txt", "Mayor Resigns", "The mayor resigned on Tuesday after the vote.")

	article, chunkCount, err := rag.AddArticleDocument(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Mayor Resigns", article.Title)
	assert.Equal(t, 1, chunkCount)
	assert.Contains(t, backend.articles, "Mayor Resigns")
	require.Len(t, backend.chunks, 1)
	assert.Equal(t, "Article 'Mayor Resigns': The mayor resigned on Tuesday after the vote.", backend.chunks[0].Content)
}

func TestAddArticlesFolderSkipsExistingTitles(t *testing.T) {
	backend := newFakeBackend()
	rag := newRAG(t, backend, &fakeGenerator{})
	dir := t.TempDir()
	writeArticle(t, dir, "one.txt", "First Story", "Something happened downtown.")
	writeArticle(t, dir, "two.txt", "Second Story", "Something else happened uptown.")

	result, err := rag.AddArticlesFolder(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ArticlesAdded)
	assert.Equal(t, 0, result.FilesSkipped)

	// A second run adds nothing.
	result, err = rag.AddArticlesFolder(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ArticlesAdded)
	assert.Equal(t, 2, result.FilesSkipped)
	assert.Len(t, backend.articles, 2)
}

func TestAddArticlesFolderClearExisting(t *testing.T) {
	backend := newFakeBackend()
	rag := newRAG(t, backend, &fakeGenerator{})
	dir := t.TempDir()
	writeArticle(t, dir, "one.txt", "First Story", "Body text here.")

	_, err := rag.AddArticlesFolder(context.Background(), dir, false)
	require.NoError(t, err)

	result, err := rag.AddArticlesFolder(context.Background(), dir, true)
	require.NoError(t, err)
	assert.True(t, backend.wiped)
	assert.Equal(t, 1, result.ArticlesAdded, "cleared catalog should re-add the article")
}

func TestAddArticlesFolderIgnoresUnsupportedFiles(t *testing.T) {
	backend := newFakeBackend()
	rag := newRAG(t, backend, &fakeGenerator{})
	dir := t.TempDir()
	writeArticle(t, dir, "story.txt", "Real Story", "Actual article body.")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignore me"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	result, err := rag.AddArticlesFolder(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ArticlesAdded)
	assert.Len(t, backend.articles, 1)
}

func TestGetArticleAnalytics(t *testing.T) {
	backend := newFakeBackend()
	rag := newRAG(t, backend, &fakeGenerator{})
	dir := t.TempDir()
	writeArticle(t, dir, "a.txt", "Alpha", "Alpha body.")
	writeArticle(t, dir, "b.txt", "Beta", "Beta body.")

	_, err := rag.AddArticlesFolder(context.Background(), dir, false)
	require.NoError(t, err)

	stats, err := rag.GetArticleAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalArticles)
	assert.ElementsMatch(t, []string{"Alpha", "Beta"}, stats.ArticleTitles)
}
