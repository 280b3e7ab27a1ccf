// Package service orchestrates the retrieval-augmented answering pipeline:
// document ingestion, tool-driven generation and session history.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/raphaelgruber/newsrag/internal/llm"
	"github.com/raphaelgruber/newsrag/internal/metrics"
	"github.com/raphaelgruber/newsrag/internal/models"
	"github.com/raphaelgruber/newsrag/internal/parser"
	"github.com/raphaelgruber/newsrag/internal/session"
	"github.com/raphaelgruber/newsrag/internal/store"
	"github.com/raphaelgruber/newsrag/internal/tools"
)

// queryTemplate wraps the raw user question before it reaches the model.
const queryTemplate = "Answer this question about news articles: %s"

// AnswerGenerator produces an answer and its sources for a query.
type AnswerGenerator interface {
	Generate(ctx context.Context, query string, history string) (string, []models.Source, error)
}

// RAG wires the article store, the tool-calling generator and session
// history into the question answering flow.
type RAG struct {
	processor *parser.Processor
	store     *store.Store
	generator AnswerGenerator
	sessions  *session.Manager
	metrics   *metrics.Collector
}

// New creates a RAG service from already-wired components.
func New(processor *parser.Processor, st *store.Store, generator AnswerGenerator, sessions *session.Manager, collector *metrics.Collector) *RAG {
	return &RAG{
		processor: processor,
		store:     st,
		generator: generator,
		sessions:  sessions,
		metrics:   collector,
	}
}

// NewFromModel builds the tool registry and generator around the store,
// then assembles the service. This is the wiring used by the CLI and server.
func NewFromModel(processor *parser.Processor, st *store.Store, model llm.ContentGenerator, sessions *session.Manager, collector *metrics.Collector) (*RAG, error) {
	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewContentSearch(st)); err != nil {
		return nil, fmt.Errorf("register content search: %w", err)
	}
	if err := registry.Register(tools.NewPeopleSearch(st)); err != nil {
		return nil, fmt.Errorf("register people search: %w", err)
	}
	generator := llm.NewGenerator(model, registry).WithMetrics(collector)
	return New(processor, st.WithMetrics(collector), generator, sessions, collector), nil
}

// Sessions exposes the session manager for callers that create sessions.
func (r *RAG) Sessions() *session.Manager {
	return r.sessions
}

// Query answers a question about the article catalog. When sessionID is
// non-empty the session's history is passed to the model and the exchange
// is recorded afterwards. Sources are per-query values, so concurrent
// queries never see each other's citations.
func (r *RAG) Query(ctx context.Context, text string, sessionID string) (string, []models.Source, error) {
	prompt := fmt.Sprintf(queryTemplate, text)

	history := ""
	if sessionID != "" {
		history = r.sessions.History(sessionID)
	}

	start := time.Now()
	answer, sources, err := r.generator.Generate(ctx, prompt, history)
	if r.metrics != nil {
		r.metrics.RecordTiming(metrics.OpQuery, time.Since(start))
	}
	if err != nil {
		return "", nil, fmt.Errorf("generate answer: %w", err)
	}

	if sessionID != "" {
		r.sessions.AddExchange(sessionID, text, answer)
	}

	return answer, sources, nil
}

// GetArticleAnalytics reports catalog-level statistics.
func (r *RAG) GetArticleAnalytics(ctx context.Context) (models.ArticleStats, error) {
	count, err := r.store.ArticleCount(ctx)
	if err != nil {
		return models.ArticleStats{}, fmt.Errorf("count articles: %w", err)
	}
	titles, err := r.store.ArticleTitles(ctx)
	if err != nil {
		return models.ArticleStats{}, fmt.Errorf("list articles: %w", err)
	}
	return models.ArticleStats{
		TotalArticles: count,
		ArticleTitles: titles,
	}, nil
}
