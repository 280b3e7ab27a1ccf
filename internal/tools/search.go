package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/raphaelgruber/newsrag/internal/models"
	"github.com/tmc/langchaingo/llms"
)

// ContentSearcher is the store surface the content search tool needs.
type ContentSearcher interface {
	Search(ctx context.Context, query, articleTitle string) models.SearchResult
	GetArticleLink(ctx context.Context, title string) (*string, error)
}

// ContentSearch searches article chunks semantically and reports which
// articles the answer text came from.
type ContentSearch struct {
	store ContentSearcher
}

// NewContentSearch creates the content search tool.
func NewContentSearch(store ContentSearcher) *ContentSearch {
	return &ContentSearch{store: store}
}

// Definition returns the tool schema exposed to the model.
func (t *ContentSearch) Definition() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        "search_news_content",
			Description: "Search news article content with semantic title matching. Use this for questions about topics, events, or information covered by the articles.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "What to look for in the news content",
					},
					"article_title": map[string]any{
						"type":        "string",
						"description": "Optional article title to restrict the search to (partial matches work)",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

// Execute runs the search. Search failures come back as model-visible text;
// only a missing required argument is an Execute error.
func (t *ContentSearch) Execute(ctx context.Context, args map[string]any) (Result, error) {
	query := stringArg(args, "query")
	if query == "" {
		return Result{}, fmt.Errorf("search_news_content: missing required argument 'query'")
	}
	articleTitle := stringArg(args, "article_title")

	result := t.store.Search(ctx, query, articleTitle)

	if result.Err != "" {
		return Result{Text: result.Err}, nil
	}

	if result.IsEmpty() {
		filterInfo := ""
		if articleTitle != "" {
			filterInfo = fmt.Sprintf(" in article '%s'", articleTitle)
		}
		return Result{Text: fmt.Sprintf("No relevant content found%s.", filterInfo)}, nil
	}

	return t.formatResults(ctx, result), nil
}

// formatResults renders each hit as a context header plus chunk text for
// the model, and builds the parallel source list for the UI.
func (t *ContentSearch) formatResults(ctx context.Context, result models.SearchResult) Result {
	formatted := make([]string, 0, len(result.Documents))
	sources := make([]models.Source, 0, len(result.Documents))

	for i, doc := range result.Documents {
		articleTitle := "unknown"
		if i < len(result.Metadata) {
			articleTitle = result.Metadata[i].ArticleTitle
		}

		link, err := t.store.GetArticleLink(ctx, articleTitle)
		if err != nil {
			slog.Warn("failed to resolve article link", "title", articleTitle, "error", err)
		}

		sources = append(sources, models.Source{
			Text:  fmt.Sprintf("Article: %s", articleTitle),
			URL:   link,
			Index: i + 1,
		})
		formatted = append(formatted, fmt.Sprintf("[Article: %s]\n%s", articleTitle, doc))
	}

	return Result{
		Text:    strings.Join(formatted, "\n\n"),
		Sources: sources,
	}
}
