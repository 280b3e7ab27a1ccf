// Package tools implements the search tools exposed to the language model
// during answer generation, plus the registry that dispatches tool calls.
package tools

import (
	"context"

	"github.com/raphaelgruber/newsrag/internal/models"
	"github.com/tmc/langchaingo/llms"
)

// Result is what a tool hands back to the generation loop: the text the
// model sees, plus the sources backing that text. Sources travel with the
// result instead of through shared state, so concurrent queries cannot
// cross-contaminate each other.
type Result struct {
	Text    string
	Sources []models.Source
}

// Tool is a callable exposed to the language model. Execute returns a
// model-visible Result for domain outcomes (including "nothing found");
// the error return is reserved for infrastructure failures that should
// abort the generation loop.
type Tool interface {
	Definition() llms.Tool
	Execute(ctx context.Context, args map[string]any) (Result, error)
}

// stringArg reads an optional string argument, treating absent and empty
// the same way.
func stringArg(args map[string]any, key string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
