package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
)

// Registry holds the available tools and dispatches calls by name.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

// Register adds a tool. Registration order is preserved in Definitions.
func (r *Registry) Register(tool Tool) error {
	name := tool.Definition().Function.Name
	if name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %q already registered", name)
	}
	r.order = append(r.order, name)
	r.tools[name] = tool
	return nil
}

// Definitions returns the tool definitions in registration order, ready to
// pass to the model.
func (r *Registry) Definitions() []llms.Tool {
	defs := make([]llms.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Invoke executes the named tool. An unknown name is reported to the model
// in-band rather than failing the loop; models occasionally hallucinate
// tool names and should get the chance to recover.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (Result, error) {
	tool, ok := r.tools[name]
	if !ok {
		slog.Warn("unknown tool requested", "tool", name)
		return Result{Text: fmt.Sprintf("Tool '%s' not found", name)}, nil
	}

	slog.Debug("invoking tool", "tool", name)
	result, err := tool.Execute(ctx, args)
	if err != nil {
		return Result{}, fmt.Errorf("tool %s: %w", name, err)
	}
	return result, nil
}
