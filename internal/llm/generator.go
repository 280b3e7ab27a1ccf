package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/raphaelgruber/newsrag/internal/metrics"
	"github.com/raphaelgruber/newsrag/internal/models"
	"github.com/raphaelgruber/newsrag/internal/tools"
	"github.com/tmc/langchaingo/llms"
)

// maxToolRounds caps sequential tool-enabled model calls per query. A model
// still requesting tools in the final round gets exactly one more call with
// tools disabled, never a third tool round.
const maxToolRounds = 2

const systemPrompt = `You are an AI assistant specialized in news articles, with access to two search tools for news information.

Available Tools:
1. **search_news_content**: Searches for specific content inside the articles
2. **search_people_in_articles**: Looks up people mentioned in the articles

Tool Usage:
- **search_news_content**: Use for questions about content, facts, events, or specific news details
- **search_people_in_articles**: Use for questions about people, positions, roles, or individuals mentioned
  - **Without parameters**: For general questions about people (e.g. "most relevant people", "all the people")
    - Returns ALL people ordered by appearance frequency, most mentioned first
  - To list the people of one article: provide article_title
  - To find the articles about a person: provide person_name
  - To find people by position: provide role

**MULTI-SEARCH CAPABILITY**:
- You may perform up to 2 sequential searches when needed
- After receiving results the tools remain available
- Use multiple searches to combine information from different sources, to dig into aspects surfaced by the first results, or to look up people and then the articles about them
- Do NOT search redundantly for the same information
- If the first results are sufficient, answer directly

- Synthesize the search results into precise, fact-based answers
- If a search returns nothing, say so clearly without offering alternatives

Response Protocol:
- **General knowledge questions**: Answer from your existing knowledge without searching
- **Specific news questions**: Search first, then answer
- **Questions about people**: Use search_people_in_articles for structured information
- **No meta-commentary**: Give direct answers only, without reasoning process, search explanations, or question-type analysis, and never say "based on the search results"

Citation Format:
- When you use information from the search results, include numbered citations [1], [2], etc.
- Place citations at the end of the sentences or facts they support
- Citation numbers correspond to the sources shown below your answer

When answering about people, include full name, role, organization when available, relevant notes, and the link to the article mentioning them, structured clearly.

All answers must be brief, focused, informative, and written in accessible language, with examples when they aid understanding. Provide only the direct answer to what was asked.`

// roundInstructions adapt the system prompt per tool round.
var roundInstructions = map[int]string{
	1: "\n\n**[Round 1/2]** Use tools if you need specific information. You can request more searches after seeing results.",
	2: "\n\n**[Round 2/2 - FINAL]** Last opportunity to use tools. If you already have enough information, give your final answer.",
}

// ContentGenerator is the model surface the loop needs. *Model satisfies it;
// tests substitute a scripted fake.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// ToolRunner dispatches tool calls. *tools.Registry satisfies it.
type ToolRunner interface {
	Definitions() []llms.Tool
	Invoke(ctx context.Context, name string, args map[string]any) (tools.Result, error)
}

// Generator runs the bounded tool-calling loop against the model.
type Generator struct {
	model    ContentGenerator
	registry ToolRunner
	metrics  *metrics.Collector
}

// NewGenerator creates a generator. registry may be nil, in which case tool
// requests fall through to plain text extraction.
func NewGenerator(model ContentGenerator, registry ToolRunner) *Generator {
	return &Generator{model: model, registry: registry}
}

// WithMetrics records model call timings on collector.
func (g *Generator) WithMetrics(collector *metrics.Collector) *Generator {
	g.metrics = collector
	return g
}

// callModel invokes the model and records the call duration.
func (g *Generator) callModel(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	start := time.Now()
	response, err := g.model.GenerateContent(ctx, messages, opts...)
	if g.metrics != nil {
		g.metrics.RecordTiming(metrics.OpLLMGenerate, time.Since(start))
	}
	return response, err
}

// Generate answers a query with up to two tool rounds. history is the
// formatted prior conversation, empty for a fresh session. Sources gathered
// from tool executions are returned alongside the answer, renumbered
// sequentially; they never live in shared state, so concurrent queries
// cannot see each other's citations.
func (g *Generator) Generate(ctx context.Context, query string, history string) (string, []models.Source, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, query),
	}

	var defs []llms.Tool
	if g.registry != nil {
		defs = g.registry.Definitions()
	}

	var sources []models.Source

	for round := 1; round <= maxToolRounds; round++ {
		slog.Debug("tool round", "round", round, "max", maxToolRounds)

		opts := []llms.CallOption{}
		if len(defs) > 0 {
			opts = append(opts, llms.WithTools(defs))
		}

		response, err := g.callModel(ctx, g.withSystem(messages, history, round), opts...)
		if err != nil {
			return "", nil, err
		}
		choice, err := firstChoice(response)
		if err != nil {
			return "", nil, err
		}

		if len(choice.ToolCalls) == 0 {
			slog.Debug("direct answer, no tool use", "round", round)
			return extractText(choice), renumber(sources), nil
		}
		if g.registry == nil {
			slog.Warn("tool use requested but no registry configured")
			return extractText(choice), renumber(sources), nil
		}

		messages = append(messages, assistantMessage(choice))

		toolMessage := llms.MessageContent{Role: llms.ChatMessageTypeTool}
		for _, call := range choice.ToolCalls {
			result, err := g.runTool(ctx, call)
			if err != nil {
				return "", nil, err
			}
			sources = append(sources, result.Sources...)
			toolMessage.Parts = append(toolMessage.Parts, llms.ToolCallResponse{
				ToolCallID: call.ID,
				Name:       call.FunctionCall.Name,
				Content:    result.Text,
			})
		}
		messages = append(messages, toolMessage)
	}

	// Round budget exhausted with tools still requested: one forced call
	// with tools disabled produces the final answer.
	slog.Debug("max tool rounds reached, forcing final answer")
	response, err := g.callModel(ctx, g.withSystem(messages, history, maxToolRounds))
	if err != nil {
		return "", nil, err
	}
	choice, err := firstChoice(response)
	if err != nil {
		return "", nil, err
	}
	return extractText(choice), renumber(sources), nil
}

// withSystem prepends the round-adapted system prompt without mutating the
// running message list.
func (g *Generator) withSystem(messages []llms.MessageContent, history string, round int) []llms.MessageContent {
	prompt := systemPrompt
	if instruction, ok := roundInstructions[round]; ok {
		prompt += instruction
	}
	if history != "" {
		prompt = fmt.Sprintf("%s\n\nPrevious conversation:\n%s", prompt, history)
	}

	out := make([]llms.MessageContent, 0, len(messages)+1)
	out = append(out, llms.TextParts(llms.ChatMessageTypeSystem, prompt))
	return append(out, messages...)
}

func (g *Generator) runTool(ctx context.Context, call llms.ToolCall) (tools.Result, error) {
	args := map[string]any{}
	if call.FunctionCall.Arguments != "" {
		if err := json.Unmarshal([]byte(call.FunctionCall.Arguments), &args); err != nil {
			return tools.Result{}, fmt.Errorf("decode arguments for %s: %w", call.FunctionCall.Name, err)
		}
	}

	slog.Info("executing tool", "tool", call.FunctionCall.Name)
	return g.registry.Invoke(ctx, call.FunctionCall.Name, args)
}

func firstChoice(response *llms.ContentResponse) (*llms.ContentChoice, error) {
	if response == nil || len(response.Choices) == 0 {
		return nil, fmt.Errorf("no response choices")
	}
	return response.Choices[0], nil
}

// assistantMessage folds the model's tool-requesting turn back into the
// conversation.
func assistantMessage(choice *llms.ContentChoice) llms.MessageContent {
	message := llms.MessageContent{Role: llms.ChatMessageTypeAI}
	if choice.Content != "" {
		message.Parts = append(message.Parts, llms.TextContent{Text: choice.Content})
	}
	for _, call := range choice.ToolCalls {
		message.Parts = append(message.Parts, call)
	}
	return message
}

func extractText(choice *llms.ContentChoice) string {
	if choice.Content == "" {
		slog.Warn("no text content in model response")
	}
	return choice.Content
}

// renumber rewrites source indices into one sequential series across all
// tool invocations of the query.
func renumber(sources []models.Source) []models.Source {
	out := make([]models.Source, len(sources))
	for i, source := range sources {
		source.Index = i + 1
		out[i] = source
	}
	return out
}
