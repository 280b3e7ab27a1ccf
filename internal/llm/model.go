package llm

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/raphaelgruber/newsrag/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/bedrock"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generation defaults. Temperature 0 keeps tool selection deterministic.
const (
	defaultTemperature = 0.0
	defaultMaxTokens   = 800
)

// Model wraps langchaingo LLM for chat generation with tool calling.
type Model struct {
	llm       llms.Model
	modelName string
}

// NewModel creates an LLM model based on configuration.
func NewModel(ctx context.Context, cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		model, err = anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	case config.ProviderBedrock:
		awsCfg, awsErr := awsconfig.LoadDefaultConfig(ctx)
		if awsErr != nil {
			return nil, fmt.Errorf("load aws config: %w", awsErr)
		}
		client := bedrockruntime.NewFromConfig(awsCfg)
		model, err = bedrock.New(
			bedrock.WithClient(client),
			bedrock.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create bedrock model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{
		llm:       model,
		modelName: cfg.LLMModel,
	}, nil
}

// GenerateContent forwards to the underlying model with the generation
// defaults applied first, so callers can still override per call.
func (m *Model) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	opts := append([]llms.CallOption{
		llms.WithTemperature(defaultTemperature),
		llms.WithMaxTokens(defaultMaxTokens),
	}, options...)

	response, err := m.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	return response, nil
}

// Generate generates text from a single prompt without tools.
func (m *Model) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, m.llm, prompt,
		llms.WithTemperature(defaultTemperature),
		llms.WithMaxTokens(defaultMaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return response, nil
}

// Model returns the LLM model name.
func (m *Model) Model() string {
	return m.modelName
}
