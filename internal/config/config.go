// Package config loads newsrag configuration from the environment with an
// optional YAML overlay file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider identifies an LLM or embedding backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderBedrock   Provider = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// LLM generation
	LLMProvider     Provider
	LLMModel        string
	AnthropicAPIKey string
	OpenAIAPIKey    string

	// Embeddings
	EmbedProvider  Provider
	EmbedModel     string
	EmbedDimension int
	OllamaHost     string

	// Document processing
	ChunkSize    int
	ChunkOverlap int
	MaxResults   int
	MaxHistory   int
	DocsDir      string

	// HTTP server
	Port      string
	StaticDir string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig mirrors Config for the optional YAML overlay. Only fields set in
// the file override the environment/defaults.
type fileConfig struct {
	SurrealDBURL       string `yaml:"surrealdb_url"`
	SurrealDBNamespace string `yaml:"surrealdb_namespace"`
	SurrealDBDatabase  string `yaml:"surrealdb_database"`
	SurrealDBUser      string `yaml:"surrealdb_user"`
	SurrealDBPass      string `yaml:"surrealdb_pass"`

	LLMProvider string `yaml:"llm_provider"`
	LLMModel    string `yaml:"llm_model"`

	EmbedProvider  string `yaml:"embed_provider"`
	EmbedModel     string `yaml:"embed_model"`
	EmbedDimension int    `yaml:"embed_dimension"`
	OllamaHost     string `yaml:"ollama_host"`

	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	MaxResults   int    `yaml:"max_results"`
	MaxHistory   int    `yaml:"max_history"`
	DocsDir      string `yaml:"docs_dir"`

	Port      string `yaml:"port"`
	StaticDir string `yaml:"static_dir"`
}

// Load reads configuration from environment variables, then applies the YAML
// file pointed to by NEWSRAG_CONFIG when present.
func Load() (Config, error) {
	cfg := Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "newsrag"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "articles"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     Provider(getEnv("NEWSRAG_LLM_PROVIDER", string(ProviderAnthropic))),
		LLMModel:        getEnv("NEWSRAG_LLM_MODEL", "claude-sonnet-4-20250514"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),

		EmbedProvider:  Provider(getEnv("NEWSRAG_EMBED_PROVIDER", string(ProviderOllama))),
		EmbedModel:     getEnv("NEWSRAG_EMBED_MODEL", "all-minilm:l6-v2"),
		EmbedDimension: getEnvInt("NEWSRAG_EMBED_DIMENSION", 384),
		OllamaHost:     getEnv("OLLAMA_HOST", "http://localhost:11434"),

		ChunkSize:    getEnvInt("NEWSRAG_CHUNK_SIZE", 800),
		ChunkOverlap: getEnvInt("NEWSRAG_CHUNK_OVERLAP", 100),
		MaxResults:   getEnvInt("NEWSRAG_MAX_RESULTS", 5),
		MaxHistory:   getEnvInt("NEWSRAG_MAX_HISTORY", 2),
		DocsDir:      getEnv("NEWSRAG_DOCS_DIR", "./docs"),

		Port:      getEnv("NEWSRAG_PORT", "8000"),
		StaticDir: getEnv("NEWSRAG_STATIC_DIR", "./frontend"),

		LogFile:  getEnv("NEWSRAG_LOG_FILE", "/tmp/newsrag.log"),
		LogLevel: parseLogLevel(getEnv("NEWSRAG_LOG_LEVEL", "INFO")),
	}

	if path := os.Getenv("NEWSRAG_CONFIG"); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.SurrealDBURL, fc.SurrealDBURL)
	setString(&cfg.SurrealDBNamespace, fc.SurrealDBNamespace)
	setString(&cfg.SurrealDBDatabase, fc.SurrealDBDatabase)
	setString(&cfg.SurrealDBUser, fc.SurrealDBUser)
	setString(&cfg.SurrealDBPass, fc.SurrealDBPass)
	if fc.LLMProvider != "" {
		cfg.LLMProvider = Provider(fc.LLMProvider)
	}
	setString(&cfg.LLMModel, fc.LLMModel)
	if fc.EmbedProvider != "" {
		cfg.EmbedProvider = Provider(fc.EmbedProvider)
	}
	setString(&cfg.EmbedModel, fc.EmbedModel)
	if fc.EmbedDimension > 0 {
		cfg.EmbedDimension = fc.EmbedDimension
	}
	setString(&cfg.OllamaHost, fc.OllamaHost)
	if fc.ChunkSize > 0 {
		cfg.ChunkSize = fc.ChunkSize
	}
	if fc.ChunkOverlap > 0 {
		cfg.ChunkOverlap = fc.ChunkOverlap
	}
	if fc.MaxResults > 0 {
		cfg.MaxResults = fc.MaxResults
	}
	if fc.MaxHistory > 0 {
		cfg.MaxHistory = fc.MaxHistory
	}
	setString(&cfg.DocsDir, fc.DocsDir)
	setString(&cfg.Port, fc.Port)
	setString(&cfg.StaticDir, fc.StaticDir)

	return nil
}

func setString(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", val, "default", defaultVal)
		return defaultVal
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
