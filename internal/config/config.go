package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "FEDERATION"

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"one-bucket-everlightos"`
	S3Region    string `envconfig:"S3_REGION" default:"auto"`

	ModelProvider string `envconfig:"MODEL_PROVIDER" default:"ollama"`
	OllamaBaseURL string `envconfig:"OLLAMA_BASE_URL" default:"http://localhost:11434"`
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`

	DefaultModel  string   `envconfig:"DEFAULT_MODEL" default:"llama3.1:8b"`
	MetaModel     string   `envconfig:"META_MODEL" default:"llama3.1:8b"`
	CouncilModels []string `envconfig:"COUNCIL_MODELS" default:"llama3.1:8b,mistral:7b,codellama:7b"`
	CouncilFile   string   `envconfig:"COUNCIL_FILE"`

	Embedder       string `envconfig:"EMBEDDER" default:"model"`
	BulkEmbedder   string `envconfig:"BULK_EMBEDDER" default:"placeholder"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL"`
	// Zero derives the dimensionality from the embedding model.
	EmbeddingDimensions int `envconfig:"EMBEDDING_DIMENSIONS"`

	BulkFolder      string   `envconfig:"BULK_FOLDER" default:"voyagers-chunks"`
	BulkMaxFiles    int      `envconfig:"BULK_MAX_FILES" default:"10"`
	BulkTitlePrefix string   `envconfig:"BULK_TITLE_PREFIX" default:"Voyagers"`
	BulkTags        []string `envconfig:"BULK_TAGS" default:"voyagers,chunks,foundational"`

	MaxBodyBytes int64 `envconfig:"MAX_BODY_BYTES" default:"0"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Secrets are read from SSM Parameter Store under this prefix when set.
	ParamPrefix string `envconfig:"PARAM_PREFIX"`
}

// Council is the optional YAML file overriding the federation models.
type Council struct {
	MetaModel string   `yaml:"meta_model"`
	Models    []string `yaml:"models"`
}

// SecretGetter returns the value of a named secret.
type SecretGetter interface {
	Get(ctx context.Context, name string) (string, error)
}

// Secret names looked up under ParamPrefix.
const (
	SecretOpenAIAPIKey = "openai-api-key"
	SecretS3AccessKey  = "s3-access-key-id"
	SecretS3SecretKey  = "s3-secret-access-key"
	SecretDatabaseURL  = "database-url"
)

// Load reads configuration and checks the required settings.
func Load() (*Config, error) {
	cfg, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	// DATABASE_URL may still arrive from the parameter store.
	if cfg.ParamPrefix == "" {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadEnv reads .env, the environment and the council file without
// validation. Commands that never touch the database use it directly.
func LoadEnv() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.CouncilFile != "" {
		if err := cfg.loadCouncil(cfg.CouncilFile); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// Validate reports missing settings that nothing downstream can default.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("required key %s_DATABASE_URL missing value", envPrefix)
	}
	return nil
}

// ResolveSecrets fills empty secret fields from src and validates the result.
func (c *Config) ResolveSecrets(ctx context.Context, src SecretGetter) error {
	targets := []struct {
		name  string
		field *string
	}{
		{SecretOpenAIAPIKey, &c.OpenAIAPIKey},
		{SecretS3AccessKey, &c.S3AccessKey},
		{SecretS3SecretKey, &c.S3SecretKey},
		{SecretDatabaseURL, &c.DatabaseURL},
	}

	for _, t := range targets {
		if *t.field != "" {
			continue
		}
		v, err := src.Get(ctx, t.name)
		if err != nil {
			return fmt.Errorf("failed to resolve secret %s: %w", t.name, err)
		}
		*t.field = v
	}

	return c.Validate()
}

func (c *Config) loadCouncil(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read council file: %w", err)
	}

	var council Council
	if err := yaml.Unmarshal(data, &council); err != nil {
		return fmt.Errorf("failed to parse council file: %w", err)
	}

	if len(council.Models) > 0 {
		c.CouncilModels = council.Models
	}
	if strings.TrimSpace(council.MetaModel) != "" {
		c.MetaModel = council.MetaModel
	}
	return nil
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}

// BulkLabel is the title prefix for bulk-ingested items, e.g. "Voyagers: ".
func (c *Config) BulkLabel() string {
	if c.BulkTitlePrefix == "" {
		return ""
	}
	return c.BulkTitlePrefix + ": "
}
