package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"docintel-documents"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// TikaURL points at an Apache Tika server for formats without a
	// native extractor. Optional; without it those uploads fail fast.
	TikaURL string `envconfig:"TIKA_URL"`

	// OCRLanguages are the Tesseract language packs to load.
	OCRLanguages []string `envconfig:"OCR_LANGUAGES" default:"eng,spa"`

	// APIKeys is the static set of accepted bearer tokens. Empty means
	// the API runs unauthenticated (development only).
	APIKeys []string `envconfig:"API_KEYS"`

	WorkerPollInterval time.Duration `envconfig:"WORKER_POLL_INTERVAL" default:"10s"`
	WorkerBatchSize    int           `envconfig:"WORKER_BATCH_SIZE" default:"5"`
	MaxRetries         int           `envconfig:"MAX_RETRIES" default:"3"`

	// MaxUploadBytes caps the request body on document uploads.
	MaxUploadBytes int64 `envconfig:"MAX_UPLOAD_BYTES" default:"52428800"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("DOCINTEL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasTika() bool {
	return c.TikaURL != ""
}
