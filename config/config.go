// Package config reads the runtime configuration from the environment,
// the only configuration source in the Lambda images.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// TableName is the DynamoDB table holding query records.
	TableName string `env:"TABLE_NAME"`
	// WorkerLambdaName, when set, makes the API hand queries to the
	// worker Lambda instead of answering synchronously.
	WorkerLambdaName string `env:"WORKER_LAMBDA_NAME"`
	// ChromaPath is the directory holding the vector store snapshot.
	ChromaPath string `env:"CHROMA_PATH" envDefault:"data/chroma"`
	// ImageRuntime marks an image-based runtime whose filesystem is
	// read-only outside /tmp.
	ImageRuntime     bool   `env:"IS_USING_IMAGE_RUNTIME"`
	ContentSeparator string `env:"CONTENT_SEPARATOR" envDefault:"document"`
	ModelID          string `env:"BEDROCK_MODEL_ID" envDefault:"anthropic.claude-3-haiku-20240307-v1:0"`
	Port             int    `env:"PORT" envDefault:"8000"`
	// PostgresDSN enables the optional pgvector mirror during ingestion.
	PostgresDSN string `env:"PG_DSN"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
