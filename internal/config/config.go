package config

import (
	"fmt"
	"log/slog"

	"condition-ner/internal/nlp"
	"condition-ner/internal/storage"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DataKey string `env:"DATA_KEY" envDefault:"reddit"`

	SplitSeed          int64 `env:"SPLIT_SEED" envDefault:"27"`
	SampleSeed         int64 `env:"SAMPLE_SEED" envDefault:"27"`
	SampleSize         int   `env:"SAMPLE_SIZE" envDefault:"300"`
	TrainingSampleSize int   `env:"TRAINING_SAMPLE_SIZE" envDefault:"600"`

	Annotator            string `env:"ANNOTATOR" envDefault:"rule"`
	AnnotatorURL         string `env:"ANNOTATOR_URL"`
	AnnotatorPlugin      string `env:"ANNOTATOR_PLUGIN"`
	HFTokenizerPath      string `env:"HF_TOKENIZER_PATH"`
	OnnxModelDir         string `env:"ONNX_MODEL_DIR"`
	OnnxRuntimeDylib     string `env:"ONNX_RUNTIME_DYLIB"`
	AnnotatorConcurrency int    `env:"ANNOTATOR_CONCURRENCY" envDefault:"4"`

	S3EndpointURL     string `env:"S3_ENDPOINT_URL"`
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	S3Region          string `env:"AWS_REGION" envDefault:"us-east-1"`

	LabelStudioURL       string `env:"LS_URL"`
	LabelStudioAPIKey    string `env:"LS_API_KEY"`
	LabelStudioProjectID int    `env:"LS_PROJECT_ID"`

	RabbitMQURL string `env:"RABBITMQ_URL"`
	TaskQueue   string `env:"TASK_QUEUE" envDefault:"label_tasks"`

	RunDB string `env:"RUN_DB"`

	VizPort int `env:"VIZ_PORT" envDefault:"5000"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch nlp.AnnotatorType(c.Annotator) {
	case nlp.RuleBased, nlp.HFTokenizer:
	case nlp.HTTPService:
		if c.AnnotatorURL == "" {
			return fmt.Errorf("ANNOTATOR_URL must be set when ANNOTATOR=%s", c.Annotator)
		}
	case nlp.Plugin:
		if c.AnnotatorPlugin == "" {
			return fmt.Errorf("ANNOTATOR_PLUGIN must be set when ANNOTATOR=%s", c.Annotator)
		}
	case nlp.Onnx:
		if c.OnnxModelDir == "" {
			return fmt.Errorf("ONNX_MODEL_DIR must be set when ANNOTATOR=%s", c.Annotator)
		}
	default:
		return fmt.Errorf("unsupported annotator type: %s", c.Annotator)
	}

	if c.AnnotatorConcurrency <= 0 {
		return fmt.Errorf("ANNOTATOR_CONCURRENCY must be positive, got %d", c.AnnotatorConcurrency)
	}

	if c.LabelStudioURL != "" && c.LabelStudioAPIKey == "" {
		return fmt.Errorf("LS_API_KEY must be set when LS_URL is set")
	}

	if c.S3EndpointURL != "" && (c.S3AccessKeyID == "" || c.S3SecretAccessKey == "") {
		slog.Warn("S3_ENDPOINT_URL is set, but AWS_ACCESS_KEY_ID or AWS_SECRET_ACCESS_KEY are missing")
	}
	return nil
}

func (c *Config) AnnotatorOptions() nlp.AnnotatorOptions {
	return nlp.AnnotatorOptions{
		URL:           c.AnnotatorURL,
		PluginCommand: c.AnnotatorPlugin,
		TokenizerPath: c.HFTokenizerPath,
		OnnxModelDir:  c.OnnxModelDir,
		OnnxRuntime:   c.OnnxRuntimeDylib,
	}
}

func (c *Config) S3ProviderConfig() *storage.S3ProviderConfig {
	return &storage.S3ProviderConfig{
		S3EndpointURL:     c.S3EndpointURL,
		S3AccessKeyID:     c.S3AccessKeyID,
		S3SecretAccessKey: c.S3SecretAccessKey,
		S3Region:          c.S3Region,
	}
}

// LabelStudioProject reports whether tasks can be imported to and exported
// from a Label Studio project.
func (c *Config) LabelStudioProject() bool {
	return c.LabelStudioURL != "" && c.LabelStudioProjectID > 0
}
