package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"condition-ner/internal/config"
	"condition-ner/internal/database"
	"condition-ner/internal/jobs"
	"condition-ner/internal/nlp"
	"condition-ner/internal/patterns"
	"condition-ner/internal/storage"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

// Args returns the positional arguments, exiting with usage when fewer than
// min are given.
func Args(min int, usage string) []string {
	if flag.NArg() < min {
		fmt.Fprintf(os.Stderr, "usage: %s\n", usage)
		flag.PrintDefaults()
		os.Exit(1)
	}
	return flag.Args()
}

// SeedFlag returns the value of the named flag when it was passed on the
// command line, and fallback otherwise. An explicit 0 is kept.
func SeedFlag(fs *flag.FlagSet, name string, fallback int64) int64 {
	seed := fallback
	fs.Visit(func(f *flag.Flag) {
		if f.Name != name {
			return
		}
		if getter, ok := f.Value.(flag.Getter); ok {
			if v, ok := getter.Get().(int64); ok {
				seed = v
			}
		}
	})
	return seed
}

func LoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}
	return cfg
}

func newProgressBar(total int, description string) nlp.Progress {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// NewEnv loads the configured annotator and builds the shared job
// environment. The returned release func frees the annotator.
func NewEnv(cfg *config.Config) (*jobs.Env, func()) {
	annotator, err := nlp.LoadAnnotator(nlp.AnnotatorType(cfg.Annotator), cfg.AnnotatorOptions())
	if err != nil {
		log.Fatalf("error loading annotator: %v", err)
	}

	env := &jobs.Env{
		Annotator:   annotator,
		Storage:     storage.NewResolver(cfg.S3ProviderConfig()),
		Concurrency: cfg.AnnotatorConcurrency,
		Progress:    newProgressBar,
		Out:         os.Stdout,
	}
	return env, annotator.Release
}

// NewLedger opens the run ledger if RUN_DB is set, otherwise runs are not
// recorded.
func NewLedger(cfg *config.Config) *jobs.Ledger {
	if cfg.RunDB == "" {
		return nil
	}
	db, err := database.NewDatabase(cfg.RunDB)
	if err != nil {
		log.Fatalf("error opening run database: %v", err)
	}
	return jobs.NewLedger(db, cfg.Annotator)
}

// LoadRules reads a rule set from a local path or s3 location, nil selects
// the job's builtin rules.
func LoadRules(ctx context.Context, env *jobs.Env, location string) *patterns.RuleSet {
	if location == "" {
		return nil
	}
	data, err := env.Storage.ReadLocation(ctx, location)
	if err != nil {
		log.Fatalf("error reading rules: %v", err)
	}
	rules, err := patterns.ReadRuleSet(bytes.NewReader(data))
	if err != nil {
		log.Fatalf("error loading rules from %s: %v", location, err)
	}
	return rules
}
