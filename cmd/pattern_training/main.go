package main

import (
	"context"
	"flag"
	"log"

	"condition-ner/cmd"
	"condition-ner/internal/jobs"
)

func main() {
	rulesPath := flag.String("rules", "", "rule file replacing the builtin pattern training rules")
	cmd.LoadEnvFile()
	args := cmd.Args(1, "pattern_training [flags] <input> [output]")

	cfg := cmd.LoadConfig()
	env, release := cmd.NewEnv(cfg)
	defer release()
	ledger := cmd.NewLedger(cfg)

	ctx := context.Background()

	params := jobs.PatternTrainingParams{
		Input:      args[0],
		Output:     jobs.DefaultPatternTrainingOutput,
		SampleSize: cfg.TrainingSampleSize,
		Rules:      cmd.LoadRules(ctx, env, *rulesPath),
	}
	if len(args) > 1 {
		params.Output = args[1]
	}

	_, err := jobs.Record(ctx, ledger, jobs.PatternTrainingJob, 0, args, func() (jobs.PatternTrainingStats, error) {
		return jobs.PatternTraining(ctx, env, params)
	})
	if err != nil {
		log.Fatalf("error generating pattern training data: %v", err)
	}
}
