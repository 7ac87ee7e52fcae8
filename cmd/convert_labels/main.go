package main

import (
	"context"
	"flag"
	"log"
	"strconv"

	"condition-ner/cmd"
	"condition-ner/internal/jobs"
	"condition-ner/internal/labelstudio"
	"condition-ner/internal/split"
)

// exportFromProject reads the labeled tasks straight from the configured
// Label Studio project instead of an export file.
const exportFromProject = "ls"

func percentage(arg string) int {
	v, err := strconv.Atoi(arg)
	if err != nil {
		log.Fatalf("invalid percentage '%s': %v", arg, err)
	}
	return v
}

func main() {
	flag.Int64("seed", 0, "shuffle seed, defaults to SPLIT_SEED")
	cmd.LoadEnvFile()
	args := cmd.Args(7, "convert_labels [flags] <export|ls> <train%> <dev%> <test%> <train_file> <dev_file> <test_file>")

	cfg := cmd.LoadConfig()
	env, release := cmd.NewEnv(cfg)
	defer release()
	ledger := cmd.NewLedger(cfg)

	ctx := context.Background()

	var export labelstudio.ExportReader
	if args[0] == exportFromProject {
		if !cfg.LabelStudioProject() {
			log.Fatalf("LS_URL and LS_PROJECT_ID must be set to read labels from Label Studio")
		}
		client := labelstudio.NewClient(cfg.LabelStudioURL, cfg.LabelStudioAPIKey)
		export = labelstudio.NewAPIExportReader(client, cfg.LabelStudioProjectID)
	} else {
		data, err := env.Storage.ReadLocation(ctx, args[0])
		if err != nil {
			log.Fatalf("error reading export: %v", err)
		}
		export = labelstudio.NewExportReader(data)
	}

	splitSeed := cmd.SeedFlag(flag.CommandLine, "seed", cfg.SplitSeed)

	params := jobs.ConvertLabelsParams{
		Export:  export,
		DataKey: cfg.DataKey,
		Split: split.Percentages{
			Train: percentage(args[1]),
			Dev:   percentage(args[2]),
			Test:  percentage(args[3]),
		},
		Seed:      splitSeed,
		TrainFile: args[4],
		DevFile:   args[5],
		TestFile:  args[6],
	}

	_, err := jobs.Record(ctx, ledger, jobs.ConvertLabelsJob, splitSeed, args, func() (jobs.ConvertLabelsStats, error) {
		return jobs.ConvertLabels(ctx, env, params)
	})
	if err != nil {
		log.Fatalf("error converting labels: %v", err)
	}
}
