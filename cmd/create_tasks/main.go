package main

import (
	"context"
	"flag"
	"log"

	"condition-ner/cmd"
	"condition-ner/internal/jobs"
	"condition-ner/internal/labelstudio"
	"condition-ner/internal/messaging"
)

func main() {
	rulesPath := flag.String("rules", "", "rule file replacing the builtin task generator rules")
	cmd.LoadEnvFile()
	args := cmd.Args(2, "create_tasks [flags] <input> <output>")

	cfg := cmd.LoadConfig()
	env, release := cmd.NewEnv(cfg)
	defer release()
	ledger := cmd.NewLedger(cfg)

	ctx := context.Background()

	// with a broker, import_tasks drains the queue into Label Studio
	sinks := []messaging.Sink{messaging.NewFileSink(env.Storage, args[1])}
	switch {
	case cfg.RabbitMQURL != "":
		publisher, err := messaging.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.TaskQueue)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
		sinks = append(sinks, messaging.NewQueueSink(publisher))
	case cfg.LabelStudioProject():
		client := labelstudio.NewClient(cfg.LabelStudioURL, cfg.LabelStudioAPIKey)
		sinks = append(sinks, messaging.NewLabelStudioSink(client, cfg.LabelStudioProjectID))
	}

	params := jobs.CreateTasksParams{
		Input:   args[0],
		DataKey: cfg.DataKey,
		Rules:   cmd.LoadRules(ctx, env, *rulesPath),
		Sinks:   sinks,
	}

	_, err := jobs.Record(ctx, ledger, jobs.CreateTasksJob, 0, args, func() (jobs.CreateTasksStats, error) {
		return jobs.CreateTasks(ctx, env, params)
	})
	if err != nil {
		log.Fatalf("error creating tasks: %v", err)
	}
}
