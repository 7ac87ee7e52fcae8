package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"condition-ner/cmd"
	"condition-ner/internal/jobs"
	"condition-ner/internal/labelstudio"
	"condition-ner/internal/messaging"
	"condition-ner/internal/storage"
)

func main() {
	batchSize := flag.Int("batch", messaging.DefaultForwardBatchSize, "tasks per import request")
	idle := flag.Duration("idle", 0, "stop after no task arrived for this long, 0 runs until interrupted")
	cmd.LoadEnvFile()
	args := cmd.Args(0, "import_tasks [flags] [output]")

	cfg := cmd.LoadConfig()
	if cfg.RabbitMQURL == "" {
		log.Fatalf("RABBITMQ_URL must be set to import queued tasks")
	}

	var sink messaging.Sink
	switch {
	case len(args) > 0:
		sink = messaging.NewFileSink(storage.NewResolver(cfg.S3ProviderConfig()), args[0])
	case cfg.LabelStudioProject():
		client := labelstudio.NewClient(cfg.LabelStudioURL, cfg.LabelStudioAPIKey)
		sink = messaging.NewLabelStudioSink(client, cfg.LabelStudioProjectID)
	default:
		log.Fatalf("either an output location or LS_URL and LS_PROJECT_ID must be given")
	}

	receiver, err := messaging.NewRabbitMQReceiver(cfg.RabbitMQURL, cfg.TaskQueue, *batchSize)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer receiver.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := messaging.ForwardOptions{BatchSize: *batchSize, IdleTimeout: *idle}
	stats, err := jobs.Record(ctx, cmd.NewLedger(cfg), jobs.ImportTasksJob, 0, args, func() (messaging.ForwardStats, error) {
		stats, err := messaging.Forward(ctx, receiver, sink, opts)
		if ctx.Err() != nil {
			return stats, nil
		}
		return stats, err
	})
	if err != nil {
		log.Fatalf("error importing tasks: %v", err)
	}
	log.Printf("imported %d tasks in %d batches to %s, rejected %d", stats.Forwarded, stats.Batches, sink.Name(), stats.Rejected)
}
