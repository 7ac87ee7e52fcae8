package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"condition-ner/internal/corpus"
)

const (
	DefaultForwardBatchSize = 50
	DefaultForwardBatchWait = 2 * time.Second
)

type ForwardOptions struct {
	BatchSize int
	// BatchWait flushes a partial batch when no further task arrived for
	// this long.
	BatchWait time.Duration
	// IdleTimeout stops forwarding once no task arrived for this long. Zero
	// forwards until the context is done or the receiver is closed.
	IdleTimeout time.Duration
}

type ForwardStats struct {
	Forwarded int
	Rejected  int
	Batches   int
}

// Forward drains tasks published by a QueueSink and delivers them to sink in
// batches. A batch is acked once the sink accepted it and nacked otherwise.
// Messages that are not task payloads are rejected.
func Forward(ctx context.Context, receiver Reciever, sink Sink, opts ForwardOptions) (ForwardStats, error) {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultForwardBatchSize
	}
	batchWait := opts.BatchWait
	if batchWait <= 0 {
		batchWait = DefaultForwardBatchWait
	}

	var (
		stats   ForwardStats
		pending []Task
		batch   []corpus.CandidateTask
	)

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		defer func() {
			pending, batch = nil, nil
		}()

		if err := sink.Send(ctx, batch); err != nil {
			for _, task := range pending {
				if nackErr := task.Nack(); nackErr != nil {
					slog.Error("error nacking task", "error", nackErr)
				}
			}
			return fmt.Errorf("error sending tasks to %s: %w", sink.Name(), err)
		}
		for _, task := range pending {
			if err := task.Ack(); err != nil {
				slog.Error("error acking task", "error", err)
			}
		}
		stats.Forwarded += len(batch)
		stats.Batches++
		slog.Info("forwarded tasks", "sink", sink.Name(), "count", len(batch))
		return nil
	}

	var idle, wait <-chan time.Time
	resetIdle := func() {
		if opts.IdleTimeout > 0 {
			idle = time.After(opts.IdleTimeout)
		}
	}
	resetIdle()

	for {
		select {
		case task, ok := <-receiver.Tasks():
			if !ok {
				return stats, flush()
			}
			resetIdle()

			var payload TaskPayload
			if err := json.Unmarshal(task.Payload(), &payload); err != nil || len(payload.Data) == 0 {
				slog.Warn("rejecting malformed task", "queue", task.Type(), "error", err)
				if err := task.Reject(); err != nil {
					slog.Error("error rejecting task", "error", err)
				}
				stats.Rejected++
				continue
			}
			pending = append(pending, task)
			batch = append(batch, payload.Data)
			wait = time.After(batchWait)
			if len(batch) >= batchSize {
				wait = nil
				if err := flush(); err != nil {
					return stats, err
				}
			}
		case <-wait:
			wait = nil
			if err := flush(); err != nil {
				return stats, err
			}
		case <-idle:
			slog.Info("no tasks received, stopping", "idle_timeout", opts.IdleTimeout)
			return stats, flush()
		case <-ctx.Done():
			// tasks not yet delivered stay unacked and are redelivered
			return stats, ctx.Err()
		}
	}
}
