package messaging

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"condition-ner/internal/corpus"
	"condition-ner/internal/labelstudio"
	"condition-ner/internal/storage"
)

// Sink receives the candidate tasks produced by the task generator.
type Sink interface {
	Name() string

	Send(ctx context.Context, tasks []corpus.CandidateTask) error
}

type FileSink struct {
	resolver *storage.Resolver
	location string
}

func NewFileSink(resolver *storage.Resolver, location string) *FileSink {
	return &FileSink{resolver: resolver, location: location}
}

func (s *FileSink) Name() string {
	return "file " + s.location
}

func (s *FileSink) Send(ctx context.Context, tasks []corpus.CandidateTask) error {
	return s.resolver.WriteLocationWith(ctx, s.location, func(w io.Writer) error {
		return corpus.WriteTasks(w, tasks)
	})
}

type LabelStudioSink struct {
	client    *labelstudio.Client
	projectID int
}

func NewLabelStudioSink(client *labelstudio.Client, projectID int) *LabelStudioSink {
	return &LabelStudioSink{client: client, projectID: projectID}
}

func (s *LabelStudioSink) Name() string {
	return fmt.Sprintf("label studio project %d", s.projectID)
}

func (s *LabelStudioSink) Send(ctx context.Context, tasks []corpus.CandidateTask) error {
	if len(tasks) == 0 {
		return nil
	}
	created, err := s.client.ImportTasks(ctx, s.projectID, tasks)
	if err != nil {
		return err
	}
	if created != len(tasks) {
		slog.Warn("label studio created a different number of tasks", "project_id", s.projectID, "sent", len(tasks), "created", created)
	}
	return nil
}

type QueueSink struct {
	publisher Publisher
}

func NewQueueSink(publisher Publisher) *QueueSink {
	return &QueueSink{publisher: publisher}
}

func (s *QueueSink) Name() string {
	return "queue"
}

func (s *QueueSink) Send(ctx context.Context, tasks []corpus.CandidateTask) error {
	for i, task := range tasks {
		if err := s.publisher.PublishTask(ctx, TaskPayload{Data: task}); err != nil {
			return fmt.Errorf("error publishing task %d: %w", i, err)
		}
	}
	return nil
}

// SendAll delivers tasks to every sink, stopping at the first failure.
func SendAll(ctx context.Context, sinks []Sink, tasks []corpus.CandidateTask) error {
	for _, sink := range sinks {
		if err := sink.Send(ctx, tasks); err != nil {
			return fmt.Errorf("error sending tasks to %s: %w", sink.Name(), err)
		}
		slog.Info("sent tasks", "sink", sink.Name(), "count", len(tasks))
	}
	return nil
}
