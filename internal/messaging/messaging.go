package messaging

import (
	"context"
	"time"

	"condition-ner/internal/corpus"
)

const (
	DefaultTaskQueue = "label_tasks"
	RetryDelay       = 5 * time.Second
	MaxConnectRetry  = 5
)

// Task is a message received from a queue.
type Task interface {
	Type() string

	Payload() []byte

	Ack() error

	Nack() error

	Reject() error
}

// TaskPayload is the body of one published candidate task.
type TaskPayload struct {
	Data corpus.CandidateTask `json:"data"`
}

type Publisher interface {
	PublishTask(ctx context.Context, payload TaskPayload) error

	Close()
}

type Reciever interface {
	Tasks() <-chan Task

	Close()
}
