package messaging

import (
	"context"
	"encoding/json"
	"sync"
)

type inMemoryTask struct {
	queue   string
	payload []byte
	state   string
}

func (t *inMemoryTask) Type() string {
	return t.queue
}

func (t *inMemoryTask) Payload() []byte {
	return t.payload
}

func (t *inMemoryTask) Ack() error {
	t.state = "acked"
	return nil
}

func (t *inMemoryTask) Nack() error {
	t.state = "nacked"
	return nil
}

func (t *inMemoryTask) Reject() error {
	t.state = "rejected"
	return nil
}

// InMemoryQueue is both a Publisher and a Reciever.
type InMemoryQueue struct {
	tasks chan Task
	once  sync.Once
}

func NewInMemoryQueue(capacity int) *InMemoryQueue {
	return &InMemoryQueue{
		tasks: make(chan Task, capacity),
	}
}

func (q *InMemoryQueue) PublishTask(ctx context.Context, payload TaskPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	select {
	case q.tasks <- &inMemoryTask{queue: DefaultTaskQueue, payload: data}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *InMemoryQueue) Tasks() <-chan Task {
	return q.tasks
}

func (q *InMemoryQueue) Close() {
	q.once.Do(func() { close(q.tasks) })
}

func (q *InMemoryQueue) publishRaw(data []byte) *inMemoryTask {
	task := &inMemoryTask{queue: DefaultTaskQueue, payload: data}
	q.tasks <- task
	return task
}
