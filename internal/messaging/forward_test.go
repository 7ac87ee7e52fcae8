package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"condition-ner/internal/corpus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	batches [][]corpus.CandidateTask
	err     error
}

func (s *recordingSink) Name() string {
	return "recording"
}

func (s *recordingSink) Send(ctx context.Context, tasks []corpus.CandidateTask) error {
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, tasks)
	return nil
}

func taskStates(tasks ...*inMemoryTask) []string {
	states := make([]string, len(tasks))
	for i, task := range tasks {
		states[i] = task.state
	}
	return states
}

func TestForwardBatchesTasks(t *testing.T) {
	queue := NewInMemoryQueue(10)
	ctx := context.Background()

	extra := corpus.CandidateTask{"reddit": "Does anyone else get hives?"}
	require.NoError(t, NewQueueSink(queue).Send(ctx, append(append([]corpus.CandidateTask{}, testTasks...), extra)))
	malformed := queue.publishRaw([]byte("not json"))
	queue.Close()

	sink := &recordingSink{}
	stats, err := Forward(ctx, queue, sink, ForwardOptions{BatchSize: 2})
	require.NoError(t, err)

	assert.Equal(t, ForwardStats{Forwarded: 3, Rejected: 1, Batches: 2}, stats)
	assert.Equal(t, [][]corpus.CandidateTask{testTasks, {extra}}, sink.batches)
	assert.Equal(t, []string{"rejected"}, taskStates(malformed))
}

func TestForwardNacksFailedBatch(t *testing.T) {
	queue := NewInMemoryQueue(10)
	first := queue.publishRaw([]byte(`{"data": {"reddit": "My asthma is acting up"}}`))
	second := queue.publishRaw([]byte(`{"data": {"reddit": "Chronic migraine again"}}`))
	queue.Close()

	failure := errors.New("label studio unavailable")
	stats, err := Forward(context.Background(), queue, &recordingSink{err: failure}, ForwardOptions{BatchSize: 5})
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 0, stats.Forwarded)
	assert.Equal(t, []string{"nacked", "nacked"}, taskStates(first, second))
}

func TestForwardAcksDeliveredBatch(t *testing.T) {
	queue := NewInMemoryQueue(10)
	task := queue.publishRaw([]byte(`{"data": {"reddit": "My asthma is acting up"}}`))
	queue.Close()

	_, err := Forward(context.Background(), queue, &recordingSink{}, ForwardOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"acked"}, taskStates(task))
}

func TestForwardStopsWhenIdle(t *testing.T) {
	queue := NewInMemoryQueue(10)
	defer queue.Close()
	require.NoError(t, NewQueueSink(queue).Send(context.Background(), testTasks))

	sink := &recordingSink{}
	stats, err := Forward(context.Background(), queue, sink, ForwardOptions{
		BatchSize:   10,
		BatchWait:   10 * time.Millisecond,
		IdleTimeout: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Forwarded)
	assert.Equal(t, [][]corpus.CandidateTask{testTasks}, sink.batches)
}

func TestForwardStopsOnCancel(t *testing.T) {
	queue := NewInMemoryQueue(0)
	defer queue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Forward(ctx, queue, &recordingSink{}, ForwardOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
