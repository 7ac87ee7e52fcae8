package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"condition-ner/internal/corpus"
	"condition-ner/internal/labelstudio"
	"condition-ner/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTasks = []corpus.CandidateTask{
	{"reddit": "My asthma is acting up"},
	{"reddit": "Anyone else with chronic migraine?"},
}

func TestQueueSink(t *testing.T) {
	queue := NewInMemoryQueue(len(testTasks))
	defer queue.Close()

	require.NoError(t, NewQueueSink(queue).Send(context.Background(), testTasks))

	for _, expected := range testTasks {
		task := <-queue.Tasks()
		assert.Equal(t, DefaultTaskQueue, task.Type())

		var payload TaskPayload
		require.NoError(t, json.Unmarshal(task.Payload(), &payload))
		assert.Equal(t, expected, payload.Data)
		require.NoError(t, task.Ack())
	}
}

func TestInMemoryQueueRespectsContext(t *testing.T) {
	queue := NewInMemoryQueue(0)
	defer queue.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := queue.PublishTask(ctx, TaskPayload{Data: testTasks[0]})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	sink := NewFileSink(storage.NewResolver(nil), path)

	require.NoError(t, sink.Send(context.Background(), testTasks))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var written []corpus.CandidateTask
	require.NoError(t, json.Unmarshal(data, &written))
	assert.Equal(t, testTasks, written)
}

func TestSendAllStopsAtFirstFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	queue := NewInMemoryQueue(len(testTasks))
	defer queue.Close()

	sinks := []Sink{
		NewLabelStudioSink(labelstudio.NewClient(server.URL, "key"), 3),
		NewQueueSink(queue),
	}

	err := SendAll(context.Background(), sinks, testTasks)
	assert.ErrorContains(t, err, "label studio project 3")
	assert.Len(t, queue.Tasks(), 0)
}

func TestLabelStudioSink(t *testing.T) {
	var received []corpus.CandidateTask
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/3/import", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"task_count": 2}`)) //nolint:errcheck
	}))
	defer server.Close()

	sink := NewLabelStudioSink(labelstudio.NewClient(server.URL, "key"), 3)
	require.NoError(t, sink.Send(context.Background(), testTasks))
	assert.Equal(t, testTasks, received)

	// nothing to import means no request
	received = nil
	require.NoError(t, sink.Send(context.Background(), nil))
	assert.Nil(t, received)
}
