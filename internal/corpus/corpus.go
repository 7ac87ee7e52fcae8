package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"condition-ner/internal/core/types"
)

const DefaultDataKey = "reddit"

// text fields of a raw record, in the order they are read
var textFields = []string{"selftext", "body"}

var (
	ErrSampleTooLarge     = errors.New("sample larger than population")
	ErrNegativeSampleSize = errors.New("sample size must not be negative")
)

// ReadTexts reads a JSON array of raw records and returns their text fields.
// A record contributes its selftext before its body and both when both exist.
func ReadTexts(r io.Reader) ([]string, error) {
	var records []map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("error decoding records: %w", err)
	}

	texts := make([]string, 0, len(records))
	for i, record := range records {
		for _, field := range textFields {
			raw, ok := record[field]
			if !ok {
				continue
			}
			var text string
			if err := json.Unmarshal(raw, &text); err != nil {
				slog.Warn("skipping non-string text field", "record", i, "field", field)
				continue
			}
			texts = append(texts, text)
		}
	}

	return texts, nil
}

// Sample draws n texts without replacement using a generator seeded with seed.
func Sample(texts []string, n int, seed int64) ([]string, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeSampleSize, n)
	}
	if n > len(texts) {
		return nil, fmt.Errorf("%w: requested %d of %d", ErrSampleTooLarge, n, len(texts))
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(texts))

	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = texts[perm[i]]
	}
	return out, nil
}

// Head returns the first n texts, or all of them if there are fewer.
func Head(texts []string, n int) []string {
	return texts[:min(max(n, 0), len(texts))]
}

type CandidateTask map[string]string

// CandidateTasks wraps the text of every doc with at least one entity of
// label as a labeling task under dataKey.
func CandidateTasks(docs []*types.Doc, label, dataKey string) []CandidateTask {
	if dataKey == "" {
		dataKey = DefaultDataKey
	}
	tasks := make([]CandidateTask, 0)
	for _, doc := range docs {
		if len(doc.EntitiesWithLabel(label)) > 0 {
			tasks = append(tasks, CandidateTask{dataKey: doc.Text})
		}
	}
	return tasks
}

func WriteTasks(w io.Writer, tasks []CandidateTask) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(tasks); err != nil {
		return fmt.Errorf("error encoding tasks: %w", err)
	}
	return nil
}
