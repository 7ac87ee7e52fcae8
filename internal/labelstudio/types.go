package labelstudio

import (
	"fmt"
)

type ResultValue struct {
	Start  int      `json:"start"`
	End    int      `json:"end"`
	Text   string   `json:"text"`
	Labels []string `json:"labels"`
}

type Result struct {
	ID       string      `json:"id,omitempty"`
	FromName string      `json:"from_name,omitempty"`
	ToName   string      `json:"to_name,omitempty"`
	Type     string      `json:"type,omitempty"`
	Value    ResultValue `json:"value"`
}

type Completion struct {
	ID           int      `json:"id,omitempty"`
	Result       []Result `json:"result"`
	WasCancelled *bool    `json:"was_cancelled,omitempty"`
}

func (c Completion) Cancelled() bool {
	return c.WasCancelled != nil && *c.WasCancelled
}

// Task is one exported labeling task. Older exports list human labels under
// "completions", newer ones under "annotations".
type Task struct {
	ID          int            `json:"id,omitempty"`
	Data        map[string]any `json:"data"`
	Completions []Completion   `json:"completions,omitempty"`
	Annotations []Completion   `json:"annotations,omitempty"`
}

func (t Task) Submissions() []Completion {
	if len(t.Completions) > 0 {
		return t.Completions
	}
	return t.Annotations
}

func (t Task) Text(dataKey string) (string, error) {
	raw, ok := t.Data[dataKey]
	if !ok {
		return "", fmt.Errorf("task %d has no data field '%s'", t.ID, dataKey)
	}
	text, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("task %d data field '%s' is not a string", t.ID, dataKey)
	}
	return text, nil
}

// ValidCompletion returns the task's completion if it has exactly one and
// that completion was not cancelled.
func ValidCompletion(task Task) (Completion, bool) {
	subs := task.Submissions()
	if len(subs) != 1 || subs[0].Cancelled() {
		return Completion{}, false
	}
	return subs[0], true
}

// Span is a character-offset annotation with its first label.
type Span struct {
	Start int
	End   int
	Label string
	Text  string
}

// Spans returns the labeled spans of a completion. Results without labels
// are skipped.
func (c Completion) Spans() []Span {
	spans := make([]Span, 0, len(c.Result))
	for _, r := range c.Result {
		if len(r.Value.Labels) == 0 {
			continue
		}
		spans = append(spans, Span{Start: r.Value.Start, End: r.Value.End, Label: r.Value.Labels[0], Text: r.Value.Text})
	}
	return spans
}
