package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"condition-ner/internal/corpus"
	"condition-ner/internal/messaging"
	"condition-ner/internal/patterns"
)

type CreateTasksParams struct {
	Input   string
	DataKey string
	// Rules defaults to the builtin task generator rules.
	Rules *patterns.RuleSet
	Sinks []messaging.Sink
}

type CreateTasksStats struct {
	Docs  int
	Tasks int
}

// CreateTasks annotates every input text, applies the condition rules and
// sends the texts with at least one match to the sinks as labeling tasks.
func CreateTasks(ctx context.Context, env *Env, params CreateTasksParams) (CreateTasksStats, error) {
	rules, err := ruleSetOrBuiltin(params.Rules, patterns.TaskGeneratorRules)
	if err != nil {
		return CreateTasksStats{}, err
	}
	matcher, err := rules.Matcher(env.compileOptions(), nil)
	if err != nil {
		return CreateTasksStats{}, fmt.Errorf("error compiling task rules: %w", err)
	}
	ruler := patterns.NewEntityRuler(matcher, true)

	texts, err := env.readTexts(ctx, params.Input)
	if err != nil {
		return CreateTasksStats{}, err
	}
	slog.Info("read input texts", "input", params.Input, "texts", len(texts))

	docs, err := env.annotate(ctx, texts, "annotating")
	if err != nil {
		return CreateTasksStats{}, err
	}
	for _, doc := range docs {
		ruler.Apply(doc)
		conditionsFound.WithLabelValues(CreateTasksJob).Add(float64(len(doc.EntitiesWithLabel(ConditionLabel))))
	}

	tasks := corpus.CandidateTasks(docs, ConditionLabel, params.DataKey)
	if err := messaging.SendAll(ctx, params.Sinks, tasks); err != nil {
		return CreateTasksStats{}, err
	}

	stats := CreateTasksStats{Docs: len(texts), Tasks: len(tasks)}
	fmt.Fprintf(env.out(), "%d tasks created from %d docs.\n", stats.Tasks, stats.Docs)
	return stats, nil
}
