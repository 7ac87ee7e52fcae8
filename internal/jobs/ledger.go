package jobs

import (
	"context"
	"log/slog"

	"condition-ner/internal/database"

	"gorm.io/gorm"
)

const (
	CreateTasksJob     = "create_tasks"
	ConvertLabelsJob   = "convert_labels"
	PatternTrainingJob = "pattern_training"
	ExplorePatternsJob = "explore_patterns"
	ImportTasksJob     = "import_tasks"
)

// Ledger records every job run with its arguments, stats and errors. A nil
// Ledger records nothing.
type Ledger struct {
	db        *gorm.DB
	annotator string
}

func NewLedger(db *gorm.DB, annotator string) *Ledger {
	return &Ledger{db: db, annotator: annotator}
}

func (l *Ledger) DB() *gorm.DB {
	return l.db
}

// Record runs fn and stores its outcome. Failing to record a run is logged
// and never fails the job itself.
func Record[S any](ctx context.Context, ledger *Ledger, job string, seed int64, args any, fn func() (S, error)) (S, error) {
	if ledger == nil || ledger.db == nil {
		return fn()
	}

	runId, err := database.StartRun(ctx, ledger.db, job, ledger.annotator, seed, args)
	if err != nil {
		slog.Warn("unable to record run", "job", job, "error", err)
		return fn()
	}

	stats, err := fn()
	if err != nil {
		if ferr := database.FailRun(ctx, ledger.db, runId, err); ferr != nil {
			slog.Warn("unable to record failed run", "run_id", runId, "error", ferr)
		}
		return stats, err
	}

	if cerr := database.CompleteRun(ctx, ledger.db, runId, stats); cerr != nil {
		slog.Warn("unable to record completed run", "run_id", runId, "error", cerr)
	}
	slog.Info("recorded run", "job", job, "run_id", runId)
	return stats, nil
}
