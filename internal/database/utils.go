package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func StartRun(ctx context.Context, db *gorm.DB, job, annotator string, seed int64, args any) (uuid.UUID, error) {
	rawArgs, err := json.Marshal(args)
	if err != nil {
		return uuid.Nil, fmt.Errorf("could not marshal run args: %w", err)
	}

	run := Run{
		Id:           uuid.New(),
		Job:          job,
		Status:       JobRunning,
		Seed:         seed,
		Annotator:    annotator,
		Args:         rawArgs,
		CreationTime: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&run).Error; err != nil {
		slog.Error("error creating run", "job", job, "error", err)
		return uuid.Nil, fmt.Errorf("error creating run: %w", err)
	}
	return run.Id, nil
}

func updateRunStatus(ctx context.Context, db *gorm.DB, runId uuid.UUID, status string, extra map[string]any) error {
	updates := map[string]any{"status": status}
	if status == JobCompleted || status == JobFailed {
		updates["completion_time"] = time.Now().UTC()
	}
	for k, v := range extra {
		updates[k] = v
	}

	if err := db.WithContext(ctx).Model(&Run{Id: runId}).Updates(updates).Error; err != nil {
		slog.Error("error updating run status", "run_id", runId, "status", status, "error", err)
		return err
	}
	return nil
}

func CompleteRun(ctx context.Context, db *gorm.DB, runId uuid.UUID, stats any) error {
	rawStats, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("could not marshal run stats: %w", err)
	}
	return updateRunStatus(ctx, db, runId, JobCompleted, map[string]any{"stats": rawStats})
}

func FailRun(ctx context.Context, db *gorm.DB, runId uuid.UUID, cause error) error {
	SaveRunError(ctx, db, runId, cause.Error())
	return updateRunStatus(ctx, db, runId, JobFailed, nil)
}

func SaveRunError(ctx context.Context, db *gorm.DB, runId uuid.UUID, errorMessage string) {
	runError := RunError{
		RunId:     runId,
		ErrorId:   uuid.New(),
		Error:     errorMessage,
		Timestamp: time.Now().UTC(),
	}

	if err := db.WithContext(ctx).Create(&runError).Error; err != nil {
		slog.Error("error saving run error", "run_id", runId, "error", err)
	}
}

// ListRuns returns the most recent runs first, optionally only those of job.
func ListRuns(ctx context.Context, db *gorm.DB, job string, limit int) ([]Run, error) {
	query := db.WithContext(ctx).Preload("Errors").Order("creation_time DESC")
	if job != "" {
		query = query.Where("job = ?", job)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var runs []Run
	if err := query.Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("error listing runs: %w", err)
	}
	return runs, nil
}
