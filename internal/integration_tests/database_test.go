//go:build integration

package integrationtests

import (
	"context"
	"errors"
	"testing"
	"time"

	"condition-ner/internal/database"
	"condition-ner/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLedgerOnPostgres(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	db, err := database.NewDatabase(setupPostgresContainer(t, ctx))
	require.NoError(t, err)

	ledger := jobs.NewLedger(db, "rule")

	_, err = jobs.Record(ctx, ledger, jobs.CreateTasksJob, 0, []string{"in.json", "out.json"}, func() (jobs.CreateTasksStats, error) {
		return jobs.CreateTasksStats{Docs: 10, Tasks: 3}, nil
	})
	require.NoError(t, err)

	_, err = jobs.Record(ctx, ledger, jobs.ConvertLabelsJob, 27, nil, func() (jobs.ConvertLabelsStats, error) {
		return jobs.ConvertLabelsStats{}, errors.New("bad export")
	})
	require.Error(t, err)

	runs, err := database.ListRuns(ctx, db, "", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byJob := map[string]database.Run{}
	for _, run := range runs {
		byJob[run.Job] = run
	}
	assert.Equal(t, database.JobCompleted, byJob[jobs.CreateTasksJob].Status)
	assert.JSONEq(t, `["in.json", "out.json"]`, string(byJob[jobs.CreateTasksJob].Args))
	assert.Equal(t, database.JobFailed, byJob[jobs.ConvertLabelsJob].Status)
	require.Len(t, byJob[jobs.ConvertLabelsJob].Errors, 1)
	assert.Equal(t, "bad export", byJob[jobs.ConvertLabelsJob].Errors[0].Error)
}
