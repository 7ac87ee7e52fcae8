package labelstudio

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to the Label Studio REST API using a legacy API token.
type Client struct {
	client *resty.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetHeader("Authorization", "Token "+apiKey).
			SetHeader("Accept", "application/json").
			SetTimeout(2 * time.Minute),
	}
}

type importResponse struct {
	TaskCount int `json:"task_count"`
}

// ImportTasks uploads tasks to a project and returns the number created.
func (c *Client) ImportTasks(ctx context.Context, projectID int, tasks any) (int, error) {
	var result importResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(tasks).
		SetResult(&result).
		Post(fmt.Sprintf("/api/projects/%d/import", projectID))
	if err != nil {
		return 0, fmt.Errorf("error importing tasks to project %d: %w", projectID, err)
	}
	if !res.IsSuccess() {
		slog.Error("label studio import returned error", "project_id", projectID, "status_code", res.StatusCode(), "body", res.String())
		return 0, fmt.Errorf("label studio import returned status %d", res.StatusCode())
	}
	return result.TaskCount, nil
}

// ExportTasks downloads all tasks of a project in JSON format.
func (c *Client) ExportTasks(ctx context.Context, projectID int) ([]Task, error) {
	res, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("exportType", "JSON").
		Get(fmt.Sprintf("/api/projects/%d/export", projectID))
	if err != nil {
		return nil, fmt.Errorf("error exporting project %d: %w", projectID, err)
	}
	if !res.IsSuccess() {
		slog.Error("label studio export returned error", "project_id", projectID, "status_code", res.StatusCode(), "body", res.String())
		return nil, fmt.Errorf("label studio export returned status %d", res.StatusCode())
	}

	var tasks []Task
	if err := json.Unmarshal(res.Body(), &tasks); err != nil {
		return nil, fmt.Errorf("error decoding export of project %d: %w", projectID, err)
	}
	return tasks, nil
}
