package labelstudio

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
)

const resultFile = "result.json"

// ExportReader yields the tasks of a labeling export.
type ExportReader interface {
	ReadTasks(ctx context.Context) ([]Task, error)
}

// ZipExportReader reads result.json from a zipped export.
type ZipExportReader struct {
	data []byte
}

func NewZipExportReader(data []byte) *ZipExportReader {
	return &ZipExportReader{data: data}
}

func (z *ZipExportReader) ReadTasks(ctx context.Context) ([]Task, error) {
	archive, err := zip.NewReader(bytes.NewReader(z.data), int64(len(z.data)))
	if err != nil {
		return nil, fmt.Errorf("error opening export archive: %w", err)
	}

	var found *zip.File
	for _, f := range archive.File {
		if f.Name == resultFile {
			found = f
			break
		}
		if found == nil && path.Base(f.Name) == resultFile {
			found = f
		}
	}
	if found == nil {
		return nil, fmt.Errorf("export archive does not contain %s", resultFile)
	}

	r, err := found.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", found.Name, err)
	}
	defer r.Close()

	return decodeTasks(r)
}

// JSONExportReader reads a plain JSON export.
type JSONExportReader struct {
	r io.Reader
}

func NewJSONExportReader(r io.Reader) *JSONExportReader {
	return &JSONExportReader{r: r}
}

func (j *JSONExportReader) ReadTasks(ctx context.Context) ([]Task, error) {
	return decodeTasks(j.r)
}

// APIExportReader exports the tasks of a project through the REST API.
type APIExportReader struct {
	client    *Client
	projectID int
}

func NewAPIExportReader(client *Client, projectID int) *APIExportReader {
	return &APIExportReader{client: client, projectID: projectID}
}

func (a *APIExportReader) ReadTasks(ctx context.Context) ([]Task, error) {
	return a.client.ExportTasks(ctx, a.projectID)
}

// NewExportReader picks the zip or JSON reader from the content of data.
func NewExportReader(data []byte) ExportReader {
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return NewZipExportReader(data)
	}
	return NewJSONExportReader(bytes.NewReader(data))
}

func decodeTasks(r io.Reader) ([]Task, error) {
	var tasks []Task
	if err := json.NewDecoder(r).Decode(&tasks); err != nil {
		return nil, fmt.Errorf("error decoding export tasks: %w", err)
	}
	return tasks, nil
}
