// package formatter renders task lists to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/tinytasks/internal/models"
	"github.com/desertthunder/tinytasks/internal/shared"
)

// EmptyMessage is rendered by the human-readable formats when there are no tasks.
const EmptyMessage = "No tasks yet"

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatMarkdown}

// ParseFormat resolves a format name, accepting "md" and "txt" as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, name)
	}
}

// Render dispatches to the exporter for f.
func Render(f Format, tasks []models.Task) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportToJSON(tasks)
	case FormatCSV:
		return ExportToCSV(tasks)
	case FormatMarkdown:
		return ExportToMarkdown(tasks)
	case FormatText:
		return ExportToText(tasks)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// ExportToJSON renders tasks as a pretty-printed JSON array. A nil list renders as [].
func ExportToJSON(tasks []models.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	return shared.MarshalJSON(tasks, true)
}

// ExportToCSV converts tasks to CSV format with columns: ID, Title, Completed
func ExportToCSV(tasks []models.Task) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Completed"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, task := range tasks {
		record := []string{task.ID, task.Title, strconv.FormatBool(task.Completed)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts tasks to a Markdown checklist
func ExportToMarkdown(tasks []models.Task) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Tasks\n\n")
	if len(tasks) == 0 {
		buf.WriteString(fmt.Sprintf("_%s_\n", EmptyMessage))
		return buf.Bytes(), nil
	}

	done := 0
	for _, task := range tasks {
		if task.Completed {
			done++
		}
	}
	buf.WriteString(fmt.Sprintf("**Completed**: %d/%d\n\n", done, len(tasks)))

	for _, task := range tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		buf.WriteString(fmt.Sprintf("- [%s] %s\n", mark, task.Title))
	}

	return buf.Bytes(), nil
}

// ExportToText converts tasks to plain text format
func ExportToText(tasks []models.Task) ([]byte, error) {
	var buf bytes.Buffer

	if len(tasks) == 0 {
		buf.WriteString(EmptyMessage + "\n")
		return buf.Bytes(), nil
	}

	for i, task := range tasks {
		mark := " "
		if task.Completed {
			mark = "x"
		}
		buf.WriteString(fmt.Sprintf("%d. [%s] %s (%s)\n", i+1, mark, task.Title, task.ID))
	}

	return buf.Bytes(), nil
}

// WriteExport renders tasks in format f to path.
//
// Defaults to tasks.{ext} when path is empty.
func WriteExport(tasks []models.Task, f Format, path string) (string, error) {
	if path == "" {
		path = "tasks." + f.Ext()
	}

	data, err := Render(f, tasks)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}

// Ext is the file extension for f.
func (f Format) Ext() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return string(f)
	}
}
