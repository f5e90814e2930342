// Package export writes the task list as JSON, CSV or PDF.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"dtask/internal/service"
	"dtask/internal/todo"
)

// Formats lists the accepted format names.
var Formats = []string{"json", "csv", "pdf"}

// Record is one exported task.
type Record struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Deadline  string `json:"deadline"`
	Remaining string `json:"remaining"`
	State     string `json:"state"`
}

// Records pairs each task with its countdown label at now.
func Records(tasks []service.Task, now time.Time) []Record {
	records := make([]Record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, Record{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			Deadline:  t.Deadline,
			Remaining: todo.Remaining(t.Deadline, now),
			State:     todo.Classify(t, now).String(),
		})
	}
	return records
}

// Export renders tasks in the named format.
func Export(format string, tasks []service.Task, now time.Time) ([]byte, error) {
	records := Records(tasks, now)
	switch strings.ToLower(format) {
	case "json":
		b, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case "csv":
		var b bytes.Buffer
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"id", "text", "completed", "deadline", "remaining"})
		for _, r := range records {
			_ = w.Write([]string{r.ID, r.Text, strconv.FormatBool(r.Completed), r.Deadline, r.Remaining})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return b.Bytes(), nil
	case "pdf":
		return renderPDF(records, now)
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}
}

func renderPDF(records []Record, now time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(now)
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)
	if len(records) == 0 {
		pdf.Cell(40, 6, "No tasks.")
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for i, r := range records {
		mark := "[ ]"
		switch r.State {
		case todo.StateCompleted.String():
			mark = "[x]"
		case todo.StateExpired.String():
			mark = "[!]"
		}
		line := fmt.Sprintf("%d. %s %s  (deadline %s, %s)", i+1, mark, r.Text, r.Deadline, r.Remaining)
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
