package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"dtask/internal/service"
)

var now = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func sampleTasks() []service.Task {
	return []service.Task{
		{ID: "a", Text: "Buy bread", Deadline: "2025-03-14T12:05:09Z"},
		{ID: "b", Text: "Pay rent, now", Completed: true, Deadline: "2025-03-01T09:00:00Z"},
		{ID: "c", Text: "Renew passport", Deadline: "2025-03-01T09:00:00Z"},
	}
}

func TestExport_JSON(t *testing.T) {
	data, err := Export("json", sampleTasks(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	if got[0].Remaining != "2j 5m 9d" || got[0].State != "pending" {
		t.Errorf("unexpected first record: %+v", got[0])
	}
	if got[1].State != "completed" || got[2].State != "expired" {
		t.Errorf("unexpected states: %q, %q", got[1].State, got[2].State)
	}
	if got[2].Remaining != "Waktu habis!" {
		t.Errorf("expected expired label, got %q", got[2].Remaining)
	}
}

func TestExport_CSV(t *testing.T) {
	data, err := Export("CSV", sampleTasks(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "id,text,completed,deadline,remaining\n" +
		"a,Buy bread,false,2025-03-14T12:05:09Z,2j 5m 9d\n" +
		"b,\"Pay rent, now\",true,2025-03-01T09:00:00Z,Waktu habis!\n" +
		"c,Renew passport,false,2025-03-01T09:00:00Z,Waktu habis!\n"
	if string(data) != want {
		t.Errorf("expected %q, got %q", want, string(data))
	}
}

func TestExport_PDF(t *testing.T) {
	data, err := Export("pdf", sampleTasks(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("expected a PDF document, got prefix %q", data[:min(len(data), 8)])
	}
}

func TestExport_PDFEmpty(t *testing.T) {
	data, err := Export("pdf", nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected a document for an empty list")
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	_, err := Export("xml", sampleTasks(), now)
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}
