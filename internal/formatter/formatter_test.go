package formatter

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/singarr/internal/lrc"
	"github.com/desertthunder/singarr/internal/models"
	th "github.com/desertthunder/singarr/internal/testing"
)

func testJobs() []models.Job {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	failure := "lidarr: connection refused"
	return []models.Job{
		{ID: 1, Payload: models.ScanAlbum{AlbumID: 3}, Status: models.JobDone, CreatedAt: created, UpdatedAt: created},
		{ID: 2, Payload: models.SyncLibrary{}, Status: models.JobFailed, Error: &failure, CreatedAt: created, UpdatedAt: created},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"", Text, false},
		{"text", Text, false},
		{"CSV", CSV, false},
		{"json", JSON, false},
		{"markdown", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestPayloadSummary(t *testing.T) {
	tests := []struct {
		name     string
		payload  models.Payload
		expected string
	}{
		{"no fields", models.SyncLibrary{}, "syncLibrary"},
		{"one field", models.ScanAlbum{AlbumID: 3}, "scanAlbum albumId=3"},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PayloadSummary(tt.payload); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestJobs(t *testing.T) {
	t.Run("JobsToCSV", func(t *testing.T) {
		data, err := JobsToCSV(testJobs())
		if err != nil {
			t.Fatalf("JobsToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "ID,Type,Payload,Status,Error,Created,Updated\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "scanAlbum") {
			t.Errorf("CSV missing payload type")
		}
		if !strings.Contains(output, "lidarr: connection refused") {
			t.Errorf("CSV missing job error")
		}
		if !strings.Contains(output, "2026-03-01T12:00:00Z") {
			t.Errorf("CSV missing timestamp")
		}
	})

	t.Run("JobsToText", func(t *testing.T) {
		output := string(JobsToText(testJobs()))

		if !strings.Contains(output, "#1  done") {
			t.Errorf("text missing first job, got: %s", output)
		}
		if !strings.Contains(output, "scanAlbum albumId=3") {
			t.Errorf("text missing payload summary")
		}
		if !strings.Contains(output, "error: lidarr: connection refused") {
			t.Errorf("text missing error line")
		}
	})

	t.Run("JobsToText empty", func(t *testing.T) {
		if got := string(JobsToText(nil)); got != "No jobs\n" {
			t.Errorf("expected 'No jobs', got %q", got)
		}
	})

	t.Run("JobToText", func(t *testing.T) {
		output := string(JobToText(testJobs()[1]))
		for _, want := range []string{"Job:     #2", "Status:  failed", "Error:   lidarr"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in output, got: %s", want, output)
			}
		}
	})
}

func TestTasks(t *testing.T) {
	next := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tasks := []models.TaskInfo{
		{ID: "a", Cron: "0 0 * * * *", Payload: models.SyncLibrary{}, Next: &next},
		{ID: "b", Cron: "0 30 3 * * *", Payload: models.SearchLibrary{}},
	}

	t.Run("TasksToCSV", func(t *testing.T) {
		data, err := TasksToCSV(tasks)
		if err != nil {
			t.Fatalf("TasksToCSV failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected 3 lines, got %d", len(lines))
		}
		if lines[1] != "a,0 0 * * * *,syncLibrary,2026-03-02T00:00:00Z" {
			t.Errorf("unexpected row %q", lines[1])
		}
		if !strings.HasSuffix(lines[2], ",") {
			t.Errorf("expected empty next column, got %q", lines[2])
		}
	})

	t.Run("TasksToText", func(t *testing.T) {
		output := string(TasksToText(tasks))
		if !strings.Contains(output, "searchLibrary") || !strings.Contains(output, "next -") {
			t.Errorf("unexpected text %q", output)
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		data, err := json.Marshal(tasks[0])
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if !strings.Contains(string(data), `"payload":{"type":"syncLibrary"}`) {
			t.Errorf("expected tagged payload, got %s", data)
		}
	})
}

func TestLrc(t *testing.T) {
	parsed := lrc.Parse("[ar:Björk]\n[00:01:05]Hunter\nuntimed\n")

	t.Run("LrcToText", func(t *testing.T) {
		output := string(LrcToText(parsed))
		if !strings.HasPrefix(output, "Type: mixed\n") {
			t.Errorf("expected mixed type first, got: %s", output)
		}
		if !strings.Contains(output, "ar: Björk") {
			t.Errorf("text missing tag")
		}
		if !strings.Contains(output, "[00:01:05] Hunter") {
			t.Errorf("text missing timed line")
		}
		if !strings.Contains(output, "untimed") {
			t.Errorf("text missing untimed line")
		}
	})

	t.Run("LrcToCSV", func(t *testing.T) {
		data, err := LrcToCSV(parsed)
		if err != nil {
			t.Fatalf("LrcToCSV failed: %v", err)
		}
		expected := "Seconds,Text\n65,Hunter\n,untimed\n"
		if string(data) != expected {
			t.Errorf("expected %q, got %q", expected, string(data))
		}
	})
}

func TestResults(t *testing.T) {
	duration := int64(254000)
	results := []models.ProviderResult{
		{Provider: "LrcLib", Score: 0.95, File: models.ProviderFile{Identifier: "1", ArtistName: "Björk", AlbumTitle: "Homogenic", TrackName: "Hunter", Synced: true, DurationMs: &duration}},
		{Provider: "LrcLib", Score: 0.4, File: models.ProviderFile{Identifier: "2", ArtistName: "Bjork", AlbumTitle: "Live", TrackName: "Hunter"}},
	}

	t.Run("ResultsToText", func(t *testing.T) {
		output := string(ResultsToText(results, &results[0]))
		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if !strings.HasPrefix(lines[0], "* 0.950") {
			t.Errorf("expected selected marker, got %q", lines[0])
		}
		if !strings.Contains(lines[0], "(4:14)") {
			t.Errorf("expected duration, got %q", lines[0])
		}
		if strings.HasPrefix(lines[1], "*") {
			t.Errorf("second result should not be marked")
		}
	})

	t.Run("ResultsToText empty", func(t *testing.T) {
		if got := string(ResultsToText(nil, nil)); got != "No results\n" {
			t.Errorf("expected 'No results', got %q", got)
		}
	})

	t.Run("ResultsToCSV", func(t *testing.T) {
		data, err := ResultsToCSV(results)
		if err != nil {
			t.Fatalf("ResultsToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), "LrcLib,1,0.9500,true,Björk,Homogenic,Hunter,254000") {
			t.Errorf("unexpected CSV %s", data)
		}
	})
}

func TestWrite(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, JSON, testJobs()); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		var decoded []models.Job
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("expected valid JSON: %v", err)
		}
		if len(decoded) != 2 {
			t.Errorf("expected 2 jobs, got %d", len(decoded))
		}
	})

	t.Run("unsupported csv", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Write(&buf, CSV, 42); err == nil {
			t.Error("expected error for unsupported value")
		}
	})

	t.Run("failing writer", func(t *testing.T) {
		if err := Write(&th.FWriter{}, Text, testJobs()); err == nil {
			t.Error("expected write error")
		}
	})

	t.Run("WriteFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "jobs.csv")
		if err := WriteFile(path, CSV, testJobs()); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.HasPrefix(content, "ID,Type") {
			t.Errorf("unexpected file content %q", content)
		}
	})
}
