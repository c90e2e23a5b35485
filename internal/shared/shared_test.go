package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{name: "empty", content: "", expected: "d41d8cd98f00b204e9800998ecf8427e"},
		{name: "lyrics line", content: "hello world", expected: "5eb63bbbe01eeed093cb22bb8f5acdc3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum([]byte(tt.content)); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestRelativePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "/music/Artist/Album/01 Track.flac", expected: "music/Artist/Album/01 Track.flac"},
		{input: "Artist/Album/01 Track.flac", expected: "Artist/Album/01 Track.flac"},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		if got := RelativePath(tt.input); got != tt.expected {
			t.Errorf("RelativePath(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected a valid uuid, got %q: %v", id, err)
	}
	if id == GenerateID() {
		t.Error("expected distinct ids")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	SetLogLevel(logger, "warn")

	logger.Info("hidden")
	WithLogger(logger, "component", "worker").Warn("shown")

	out := buf.String()
	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Errorf("info line should be filtered at warn level: %s", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("component=worker")) {
		t.Errorf("expected component key in output: %s", out)
	}
}

func TestFileOnlyLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.log")
	logger, closer := NewFileOnlyLogger(path)
	logger.Info("socket connected", "client", "abc")
	if err := closer.Close(); err != nil {
		t.Fatalf("failed to close log file: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !bytes.Contains(data, []byte("socket connected")) {
		t.Errorf("expected log line in file, got %q", data)
	}
}
