// package formatter renders jobs, scheduled tasks, lyrics and search results as text, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/singarr/internal/lrc"
	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

// Format is an output format accepted by the CLI.
type Format string

const (
	Text Format = "text"
	CSV  Format = "csv"
	JSON Format = "json"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case Text, "":
		return Text, nil
	case CSV:
		return CSV, nil
	case JSON:
		return JSON, nil
	}
	return "", fmt.Errorf("%w: format %q (expected text, csv or json)", shared.ErrInvalidArgument, s)
}

// ToJSON encodes v, indented when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func writeCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range records {
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

// PayloadSummary renders a payload as "type" or "type key=value ...".
func PayloadSummary(p models.Payload) string {
	if p == nil {
		return ""
	}

	data, err := models.MarshalPayload(p)
	if err != nil {
		return string(p.Type())
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return string(p.Type())
	}
	delete(fields, "type")
	// content is whole lyrics files
	delete(fields, "content")

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	parts := []string{string(p.Type())}
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

func jobError(j models.Job) string {
	if j.Error == nil {
		return ""
	}
	return *j.Error
}

func timestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

// JobsToCSV converts jobs to CSV with columns: ID, Type, Payload, Status, Error, Created, Updated
func JobsToCSV(jobs []models.Job) ([]byte, error) {
	records := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		payload, err := models.MarshalPayload(j.Payload)
		if err != nil {
			return nil, err
		}
		records = append(records, []string{
			strconv.FormatInt(j.ID, 10),
			string(j.Payload.Type()),
			string(payload),
			string(j.Status),
			jobError(j),
			j.CreatedAt.UTC().Format(time.RFC3339),
			j.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return writeCSV([]string{"ID", "Type", "Payload", "Status", "Error", "Created", "Updated"}, records)
}

// JobsToText renders one line per job.
func JobsToText(jobs []models.Job) []byte {
	var buf bytes.Buffer
	if len(jobs) == 0 {
		buf.WriteString("No jobs\n")
		return buf.Bytes()
	}

	for _, j := range jobs {
		fmt.Fprintf(&buf, "#%d  %-8s %s  %s\n", j.ID, j.Status, timestamp(j.CreatedAt), PayloadSummary(j.Payload))
		if j.Error != nil {
			fmt.Fprintf(&buf, "      error: %s\n", *j.Error)
		}
	}
	return buf.Bytes()
}

// JobToText renders a single job with every field.
func JobToText(j models.Job) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Job:     #%d\n", j.ID)
	fmt.Fprintf(&buf, "Payload: %s\n", PayloadSummary(j.Payload))
	fmt.Fprintf(&buf, "Status:  %s\n", j.Status)
	if j.Error != nil {
		fmt.Fprintf(&buf, "Error:   %s\n", *j.Error)
	}
	fmt.Fprintf(&buf, "Created: %s\n", timestamp(j.CreatedAt))
	fmt.Fprintf(&buf, "Updated: %s\n", timestamp(j.UpdatedAt))
	return buf.Bytes()
}

// TasksToText renders one line per task.
func TasksToText(tasks []models.TaskInfo) []byte {
	var buf bytes.Buffer
	for _, t := range tasks {
		next := "-"
		if t.Next != nil {
			next = timestamp(*t.Next)
		}
		fmt.Fprintf(&buf, "%-16s %-20s next %s\n", t.Cron, PayloadSummary(t.Payload), next)
	}
	return buf.Bytes()
}

// TasksToCSV converts tasks to CSV with columns: ID, Cron, Type, Next
func TasksToCSV(tasks []models.TaskInfo) ([]byte, error) {
	records := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		next := ""
		if t.Next != nil {
			next = t.Next.UTC().Format(time.RFC3339)
		}
		records = append(records, []string{t.ID, t.Cron, string(t.Payload.Type()), next})
	}
	return writeCSV([]string{"ID", "Cron", "Type", "Next"}, records)
}

// LrcToText renders a parsed file: tags first, then lines with their timestamp.
func LrcToText(l lrc.Lrc) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Type: %s\n", l.LyricsType())

	for _, tag := range l.Tags {
		fmt.Fprintf(&buf, "%s: %s\n", tag.Tag, tag.Value)
	}
	if len(l.Tags) > 0 || len(l.Lines) > 0 {
		buf.WriteString("\n")
	}

	for _, line := range l.Lines {
		if line.Time != nil {
			fmt.Fprintf(&buf, "[%s] %s\n", lrc.Format(*line.Time), line.Text)
		} else {
			fmt.Fprintf(&buf, "%11s%s\n", "", line.Text)
		}
	}
	return buf.Bytes()
}

// LrcToCSV converts parsed lines to CSV with columns: Seconds, Text. Untimed lines have an empty Seconds.
func LrcToCSV(l lrc.Lrc) ([]byte, error) {
	records := make([][]string, 0, len(l.Lines))
	for _, line := range l.Lines {
		seconds := ""
		if line.Time != nil {
			seconds = strconv.FormatInt(int64(line.Time.Seconds()), 10)
		}
		records = append(records, []string{seconds, line.Text})
	}
	return writeCSV([]string{"Seconds", "Text"}, records)
}

// ResultsToText renders scored candidates, marking the selected one with an asterisk.
func ResultsToText(results []models.ProviderResult, selected *models.ProviderResult) []byte {
	var buf bytes.Buffer
	if len(results) == 0 {
		buf.WriteString("No results\n")
		return buf.Bytes()
	}

	for _, r := range results {
		mark := " "
		if selected != nil && r.Provider == selected.Provider && r.File.Identifier == selected.File.Identifier {
			mark = "*"
		}
		kind := "plain "
		if r.File.Synced {
			kind = "synced"
		}
		fmt.Fprintf(&buf, "%s %.3f %-8s %s  %s - %s - %s%s\n",
			mark, r.Score, r.Provider, kind, r.File.ArtistName, r.File.AlbumTitle, r.File.TrackName, formatDuration(r.File.DurationMs))
	}
	return buf.Bytes()
}

// ResultsToCSV converts scored candidates to CSV with columns: Provider, Identifier, Score, Synced, Artist, Album, Track, DurationMs
func ResultsToCSV(results []models.ProviderResult) ([]byte, error) {
	records := make([][]string, 0, len(results))
	for _, r := range results {
		duration := ""
		if r.File.DurationMs != nil {
			duration = strconv.FormatInt(*r.File.DurationMs, 10)
		}
		records = append(records, []string{
			r.Provider,
			r.File.Identifier,
			strconv.FormatFloat(r.Score, 'f', 4, 64),
			strconv.FormatBool(r.File.Synced),
			r.File.ArtistName,
			r.File.AlbumTitle,
			r.File.TrackName,
			duration,
		})
	}
	return writeCSV([]string{"Provider", "Identifier", "Score", "Synced", "Artist", "Album", "Track", "DurationMs"}, records)
}

func formatDuration(ms *int64) string {
	if ms == nil {
		return ""
	}
	d := time.Duration(*ms) * time.Millisecond
	return fmt.Sprintf(" (%d:%02d)", int(d.Minutes()), int(d.Seconds())%60)
}

// Write renders v in format to w. Each renderer pair is picked by the type of v.
func Write(w io.Writer, format Format, v any) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case JSON:
		data, err = ToJSON(v, true)
	case CSV:
		data, err = toCSV(v)
	default:
		data, err = toText(v)
	}
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func toCSV(v any) ([]byte, error) {
	switch v := v.(type) {
	case []models.Job:
		return JobsToCSV(v)
	case models.Job:
		return JobsToCSV([]models.Job{v})
	case []models.TaskInfo:
		return TasksToCSV(v)
	case lrc.Lrc:
		return LrcToCSV(v)
	case []models.ProviderResult:
		return ResultsToCSV(v)
	}
	return nil, fmt.Errorf("%w: no CSV rendering for %T", shared.ErrInvalidArgument, v)
}

func toText(v any) ([]byte, error) {
	switch v := v.(type) {
	case []models.Job:
		return JobsToText(v), nil
	case models.Job:
		return JobToText(v), nil
	case []models.TaskInfo:
		return TasksToText(v), nil
	case lrc.Lrc:
		return LrcToText(v), nil
	case []models.ProviderResult:
		return ResultsToText(v, nil), nil
	case fmt.Stringer:
		return []byte(v.String() + "\n"), nil
	}
	return nil, fmt.Errorf("%w: no text rendering for %T", shared.ErrInvalidArgument, v)
}

// WriteFile renders v in format into path.
func WriteFile(path string, format Format, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := Write(f, format, v); err != nil {
		return err
	}
	return f.Close()
}
