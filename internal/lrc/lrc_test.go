package lrc

import (
	"strings"
	"testing"
	"time"
)

func seconds(n int) *time.Duration {
	d := time.Duration(n) * time.Second
	return &d
}

func TestParseTags(t *testing.T) {
	input := `
            [ar:Chubby Checker oppure  Beatles, The]
            [al:Hits Of The 60's - Vol. 2 – Oldies]
            [ti:Let's Twist Again]
            [au:Written by Kal Mann / Dave Appell, 1961]
            [length: 2:23]`

	lrc := Parse(input)

	expected := []Tag{
		{Tag: "ar", Value: "Chubby Checker oppure  Beatles, The"},
		{Tag: "al", Value: "Hits Of The 60's - Vol. 2 – Oldies"},
		{Tag: "ti", Value: "Let's Twist Again"},
		{Tag: "au", Value: "Written by Kal Mann / Dave Appell, 1961"},
		{Tag: "length", Value: "2:23"},
	}
	if len(lrc.Tags) != len(expected) {
		t.Fatalf("expected %d tags, got %d: %+v", len(expected), len(lrc.Tags), lrc.Tags)
	}
	for i, tag := range expected {
		if lrc.Tags[i] != tag {
			t.Errorf("expected tag %+v, got %+v", tag, lrc.Tags[i])
		}
	}
	if len(lrc.Lines) != 0 {
		t.Errorf("expected no lines, got %d", len(lrc.Lines))
	}
}

func TestParseLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Line
		kind     LyricsType
	}{
		{
			name:     "empty",
			input:    "",
			expected: []Line{},
			kind:     Unsynced,
		},
		{
			name:     "whitespace only",
			input:    "  \n\n\t ",
			expected: []Line{},
			kind:     Unsynced,
		},
		{
			name:     "unsynced",
			input:    "Hello world!",
			expected: []Line{{Text: "Hello world!"}},
			kind:     Unsynced,
		},
		{
			name:     "colon separator",
			input:    "[01:01:23] Hello world!",
			expected: []Line{{Time: seconds(3683), Text: "Hello world!"}},
			kind:     Synced,
		},
		{
			name:     "dot separator",
			input:    "[00:16.24] S.F.N",
			expected: []Line{{Time: seconds(16*60 + 24), Text: "S.F.N"}},
			kind:     Synced,
		},
		{
			name:     "fraction is dropped",
			input:    "[00:00:05.75] Five",
			expected: []Line{{Time: seconds(5), Text: "Five"}},
			kind:     Synced,
		},
		{
			name:     "timestamp without text",
			input:    "[00:00:09]",
			expected: []Line{{Time: seconds(9), Text: ""}},
			kind:     Synced,
		},
		{
			name:     "invalid timestamp becomes text",
			input:    "[99:99] broken",
			expected: []Line{{Text: "[99:99] broken"}},
			kind:     Unsynced,
		},
		{
			name:     "single digit fields are text",
			input:    "[0:1:2] nope",
			expected: []Line{{Text: "[0:1:2] nope"}},
			kind:     Unsynced,
		},
		{
			name: "mixed",
			input: `[00:00:01] Line 1
            Line 2
            Line 3
            [00:00:04] Line 4
            [00:00:05] Line 5`,
			expected: []Line{
				{Time: seconds(1), Text: "Line 1"},
				{Text: "Line 2"},
				{Text: "Line 3"},
				{Time: seconds(4), Text: "Line 4"},
				{Time: seconds(5), Text: "Line 5"},
			},
			kind: Mixed,
		},
		{
			name:     "blank lines skipped",
			input:    "[00:00:01] a\n\n\n[00:00:02] b\n",
			expected: []Line{{Time: seconds(1), Text: "a"}, {Time: seconds(2), Text: "b"}},
			kind:     Synced,
		},
		{
			name:     "crlf line endings",
			input:    "[00:00:01] a\r\n[00:00:02] b\r\n",
			expected: []Line{{Time: seconds(1), Text: "a"}, {Time: seconds(2), Text: "b"}},
			kind:     Synced,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lrc := Parse(tt.input)

			if len(lrc.Lines) != len(tt.expected) {
				t.Fatalf("expected %d lines, got %d: %+v", len(tt.expected), len(lrc.Lines), lrc.Lines)
			}
			for i, want := range tt.expected {
				got := lrc.Lines[i]
				if got.Text != want.Text {
					t.Errorf("line %d: expected text %q, got %q", i, want.Text, got.Text)
				}
				switch {
				case want.Time == nil && got.Time != nil:
					t.Errorf("line %d: expected no time, got %v", i, *got.Time)
				case want.Time != nil && got.Time == nil:
					t.Errorf("line %d: expected time %v, got none", i, *want.Time)
				case want.Time != nil && *want.Time != *got.Time:
					t.Errorf("line %d: expected time %v, got %v", i, *want.Time, *got.Time)
				}
			}

			if kind := lrc.LyricsType(); kind != tt.kind {
				t.Errorf("expected %s, got %s", tt.kind, kind)
			}
		})
	}
}

func TestParseTagsThenLines(t *testing.T) {
	lrc := Parse("[ar:Björk]\n[ti:Jóga]\n[00:00:12] All these accidents\n[00:00:15] That happen")

	if len(lrc.Tags) != 2 {
		t.Errorf("expected 2 tags, got %d", len(lrc.Tags))
	}
	if len(lrc.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lrc.Lines))
	}
	if lrc.Lines[0].Text != "All these accidents" {
		t.Errorf("expected first lyric, got %q", lrc.Lines[0].Text)
	}
}

func TestParseLong(t *testing.T) {
	var b strings.Builder
	for i := range 69 {
		b.WriteString("[00:")
		b.WriteString(Format(time.Duration(i) * time.Second)[6:])
		b.WriteString(".00] line\n")
	}

	lrc := Parse(b.String())
	if len(lrc.Lines) != 69 {
		t.Errorf("expected 69 lines, got %d", len(lrc.Lines))
	}
	if lrc.LyricsType() != Synced {
		t.Errorf("expected synced, got %s", lrc.LyricsType())
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in       time.Duration
		expected string
	}{
		{0, "00:00:00"},
		{3683 * time.Second, "01:01:23"},
		{59*time.Second + 900*time.Millisecond, "00:00:59"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.expected {
			t.Errorf("expected %s, got %s", tt.expected, got)
		}
	}
}
