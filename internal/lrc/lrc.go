// Package lrc parses LRC lyrics files.
//
// A file starts with optional id tags such as [ar:Artist] followed by lyric lines. A line may
// carry a timestamp [HH:MM:SS], [HH:MM.SS] or either form with a trailing fraction
// ([00:16.24.50]). The fraction is dropped. Anything that fails to parse as a timestamp is kept
// as untimed text, so Parse never fails.
package lrc

import (
	"fmt"
	"time"
)

// Tag is an id tag such as [ar:Artist].
type Tag struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// Line is one lyric line. Time is nil for untimed lines.
type Line struct {
	Time *time.Duration `json:"time,omitempty"`
	Text string         `json:"text"`
}

// Lrc is a parsed lyrics file.
type Lrc struct {
	Tags  []Tag  `json:"tags"`
	Lines []Line `json:"lines"`
}

// LyricsType classifies a file by how its lines are timed.
type LyricsType int

const (
	Unsynced LyricsType = iota
	Synced
	Mixed
)

func (t LyricsType) String() string {
	switch t {
	case Synced:
		return "synced"
	case Mixed:
		return "mixed"
	default:
		return "unsynced"
	}
}

// LyricsType reports Synced when every line is timed, Unsynced when none is and Mixed otherwise.
// A file without lines is Unsynced.
func (l Lrc) LyricsType() LyricsType {
	var timed, untimed bool
	for _, line := range l.Lines {
		if line.Time == nil {
			untimed = true
		} else {
			timed = true
		}
		if timed && untimed {
			return Mixed
		}
	}
	if timed {
		return Synced
	}
	return Unsynced
}

// Parse reads input as LRC. It never fails; malformed tags and timestamps become text.
func Parse(input string) Lrc {
	c := newCursor(input)
	lrc := Lrc{Tags: []Tag{}, Lines: []Line{}}

	for {
		tag, ok := attempt(c, parseTag)
		if !ok {
			break
		}
		lrc.Tags = append(lrc.Tags, tag)
	}

	for {
		c.skipWhitespace()
		if c.eof() {
			break
		}
		lrc.Lines = append(lrc.Lines, parseLine(c))
	}
	return lrc
}

// parseTag reads [tag:value] after leading whitespace. The tag is letters only.
func parseTag(c *cursor) (Tag, bool) {
	c.skipWhitespace()
	if !c.expect('[') {
		return Tag{}, false
	}

	tag := c.takeWhile(isLetter)
	if !c.expect(':') {
		return Tag{}, false
	}

	value, ok := c.takeUntil(']')
	if !ok {
		return Tag{}, false
	}
	return Tag{Tag: trim(tag), Value: trim(value)}, true
}

// parseLine reads an optional timestamp and the text up to the end of the line.
// The cursor must not be at EOF or whitespace, so at least one rune is consumed.
func parseLine(c *cursor) Line {
	var line Line
	if d, ok := attempt(c, parseTime); ok {
		line.Time = &d
	}

	line.Text = trim(c.takeUntilNewline())
	return line
}

// parseTime reads [DD:DD(.|:)DD] with an optional .digits fraction, as a*3600 + b*60 + c seconds.
func parseTime(c *cursor) (time.Duration, bool) {
	if !c.expect('[') {
		return 0, false
	}

	hours, ok := c.twoDigits()
	if !ok || !c.expect(':') {
		return 0, false
	}

	minutes, ok := c.twoDigits()
	if !ok || !(c.expect(':') || c.expect('.')) {
		return 0, false
	}

	seconds, ok := c.twoDigits()
	if !ok {
		return 0, false
	}

	if c.expect('.') {
		if c.takeWhile(isDigit) == "" {
			return 0, false
		}
	}

	if !c.expect(']') {
		return 0, false
	}

	return time.Duration(hours*3600+minutes*60+seconds) * time.Second, true
}

// Format renders d as HH:MM:SS.
func Format(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
