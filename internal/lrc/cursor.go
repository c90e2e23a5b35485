package lrc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type cursor struct {
	input string
	pos   int
}

func newCursor(input string) *cursor {
	return &cursor{input: input}
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.input)
}

func (c *cursor) peek() (rune, bool) {
	if c.eof() {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(c.input[c.pos:])
	return r, true
}

func (c *cursor) next() (rune, bool) {
	if c.eof() {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(c.input[c.pos:])
	c.pos += size
	return r, true
}

func (c *cursor) checkpoint() int {
	return c.pos
}

func (c *cursor) restore(pos int) {
	c.pos = pos
}

// expect consumes r if it is next.
func (c *cursor) expect(r rune) bool {
	if next, ok := c.peek(); ok && next == r {
		c.next()
		return true
	}
	return false
}

func (c *cursor) skipWhitespace() {
	c.takeWhile(unicode.IsSpace)
}

func (c *cursor) takeWhile(fn func(rune) bool) string {
	start := c.pos
	for {
		r, ok := c.peek()
		if !ok || !fn(r) {
			break
		}
		c.next()
	}
	return c.input[start:c.pos]
}

// takeUntil consumes up to and including end, returning what came before it.
// Returns false if end never appears.
func (c *cursor) takeUntil(end rune) (string, bool) {
	i := strings.IndexRune(c.input[c.pos:], end)
	if i < 0 {
		return "", false
	}
	s := c.input[c.pos : c.pos+i]
	c.pos += i + utf8.RuneLen(end)
	return s, true
}

// takeUntilNewline consumes the rest of the line, leaving the newline in place.
func (c *cursor) takeUntilNewline() string {
	return c.takeWhile(func(r rune) bool { return r != '\n' })
}

func (c *cursor) twoDigits() (int, bool) {
	n := 0
	for range 2 {
		r, ok := c.peek()
		if !ok || !isDigit(r) {
			return 0, false
		}
		c.next()
		n = n*10 + int(r-'0')
	}
	return n, true
}

// attempt runs fn and rewinds the cursor when it fails.
func attempt[T any](c *cursor, fn func(*cursor) (T, bool)) (T, bool) {
	checkpoint := c.checkpoint()
	v, ok := fn(c)
	if !ok {
		c.restore(checkpoint)
	}
	return v, ok
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
