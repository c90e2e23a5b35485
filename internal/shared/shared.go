// package shared defines helpers used across singarr: logging, configuration, database access and ids
package shared

import (
	"crypto/md5"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// NewFileLogger creates a [log.Logger] that writes to stderr and to a rotating file at path.
//
// The returned closer flushes and closes the rotating file.
func NewFileLogger(path string) (*log.Logger, io.Closer) {
	rotator := newRotator(path)
	return NewLogger(io.MultiWriter(os.Stderr, rotator)), rotator
}

// NewFileOnlyLogger is [NewFileLogger] without the stderr copy, for when a UI owns the terminal.
func NewFileOnlyLogger(path string) (*log.Logger, io.Closer) {
	rotator := newRotator(path)
	return NewLogger(rotator), rotator
}

func newRotator(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger] from its name.
//
// Unknown names leave the logger at info.
func SetLogLevel(l *log.Logger, level string) {
	ll, err := log.ParseLevel(level)
	if err != nil {
		ll = log.InfoLevel
	}
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// Checksum returns the hex encoded md5 digest of content.
func Checksum(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}

// RelativePath strips the leading slash Lidarr puts on file paths so they can be joined under the root folder.
func RelativePath(p string) string {
	return strings.TrimPrefix(p, "/")
}
