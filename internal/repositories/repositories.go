// package repositories provides SQLite implementations of the singarr stores.
package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/singarr/internal/events"
	"github.com/desertthunder/singarr/internal/models"
	"github.com/desertthunder/singarr/internal/shared"
)

// rowScanner is satisfied by both [sql.Row] and [sql.Rows].
type rowScanner interface {
	Scan(dest ...any) error
}

type discard struct{}

func (discard) Send(models.Event) {}

func senderOrDiscard(s events.Sender) events.Sender {
	if s == nil {
		return discard{}
	}
	return s
}

func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, shared.ErrNotFound)
}

// placeholders returns "?, ?, ?" for n values and the ids as query arguments.
func placeholders(ids []int64) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id
	}
	return strings.Join(marks, ", "), args
}

// excluding appends "AND column NOT IN (...)" for ids, or nothing when ids is empty.
func excluding(query, column string, ids []int64, args []any) (string, []any) {
	if len(ids) == 0 {
		return query, args
	}
	marks, idArgs := placeholders(ids)
	return query + fmt.Sprintf(" AND %s NOT IN (%s)", column, marks), append(args, idArgs...)
}

func scanIDs(rows *sql.Rows) ([]int64, error) {
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return ids, nil
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func equalStrings(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalInt64s(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
