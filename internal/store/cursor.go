package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Cursor is the decoded form of an opaque listing cursor. It carries the
// composite sort key (last_updated, job_id) of the last item of the
// previous page.
type Cursor struct {
	LastUpdated time.Time `json:"last_updated"`
	JobID       uuid.UUID `json:"job_id"`
}

// Encode serializes the cursor into an opaque URL-safe token.
func (c Cursor) Encode() string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses an opaque cursor token. Any malformed token maps to
// ErrInvalidCursor so callers can distinguish it from a missing job.
func DecodeCursor(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if c.JobID == uuid.Nil || c.LastUpdated.IsZero() {
		return Cursor{}, fmt.Errorf("%w: missing sort key", ErrInvalidCursor)
	}

	return c, nil
}
