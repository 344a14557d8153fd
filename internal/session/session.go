// Package session keeps the ordered, per-session log of chat turns shown in the scrollback.
// The log is for display only and is never sent back to the model.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Roles a turn can have.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrInvalidID is returned when a session id is empty.
var ErrInvalidID = errors.New("invalid session id")

// Turn is one message in the conversation log.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store holds conversation logs keyed by session id. Implementations must be safe for concurrent use.
type Store interface {
	// Append adds turns to the end of the session's log, creating it if needed.
	Append(ctx context.Context, id string, turns ...Turn) error
	// List returns the session's turns in the order they were appended.
	// An unknown session yields an empty log.
	List(ctx context.Context, id string) ([]Turn, error)
	// Clear ends the session and drops its log.
	Clear(ctx context.Context, id string) error
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// UserTurn builds a user turn stamped with the current time.
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content, CreatedAt: time.Now().UTC()}
}

// AssistantTurn builds an assistant turn stamped with the current time.
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content, CreatedAt: time.Now().UTC()}
}
