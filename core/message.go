package core

import (
	"context"
	"errors"
)

// Message represents a timestamped, author-attributed unit of text or a
// file reference within a room. The author is a free-text display name
// supplied by the client, not a verified identity.
type Message struct {
	ID     int64  `json:"id"`
	RoomID int64  `json:"room_id"`
	// Author is also the entire authorization model for deletion: a
	// delete succeeds only when the supplied author matches this value
	// exactly. This is trivially spoofable and is a documented weakness
	// of the system, preserved deliberately.
	Author string `json:"user"`
	// Body holds the message text, or the stored filename when IsFile is set.
	Body      string `json:"text"`
	IsFile    bool   `json:"is_file"`
	Timestamp int64  `json:"time"`
}

// ErrMessageNotFound is returned when a delete target does not exist in
// the room or its stored author does not match the supplied one. The two
// causes are deliberately indistinguishable to the caller.
var ErrMessageNotFound = errors.New("message not found or not authorized")

// MessageCreateInput represents the input for appending a message to a room.
type MessageCreateInput struct {
	RoomID int64  `json:"room_id" validate:"required"`
	Author string `json:"user" validate:"required"`
	Body   string `json:"text" validate:"required"`
	IsFile bool   `json:"is_file"`
}

// Validate validates the message input.
func (m *MessageCreateInput) Validate() error {
	return validate.Struct(m)
}

type MessageStore interface {
	// AppendMessage inserts a new message with the current wall-clock
	// timestamp and returns it with its assigned id. It fails only on
	// storage I/O error.
	AppendMessage(ctx context.Context, input MessageCreateInput) (*Message, error)

	// ListMessages returns all messages of the room in ascending timestamp
	// order, ties broken by ascending insertion id. The result is a finite
	// snapshot; there is no pagination or streaming.
	ListMessages(ctx context.Context, roomID int64) ([]Message, error)

	// DeleteMessage hard-deletes the message iff one with the given id
	// exists in the room and its stored author equals author exactly
	// (case-sensitive). Otherwise it returns ErrMessageNotFound.
	DeleteMessage(ctx context.Context, roomID, messageID int64, author string) error
}
