package commons

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Message represents the message sent over the wire.
type Message struct {
	Username string `json:"username"`

	// Text represents the body of the message. This is used for chat lines, joining messages, and the list of active users.
	Text string `json:"text"`

	// Type represents the message type.
	Type MessageType `json:"type"`

	// ID represents the client's UUID.
	ID uuid.UUID `json:"ID"`

	// EditorID is the handle ID of the composer that produced the message.
	EditorID string `json:"editorId,omitempty"`

	// Markdown carries the serialized composer content. It is kept raw so a
	// malformed value can be told apart from an empty one.
	Markdown json.RawMessage `json:"markdown,omitempty"`

	// Operation represents a command for the composer.
	Operation *Operation `json:"operation,omitempty"`
}

// MessageType represents the type of the message.
type MessageType string

// Currently, chatpad supports 7 message types:
// - join (for joining messages)
// - update_editor_content (for draft updates from a composer)
// - submit (for a composer submitting its content)
// - message (for a chat line broadcast to everyone else)
// - sent-message (for acknowledging a submission to its sender)
// - users (for the list of active users)
// - operation (for host commands to a composer)

const (
	JoinMessage      MessageType = "join"
	UpdateMessage    MessageType = "update_editor_content"
	SubmitMessage    MessageType = "submit"
	ChatMessage      MessageType = "message"
	SentMessage      MessageType = "sent-message"
	UsersMessage     MessageType = "users"
	OperationMessage MessageType = "operation"
)

// MarkdownValue encodes text for the Markdown field.
func MarkdownValue(text string) json.RawMessage {
	raw, _ := json.Marshal(text)
	return raw
}
