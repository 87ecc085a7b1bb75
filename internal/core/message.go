// Package core contains the core domain types for agora: messages and the
// dialogue/debate session state machines.
package core

import (
	"time"

	"github.com/google/uuid"
)

// MessageType identifies who produced a message.
type MessageType string

const (
	MessageUser        MessageType = "user"
	MessagePhilosopher MessageType = "philosopher"
	MessageSystem      MessageType = "system"
)

// Message is a single entry in a session log. Immutable once appended.
type Message struct {
	ID        string            `json:"id"`
	Type      MessageType       `json:"type"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// NewMessage creates a message with a fresh ID and timestamp.
func NewMessage(msgType MessageType, content string, metadata map[string]string) Message {
	return Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Content:   content,
		Timestamp: time.Now(),
		Metadata:  metadata,
	}
}

// SpeakerName returns the speaker recorded in the message metadata, if any.
func (m Message) SpeakerName() string {
	if m.Metadata == nil {
		return ""
	}
	return m.Metadata["speaker"]
}
