package models

import (
	"encoding/json"
	"time"
)

// ChatSender identifies who wrote a chat message
type ChatSender string

const (
	SenderUser      ChatSender = "user"
	SenderAssistant ChatSender = "assistant"
)

// ChatMessage is one exchange line stored inside a history entry
type ChatMessage struct {
	Sender ChatSender `json:"sender"`
	Text   string     `json:"text"`
}

// ChatHistoryEntry is one persisted row of a chat session
type ChatHistoryEntry struct {
	ID        int             `json:"id" db:"id"`
	SessionID string          `json:"session_id" db:"session_id"`
	Message   json.RawMessage `json:"message" db:"message"`
	StartedAt time.Time       `json:"started_at" db:"started_at"`
	EndedAt   *time.Time      `json:"ended_at,omitempty" db:"ended_at"`
}
