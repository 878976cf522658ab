package assistant

import (
	"context"
	"encoding/json"
	"time"

	"dinehub/internal/database"
	"dinehub/internal/logger"
	"dinehub/internal/models"
)

// Service answers user messages and records every exchange in chat_histories.
type Service struct {
	db        *database.DB
	responder Responder
	logger    *logger.Logger
}

// NewService creates a new assistant service
func NewService(db *database.DB, responder Responder, log *logger.Logger) *Service {
	return &Service{
		db:        db,
		responder: responder,
		logger:    log,
	}
}

// Ask replies to a user message and persists both sides of the exchange.
// A persistence failure does not withhold the reply; the exchange is
// answered first and stored best effort.
func (s *Service) Ask(ctx context.Context, sessionID, message string) (string, error) {
	reply := s.responder.Reply(message)

	now := time.Now()
	for _, msg := range []models.ChatMessage{
		{Sender: models.SenderUser, Text: message},
		{Sender: models.SenderAssistant, Text: reply},
	} {
		payload, err := json.Marshal(msg)
		if err != nil {
			return reply, err
		}
		var id int
		err = s.db.QueryRow(ctx, database.InsertChatMessageSQL, sessionID, payload, now, nil).Scan(&id)
		if err != nil {
			return reply, err
		}
	}
	return reply, nil
}

// History returns the persisted exchanges of a session in order.
func (s *Service) History(ctx context.Context, sessionID string) ([]models.ChatHistoryEntry, error) {
	rows, err := s.db.Query(ctx, database.GetChatHistoryBySessionSQL, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ChatHistoryEntry
	for rows.Next() {
		var e models.ChatHistoryEntry
		err := rows.Scan(&e.ID, &e.SessionID, &e.Message, &e.StartedAt, &e.EndedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// EndSession stamps ended_at on every open entry of the session.
func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	return s.db.Exec(ctx, database.EndChatSessionSQL, sessionID)
}
