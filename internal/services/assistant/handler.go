package assistant

import (
	"encoding/json"
	"net/http"
	"strings"

	"dinehub/internal/logger"
	"dinehub/internal/web"
)

// Handler exposes the assistant over HTTP.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new assistant handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes attaches the assistant endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /chat", h.handleAsk)
	mux.HandleFunc("GET /chat/history", h.handleHistory)
	mux.HandleFunc("POST /chat/end", h.handleEnd)
}

type askRequest struct {
	Message string `json:"message"`
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	sessionID := web.ClientSession(r)
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON body", requestID)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		web.WriteError(w, http.StatusBadRequest, "Message is required", requestID)
		return
	}

	reply, err := h.service.Ask(r.Context(), sessionID, req.Message)
	if err != nil {
		// The reply is still usable; record the storage failure and answer.
		h.logger.Error("chat_store_failed", "Failed to persist chat exchange", requestID, err,
			map[string]interface{}{"session_id": sessionID})
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"reply":      reply,
	})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	sessionID := web.ClientSession(r)
	entries, err := h.service.History(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("chat_history_failed", "Failed to load chat history", requestID, err,
			map[string]interface{}{"session_id": sessionID})
		web.WriteError(w, http.StatusInternalServerError, "Failed to load chat history", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"history":    entries,
	})
}

func (h *Handler) handleEnd(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	sessionID := web.ClientSession(r)
	if err := h.service.EndSession(r.Context(), sessionID); err != nil {
		h.logger.Error("chat_end_failed", "Failed to end chat session", requestID, err,
			map[string]interface{}{"session_id": sessionID})
		web.WriteError(w, http.StatusInternalServerError, "Failed to end chat session", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"ended":      true,
	})
}
