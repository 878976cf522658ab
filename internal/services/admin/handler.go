package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"dinehub/internal/logger"
	"dinehub/internal/web"
)

// Handler exposes admin login and session endpoints.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new admin handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes attaches the admin endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /admin/login", h.handleLogin)
	mux.HandleFunc("GET /admin/session", h.handleSession)
	mux.HandleFunc("POST /admin/logout", h.handleLogout)
}

type loginRequest struct {
	AccessCode string `json:"access_code"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON body", requestID)
		return
	}

	session, err := h.service.CreateSession(r.Context(), req.AccessCode)
	if err != nil {
		if errors.Is(err, ErrInvalidAccessCode) {
			web.WriteError(w, http.StatusUnauthorized, "Invalid access code", requestID)
			return
		}
		h.logger.Error("admin_login_failed", "Failed to create admin session", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Failed to create admin session", requestID)
		return
	}

	h.logger.Info("admin_login", "Admin session created", requestID,
		map[string]interface{}{"session_id": session.ID})
	web.WriteJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	sessionID := r.Header.Get("X-Admin-Session")
	if sessionID == "" {
		web.WriteError(w, http.StatusUnauthorized, "Missing admin session", requestID)
		return
	}

	session, err := h.service.Session(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionExpired) {
			web.WriteError(w, http.StatusUnauthorized, "Session expired", requestID)
			return
		}
		h.logger.Error("admin_session_failed", "Failed to load admin session", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Failed to load admin session", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r)

	sessionID := r.Header.Get("X-Admin-Session")
	if sessionID == "" {
		web.WriteError(w, http.StatusUnauthorized, "Missing admin session", requestID)
		return
	}

	if err := h.service.InvalidateSession(r.Context(), sessionID); err != nil {
		h.logger.Error("admin_logout_failed", "Failed to invalidate admin session", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Failed to invalidate admin session", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"logged_out": true})
}
