// Package server implements the backend consumed by the coach client: the
// chat exchange, the profile fetch, and the metric log.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xaenox/health-coach/internal/api"
	"github.com/xaenox/health-coach/internal/models"
	"github.com/xaenox/health-coach/internal/storage"
)

// Handler serves the backend HTTP contract.
type Handler struct {
	store     storage.Storage
	responder Responder
	logger    *zap.Logger
}

func New(store storage.Storage, responder Responder, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: store, responder: responder, logger: logger}
}

// Routes wires the API endpoints onto a chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.handleChat)
		r.Get("/profile", h.handleProfile)
		r.Post("/metrics", h.handleMetrics)
	})

	return r
}

type chatRequest struct {
	Message  string  `json:"message"`
	Category *string `json:"category"`
}

type chatResponse struct {
	Response  string `json:"response"`
	Category  string `json:"category,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	Success   bool   `json:"success"`
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(payload.Message) == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	category := ""
	if payload.Category != nil {
		category = *payload.Category
	}

	token := r.Header.Get(api.SessionHeader)
	newSession := token == ""
	if newSession {
		token = newSessionToken()
	}

	ctx := r.Context()

	if err := h.store.SaveChatRecord(ctx, &models.ChatRecord{
		ID:        uuid.NewString(),
		SessionID: token,
		Origin:    models.OriginUser,
		Text:      payload.Message,
		Category:  category,
	}); err != nil {
		h.logger.Error("failed to save user turn", zap.Error(err), zap.String("session", token))
	}

	history, err := h.store.GetSessionHistory(ctx, token, 20)
	if err != nil {
		h.logger.Error("failed to load history", zap.Error(err), zap.String("session", token))
		history = nil
	}

	reply, replyCategory := h.responder.Respond(ctx, payload.Message, category, history)

	if err := h.store.SaveChatRecord(ctx, &models.ChatRecord{
		ID:        uuid.NewString(),
		SessionID: token,
		Origin:    models.OriginAssistant,
		Text:      reply,
		Category:  replyCategory,
	}); err != nil {
		h.logger.Error("failed to save assistant turn", zap.Error(err), zap.String("session", token))
	}

	resp := chatResponse{Response: reply, Category: replyCategory, Success: true}
	if newSession {
		// Tell the client which token its conversation now lives under.
		resp.SessionID = token
	}
	respondJSON(w, http.StatusOK, resp)
}

type profileResponse struct {
	Profile struct {
		Name         *string  `json:"name"`
		FitnessLevel *string  `json:"fitness_level"`
		HealthGoals  []string `json:"health_goals"`
	} `json:"profile"`
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(api.SessionHeader)
	if token == "" {
		respondError(w, http.StatusBadRequest, "missing session header")
		return
	}

	profile, err := h.store.GetProfile(r.Context(), token)
	if err != nil {
		h.logger.Error("failed to load profile", zap.Error(err), zap.String("session", token))
		respondError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	var resp profileResponse
	resp.Profile.HealthGoals = profile.HealthGoals
	if resp.Profile.HealthGoals == nil {
		resp.Profile.HealthGoals = []string{}
	}
	if profile.Name != "" {
		resp.Profile.Name = &profile.Name
	}
	if profile.FitnessLevel != "" {
		resp.Profile.FitnessLevel = &profile.FitnessLevel
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(api.SessionHeader)
	if token == "" {
		respondError(w, http.StatusBadRequest, "missing session header")
		return
	}

	var obs models.MetricObservation
	if err := json.NewDecoder(r.Body).Decode(&obs); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if obs.Type == "" {
		respondError(w, http.StatusBadRequest, "type is required")
		return
	}

	if err := h.store.SaveMetric(r.Context(), token, obs); err != nil {
		h.logger.Error("failed to save metric", zap.Error(err),
			zap.String("session", token), zap.String("type", obs.Type))
		respondError(w, http.StatusInternalServerError, "failed to save metric")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func newSessionToken() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), suffix)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
