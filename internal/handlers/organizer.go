package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type Organizer interface {
	OrganizeDump(ctx context.Context, text, category string) ([]string, error)
	DescribeGoal(ctx context.Context, title string) (string, error)
}

// OrganizerHandler fronts the text-generation collaborator. It never touches
// storage, so a canceled or timed-out call leaves no partial state behind.
type OrganizerHandler struct {
	svc    Organizer // nil when no API key is configured
	logger *zap.Logger
}

func NewOrganizerHandler(svc Organizer, logger *zap.Logger) *OrganizerHandler {
	return &OrganizerHandler{svc: svc, logger: logger}
}

type organizeRequest struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

func (h *OrganizerHandler) Organize(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		http.Error(w, "organizer is not configured", http.StatusServiceUnavailable)
		return
	}
	var req organizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text required", http.StatusBadRequest)
		return
	}

	tasks, err := h.svc.OrganizeDump(r.Context(), req.Text, req.Category)
	if err != nil {
		writeError(w, h.logger, err, "failed to organize brain dump")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

type describeRequest struct {
	Title string `json:"title"`
}

func (h *OrganizerHandler) Describe(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		http.Error(w, "organizer is not configured", http.StatusServiceUnavailable)
		return
	}
	var req describeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		http.Error(w, "title required", http.StatusBadRequest)
		return
	}

	desc, err := h.svc.DescribeGoal(r.Context(), req.Title)
	if err != nil {
		writeError(w, h.logger, err, "failed to generate description")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"description": desc})
}
