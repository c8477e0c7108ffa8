package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"focusflow/internal/services"

	mw "focusflow/internal/middleware"
)

type Promoter interface {
	Promote(ctx context.Context, userID int, in services.PromoteInput) (int, error)
}

// PromoteHandler converts a brain-dump item into a goal.
type PromoteHandler struct {
	svc    Promoter
	logger *zap.Logger
}

func NewPromoteHandler(svc Promoter, logger *zap.Logger) *PromoteHandler {
	return &PromoteHandler{svc: svc, logger: logger}
}

type promoteRequest struct {
	BrainDumpItemID int         `json:"brainDumpItemId"`
	NewGoalData     goalPayload `json:"newGoalData"`
	IdempotencyKey  string      `json:"idempotencyKey,omitempty"`
}

type promoteResponse struct {
	NewGoalID int `json:"newGoalId"`
	goalPayload
}

func (h *PromoteHandler) Promote(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req promoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.BrainDumpItemID == 0 {
		http.Error(w, "brainDumpItemId required", http.StatusBadRequest)
		return
	}
	createdAt, err := parseCreatedAt(req.NewGoalData.CreatedAt)
	if err != nil {
		writeError(w, h.logger, err, "invalid body")
		return
	}

	goalID, err := h.svc.Promote(r.Context(), userID, services.PromoteInput{
		ItemID:         req.BrainDumpItemID,
		Title:          req.NewGoalData.Title,
		Description:    req.NewGoalData.Description,
		Deadline:       req.NewGoalData.Deadline,
		Category:       req.NewGoalData.Category,
		CreatedAt:      createdAt,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		writeError(w, h.logger, err, "failed to promote to goal")
		return
	}

	writeJSON(w, http.StatusCreated, promoteResponse{NewGoalID: goalID, goalPayload: req.NewGoalData})
}
