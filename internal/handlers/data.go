package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"focusflow/internal/models"

	mw "focusflow/internal/middleware"
)

type DataStore interface {
	ListGoalsWithChildren(ctx context.Context, userID int) ([]models.Goal, error)
	ListBrainDumps(ctx context.Context, userID int) ([]models.BrainDumpItem, error)
}

// DataHandler serves the single payload the frontend hydrates from.
type DataHandler struct {
	store  DataStore
	logger *zap.Logger
}

func NewDataHandler(store DataStore, logger *zap.Logger) *DataHandler {
	return &DataHandler{store: store, logger: logger}
}

type dataResponse struct {
	Goals      []models.Goal          `json:"goals"`
	BrainDumps []models.BrainDumpItem `json:"brainDumps"`
}

func (h *DataHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	goals, err := h.store.ListGoalsWithChildren(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err, "failed to fetch goals")
		return
	}
	dumps, err := h.store.ListBrainDumps(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err, "failed to fetch brain dumps")
		return
	}

	writeJSON(w, http.StatusOK, dataResponse{Goals: goals, BrainDumps: dumps})
}
