package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"focusflow/internal/models"
	"focusflow/internal/store"

	mw "focusflow/internal/middleware"
)

type BrainDumpStore interface {
	InsertBrainDump(ctx context.Context, userID int, in store.BrainDumpInput) (models.BrainDumpItem, error)
	UpdateBrainDump(ctx context.Context, userID, id int, text string, done bool, category string) error
	DeleteBrainDump(ctx context.Context, userID, id int) error
	ListBrainDumps(ctx context.Context, userID int) ([]models.BrainDumpItem, error)
}

type BrainDumpHandler struct {
	store  BrainDumpStore
	logger *zap.Logger
}

func NewBrainDumpHandler(store BrainDumpStore, logger *zap.Logger) *BrainDumpHandler {
	return &BrainDumpHandler{store: store, logger: logger}
}

func (h *BrainDumpHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	items, err := h.store.ListBrainDumps(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err, "failed to fetch items")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *BrainDumpHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req brainDumpPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" || strings.TrimSpace(req.Category) == "" {
		http.Error(w, "text and category required", http.StatusBadRequest)
		return
	}
	createdAt, err := parseCreatedAt(req.CreatedAt)
	if err != nil {
		writeError(w, h.logger, err, "invalid body")
		return
	}

	item, err := h.store.InsertBrainDump(r.Context(), userID, store.BrainDumpInput{
		Text:      req.Text,
		Done:      req.Done,
		Category:  req.Category,
		CreatedAt: createdAt,
	})
	if err != nil {
		writeError(w, h.logger, err, "error adding brain dump item")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *BrainDumpHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req brainDumpPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" || strings.TrimSpace(req.Category) == "" {
		http.Error(w, "text and category required", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateBrainDump(r.Context(), userID, id, req.Text, req.Done, req.Category); err != nil {
		writeError(w, h.logger, err, "error updating brain dump item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "item updated successfully"})
}

func (h *BrainDumpHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.store.DeleteBrainDump(r.Context(), userID, id); err != nil {
		writeError(w, h.logger, err, "error deleting brain dump item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
