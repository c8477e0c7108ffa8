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
	"focusflow/internal/services"
	"focusflow/internal/store"

	mw "focusflow/internal/middleware"
)

type GoalStore interface {
	InsertGoal(ctx context.Context, userID int, in store.GoalInput) (models.Goal, error)
	DeleteGoal(ctx context.Context, userID, id int) error
	ListGoalsWithChildren(ctx context.Context, userID int) ([]models.Goal, error)
}

type GoalUpdater interface {
	Update(ctx context.Context, userID, goalID int, in services.UpdateGoalInput) error
}

type GoalHandler struct {
	store   GoalStore
	updater GoalUpdater
	logger  *zap.Logger
}

func NewGoalHandler(store GoalStore, updater GoalUpdater, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{store: store, updater: updater, logger: logger}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req goalPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Category) == "" {
		http.Error(w, "title and category required", http.StatusBadRequest)
		return
	}
	createdAt, err := parseCreatedAt(req.CreatedAt)
	if err != nil {
		writeError(w, h.logger, err, "invalid body")
		return
	}

	var deadline *string
	if d := strings.TrimSpace(req.Deadline); d != "" {
		deadline = &d
	}

	goal, err := h.store.InsertGoal(r.Context(), userID, store.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    deadline,
		Category:    req.Category,
		CreatedAt:   createdAt,
	})
	if err != nil {
		writeError(w, h.logger, err, "error adding goal")
		return
	}
	writeJSON(w, http.StatusCreated, goal)
}

type updateGoalRequest struct {
	goalPayload
	Tasks   []taskPayload   `json:"tasks"`
	Updates []updatePayload `json:"updates"`
}

// Update replaces the goal's fields and its full task/update collections in
// one transaction via the goal service.
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	goalID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req updateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	in := services.UpdateGoalInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Category:    req.Category,
	}
	for _, t := range req.Tasks {
		in.Tasks = append(in.Tasks, services.TaskInput{Text: t.Text, Done: t.Done, Status: t.Status})
	}
	for _, u := range req.Updates {
		in.Updates = append(in.Updates, services.UpdateInput{Text: u.Text})
	}

	if err := h.updater.Update(r.Context(), userID, goalID, in); err != nil {
		writeError(w, h.logger, err, "error updating goal")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "goal updated successfully"})
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := mw.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	goalID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.store.DeleteGoal(r.Context(), userID, goalID); err != nil {
		writeError(w, h.logger, err, "error deleting goal")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
