package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"focusflow/internal/apperr"
	"focusflow/internal/services"
)

type fakePromoter struct {
	gotUserID int
	gotInput  services.PromoteInput
	id        int
	err       error
	calls     int
}

func (f *fakePromoter) Promote(ctx context.Context, userID int, in services.PromoteInput) (int, error) {
	f.calls++
	f.gotUserID = userID
	f.gotInput = in
	return f.id, f.err
}

func newPromoteRouter(svc Promoter) http.Handler {
	h := NewPromoteHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Use(asUser(1))
	r.Post("/api/promote-to-goal", h.Promote)
	return r
}

func TestPromoteEndpoint(t *testing.T) {
	svc := &fakePromoter{id: 42}
	router := newPromoteRouter(svc)

	body := `{"brainDumpItemId": 7, "newGoalData": {"title": "Buy milk", "description": "weekly", "deadline": "", "category": "work", "createdAt": "2025-06-01T12:00:00Z"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/promote-to-goal", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(42), resp["newGoalId"])
	assert.Equal(t, "Buy milk", resp["title"])
	assert.Equal(t, "work", resp["category"])

	assert.Equal(t, 1, svc.gotUserID)
	assert.Equal(t, 7, svc.gotInput.ItemID)
}

func TestPromoteEndpoint_ItemNotFound(t *testing.T) {
	svc := &fakePromoter{err: fmt.Errorf("brain dump item not found for deletion: %w", apperr.ErrNotFound)}
	router := newPromoteRouter(svc)

	body := `{"brainDumpItemId": 999, "newGoalData": {"title": "Ghost", "category": "work"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/promote-to-goal", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not found")
}

func TestPromoteEndpoint_CategoryFull(t *testing.T) {
	svc := &fakePromoter{err: fmt.Errorf("category %q: %w", "work", apperr.ErrGoalLimit)}
	router := newPromoteRouter(svc)

	body := `{"brainDumpItemId": 7, "newGoalData": {"title": "Buy milk", "category": "work"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/promote-to-goal", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "goal limit")
}

func TestPromoteEndpoint_MissingItemID(t *testing.T) {
	svc := &fakePromoter{}
	router := newPromoteRouter(svc)

	body := `{"newGoalData": {"title": "Buy milk", "category": "work"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/promote-to-goal", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.calls)
}

func TestPromoteEndpoint_StorageError(t *testing.T) {
	svc := &fakePromoter{err: fmt.Errorf("commit promotion: connection reset")}
	router := newPromoteRouter(svc)

	body := `{"brainDumpItemId": 7, "newGoalData": {"title": "Buy milk", "category": "work"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/promote-to-goal", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// internal detail is logged, not leaked
	assert.NotContains(t, rec.Body.String(), "connection reset")
}
