package handlers

import (
	"time"

	"focusflow/internal/apperr"
)

// Request payloads use the client's camelCase field names; persisted entities
// serialize with their own tags in internal/models.

type goalPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Category    string `json:"category"`
	CreatedAt   string `json:"createdAt"`
}

type taskPayload struct {
	Text   string `json:"text"`
	Done   bool   `json:"done"`
	Status string `json:"status"`
}

type updatePayload struct {
	Text string `json:"text"`
}

type brainDumpPayload struct {
	Text      string `json:"text"`
	Done      bool   `json:"done"`
	Category  string `json:"category"`
	CreatedAt string `json:"createdAt"`
}

// parseCreatedAt accepts the client's timestamp, falling back to now. The
// frontend sends ISO strings; date-only is tolerated for older clients.
func parseCreatedAt(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.Validationf("invalid createdAt; expected RFC3339 or YYYY-MM-DD")
}
