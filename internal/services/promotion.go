package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"focusflow/internal/apperr"
	"focusflow/internal/store"
)

// MaxGoalsPerCategory caps the "Big 3" per category. The check lives here
// rather than in the client so the limit cannot be bypassed by talking to the
// API directly.
const MaxGoalsPerCategory = 3

type PromotionStore interface {
	CountGoalsByCategory(ctx context.Context, userID int, category string) (int, error)
	GoalIDByPromotionKey(ctx context.Context, userID int, key string) (int, error)
	PromoteBrainDump(ctx context.Context, p store.PromoteParams) (int, error)
}

// PromotionService converts a brain-dump item into a tracked goal.
type PromotionService struct {
	store PromotionStore
}

func NewPromotionService(s PromotionStore) *PromotionService {
	return &PromotionService{store: s}
}

type PromoteInput struct {
	ItemID         int
	Title          string
	Description    string
	Deadline       string
	Category       string
	CreatedAt      time.Time
	IdempotencyKey string
}

// Promote checks the category limit, normalizes the goal fields and runs the
// atomic insert-goal/delete-item transaction. On success the item is gone and
// the goal exists; on any failure neither changes.
func (s *PromotionService) Promote(ctx context.Context, userID int, in PromoteInput) (int, error) {
	if strings.TrimSpace(in.Title) == "" {
		return 0, apperr.Validationf("title is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return 0, apperr.Validationf("category is required")
	}

	var key *string
	if in.IdempotencyKey != "" {
		if _, err := uuid.Parse(in.IdempotencyKey); err != nil {
			return 0, apperr.Validationf("idempotency key must be a UUID")
		}
		key = &in.IdempotencyKey
	}

	// A replayed key returns the goal the first attempt created. This has to
	// happen before the limit check: the first attempt may itself have filled
	// the category.
	if key != nil {
		id, err := s.store.GoalIDByPromotionKey(ctx, userID, *key)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return 0, err
		}
	}

	n, err := s.store.CountGoalsByCategory(ctx, userID, in.Category)
	if err != nil {
		return 0, err
	}
	if n >= MaxGoalsPerCategory {
		return 0, fmt.Errorf("category %q: %w", in.Category, apperr.ErrGoalLimit)
	}

	return s.store.PromoteBrainDump(ctx, store.PromoteParams{
		UserID: userID,
		ItemID: in.ItemID,
		Goal: store.GoalInput{
			Title:       in.Title,
			Description: in.Description,
			Deadline:    normalizeDeadline(in.Deadline),
			Category:    in.Category,
			CreatedAt:   in.CreatedAt,
		},
		PromotionKey: key,
	})
}

// normalizeDeadline stores an absent deadline as NULL, never as "".
func normalizeDeadline(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
