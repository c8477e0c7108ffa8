package services

import (
	"context"
	"strings"
	"time"

	"focusflow/internal/apperr"
	"focusflow/internal/models"
	"focusflow/internal/store"
)

type GoalStore interface {
	ReplaceGoal(ctx context.Context, p store.ReplaceGoalParams) error
}

// GoalService runs the goal-update transaction: scalar fields plus wholesale
// replacement of the task and update collections.
type GoalService struct {
	store GoalStore
}

func NewGoalService(s GoalStore) *GoalService {
	return &GoalService{store: s}
}

type TaskInput struct {
	Text   string
	Done   bool
	Status string
}

type UpdateInput struct {
	Text string
}

type UpdateGoalInput struct {
	Title       string
	Description string
	Deadline    string
	Category    string
	Tasks       []TaskInput
	Updates     []UpdateInput
}

// Update replaces the goal and its children atomically. A goal that does not
// exist or belongs to another user yields ErrNotFound with nothing written.
func (s *GoalService) Update(ctx context.Context, userID, goalID int, in UpdateGoalInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return apperr.Validationf("title is required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return apperr.Validationf("category is required")
	}

	tasks := make([]store.TaskRow, 0, len(in.Tasks))
	for _, t := range in.Tasks {
		status, done, err := NormalizeTask(t)
		if err != nil {
			return err
		}
		tasks = append(tasks, store.TaskRow{Text: t.Text, Done: done, Status: status})
	}

	updates := make([]store.UpdateRow, 0, len(in.Updates))
	for _, u := range in.Updates {
		updates = append(updates, store.UpdateRow{Text: u.Text})
	}

	return s.store.ReplaceGoal(ctx, store.ReplaceGoalParams{
		UserID: userID,
		GoalID: goalID,
		Goal: store.GoalInput{
			Title:       in.Title,
			Description: in.Description,
			Deadline:    normalizeDeadline(in.Deadline),
			Category:    in.Category,
			CreatedAt:   time.Time{},
		},
		Tasks:   tasks,
		Updates: updates,
	})
}

// NormalizeTask reconciles a task's status and done flag. A missing status
// defaults to todo; done=true forces status done and status "done" forces
// done=true, so the pair can never disagree.
func NormalizeTask(t TaskInput) (models.TaskStatus, bool, error) {
	if t.Done {
		return models.TaskStatusDone, true, nil
	}
	switch models.TaskStatus(t.Status) {
	case "":
		return models.TaskStatusTodo, false, nil
	case models.TaskStatusTodo:
		return models.TaskStatusTodo, false, nil
	case models.TaskStatusDoing:
		return models.TaskStatusDoing, false, nil
	case models.TaskStatusDone:
		return models.TaskStatusDone, true, nil
	default:
		return "", false, apperr.Validationf("unknown task status %q", t.Status)
	}
}
