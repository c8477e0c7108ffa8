package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/internal/apperr"
	"focusflow/internal/models"
	"focusflow/internal/store"
)

func TestNormalizeTask(t *testing.T) {
	tests := []struct {
		name       string
		in         TaskInput
		wantStatus models.TaskStatus
		wantDone   bool
		wantErr    bool
	}{
		{"missing status defaults to todo", TaskInput{Text: "Call Mom"}, models.TaskStatusTodo, false, false},
		{"todo stays todo", TaskInput{Text: "x", Status: "todo"}, models.TaskStatusTodo, false, false},
		{"doing stays doing", TaskInput{Text: "x", Status: "doing"}, models.TaskStatusDoing, false, false},
		{"status done forces done flag", TaskInput{Text: "x", Status: "done"}, models.TaskStatusDone, true, false},
		{"done flag forces status done", TaskInput{Text: "x", Done: true, Status: "todo"}, models.TaskStatusDone, true, false},
		{"done flag with empty status", TaskInput{Text: "x", Done: true}, models.TaskStatusDone, true, false},
		{"unknown status rejected", TaskInput{Text: "x", Status: "blocked"}, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, done, err := NormalizeTask(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperr.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantDone, done)
			// the invariant itself
			assert.Equal(t, done, status == models.TaskStatusDone)
		})
	}
}

type fakeGoalStore struct {
	replaced []store.ReplaceGoalParams
	err      error
}

func (f *fakeGoalStore) ReplaceGoal(ctx context.Context, p store.ReplaceGoalParams) error {
	f.replaced = append(f.replaced, p)
	return f.err
}

func TestGoalUpdate_NormalizesAndPreservesOrder(t *testing.T) {
	st := &fakeGoalStore{}
	svc := NewGoalService(st)

	err := svc.Update(context.Background(), 1, 5, UpdateGoalInput{
		Title:    "Ship v1",
		Category: "work",
		Tasks: []TaskInput{
			{Text: "Call Mom"},
			{Text: "Write report", Done: true},
			{Text: "Review PR", Status: "doing"},
		},
		Updates: []UpdateInput{{Text: "kickoff done"}, {Text: "halfway"}},
	})
	require.NoError(t, err)
	require.Len(t, st.replaced, 1)

	p := st.replaced[0]
	assert.Equal(t, 1, p.UserID)
	assert.Equal(t, 5, p.GoalID)
	require.Len(t, p.Tasks, 3)
	assert.Equal(t, "Call Mom", p.Tasks[0].Text)
	assert.Equal(t, models.TaskStatusTodo, p.Tasks[0].Status)
	assert.False(t, p.Tasks[0].Done)
	assert.Equal(t, models.TaskStatusDone, p.Tasks[1].Status)
	assert.True(t, p.Tasks[1].Done)
	assert.Equal(t, models.TaskStatusDoing, p.Tasks[2].Status)
	require.Len(t, p.Updates, 2)
	assert.Equal(t, "kickoff done", p.Updates[0].Text)
	assert.Equal(t, "halfway", p.Updates[1].Text)
}

func TestGoalUpdate_EmptyCollectionsClearChildren(t *testing.T) {
	st := &fakeGoalStore{}
	svc := NewGoalService(st)

	err := svc.Update(context.Background(), 1, 5, UpdateGoalInput{
		Title:    "Ship v1",
		Category: "work",
	})
	require.NoError(t, err)
	require.Len(t, st.replaced, 1)
	assert.Empty(t, st.replaced[0].Tasks)
	assert.Empty(t, st.replaced[0].Updates)
}

func TestGoalUpdate_DeadlineNormalized(t *testing.T) {
	st := &fakeGoalStore{}
	svc := NewGoalService(st)

	require.NoError(t, svc.Update(context.Background(), 1, 5, UpdateGoalInput{
		Title: "Ship v1", Category: "work", Deadline: "",
	}))
	assert.Nil(t, st.replaced[0].Goal.Deadline)

	require.NoError(t, svc.Update(context.Background(), 1, 5, UpdateGoalInput{
		Title: "Ship v1", Category: "work", Deadline: "2025-07-01",
	}))
	require.NotNil(t, st.replaced[1].Goal.Deadline)
	assert.Equal(t, "2025-07-01", *st.replaced[1].Goal.Deadline)
}

func TestGoalUpdate_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   UpdateGoalInput
	}{
		{"missing title", UpdateGoalInput{Category: "work"}},
		{"missing category", UpdateGoalInput{Title: "Ship v1"}},
		{"bad task status", UpdateGoalInput{Title: "Ship v1", Category: "work", Tasks: []TaskInput{{Text: "x", Status: "blocked"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &fakeGoalStore{}
			svc := NewGoalService(st)
			err := svc.Update(context.Background(), 1, 5, tt.in)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Empty(t, st.replaced)
		})
	}
}

func TestGoalUpdate_NotFoundPassesThrough(t *testing.T) {
	st := &fakeGoalStore{err: apperr.ErrNotFound}
	svc := NewGoalService(st)

	err := svc.Update(context.Background(), 2, 5, UpdateGoalInput{Title: "Hijack", Category: "work"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
