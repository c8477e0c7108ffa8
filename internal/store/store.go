// Package store owns all persisted entities. Every operation is scoped by
// user id, and every write touching more than one table runs inside a single
// transaction so no partial state is ever observable.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"focusflow/internal/apperr"
	"focusflow/internal/models"
)

// Repository wraps the injected connection pool. It is created once at
// startup; there is no global handle.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- users ---

func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string) (models.User, error) {
	var u models.User
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id, username, password_hash, created_at`,
		username, passwordHash).StructScan(&u)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("user %q: %w", username, apperr.ErrConflict)
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var u models.User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, username, password_hash, created_at FROM users WHERE username=$1`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperr.ErrNotFound
		}
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// --- brain dumps ---

type BrainDumpInput struct {
	Text      string
	Done      bool
	Category  string
	CreatedAt time.Time
}

func (r *Repository) InsertBrainDump(ctx context.Context, userID int, in BrainDumpInput) (models.BrainDumpItem, error) {
	var item models.BrainDumpItem
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO brain_dumps (user_id, text, done, category, created_at) VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, user_id, text, done, category, created_at`,
		userID, in.Text, in.Done, in.Category, in.CreatedAt).StructScan(&item)
	if err != nil {
		return models.BrainDumpItem{}, fmt.Errorf("insert brain dump: %w", err)
	}
	return item, nil
}

func (r *Repository) UpdateBrainDump(ctx context.Context, userID, id int, text string, done bool, category string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE brain_dumps SET text=$1, done=$2, category=$3 WHERE id=$4 AND user_id=$5`,
		text, done, category, id, userID)
	if err != nil {
		return fmt.Errorf("update brain dump: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteBrainDump treats a missing row and a row owned by another user the
// same way; callers cannot tell the two apart.
func (r *Repository) DeleteBrainDump(ctx context.Context, userID, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM brain_dumps WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete brain dump: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *Repository) ListBrainDumps(ctx context.Context, userID int) ([]models.BrainDumpItem, error) {
	items := []models.BrainDumpItem{}
	err := r.db.SelectContext(ctx, &items,
		`SELECT id, user_id, text, done, category, created_at FROM brain_dumps WHERE user_id=$1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list brain dumps: %w", err)
	}
	return items, nil
}

// --- goals ---

type GoalInput struct {
	Title       string
	Description string
	Deadline    *string
	Category    string
	CreatedAt   time.Time
}

func (r *Repository) InsertGoal(ctx context.Context, userID int, in GoalInput) (models.Goal, error) {
	var g models.Goal
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO goals (user_id, title, description, deadline, category, created_at) VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, user_id, title, description, deadline, category, promotion_key, created_at`,
		userID, in.Title, in.Description, in.Deadline, in.Category, in.CreatedAt).StructScan(&g)
	if err != nil {
		return models.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	g.Tasks = []models.Task{}
	g.Updates = []models.GoalUpdate{}
	return g, nil
}

func (r *Repository) DeleteGoal(ctx context.Context, userID, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *Repository) CountGoalsByCategory(ctx context.Context, userID int, category string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM goals WHERE user_id=$1 AND category=$2`, userID, category)
	if err != nil {
		return 0, fmt.Errorf("count goals: %w", err)
	}
	return n, nil
}

// ListGoalsWithChildren loads every goal for the user and attaches tasks and
// updates with two batched IN queries instead of one pair per goal.
func (r *Repository) ListGoalsWithChildren(ctx context.Context, userID int) ([]models.Goal, error) {
	goals := []models.Goal{}
	err := r.db.SelectContext(ctx, &goals,
		`SELECT id, user_id, title, description, deadline, category, promotion_key, created_at FROM goals WHERE user_id=$1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	if len(goals) == 0 {
		return goals, nil
	}

	ids := make([]int, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}

	query, args, err := sqlx.In(`SELECT id, goal_id, text, done, status FROM tasks WHERE goal_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("build tasks query: %w", err)
	}
	tasks := []models.Task{}
	if err := r.db.SelectContext(ctx, &tasks, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	query, args, err = sqlx.In(`SELECT id, goal_id, text FROM goal_updates WHERE goal_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("build updates query: %w", err)
	}
	updates := []models.GoalUpdate{}
	if err := r.db.SelectContext(ctx, &updates, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list goal updates: %w", err)
	}

	tasksByGoal := map[int][]models.Task{}
	for _, t := range tasks {
		tasksByGoal[t.GoalID] = append(tasksByGoal[t.GoalID], t)
	}
	updatesByGoal := map[int][]models.GoalUpdate{}
	for _, u := range updates {
		updatesByGoal[u.GoalID] = append(updatesByGoal[u.GoalID], u)
	}
	for i := range goals {
		goals[i].Tasks = tasksByGoal[goals[i].ID]
		if goals[i].Tasks == nil {
			goals[i].Tasks = []models.Task{}
		}
		goals[i].Updates = updatesByGoal[goals[i].ID]
		if goals[i].Updates == nil {
			goals[i].Updates = []models.GoalUpdate{}
		}
	}
	return goals, nil
}

// --- promotion transaction ---

type PromoteParams struct {
	UserID       int
	ItemID       int
	Goal         GoalInput
	PromotionKey *string
}

// GoalIDByPromotionKey returns the goal a previous promotion created under
// this key, or ErrNotFound when the key has never been used.
func (r *Repository) GoalIDByPromotionKey(ctx context.Context, userID int, key string) (int, error) {
	var id int
	err := r.db.GetContext(ctx, &id,
		`SELECT id FROM goals WHERE user_id=$1 AND promotion_key=$2`, userID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.ErrNotFound
		}
		return 0, fmt.Errorf("check promotion key: %w", err)
	}
	return id, nil
}

// PromoteBrainDump converts a brain-dump item into a goal: insert the goal,
// delete the source item, both in one transaction. A zero-row delete means
// the item does not exist for this user, so the whole thing rolls back rather
// than leave a goal with its source still in the dump list.
//
// Two concurrent first attempts with the same promotion key race on the
// unique constraint; the loser rolls back and returns the winner's goal id.
func (r *Repository) PromoteBrainDump(ctx context.Context, p PromoteParams) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var goalID int
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO goals (user_id, title, description, deadline, category, promotion_key, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		p.UserID, p.Goal.Title, p.Goal.Description, p.Goal.Deadline, p.Goal.Category, p.PromotionKey, p.Goal.CreatedAt).Scan(&goalID)
	if err != nil {
		if p.PromotionKey != nil && isUniqueViolation(err) {
			tx.Rollback()
			return r.GoalIDByPromotionKey(ctx, p.UserID, *p.PromotionKey)
		}
		return 0, fmt.Errorf("insert promoted goal: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM brain_dumps WHERE id=$1 AND user_id=$2`, p.ItemID, p.UserID)
	if err != nil {
		return 0, fmt.Errorf("delete promoted brain dump: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return 0, fmt.Errorf("brain dump item not found for deletion: %w", apperr.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit promotion: %w", err)
	}
	return goalID, nil
}

// --- goal replace transaction ---

type TaskRow struct {
	Text   string
	Done   bool
	Status models.TaskStatus
}

type UpdateRow struct {
	Text string
}

type ReplaceGoalParams struct {
	UserID  int
	GoalID  int
	Goal    GoalInput
	Tasks   []TaskRow
	Updates []UpdateRow
}

// ReplaceGoal updates a goal's scalar fields and replaces its task and update
// collections wholesale. A zero-row update on the goal itself short-circuits
// the transaction before any child rows are touched; otherwise an update
// against somebody else's goal would still insert orphaned children.
func (r *Repository) ReplaceGoal(ctx context.Context, p ReplaceGoalParams) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE goals SET title=$1, description=$2, deadline=$3, category=$4 WHERE id=$5 AND user_id=$6`,
		p.Goal.Title, p.Goal.Description, p.Goal.Deadline, p.Goal.Category, p.GoalID, p.UserID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return apperr.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE goal_id=$1`, p.GoalID); err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM goal_updates WHERE goal_id=$1`, p.GoalID); err != nil {
		return fmt.Errorf("delete goal updates: %w", err)
	}

	for _, t := range p.Tasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (goal_id, text, done, status) VALUES ($1, $2, $3, $4)`,
			p.GoalID, t.Text, t.Done, t.Status); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
	}
	for _, u := range p.Updates {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO goal_updates (goal_id, text) VALUES ($1, $2)`,
			p.GoalID, u.Text); err != nil {
			return fmt.Errorf("insert goal update: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit goal replace: %w", err)
	}
	return nil
}
