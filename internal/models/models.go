package models

import "time"

type User struct {
	ID           int       `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type BrainDumpItem struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"-"`
	Text      string    `db:"text" json:"text"`
	Done      bool      `db:"done" json:"done"`
	Category  string    `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TaskStatus is the kanban column a task sits in. The invariant is that
// status == "done" exactly when the task's Done flag is true.
type TaskStatus string

const (
	TaskStatusTodo  TaskStatus = "todo"
	TaskStatusDoing TaskStatus = "doing"
	TaskStatusDone  TaskStatus = "done"
)

type Task struct {
	ID     int        `db:"id" json:"id"`
	GoalID int        `db:"goal_id" json:"goal_id"`
	Text   string     `db:"text" json:"text"`
	Done   bool       `db:"done" json:"done"`
	Status TaskStatus `db:"status" json:"status"`
}

type GoalUpdate struct {
	ID     int    `db:"id" json:"id"`
	GoalID int    `db:"goal_id" json:"goal_id"`
	Text   string `db:"text" json:"text"`
}

// Goal owns its tasks and updates. Both collections are replaced wholesale on
// update and removed with the goal on delete.
type Goal struct {
	ID           int          `db:"id" json:"id"`
	UserID       int          `db:"user_id" json:"-"`
	Title        string       `db:"title" json:"title"`
	Description  string       `db:"description" json:"description"`
	Deadline     *string      `db:"deadline" json:"deadline"`
	Category     string       `db:"category" json:"category"`
	PromotionKey *string      `db:"promotion_key" json:"-"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	Tasks        []Task       `json:"tasks"`
	Updates      []GoalUpdate `json:"updates"`
}
