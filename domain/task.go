package domain

// Task represents a single board item.
type Task struct {
	ID          string    `json:"id"`
	BoardID     string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Column      string    `json:"column"`
	Subtasks    []Subtask `json:"subtasks"`
}

// TaskUpdate carries partial updates for a task. Nil fields are left
// untouched by the store.
type TaskUpdate struct {
	Title       *string
	Description *string
	Column      *string
}

// Subtask is a checklist item owned by a task.
type Subtask struct {
	ID        string `json:"id"`
	TaskID    string `json:"-"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}
