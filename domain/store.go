package domain

import "context"

// Store defines the persistence operations the services need. Single-row
// lookups return ErrNotFound when the id does not exist; bulk operations
// matching zero rows succeed.
type Store interface {
	CreateBoard(ctx context.Context, b Board) error
	GetBoard(ctx context.Context, id string) (*Board, error)
	UpdateBoard(ctx context.Context, id, name string, columns []string) error
	DeleteBoard(ctx context.Context, id string) error

	CreateTask(ctx context.Context, t Task) error
	GetTask(ctx context.Context, id string) (*Task, error)
	UpdateTask(ctx context.Context, id string, upd TaskUpdate) error
	DeleteTask(ctx context.Context, id string) error
	// DeleteTasksInColumn removes every task of the board whose column
	// equals the given name, together with their subtasks.
	DeleteTasksInColumn(ctx context.Context, boardID, column string) error
	// MoveTasks reassigns every task of the board from one column name to
	// another.
	MoveTasks(ctx context.Context, boardID, from, to string) error

	CreateSubtask(ctx context.Context, st Subtask) error
	UpdateSubtaskTitle(ctx context.Context, id, title string) error
	SetSubtaskCompleted(ctx context.Context, id string, completed bool) error
	DeleteSubtasks(ctx context.Context, ids []string) error

	// Transact runs fn against a store whose writes commit together or not
	// at all.
	Transact(ctx context.Context, fn func(Store) error) error
}
