package api

import (
	"context"

	"kanban-api/domain"
)

// Boards is the board mutation surface handlers dispatch to.
type Boards interface {
	Create(ctx context.Context, name string, columns []string) (string, error)
	Edit(ctx context.Context, boardID, name string, edit domain.ListEdit) error
	Delete(ctx context.Context, boardID string) error
}

// Tasks is the task and subtask mutation surface handlers dispatch to.
type Tasks interface {
	Create(ctx context.Context, boardID, title, description, column string, subtasks []string) (string, error)
	Edit(ctx context.Context, taskID string, upd domain.TaskUpdate, edit domain.ListEdit) error
	Delete(ctx context.Context, taskID string) error
	Move(ctx context.Context, taskID, column string) error
	ToggleSubtask(ctx context.Context, subtaskID string, completed bool) error
}

// Views serves the read side and invalidates it after mutations.
type Views interface {
	FetchBoards(ctx context.Context) ([]domain.BoardSummary, error)
	FetchBoard(ctx context.Context, id string) (*domain.BoardView, error)
	EvictBoard(ctx context.Context, id string)
	EvictBoards(ctx context.Context)
}
