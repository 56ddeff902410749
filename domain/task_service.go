package domain

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

// TaskService applies task and subtask mutations against the store.
type TaskService struct{ st Store }

func NewTaskService(st Store) TaskService { return TaskService{st: st} }

// Create persists a new task under the board and column, with one
// uncompleted subtask per given title.
func (s TaskService) Create(ctx context.Context, boardID, title, description, column string, subtasks []string) (string, error) {
	t := Task{
		ID:          uuid.NewString(),
		BoardID:     boardID,
		Title:       title,
		Description: description,
		Column:      column,
	}
	err := s.st.Transact(ctx, func(st Store) error {
		if err := st.CreateTask(ctx, t); err != nil {
			return err
		}
		for _, subTitle := range subtasks {
			sub := Subtask{ID: uuid.NewString(), TaskID: t.ID, Title: subTitle}
			if err := st.CreateSubtask(ctx, sub); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return t.ID, nil
}

// Edit updates the task's scalar fields and reconciles its subtask list in
// one transaction. Subtask creates and updates run before deletes.
func (s TaskService) Edit(ctx context.Context, taskID string, upd TaskUpdate, edit ListEdit) error {
	ops := ReconcileSubtasks(edit)
	return s.st.Transact(ctx, func(st Store) error {
		task, err := st.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if err := st.UpdateTask(ctx, task.ID, upd); err != nil {
			return err
		}
		for _, subTitle := range ops.Creates {
			sub := Subtask{ID: uuid.NewString(), TaskID: task.ID, Title: subTitle}
			if err := st.CreateSubtask(ctx, sub); err != nil {
				return err
			}
		}
		for _, kept := range ops.Updates {
			if err := st.UpdateSubtaskTitle(ctx, kept.ID, kept.Title); err != nil {
				return err
			}
		}
		if len(ops.Deletes) > 0 {
			if err := st.DeleteSubtasks(ctx, ops.Deletes); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the task and its subtasks.
func (s TaskService) Delete(ctx context.Context, taskID string) error {
	return s.st.DeleteTask(ctx, taskID)
}

// Move reassigns the task to another of its board's columns. The target
// column must exist on the board.
func (s TaskService) Move(ctx context.Context, taskID, column string) error {
	task, err := s.st.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	board, err := s.st.GetBoard(ctx, task.BoardID)
	if err != nil {
		return err
	}
	if !slices.Contains(board.Columns, column) {
		return Validationf("column %q is not on board %q", column, board.Name)
	}
	return s.st.UpdateTask(ctx, taskID, TaskUpdate{Column: &column})
}

// ToggleSubtask sets the subtask's completed flag. Applying the same value
// twice leaves the store unchanged.
func (s TaskService) ToggleSubtask(ctx context.Context, subtaskID string, completed bool) error {
	return s.st.SetSubtaskCompleted(ctx, subtaskID, completed)
}
