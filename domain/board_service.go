package domain

import (
	"context"

	"github.com/google/uuid"
)

// BoardService applies board mutations against the store.
type BoardService struct{ st Store }

func NewBoardService(st Store) BoardService { return BoardService{st: st} }

// Create persists a new board with the given column names and no tasks.
func (s BoardService) Create(ctx context.Context, name string, columns []string) (string, error) {
	b := Board{ID: uuid.NewString(), Name: name, Columns: columns}
	if err := s.st.CreateBoard(ctx, b); err != nil {
		return "", err
	}
	return b.ID, nil
}

// Edit renames the board and reconciles its column list. Tasks in removed
// columns are deleted, tasks in renamed columns follow the new name, and
// the whole sequence commits as one transaction.
func (s BoardService) Edit(ctx context.Context, boardID, name string, edit ListEdit) error {
	ops := ReconcileColumns(edit)
	return s.st.Transact(ctx, func(st Store) error {
		if _, err := st.GetBoard(ctx, boardID); err != nil {
			return err
		}
		for _, column := range ops.CascadeDeletes {
			if err := st.DeleteTasksInColumn(ctx, boardID, column); err != nil {
				return err
			}
		}
		for _, r := range ops.Renames {
			if err := st.MoveTasks(ctx, boardID, r.From, r.To); err != nil {
				return err
			}
		}
		return st.UpdateBoard(ctx, boardID, name, ops.Columns)
	})
}

// Delete removes the board, cascading to its tasks and their subtasks.
func (s BoardService) Delete(ctx context.Context, boardID string) error {
	return s.st.DeleteBoard(ctx, boardID)
}
