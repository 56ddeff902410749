package domain

import (
	"context"
	"fmt"
)

// fakeStore keeps everything in maps and records the order of mutating
// operations so tests can assert on write sequencing.
type fakeStore struct {
	boards   map[string]Board
	tasks    map[string]Task
	subtasks map[string]Subtask
	ops      []string
	failOn   string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		boards:   map[string]Board{},
		tasks:    map[string]Task{},
		subtasks: map[string]Subtask{},
	}
}

func (f *fakeStore) fail(op string) error {
	if f.failOn != "" && f.failOn == op {
		return fmt.Errorf("store rejected %s", op)
	}
	return nil
}

func (f *fakeStore) CreateBoard(ctx context.Context, b Board) error {
	if err := f.fail("create-board"); err != nil {
		return err
	}
	f.ops = append(f.ops, "create-board")
	f.boards[b.ID] = b
	return nil
}

func (f *fakeStore) GetBoard(ctx context.Context, id string) (*Board, error) {
	b, ok := f.boards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (f *fakeStore) UpdateBoard(ctx context.Context, id, name string, columns []string) error {
	if err := f.fail("update-board"); err != nil {
		return err
	}
	b, ok := f.boards[id]
	if !ok {
		return ErrNotFound
	}
	f.ops = append(f.ops, "update-board")
	b.Name = name
	b.Columns = columns
	f.boards[id] = b
	return nil
}

func (f *fakeStore) DeleteBoard(ctx context.Context, id string) error {
	if _, ok := f.boards[id]; !ok {
		return ErrNotFound
	}
	f.ops = append(f.ops, "delete-board")
	delete(f.boards, id)
	for tid, t := range f.tasks {
		if t.BoardID == id {
			f.deleteTaskCascade(tid)
		}
	}
	return nil
}

func (f *fakeStore) CreateTask(ctx context.Context, t Task) error {
	if err := f.fail("create-task"); err != nil {
		return err
	}
	f.ops = append(f.ops, "create-task:"+t.Title)
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeStore) GetTask(ctx context.Context, id string) (*Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (f *fakeStore) UpdateTask(ctx context.Context, id string, upd TaskUpdate) error {
	t, ok := f.tasks[id]
	if !ok {
		return ErrNotFound
	}
	f.ops = append(f.ops, "update-task")
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Column != nil {
		t.Column = *upd.Column
	}
	f.tasks[id] = t
	return nil
}

func (f *fakeStore) DeleteTask(ctx context.Context, id string) error {
	if _, ok := f.tasks[id]; !ok {
		return ErrNotFound
	}
	f.ops = append(f.ops, "delete-task")
	f.deleteTaskCascade(id)
	return nil
}

func (f *fakeStore) DeleteTasksInColumn(ctx context.Context, boardID, column string) error {
	f.ops = append(f.ops, "delete-tasks-in:"+column)
	for id, t := range f.tasks {
		if t.BoardID == boardID && t.Column == column {
			f.deleteTaskCascade(id)
		}
	}
	return nil
}

func (f *fakeStore) MoveTasks(ctx context.Context, boardID, from, to string) error {
	f.ops = append(f.ops, "move-tasks:"+from+">"+to)
	for id, t := range f.tasks {
		if t.BoardID == boardID && t.Column == from {
			t.Column = to
			f.tasks[id] = t
		}
	}
	return nil
}

func (f *fakeStore) CreateSubtask(ctx context.Context, st Subtask) error {
	if err := f.fail("create-subtask"); err != nil {
		return err
	}
	f.ops = append(f.ops, "create-subtask:"+st.Title)
	f.subtasks[st.ID] = st
	return nil
}

func (f *fakeStore) UpdateSubtaskTitle(ctx context.Context, id, title string) error {
	st, ok := f.subtasks[id]
	if !ok {
		return ErrNotFound
	}
	f.ops = append(f.ops, "update-subtask:"+id)
	st.Title = title
	f.subtasks[id] = st
	return nil
}

func (f *fakeStore) SetSubtaskCompleted(ctx context.Context, id string, completed bool) error {
	st, ok := f.subtasks[id]
	if !ok {
		return ErrNotFound
	}
	f.ops = append(f.ops, fmt.Sprintf("set-completed:%s:%t", id, completed))
	st.Completed = completed
	f.subtasks[id] = st
	return nil
}

func (f *fakeStore) DeleteSubtasks(ctx context.Context, ids []string) error {
	f.ops = append(f.ops, "delete-subtasks")
	for _, id := range ids {
		delete(f.subtasks, id)
	}
	return nil
}

func (f *fakeStore) Transact(ctx context.Context, fn func(Store) error) error {
	return fn(f)
}

func (f *fakeStore) deleteTaskCascade(id string) {
	delete(f.tasks, id)
	for sid, st := range f.subtasks {
		if st.TaskID == id {
			delete(f.subtasks, sid)
		}
	}
}

func (f *fakeStore) subtasksOf(taskID string) []Subtask {
	var out []Subtask
	for _, st := range f.subtasks {
		if st.TaskID == taskID {
			out = append(out, st)
		}
	}
	return out
}
